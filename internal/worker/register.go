package worker

import (
	"github.com/hibiken/asynq"
)

func RegisterHandlers(mux *asynq.ServeMux, reports *ReportTaskHandler) {
	mux.HandleFunc(TypeReportGenerate, reports.Handle)
}
