package worker

import (
	"encoding/json"
	"path/filepath"
	"time"

	"po-analytics/internal/models"

	"github.com/hibiken/asynq"
)

// TypeReportGenerate renders a report file for a stored upload session
const TypeReportGenerate = "report:generate"

// JobTTL is how long job status and the rendered file stay retrievable
const JobTTL = 24 * time.Hour

type ReportPayload struct {
	JobID       string              `json:"job_id"`
	SessionCode string              `json:"session_code"`
	Vendor      string              `json:"vendor"`
	Format      models.ReportFormat `json:"format"`
}

// NewReportTask builds the task for one report job
func NewReportTask(job *models.ReportJob) (*asynq.Task, error) {
	payload, err := json.Marshal(ReportPayload{
		JobID:       job.ID,
		SessionCode: job.SessionCode,
		Vendor:      job.Vendor,
		Format:      job.Format,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReportGenerate, payload, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute)), nil
}

// ReportFilePath is where the worker writes a job's file. Only the job id and the
// extension reach the file system; the readable FileName is for Content-Disposition.
func ReportFilePath(exportDir string, job *models.ReportJob) string {
	return filepath.Join(exportDir, filepath.Base(job.ID)+filepath.Ext(job.FileName))
}
