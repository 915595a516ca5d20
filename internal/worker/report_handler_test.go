package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"po-analytics/internal/analysis"
	"po-analytics/internal/models"
	"po-analytics/internal/repository"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler *ReportTaskHandler
	jobs    *repository.MemoryJobStore
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger, _ := test.NewNullLogger()
	datasets := repository.NewMemoryDatasetStore()
	ds := analysis.NewDataset(
		[]string{analysis.ColumnVendor, analysis.ColumnPOCode, analysis.ColumnAmount, analysis.ColumnStatus},
		[][]string{
			{"PT Satu", "PO-1", "50000", "Approved"},
			{"PT Dua", "PO-2", "7500000", "Approved"},
			{"x/../../escaped", "PO-3", "1000", "Approved"},
			{"CV Maju/Jaya", "PO-4", "2000", "Approved"},
		},
	)
	require.NoError(t, datasets.Save(context.Background(), "UPLOAD-test", ds, time.Hour))

	analysisService := service.NewAnalysisService(datasets, nil, service.NewExcelService(), time.Hour, logger)
	exports := service.NewExportService(
		service.NewReportService(),
		service.NewPDFService(utils.NewNumberFormatter("id-ID")),
		service.NewCSVService(),
	)

	jobs := repository.NewMemoryJobStore()
	dir := filepath.Join(t.TempDir(), "exports")
	return &fixture{
		handler: NewReportTaskHandler(analysisService, exports, jobs, dir, logger),
		jobs:    jobs,
		dir:     dir,
	}
}

func (f *fixture) task(t *testing.T, job *models.ReportJob) *asynq.Task {
	t.Helper()
	require.NoError(t, f.jobs.Save(context.Background(), job, JobTTL))
	task, err := NewReportTask(job)
	require.NoError(t, err)
	return task
}

func TestNewReportTask(t *testing.T) {
	task, err := NewReportTask(&models.ReportJob{ID: "job-1", SessionCode: "UPLOAD-1", Format: models.FormatPDF})
	require.NoError(t, err)
	assert.Equal(t, TypeReportGenerate, task.Type())

	var payload ReportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "job-1", payload.JobID)
	assert.Equal(t, models.FormatPDF, payload.Format)
}

func TestHandleWritesReport(t *testing.T) {
	f := newFixture(t)
	job := &models.ReportJob{ID: "job-1", SessionCode: "UPLOAD-test", Vendor: "PT Satu", Format: models.FormatBreakdownCSV, Status: models.JobStatusQueued}

	require.NoError(t, f.handler.Handle(context.Background(), f.task(t, job)))

	saved, err := f.jobs.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, saved.Status)
	assert.Contains(t, saved.FileName, "PO_Breakdown_PT_Satu_")

	data, err := os.ReadFile(ReportFilePath(f.dir, saved))
	require.NoError(t, err)
	assert.Contains(t, string(data), "PO-1,1,50000,0 - 100 Ribu")

	// A redelivered task for a finished job is a no-op
	require.NoError(t, f.handler.Handle(context.Background(), f.task(t, saved)))
}

func TestHandleKeepsVendorNamesOutOfPaths(t *testing.T) {
	for _, vendor := range []string{"x/../../escaped", "CV Maju/Jaya"} {
		t.Run(vendor, func(t *testing.T) {
			f := newFixture(t)
			job := &models.ReportJob{ID: "job-v", SessionCode: "UPLOAD-test", Vendor: vendor, Format: models.FormatRawCSV, Status: models.JobStatusQueued}

			require.NoError(t, f.handler.Handle(context.Background(), f.task(t, job)))

			saved, err := f.jobs.Get(context.Background(), "job-v")
			require.NoError(t, err)
			assert.Equal(t, models.JobStatusCompleted, saved.Status)
			assert.NotContains(t, saved.FileName, "/")
			assert.NotContains(t, saved.FileName, "..")

			path := ReportFilePath(f.dir, saved)
			assert.Equal(t, filepath.Join(f.dir, "job-v.csv"), path)
			_, err = os.Stat(path)
			require.NoError(t, err)

			// Nothing lands next to the export directory
			entries, err := os.ReadDir(filepath.Dir(f.dir))
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "exports", entries[0].Name())
		})
	}
}

func TestHandleMarksJobFailedWhenFileCannotBeWritten(t *testing.T) {
	f := newFixture(t)

	// A regular file where the export directory should be
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	f.handler.exportDir = filepath.Join(blocker, "exports")

	job := &models.ReportJob{ID: "job-w", SessionCode: "UPLOAD-test", Format: models.FormatRawCSV, Status: models.JobStatusQueued}
	err := f.handler.Handle(context.Background(), f.task(t, job))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	saved, err := f.jobs.Get(context.Background(), "job-w")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, saved.Status)
	assert.Contains(t, saved.Error, "export directory")
}

func TestHandlePermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		job  *models.ReportJob
	}{
		{"missing session", &models.ReportJob{ID: "job-a", SessionCode: "UPLOAD-gone", Format: models.FormatPDF}},
		{"unknown vendor", &models.ReportJob{ID: "job-b", SessionCode: "UPLOAD-test", Vendor: "PT Tiga", Format: models.FormatPDF}},
		{"unknown format", &models.ReportJob{ID: "job-c", SessionCode: "UPLOAD-test", Format: "docx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.handler.Handle(context.Background(), f.task(t, tt.job))
			require.Error(t, err)
			assert.True(t, errors.Is(err, asynq.SkipRetry))

			saved, err := f.jobs.Get(context.Background(), tt.job.ID)
			require.NoError(t, err)
			assert.Equal(t, models.JobStatusFailed, saved.Status)
			assert.NotEmpty(t, saved.Error)
		})
	}
}

func TestHandleBadPayload(t *testing.T) {
	f := newFixture(t)
	err := f.handler.Handle(context.Background(), asynq.NewTask(TypeReportGenerate, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
