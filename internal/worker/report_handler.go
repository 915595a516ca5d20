package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"po-analytics/internal/analysis"
	"po-analytics/internal/models"
	"po-analytics/internal/repository"
	"po-analytics/internal/service"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

var errUnknownFormat = errors.New("unknown report format")

type ReportTaskHandler struct {
	analysis  *service.AnalysisService
	exports   *service.ExportService
	jobs      repository.JobStore
	exportDir string
	logger    *logrus.Logger
	now       func() time.Time
}

func NewReportTaskHandler(
	analysisService *service.AnalysisService,
	exports *service.ExportService,
	jobs repository.JobStore,
	exportDir string,
	logger *logrus.Logger,
) *ReportTaskHandler {
	return &ReportTaskHandler{
		analysis:  analysisService,
		exports:   exports,
		jobs:      jobs,
		exportDir: exportDir,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *ReportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log := h.logger.WithFields(logrus.Fields{
		"job_id":       payload.JobID,
		"session_code": payload.SessionCode,
		"vendor":       payload.Vendor,
		"format":       payload.Format,
	})

	job, err := h.jobs.Get(ctx, payload.JobID)
	if errors.Is(err, repository.ErrJobNotFound) {
		job = &models.ReportJob{
			ID:          payload.JobID,
			SessionCode: payload.SessionCode,
			Vendor:      payload.Vendor,
			Format:      payload.Format,
			CreatedAt:   h.now(),
		}
	} else if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}

	if job.Done() {
		log.WithField("status", job.Status).Info("Report job already finished, skipping")
		return nil
	}

	h.update(ctx, job, models.JobStatusProcessing, "")
	log.Info("Generating report")

	file, err := h.render(ctx, payload)
	if err != nil {
		log.WithError(err).Warn("Report generation failed")
		if permanent(err) {
			h.update(ctx, job, models.JobStatusFailed, err.Error())
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		h.update(ctx, job, models.JobStatusQueued, err.Error())
		return err
	}

	job.FileName = file.FileName
	if err := h.store(job, file.Data); err != nil {
		log.WithError(err).Error("Report file could not be written")
		h.update(ctx, job, models.JobStatusFailed, err.Error())
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	h.update(ctx, job, models.JobStatusCompleted, "")
	log.WithFields(logrus.Fields{
		"file": file.FileName,
		"size": len(file.Data),
	}).Info("Report generated")

	return nil
}

func (h *ReportTaskHandler) render(ctx context.Context, payload ReportPayload) (*service.RenderedFile, error) {
	if !payload.Format.Valid() {
		return nil, fmt.Errorf("%w %q", errUnknownFormat, payload.Format)
	}

	report, err := h.analysis.Report(ctx, payload.SessionCode, payload.Vendor)
	if err != nil {
		return nil, err
	}
	return h.exports.Render(report, payload.Format, h.now())
}

func (h *ReportTaskHandler) store(job *models.ReportJob, data []byte) error {
	if err := os.MkdirAll(h.exportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(ReportFilePath(h.exportDir, job), data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func (h *ReportTaskHandler) update(ctx context.Context, job *models.ReportJob, status, message string) {
	job.Status = status
	job.Error = message
	job.UpdatedAt = h.now()
	if err := h.jobs.Save(ctx, job, JobTTL); err != nil {
		h.logger.WithError(err).WithField("job_id", job.ID).Warn("Failed to save job status")
	}
}

// permanent reports errors that a retry cannot fix
func permanent(err error) bool {
	var validation *analysis.ValidationError
	var empty *analysis.EmptyResultError
	return errors.As(err, &validation) ||
		errors.As(err, &empty) ||
		errors.Is(err, repository.ErrSessionNotFound) ||
		errors.Is(err, errUnknownFormat)
}
