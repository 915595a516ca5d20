package handler

import (
	"time"

	"po-analytics/internal/config"
	"po-analytics/internal/models"
	"po-analytics/internal/repository"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"
	"po-analytics/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type ReportJobHandler struct {
	analysisService *service.AnalysisService
	jobs            repository.JobStore
	asynqClient     *asynq.Client
	cfg             *config.Config
}

func NewReportJobHandler(
	analysisService *service.AnalysisService,
	jobs repository.JobStore,
	asynqClient *asynq.Client,
	cfg *config.Config,
) *ReportJobHandler {
	return &ReportJobHandler{
		analysisService: analysisService,
		jobs:            jobs,
		asynqClient:     asynqClient,
		cfg:             cfg,
	}
}

type enqueueReportRequest struct {
	Format models.ReportFormat `json:"format"`
	Vendor string              `json:"vendor"`
}

// Enqueue queues a report for the worker and returns the job to poll
func (h *ReportJobHandler) Enqueue(c *fiber.Ctx) error {
	if h.asynqClient == nil || h.jobs == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	var req enqueueReportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if !req.Format.Valid() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown export format", nil)
	}

	code := c.Params("code")
	if _, err := h.analysisService.Dataset(c.UserContext(), code); err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	job := &models.ReportJob{
		ID:          uuid.NewString(),
		SessionCode: code,
		UserID:      currentUserID(c),
		Vendor:      req.Vendor,
		Format:      req.Format,
		Status:      models.JobStatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.jobs.Save(c.UserContext(), job, worker.JobTTL); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create report job", err)
	}

	task, err := worker.NewReportTask(job)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create report job", err)
	}
	if _, err := h.asynqClient.EnqueueContext(c.UserContext(), task, asynq.TaskID(job.ID)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue report job", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(utils.Response{
		Success: true,
		Message: "Report generation started",
		Data:    job,
	})
}

func (h *ReportJobHandler) Status(c *fiber.Ctx) error {
	if h.jobs == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	job, err := h.jobs.Get(c.UserContext(), c.Params("id"))
	if err == nil && !canSeeJob(c, job) {
		err = repository.ErrJobNotFound
	}
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, "Report job retrieved successfully", job)
}

func (h *ReportJobHandler) Download(c *fiber.Ctx) error {
	if h.jobs == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	job, err := h.jobs.Get(c.UserContext(), c.Params("id"))
	if err == nil && !canSeeJob(c, job) {
		err = repository.ErrJobNotFound
	}
	if err != nil {
		return respondError(c, err)
	}
	if job.Status != models.JobStatusCompleted {
		return utils.ErrorResponseWithData(c, fiber.StatusConflict, "Report is not ready yet", nil, job)
	}

	return c.Download(worker.ReportFilePath(h.cfg.ExportPath, job), job.FileName)
}
