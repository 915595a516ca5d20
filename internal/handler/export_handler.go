package handler

import (
	"time"

	"po-analytics/internal/models"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	analysisService *service.AnalysisService
	exportService   *service.ExportService
}

func NewExportHandler(analysisService *service.AnalysisService, exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		analysisService: analysisService,
		exportService:   exportService,
	}
}

// Download renders a report synchronously and sends it as an attachment
func (h *ExportHandler) Download(c *fiber.Ctx) error {
	format := models.ReportFormat(c.Params("format"))
	if !format.Valid() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown export format", nil)
	}

	report, err := h.analysisService.Report(c.UserContext(), c.Params("code"), c.Query("vendor"))
	if err != nil {
		return respondError(c, err)
	}

	file, err := h.exportService.Render(report, format, time.Now())
	if err != nil {
		return respondError(c, err)
	}

	return sendFile(c, file.FileName, file.ContentType, file.Data)
}
