package handler

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"po-analytics/internal/config"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	analysisService *service.AnalysisService
	excelService    *service.ExcelService
	cfg             *config.Config
}

func NewUploadHandler(
	analysisService *service.AnalysisService,
	excelService *service.ExcelService,
	cfg *config.Config,
) *UploadHandler {
	return &UploadHandler{
		analysisService: analysisService,
		excelService:    excelService,
		cfg:             cfg,
	}
}

func (h *UploadHandler) UploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	if !service.IsSupported(file.Filename) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, service.ErrUnsupportedFormat.Error(), nil)
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	src, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", err)
	}

	result, err := h.analysisService.Upload(c.UserContext(), currentUserID(c), file.Filename, data)
	if err != nil {
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, "File uploaded successfully", result)
}

func (h *UploadHandler) GetSessions(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	if params.Limit == 0 {
		params.Limit = 25
	}

	// Admin can see all sessions, user can only see their own
	filterUserID := 0
	if currentRole(c) != "admin" {
		filterUserID = currentUserID(c)
	}

	offset := (params.Page - 1) * params.Limit
	sessions, total, err := h.analysisService.Sessions(c.UserContext(), params.Limit, offset, filterUserID)
	if err != nil {
		return respondError(c, err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, total)
	return utils.PaginatedResponseBuilder(c, "Sessions retrieved successfully", sessions, pagination)
}

func (h *UploadHandler) GetSessionDetail(c *fiber.Ctx) error {
	session, err := h.analysisService.Session(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, "Session retrieved successfully", session)
}

func (h *UploadHandler) DeleteSession(c *fiber.Ctx) error {
	if err := h.analysisService.DeleteSession(c.UserContext(), c.Params("code")); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, "Session deleted successfully", nil)
}

func (h *UploadHandler) ExportSessions(c *fiber.Ctx) error {
	filterUserID := 0
	if currentRole(c) != "admin" {
		filterUserID = currentUserID(c)
	}

	sessions, _, err := h.analysisService.Sessions(c.UserContext(), 0, 0, filterUserID)
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := h.excelService.ExportSessionsList(sessions, &buf); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export sessions", err)
	}

	fileName := fmt.Sprintf("upload_sessions_%s.xlsx", time.Now().Format("20060102_150405"))
	return sendFile(c, fileName, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func sendFile(c *fiber.Ctx, fileName, contentType string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Send(data)
}
