package handler

import (
	"po-analytics/internal/analysis"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// GetRanges lists the value bins in canonical order
func (h *AnalysisHandler) GetRanges(c *fiber.Ctx) error {
	defs := analysis.Ranges()
	out := make([]fiber.Map, 0, len(defs))
	for i, def := range defs {
		out = append(out, fiber.Map{
			"index":  i,
			"label":  def.Label,
			"detail": def.Detail,
		})
	}
	return utils.SuccessResponse(c, "Ranges retrieved successfully", out)
}

// GetAnalysis returns the full report of a session, optionally for one vendor
func (h *AnalysisHandler) GetAnalysis(c *fiber.Ctx) error {
	report, err := h.analysisService.Report(c.UserContext(), c.Params("code"), c.Query("vendor"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, "Analysis completed successfully", report)
}

func (h *AnalysisHandler) GetVendors(c *fiber.Ctx) error {
	vendors, err := h.analysisService.Vendors(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, "Vendors retrieved successfully", vendors)
}

// GetBreakdown returns the per-PO table, narrowed by ?search and paged by ?page&limit
func (h *AnalysisHandler) GetBreakdown(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)

	rows, err := h.analysisService.Breakdown(c.UserContext(), c.Params("code"), c.Query("vendor"), params.Search)
	if err != nil {
		return respondError(c, err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, len(rows))
	return utils.PaginatedResponseBuilder(c, "Breakdown retrieved successfully", utils.Paginate(rows, pagination), pagination)
}

// GetTransactions returns the filtered rows with every original column
func (h *AnalysisHandler) GetTransactions(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)

	report, err := h.analysisService.Report(c.UserContext(), c.Params("code"), c.Query("vendor"))
	if err != nil {
		return respondError(c, err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, report.Rows.Len())
	page := utils.Paginate(report.Rows.Transactions, pagination)

	rows := make([]fiber.Map, 0, len(page))
	for _, tx := range page {
		values := make(fiber.Map, len(report.Rows.Columns))
		for i, col := range report.Rows.Columns {
			if _, dup := values[col]; !dup {
				values[col] = tx.Values[i]
			}
		}
		values[analysis.ColumnAmount] = tx.Amount
		rows = append(rows, values)
	}

	return utils.PaginatedResponseBuilder(c, "Transactions retrieved successfully", fiber.Map{
		"columns": report.Rows.Columns,
		"rows":    rows,
	}, pagination)
}
