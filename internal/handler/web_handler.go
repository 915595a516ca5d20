package handler

import (
	"errors"
	"io"
	"net/url"

	"po-analytics/internal/analysis"
	"po-analytics/internal/models"
	"po-analytics/internal/repository"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const layoutMain = "layouts/main"

// WebHandler renders the HTML dashboard. Numbers are formatted here so templates stay
// free of locale logic.
type WebHandler struct {
	analysisService *service.AnalysisService
	formatter       *utils.NumberFormatter
	appName         string
	maxUpload       int
}

func NewWebHandler(analysisService *service.AnalysisService, formatter *utils.NumberFormatter, appName string, maxUpload int) *WebHandler {
	return &WebHandler{
		analysisService: analysisService,
		formatter:       formatter,
		appName:         appName,
		maxUpload:       maxUpload,
	}
}

type statView struct {
	Label      string
	Detail     string
	Count      string
	Percentage string
}

type insightView struct {
	Title      string
	Count      string
	Percentage string
}

type breakdownView struct {
	POCode           string
	TransactionCount string
	TotalValue       string
	RangeLabel       string
}

type metricView struct {
	Label string
	Value string
}

func (h *WebHandler) statViews(stats analysis.Statistics) []statView {
	out := make([]statView, 0, len(stats.Rows)+1)
	for _, row := range stats.Rows {
		out = append(out, statView{
			Label:      row.Label,
			Detail:     row.Range.Detail(),
			Count:      h.formatter.Count(row.Count),
			Percentage: h.formatter.Percent(row.Percentage, 2),
		})
	}
	out = append(out, statView{
		Label:      stats.Total.Label,
		Count:      h.formatter.Count(stats.Total.Count),
		Percentage: h.formatter.Percent(stats.Total.Percentage, 2),
	})
	return out
}

func (h *WebHandler) Index(c *fiber.Ctx) error {
	return c.Render("dashboard/index", fiber.Map{
		"Title":     h.appName,
		"Ranges":    analysis.Ranges(),
		"MaxUpload": h.formatter.Count(h.maxUpload / (1024 * 1024)),
	}, layoutMain)
}

// Upload accepts the dashboard form and redirects to the analysis page
func (h *WebHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return h.renderError(c, fiber.StatusBadRequest, "File wajib diunggah")
	}
	if !service.IsSupported(file.Filename) {
		return h.renderError(c, fiber.StatusBadRequest, service.ErrUnsupportedFormat.Error())
	}

	src, err := file.Open()
	if err != nil {
		return h.renderError(c, fiber.StatusBadRequest, err.Error())
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return h.renderError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.analysisService.Upload(c.UserContext(), 0, file.Filename, data)
	if err != nil {
		return h.renderAnalysisError(c, err)
	}

	return c.Redirect("/analysis/"+url.PathEscape(result.Session.SessionCode), fiber.StatusSeeOther)
}

func (h *WebHandler) Analysis(c *fiber.Ctx) error {
	code := c.Params("code")
	vendor := c.Query("vendor")
	search := c.Query("search")

	vendors, err := h.analysisService.Vendors(c.UserContext(), code)
	if err != nil {
		return h.renderAnalysisError(c, err)
	}

	report, err := h.analysisService.Report(c.UserContext(), code, vendor)
	if err != nil {
		return h.renderAnalysisError(c, err)
	}

	f := h.formatter
	hl := report.Headline
	metrics := []metricView{
		{"Total Transaksi", f.Count(hl.TotalTransactions)},
		{"Total Nilai", f.Currency(hl.TotalAmount)},
		{"Rata-rata Transaksi", f.Currency(hl.AverageAmount)},
	}
	if hl.TotalUniquePO != nil {
		metrics = append(metrics, metricView{"Total PO Unik", f.Count(*hl.TotalUniquePO)})
	}
	metrics = append(metrics,
		metricView{"Transaksi Terbesar", f.Currency(hl.LargestAmount)},
		metricView{"Transaksi Terkecil", f.Currency(hl.SmallestAmount)},
	)

	insights := make([]insightView, 0, len(report.Insights))
	for _, in := range report.Insights {
		insights = append(insights, insightView{
			Title:      in.Title,
			Count:      f.Count(in.Count),
			Percentage: f.Percent(in.Percentage, 1),
		})
	}

	data := fiber.Map{
		"Title":       "Analisis " + vendorLabel(vendor),
		"SessionCode": code,
		"Vendor":      vendor,
		"Vendors":     vendors,
		"Search":      search,
		"Metrics":     metrics,
		"Insights":    insights,
		"Stats":       h.statViews(report.Statistics),
		"Filter":      report.Filter,
		"Formats": []models.ReportFormat{
			models.FormatWorkbook, models.FormatPDF, models.FormatBreakdownCSV, models.FormatRawCSV,
		},
		"POAvailable": report.PurchaseOrders.Available,
		"POReason":    report.PurchaseOrders.Reason,
	}

	if report.PurchaseOrders.Available {
		po := report.PurchaseOrders
		matches := analysis.SearchBreakdown(po.Breakdown, search)
		rows := make([]breakdownView, 0, len(matches))
		for _, b := range matches {
			rows = append(rows, breakdownView{
				POCode:           b.POCode,
				TransactionCount: f.Count(b.TransactionCount),
				TotalValue:       f.Currency(b.TotalValue),
				RangeLabel:       b.RangeLabel,
			})
		}
		data["POStats"] = h.statViews(po.Statistics)
		data["POTotal"] = f.Count(po.Summary.TotalUniquePO)
		data["Breakdown"] = rows
		data["BreakdownShown"] = f.Count(len(rows))
	}

	return c.Render("analysis/index", data, layoutMain)
}

func vendorLabel(vendor string) string {
	if vendor == "" {
		return "Semua Vendor"
	}
	return vendor
}

func (h *WebHandler) renderAnalysisError(c *fiber.Ctx, err error) error {
	var validation *analysis.ValidationError
	var empty *analysis.EmptyResultError
	var parse *service.ParseError

	switch {
	case errors.As(err, &validation):
		return h.renderError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &empty):
		return h.renderError(c, fiber.StatusNotFound, err.Error())
	case errors.As(err, &parse):
		return h.renderError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrSessionNotFound):
		return h.renderError(c, fiber.StatusNotFound, "Sesi unggahan tidak ditemukan atau sudah kedaluwarsa. Silakan unggah ulang file Excel.")
	}

	utils.ComponentLogger("web").WithError(err).WithField("path", c.Path()).Error("Page failed")
	return h.renderError(c, fiber.StatusInternalServerError, "Terjadi kesalahan: "+err.Error())
}

func (h *WebHandler) renderError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).Render("error", fiber.Map{
		"Title":   "Error",
		"Code":    code,
		"Message": message,
	}, layoutMain)
}
