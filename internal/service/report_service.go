package service

import (
	"fmt"
	"time"

	"po-analytics/internal/analysis"

	"github.com/xuri/excelize/v2"
)

const (
	sheetDashboard  = "Dashboard"
	sheetStatistics = "Statistik Detail"
	sheetPOUnique   = "PO Unik"
	sheetBreakdown  = "Breakdown PO Detail"
	sheetRawData    = "Data Mentah"
)

// Row where the statistics table body starts on the statistics sheets
const (
	statisticsFirstRow = 4
	poStatsFirstRow    = 5
	breakdownFirstRow  = 5
	rawDataFirstRow    = 3
)

// ReportService renders an analysis report as a styled workbook with native charts
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

type workbookStyles struct {
	title, subtitle, header, data, number, currency, percent int
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	currencyFmt := "\"Rp\" #,##0"
	specs := []*excelize.Style{
		{
			Font:      &excelize.Font{Bold: true, Size: 14, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E5090"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorder(),
		},
		{
			Font:      &excelize.Font{Bold: true, Size: 12, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#5B9BD5"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
			Border:    thinBorder(),
		},
		{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorder(),
		},
		{
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
			Border:    thinBorder(),
		},
		{
			NumFmt:    3, // #,##0
			Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
			Border:    thinBorder(),
		},
		{
			CustomNumFmt: &currencyFmt,
			Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
			Border:       thinBorder(),
		},
		{
			NumFmt:    10, // 0.00%
			Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
			Border:    thinBorder(),
		},
	}

	ids := make([]int, len(specs))
	for i, spec := range specs {
		id, err := f.NewStyle(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		ids[i] = id
	}

	return &workbookStyles{
		title: ids[0], subtitle: ids[1], header: ids[2], data: ids[3],
		number: ids[4], currency: ids[5], percent: ids[6],
	}, nil
}

// Workbook renders the report. PO sheets are included only when PO analysis is
// available; the raw-data sheet only when rows were retained.
func (s *ReportService) Workbook(report *analysis.Report, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", sheetDashboard); err != nil {
		return nil, err
	}

	// Statistics first: the dashboard charts reference its cells
	if err := s.writeStatistics(f, styles, report); err != nil {
		return nil, err
	}
	if err := s.writeDashboard(f, styles, report, generatedAt); err != nil {
		return nil, err
	}

	po := report.PurchaseOrders
	if po.Available {
		if err := s.writePOUnique(f, styles, po); err != nil {
			return nil, err
		}
		if len(po.Breakdown) > 0 {
			if err := s.writeBreakdown(f, styles, po.Breakdown); err != nil {
				return nil, err
			}
		}
	}

	if report.Rows != nil && report.Rows.Len() > 0 {
		if err := s.writeRawData(f, styles, report.Rows); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func vendorLabel(vendor string) string {
	if vendor == "" {
		return "Semua Vendor"
	}
	return vendor
}

func (s *ReportService) writeDashboard(f *excelize.File, st *workbookStyles, report *analysis.Report, generatedAt time.Time) error {
	sheet := sheetDashboard
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "D", 20)

	f.MergeCell(sheet, "A1", "D1")
	f.SetCellValue(sheet, "A1", "DASHBOARD ANALISIS TRANSAKSI PO")
	f.SetCellStyle(sheet, "A1", "D1", st.title)

	f.SetCellValue(sheet, "A2", "Vendor")
	f.SetCellStyle(sheet, "A2", "A2", st.header)
	f.MergeCell(sheet, "B2", "D2")
	f.SetCellValue(sheet, "B2", vendorLabel(report.Vendor))
	f.SetCellStyle(sheet, "B2", "D2", st.data)

	f.SetCellValue(sheet, "A3", "Dibuat")
	f.SetCellStyle(sheet, "A3", "A3", st.header)
	f.MergeCell(sheet, "B3", "D3")
	f.SetCellValue(sheet, "B3", generatedAt.Format("2006-01-02 15:04:05"))
	f.SetCellStyle(sheet, "B3", "D3", st.data)

	f.SetCellValue(sheet, "A5", "KEY METRICS")
	f.SetCellStyle(sheet, "A5", "A5", st.subtitle)
	f.SetCellValue(sheet, "A6", "Metrik")
	f.SetCellValue(sheet, "B6", "Nilai")
	f.SetCellStyle(sheet, "A6", "B6", st.header)

	h := report.Headline
	type metric struct {
		label string
		value interface{}
		style int
	}
	metrics := []metric{
		{"Total Transaksi", h.TotalTransactions, st.number},
		{"Total Nilai", h.TotalAmount.InexactFloat64(), st.currency},
		{"Rata-rata Transaksi", h.AverageAmount.InexactFloat64(), st.currency},
	}
	if h.TotalUniquePO != nil {
		metrics = append(metrics, metric{"Total PO Unik", *h.TotalUniquePO, st.number})
	}
	metrics = append(metrics,
		metric{"Transaksi Terbesar", h.LargestAmount.InexactFloat64(), st.currency},
		metric{"Transaksi Terkecil", h.SmallestAmount.InexactFloat64(), st.currency},
	)

	row := 7
	for _, m := range metrics {
		label := fmt.Sprintf("A%d", row)
		value := fmt.Sprintf("B%d", row)
		f.SetCellValue(sheet, label, m.label)
		f.SetCellStyle(sheet, label, label, st.data)
		f.SetCellValue(sheet, value, m.value)
		f.SetCellStyle(sheet, value, value, m.style)
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "INSIGHT")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.subtitle)
	row++
	header := []interface{}{"Kategori", "Jumlah", "Persentase"}
	f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &header)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), st.header)
	row++
	for _, insight := range report.Insights {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), insight.Title)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.data)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), insight.Count)
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), st.number)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), insight.Percentage.InexactFloat64()/100)
		f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), st.percent)
		row++
	}

	categories, values := statisticsRefs(sheetStatistics, statisticsFirstRow)
	row += 2
	if err := f.AddChart(sheet, fmt.Sprintf("A%d", row), &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$%d", sheetStatistics, statisticsFirstRow-1),
			Categories: categories,
			Values:     values,
			Fill:       excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		}},
		Title:     []excelize.RichTextRun{{Text: "Distribusi Transaksi Berdasarkan Rentang"}},
		Legend:    excelize.ChartLegend{Position: "none"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	}); err != nil {
		return fmt.Errorf("failed to add column chart: %w", err)
	}

	row += 22
	if err := f.AddChart(sheet, fmt.Sprintf("A%d", row), &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Categories: categories,
			Values:     values,
		}},
		Title:     []excelize.RichTextRun{{Text: "Proporsi Transaksi (%)"}},
		Legend:    excelize.ChartLegend{Position: "right"},
		PlotArea:  excelize.ChartPlotArea{ShowPercent: true, ShowCatName: true},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	}); err != nil {
		return fmt.Errorf("failed to add pie chart: %w", err)
	}

	return nil
}

func statisticsRefs(sheet string, firstRow int) (categories, values string) {
	lastRow := firstRow + analysis.NumRanges - 1
	categories = fmt.Sprintf("'%s'!$A$%d:$A$%d", sheet, firstRow, lastRow)
	values = fmt.Sprintf("'%s'!$B$%d:$B$%d", sheet, firstRow, lastRow)
	return categories, values
}

// writeStatisticsTable writes header, one row per bin and the TOTAL line starting at
// headerRow. Returns the row after the table.
func writeStatisticsTable(f *excelize.File, st *workbookStyles, sheet string, headerRow int, countHeader string, stats analysis.Statistics) int {
	header := []interface{}{"Rentang Transaksi", countHeader, "Persentase"}
	f.SetSheetRow(sheet, fmt.Sprintf("A%d", headerRow), &header)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("C%d", headerRow), st.header)

	row := headerRow + 1
	for _, stat := range stats.Rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Rp "+stat.Label)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.data)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), stat.Count)
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), st.number)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), stat.Percentage.InexactFloat64()/100)
		f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), st.percent)
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), stats.Total.Label)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.header)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), stats.Total.Count)
	f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), st.number)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), stats.Total.Percentage.InexactFloat64()/100)
	f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), st.percent)

	return row + 1
}

func (s *ReportService) writeStatistics(f *excelize.File, st *workbookStyles, report *analysis.Report) error {
	sheet := sheetStatistics
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "C", 20)

	f.MergeCell(sheet, "A1", "C1")
	f.SetCellValue(sheet, "A1", "STATISTIK DETAIL BERDASARKAN RENTANG")
	f.SetCellStyle(sheet, "A1", "C1", st.title)

	writeStatisticsTable(f, st, sheet, statisticsFirstRow-1, "Jumlah", report.Statistics)
	return nil
}

func (s *ReportService) writePOUnique(f *excelize.File, st *workbookStyles, po analysis.POAnalysis) error {
	sheet := sheetPOUnique
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "C", 20)

	f.MergeCell(sheet, "A1", "C1")
	f.SetCellValue(sheet, "A1", "STATISTIK PO UNIK BERDASARKAN RENTANG")
	f.SetCellStyle(sheet, "A1", "C1", st.title)
	f.SetCellValue(sheet, "A2", "Total PO Unik")
	f.SetCellStyle(sheet, "A2", "A2", st.header)
	f.SetCellValue(sheet, "B2", po.Summary.TotalUniquePO)
	f.SetCellStyle(sheet, "B2", "B2", st.number)

	next := writeStatisticsTable(f, st, sheet, poStatsFirstRow-1, "Jumlah PO", po.Statistics)

	categories, values := statisticsRefs(sheet, poStatsFirstRow)
	if err := f.AddChart(sheet, fmt.Sprintf("A%d", next+2), &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$%d", sheet, poStatsFirstRow-1),
			Categories: categories,
			Values:     values,
			Fill:       excelize.Fill{Type: "pattern", Color: []string{"#70AD47"}, Pattern: 1},
		}},
		Title:     []excelize.RichTextRun{{Text: "Distribusi PO Unik Berdasarkan Rentang"}},
		Legend:    excelize.ChartLegend{Position: "none"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	}); err != nil {
		return fmt.Errorf("failed to add PO chart: %w", err)
	}
	return nil
}

func (s *ReportService) writeBreakdown(f *excelize.File, st *workbookStyles, rows []analysis.BreakdownRow) error {
	sheet := sheetBreakdown
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 20)
	f.SetColWidth(sheet, "C", "D", 25)

	f.MergeCell(sheet, "A1", "D1")
	f.SetCellValue(sheet, "A1", "BREAKDOWN DETAIL SETIAP PO")
	f.SetCellStyle(sheet, "A1", "D1", st.title)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Total PO: %d", len(rows)))
	f.SetCellStyle(sheet, "A2", "A2", st.data)

	header := []interface{}{"PO Code", "Jumlah Transaksi", "Total Nilai", "Rentang"}
	f.SetSheetRow(sheet, fmt.Sprintf("A%d", breakdownFirstRow-1), &header)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", breakdownFirstRow-1), fmt.Sprintf("D%d", breakdownFirstRow-1), st.header)

	row := breakdownFirstRow
	totalCount := 0
	totalValue := 0.0
	for _, b := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.POCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.TransactionCount)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.TotalValue.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), b.RangeLabel)
		totalCount += b.TransactionCount
		totalValue += b.TotalValue.InexactFloat64()
		row++
	}
	last := row - 1
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", breakdownFirstRow), fmt.Sprintf("A%d", last), st.data)
	f.SetCellStyle(sheet, fmt.Sprintf("B%d", breakdownFirstRow), fmt.Sprintf("B%d", last), st.number)
	f.SetCellStyle(sheet, fmt.Sprintf("C%d", breakdownFirstRow), fmt.Sprintf("C%d", last), st.currency)
	f.SetCellStyle(sheet, fmt.Sprintf("D%d", breakdownFirstRow), fmt.Sprintf("D%d", last), st.data)

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "TOTAL")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.header)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), totalCount)
	f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), st.number)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), totalValue)
	f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), st.currency)
	f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), st.data)

	return nil
}

func (s *ReportService) writeRawData(f *excelize.File, st *workbookStyles, fs *analysis.FilteredSet) error {
	sheet := sheetRawData
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(fs.Columns))
	if err != nil {
		return err
	}
	if len(fs.Columns) > 1 {
		f.MergeCell(sheet, "A1", lastCol+"1")
	}
	f.SetCellValue(sheet, "A1", "DATA TRANSAKSI LENGKAP")
	f.SetCellStyle(sheet, "A1", lastCol+"1", st.title)

	header := make([]interface{}, len(fs.Columns))
	widths := make([]int, len(fs.Columns))
	amountCol := -1
	for i, col := range fs.Columns {
		header[i] = col
		widths[i] = len(col) + 2
		if col == analysis.ColumnAmount && amountCol < 0 {
			amountCol = i
		}
	}
	f.SetSheetRow(sheet, fmt.Sprintf("A%d", rawDataFirstRow-1), &header)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", rawDataFirstRow-1), fmt.Sprintf("%s%d", lastCol, rawDataFirstRow-1), st.header)

	row := rawDataFirstRow
	for _, tx := range fs.Transactions {
		values := make([]interface{}, len(tx.Values))
		for i, v := range tx.Values {
			values[i] = v
			if len(v)+2 > widths[i] {
				widths[i] = len(v) + 2
			}
		}
		if amountCol >= 0 {
			values[amountCol] = tx.Amount.InexactFloat64()
		}
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values)
		row++
	}
	last := row - 1
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", rawDataFirstRow), fmt.Sprintf("%s%d", lastCol, last), st.data)

	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if w > 50 {
			w = 50
		}
		f.SetColWidth(sheet, name, name, float64(w))
	}

	if amountCol >= 0 {
		amountName, _ := excelize.ColumnNumberToName(amountCol + 1)
		f.SetCellStyle(sheet, fmt.Sprintf("%s%d", amountName, rawDataFirstRow), fmt.Sprintf("%s%d", amountName, last), st.currency)

		total := 0.0
		for _, tx := range fs.Transactions {
			total += tx.Amount.InexactFloat64()
		}
		if amountCol > 0 {
			labelName, _ := excelize.ColumnNumberToName(amountCol)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", labelName, row), "TOTAL:")
			f.SetCellStyle(sheet, fmt.Sprintf("%s%d", labelName, row), fmt.Sprintf("%s%d", labelName, row), st.header)
		}
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", amountName, row), total)
		f.SetCellStyle(sheet, fmt.Sprintf("%s%d", amountName, row), fmt.Sprintf("%s%d", amountName, row), st.currency)
	}

	return nil
}
