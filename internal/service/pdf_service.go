package service

import (
	"fmt"
	"time"

	"po-analytics/internal/analysis"
	"po-analytics/internal/utils"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontRegular = "GoRegular"
	fontBold    = "GoBold"

	pageWidth   = 842.0 // A4 landscape, points
	pageHeight  = 595.0
	pageMargin  = 36.0
	rowHeight   = 20.0
	contentEdge = pageHeight - pageMargin
)

type rgb struct{ r, g, b uint8 }

var (
	colorTitle   = rgb{46, 80, 144}
	colorHeading = rgb{68, 114, 196}
	colorTotal   = rgb{231, 230, 230}
	colorText    = rgb{0, 0, 0}
	colorWhite   = rgb{255, 255, 255}
	colorPOBar   = rgb{112, 173, 71}
)

// PDFService renders an analysis report as a landscape A4 document
type PDFService struct {
	formatter *utils.NumberFormatter
}

func NewPDFService(formatter *utils.NumberFormatter) *PDFService {
	return &PDFService{formatter: formatter}
}

type pdfDoc struct {
	pdf *gopdf.GoPdf
	y   float64
}

func (d *pdfDoc) fill(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *pdfDoc) text(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }

func (d *pdfDoc) newPage() {
	d.pdf.AddPage()
	d.y = pageMargin
}

func (d *pdfDoc) ensure(height float64) {
	if d.y+height > contentEdge {
		d.newPage()
	}
}

func (d *pdfDoc) write(font string, size float64, c rgb, text string) error {
	if err := d.pdf.SetFont(font, "", size); err != nil {
		return err
	}
	d.text(c)
	d.pdf.SetXY(pageMargin, d.y)
	if err := d.pdf.Cell(nil, text); err != nil {
		return err
	}
	d.y += size + 8
	return nil
}

func (d *pdfDoc) heading(text string) error {
	d.ensure(rowHeight * 3)
	d.y += 6
	return d.write(fontBold, 14, colorHeading, text)
}

// table draws a bordered table, repeating the header on every new page. The last row is
// shaded when shadeLast is set.
func (d *pdfDoc) table(widths []float64, header []string, rows [][]string, rightAlign map[int]bool, shadeLast bool) error {
	drawRow := func(cells []string, font string, bg *rgb, fg rgb) error {
		if err := d.pdf.SetFont(font, "", 10); err != nil {
			return err
		}
		x := pageMargin
		for i, w := range widths {
			if bg != nil {
				d.fill(*bg)
				d.pdf.RectFromUpperLeftWithStyle(x, d.y, w, rowHeight, "FD")
			} else {
				d.pdf.RectFromUpperLeftWithStyle(x, d.y, w, rowHeight, "D")
			}
			d.text(fg)
			align := gopdf.Left | gopdf.Middle
			if rightAlign[i] {
				align = gopdf.Right | gopdf.Middle
			}
			d.pdf.SetXY(x+4, d.y)
			if err := d.pdf.CellWithOption(&gopdf.Rect{W: w - 8, H: rowHeight}, cells[i], gopdf.CellOption{Align: align}); err != nil {
				return err
			}
			x += w
		}
		d.y += rowHeight
		return nil
	}

	d.pdf.SetStrokeColor(0, 0, 0)
	d.pdf.SetLineWidth(0.5)

	d.ensure(rowHeight * 2)
	if err := drawRow(header, fontBold, &colorHeading, colorWhite); err != nil {
		return err
	}
	for i, row := range rows {
		if d.y+rowHeight > contentEdge {
			d.newPage()
			if err := drawRow(header, fontBold, &colorHeading, colorWhite); err != nil {
				return err
			}
		}
		if shadeLast && i == len(rows)-1 {
			if err := drawRow(row, fontBold, &colorTotal, colorText); err != nil {
				return err
			}
			continue
		}
		if err := drawRow(row, fontRegular, nil, colorText); err != nil {
			return err
		}
	}
	d.y += 10
	return nil
}

// barChart draws one horizontal bar per statistics row, scaled to the largest count
func (d *pdfDoc) barChart(title string, stats analysis.Statistics, bar rgb, f *utils.NumberFormatter) error {
	const (
		labelWidth = 170.0
		barHeight  = 22.0
		gap        = 12.0
	)
	maxBar := pageWidth - 2*pageMargin - labelWidth - 120

	d.ensure(float64(len(stats.Rows))*(barHeight+gap) + 40)
	if err := d.write(fontBold, 12, colorTitle, title); err != nil {
		return err
	}

	maxCount := 0
	for _, row := range stats.Rows {
		if row.Count > maxCount {
			maxCount = row.Count
		}
	}

	if err := d.pdf.SetFont(fontRegular, "", 10); err != nil {
		return err
	}
	for _, row := range stats.Rows {
		d.text(colorText)
		d.pdf.SetXY(pageMargin, d.y+5)
		if err := d.pdf.Cell(nil, row.Label); err != nil {
			return err
		}

		width := 0.0
		if maxCount > 0 {
			width = maxBar * float64(row.Count) / float64(maxCount)
		}
		if width > 0 {
			d.fill(bar)
			d.pdf.RectFromUpperLeftWithStyle(pageMargin+labelWidth, d.y, width, barHeight, "F")
		}

		d.pdf.SetXY(pageMargin+labelWidth+width+6, d.y+5)
		caption := fmt.Sprintf("%s (%s)", f.Count(row.Count), f.Percent(row.Percentage, 2))
		if err := d.pdf.Cell(nil, caption); err != nil {
			return err
		}
		d.y += barHeight + gap
	}
	d.y += 10
	return nil
}

func (s *PDFService) statisticsRows(stats analysis.Statistics) [][]string {
	rows := make([][]string, 0, len(stats.Rows)+1)
	for _, row := range stats.Rows {
		rows = append(rows, []string{"Rp " + row.Label, s.formatter.Count(row.Count), s.formatter.Percent(row.Percentage, 2)})
	}
	rows = append(rows, []string{stats.Total.Label, s.formatter.Count(stats.Total.Count), s.formatter.Percent(stats.Total.Percentage, 2)})
	return rows
}

// Report renders the summary, the statistics table, a bar chart page and, when PO
// analysis is available, the PO statistics and the breakdown table.
func (s *PDFService) Report(report *analysis.Report, generatedAt time.Time) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4Landscape})

	if err := pdf.AddTTFFontData(fontRegular, goregular.TTF); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	if err := pdf.AddTTFFontData(fontBold, gobold.TTF); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	d := &pdfDoc{pdf: pdf}
	d.newPage()

	f := s.formatter
	h := report.Headline

	if err := d.write(fontBold, 18, colorTitle, "LAPORAN ANALISIS TRANSAKSI PO"); err != nil {
		return nil, err
	}
	if err := d.write(fontRegular, 11, colorText, "Vendor: "+vendorLabel(report.Vendor)); err != nil {
		return nil, err
	}
	if err := d.write(fontRegular, 11, colorText, "Dibuat: "+generatedAt.Format("02/01/2006 15:04")); err != nil {
		return nil, err
	}

	if err := d.heading("RINGKASAN TRANSAKSI"); err != nil {
		return nil, err
	}
	summary := [][]string{
		{"Total Transaksi", f.Count(h.TotalTransactions)},
		{"Total Nilai", f.Currency(h.TotalAmount)},
		{"Rata-rata Transaksi", f.Currency(h.AverageAmount)},
	}
	if h.TotalUniquePO != nil {
		summary = append(summary, []string{"Total PO Unik", f.Count(*h.TotalUniquePO)})
	}
	summary = append(summary,
		[]string{"Transaksi Terbesar", f.Currency(h.LargestAmount)},
		[]string{"Transaksi Terkecil", f.Currency(h.SmallestAmount)},
	)
	if err := d.table([]float64{216, 216}, []string{"Metrik", "Nilai"}, summary, map[int]bool{1: true}, false); err != nil {
		return nil, err
	}

	if err := d.heading("STATISTIK DETAIL BERDASARKAN RENTANG"); err != nil {
		return nil, err
	}
	if err := d.table([]float64{252, 144, 144}, []string{"Rentang Transaksi", "Jumlah", "Persentase"},
		s.statisticsRows(report.Statistics), map[int]bool{1: true, 2: true}, true); err != nil {
		return nil, err
	}

	d.newPage()
	if err := d.heading("VISUALISASI DATA"); err != nil {
		return nil, err
	}
	if err := d.barChart("Jumlah Transaksi Berdasarkan Rentang", report.Statistics, colorHeading, f); err != nil {
		return nil, err
	}

	po := report.PurchaseOrders
	if po.Available {
		d.newPage()
		if err := d.heading("STATISTIK PO UNIK BERDASARKAN RENTANG"); err != nil {
			return nil, err
		}
		if err := d.write(fontRegular, 11, colorText, "Total PO Unik: "+f.Count(po.Summary.TotalUniquePO)); err != nil {
			return nil, err
		}
		if err := d.table([]float64{252, 144, 144}, []string{"Rentang Transaksi", "Jumlah PO", "Persentase"},
			s.statisticsRows(po.Statistics), map[int]bool{1: true, 2: true}, true); err != nil {
			return nil, err
		}
		if err := d.barChart("Distribusi PO Unik Berdasarkan Rentang", po.Statistics, colorPOBar, f); err != nil {
			return nil, err
		}

		if len(po.Breakdown) > 0 {
			if err := d.heading("BREAKDOWN DETAIL SETIAP PO"); err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(po.Breakdown))
			for _, b := range po.Breakdown {
				rows = append(rows, []string{b.POCode, f.Count(b.TransactionCount), f.Currency(b.TotalValue), b.RangeLabel})
			}
			if err := d.table([]float64{200, 130, 200, 200}, []string{"PO Code", "Jumlah Transaksi", "Total Nilai", "Rentang"},
				rows, map[int]bool{1: true, 2: true}, false); err != nil {
				return nil, err
			}
		}
	} else if po.Reason != "" {
		if err := d.write(fontRegular, 10, colorText, "Analisis PO tidak tersedia: "+po.Reason); err != nil {
			return nil, err
		}
	}

	return pdf.GetBytesPdf(), nil
}
