package service

import (
	"fmt"
	"time"

	"po-analytics/internal/analysis"
	"po-analytics/internal/models"
	"po-analytics/internal/utils"
)

// RenderedFile is a report rendition ready to be downloaded or written to disk
type RenderedFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// ExportService picks the writer for a report format and names the file
type ExportService struct {
	workbooks *ReportService
	pdfs      *PDFService
	csvs      *CSVService
}

func NewExportService(workbooks *ReportService, pdfs *PDFService, csvs *CSVService) *ExportService {
	return &ExportService{workbooks: workbooks, pdfs: pdfs, csvs: csvs}
}

// Render produces one rendition of the report. The breakdown CSV needs a po_code column.
func (s *ExportService) Render(report *analysis.Report, format models.ReportFormat, at time.Time) (*RenderedFile, error) {
	stamp := at.Format("20060102_150405")

	switch format {
	case models.FormatWorkbook:
		data, err := s.workbooks.Workbook(report, at)
		if err != nil {
			return nil, err
		}
		return &RenderedFile{
			FileName:    utils.ReportFileName("Laporan_Lengkap", report.Vendor, stamp, "xlsx"),
			ContentType: contentTypeXLSX,
			Data:        data,
		}, nil

	case models.FormatPDF:
		data, err := s.pdfs.Report(report, at)
		if err != nil {
			return nil, err
		}
		return &RenderedFile{
			FileName:    utils.ReportFileName("Laporan_Lengkap", report.Vendor, stamp, "pdf"),
			ContentType: contentTypePDF,
			Data:        data,
		}, nil

	case models.FormatBreakdownCSV:
		if !report.PurchaseOrders.Available {
			columns := []string{}
			if report.Rows != nil {
				columns = report.Rows.Columns
			}
			return nil, &analysis.ValidationError{Column: analysis.ColumnPOCode, Available: columns}
		}
		data, err := s.csvs.BreakdownCSV(report.PurchaseOrders.Breakdown)
		if err != nil {
			return nil, err
		}
		return &RenderedFile{
			FileName:    utils.ReportFileName("PO_Breakdown", report.Vendor, stamp, "csv"),
			ContentType: contentTypeCSV,
			Data:        data,
		}, nil

	case models.FormatRawCSV:
		data, err := s.csvs.TransactionsCSV(report.Rows)
		if err != nil {
			return nil, err
		}
		return &RenderedFile{
			FileName:    utils.ReportFileName("transaksi", report.Vendor, stamp, "csv"),
			ContentType: contentTypeCSV,
			Data:        data,
		}, nil
	}

	return nil, fmt.Errorf("unknown report format %q", format)
}
