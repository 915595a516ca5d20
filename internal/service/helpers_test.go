package service

import (
	"testing"

	"po-analytics/internal/analysis"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbookBytes writes rows into the first sheet of a new workbook.
func workbookBytes(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func poWorkbook(t *testing.T) []byte {
	return workbookBytes(t,
		[]interface{}{" vendor_name ", "po_code", "jumlah", "po_status_approval"},
		[]interface{}{"PT Satu", "PO-1", 50000, "Approved"},
		[]interface{}{"PT Satu", "PO-1", 80000, "Approved"},
		[]interface{}{"PT Dua", "PO-2", 7500000, "Approved"},
		[]interface{}{"PT Dua", "PO-3", 60000000, "Pending"},
		[]interface{}{"PT Dua", "PO-4", "abc", "Approved"},
	)
}

func poReport(t *testing.T, vendor string) *analysis.Report {
	t.Helper()
	parsed, err := NewExcelService().ParseDataset("po.xlsx", poWorkbook(t))
	require.NoError(t, err)
	report, err := analysis.BuildReport(parsed.Dataset, vendor)
	require.NoError(t, err)
	return report
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
