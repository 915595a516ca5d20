package service

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"po-analytics/internal/analysis"
)

// utf8BOM lets spreadsheet applications detect UTF-8 when opening the file
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type CSVService struct{}

func NewCSVService() *CSVService {
	return &CSVService{}
}

// BreakdownCSV writes the per-PO breakdown table
func (s *CSVService) BreakdownCSV(rows []analysis.BreakdownRow) ([]byte, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"PO Code", "Jumlah Transaksi", "Total Nilai", "Rentang"})
	for _, row := range rows {
		records = append(records, []string{
			row.POCode,
			strconv.Itoa(row.TransactionCount),
			row.TotalValue.String(),
			row.RangeLabel,
		})
	}
	return writeCSV(records)
}

// TransactionsCSV writes the filtered rows with every original column
func (s *CSVService) TransactionsCSV(fs *analysis.FilteredSet) ([]byte, error) {
	records := make([][]string, 0, fs.Len()+1)
	records = append(records, fs.Columns)
	for _, tx := range fs.Transactions {
		records = append(records, tx.Values)
	}
	return writeCSV(records)
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
