package service

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"po-analytics/internal/analysis"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for uploads that are not .xlsx or .xls workbooks
var ErrUnsupportedFormat = errors.New("only Excel files (.xlsx, .xls) are allowed")

// ParseError reports a workbook that could not be turned into a dataset
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParsedWorkbook is the first sheet of an uploaded workbook
type ParsedWorkbook struct {
	SheetName string
	Dataset   *analysis.Dataset
}

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// IsSupported reports whether the file name has a workbook extension we can read
func IsSupported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// ParseDataset reads the first sheet of an .xlsx or .xls workbook. The first row is the
// header; rows with no content are skipped.
func (s *ExcelService) ParseDataset(filename string, data []byte) (*ParsedWorkbook, error) {
	var (
		sheet string
		rows  [][]string
		err   error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		sheet, rows, err = readXLSX(data)
	case ".xls":
		sheet, rows, err = readXLS(data)
	default:
		return nil, &ParseError{Filename: filename, Err: ErrUnsupportedFormat}
	}
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}

	if len(rows) == 0 {
		return nil, &ParseError{Filename: filename, Err: errors.New("sheet has no header row")}
	}

	header := normalizeHeader(rows[0])
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		body = append(body, row)
	}

	return &ParsedWorkbook{
		SheetName: sheet,
		Dataset:   analysis.NewDataset(header, body),
	}, nil
}

func readXLSX(data []byte) (string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, analysis.ErrNoSheets
	}

	// Raw values keep amounts free of display formatting such as thousand separators
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return sheets[0], rows, nil
}

func readXLS(data []byte) (string, [][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if book.NumSheets() == 0 {
		return "", nil, analysis.ErrNoSheets
	}

	sheet := book.GetSheet(0)
	if sheet == nil {
		return "", nil, analysis.ErrNoSheets
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			if c < row.FirstCol() {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}

	// Leading empty rows carry no header
	for len(rows) > 0 && isBlankRow(rows[0]) {
		rows = rows[1:]
	}
	return sheet.Name, rows, nil
}

// normalizeHeader trims header names, names blank headers by position and suffixes
// repeated names with .1, .2 so every column stays addressable.
func normalizeHeader(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]int, len(raw))

	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		header[i] = name
	}
	return header
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
