package analysis

// Column names of the purchase-order export.
const (
	ColumnAmount = "jumlah"
	ColumnVendor = "vendor_name"
	ColumnStatus = "po_status_approval"
	ColumnPOCode = "po_code"
)

// StatusApproved is the only approval status whose rows are analysed.
const StatusApproved = "Approved"

// Dataset is the first sheet of an uploaded workbook: a header row and the data rows
// below it. Rows are never modified after construction.
type Dataset struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewDataset builds a dataset, padding short rows so every row has one cell per column.
// When a header name repeats, the first occurrence wins.
func NewDataset(columns []string, rows [][]string) *Dataset {
	ds := &Dataset{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, 0, len(rows)),
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range ds.Columns {
		if _, exists := ds.index[col]; !exists {
			ds.index[col] = i
		}
	}

	for _, row := range rows {
		cells := make([]string, len(ds.Columns))
		copy(cells, row)
		ds.Rows = append(ds.Rows, cells)
	}

	return ds
}

// HasColumn reports whether the header contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

func (d *Dataset) cell(row []string, column string) string {
	i, ok := d.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
