package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is one row that survived the row filter.
type Transaction struct {
	Row        int             `json:"row"`
	VendorName string          `json:"vendor_name"`
	Amount     decimal.Decimal `json:"jumlah"`
	Status     string          `json:"po_status_approval,omitempty"`
	POCode     string          `json:"po_code,omitempty"`

	// Values holds the raw cells in dataset column order, for the raw-data export.
	Values []string `json:"-"`
}

// FilterSummary counts the rows removed by each filter step.
type FilterSummary struct {
	InputRows            int `json:"input_rows"`
	DroppedInvalidAmount int `json:"dropped_invalid_amount"`
	DroppedNegative      int `json:"dropped_negative"`
	DroppedStatus        int `json:"dropped_status"`
	DroppedVendor        int `json:"dropped_vendor"`
	Retained             int `json:"retained"`
}

// FilteredSet is the row set every aggregation consumes.
type FilteredSet struct {
	Columns      []string      `json:"columns"`
	Transactions []Transaction `json:"transactions"`
	Vendor       string        `json:"vendor,omitempty"`
	HasPOCode    bool          `json:"has_po_code"`
	Summary      FilterSummary `json:"summary"`
}

// Len returns the number of retained transactions.
func (f *FilteredSet) Len() int {
	return len(f.Transactions)
}

// FilterRows coerces the amount column, drops rows without a usable amount, keeps only
// approved rows when the status column exists and applies the optional vendor filter.
// An empty vendor means no vendor filtering.
func FilterRows(ds *Dataset, vendor string) (*FilteredSet, error) {
	for _, required := range []string{ColumnAmount, ColumnVendor} {
		if !ds.HasColumn(required) {
			return nil, missingColumn(required, ds.Columns)
		}
	}

	hasStatus := ds.HasColumn(ColumnStatus)
	out := &FilteredSet{
		Columns:   append([]string(nil), ds.Columns...),
		Vendor:    vendor,
		HasPOCode: ds.HasColumn(ColumnPOCode),
	}
	out.Summary.InputRows = ds.Len()

	for i, row := range ds.Rows {
		amount, ok := ParseAmount(ds.cell(row, ColumnAmount))
		if !ok {
			out.Summary.DroppedInvalidAmount++
			continue
		}
		if amount.IsNegative() {
			out.Summary.DroppedNegative++
			continue
		}

		status := ds.cell(row, ColumnStatus)
		if hasStatus && status != StatusApproved {
			out.Summary.DroppedStatus++
			continue
		}

		vendorName := ds.cell(row, ColumnVendor)
		if vendor != "" && vendorName != vendor {
			out.Summary.DroppedVendor++
			continue
		}

		out.Transactions = append(out.Transactions, Transaction{
			Row:        i,
			VendorName: vendorName,
			Amount:     amount,
			Status:     status,
			POCode:     ds.cell(row, ColumnPOCode),
			Values:     row,
		})
	}

	out.Summary.Retained = len(out.Transactions)

	if vendor != "" && len(out.Transactions) == 0 {
		return nil, &EmptyResultError{Vendor: vendor}
	}

	return out, nil
}

// ParseAmount coerces a raw cell to a number. Blank cells and text that is not a number
// (including thousand-separated text such as "1.000.000") report ok=false.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
