package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got),
		append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// txDataset builds a dataset with the columns vendor_name, jumlah, po_status_approval.
func txDataset(rows ...[]string) *Dataset {
	return NewDataset([]string{ColumnVendor, ColumnAmount, ColumnStatus}, rows)
}

// poDataset builds a dataset with the columns vendor_name, po_code, jumlah,
// po_status_approval.
func poDataset(rows ...[]string) *Dataset {
	return NewDataset([]string{ColumnVendor, ColumnPOCode, ColumnAmount, ColumnStatus}, rows)
}
