package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRows(t *testing.T) {
	ds := txDataset(
		[]string{"X", "50000", "Approved"},
		[]string{"X", "600000", "Approved"},
		[]string{"X", "70000", "Not Yet Approved"},
		[]string{"Y", "abc", "Approved"},
		[]string{"Y", "", "Approved"},
		[]string{"Y", "-10", "Approved"},
		[]string{"Y", "2000", "approved"},
		[]string{"Y", "3000", ""},
		[]string{"Y", " 1500 ", "Approved"},
	)

	fs, err := FilterRows(ds, "")
	require.NoError(t, err)

	require.Equal(t, 3, fs.Len())
	assert.Equal(t, []int{0, 1, 8}, []int{fs.Transactions[0].Row, fs.Transactions[1].Row, fs.Transactions[2].Row})
	assertDecimal(t, "1500", fs.Transactions[2].Amount)

	assert.Equal(t, FilterSummary{
		InputRows:            9,
		DroppedInvalidAmount: 2,
		DroppedNegative:      1,
		DroppedStatus:        3,
		DroppedVendor:        0,
		Retained:             3,
	}, fs.Summary)
	assert.False(t, fs.HasPOCode)
}

func TestFilterRowsWithoutStatusColumn(t *testing.T) {
	ds := NewDataset([]string{ColumnVendor, ColumnAmount}, [][]string{
		{"X", "100"},
		{"X", "200"},
	})

	fs, err := FilterRows(ds, "")
	require.NoError(t, err)
	assert.Equal(t, 2, fs.Len())
	assert.Equal(t, 0, fs.Summary.DroppedStatus)
}

func TestFilterRowsVendor(t *testing.T) {
	ds := txDataset(
		[]string{"PT Satu", "100", "Approved"},
		[]string{"PT Dua", "200", "Approved"},
		[]string{"PT Satu", "300", "Approved"},
		[]string{"pt satu", "400", "Approved"},
	)

	all, err := FilterRows(ds, "")
	require.NoError(t, err)

	one, err := FilterRows(ds, "PT Satu")
	require.NoError(t, err)

	assert.Equal(t, 2, one.Len())
	assert.Equal(t, 2, one.Summary.DroppedVendor)
	assert.LessOrEqual(t, one.Len(), all.Len())
	for _, tx := range one.Transactions {
		assert.Equal(t, "PT Satu", tx.VendorName)
	}
}

func TestFilterRowsVendorWithoutMatch(t *testing.T) {
	ds := txDataset(
		[]string{"X", "100", "Approved"},
		[]string{"Z", "100", "Rejected"},
	)

	tests := []struct {
		name   string
		vendor string
	}{
		{"unknown vendor", "Nonexistent"},
		{"vendor without approved rows", "Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := FilterRows(ds, tt.vendor)
			assert.Nil(t, fs)

			var empty *EmptyResultError
			require.True(t, errors.As(err, &empty))
			assert.Equal(t, tt.vendor, empty.Vendor)
			assert.Contains(t, err.Error(), tt.vendor)
		})
	}
}

func TestFilterRowsEmptyResultWithoutVendorIsNotAnError(t *testing.T) {
	ds := txDataset([]string{"X", "100", "Rejected"})

	fs, err := FilterRows(ds, "")
	require.NoError(t, err)
	assert.Equal(t, 0, fs.Len())
}

func TestFilterRowsMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		missing string
	}{
		{"no amount", []string{ColumnVendor, ColumnStatus}, ColumnAmount},
		{"no vendor", []string{ColumnAmount, ColumnStatus}, ColumnVendor},
		{"neither", []string{"foo"}, ColumnAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FilterRows(NewDataset(tt.columns, nil), "")

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.missing, verr.Column)
			assert.Equal(t, tt.columns, verr.Available)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestFilterRowsDoesNotMutateDataset(t *testing.T) {
	ds := txDataset(
		[]string{"X", " 100 ", "Approved"},
		[]string{"X", "bad", "Approved"},
	)

	_, err := FilterRows(ds, "X")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"X", " 100 ", "Approved"},
		{"X", "bad", "Approved"},
	}, ds.Rows)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"100", "100", true},
		{" 2500.75 ", "2500.75", true},
		{"5E+07", "50000000", true},
		{"-3", "-3", true},
		{"", "0", false},
		{"   ", "0", false},
		{"1.000.000", "0", false},
		{"Rp 100", "0", false},
		{"NaN", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestNewDatasetPadsShortRows(t *testing.T) {
	ds := NewDataset([]string{"a", "b", "c"}, [][]string{{"1"}, {"1", "2", "3", "4"}})
	assert.Equal(t, []string{"1", "", ""}, ds.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, ds.Rows[1])
	assert.True(t, ds.HasColumn("b"))
	assert.False(t, ds.HasColumn("d"))
}
