package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeadline(t *testing.T) {
	ds := txDataset(
		[]string{"X", "50000", "Approved"},
		[]string{"X", "600000", "Approved"},
		[]string{"X", "25000", "Approved"},
	)
	fs, err := FilterRows(ds, "")
	require.NoError(t, err)

	h := NewHeadline(fs, AggregateTransactions(fs))
	assert.Equal(t, 3, h.TotalTransactions)
	assertDecimal(t, "675000", h.TotalAmount)
	assertDecimal(t, "225000", h.AverageAmount)
	assertDecimal(t, "600000", h.LargestAmount)
	assertDecimal(t, "25000", h.SmallestAmount)
	assert.Nil(t, h.TotalUniquePO)
}

func TestNewHeadlineEmpty(t *testing.T) {
	fs, err := FilterRows(txDataset(), "")
	require.NoError(t, err)

	h := NewHeadline(fs, AggregateTransactions(fs))
	assert.Equal(t, 0, h.TotalTransactions)
	assert.True(t, h.AverageAmount.IsZero())
	assert.True(t, h.LargestAmount.IsZero())
	assert.True(t, h.SmallestAmount.IsZero())
}

func TestInsights(t *testing.T) {
	counts := RangeCounts{2, 1, 1, 1, 2, 0, 3}
	insights := Insights(counts, counts.Total())

	require.Len(t, insights, 4)
	assert.Equal(t, "small", insights[0].Key)
	assert.Equal(t, 3, insights[0].Count)
	assertDecimal(t, "30", insights[0].Percentage)
	assert.Equal(t, 2, insights[1].Count)
	assert.Equal(t, 2, insights[2].Count)
	assert.Equal(t, "very_large", insights[3].Key)
	assert.Equal(t, 3, insights[3].Count)

	total := 0
	for _, in := range insights {
		total += in.Count
	}
	assert.Equal(t, counts.Total(), total)
}

func TestInsightsOneDecimal(t *testing.T) {
	insights := Insights(RangeCounts{1, 0, 2, 0, 0, 0, 0}, 3)
	assertDecimal(t, "33.3", insights[0].Percentage)
	assertDecimal(t, "66.7", insights[1].Percentage)

	for _, in := range Insights(RangeCounts{}, 0) {
		assert.True(t, in.Percentage.IsZero())
	}
}

func TestVendors(t *testing.T) {
	ds := txDataset(
		[]string{"PT Zeta", "1", "Approved"},
		[]string{"CV Alpha", "1", "Rejected"},
		[]string{"", "1", "Approved"},
		[]string{"PT Zeta", "bad", "Approved"},
		[]string{"PT Beta", "1", "Approved"},
	)

	vendors, err := Vendors(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"CV Alpha", "PT Beta", "PT Zeta"}, vendors)
}

func TestVendorsMissingColumn(t *testing.T) {
	_, err := Vendors(NewDataset([]string{ColumnAmount}, nil))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ColumnVendor, verr.Column)
}
