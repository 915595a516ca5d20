package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		amount string
		want   Range
	}{
		{"0", 0},
		{"50000", 0},
		{"100000", 0},
		{"100000.50", 1},
		{"100001", 1},
		{"500000", 1},
		{"500001", 2},
		{"1000000", 2},
		{"1000001", 3},
		{"5000000", 3},
		{"5000001", 4},
		{"10000000", 4},
		{"10000001", 5},
		{"50000000", 5},
		{"50000000.01", 6},
		{"50000001", 6},
		{"999999999999", 6},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestRangeLabels(t *testing.T) {
	want := []string{
		"0 - 100 Ribu",
		"100 Ribu - 500 Ribu",
		"500 Ribu - 1 Juta",
		"1 Juta - 5 Juta",
		"5 Juta - 10 Juta",
		"10 Juta - 50 Juta",
		"Di atas 50 Juta",
	}

	defs := Ranges()
	assert.Len(t, defs, NumRanges)
	for i, label := range want {
		assert.Equal(t, label, Range(i).Label())
		assert.Equal(t, label, defs[i].Label)
	}
	assert.True(t, defs[NumRanges-1].Open)
	assert.Equal(t, "", Range(NumRanges).Label())
	assert.Equal(t, "", Range(-1).Detail())
}

func TestRangesReturnsCopy(t *testing.T) {
	defs := Ranges()
	defs[0].Label = "changed"
	assert.Equal(t, "0 - 100 Ribu", Range(0).Label())
}

func TestRangeCountsTotal(t *testing.T) {
	counts := RangeCounts{1, 2, 3, 0, 0, 0, 4}
	assert.Equal(t, 10, counts.Total())
}
