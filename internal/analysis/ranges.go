package analysis

import "github.com/shopspring/decimal"

// Range is the index of one of the seven value bins, in canonical order.
type Range int

// NumRanges is the number of value bins.
const NumRanges = 7

// RangeCounts holds one counter per bin in canonical order.
type RangeCounts [NumRanges]int

// Total returns the sum of all bin counters.
func (c RangeCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// RangeDefinition describes a bin. Upper is the inclusive upper bound; the last bin has
// no upper bound.
type RangeDefinition struct {
	Label  string
	Detail string
	Upper  decimal.Decimal
	Open   bool
}

var ranges = [NumRanges]RangeDefinition{
	{Label: "0 - 100 Ribu", Detail: "0 - 100.000", Upper: decimal.NewFromInt(100_000)},
	{Label: "100 Ribu - 500 Ribu", Detail: "100.001 - 500.000", Upper: decimal.NewFromInt(500_000)},
	{Label: "500 Ribu - 1 Juta", Detail: "500.001 - 1.000.000", Upper: decimal.NewFromInt(1_000_000)},
	{Label: "1 Juta - 5 Juta", Detail: "1.000.001 - 5.000.000", Upper: decimal.NewFromInt(5_000_000)},
	{Label: "5 Juta - 10 Juta", Detail: "5.000.001 - 10.000.000", Upper: decimal.NewFromInt(10_000_000)},
	{Label: "10 Juta - 50 Juta", Detail: "10.000.001 - 50.000.000", Upper: decimal.NewFromInt(50_000_000)},
	{Label: "Di atas 50 Juta", Detail: "Di atas 50.000.000", Open: true},
}

// Ranges returns the bin definitions in canonical order.
func Ranges() []RangeDefinition {
	out := make([]RangeDefinition, NumRanges)
	copy(out, ranges[:])
	return out
}

// Classify maps a non-negative amount to its bin. Each bin's upper bound is inclusive,
// so amounts between two integer boundaries (100000.5) land in the higher bin and the
// bins cover [0, ∞) without gaps. Negative amounts are removed by FilterRows before
// classification and are mapped to the first bin if they reach here.
func Classify(amount decimal.Decimal) Range {
	for i := 0; i < NumRanges-1; i++ {
		if amount.LessThanOrEqual(ranges[i].Upper) {
			return Range(i)
		}
	}
	return Range(NumRanges - 1)
}

// Label returns the human-readable bin label, e.g. "100 Ribu - 500 Ribu".
func (r Range) Label() string {
	if r < 0 || int(r) >= NumRanges {
		return ""
	}
	return ranges[r].Label
}

// Detail returns the bin bounds in rupiah notation, e.g. "100.001 - 500.000".
func (r Range) Detail() string {
	if r < 0 || int(r) >= NumRanges {
		return ""
	}
	return ranges[r].Detail
}

func (r Range) String() string {
	return r.Label()
}
