package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Headline holds the key metrics shown above the charts.
type Headline struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AverageAmount     decimal.Decimal `json:"average_amount"`
	LargestAmount     decimal.Decimal `json:"largest_amount"`
	SmallestAmount    decimal.Decimal `json:"smallest_amount"`
	TotalUniquePO     *int            `json:"total_unique_po,omitempty"`
}

// NewHeadline derives the headline metrics from a filtered set and its summary.
func NewHeadline(fs *FilteredSet, summary TransactionSummary) Headline {
	h := Headline{
		TotalTransactions: summary.TotalCount,
		TotalAmount:       summary.TotalAmount,
		AverageAmount:     decimal.Zero,
		LargestAmount:     decimal.Zero,
		SmallestAmount:    decimal.Zero,
	}

	if summary.TotalCount > 0 {
		h.AverageAmount = summary.TotalAmount.
			Div(decimal.NewFromInt(int64(summary.TotalCount))).
			Round(2)
	}

	for i, tx := range fs.Transactions {
		if i == 0 || tx.Amount.GreaterThan(h.LargestAmount) {
			h.LargestAmount = tx.Amount
		}
		if i == 0 || tx.Amount.LessThan(h.SmallestAmount) {
			h.SmallestAmount = tx.Amount
		}
	}

	return h
}

// Insight is a coarse grouping of adjacent bins.
type Insight struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

var insightGroups = []struct {
	key    string
	title  string
	ranges []Range
}{
	{"small", "Transaksi Kecil (< 500 Ribu)", []Range{0, 1}},
	{"medium", "Transaksi Menengah (500 Ribu-5 Juta)", []Range{2, 3}},
	{"large", "Transaksi Besar (5 Juta-50 Juta)", []Range{4, 5}},
	{"very_large", "Transaksi Sangat Besar (> 50 Juta)", []Range{6}},
}

// Insights groups the bin counters into small, medium, large and very large
// transactions, with percentages to one decimal place.
func Insights(counts RangeCounts, total int) []Insight {
	out := make([]Insight, 0, len(insightGroups))
	for _, g := range insightGroups {
		n := 0
		for _, r := range g.ranges {
			n += counts[r]
		}
		out = append(out, Insight{
			Key:        g.key,
			Title:      g.title,
			Count:      n,
			Percentage: Percentage(n, total, 1),
		})
	}
	return out
}

// Vendors returns the distinct, non-empty vendor names of the whole dataset, sorted.
func Vendors(ds *Dataset) ([]string, error) {
	if !ds.HasColumn(ColumnVendor) {
		return nil, missingColumn(ColumnVendor, ds.Columns)
	}

	seen := make(map[string]struct{})
	vendors := make([]string, 0)
	for _, row := range ds.Rows {
		name := ds.cell(row, ColumnVendor)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		vendors = append(vendors, name)
	}

	sort.Strings(vendors)
	return vendors, nil
}
