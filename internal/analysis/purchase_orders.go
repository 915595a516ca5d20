package analysis

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// POSummary is the purchase-order-level aggregation: one PO code is one unit, placed in
// a bin by the sum of its rows.
type POSummary struct {
	TotalUniquePO int         `json:"total_unique_po"`
	RangeCounts   RangeCounts `json:"range_counts"`
}

// Statistics returns the per-bin statistics table of the summary.
func (s POSummary) Statistics() Statistics {
	return NewStatistics(s.RangeCounts, s.TotalUniquePO)
}

// BreakdownRow is one PO code of the breakdown table.
type BreakdownRow struct {
	POCode           string          `json:"po_code"`
	TransactionCount int             `json:"jumlah_transaksi"`
	TotalValue       decimal.Decimal `json:"total_nilai"`
	Range            Range           `json:"-"`
	RangeLabel       string          `json:"rentang"`
}

type poGroup struct {
	code  string
	count int
	total decimal.Decimal
}

// groupByPOCode sums the filtered rows per PO code. Rows with an empty po_code are
// treated as missing and skipped. Groups come back in first-seen order.
func groupByPOCode(fs *FilteredSet) ([]*poGroup, error) {
	if !fs.HasPOCode {
		return nil, missingColumn(ColumnPOCode, fs.Columns)
	}

	index := make(map[string]*poGroup)
	var groups []*poGroup

	for _, tx := range fs.Transactions {
		if tx.POCode == "" {
			continue
		}
		g, ok := index[tx.POCode]
		if !ok {
			g = &poGroup{code: tx.POCode, total: decimal.Zero}
			index[tx.POCode] = g
			groups = append(groups, g)
		}
		g.count++
		g.total = g.total.Add(tx.Amount)
	}

	return groups, nil
}

// AggregatePurchaseOrders counts distinct PO codes per bin of their summed value.
func AggregatePurchaseOrders(fs *FilteredSet) (POSummary, error) {
	groups, err := groupByPOCode(fs)
	if err != nil {
		return POSummary{}, err
	}

	var summary POSummary
	summary.TotalUniquePO = len(groups)
	for _, g := range groups {
		summary.RangeCounts[Classify(g.total)]++
	}

	return summary, nil
}

// Breakdown lists every PO code with its row count, summed value and bin, ordered by
// value descending. Equal values keep first-seen order.
func Breakdown(fs *FilteredSet) ([]BreakdownRow, error) {
	groups, err := groupByPOCode(fs)
	if err != nil {
		return nil, err
	}

	rows := make([]BreakdownRow, 0, len(groups))
	for _, g := range groups {
		r := Classify(g.total)
		rows = append(rows, BreakdownRow{
			POCode:           g.code,
			TransactionCount: g.count,
			TotalValue:       g.total,
			Range:            r,
			RangeLabel:       r.Label(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalValue.GreaterThan(rows[j].TotalValue)
	})

	return rows, nil
}

// SearchBreakdown keeps the rows whose PO code contains query, ignoring case.
// An empty query returns the input unchanged.
func SearchBreakdown(rows []BreakdownRow, query string) []BreakdownRow {
	query = strings.TrimSpace(query)
	if query == "" {
		return rows
	}

	needle := strings.ToLower(query)
	out := make([]BreakdownRow, 0)
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.POCode), needle) {
			out = append(out, row)
		}
	}
	return out
}

// POAnalysis is the result of the PO capability check: either the PO-level views with
// their data, or the reason they are unavailable.
type POAnalysis struct {
	Available  bool           `json:"available"`
	Reason     string         `json:"reason,omitempty"`
	Summary    POSummary      `json:"summary"`
	Statistics Statistics     `json:"statistics"`
	Breakdown  []BreakdownRow `json:"breakdown"`
}

// AnalyzePurchaseOrders runs the PO aggregator and breakdown producer once the dataset is
// known to carry a po_code column. A missing column yields an unavailable result rather
// than an error so transaction-level analysis can continue.
func AnalyzePurchaseOrders(fs *FilteredSet) POAnalysis {
	if !fs.HasPOCode {
		return POAnalysis{
			Available: false,
			Reason:    missingColumn(ColumnPOCode, fs.Columns).Error(),
		}
	}

	summary, err := AggregatePurchaseOrders(fs)
	if err != nil {
		return POAnalysis{Reason: err.Error()}
	}
	breakdown, err := Breakdown(fs)
	if err != nil {
		return POAnalysis{Reason: err.Error()}
	}

	return POAnalysis{
		Available:  true,
		Summary:    summary,
		Statistics: summary.Statistics(),
		Breakdown:  breakdown,
	}
}
