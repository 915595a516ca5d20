package analysis

import "github.com/shopspring/decimal"

// TransactionSummary is the transaction-level aggregation: one row is one transaction.
type TransactionSummary struct {
	TotalCount  int             `json:"total_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RangeCounts RangeCounts     `json:"range_counts"`
}

// AggregateTransactions counts and sums the filtered rows per bin.
func AggregateTransactions(fs *FilteredSet) TransactionSummary {
	summary := TransactionSummary{TotalAmount: decimal.Zero}

	for _, tx := range fs.Transactions {
		summary.TotalCount++
		summary.TotalAmount = summary.TotalAmount.Add(tx.Amount)
		summary.RangeCounts[Classify(tx.Amount)]++
	}

	return summary
}

// Statistics returns the per-bin statistics table of the summary.
func (s TransactionSummary) Statistics() Statistics {
	return NewStatistics(s.RangeCounts, s.TotalCount)
}
