package analysis

// Report bundles every view of one dataset under one vendor filter.
type Report struct {
	Vendor         string             `json:"vendor,omitempty"`
	Filter         FilterSummary      `json:"filter"`
	Transactions   TransactionSummary `json:"transactions"`
	Statistics     Statistics         `json:"statistics"`
	Headline       Headline           `json:"headline"`
	Insights       []Insight          `json:"insights"`
	PurchaseOrders POAnalysis         `json:"purchase_orders"`

	// Rows is the filtered row set, for the raw-data view and exports.
	Rows *FilteredSet `json:"-"`
}

// BuildReport filters the dataset once and runs every aggregation over the result.
// Transaction-level analysis fails on a missing required column or an empty vendor
// match; PO-level analysis degrades to unavailable when po_code is absent.
func BuildReport(ds *Dataset, vendor string) (*Report, error) {
	fs, err := FilterRows(ds, vendor)
	if err != nil {
		return nil, err
	}

	summary := AggregateTransactions(fs)
	if summary.RangeCounts.Total() != summary.TotalCount {
		return nil, &ComputationError{
			Op:  "aggregate transactions",
			Err: errRangeMismatch,
		}
	}

	report := &Report{
		Vendor:         vendor,
		Filter:         fs.Summary,
		Transactions:   summary,
		Statistics:     summary.Statistics(),
		Headline:       NewHeadline(fs, summary),
		Insights:       Insights(summary.RangeCounts, summary.TotalCount),
		PurchaseOrders: AnalyzePurchaseOrders(fs),
		Rows:           fs,
	}

	if report.PurchaseOrders.Available {
		n := report.PurchaseOrders.Summary.TotalUniquePO
		report.Headline.TotalUniquePO = &n
	}

	return report, nil
}
