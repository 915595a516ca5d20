package analysis

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// StatisticRow is one line of a statistics table.
type StatisticRow struct {
	Range      Range           `json:"-"`
	Label      string          `json:"rentang"`
	Count      int             `json:"jumlah"`
	Percentage decimal.Decimal `json:"persentase"`
}

// Statistics is the per-bin table in canonical order plus the TOTAL line.
type Statistics struct {
	Rows  []StatisticRow `json:"rows"`
	Total StatisticRow   `json:"total"`
}

// NewStatistics builds the table. Percentages are count/total*100 rounded to two
// decimals (half to even); when total is zero every percentage is zero.
func NewStatistics(counts RangeCounts, total int) Statistics {
	stats := Statistics{Rows: make([]StatisticRow, 0, NumRanges)}

	for i, count := range counts {
		stats.Rows = append(stats.Rows, StatisticRow{
			Range:      Range(i),
			Label:      Range(i).Label(),
			Count:      count,
			Percentage: Percentage(count, total, 2),
		})
	}

	stats.Total = StatisticRow{Range: -1, Label: "TOTAL", Count: total, Percentage: decimal.Zero}
	if total > 0 {
		stats.Total.Percentage = hundred
	}

	return stats
}

// Percentage returns part/total*100 rounded to places decimals, or zero when total is 0.
func Percentage(part, total int, places int32) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		RoundBank(places)
}
