package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"extrack/internal/core"
)

// Aggregate folds one bucket's transactions into a summary. Amounts are
// accumulated in input order as decimals, so every sum is exact and
// independent of order; income and expenses split on the sign of each
// category's net amount, not on individual transactions.
func Aggregate(bucket string, txs []core.Transaction) core.Summary {
	total := decimal.Zero
	breakdown := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		amount := decimal.NewFromFloat(tx.Amount)
		breakdown[tx.Category] = breakdown[tx.Category].Add(amount)
		total = total.Add(amount)
	}

	s := core.Summary{
		Bucket:            bucket,
		Income:            decimal.Zero,
		Expenses:          decimal.Zero,
		Total:             total,
		CategoryBreakdown: breakdown,
	}
	for _, cat := range s.Categories() {
		if v := breakdown[cat]; v.IsPositive() {
			s.Income = s.Income.Add(v)
		} else {
			s.Expenses = s.Expenses.Add(v)
		}
	}
	return s
}

// Summarize aggregates every bucket and orders the summaries by key.
func Summarize(groups map[string][]core.Transaction) []core.Summary {
	out := make([]core.Summary, 0, len(groups))
	for bucket, txs := range groups {
		out = append(out, Aggregate(bucket, txs))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out
}
