package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Summary is the aggregate of one bucket. Income is the sum of the positive
// category totals and Expenses the sum of the rest. Amounts are decimals so
// the breakdown, Income + Expenses and Total agree exactly.
type Summary struct {
	Bucket            string
	Income            decimal.Decimal
	Expenses          decimal.Decimal
	Total             decimal.Decimal
	CategoryBreakdown map[string]decimal.Decimal
}

// Categories returns the breakdown keys in lexicographic order.
func (s Summary) Categories() []string {
	out := make([]string, 0, len(s.CategoryBreakdown))
	for k := range s.CategoryBreakdown {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Amount returns the breakdown value for category, or zero when absent.
func (s Summary) Amount(category string) decimal.Decimal {
	if v, ok := s.CategoryBreakdown[category]; ok {
		return v
	}
	return decimal.Zero
}

// Validate checks the sign constraints on income and expenses and that the
// breakdown, the income/expense split and the total agree.
func (s Summary) Validate() error {
	if s.Bucket == "" {
		return fmt.Errorf("summary has empty bucket")
	}
	if s.Income.IsNegative() {
		return fmt.Errorf("bucket %s: income %s is negative", s.Bucket, s.Income)
	}
	if s.Expenses.IsPositive() {
		return fmt.Errorf("bucket %s: expenses %s is positive", s.Bucket, s.Expenses)
	}
	sum := decimal.Zero
	for _, v := range s.CategoryBreakdown {
		sum = sum.Add(v)
	}
	if !sum.Equal(s.Total) {
		return fmt.Errorf("bucket %s: breakdown sums to %s, total is %s", s.Bucket, sum, s.Total)
	}
	if split := s.Income.Add(s.Expenses); !split.Equal(s.Total) {
		return fmt.Errorf("bucket %s: income + expenses is %s, total is %s", s.Bucket, split, s.Total)
	}
	return nil
}
