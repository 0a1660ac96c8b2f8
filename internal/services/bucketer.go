package services

import (
	"fmt"
	"time"

	"extrack/internal/core"
)

const dateLayout = "2006-01-02"

// Bucketer derives bucket keys from transaction dates. Keys are zero-padded
// so that lexicographic order equals chronological order.
type Bucketer struct {
	granularity core.Granularity
}

func NewBucketer(g core.Granularity) Bucketer {
	return Bucketer{granularity: g}
}

// Key returns the bucket key for a YYYY-MM-DD date.
func (b Bucketer) Key(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return b.KeyFor(t), nil
}

// KeyFor returns the bucket key for an already parsed date.
func (b Bucketer) KeyFor(t time.Time) string {
	switch b.granularity {
	case core.Year:
		return fmt.Sprintf("%04d", t.Year())
	case core.Week:
		return fmt.Sprintf("%04d-%02d", t.Year(), MondayWeek(t))
	default:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	}
}

// Group buckets transactions by key, preserving input order inside each
// bucket. Any malformed date aborts the whole grouping.
func (b Bucketer) Group(txs []core.Transaction) (map[string][]core.Transaction, error) {
	groups := make(map[string][]core.Transaction)
	for i, tx := range txs {
		key, err := b.Key(tx.Date)
		if err != nil {
			return nil, core.NewError(core.KindDateParseFailure, "bucket transactions", fmt.Errorf("transaction %d: %w", i, err))
		}
		groups[key] = append(groups[key], tx)
	}
	return groups, nil
}

// MondayWeek returns the week of the year with Monday as the first day of
// the week. Days before the year's first Monday are in week 0, so the
// result ranges over 0..53.
func MondayWeek(t time.Time) int {
	yday := t.YearDay() - 1
	wday := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return (yday + 7 - wday) / 7
}
