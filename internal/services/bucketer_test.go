package services

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extrack/internal/core"
)

func TestBucketer_Key(t *testing.T) {
	tests := []struct {
		g    core.Granularity
		date string
		want string
	}{
		{core.Year, "2023-01-05", "2023"},
		{core.Month, "2023-01-05", "2023-01"},
		{core.Month, "2023-11-30", "2023-11"},
		{core.Year, "0999-06-01", "0999"},
		{core.Week, "2023-01-01", "2023-00"}, // Sunday before the first Monday
		{core.Week, "2023-01-02", "2023-01"}, // first Monday
		{core.Week, "2023-01-08", "2023-01"},
		{core.Week, "2023-01-09", "2023-02"},
		{core.Week, "2024-01-01", "2024-01"}, // year starting on a Monday
		{core.Week, "2023-12-31", "2023-52"},
		{core.Week, "2018-12-31", "2018-53"},
	}
	for _, tt := range tests {
		t.Run(string(tt.g)+"/"+tt.date, func(t *testing.T) {
			got, err := NewBucketer(tt.g).Key(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBucketer_KeyRejectsMalformedDates(t *testing.T) {
	b := NewBucketer(core.Month)
	for _, date := range []string{"", "2023-1-05", "05/01/2023", "2023-13-01", "2023-02-30", " 2023-01-05", "2023-01-05T10:00:00"} {
		_, err := b.Key(date)
		assert.Error(t, err, date)
	}
}

func TestBucketer_KeysSortChronologically(t *testing.T) {
	for _, g := range []core.Granularity{core.Year, core.Month, core.Week} {
		b := NewBucketer(g)
		start := time.Date(2021, 12, 20, 0, 0, 0, 0, time.UTC)
		var keys []string
		for d := 0; d < 800; d += 3 {
			keys = append(keys, b.KeyFor(start.AddDate(0, 0, d)))
		}
		assert.True(t, sort.StringsAreSorted(keys), "%s keys out of order", g)
	}

	assert.Less(t, "2023-02", "2023-11")
}

func TestMondayWeek(t *testing.T) {
	// Every Monday starts a new week and weeks hold at most seven days.
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := MondayWeek(day)
	for i := 1; i < 366*4; i++ {
		day = day.AddDate(0, 0, 1)
		w := MondayWeek(day)
		switch {
		case day.YearDay() == 1:
			assert.LessOrEqual(t, w, 1)
		case day.Weekday() == time.Monday:
			assert.Equal(t, prev+1, w, day.Format(dateLayout))
		default:
			assert.Equal(t, prev, w, day.Format(dateLayout))
		}
		prev = w
	}
}

func TestBucketer_Group(t *testing.T) {
	txs := append(scenarioTransactions(), core.Transaction{Date: "2023-01-05", Description: "Coffee", Amount: -4.5, Category: "Food"})
	groups, err := NewBucketer(core.Month).Group(txs)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Len(t, groups["2023-01"], 3, "duplicates are preserved")
	assert.Equal(t, "Salary", groups["2023-01"][1].Description, "input order is preserved")
	assert.Len(t, groups["2023-02"], 1)
}

func TestBucketer_GroupFailsOnBadDate(t *testing.T) {
	txs := append(scenarioTransactions(), core.Transaction{Date: "Jan 5th", Amount: 1, Category: "X"})
	_, err := NewBucketer(core.Month).Group(txs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDateParse))
	assert.True(t, core.KindOf(err).Fatal())
	assert.Contains(t, err.Error(), `"Jan 5th"`)
}
