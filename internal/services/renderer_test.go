package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extrack/internal/core"
	"extrack/internal/sheets/csvfile"
	"extrack/internal/sheets/memory"
)

func TestBuildTable_MonthScenario(t *testing.T) {
	table := BuildTable(summarizeScenario(t, core.Month))

	assert.Equal(t, []string{"Date", "Food", "Housing", "Income"}, table.Header)
	assert.Equal(t, [][]string{
		{"2023-01", "-4.5", "0", "2000"},
		{"2023-02", "0", "-800", "0"},
	}, table.Rows)
}

func TestBuildTable_IsRectangular(t *testing.T) {
	d := decimal.NewFromInt
	summaries := []core.Summary{
		{Bucket: "2023-01", CategoryBreakdown: map[string]decimal.Decimal{"b": d(1)}},
		{Bucket: "2023-02", CategoryBreakdown: map[string]decimal.Decimal{"a": d(-2), "c": d(3)}},
		{Bucket: "2023-03", CategoryBreakdown: map[string]decimal.Decimal{}},
		{Bucket: "2023-04", CategoryBreakdown: map[string]decimal.Decimal{"c": d(4), "b": d(5)}},
	}
	table := BuildTable(summaries)

	assert.Equal(t, []string{"Date", "a", "b", "c"}, table.Header)
	require.Len(t, table.Rows, len(summaries))
	for i, row := range table.Rows {
		assert.Len(t, row, len(table.Header))
		assert.Equal(t, summaries[i].Bucket, row[0])
	}
	assert.Equal(t, []string{"2023-03", "0", "0", "0"}, table.Rows[2])
}

func TestHeader_Empty(t *testing.T) {
	assert.Equal(t, []string{"Date"}, Header(nil))
}

func TestRender_CSVOutput(t *testing.T) {
	var out bytes.Buffer
	err := Render(context.Background(), BuildTable(summarizeScenario(t, core.Month)), csvfile.NewStreamWriter(&out))
	require.NoError(t, err)

	assert.Equal(t, "Date,Food,Housing,Income\n2023-01,-4.5,0,2000\n2023-02,0,-800,0\n", out.String())
}

type plainFailingWriter struct{}

func (plainFailingWriter) WriteHeader(context.Context, []string) error { return nil }
func (plainFailingWriter) WriteRow(context.Context, []string) error    { return nil }
func (plainFailingWriter) Flush(context.Context) error                 { return errors.New("disk full") }

func TestRender_SinkFailures(t *testing.T) {
	table := BuildTable(summarizeScenario(t, core.Month))

	for _, op := range []string{"header", "row", "flush"} {
		tbl := memory.NewTable().FailOn(op)
		err := Render(context.Background(), table, tbl)
		assert.True(t, errors.Is(err, core.ErrSinkFailure), "%s: %v", op, err)
		assert.False(t, tbl.Flushed())
	}

	err := Render(context.Background(), table, plainFailingWriter{})
	assert.Equal(t, core.KindSinkFailure, core.KindOf(err))
	assert.ErrorContains(t, err, "disk full")
}
