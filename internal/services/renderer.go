package services

import (
	"context"
	"sort"

	"extrack/internal/core"
	"extrack/internal/sheets"
)

// DateColumn is the fixed leading column of the rendered table.
const DateColumn = "Date"

// Table is a rendered, rectangular summary table.
type Table struct {
	Header []string
	Rows   [][]string
}

// Header returns "Date" followed by the sorted union of all categories.
func Header(summaries []core.Summary) []string {
	seen := make(map[string]struct{})
	for _, s := range summaries {
		for cat := range s.CategoryBreakdown {
			seen[cat] = struct{}{}
		}
	}
	cats := make([]string, 0, len(seen))
	for cat := range seen {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return append([]string{DateColumn}, cats...)
}

// BuildTable renders one row per summary, zero-filling categories a bucket
// has no transactions in.
func BuildTable(summaries []core.Summary) Table {
	header := Header(summaries)
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		row := make([]string, 0, len(header))
		row = append(row, s.Bucket)
		for _, cat := range header[1:] {
			row = append(row, s.Amount(cat).String())
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}

// Render writes the table to w and flushes it.
func Render(ctx context.Context, t Table, w sheets.TableWriter) error {
	if err := w.WriteHeader(ctx, t.Header); err != nil {
		return asSinkFailure("write header", err)
	}
	for _, row := range t.Rows {
		if err := w.WriteRow(ctx, row); err != nil {
			return asSinkFailure("write row", err)
		}
	}
	if err := w.Flush(ctx); err != nil {
		return asSinkFailure("flush", err)
	}
	return nil
}

func asSinkFailure(op string, err error) error {
	if core.KindOf(err) != core.KindUnknown {
		return err
	}
	return core.NewError(core.KindSinkFailure, op, err)
}
