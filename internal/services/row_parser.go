package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"extrack/internal/core"
)

// SkippedRow records a source row that did not yield a transaction.
type SkippedRow struct {
	Row         int // zero-based index into the source rows
	Transaction core.Transaction
}

// Diagnostic returns the human-readable skip message.
func (s SkippedRow) Diagnostic() string {
	return s.Transaction.Diagnostic()
}

// ParseResult holds the outcome of parsing every data row, in source order.
type ParseResult struct {
	Transactions []core.Transaction
	Skipped      []SkippedRow
}

// RowParser turns raw rows into transactions according to a layout.
type RowParser struct {
	layout core.Layout
}

func NewRowParser(layout core.Layout) *RowParser {
	return &RowParser{layout: layout}
}

// Parse converts one row. A row whose amount coerces to exactly zero is
// rejected with a KindRowSkipped error; the returned transaction still
// carries the coerced fields for diagnostics.
func (p *RowParser) Parse(index int, row core.Row) (core.Transaction, error) {
	cols := p.layout.Columns
	tx := core.Transaction{
		Date:        row.At(cols.Date).String(),
		Description: row.At(cols.Description).String(),
		Amount:      core.CoerceAmount(row.At(cols.Amount)),
		Category:    core.CoerceCategory(row.At(cols.Category)),
	}
	if tx.Amount == 0 {
		return tx, core.NewRowError(core.KindRowSkipped, "parse row", index, errors.New(tx.Diagnostic()))
	}
	return tx, nil
}

type parsedRow struct {
	tx      core.Transaction
	skipped bool
}

// ParseAll parses every row at or past the layout's first row index. With
// more than one worker, rows are parsed concurrently in contiguous chunks;
// results are always reported in source order.
func (p *RowParser) ParseAll(ctx context.Context, rows []core.Row, workers int) (ParseResult, error) {
	first := p.layout.FirstRowIndex
	if first < 0 {
		first = 0
	}
	if first > len(rows) {
		first = len(rows)
	}
	data := rows[first:]
	out := make([]parsedRow, len(data))

	parseRange := func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			if i%256 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			tx, err := p.Parse(first+i, data[i])
			out[i] = parsedRow{tx: tx, skipped: err != nil}
		}
		return nil
	}

	if workers <= 1 || len(data) < 2*workers {
		if err := parseRange(0, len(data)); err != nil {
			return ParseResult{}, err
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		chunk := (len(data) + workers - 1) / workers
		for lo := 0; lo < len(data); lo += chunk {
			lo, hi := lo, min(lo+chunk, len(data))
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return parseRange(lo, hi)
			})
		}
		if err := g.Wait(); err != nil {
			return ParseResult{}, err
		}
	}

	var res ParseResult
	for i, r := range out {
		if r.skipped {
			res.Skipped = append(res.Skipped, SkippedRow{Row: first + i, Transaction: r.tx})
			continue
		}
		res.Transactions = append(res.Transactions, r.tx)
	}
	return res, nil
}
