package sheets

import (
	"context"

	"extrack/internal/core"
)

// Ports for inbound and outbound adapters.
type (
	// RowSource yields the raw rows of one table, header rows included.
	RowSource interface {
		ReadRows(ctx context.Context) ([]core.Row, error)
	}

	// TableWriter receives a rendered table. Nothing is considered emitted
	// until Flush returns nil.
	TableWriter interface {
		WriteHeader(ctx context.Context, header []string) error
		WriteRow(ctx context.Context, row []string) error
		Flush(ctx context.Context) error
	}
)
