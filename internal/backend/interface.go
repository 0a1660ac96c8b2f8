package backend

import (
	"context"

	"extrack/internal/sheets"
)

// CleanupFunc releases resources held by a source or sink.
type CleanupFunc func() error

// Result holds the resolved row source and table sink.
type Result struct {
	Source  sheets.RowSource
	Sink    sheets.TableWriter
	Cleanup CleanupFunc
}

// Factory creates sources and sinks based on configuration.
type Factory interface {
	Create(ctx context.Context, config Config) (*Result, error)
}

// SourceType names a row source implementation.
type SourceType string

// SinkType names a table sink implementation.
type SinkType string

const (
	XLSXSource   SourceType = "xlsx"
	CSVSource    SourceType = "csv"
	SheetsSource SourceType = "sheets"

	CSVSink    SinkType = "csv"
	SQLiteSink SinkType = "sqlite"
	AMQPSink   SinkType = "amqp"

	// Auto infers the type from the input path or output destination.
	Auto = "auto"
)

func (t SourceType) String() string { return string(t) }

func (t SinkType) String() string { return string(t) }
