package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"extrack/internal/amqp"
	"extrack/internal/core"
	applog "extrack/internal/log"
	"extrack/internal/sheets"
	"extrack/internal/sheets/csvfile"
	gsheet "extrack/internal/sheets/google"
	"extrack/internal/sheets/xlsx"
	"extrack/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// Create resolves and opens the source and sink. On error nothing is left
// open.
func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	sourceType, err := config.ResolveSource()
	if err != nil {
		return nil, err
	}
	sinkType, err := config.ResolveSink()
	if err != nil {
		return nil, err
	}

	source, err := f.createSource(ctx, sourceType, config)
	if err != nil {
		return nil, err
	}

	sink, cleanup, err := f.createSink(sinkType, config)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Initialized backend",
		"source", sourceType,
		"sink", sinkType)

	return &Result{
		Source:  source,
		Sink:    sink,
		Cleanup: cleanup,
	}, nil
}

func (f *DefaultFactory) createSource(ctx context.Context, sourceType SourceType, config Config) (sheets.RowSource, error) {
	switch sourceType {
	case XLSXSource:
		return xlsx.New(config.Input, config.SheetName), nil
	case CSVSource:
		src := csvfile.New(config.Input)
		if strings.EqualFold(filepath.Ext(config.Input), ".tsv") {
			src = src.WithComma('\t')
		}
		return src, nil
	case SheetsSource:
		cli, err := gsheet.New(ctx, config.spreadsheetID(), config.GoogleSheetRange, gsheet.Credentials{
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
			ServiceAccountFile: config.GoogleServiceAccountFile,
			ApplicationCreds:   config.GoogleApplicationCredsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		return cli, nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

func (f *DefaultFactory) createSink(sinkType SinkType, config Config) (sheets.TableWriter, CleanupFunc, error) {
	switch sinkType {
	case CSVSink:
		if config.ToStdout() {
			out := config.Stdout
			if out == nil {
				out = os.Stdout
			}
			return csvfile.NewStreamWriter(out), nil, nil
		}
		return csvfile.NewFileWriter(config.Output), nil, nil

	case SQLiteSink:
		sink, err := storage.NewDeferredSQLiteSink(config.Output)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite sink: %w", err)
		}
		f.logger.Info("Initialized SQLite sink", "db_path", strings.TrimPrefix(config.Output, "sqlite:"))
		return sink, sink.Close, nil

	case AMQPSink:
		url := config.amqpURL()
		if url == "" {
			return nil, nil, core.NewError(core.KindSinkFailure, "amqp sink", errors.New("missing AMQP URL"))
		}
		client, err := amqp.NewClient(url, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			return nil, nil, core.NewError(core.KindSinkFailure, "amqp sink", err)
		}
		f.logger.Info("Initialized AMQP sink",
			"exchange", config.AMQPExchange,
			"queue", config.AMQPQueue)
		return amqp.NewSink(client, config.Granularity), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported sink type: %s", sinkType)
	}
}
