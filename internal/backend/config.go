package backend

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"extrack/internal/config"
	"extrack/internal/core"
)

// Config holds configuration for source and sink creation.
type Config struct {
	Source string // auto, xlsx, csv or sheets
	Sink   string // auto, csv, sqlite or amqp

	Input  string
	Output string // empty or "-" writes to Stdout
	Stdout io.Writer

	Granularity core.Granularity

	// Workbook specific
	SheetName string

	// Google Sheets specific
	GoogleSpreadsheetID        string
	GoogleSheetRange           string
	GoogleServiceAccountJSON   string
	GoogleServiceAccountFile   string
	GoogleApplicationCredsFile string

	// AMQP specific
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config, stdout io.Writer) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	return Config{
		Source:      appConfig.Source,
		Sink:        appConfig.Sink,
		Input:       appConfig.Input,
		Output:      appConfig.Output,
		Stdout:      stdout,
		Granularity: appConfig.Granularity(),
		SheetName:   appConfig.SheetName,

		GoogleSpreadsheetID:        appConfig.GoogleSpreadsheetID,
		GoogleSheetRange:           appConfig.GoogleSheetRange,
		GoogleServiceAccountJSON:   appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile:   appConfig.GoogleServiceAccountFile,
		GoogleApplicationCredsFile: appConfig.GoogleApplicationCredsFile,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}, nil
}

// ResolveSource returns the source type, inferring it from the input when
// Source is auto. Unknown extensions are read as workbooks.
func (c Config) ResolveSource() (SourceType, error) {
	switch c.Source {
	case "", Auto:
	case string(XLSXSource), string(CSVSource), string(SheetsSource):
		return SourceType(c.Source), nil
	default:
		return "", fmt.Errorf("invalid source type: %s", c.Source)
	}

	if strings.HasPrefix(c.Input, "sheets:") || (c.Input == "" && c.GoogleSpreadsheetID != "") {
		return SheetsSource, nil
	}
	switch strings.ToLower(filepath.Ext(c.Input)) {
	case ".csv", ".tsv":
		return CSVSource, nil
	default:
		return XLSXSource, nil
	}
}

// ResolveSink returns the sink type, inferring it from the output
// destination when Sink is auto.
func (c Config) ResolveSink() (SinkType, error) {
	switch c.Sink {
	case "", Auto:
	case string(CSVSink), string(SQLiteSink), string(AMQPSink):
		return SinkType(c.Sink), nil
	default:
		return "", fmt.Errorf("invalid sink type: %s", c.Sink)
	}

	switch {
	case strings.HasPrefix(c.Output, "sqlite:"):
		return SQLiteSink, nil
	case strings.HasPrefix(c.Output, "amqp://"), strings.HasPrefix(c.Output, "amqps://"):
		return AMQPSink, nil
	default:
		return CSVSink, nil
	}
}

// ToStdout reports whether the CSV sink writes to standard output.
func (c Config) ToStdout() bool {
	return c.Output == "" || c.Output == "-"
}

func (c Config) spreadsheetID() string {
	if strings.HasPrefix(c.Input, "sheets:") {
		return c.Input
	}
	return c.GoogleSpreadsheetID
}

func (c Config) amqpURL() string {
	if strings.HasPrefix(c.Output, "amqp://") || strings.HasPrefix(c.Output, "amqps://") {
		return c.Output
	}
	return c.AMQPURL
}
