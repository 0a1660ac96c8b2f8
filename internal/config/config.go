package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"extrack/internal/core"
)

const (
	SourceAuto   = "auto"
	SourceXLSX   = "xlsx"
	SourceCSV    = "csv"
	SourceSheets = "sheets"

	SinkAuto   = "auto"
	SinkCSV    = "csv"
	SinkSQLite = "sqlite"
	SinkAMQP   = "amqp"

	MaxParseWorkers = 64
)

type Config struct {
	// Input and output
	Input  string
	Output string // empty or "-" means standard output

	// Report shape
	TimeRange     string
	DateColumn    int
	DescColumn    int
	AmountColumn  int
	CatColumn     int
	FirstRowIndex int

	// Backend selection
	Source    string
	Sink      string
	SheetName string // workbook sheet; empty means the first one

	// Pipeline
	ParseWorkers int

	// Logging
	LogLevel  string
	LogFormat string

	// Google Sheets
	GoogleSpreadsheetID        string
	GoogleSheetRange           string
	GoogleServiceAccountJSON   string
	GoogleServiceAccountFile   string
	GoogleApplicationCredsFile string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Archive worker
	ArchiveDBPath string
}

func Load() *Config {
	return &Config{
		Input:  getEnv("EXTRACK_INPUT", ""),
		Output: getEnv("EXTRACK_OUTPUT", ""),

		TimeRange:     getEnv("EXTRACK_TIME_RANGE", string(core.Month)),
		DateColumn:    getEnvIndex("EXTRACK_DATE_COLUMN", 0),
		DescColumn:    getEnvIndex("EXTRACK_DESCRIPTION_COLUMN", 1),
		AmountColumn:  getEnvIndex("EXTRACK_AMOUNT_COLUMN", 2),
		CatColumn:     getEnvIndex("EXTRACK_CATEGORY_COLUMN", 3),
		FirstRowIndex: getEnvIndex("EXTRACK_FIRST_ROW_INDEX", 0),

		Source:    getEnv("EXTRACK_SOURCE", SourceAuto),
		Sink:      getEnv("EXTRACK_SINK", SinkAuto),
		SheetName: getEnv("EXTRACK_SHEET", ""),

		ParseWorkers: getEnvInt("EXTRACK_PARSE_WORKERS", 1),

		LogLevel:  getEnv("EXTRACK_LOG_LEVEL", "info"),
		LogFormat: getEnv("EXTRACK_LOG_FORMAT", "text"),

		GoogleSpreadsheetID:        getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:           getEnv("GOOGLE_SHEET_RANGE", ""),
		GoogleServiceAccountJSON:   getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile:   getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleApplicationCredsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "extrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "summaries"),

		ArchiveDBPath: getEnv("EXTRACK_ARCHIVE_DB", "data/extrack.db"),
	}
}

// Granularity returns the parsed time range. Call Validate first.
func (c *Config) Granularity() core.Granularity {
	g, err := core.ParseGranularity(c.TimeRange)
	if err != nil {
		return core.Month
	}
	return g
}

// Layout returns the row layout the parser works with.
func (c *Config) Layout() core.Layout {
	return core.Layout{
		Columns: core.Columns{
			Date:        c.DateColumn,
			Description: c.DescColumn,
			Amount:      c.AmountColumn,
			Category:    c.CatColumn,
		},
		FirstRowIndex: c.FirstRowIndex,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if _, err := core.ParseGranularity(c.TimeRange); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.Layout().Columns.Validate(); err != nil {
		errors = append(errors, err.Error())
	}
	if c.FirstRowIndex < 0 {
		errors = append(errors, fmt.Sprintf("invalid first row index %d: must not be negative", c.FirstRowIndex))
	}

	validSources := []string{SourceAuto, SourceXLSX, SourceCSV, SourceSheets}
	if !slices.Contains(validSources, c.Source) {
		errors = append(errors, fmt.Sprintf("invalid source '%s': must be one of %v", c.Source, validSources))
	}
	validSinks := []string{SinkAuto, SinkCSV, SinkSQLite, SinkAMQP}
	if !slices.Contains(validSinks, c.Sink) {
		errors = append(errors, fmt.Sprintf("invalid sink '%s': must be one of %v", c.Sink, validSinks))
	}

	sheetsInput := strings.HasPrefix(c.Input, "sheets:")
	usesSheets := c.Source == SourceSheets || (c.Source == SourceAuto && sheetsInput)
	if strings.TrimSpace(c.Input) == "" && !(usesSheets && c.GoogleSpreadsheetID != "") {
		errors = append(errors, "input is required")
	}

	if usesSheets {
		if c.GoogleSpreadsheetID == "" && !sheetsInput {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && c.GoogleApplicationCredsFile == "" {
			errors = append(errors, "one of GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets source")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	amqpOutput := strings.HasPrefix(c.Output, "amqp://") || strings.HasPrefix(c.Output, "amqps://")
	if c.Sink == SinkAMQP || (c.Sink == SinkAuto && amqpOutput) {
		rawURL := c.AMQPURL
		if amqpOutput {
			rawURL = c.Output
		}
		if rawURL == "" {
			errors = append(errors, "AMQP URL is required when using amqp sink")
		} else if parsedURL, err := url.Parse(rawURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", rawURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when using amqp sink")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when using amqp sink")
		}
	}

	if c.Sink == SinkSQLite && strings.TrimPrefix(c.Output, "sqlite:") == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite sink")
	}

	if c.ParseWorkers < 1 {
		errors = append(errors, fmt.Sprintf("invalid parse workers %d: must be at least 1", c.ParseWorkers))
	} else if c.ParseWorkers > MaxParseWorkers {
		errors = append(errors, fmt.Sprintf("invalid parse workers %d: must be at most %d", c.ParseWorkers, MaxParseWorkers))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateArchiver checks the settings the archive worker needs.
func (c *Config) ValidateArchiver() error {
	var errors []string

	if c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required for the archive worker")
	} else if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
	} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
		errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
	}
	if c.AMQPQueue == "" {
		errors = append(errors, "AMQP queue name cannot be empty")
	}
	if c.AMQPExchange == "" {
		errors = append(errors, "AMQP exchange name cannot be empty")
	}
	if strings.TrimPrefix(c.ArchiveDBPath, "sqlite:") == "" {
		errors = append(errors, "archive database path cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvIndex reads a non-negative index; anything else yields the default.
func getEnvIndex(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if u, err := strconv.ParseUint(strings.TrimSpace(value), 10, 31); err == nil {
			return int(u)
		}
	}
	return defaultValue
}
