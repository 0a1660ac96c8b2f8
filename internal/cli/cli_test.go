package cli

import (
	"bytes"
	"errors"
	"flag"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extrack/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		TimeRange:    "Month",
		Source:       config.SourceAuto,
		Sink:         config.SinkAuto,
		ParseWorkers: 1,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "positional input",
			args: []string{"book.xlsx"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "book.xlsx", cfg.Input)
				assert.Equal(t, "Month", cfg.TimeRange)
			},
		},
		{
			name: "short flags",
			args: []string{"-o", "out.csv", "-t", "Week", "book.xlsx"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "out.csv", cfg.Output)
				assert.Equal(t, "Week", cfg.TimeRange)
			},
		},
		{
			name: "long flags",
			args: []string{"-output", "sqlite:r.db", "-timerange", "Year", "-source", "csv", "-sink", "sqlite", "-sheet", "2024", "-workers", "8", "tx.txt"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "sqlite:r.db", cfg.Output)
				assert.Equal(t, "Year", cfg.TimeRange)
				assert.Equal(t, config.SourceCSV, cfg.Source)
				assert.Equal(t, config.SinkSQLite, cfg.Sink)
				assert.Equal(t, "2024", cfg.SheetName)
				assert.Equal(t, 8, cfg.ParseWorkers)
				assert.Equal(t, "tx.txt", cfg.Input)
			},
		},
		{
			name: "no input keeps environment value",
			args: []string{"-t", "Year"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "env.xlsx", cfg.Input)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.Input = "env.xlsx"
			require.NoError(t, ApplyFlags(cfg, tt.args, &bytes.Buffer{}))
			tt.check(t, cfg)
		})
	}
}

func TestApplyFlags_Errors(t *testing.T) {
	cfg := baseConfig()
	err := ApplyFlags(cfg, []string{"a.xlsx", "b.xlsx"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "expected one input")

	var stderr bytes.Buffer
	err = ApplyFlags(baseConfig(), []string{"-bogus"}, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "Usage: extrack")

	err = ApplyFlags(baseConfig(), []string{"-h"}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("EXTRACK_TIME_RANGE", "Year")
	t.Setenv("EXTRACK_INPUT", "")

	cfg, err := LoadConfig([]string{"-t", "week", "book.xlsx"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "week", cfg.TimeRange)
	assert.Equal(t, "book.xlsx", cfg.Input)

	_, err = LoadConfig([]string{"-t", "Day", "book.xlsx"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	logger := SetupLogger(cfg, &buf)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"msg":"shown"`)
}
