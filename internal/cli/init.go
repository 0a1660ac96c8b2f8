// Package cli provides the startup plumbing shared by the extrack command:
// environment loading, flag overrides, logger setup and signal handling.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"extrack/internal/config"
	applog "extrack/internal/log"
)

// SetupLogger builds the application logger from the configured level and
// format, writing to out (stderr when nil), and installs it as the slog
// default.
func SetupLogger(cfg *config.Config, out io.Writer) *applog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level, err := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
		Output:    out,
	})
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", cfg.LogLevel)
	}
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads the environment, applies command-line overrides and
// validates the result.
func LoadConfig(args []string, stderr io.Writer) (*config.Config, error) {
	cfg := config.Load()
	if err := ApplyFlags(cfg, args, stderr); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
