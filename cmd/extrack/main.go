package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"extrack/internal/backend"
	"extrack/internal/cli"
	"extrack/internal/core"
	applog "extrack/internal/log"
	"extrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := cli.LoadConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "extrack: %v\n", err)
		return 2
	}

	logger := cli.SetupLogger(cfg, stderr)

	ctx, stop := cli.SignalContext(ctx)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg, stdout)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		return 1
	}

	res, err := backend.NewFactory(logger).Create(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err)
		fmt.Fprintf(stderr, "extrack: %v\n", err)
		return 1
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Warn("Cleanup failed", applog.FieldError, err)
			}
		}()
	}

	svc := services.NewReportService(res.Source, res.Sink, services.ReportConfig{
		Layout:      cfg.Layout(),
		Granularity: cfg.Granularity(),
		Workers:     cfg.ParseWorkers,
	}, logger)

	if _, err := svc.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "extrack: %s: %v\n", core.KindOf(err), err)
		return 1
	}
	return 0
}
