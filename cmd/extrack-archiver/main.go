package main

import (
	"context"
	"errors"
	"os"

	"extrack/internal/amqp"
	"extrack/internal/cli"
	"extrack/internal/config"
	applog "extrack/internal/log"
	"extrack/internal/storage"
	"extrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg, os.Stderr).WithComponent(applog.ComponentArchive)

	if err := cfg.ValidateArchiver(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	os.Exit(run(cfg, logger))
}

func run(cfg *config.Config, logger *applog.Logger) int {
	logger.Info("Starting extrack-archiver", "queue", cfg.AMQPQueue, "db_path", cfg.ArchiveDBPath)

	archive, err := storage.NewSQLiteSink(cfg.ArchiveDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite archive", applog.FieldError, err, "path", cfg.ArchiveDBPath)
		return 1
	}
	defer archive.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		return 1
	}
	defer amqpClient.Close()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	archiveWorker := worker.NewArchiveWorker(archive)
	if err := amqpClient.ConsumeSummaries(ctx, archiveWorker.HandleSummaryMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		return 1
	}

	logger.Info("extrack-archiver stopped")
	return 0
}
