package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"extrack/internal/amqp"
	"extrack/internal/core"
	"extrack/internal/sheets"
)

// Archive is a table sink that can tell whether a run was already stored.
type Archive interface {
	sheets.TableWriter
	HasReport(ctx context.Context, reportID string) (bool, error)
}

// ArchiveWorker stores summary tables received from the broker.
type ArchiveWorker struct {
	archive Archive
}

func NewArchiveWorker(archive Archive) *ArchiveWorker {
	return &ArchiveWorker{archive: archive}
}

// HandleSummaryMessage archives one message. Redelivered runs are
// acknowledged without being stored twice.
func (w *ArchiveWorker) HandleSummaryMessage(ctx context.Context, msg *amqp.SummaryMessage) error {
	if err := validate(msg); err != nil {
		// redelivery cannot fix a malformed table
		slog.ErrorContext(ctx, "Dropping malformed summary message", "run_id", msg.RunID, "error", err)
		return nil
	}

	runID := msg.RunID
	if runID == "" {
		body, err := msg.ToJSON()
		if err != nil {
			slog.ErrorContext(ctx, "Dropping unencodable summary message", "error", err)
			return nil
		}
		// same body, same id, so a redelivery is still recognised
		runID = uuid.NewSHA1(uuid.NameSpaceOID, body).String()
		slog.WarnContext(ctx, "Summary message without run id, derived one", "run_id", runID)
	}

	exists, err := w.archive.HasReport(ctx, runID)
	if err != nil {
		return fmt.Errorf("check archive: %w", err)
	}
	if exists {
		slog.InfoContext(ctx, "Summary already archived, skipping", "run_id", runID)
		return nil
	}

	ctx = core.WithRunID(ctx, runID)
	if err := w.store(ctx, msg); err != nil {
		return fmt.Errorf("archive summary %s: %w", runID, err)
	}

	slog.InfoContext(ctx, "Archived summary",
		"run_id", runID,
		"granularity", msg.Granularity,
		"buckets", len(msg.Rows),
		"published_at", msg.Timestamp)
	return nil
}

func (w *ArchiveWorker) store(ctx context.Context, msg *amqp.SummaryMessage) error {
	if err := w.archive.WriteHeader(ctx, msg.Header); err != nil {
		return err
	}
	for _, row := range msg.Rows {
		if err := w.archive.WriteRow(ctx, row); err != nil {
			return err
		}
	}
	return w.archive.Flush(ctx)
}

func validate(msg *amqp.SummaryMessage) error {
	if len(msg.Header) == 0 {
		return errors.New("empty header")
	}
	for i, row := range msg.Rows {
		if len(row) != len(msg.Header) {
			return fmt.Errorf("row %d has %d fields, header has %d", i, len(row), len(msg.Header))
		}
	}
	return nil
}
