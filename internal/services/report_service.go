package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"extrack/internal/core"
	applog "extrack/internal/log"
	"extrack/internal/sheets"
)

// ReportConfig holds the settings one report run needs.
type ReportConfig struct {
	Layout      core.Layout
	Granularity core.Granularity
	// Workers is the row parsing concurrency (default: 1)
	Workers int
}

// RunResult describes a completed report run.
type RunResult struct {
	RunID        string
	Rows         int
	Transactions int
	Skipped      []SkippedRow
	Summaries    []core.Summary
	Table        Table
}

// ReportService runs the read, parse, bucket, aggregate and render pipeline
// from a row source into a table sink.
type ReportService struct {
	source   sheets.RowSource
	sink     sheets.TableWriter
	parser   *RowParser
	bucketer Bucketer
	workers  int
	logger   *applog.Logger
}

func NewReportService(source sheets.RowSource, sink sheets.TableWriter, cfg ReportConfig, logger *applog.Logger) *ReportService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g := cfg.Granularity
	if !g.IsValid() {
		g = core.Month
	}
	return &ReportService{
		source:   source,
		sink:     sink,
		parser:   NewRowParser(cfg.Layout),
		bucketer: NewBucketer(g),
		workers:  workers,
		logger:   logger.WithComponent(applog.ComponentReport),
	}
}

// Run executes one report. Skipped rows are logged as warnings and the run
// continues; every other failure aborts before anything reaches the sink.
func (s *ReportService) Run(ctx context.Context) (RunResult, error) {
	start := time.Now()
	res := RunResult{RunID: uuid.NewString()}
	logger := s.logger.With(applog.FieldRunID, res.RunID)
	ctx = applog.WithContext(core.WithRunID(ctx, res.RunID), logger)

	rows, err := s.source.ReadRows(ctx)
	if err != nil {
		if core.KindOf(err) == core.KindUnknown {
			err = core.NewError(core.KindSourceUnavailable, "read rows", err)
		}
		logger.ErrorContext(ctx, "Failed to read source", applog.FieldError, err)
		return res, err
	}
	res.Rows = len(rows)

	parsed, err := s.parser.ParseAll(ctx, rows, s.workers)
	if err != nil {
		return res, err
	}
	res.Skipped = parsed.Skipped
	res.Transactions = len(parsed.Transactions)

	parserLog := logger.WithComponent(applog.ComponentParser)
	for _, sk := range parsed.Skipped {
		tx := sk.Transaction
		parserLog.WarnContext(ctx, sk.Diagnostic(),
			applog.NewFields().
				WithOperation(applog.OpParse).
				WithTransaction(sk.Row, tx.Date, tx.Description, tx.Amount, tx.Category).
				ToSlice()...)
	}

	groups, err := s.bucketer.Group(parsed.Transactions)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to bucket transactions",
			applog.FieldOperation, applog.OpBucket,
			applog.FieldGranularity, s.bucketer.granularity,
			applog.FieldError, err)
		return res, err
	}

	res.Summaries = Summarize(groups)
	res.Table = BuildTable(res.Summaries)

	if err := Render(ctx, res.Table, s.sink); err != nil {
		logger.ErrorContext(ctx, "Failed to write report", applog.FieldOperation, applog.OpRender, applog.FieldError, err)
		return res, err
	}

	logger.InfoContext(ctx, "Report written",
		applog.FieldGranularity, s.bucketer.granularity,
		applog.FieldRows, res.Rows,
		applog.FieldTransactions, res.Transactions,
		applog.FieldSkipped, len(res.Skipped),
		applog.FieldBuckets, len(res.Summaries),
		applog.FieldWorkers, s.workers,
		applog.FieldDuration, time.Since(start).Milliseconds())

	return res, nil
}
