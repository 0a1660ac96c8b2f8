package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"extrack/internal/core"
	applog "extrack/internal/log"
	"extrack/internal/sheets"

	_ "modernc.org/sqlite"
)

var _ sheets.TableWriter = (*SQLiteSink)(nil)

// SQLiteSink archives rendered tables in a SQLite database. Each table is
// stored in long form, one cell per (bucket, category), and committed in a
// single transaction on Flush.
type SQLiteSink struct {
	path   string
	db     *sql.DB
	header []string
	rows   [][]string
}

// NewSQLiteSink opens (creating if needed) the database at dbPath and
// applies migrations.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	s, err := NewDeferredSQLiteSink(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewDeferredSQLiteSink returns a sink that touches the filesystem only on
// its first Flush or query, so a run that fails before output leaves no
// database behind.
func NewDeferredSQLiteSink(dbPath string) (*SQLiteSink, error) {
	dbPath = strings.TrimPrefix(dbPath, "sqlite:")
	if dbPath == "" {
		return nil, core.NewError(core.KindSinkFailure, "open sqlite", errors.New("empty database path"))
	}
	return &SQLiteSink{path: dbPath}, nil
}

func (s *SQLiteSink) open() error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return core.NewError(core.KindSinkFailure, "open sqlite", fmt.Errorf("create db directory: %w", err))
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return core.NewError(core.KindSinkFailure, "open sqlite", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return core.NewError(core.KindSinkFailure, "open sqlite", fmt.Errorf("ping database: %w", err))
	}

	version, err := RunMigrations(s.path)
	if err != nil {
		db.Close()
		return core.NewError(core.KindSinkFailure, "open sqlite", err)
	}
	slog.Debug("SQLite archive ready",
		"db_path", s.path,
		"schema_version", version)

	s.db = db
	return nil
}

func (s *SQLiteSink) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteSink) WriteHeader(_ context.Context, header []string) error {
	if len(header) == 0 {
		return core.NewError(core.KindSinkFailure, "write header", errors.New("empty header"))
	}
	s.header = append([]string(nil), header...)
	s.rows = nil
	return nil
}

func (s *SQLiteSink) WriteRow(_ context.Context, row []string) error {
	if len(row) != len(s.header) {
		return core.NewError(core.KindSinkFailure, "write row",
			fmt.Errorf("row has %d fields, header has %d", len(row), len(s.header)))
	}
	s.rows = append(s.rows, append([]string(nil), row...))
	return nil
}

// Flush stores the buffered table under the context's run ID (a fresh UUID
// when none is set).
func (s *SQLiteSink) Flush(ctx context.Context) error {
	reportID := core.RunIDFrom(ctx)
	if reportID == "" {
		reportID = uuid.NewString()
	}
	if err := s.open(); err != nil {
		return err
	}
	if err := s.store(ctx, reportID); err != nil {
		return core.NewError(core.KindSinkFailure, "flush sqlite", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).DebugContext(ctx, "Report saved to SQLite",
		"report_id", reportID,
		applog.FieldBuckets, len(s.rows))
	s.header, s.rows = nil, nil
	return nil
}

func (s *SQLiteSink) store(ctx context.Context, reportID string) error {
	header, err := json.Marshal(s.header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reports (id, header, bucket_count) VALUES (?, ?, ?)`,
		reportID, string(header), len(s.rows)); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO report_cells (report_id, row_index, bucket, category, amount) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cell insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range s.rows {
		for c := 1; c < len(row); c++ {
			if _, err := stmt.ExecContext(ctx, reportID, i, row[0], s.header[c], row[c]); err != nil {
				return fmt.Errorf("insert cell %s/%s: %w", row[0], s.header[c], err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// StoredReport is an archived table read back from the database.
type StoredReport struct {
	ID     string
	Header []string
	Rows   [][]string
}

// LoadReport reads an archived table back into rectangular form.
func (s *SQLiteSink) LoadReport(ctx context.Context, reportID string) (StoredReport, error) {
	if err := s.open(); err != nil {
		return StoredReport{}, err
	}
	var header string
	var buckets int
	err := s.db.QueryRowContext(ctx, `SELECT header, bucket_count FROM reports WHERE id = ?`, reportID).Scan(&header, &buckets)
	if err != nil {
		return StoredReport{}, fmt.Errorf("get report %s: %w", reportID, err)
	}

	rep := StoredReport{ID: reportID}
	if err := json.Unmarshal([]byte(header), &rep.Header); err != nil {
		return StoredReport{}, fmt.Errorf("decode header: %w", err)
	}
	col := make(map[string]int, len(rep.Header))
	for i, h := range rep.Header {
		col[h] = i
	}
	rep.Rows = make([][]string, buckets)

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index, bucket, category, amount FROM report_cells WHERE report_id = ? ORDER BY row_index`, reportID)
	if err != nil {
		return StoredReport{}, fmt.Errorf("list cells: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var bucket, category, amount string
		if err := rows.Scan(&idx, &bucket, &category, &amount); err != nil {
			return StoredReport{}, fmt.Errorf("scan cell: %w", err)
		}
		if idx < 0 || idx >= buckets {
			return StoredReport{}, fmt.Errorf("cell row %d out of range", idx)
		}
		if rep.Rows[idx] == nil {
			rep.Rows[idx] = make([]string, len(rep.Header))
			rep.Rows[idx][0] = bucket
		}
		if c, ok := col[category]; ok {
			rep.Rows[idx][c] = amount
		}
	}
	return rep, rows.Err()
}

// ListReportIDs returns archived report IDs, newest first.
func (s *SQLiteSink) ListReportIDs(ctx context.Context) ([]string, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM reports ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan report id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HasReport reports whether a table with the given ID is archived.
func (s *SQLiteSink) HasReport(ctx context.Context, reportID string) (bool, error) {
	if err := s.open(); err != nil {
		return false, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE id = ?`, reportID).Scan(&n); err != nil {
		return false, fmt.Errorf("check report %s: %w", reportID, err)
	}
	return n > 0, nil
}
