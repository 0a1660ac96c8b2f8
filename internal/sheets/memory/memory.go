package memory

import (
	"context"
	"errors"
	"sync"

	"extrack/internal/core"
	ports "extrack/internal/sheets"
)

// Ensure interface conformance
var (
	_ ports.RowSource   = (*Store)(nil)
	_ ports.TableWriter = (*Table)(nil)
)

// Store is an in-memory row source.
type Store struct {
	mu   sync.Mutex
	rows []core.Row
	err  error
}

func New(rows ...core.Row) *Store {
	return &Store{rows: rows}
}

// NewFailing returns a store whose ReadRows always fails with err.
func NewFailing(err error) *Store {
	return &Store{err: err}
}

// Append adds rows to the store.
func (s *Store) Append(rows ...core.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// ReadRows returns a copy of the stored rows.
func (s *Store) ReadRows(_ context.Context) ([]core.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, core.NewError(core.KindSourceUnavailable, "read memory rows", s.err)
	}
	return append([]core.Row(nil), s.rows...), nil
}

// Table is an in-memory table sink. Header and Rows only become visible
// after a successful Flush.
type Table struct {
	mu       sync.Mutex
	header   []string
	rows     [][]string
	pending  [][]string
	pendHead []string
	flushed  bool
	failOn   string
}

func NewTable() *Table {
	return &Table{}
}

// FailOn makes the named operation ("header", "row" or "flush") fail.
func (t *Table) FailOn(op string) *Table {
	t.failOn = op
	return t
}

var errInjected = errors.New("injected failure")

func (t *Table) WriteHeader(_ context.Context, header []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failOn == "header" {
		return core.NewError(core.KindSinkFailure, "write header", errInjected)
	}
	t.pendHead = append([]string(nil), header...)
	t.pending = nil
	return nil
}

func (t *Table) WriteRow(_ context.Context, row []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failOn == "row" {
		return core.NewError(core.KindSinkFailure, "write row", errInjected)
	}
	t.pending = append(t.pending, append([]string(nil), row...))
	return nil
}

func (t *Table) Flush(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failOn == "flush" {
		return core.NewError(core.KindSinkFailure, "flush", errInjected)
	}
	t.header, t.rows = t.pendHead, t.pending
	t.pendHead, t.pending = nil, nil
	t.flushed = true
	return nil
}

// Header returns the flushed header.
func (t *Table) Header() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.header...)
}

// Rows returns the flushed data rows.
func (t *Table) Rows() [][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]string(nil), t.rows...)
}

// Flushed reports whether a complete table was emitted.
func (t *Table) Flushed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushed
}
