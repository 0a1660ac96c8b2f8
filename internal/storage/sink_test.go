package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extrack/internal/core"
)

func newTestSink(t *testing.T) *SQLiteSink {
	t.Helper()
	sink, err := NewSQLiteSink("sqlite:" + filepath.Join(t.TempDir(), "reports", "extrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return sink
}

func writeTable(t *testing.T, ctx context.Context, sink *SQLiteSink, header []string, rows ...[]string) {
	t.Helper()
	require.NoError(t, sink.WriteHeader(ctx, header))
	for _, row := range rows {
		require.NoError(t, sink.WriteRow(ctx, row))
	}
	require.NoError(t, sink.Flush(ctx))
}

func TestSQLiteSink_RoundTrip(t *testing.T) {
	sink := newTestSink(t)
	ctx := core.WithRunID(context.Background(), "run-1")

	header := []string{"Date", "Food", "Housing", "Income"}
	writeTable(t, ctx, sink, header,
		[]string{"2023-01", "-4.5", "0", "2000"},
		[]string{"2023-02", "0", "-800", "0"},
	)

	rep, err := sink.LoadReport(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, header, rep.Header)
	assert.Equal(t, [][]string{
		{"2023-01", "-4.5", "0", "2000"},
		{"2023-02", "0", "-800", "0"},
	}, rep.Rows)
}

func TestSQLiteSink_NothingStoredBeforeFlush(t *testing.T) {
	sink := newTestSink(t)
	ctx := core.WithRunID(context.Background(), "run-pending")

	require.NoError(t, sink.WriteHeader(ctx, []string{"Date", "Food"}))
	require.NoError(t, sink.WriteRow(ctx, []string{"2023", "-1"}))

	ids, err := sink.ListReportIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSQLiteSink_GeneratesIDWithoutRunID(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	writeTable(t, ctx, sink, []string{"Date", "Food"}, []string{"2023", "-1"})
	writeTable(t, ctx, sink, []string{"Date", "Rent"}, []string{"2024", "-2"})

	ids, err := sink.ListReportIDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestSQLiteSink_DuplicateRunIDIsSinkFailure(t *testing.T) {
	sink := newTestSink(t)
	ctx := core.WithRunID(context.Background(), "dup")

	writeTable(t, ctx, sink, []string{"Date", "Food"}, []string{"2023", "-1"})

	require.NoError(t, sink.WriteHeader(ctx, []string{"Date", "Food"}))
	require.NoError(t, sink.WriteRow(ctx, []string{"2024", "-3"}))
	err := sink.Flush(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSinkFailure))

	// the failed flush must not leave cells behind
	rep, err := sink.LoadReport(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2023", "-1"}}, rep.Rows)
}

func TestSQLiteSink_RejectsRaggedRow(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	require.NoError(t, sink.WriteHeader(ctx, []string{"Date", "Food"}))
	err := sink.WriteRow(ctx, []string{"2023"})
	assert.Equal(t, core.KindSinkFailure, core.KindOf(err))
}

func TestNewSQLiteSink_EmptyPath(t *testing.T) {
	_, err := NewSQLiteSink("sqlite:")
	require.Error(t, err)
	assert.Equal(t, core.KindSinkFailure, core.KindOf(err))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	v1, err := RunMigrations(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v1)

	v2, err := RunMigrations(path)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestSQLiteSink_CategoryWithComma(t *testing.T) {
	sink := newTestSink(t)
	ctx := core.WithRunID(context.Background(), "comma")

	header := []string{"Date", "Food, drinks"}
	writeTable(t, ctx, sink, header, []string{"2023", "-12.25"})

	rep, err := sink.LoadReport(ctx, "comma")
	require.NoError(t, err)
	assert.Equal(t, header, rep.Header)
	assert.Equal(t, [][]string{{"2023", "-12.25"}}, rep.Rows)
}

func TestSQLiteSink_HasReport(t *testing.T) {
	sink := newTestSink(t)
	ctx := core.WithRunID(context.Background(), "known")

	ok, err := sink.HasReport(ctx, "known")
	require.NoError(t, err)
	assert.False(t, ok)

	writeTable(t, ctx, sink, []string{"Date", "Food"}, []string{"2023", "-1"})

	ok, err = sink.HasReport(ctx, "known")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeferredSQLiteSink_NoFileUntilFlush(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "extrack.db")
	sink, err := NewDeferredSQLiteSink("sqlite:" + dbPath)
	require.NoError(t, err)
	defer sink.Close()

	ctx := context.Background()
	require.NoError(t, sink.WriteHeader(ctx, []string{"Date", "Food"}))
	require.NoError(t, sink.WriteRow(ctx, []string{"2023-01", "-4.5"}))
	require.NoError(t, sink.Close())
	assert.NoFileExists(t, dbPath)
	assert.NoDirExists(t, filepath.Dir(dbPath))

	require.NoError(t, sink.Flush(core.WithRunID(ctx, "run-1")))
	assert.FileExists(t, dbPath)

	rep, err := sink.LoadReport(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2023-01", "-4.5"}}, rep.Rows)
}

func TestNewDeferredSQLiteSink_EmptyPath(t *testing.T) {
	_, err := NewDeferredSQLiteSink("sqlite:")
	require.Error(t, err)
	assert.Equal(t, core.KindSinkFailure, core.KindOf(err))
}
