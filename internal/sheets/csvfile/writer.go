package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"extrack/internal/core"
	ports "extrack/internal/sheets"
)

var _ ports.TableWriter = (*Writer)(nil)

// Writer buffers a CSV table and emits it in one piece on Flush, either to
// a file (written to a temporary sibling and renamed into place) or to an
// io.Writer such as standard output.
type Writer struct {
	path string
	out  io.Writer
	buf  bytes.Buffer
	csv  *csv.Writer
}

// NewFileWriter writes the table to path.
func NewFileWriter(path string) *Writer {
	w := &Writer{path: path}
	w.csv = csv.NewWriter(&w.buf)
	return w
}

// NewStreamWriter writes the table to out.
func NewStreamWriter(out io.Writer) *Writer {
	w := &Writer{out: out}
	w.csv = csv.NewWriter(&w.buf)
	return w
}

func (w *Writer) WriteHeader(_ context.Context, header []string) error {
	if err := w.csv.Write(header); err != nil {
		return core.NewError(core.KindSinkFailure, "write csv header", err)
	}
	return nil
}

func (w *Writer) WriteRow(_ context.Context, row []string) error {
	if err := w.csv.Write(row); err != nil {
		return core.NewError(core.KindSinkFailure, "write csv row", err)
	}
	return nil
}

func (w *Writer) Flush(_ context.Context) error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return core.NewError(core.KindSinkFailure, "flush csv", err)
	}
	if w.path == "" {
		if _, err := w.out.Write(w.buf.Bytes()); err != nil {
			return core.NewError(core.KindSinkFailure, "write csv output", err)
		}
		w.buf.Reset()
		return nil
	}
	if err := writeFileAtomic(w.path, w.buf.Bytes()); err != nil {
		return core.NewError(core.KindSinkFailure, "write csv file", err)
	}
	w.buf.Reset()
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
