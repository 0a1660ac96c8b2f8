// Package csvfile reads transaction rows from a delimited text file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"extrack/internal/core"
	ports "extrack/internal/sheets"
)

var _ ports.RowSource = (*File)(nil)

// File is a CSV row source. Fields that parse as finite numbers become
// numeric cells; everything else stays text.
type File struct {
	path  string
	comma rune
}

func New(path string) *File {
	return &File{path: path, comma: ','}
}

// WithComma changes the field delimiter.
func (f *File) WithComma(r rune) *File {
	f.comma = r
	return f
}

func (f *File) ReadRows(ctx context.Context) ([]core.Row, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, core.NewError(core.KindSourceUnavailable, "open csv", err)
	}
	defer fh.Close()
	return f.read(ctx, fh)
}

func (f *File) read(ctx context.Context, in io.Reader) ([]core.Row, error) {
	r := csv.NewReader(in)
	r.Comma = f.comma
	r.FieldsPerRecord = -1
	r.ReuseRecord = false

	var rows []core.Row
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewError(core.KindSourceUnavailable, "read csv", fmt.Errorf("%s: %w", f.path, err))
		}
		row := make(core.Row, len(rec))
		for i, field := range rec {
			row[i] = toCell(field)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toCell(field string) core.Cell {
	if field == "" {
		return core.Cell{}
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return core.TextCell(field)
	}
	return core.Cell{Value: n, Text: field}
}
