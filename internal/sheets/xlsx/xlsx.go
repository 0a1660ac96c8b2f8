// Package xlsx reads transaction rows from an Excel workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"extrack/internal/core"
	ports "extrack/internal/sheets"
)

var _ ports.RowSource = (*Workbook)(nil)

// Workbook reads one sheet of a workbook file. An empty sheet name selects
// the first sheet.
type Workbook struct {
	path  string
	sheet string
}

func New(path, sheet string) *Workbook {
	return &Workbook{path: path, sheet: sheet}
}

// ReadRows opens the workbook and returns the typed cells of the sheet.
// Numeric cells keep their raw value and carry the displayed text, so a
// date-formatted number still renders as the date the user sees.
func (w *Workbook) ReadRows(ctx context.Context) ([]core.Row, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, core.NewError(core.KindSourceUnavailable, "open workbook", err)
	}
	defer f.Close()

	sheet := w.sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, core.NewError(core.KindSourceUnavailable, "open workbook",
				errors.New("could not find a sheet in given excel"))
		}
		sheet = list[0]
	}

	display, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.NewError(core.KindSourceUnavailable, "read sheet", fmt.Errorf("%s: %w", sheet, err))
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, core.NewError(core.KindSourceUnavailable, "read sheet", fmt.Errorf("%s: %w", sheet, err))
	}

	rows := make([]core.Row, 0, len(raw))
	for r, rawRow := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var shown []string
		if r < len(display) {
			shown = display[r]
		}
		row := make(core.Row, len(rawRow))
		for c, value := range rawRow {
			text := value
			if c < len(shown) {
				text = shown[c]
			}
			row[c] = w.cell(f, sheet, r, c, value, text)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (w *Workbook) cell(f *excelize.File, sheet string, r, c int, raw, text string) core.Cell {
	if raw == "" {
		return core.Cell{}
	}
	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return core.TextCell(text)
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return core.TextCell(text)
	}

	switch typ {
	case excelize.CellTypeBool:
		return core.Cell{Value: raw == "1" || raw == "TRUE", Text: text}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return core.TextCell(text)
		}
		cell := core.NumberCell(n)
		if text != raw {
			cell.Text = text
		}
		return cell
	default:
		return core.TextCell(text)
	}
}
