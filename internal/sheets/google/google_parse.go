package google

import (
	"strings"

	"extrack/internal/core"
)

// toRows converts a values matrix (as returned by Sheets API with
// UNFORMATTED_VALUE rendering) into typed rows. Numbers arrive as float64,
// booleans as bool and everything else as strings.
func toRows(values [][]interface{}) []core.Row {
	rows := make([]core.Row, 0, len(values))
	for _, in := range values {
		row := make(core.Row, len(in))
		for i, v := range in {
			row[i] = toCell(v)
		}
		rows = append(rows, row)
	}
	return rows
}

func toCell(v interface{}) core.Cell {
	switch x := v.(type) {
	case nil:
		return core.Cell{}
	case float64, bool:
		return core.Cell{Value: x}
	case int:
		return core.NumberCell(float64(x))
	case int64:
		return core.NumberCell(float64(x))
	case string:
		return core.TextCell(x)
	default:
		return core.Cell{}
	}
}

// quoteSheetName wraps a sheet title for use as an A1 range.
func quoteSheetName(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
