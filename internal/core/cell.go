package core

import (
	"math"
	"strconv"
)

type (
	// Cell is one typed value read from a tabular source.
	//
	// Value holds the decoded value: string, float64, int64, bool or nil for
	// an empty cell. Text optionally holds the value as the source displays
	// it (a formatted date, for example); when empty, String formats Value.
	Cell struct {
		Value any
		Text  string
	}

	// Row is an ordered sequence of cells.
	Row []Cell
)

// TextCell builds a cell holding a string.
func TextCell(s string) Cell {
	return Cell{Value: s}
}

// NumberCell builds a cell holding a number.
func NumberCell(f float64) Cell {
	return Cell{Value: f}
}

// Float returns the numeric value of the cell. Text cells are not numeric,
// and neither are NaN or infinite values.
func (c Cell) Float() (float64, bool) {
	var f float64
	switch v := c.Value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Str returns the cell's string value when the cell is textual.
func (c Cell) Str() (string, bool) {
	s, ok := c.Value.(string)
	return s, ok
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	if c.Value == nil {
		return c.Text == ""
	}
	s, ok := c.Value.(string)
	return ok && s == "" && c.Text == ""
}

func (c Cell) String() string {
	if c.Text != "" {
		return c.Text
	}
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// At returns the cell at index i, or an empty cell when the row is shorter.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}
