package core

import (
	"fmt"
	"strings"
)

const (
	Year  Granularity = "Year"
	Month Granularity = "Month"
	Week  Granularity = "Week"
)

// UnspecifiedCategory is used when a row has no textual category cell.
const UnspecifiedCategory = "Unspecified"

type (
	// Granularity selects the time range a bucket key covers.
	Granularity string

	// Transaction is one validated financial record. Amount is never zero.
	Transaction struct {
		Date        string // YYYY-MM-DD, copied verbatim from the source
		Description string
		Amount      float64
		Category    string
	}

	// Columns maps transaction fields onto row cell indices.
	Columns struct {
		Date        int
		Description int
		Amount      int
		Category    int
	}

	// Layout describes where transactions live inside the raw rows.
	Layout struct {
		Columns       Columns
		FirstRowIndex int // leading rows to skip, e.g. headers
	}
)

// DefaultColumns returns the column layout used when nothing is configured.
func DefaultColumns() Columns {
	return Columns{Date: 0, Description: 1, Amount: 2, Category: 3}
}

// Max returns the highest configured column index.
func (c Columns) Max() int {
	m := c.Date
	for _, v := range []int{c.Description, c.Amount, c.Category} {
		if v > m {
			m = v
		}
	}
	return m
}

// Validate rejects negative indices.
func (c Columns) Validate() error {
	for name, v := range map[string]int{
		"date":        c.Date,
		"description": c.Description,
		"amount":      c.Amount,
		"category":    c.Category,
	} {
		if v < 0 {
			return fmt.Errorf("invalid %s column %d: must not be negative", name, v)
		}
	}
	return nil
}

// ParseGranularity accepts Year, Month or Week, case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year":
		return Year, nil
	case "month":
		return Month, nil
	case "week":
		return Week, nil
	default:
		return "", fmt.Errorf("invalid time range %q: must be one of Year, Month, Week", s)
	}
}

// IsValid reports whether g is one of the known granularities.
func (g Granularity) IsValid() bool {
	switch g {
	case Year, Month, Week:
		return true
	default:
		return false
	}
}

func (g Granularity) String() string {
	return string(g)
}

// Diagnostic renders the transaction the way skipped rows are reported.
func (t Transaction) Diagnostic() string {
	return fmt.Sprintf("Error parsing row: date: %s, description: %s, amount: %s, category: %s",
		t.Date, t.Description, FormatAmount(t.Amount), t.Category)
}
