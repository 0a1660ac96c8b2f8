// Package core holds the domain types shared by the reporting pipeline.
//
// This file contains amount coercion and rendering helpers.
package core

import (
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount in its shortest exact decimal form without
// an exponent: 2000 -> "2000", -4.5 -> "-4.5", 0 -> "0".
func FormatAmount(f float64) string {
	return decimal.NewFromFloat(f).String()
}

// CoerceAmount returns the numeric value of a cell, or 0 when the cell is
// not a finite number.
func CoerceAmount(c Cell) float64 {
	f, ok := c.Float()
	if !ok {
		return 0
	}
	return f
}

// CoerceCategory returns the textual value of a cell, falling back to
// UnspecifiedCategory for empty or non-text cells.
func CoerceCategory(c Cell) string {
	s, ok := c.Str()
	if !ok || s == "" {
		return UnspecifiedCategory
	}
	return s
}
