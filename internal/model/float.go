// Package model defines the district-level records exchanged between pipeline stages.
package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Float is an optional float64. The zero value is undefined.
// A valid Float never holds NaN or an infinity.
type Float struct {
	V     float64
	Valid bool
}

// Some returns a defined Float, or an undefined one for NaN and infinities.
func Some(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Float{}
	}
	return Float{V: v, Valid: true}
}

// None returns an undefined Float.
func None() Float { return Float{} }

// ParseFloat coerces a table cell to a Float. Empty, non-numeric, NaN and
// infinite cells are undefined.
func ParseFloat(s string) Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return Float{}
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return Float{}
	}
	return Some(v)
}

// Sub returns a-b, undefined if either side is undefined.
func Sub(a, b Float) Float {
	if !a.Valid || !b.Valid {
		return Float{}
	}
	return Some(a.V - b.V)
}

// Positive reports whether f is defined and strictly greater than zero.
func (f Float) Positive() bool { return f.Valid && f.V > 0 }

// String renders the value for a table cell; undefined renders as "".
func (f Float) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.V, 'f', -1, 64)
}
