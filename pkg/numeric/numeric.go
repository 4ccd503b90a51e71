// Package numeric tipos JSON tolerantes para cantidades y montos: aceptan número o texto numérico.
package numeric

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	minInt = decimal.NewFromInt(math.MinInt)
	maxInt = decimal.NewFromInt(math.MaxInt)
)

// Int entero que acepta 5, "5" y 5.0.
type Int int

// UnmarshalJSON implementa json.Unmarshaler.
func (n *Int) UnmarshalJSON(b []byte) error {
	raw := string(bytes.TrimSpace(b))
	if raw == "null" {
		return nil
	}
	if s, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(s)
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*n = Int(v)
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsInteger() {
		return fmt.Errorf("numeric: %q no es un entero", raw)
	}
	if d.LessThan(minInt) || d.GreaterThan(maxInt) {
		return fmt.Errorf("numeric: %q fuera de rango", raw)
	}
	*n = Int(d.IntPart())
	return nil
}

// Decimal monto que acepta número o texto y siempre se escribe como número JSON.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal envuelve d.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

// MarshalJSON escribe el valor sin comillas.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.Decimal.String()), nil
}

// UnmarshalJSON implementa json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	raw := string(bytes.TrimSpace(b))
	if raw == "null" {
		return nil
	}
	if s, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(s)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("numeric: %q no es un número", raw)
	}
	d.Decimal = v
	return nil
}
