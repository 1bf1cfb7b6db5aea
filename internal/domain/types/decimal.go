package types

import (
	"math"
	"strconv"
	"strings"
)

// Decimal2 is a float rounded to two decimal places. It always encodes with
// a fractional part, so 5 is written as 5.0.
type Decimal2 float64

// NewDecimal2 rounds v half away from zero to two decimal places.
func NewDecimal2(v float64) Decimal2 {
	return Decimal2(math.Round(v*100) / 100)
}

// Float64 returns the underlying value.
func (d Decimal2) Float64() float64 { return float64(d) }

// MarshalJSON implements json.Marshaler.
func (d Decimal2) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(d), 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return []byte(s), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal2) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*d = Decimal2(v)
	return nil
}

// HasAtMostTwoDecimals reports whether the value survives two-place rounding
// unchanged.
func (d Decimal2) HasAtMostTwoDecimals() bool {
	return math.Abs(float64(NewDecimal2(float64(d)))-float64(d)) < 1e-9
}
