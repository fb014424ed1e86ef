package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is the unit suffix attached to a quantity.
type Unit string

const (
	UnitNone        Unit = ""
	UnitGram        Unit = "g"
	UnitMilligram   Unit = "mg"
	UnitKilogram    Unit = "kg"
	UnitKilocalorie Unit = "kcal"
	UnitCentimeter  Unit = "cm"
)

var knownUnits = map[string]Unit{
	"g":     UnitGram,
	"gram":  UnitGram,
	"grams": UnitGram,
	"mg":    UnitMilligram,
	"kg":    UnitKilogram,
	"kcal":  UnitKilocalorie,
	"cal":   UnitKilocalorie,
	"cm":    UnitCentimeter,
}

// Quantity is a numeric value with an optional unit.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit,omitempty"`
}

// Grams is shorthand for a gram quantity.
func Grams(v float64) Quantity { return Quantity{Value: v, Unit: UnitGram} }

// Kcal is shorthand for a calorie count, which is stored without a suffix.
func Kcal(v float64) Quantity { return Quantity{Value: v} }

// String renders the quantity the way it is stored: "12g", "500".
func (q Quantity) String() string {
	return strconv.FormatFloat(q.Value, 'f', -1, 64) + string(q.Unit)
}

// UnmarshalJSON accepts a bare number, a display string like "12g", or
// the {"value":12,"unit":"g"} object form.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*q = Quantity{Value: n}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, ok := ParseQuantity(s)
		if !ok && strings.TrimSpace(s) != "" {
			return fmt.Errorf("invalid quantity %q", s)
		}
		*q = parsed
		return nil
	}

	type plain Quantity
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	*q = Quantity(p)
	return nil
}

// ParseQuantity reads the leading decimal number of s and an optional
// unit suffix after it. It reports false when s does not start with a
// number. Unrecognised suffixes are dropped and yield UnitNone.
func ParseQuantity(s string) (Quantity, bool) {
	s = strings.TrimSpace(s)
	end := numberPrefix(s)
	if end == 0 {
		return Quantity{}, false
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Quantity{}, false
	}

	suffix := strings.ToLower(strings.TrimSpace(s[end:]))
	return Quantity{Value: v, Unit: knownUnits[suffix]}, true
}

// numberPrefix returns the length of the longest prefix of s that forms a
// decimal number: sign, digits, optional fraction and exponent. It returns
// 0 when no digit is present.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
