// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Number is a decoded numeric field. It keeps the float64 value used for
// comparisons together with the natural textual form used for output:
// integers render without a decimal point, floats in shortest round-trip
// form with a trailing ".0" when integral.
type Number struct {
	value   float64
	text    string
	integer bool
}

// IntNumber returns the Number for an integer value.
func IntNumber(i int64) Number {
	return Number{value: float64(i), text: strconv.FormatInt(i, 10), integer: true}
}

// FloatNumber returns the Number for a floating-point value.
func FloatNumber(f float64) Number {
	return Number{value: f, text: formatFloat(f)}
}

// ParseNumber parses a JSON number literal. Literals without a fraction or
// exponent are integers; everything else is a float.
func ParseNumber(literal string) (Number, error) {
	literal = strings.TrimSpace(literal)
	if literal == "" {
		return Number{}, fmt.Errorf("empty number literal")
	}

	if !strings.ContainsAny(literal, ".eE") {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return IntNumber(i), nil
		}
		// Out of int64 range: keep the digits as written.
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return Number{}, fmt.Errorf("invalid number %q: %w", literal, err)
		}
		return Number{value: f, text: literal, integer: true}, nil
	}

	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return Number{}, fmt.Errorf("invalid number %q: %w", literal, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Number{}, fmt.Errorf("number %q is not finite", literal)
	}
	return FloatNumber(f), nil
}

// Float64 returns the numeric value.
func (n Number) Float64() float64 { return n.value }

// IsInteger reports whether the number was decoded from an integer literal.
func (n Number) IsInteger() bool { return n.integer }

// String returns the natural textual form of the number.
func (n Number) String() string {
	if n.text == "" {
		return "0"
	}
	return n.text
}

// IsFinite reports whether the value is neither infinite nor NaN. Decoded
// numbers are always finite; computed ones may overflow.
func (n Number) IsFinite() bool {
	return !math.IsInf(n.value, 0) && !math.IsNaN(n.value)
}

// MarshalJSON writes the number unquoted in its natural form. JSON has no
// infinity or NaN, so non-finite values encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsFinite() {
		return []byte("null"), nil
	}
	return []byte(n.String()), nil
}

// MarshalYAML writes the number as a plain scalar tagged int or float.
func (n Number) MarshalYAML() (any, error) {
	if !n.IsFinite() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlNonFinite(n.value)}, nil
	}
	tag := "!!float"
	if n.integer || n.text == "" {
		tag = "!!int"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.String()}, nil
}

func yamlNonFinite(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case f > 0:
		return ".inf"
	default:
		return "-.inf"
	}
}

// formatFloat renders f the way a shortest-repr float printer does:
// positional notation for exponents in [-4, 16), scientific otherwise.
// Non-finite values print as inf, -inf, and nan.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
