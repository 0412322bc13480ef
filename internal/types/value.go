// Package types defines runtime value types for sawk.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind represents the type of a runtime value.
type Kind uint8

const (
	KindStr Kind = iota // String value (the zero value is the empty string)
	KindNum             // Numeric value
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNum:
		return "num"
	case KindStr:
		return "str"
	default:
		return "unknown"
	}
}

// Value represents a sawk runtime value: a 64-bit float or a string.
// There is no boolean kind; truthiness is derived per AsBool.
// The zero Value is the empty string, which doubles as the "unset" value.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Constructors

// Num creates a numeric value.
func Num(n float64) Value {
	return Value{kind: KindNum, num: n}
}

// Str creates a string value.
func Str(s string) Value {
	return Value{kind: KindStr, str: s}
}

// Bool creates a numeric value from a boolean (1 for true, 0 for false).
func Bool(b bool) Value {
	if b {
		return Num(1)
	}
	return Num(0)
}

// Accessors

// Kind returns the value's type.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNum returns true if the value is a number.
func (v Value) IsNum() bool {
	return v.kind == KindNum
}

// IsStr returns true if the value is a string.
func (v Value) IsStr() bool {
	return v.kind == KindStr
}

// Conversions. All are total: malformed input degrades to zero values
// rather than failing.

// AsNum returns the numeric representation of the value.
// Strings are parsed with prefix rules: "3.5x" -> 3.5, "abc" -> 0, "" -> 0.
func (v Value) AsNum() float64 {
	if v.kind == KindNum {
		return v.num
	}
	return ParseNumPrefix(v.str)
}

// AsStr returns the string representation using the given format for numbers.
// The common format is "%.6g" (CONVFMT default).
func (v Value) AsStr(format string) string {
	if v.kind == KindNum {
		return FormatNum(v.num, format)
	}
	return v.str
}

// AsBool returns the truthiness of the value.
// Numbers: non-zero is true. Strings: non-empty is true.
func (v Value) AsBool() bool {
	if v.kind == KindNum {
		return v.num != 0
	}
	return v.str != ""
}

// LooksNumeric reports whether the value takes part in numeric comparison.
// A number always does; a string does iff its nonempty trimmed form parses
// entirely as a number. This is stricter than AsNum's prefix parse:
// "3abc" coerces to 3 in arithmetic but compares as a string, and ""
// compares as a string even though it coerces to 0.
func (v Value) LooksNumeric() bool {
	if v.kind == KindNum {
		return true
	}
	if strings.TrimSpace(v.str) == "" {
		return false
	}
	_, err := ParseNum(v.str)
	return err == nil
}

// String returns a debug representation of the value.
func (v Value) String() string {
	if v.kind == KindNum {
		return fmt.Sprintf("Num(%s)", FormatNum(v.num, "%.6g"))
	}
	return fmt.Sprintf("Str(%q)", v.str)
}

// Comparison

// Compare compares two values using the dual comparison rule:
// if both operands are numeric-looking the comparison is numeric (IEEE
// float), otherwise it is lexicographic on the string forms, produced
// with format (the current CONVFMT) like AsStr.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b Value, format string) int {
	if a.LooksNumeric() && b.LooksNumeric() {
		an, bn := a.AsNum(), b.AsNum()
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.AsStr(format), b.AsStr(format))
}

// Number Parsing and Formatting

// ParseNum parses a string as a number (strict parsing).
// The entire trimmed string must be consumed by the numeric grammar;
// the empty string parses as 0.
func ParseNum(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if len(s) >= 3 {
		lower := strings.ToLower(s)
		if lower == "nan" || lower == "+nan" || lower == "-nan" {
			return math.NaN(), nil
		}
		if lower == "inf" || lower == "+inf" {
			return math.Inf(1), nil
		}
		if lower == "-inf" {
			return math.Inf(-1), nil
		}
	}

	// Hex without binary exponent ("0x1a" is allowed, Go requires "0x1ap0")
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		if !strings.ContainsAny(s, "pP") {
			s += "p0"
		}
	}

	// Underscore separators are a Go-ism, not part of the dialect
	if strings.Contains(s, "_") {
		return 0, strconv.ErrSyntax
	}

	return strconv.ParseFloat(s, 64)
}

// ParseNumPrefix parses a number from the beginning of a string.
// Allows trailing non-numeric characters: "123abc" -> 123.
// Unparsable or empty input yields 0.
func ParseNumPrefix(s string) float64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i >= len(s) {
		return 0
	}

	start := i
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	if i >= len(s) {
		return 0
	}

	if i+3 <= len(s) {
		rest := strings.ToLower(s[i : i+3])
		if rest == "nan" {
			return math.NaN()
		}
		if rest == "inf" {
			if s[start] == '-' {
				return math.Inf(-1)
			}
			return math.Inf(1)
		}
	}

	if i+2 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		return parseHexPrefix(s, start, i+2)
	}

	gotDigit := false
	for i < len(s) && isDigit(s[i]) {
		gotDigit = true
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			gotDigit = true
			i++
		}
	}
	if !gotDigit {
		return 0
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		for i < len(s) && isDigit(s[i]) {
			end = i + 1
			i++
		}
	}

	n, _ := strconv.ParseFloat(s[start:end], 64)
	return n
}

func parseHexPrefix(s string, start, i int) float64 {
	gotDigit := false
	for i < len(s) && isHexDigit(s[i]) {
		gotDigit = true
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isHexDigit(s[i]) {
			gotDigit = true
			i++
		}
	}
	if !gotDigit {
		return 0
	}

	end := i
	gotExponent := false
	if i < len(s) && (s[i] == 'p' || s[i] == 'P') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		for i < len(s) && isDigit(s[i]) {
			gotExponent = true
			end = i + 1
			i++
		}
	}

	numStr := s[start:end]
	if !gotExponent {
		numStr += "p0"
	}
	n, _ := strconv.ParseFloat(numStr, 64)
	return n
}

// FormatNum formats a number as a string using the given format.
// Integral values format without a decimal point.
func FormatNum(n float64, format string) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case n == float64(int64(n)):
		return strconv.FormatInt(int64(n), 10)
	case format == "%.6g":
		return strconv.FormatFloat(n, 'g', 6, 64)
	default:
		return fmt.Sprintf(format, n)
	}
}

// Helper functions

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
