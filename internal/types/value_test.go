package types

import (
	"math"
	"testing"
)

func TestValueConstructors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"zero value", Value{}, KindStr},
		{"Num(0)", Num(0), KindNum},
		{"Num(42)", Num(42), KindNum},
		{"Num(-3.14)", Num(-3.14), KindNum},
		{"Str empty", Str(""), KindStr},
		{"Str hello", Str("hello"), KindStr},
		{"Bool true", Bool(true), KindNum},
		{"Bool false", Bool(false), KindNum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.v.Kind(), tt.kind)
			}
		})
	}
}

func TestAsNum(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected float64
	}{
		{"Num(42)", Num(42), 42},
		{"Num(-3.14)", Num(-3.14), -3.14},
		{"Str empty", Str(""), 0},
		{"Str 123", Str("123"), 123},
		{"Str 3.5", Str("3.5"), 3.5},
		{"Str with trailing garbage", Str("3.5x"), 3.5},
		{"Str leading space", Str("  7"), 7},
		{"Str garbage", Str("abc"), 0},
		{"Str negative", Str("-2.5"), -2.5},
		{"Str exponent", Str("1e3"), 1000},
		{"Str hex", Str("0x10"), 16},
		{"Bool true", Bool(true), 1},
		{"Bool false", Bool(false), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsNum(); got != tt.expected {
				t.Errorf("AsNum() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAsStr(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected string
	}{
		{"Str hello", Str("hello"), "hello"},
		{"integral num", Num(42), "42"},
		{"negative integral", Num(-7), "-7"},
		{"fractional num", Num(3.5), "3.5"},
		{"rounded to CONVFMT", Num(1.0 / 3.0), "0.333333"},
		{"zero", Num(0), "0"},
		{"nan", Num(math.NaN()), "nan"},
		{"positive inf", Num(math.Inf(1)), "inf"},
		{"negative inf", Num(math.Inf(-1)), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsStr("%.6g"); got != tt.expected {
				t.Errorf("AsStr() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAsBool(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected bool
	}{
		{"zero num", Num(0), false},
		{"nonzero num", Num(0.5), true},
		{"negative num", Num(-1), true},
		{"empty string", Str(""), false},
		{"nonempty string", Str("x"), true},
		{"string zero", Str("0"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsBool(); got != tt.expected {
				t.Errorf("AsBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLooksNumeric(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected bool
	}{
		{"num", Num(1), true},
		{"plain int string", Str("123"), true},
		{"float string", Str("3.5"), true},
		{"trimmed string", Str(" 42 "), true},
		{"exponent", Str("1e5"), true},
		{"trailing garbage", Str("3abc"), false},
		{"empty", Str(""), false},
		{"word", Str("abc"), false},
		{"lone sign", Str("-"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.LooksNumeric(); got != tt.expected {
				t.Errorf("LooksNumeric() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"num less", Num(1), Num(2), -1},
		{"num equal", Num(2), Num(2), 0},
		{"num greater", Num(3), Num(2), 1},
		{"numeric strings compare as numbers", Str("10"), Str("9"), 1},
		{"num vs numeric string", Num(10), Str("9"), 1},
		{"non-numeric falls back to string", Str("10"), Str("9a"), -1},
		{"both non-numeric", Str("abc"), Str("abd"), -1},
		{"num vs word compares stringly", Num(10), Str("abc"), -1},
		{"empty string vs zero compares stringly", Str(""), Str("0"), -1},
		{"empty string vs zero number compares stringly", Str(""), Num(0), -1},
		{"equal strings", Str("x"), Str("x"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b, "%.6g"); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareUsesFormat(t *testing.T) {
	// The string fallback renders numbers with the caller's CONVFMT,
	// so the format can change the ordering.
	a, b := Num(0.125), Str("0.124x")
	if got := Compare(a, b, "%.6g"); got != 1 {
		t.Errorf("Compare with %%.6g = %d, want 1", got)
	}
	if got := Compare(a, b, "%.2g"); got != -1 {
		t.Errorf("Compare with %%.2g = %d, want -1", got)
	}
}

func TestParseNum(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"42", 42, false},
		{" 3.5 ", 3.5, false},
		{"-1e2", -100, false},
		{"0x1f", 31, false},
		{"3abc", 0, true},
		{"abc", 0, true},
		{"1_000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNum(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNum(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseNum(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNumPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"abc", 0},
		{"3.5x", 3.5},
		{"123abc", 123},
		{"-4.5junk", -4.5},
		{"1e2z", 100},
		{"  12 items", 12},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseNumPrefix(tt.in); got != tt.want {
				t.Errorf("ParseNumPrefix(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatNum(t *testing.T) {
	tests := []struct {
		name string
		n    float64
		want string
	}{
		{"integer", 42, "42"},
		{"negative integer", -17, "-17"},
		{"fraction", 0.25, "0.25"},
		{"large magnitude", 1e20, "1e+20"},
		{"nan", math.NaN(), "nan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNum(tt.n, "%.6g"); got != tt.want {
				t.Errorf("FormatNum(%v) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}
