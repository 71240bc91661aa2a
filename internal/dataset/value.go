package dataset

import (
	"cmp"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which member of the Value union is set.
type Kind uint8

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindComplex
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// Value is a single cell: either text or a native number.
// Values are comparable; equality is exact and kind-sensitive, so
// Int(3) != Text("3") and Int(3) != Float(3).
type Value struct {
	kind Kind
	text string
	i    int64
	f    float64
	c    complex128
}

func Text(s string) Value { return Value{kind: KindText, text: s} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Complex(c complex128) Value { return Value{kind: KindComplex, c: c} }

// Texts converts a list of strings into Text values.
func Texts(ss ...string) Row {
	out := make(Row, len(ss))
	for i, s := range ss {
		out[i] = Text(s)
	}
	return out
}

func (v Value) Kind() Kind { return v.kind }

// IsText reports whether v holds a string.
func (v Value) IsText() bool { return v.kind == KindText }

// IsNumber reports whether v holds a native numeric value.
func (v Value) IsNumber() bool { return v.kind != KindText }

// Str returns the text payload; empty for numeric values.
func (v Value) Str() string { return v.text }

func (v Value) Int() int64 { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Complex() complex128 { return v.c }

// Any returns the payload as a plain Go value.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindComplex:
		return v.c
	default:
		return v.text
	}
}

// String renders the value the way it would be written back to a file.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindComplex:
		return formatComplex(v.c)
	default:
		return v.text
	}
}

// formatFloat renders the shortest round-tripping decimal, switching to
// exponent form below 1e-4 and from 1e16 up. Integral values keep a ".0".
func formatFloat(f float64) string {
	s := shortFloat(f)
	if !strings.ContainsAny(s, ".ein") {
		s += ".0"
	}
	return s
}

func shortFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatComplex(c complex128) string {
	im := shortFloat(imag(c))
	if real(c) == 0 && !math.Signbit(real(c)) {
		return im + "j"
	}
	sign := "+"
	if strings.HasPrefix(im, "-") {
		sign = ""
	}
	return "(" + shortFloat(real(c)) + sign + im + "j)"
}

// Compare orders two values of the same kind. Text compares
// lexicographically, numbers numerically and complex numbers by real then
// imaginary part. Values of different kinds order by kind.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindInt:
		return cmp.Compare(a.i, b.i)
	case KindFloat:
		return cmp.Compare(a.f, b.f)
	case KindComplex:
		if c := cmp.Compare(real(a.c), real(b.c)); c != 0 {
			return c
		}
		return cmp.Compare(imag(a.c), imag(b.c))
	default:
		return strings.Compare(a.text, b.text)
	}
}
