package lexor

import (
	"math"
	"strconv"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindChar
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindBool:
		return "BOOL"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindChar:
		return "CHAR"
	case KindString:
		return "STRING"
	default:
		return "unknown"
	}
}

// Value is a primitive runtime value. Values are copied, never shared.
type Value struct {
	kind ValueKind
	data any
}

func NewNull() Value           { return Value{kind: KindNull} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewChar(r rune) Value     { return Value{kind: KindChar, data: r} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

func (v Value) Int() int64 {
	i, _ := v.data.(int64)
	return i
}

func (v Value) Char() rune {
	r, _ := v.data.(rune)
	return r
}

func (v Value) Text() string {
	s, _ := v.data.(string)
	return s
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

// String renders the value the way PRINT and & do.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		if v.Bool() {
			return "TRUE"
		}
		return "FALSE"
	case KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case KindFloat:
		return formatFloat(v.Float())
	case KindChar:
		return string(v.Char())
	case KindString:
		return v.Text()
	default:
		return ""
	}
}

// formatFloat drops a zero fractional part and otherwise keeps the shortest
// text that round-trips.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Equal implements == and <>. INT and FLOAT compare numerically, and a BOOL
// equals the text "TRUE" or "FALSE" matching it. Otherwise values are equal
// only when they have the same kind.
func (v Value) Equal(other Value) bool {
	if v.IsNumeric() && other.IsNumeric() {
		if v.kind == KindInt && other.kind == KindInt {
			return v.Int() == other.Int()
		}
		return v.Float() == other.Float()
	}
	if v.kind == KindBool && other.kind == KindString {
		return v.String() == other.Text()
	}
	if v.kind == KindString && other.kind == KindBool {
		return v.Text() == other.String()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindChar:
		return v.Char() == other.Char()
	case KindString:
		return v.Text() == other.Text()
	default:
		return false
	}
}
