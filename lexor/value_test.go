package lexor

import (
	"math"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{NewNull(), "NULL"},
		{NewBool(true), "TRUE"},
		{NewBool(false), "FALSE"},
		{NewInt(-42), "-42"},
		{NewFloat(3.0), "3"},
		{NewFloat(-0.5), "-0.5"},
		{NewFloat(2.125), "2.125"},
		{NewFloat(1e21), "1000000000000000000000"},
		{NewFloat(math.Inf(1)), "Infinity"},
		{NewChar('z'), "z"},
		{NewString("text"), "text"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Fatalf("%v: expected %q, got %q", tt.value.Kind(), tt.want, got)
		}
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{NewInt(1), NewFloat(1), true},
		{NewInt(1), NewInt(2), false},
		{NewNull(), NewNull(), true},
		{NewNull(), NewInt(0), false},
		{NewBool(true), NewString("TRUE"), true},
		{NewString("FALSE"), NewBool(true), false},
		{NewChar('a'), NewString("a"), false},
		{NewString("a"), NewString("a"), true},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Fatalf("%s == %s: expected %v, got %v", tt.a, tt.b, tt.want, got)
		}
	}
}
