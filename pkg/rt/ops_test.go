package rt

import (
	"testing"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  *Object
		want string
	}{
		{"int add", Int(1).Add(Int(2)), "3"},
		{"int sub", Int(2).Sub(Int(4)), "-2"},
		{"int mul", Int(2).Mul(Int(4)), "8"},
		{"true division", Int(2).Div(Int(4)), "0.5"},
		{"division is float", Int(4).Div(Int(2)), "2.0"},
		{"mixed add", Int(1).Add(Float(0.5)), "1.5"},
		{"bool add", Bool(true).Add(Int(1)), "2"},
		{"floor div", Int(7).FloorDiv(Int(2)), "3"},
		{"floor div negative", Int(-7).FloorDiv(Int(2)), "-4"},
		{"float floor div", Float(7.5).FloorDiv(Int(2)), "3.0"},
		{"mod", Int(7).Mod(Int(3)), "1"},
		{"mod negative dividend", Int(-7).Mod(Int(3)), "2"},
		{"mod negative divisor", Int(7).Mod(Int(-3)), "-2"},
		{"float mod", Float(-1.5).Mod(Int(2)), "0.5"},
		{"pow", Int(2).Pow(Int(10)), "1024"},
		{"negative pow", Int(2).Pow(Int(-1)), "0.5"},
		{"string concat", Str("ab").Add(Str("cd")), "abcd"},
		{"string repeat", Str("ab").Mul(Int(3)), "ababab"},
		{"repeat string", Int(2).Mul(Str("x")), "xx"},
		{"list concat", List(Int(1)).Add(List(Int(2))), "[1, 2]"},
		{"list repeat", List(Int(0)).Mul(Int(3)), "[0, 0, 0]"},
		{"neg", Int(5).Neg(), "-5"},
		{"pos", Float(2.5).Pos(), "2.5"},
		{"not", List().Not(), "True"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := tt.got.String(); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	tests := []struct {
		name string
		kind ErrorKind
		fn   func()
	}{
		{"str plus int", TypeError, func() { Str("a").Add(Int(1)) }},
		{"list minus list", TypeError, func() { List().Sub(List()) }},
		{"division by zero", ZeroDivisionError, func() { Int(1).Div(Int(0)) }},
		{"floor division by zero", ZeroDivisionError, func() { Int(1).FloorDiv(Int(0)) }},
		{"modulo by zero", ZeroDivisionError, func() { Int(1).Mod(Int(0)) }},
		{"float modulo by zero", ZeroDivisionError, func() { Float(1).Mod(Float(0)) }},
		{"negate string", TypeError, func() { Str("a").Neg() }},
		{"order str and int", TypeError, func() { Str("a").Lt(Int(1)) }},
		{"none plus none", TypeError, func() { None().Add(None()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.kind, tt.fn)
		})
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		name string
		got  *Object
		want bool
	}{
		{"lt", Int(1).Lt(Int(2)), true},
		{"le equal", Int(2).Le(Int(2)), true},
		{"gt mixed", Float(2.5).Gt(Int(2)), true},
		{"ge", Int(1).Ge(Int(2)), false},
		{"eq mixed numbers", Int(1).Eq(Float(1.0)), true},
		{"eq bool int", Bool(true).Eq(Int(1)), true},
		{"eq unrelated kinds", Str("1").Eq(Int(1)), false},
		{"ne", Str("a").Ne(Str("b")), true},
		{"string order", Str("abc").Lt(Str("abd")), true},
		{"list order", List(Int(1), Int(2)).Lt(List(Int(1), Int(3))), true},
		{"list prefix order", List(Int(1)).Lt(List(Int(1), Int(0))), true},
		{"list eq", List(Int(1), Str("a")).Eq(List(Int(1), Str("a"))), true},
		{"none eq", None().Eq(None()), true},
		{"in list", Int(2).In(List(Int(1), Int(2))), true},
		{"not in list", Int(5).NotIn(List(Int(1), Int(2))), true},
		{"in string", Str("ell").In(Str("hello")), true},
		{"in dict", Str("k").In(Dict(Str("k"), Int(1))), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.Truth(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "0.5"},
		{1, "1.0"},
		{-0.0, "0.0"},
		{123.456, "123.456"},
		{1e16, "1e+16"},
		{1.5e16, "1.5e+16"},
		{1e15, "1000000000000000.0"},
		{1e-5, "1e-05"},
		{0.0001, "0.0001"},
	}

	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	// Computed at run time; the constant expression would be exactly 0.3.
	a, b := 0.1, 0.2
	if got := formatFloat(a + b); got != "0.30000000000000004" {
		t.Errorf("formatFloat(0.1+0.2) = %q", got)
	}
}

func TestRepr(t *testing.T) {
	l := List(Str("a"), Str("it's"), Int(1), Float(2), None(), Bool(false))
	want := `['a', "it's", 1, 2.0, None, False]`
	if got := l.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
