package tables

import (
	"testing"

	"github.com/GriffinCanCode/pygo/pkg/ir"
)

func TestOperatorTables(t *testing.T) {
	for op := ir.Add; op <= ir.Pow; op++ {
		if _, ok := BinaryMethod(op); !ok {
			t.Errorf("no runtime method for %v", op)
		}
	}
	for op := ir.Less; op <= ir.NotIn; op++ {
		if _, ok := CompareMethod(op); !ok {
			t.Errorf("no runtime method for %v", op)
		}
	}
	for op := ir.Plus; op <= ir.Not; op++ {
		if _, ok := UnaryMethod(op); !ok {
			t.Errorf("no runtime method for %v", op)
		}
	}

	if m, _ := BinaryMethod(ir.FloorDiv); m != "FloorDiv" {
		t.Errorf("FloorDiv maps to %q", m)
	}
	if m, _ := CompareMethod(ir.LessOrEqual); m != "Le" {
		t.Errorf("LessOrEqual maps to %q", m)
	}
	if m, _ := UnaryMethod(ir.Minus); m != "Neg" {
		t.Errorf("Minus maps to %q", m)
	}
	if BoolOperator(ir.And) != "&&" || BoolOperator(ir.Or) != "||" {
		t.Error("bool operators")
	}
}

func TestCallableArity(t *testing.T) {
	tests := []struct {
		name   string
		lookup func(string) (Callable, bool)
		n      int
		want   bool
	}{
		{"print", Builtin, 0, true},
		{"print", Builtin, 7, true},
		{"len", Builtin, 0, false},
		{"len", Builtin, 1, true},
		{"range", Builtin, 3, true},
		{"range", Builtin, 4, false},
		{"map", Builtin, 2, true},
		{"pop", Method, 0, true},
		{"pop", Method, 2, false},
		{"get", Method, 2, true},
		{"reverse", Method, 1, false},
	}
	for _, tt := range tests {
		c, ok := tt.lookup(tt.name)
		if !ok {
			t.Fatalf("%s not found", tt.name)
		}
		if got := c.Accepts(tt.n); got != tt.want {
			t.Errorf("%s.Accepts(%d) = %v, want %v", tt.name, tt.n, got, tt.want)
		}
	}
}

func TestUnknownNames(t *testing.T) {
	if _, ok := Builtin("eval"); ok {
		t.Error("eval must not be a builtin")
	}
	if _, ok := Method("__class__"); ok {
		t.Error("__class__ must not be a method")
	}
}
