package optimizer

import (
	"testing"

	"github.com/GriffinCanCode/pygo/pkg/frontend"
	"github.com/GriffinCanCode/pygo/pkg/ir"
)

func lower(t *testing.T, src string) *ir.Program {
	t.Helper()
	mod, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog, err := ir.Build(mod)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return prog
}

func value(t *testing.T, prog *ir.Program) ir.Expr {
	t.Helper()
	a, ok := prog.Body[0].(*ir.Assign)
	if !ok {
		t.Fatalf("expected assignment, got %T", prog.Body[0])
	}
	return a.Value
}

func TestConstantFoldNumbers(t *testing.T) {
	tests := []struct {
		src     string
		text    string
		isFloat bool
	}{
		{"x = -5\n", "-5", false},
		{"x = --5\n", "5", false},
		{"x = +7\n", "7", false},
		{"x = -9223372036854775808\n", "-9223372036854775808", false},
		{"x = -2.5\n", "-2.5", true},
		{"x = -1e999\n", "-1e999", true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v := value(t, ConstantFold(lower(t, tt.src)))
			n, ok := v.(*ir.ConstantNumber)
			if !ok {
				t.Fatalf("expected number, got %T", v)
			}
			if n.Text != tt.text || n.IsFloat != tt.isFloat {
				t.Errorf("got %q float=%v, want %q float=%v", n.Text, n.IsFloat, tt.text, tt.isFloat)
			}
		})
	}
}

func TestConstantFoldKeepsNegativeZero(t *testing.T) {
	v := value(t, ConstantFold(lower(t, "x = -0.0\n")))
	if _, ok := v.(*ir.UnaryOperation); !ok {
		t.Errorf("-0.0 must stay an operation, got %T", v)
	}
}

func TestConstantFoldOther(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(ir.Expr) bool
	}{
		{"not true", "x = not True\n", func(e ir.Expr) bool {
			b, ok := e.(*ir.ConstantBoolean)
			return ok && !b.Value
		}},
		{"not none", "x = not None\n", func(e ir.Expr) bool {
			b, ok := e.(*ir.ConstantBoolean)
			return ok && b.Value
		}},
		{"not empty string", "x = not ''\n", func(e ir.Expr) bool {
			b, ok := e.(*ir.ConstantBoolean)
			return ok && b.Value
		}},
		{"string concatenation", "x = 'ab' + 'cd' + 'e'\n", func(e ir.Expr) bool {
			s, ok := e.(*ir.ConstantString)
			return ok && s.Value == "abcde"
		}},
		{"if expression", "x = 1 if not False else y\n", func(e ir.Expr) bool {
			n, ok := e.(*ir.ConstantNumber)
			return ok && n.Text == "1"
		}},
		{"nested in call", "x = f(-1, [not True])\n", func(e ir.Expr) bool {
			c, ok := e.(*ir.CallFunction)
			if !ok {
				return false
			}
			n, ok := c.Args[0].(*ir.ConstantNumber)
			return ok && n.Text == "-1"
		}},
		{"variables untouched", "x = -y\n", func(e ir.Expr) bool {
			_, ok := e.(*ir.UnaryOperation)
			return ok
		}},
		{"numbers not added", "x = 1 + 2\n", func(e ir.Expr) bool {
			_, ok := e.(*ir.BinaryOperation)
			return ok
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := value(t, ConstantFold(lower(t, tt.src)))
			if !tt.check(v) {
				t.Errorf("unexpected result %#v", v)
			}
		})
	}
}

func TestDeadCodeElimination(t *testing.T) {
	prog := Optimize(lower(t, `def f():
    return 1
    print(2)
    g()
while True:
    break
    print(3)
`))
	fn := prog.Body[0].(*ir.Func)
	if len(fn.Body) != 1 {
		t.Errorf("function body has %d statements, want 1", len(fn.Body))
	}
	loop := prog.Body[1].(*ir.While)
	if len(loop.Body) != 1 {
		t.Errorf("loop body has %d statements, want 1", len(loop.Body))
	}
}

func TestDeadCodeKeepsDefinitions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"assignment", "def f():\n    return 1\n    x = 2\n", 2},
		{"nested function", "def f():\n    return 1\n    def g():\n        pass\n", 2},
		{"chained compare temporary", "def f():\n    return 1\n    print(1 < g() < 3)\n", 2},
		{"jump", "def f():\n    return 1\n    return 2\n", 2},
		{"nested jump", "def f():\n    return 1\n    if x:\n        break\n", 2},
		{"index store", "def f(a):\n    return 1\n    a[0] = 2\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := DeadCodeElimination(lower(t, tt.src))
			fn := prog.Body[0].(*ir.Func)
			if len(fn.Body) != tt.want {
				t.Errorf("body has %d statements, want %d", len(fn.Body), tt.want)
			}
		})
	}
}
