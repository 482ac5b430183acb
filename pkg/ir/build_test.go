package ir

import (
	"errors"
	"strings"
	"testing"

	"github.com/GriffinCanCode/pygo/pkg/frontend"
)

func build(t *testing.T, src string) *Program {
	t.Helper()
	mod, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog, err := Build(mod)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return prog
}

func TestBuildForDesugaring(t *testing.T) {
	prog := build(t, "for x in xs:\n    print(x)\n")
	if len(prog.Body) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Body))
	}

	init := prog.Body[0].(*Assign)
	tmp := init.Target.(*VariableName).Name
	if tmp != "__tmp_for_1_10" {
		t.Errorf("temporary name: got %q", tmp)
	}
	if call := init.Value.(*CallFunction); call.Name != "list" || !call.Runtime {
		t.Errorf("init: got %#v", call)
	}

	rev := prog.Body[1].(*Expression).Value.(*CallMethod)
	if rev.Name != "reverse" {
		t.Errorf("second statement: got %s", rev.Name)
	}

	loop := prog.Body[2].(*While)
	test := loop.Test.(*Compare)
	if test.Op != Greater || test.Left.(*CallFunction).Name != "len" {
		t.Errorf("loop test: got %#v", test)
	}
	bind := loop.Body[0].(*Assign)
	if bind.Target.(*VariableName).Name != "x" || bind.Value.(*CallMethod).Name != "pop" {
		t.Errorf("loop binding: got %#v", bind)
	}
	if len(loop.Body) != 2 {
		t.Errorf("loop body: got %d statements", len(loop.Body))
	}
}

func TestBuildNestedLoopsUseDistinctTemporaries(t *testing.T) {
	prog := build(t, "for a in x:\n    for b in y:\n        pass\n")
	outer := prog.Body[0].(*Assign).Target.(*VariableName).Name
	inner := prog.Body[2].(*While).Body[1].(*Assign).Target.(*VariableName).Name
	if outer == inner {
		t.Errorf("both loops use %q", outer)
	}
}

func TestBuildTupleAssignment(t *testing.T) {
	prog := build(t, "a, b = xs\n")
	if len(prog.Body) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Body))
	}
	tmp := prog.Body[0].(*Assign).Target.(*VariableName).Name
	if !strings.HasPrefix(tmp, "__tmp_tuple_") {
		t.Errorf("temporary name: got %q", tmp)
	}
	for i, want := range []string{"a", "b"} {
		s := prog.Body[i+1].(*Assign)
		if s.Target.(*VariableName).Name != want {
			t.Errorf("target %d: got %#v", i, s.Target)
		}
		idx := s.Value.(*Index)
		if idx.Value.(*VariableName).Name != tmp || idx.Index.(*ConstantNumber).Text != string(rune('0'+i)) {
			t.Errorf("value %d: got %#v", i, idx)
		}
	}
}

func TestBuildForTupleTarget(t *testing.T) {
	prog := build(t, "for a, b in A:\n    print(b, a)\n")
	body := prog.Body[2].(*While).Body
	// tmp = pop(); a = tmp[0]; b = tmp[1]; print
	if len(body) != 4 {
		t.Fatalf("got %d statements in loop body", len(body))
	}
	if _, ok := body[0].(*Assign).Value.(*CallMethod); !ok {
		t.Errorf("first statement must pop, got %#v", body[0])
	}
}

func TestBuildAugAssign(t *testing.T) {
	prog := build(t, "A[0] += 1\n")
	s := prog.Body[0].(*Assign)
	if _, ok := s.Target.(*Index); !ok {
		t.Fatalf("target: got %T", s.Target)
	}
	op := s.Value.(*BinaryOperation)
	if op.Op != Add {
		t.Errorf("op: got %v", op.Op)
	}
	if _, ok := op.Left.(*Index); !ok {
		t.Errorf("target is read back: got %T", op.Left)
	}
}

func TestBuildCompareChain(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		binds bool
	}{
		{"pure middle", "ok = 0 <= x < 10\n", false},
		{"call middle", "ok = 0 <= f() < 10\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := build(t, tt.src)
			and := prog.Body[0].(*Assign).Value.(*BoolOperation)
			if and.Op != And || len(and.Conditions) != 2 {
				t.Fatalf("got %#v", and)
			}
			first := and.Conditions[0].(*Compare)
			second := and.Conditions[1].(*Compare)
			_, isBind := first.Right.(*Bind)
			if isBind != tt.binds {
				t.Errorf("bind: got %v, want %v", isBind, tt.binds)
			}
			if tt.binds {
				name := first.Right.(*Bind).Name
				if second.Left.(*VariableName).Name != name {
					t.Errorf("second compare does not reuse %s", name)
				}
			}
		})
	}
}

func TestBuildSingleCompare(t *testing.T) {
	prog := build(t, "x = a in b\n")
	if c := prog.Body[0].(*Assign).Value.(*Compare); c.Op != In {
		t.Errorf("got %v", c.Op)
	}
}

func TestBuildPassAndConstants(t *testing.T) {
	prog := build(t, "pass\nx = None\ny = True\n")
	if len(prog.Body) != 2 {
		t.Fatalf("pass must lower to nothing, got %d statements", len(prog.Body))
	}
	if _, ok := prog.Body[0].(*Assign).Value.(*ConstantNone); !ok {
		t.Error("None constant")
	}
	if b := prog.Body[1].(*Assign).Value.(*ConstantBoolean); !b.Value {
		t.Error("True constant")
	}
}

func TestBuildUnsupported(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"nested tuple", "(a, b), c = x\n", "nested tuple target"},
		{"multiple targets", "a = b = 1\n", "multiple assignment targets"},
		{"while else", "while x:\n    pass\nelse:\n    pass\n", "while-else"},
		{"for else", "for x in y:\n    pass\nelse:\n    pass\n", "for-else"},
		{"slice", "y = x[1:]\n", "slice"},
		{"attribute", "y = x.real\n", "attribute access"},
		{"call target", "f() = 1\n", "assignment target"},
		{"callee", "f()()\n", "call of"},
		{"duplicate parameter", "def f(a, a):\n    pass\n", "duplicate parameter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := frontend.Parse(tt.src)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			prog, err := Build(mod)
			if err == nil {
				t.Fatalf("expected error, got %d statements", len(prog.Body))
			}
			if prog != nil {
				t.Error("partial program returned on error")
			}
			var unsupportedErr *UnsupportedError
			if !errors.As(err, &unsupportedErr) {
				t.Fatalf("got %T, want *UnsupportedError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}
