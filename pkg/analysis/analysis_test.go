package analysis

import (
	"reflect"
	"strings"
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

const program = `
z = 1
if z:
    b = 2
else:
    a = 3
def f(x, y):
    while x:
        t = x
        x = x - 1
    def g():
        inner = 0
    return y
ok = 0 < f(1, 2) < 3
`

func TestAnalyzeScopes(t *testing.T) {
	defs, err := Analyze(lower(t, program))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		scope string
		want  []string
	}{
		{TopLevel, []string{"__tmp_cmp_14_10", "a", "b", "ok", "z"}},
		{"f", []string{"t", "x"}},
		{"f.g", []string{"inner"}},
	}
	for _, tt := range tests {
		t.Run(tt.scope, func(t *testing.T) {
			if got := defs.Vars(tt.scope); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Vars(%q) = %v, want %v", tt.scope, got, tt.want)
			}
		})
	}

	if got := defs.Scopes(); !reflect.DeepEqual(got, []string{"", "f", "f.g"}) {
		t.Errorf("Scopes() = %v", got)
	}
}

func TestAnalyzeFunctions(t *testing.T) {
	defs, err := Analyze(lower(t, program))
	if err != nil {
		t.Fatal(err)
	}

	top := defs.Funcs(TopLevel)
	if len(top) != 1 || top[0].Name != "f" || top[0].Arity() != 2 || top[0].Scope != "f" {
		t.Fatalf("top-level funcs: %#v", top)
	}
	nested := defs.Funcs("f")
	if len(nested) != 1 || nested[0].Scope != "f.g" {
		t.Fatalf("nested funcs: %#v", nested)
	}

	s := defs.Scope("f")
	if !s.HasVar("y") || !s.HasVar("t") || s.HasVar("inner") {
		t.Error("HasVar must see parameters and locals only")
	}
	if _, ok := s.Func("g"); !ok {
		t.Error("g must be visible in f")
	}
	if s.Parent != TopLevel {
		t.Errorf("parent of f: %q", s.Parent)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	prog := lower(t, program)
	first, err := Analyze(prog)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Analyze(prog)
	if err != nil {
		t.Fatal(err)
	}
	for _, scope := range first.Scopes() {
		if !reflect.DeepEqual(first.Vars(scope), second.Vars(scope)) {
			t.Errorf("scope %q differs between runs", scope)
		}
	}
}

func TestAnalyzeDesugaredTemporaries(t *testing.T) {
	defs, err := Analyze(lower(t, "for a, b in xs:\n    pass\n"))
	if err != nil {
		t.Fatal(err)
	}
	vars := defs.Vars(TopLevel)
	want := []string{"__tmp_for_1_13", "__tmp_tuple_1_5", "a", "b"}
	if !reflect.DeepEqual(vars, want) {
		t.Errorf("got %v, want %v", vars, want)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"arity change", "def f(a):\n    pass\ndef f(a, b):\n    pass\n", "redefined"},
		{"function and variable", "def f():\n    pass\nf = 1\n", "both a function and a variable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(lower(t, tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestAnalyzeRedefinitionWithSameArity(t *testing.T) {
	defs, err := Analyze(lower(t, "def f(a):\n    x = 1\ndef f(b):\n    y = 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := defs.Vars("f"); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("first definition: got %v", got)
	}
	if got := defs.Vars("f#2"); !reflect.DeepEqual(got, []string{"y"}) {
		t.Errorf("second definition: got %v", got)
	}
	if funcs := defs.Funcs(TopLevel); len(funcs) != 1 {
		t.Errorf("f must be declared once, got %d", len(funcs))
	}
}
