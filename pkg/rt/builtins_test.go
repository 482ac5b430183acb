package rt

import (
	"bytes"
	"strings"
	"testing"
)

func withIO(t *testing.T, input string) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	oldIn, oldOut := stdin, stdout
	SetIO(strings.NewReader(input), &out)
	t.Cleanup(func() { stdin, stdout = oldIn, oldOut })
	return &out
}

func TestPrintAndInput(t *testing.T) {
	out := withIO(t, "3 4\r\nnext\n")

	line := Input()
	parts := Map(ToInt, line.Split())
	a, b := NewVar(), NewVar()
	a.Assign(parts.IndexValue(Int(0)))
	b.Assign(parts.IndexValue(Int(1)))
	Print(a.Mul(b), Str("hello"), List(Str("x")))
	Print(Input())
	Flush()

	want := "12 hello ['x']\nnext\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	expectError(t, EOFError, func() { Input() })
}

func TestRange(t *testing.T) {
	tests := []struct {
		name string
		args []*Object
		want string
	}{
		{"stop", []*Object{Int(3)}, "[0, 1, 2]"},
		{"empty", []*Object{Int(0)}, "[]"},
		{"start stop", []*Object{Int(2), Int(5)}, "[2, 3, 4]"},
		{"step", []*Object{Int(0), Int(10), Int(4)}, "[0, 4, 8]"},
		{"negative step", []*Object{Int(3), Int(0), Int(-1)}, "[3, 2, 1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Range(tt.args...).String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	expectError(t, ValueError, func() { Range(Int(0), Int(1), Int(0)) })
	expectError(t, TypeError, func() { Range(Str("3")) })
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		got  *Object
		want string
	}{
		{"int of string", ToInt(Str(" 42 ")), "42"},
		{"int of float", ToInt(Float(-2.7)), "-2"},
		{"int of bool", ToInt(Bool(true)), "1"},
		{"float of string", ToFloat(Str("2.5")), "2.5"},
		{"float of int", ToFloat(Int(3)), "3.0"},
		{"str of list", ToStr(List(Int(1))), "[1]"},
		{"list of string", ToList(Str("ab")), "['a', 'b']"},
		{"list of dict", ToList(Dict(Str("k"), Int(1))), "['k']"},
		{"empty list", ToList(), "[]"},
		{"len string", Len(Str("héllo")), "5"},
		{"abs", Abs(Int(-4)), "4"},
		{"min args", Min(Int(3), Int(1), Int(2)), "1"},
		{"max iterable", Max(List(Int(3), Int(7), Int(2))), "7"},
		{"sum", Sum(List(Int(1), Float(0.5))), "1.5"},
		{"sorted", Sorted(List(Int(3), Int(1), Int(2))), "[1, 2, 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := tt.got.String(); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
		})
	}

	expectError(t, ValueError, func() { ToInt(Str("x")) })
	expectError(t, TypeError, func() { Len(Int(1)) })
	expectError(t, ValueError, func() { Max(List()) })
}

// TestLoopDesugaring replays the lowered form of a for loop: materialize,
// reverse, then pop from the end until empty.
func TestLoopDesugaring(t *testing.T) {
	out := withIO(t, "")

	tmp := NewVar()
	tmp.Assign(ToList(List(Str("p"), Str("q"), Str("r"))))
	tmp.Reverse()
	x := NewVar()
	for Len(tmp).Gt(Int(0)).Truth() {
		x.Assign(tmp.Pop())
		Print(x)
	}
	Flush()

	if out.String() != "p\nq\nr\n" {
		t.Errorf("iteration order = %q", out.String())
	}
}

func TestListMethods(t *testing.T) {
	a := NewVar()
	a.Assign(List(Int(3), Int(1)))
	a.Append(Int(2))
	a.Extend(a)
	if got := a.String(); got != "[3, 1, 2, 3, 1, 2]" {
		t.Fatalf("after extend: %s", got)
	}
	a.Sort()
	if got := a.String(); got != "[1, 1, 2, 2, 3, 3]" {
		t.Fatalf("after sort: %s", got)
	}
	if got := a.Pop(Int(0)).String(); got != "1" {
		t.Errorf("pop(0) = %s", got)
	}
	if got := a.Count(Int(2)).String(); got != "2" {
		t.Errorf("count(2) = %s", got)
	}
	if got := a.Index(Int(3)).String(); got != "3" {
		t.Errorf("index(3) = %s", got)
	}

	expectError(t, IndexError, func() { List().Pop() })
	expectError(t, AttributeError, func() { Int(1).Append(Int(1)) })
	expectError(t, TypeError, func() { List(Int(1), Str("a")).Sort() })
}

func TestStringMethods(t *testing.T) {
	tests := []struct {
		name string
		got  *Object
		want string
	}{
		{"split whitespace", Str("  a b\tc ").Split(), "['a', 'b', 'c']"},
		{"split sep", Str("a,b,,c").Split(Str(",")), "['a', 'b', '', 'c']"},
		{"strip", Str("  x \n").Strip(), "x"},
		{"strip chars", Str("xxhixx").Strip(Str("x")), "hi"},
		{"count", Str("banana").Count(Str("an")), "2"},
		{"join", Str("-").Join(List(Str("a"), Str("b"))), "a-b"},
		{"upper", Str("abc").Upper(), "ABC"},
		{"index", Str("hello").Index(Str("l")), "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := tt.got.String(); s != tt.want {
				t.Errorf("got %q, want %q", s, tt.want)
			}
		})
	}
}

func TestDictMethods(t *testing.T) {
	d := Dict(Str("a"), Int(1), Str("b"), Int(2))
	if got := d.Keys().String(); got != "['a', 'b']" {
		t.Errorf("keys = %s", got)
	}
	if got := d.Values().String(); got != "[1, 2]" {
		t.Errorf("values = %s", got)
	}
	if got := d.Items().String(); got != "[['a', 1], ['b', 2]]" {
		t.Errorf("items = %s", got)
	}
	if got := d.Get(Str("z"), Int(0)).String(); got != "0" {
		t.Errorf("get default = %s", got)
	}
}

func TestExit(t *testing.T) {
	var errOut bytes.Buffer
	code := -1
	oldErr, oldExit := stderr, exitFunc
	stderr, exitFunc = &errOut, func(c int) { code = c }
	t.Cleanup(func() { stderr, exitFunc = oldErr, oldExit })
	withIO(t, "")

	func() {
		defer Exit()
		Int(1).Div(Int(0))
	}()

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if got := errOut.String(); got != "ZeroDivisionError: division by zero\n" {
		t.Errorf("stderr = %q", got)
	}
}
