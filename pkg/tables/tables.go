// Package tables maps IR operators, builtins and methods to the runtime
// names the generator emits.
//
// Design: Pure lookups, no state. Everything the generated code may call on
// package rt is listed here, so extending the runtime surface is a one-line
// change.
package tables

import "github.com/GriffinCanCode/pygo/pkg/ir"

var binaryMethods = map[ir.BinaryOperator]string{
	ir.Add:      "Add",
	ir.Sub:      "Sub",
	ir.Mul:      "Mul",
	ir.Div:      "Div",
	ir.Mod:      "Mod",
	ir.FloorDiv: "FloorDiv",
	ir.Pow:      "Pow",
}

var compareMethods = map[ir.CompareOperator]string{
	ir.Less:           "Lt",
	ir.LessOrEqual:    "Le",
	ir.Greater:        "Gt",
	ir.GreaterOrEqual: "Ge",
	ir.Equal:          "Eq",
	ir.NotEqual:       "Ne",
	ir.In:             "In",
	ir.NotIn:          "NotIn",
}

var unaryMethods = map[ir.UnaryOperator]string{
	ir.Plus:  "Pos",
	ir.Minus: "Neg",
	ir.Not:   "Not",
}

// BinaryMethod returns the runtime method implementing op.
func BinaryMethod(op ir.BinaryOperator) (string, bool) {
	m, ok := binaryMethods[op]
	return m, ok
}

// CompareMethod returns the runtime method implementing op. In and NotIn
// are called on the left operand with the container as argument.
func CompareMethod(op ir.CompareOperator) (string, bool) {
	m, ok := compareMethods[op]
	return m, ok
}

func UnaryMethod(op ir.UnaryOperator) (string, bool) {
	m, ok := unaryMethods[op]
	return m, ok
}

// BoolOperator returns the Go operator joining truthiness tests. The
// generated expression is rt.Bool(a.Truth() && b.Truth()), so `0 or 5`
// yields True rather than the deciding operand 5.
func BoolOperator(op ir.BoolOperator) string {
	if op == ir.Or {
		return "||"
	}
	return "&&"
}

// Variadic marks an unbounded MaxArgs.
const Variadic = -1

// Callable describes a runtime entry point and how many arguments it takes.
type Callable struct {
	Name    string
	MinArgs int
	MaxArgs int
}

// Accepts reports whether n arguments are allowed.
func (c Callable) Accepts(n int) bool {
	return n >= c.MinArgs && (c.MaxArgs == Variadic || n <= c.MaxArgs)
}

var builtins = map[string]Callable{
	"print":  {"Print", 0, Variadic},
	"input":  {"Input", 0, 1},
	"list":   {"ToList", 0, 1},
	"len":    {"Len", 1, 1},
	"range":  {"Range", 1, 3},
	"map":    {"Map", 2, 2},
	"int":    {"ToInt", 1, 1},
	"float":  {"ToFloat", 1, 1},
	"str":    {"ToStr", 1, 1},
	"abs":    {"Abs", 1, 1},
	"min":    {"Min", 1, Variadic},
	"max":    {"Max", 1, Variadic},
	"sum":    {"Sum", 1, 1},
	"sorted": {"Sorted", 1, 1},
}

// Builtin looks up a builtin function by its source name.
func Builtin(name string) (Callable, bool) {
	c, ok := builtins[name]
	return c, ok
}

var methods = map[string]Callable{
	"append":  {"Append", 1, 1},
	"extend":  {"Extend", 1, 1},
	"pop":     {"Pop", 0, 1},
	"reverse": {"Reverse", 0, 0},
	"sort":    {"Sort", 0, 0},
	"index":   {"Index", 1, 1},
	"count":   {"Count", 1, 1},
	"split":   {"Split", 0, 1},
	"strip":   {"Strip", 0, 1},
	"join":    {"Join", 1, 1},
	"upper":   {"Upper", 0, 0},
	"lower":   {"Lower", 0, 0},
	"keys":    {"Keys", 0, 0},
	"values":  {"Values", 0, 0},
	"items":   {"Items", 0, 0},
	"get":     {"Get", 1, 2},
}

// Method looks up a method by its source name.
func Method(name string) (Callable, bool) {
	c, ok := methods[name]
	return c, ok
}
