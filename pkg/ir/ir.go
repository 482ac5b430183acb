// Package ir implements the intermediate representation.
//
// Design: A reduced statement/expression tree. Loops, unpacking and
// augmented assignment are desugared while the tree is built, so later
// stages only ever see the primitive set below. Scoping is not resolved
// here; that is the job of package analysis.
package ir

import (
	"fmt"

	"github.com/GriffinCanCode/pygo/pkg/frontend"
)

// Pos is the source position a node was lowered from.
type Pos = frontend.Pos

// Program is the top-level IR container
type Program struct {
	Body []Statement
}

// Statement is one of Assign, Expression, If, Func, Return, While, Break
// or Continue.
type Statement interface {
	stmt()
}

// Expr is any expression node.
type Expr interface {
	expr()
}

// Statements

// Assign stores Value into Target. Target is a VariableName or an Index.
type Assign struct {
	Pos
	Target Expr
	Value  Expr
}

func (Assign) stmt() {}

type Expression struct {
	Pos
	Value Expr
}

func (Expression) stmt() {}

type If struct {
	Pos
	Test   Expr
	Body   []Statement
	Orelse []Statement
}

func (If) stmt() {}

type Func struct {
	Pos
	Name string
	Args []string
	Body []Statement
}

func (Func) stmt() {}

// Return with a nil Value returns None.
type Return struct {
	Pos
	Value Expr
}

func (Return) stmt() {}

type While struct {
	Pos
	Test Expr
	Body []Statement
}

func (While) stmt() {}

type Break struct{ Pos }

func (Break) stmt() {}

type Continue struct{ Pos }

func (Continue) stmt() {}

// Expressions

type VariableName struct {
	Pos
	Name string
}

func (VariableName) expr() {}

// ConstantNumber keeps the literal text. The generator decides whether it
// fits the target's numeric types.
type ConstantNumber struct {
	Pos
	Text    string
	IsFloat bool
}

func (ConstantNumber) expr() {}

type ConstantString struct {
	Pos
	Value string
}

func (ConstantString) expr() {}

type ConstantBoolean struct {
	Pos
	Value bool
}

func (ConstantBoolean) expr() {}

type ConstantNone struct{ Pos }

func (ConstantNone) expr() {}

type Tuple struct {
	Pos
	Items []Expr
}

func (Tuple) expr() {}

type List struct {
	Pos
	Items []Expr
}

func (List) expr() {}

type Dict struct {
	Pos
	Keys   []Expr
	Values []Expr
}

func (Dict) expr() {}

type Index struct {
	Pos
	Value Expr
	Index Expr
}

func (Index) expr() {}

// CallFunction calls Name. Runtime is set on calls introduced by
// desugaring: they always reach the runtime primitive, whatever the
// program itself defines under that name.
type CallFunction struct {
	Pos
	Name    string
	Args    []Expr
	Runtime bool
}

func (CallFunction) expr() {}

type CallMethod struct {
	Pos
	Value Expr
	Name  string
	Args  []Expr
}

func (CallMethod) expr() {}

type BinaryOperation struct {
	Pos
	Left  Expr
	Right Expr
	Op    BinaryOperator
}

func (BinaryOperation) expr() {}

// Compare is a single pairwise comparison. Chains are flattened into a
// BoolOperation of Compares during lowering.
type Compare struct {
	Pos
	Left  Expr
	Right Expr
	Op    CompareOperator
}

func (Compare) expr() {}

type BoolOperation struct {
	Pos
	Op         BoolOperator
	Conditions []Expr
}

func (BoolOperation) expr() {}

type UnaryOperation struct {
	Pos
	Value Expr
	Op    UnaryOperator
}

func (UnaryOperation) expr() {}

// IfExpression evaluates exactly one of Body and Orelse.
type IfExpression struct {
	Pos
	Test   Expr
	Body   Expr
	Orelse Expr
}

func (IfExpression) expr() {}

// Bind assigns Value to the variable Name and yields that variable. It
// lets a chained comparison evaluate its shared operand once.
type Bind struct {
	Pos
	Name  string
	Value Expr
}

func (Bind) expr() {}

// Operations

type BinaryOperator int

const (
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	Mod
	FloorDiv
	Pow
)

func (op BinaryOperator) String() string {
	switch op {
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case Div:
		return "Div"
	case Mod:
		return "Mod"
	case FloorDiv:
		return "FloorDiv"
	case Pow:
		return "Pow"
	}
	return fmt.Sprintf("BinaryOperator(%d)", int(op))
}

type CompareOperator int

const (
	Less CompareOperator = iota
	LessOrEqual
	Greater
	GreaterOrEqual
	Equal
	NotEqual
	In
	NotIn
)

func (op CompareOperator) String() string {
	switch op {
	case Less:
		return "Less"
	case LessOrEqual:
		return "LessOrEqual"
	case Greater:
		return "Greater"
	case GreaterOrEqual:
		return "GreaterOrEqual"
	case Equal:
		return "Equal"
	case NotEqual:
		return "NotEqual"
	case In:
		return "In"
	case NotIn:
		return "NotIn"
	}
	return fmt.Sprintf("CompareOperator(%d)", int(op))
}

type BoolOperator int

const (
	And BoolOperator = iota
	Or
)

func (op BoolOperator) String() string {
	if op == And {
		return "And"
	}
	return "Or"
}

type UnaryOperator int

const (
	Plus UnaryOperator = iota
	Minus
	Not
)

func (op UnaryOperator) String() string {
	switch op {
	case Plus:
		return "Plus"
	case Minus:
		return "Minus"
	}
	return "Not"
}

// UnsupportedError reports a source construct outside the compiled subset.
type UnsupportedError struct {
	Construct string
	Pos       Pos
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("line %d, col %d: unsupported %s", e.Pos.Line, e.Pos.Col, e.Construct)
}

func unsupported(pos Pos, format string, args ...any) error {
	return &UnsupportedError{Construct: fmt.Sprintf(format, args...), Pos: pos}
}
