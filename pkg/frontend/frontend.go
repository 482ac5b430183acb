// Package frontend implements Python parsing and AST construction.
//
// Design: Minimal, focused on correctness. The tree mirrors the shape of
// Python's own ast module so that later stages can treat it as the output of
// any conforming parser. No desugaring happens here.
package frontend

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) Position() Pos { return p }

// AST node types
type Node interface {
	Position() Pos
}

type Module struct {
	Body []Stmt
}

type Stmt interface {
	Node
	stmt()
}

type Expr interface {
	Node
	expr()
}

// Statements

// Assign is `t1 = t2 = ... = value`; Targets holds one entry per `=`.
type Assign struct {
	Pos
	Targets []Expr
	Value   Expr
}

func (Assign) stmt() {}

type AugAssign struct {
	Pos
	Target Expr
	Op     Operator
	Value  Expr
}

func (AugAssign) stmt() {}

type ExprStmt struct {
	Pos
	Value Expr
}

func (ExprStmt) stmt() {}

// If holds an elif chain as a nested If in Orelse.
type If struct {
	Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

func (If) stmt() {}

type FunctionDef struct {
	Pos
	Name   string
	Params []Param
	Body   []Stmt
}

func (FunctionDef) stmt() {}

type Return struct {
	Pos
	Value Expr // nil for a bare return
}

func (Return) stmt() {}

type While struct {
	Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

func (While) stmt() {}

type For struct {
	Pos
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

func (For) stmt() {}

type Break struct{ Pos }

func (Break) stmt() {}

type Continue struct{ Pos }

func (Continue) stmt() {}

type Pass struct{ Pos }

func (Pass) stmt() {}

// Expressions
type BinOp struct {
	Pos
	Left  Expr
	Op    Operator
	Right Expr
}

func (BinOp) expr() {}

type UnaryOp struct {
	Pos
	Op      UnaryOperator
	Operand Expr
}

func (UnaryOp) expr() {}

type BoolOp struct {
	Pos
	Op     BoolOperator
	Values []Expr
}

func (BoolOp) expr() {}

// Compare keeps a comparison chain as written: Left Ops[0] Comparators[0]
// Ops[1] Comparators[1] ...
type Compare struct {
	Pos
	Left        Expr
	Ops         []CmpOperator
	Comparators []Expr
}

func (Compare) expr() {}

type IfExp struct {
	Pos
	Test   Expr
	Body   Expr
	Orelse Expr
}

func (IfExp) expr() {}

type Call struct {
	Pos
	Func Expr
	Args []Expr
}

func (Call) expr() {}

type Attribute struct {
	Pos
	Value Expr
	Attr  string
}

func (Attribute) expr() {}

type Subscript struct {
	Pos
	Value Expr
	Index Expr
}

func (Subscript) expr() {}

// Slice appears only as a Subscript index; nil parts were omitted.
type Slice struct {
	Pos
	Lower Expr
	Upper Expr
	Step  Expr
}

func (Slice) expr() {}

type Name struct {
	Pos
	Id string
}

func (Name) expr() {}

// Num keeps the literal text; range checking happens downstream.
type Num struct {
	Pos
	Text    string
	IsFloat bool
}

func (Num) expr() {}

type Str struct {
	Pos
	Value string
}

func (Str) expr() {}

// NameConstant is True, False or None.
type NameConstant struct {
	Pos
	Value string
}

func (NameConstant) expr() {}

type Tuple struct {
	Pos
	Elts []Expr
}

func (Tuple) expr() {}

type List struct {
	Pos
	Elts []Expr
}

func (List) expr() {}

type Dict struct {
	Pos
	Keys   []Expr
	Values []Expr
}

func (Dict) expr() {}

// Supporting types
type Param struct {
	Name string
}

type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Div
	FloorDiv
	Mod
	Pow
)

var operatorSymbols = [...]string{"+", "-", "*", "/", "//", "%", "**"}

func (op Operator) String() string {
	if int(op) < len(operatorSymbols) {
		return operatorSymbols[op]
	}
	return "?"
}

type UnaryOperator int

const (
	UAdd UnaryOperator = iota
	USub
	Not
)

type BoolOperator int

const (
	And BoolOperator = iota
	Or
)

type CmpOperator int

const (
	Lt CmpOperator = iota
	LtE
	Gt
	GtE
	Eq
	NotEq
	In
	NotIn
)

// Parse parses a complete source file.
func Parse(source string) (*Module, error) {
	return NewParser(source).Parse()
}
