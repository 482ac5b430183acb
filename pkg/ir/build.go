// Package ir - AST to IR conversion
// Design: Single pass, desugar while building, stop at the first construct
// outside the supported subset.
package ir

import (
	"fmt"
	"strconv"

	"github.com/GriffinCanCode/pygo/pkg/frontend"
	"github.com/GriffinCanCode/pygo/pkg/logger"
)

type Builder struct {
	stmts int
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build lowers a parsed module. On error no partial program is returned.
func (b *Builder) Build(module *frontend.Module) (*Program, error) {
	logger.Debug("Building IR from AST", "statements", len(module.Body))
	body, err := b.buildStatements(module.Body)
	if err != nil {
		logger.Debug("IR build failed", "error", err)
		return nil, err
	}
	logger.Debug("IR build complete", "statements", b.stmts)
	return &Program{Body: body}, nil
}

// Build lowers module with a fresh Builder.
func Build(module *frontend.Module) (*Program, error) {
	return NewBuilder().Build(module)
}

func (b *Builder) buildStatements(stmts []frontend.Stmt) ([]Statement, error) {
	var out []Statement
	for _, stmt := range stmts {
		lowered, err := b.buildStatement(stmt)
		if err != nil {
			return nil, err
		}
		b.stmts += len(lowered)
		out = append(out, lowered...)
	}
	return out, nil
}

func (b *Builder) buildStatement(stmt frontend.Stmt) ([]Statement, error) {
	switch s := stmt.(type) {
	case *frontend.Assign:
		if len(s.Targets) != 1 {
			return nil, unsupported(s.Pos, "multiple assignment targets")
		}
		value, err := b.buildExpression(s.Value)
		if err != nil {
			return nil, err
		}
		return b.buildAssignment(s.Targets[0], value, s.Pos)

	case *frontend.AugAssign:
		// x op= y evaluates the target expression twice.
		target, err := b.buildTarget(s.Target)
		if err != nil {
			return nil, err
		}
		read, err := b.buildExpression(s.Target)
		if err != nil {
			return nil, err
		}
		value, err := b.buildExpression(s.Value)
		if err != nil {
			return nil, err
		}
		return []Statement{&Assign{
			Pos:    s.Pos,
			Target: target,
			Value:  &BinaryOperation{Pos: s.Pos, Left: read, Right: value, Op: binaryOp(s.Op)},
		}}, nil

	case *frontend.ExprStmt:
		value, err := b.buildExpression(s.Value)
		if err != nil {
			return nil, err
		}
		return []Statement{&Expression{Pos: s.Pos, Value: value}}, nil

	case *frontend.If:
		test, err := b.buildExpression(s.Test)
		if err != nil {
			return nil, err
		}
		body, err := b.buildStatements(s.Body)
		if err != nil {
			return nil, err
		}
		orelse, err := b.buildStatements(s.Orelse)
		if err != nil {
			return nil, err
		}
		return []Statement{&If{Pos: s.Pos, Test: test, Body: body, Orelse: orelse}}, nil

	case *frontend.FunctionDef:
		logger.Debug("Building function", "name", s.Name)
		args := make([]string, len(s.Params))
		seen := make(map[string]bool, len(s.Params))
		for i, p := range s.Params {
			if seen[p.Name] {
				return nil, unsupported(s.Pos, "duplicate parameter %q in function %s", p.Name, s.Name)
			}
			seen[p.Name] = true
			args[i] = p.Name
		}
		body, err := b.buildStatements(s.Body)
		if err != nil {
			return nil, err
		}
		return []Statement{&Func{Pos: s.Pos, Name: s.Name, Args: args, Body: body}}, nil

	case *frontend.Return:
		ret := &Return{Pos: s.Pos}
		if s.Value != nil {
			value, err := b.buildExpression(s.Value)
			if err != nil {
				return nil, err
			}
			ret.Value = value
		}
		return []Statement{ret}, nil

	case *frontend.While:
		if len(s.Orelse) > 0 {
			return nil, unsupported(s.Pos, "while-else")
		}
		test, err := b.buildExpression(s.Test)
		if err != nil {
			return nil, err
		}
		body, err := b.buildStatements(s.Body)
		if err != nil {
			return nil, err
		}
		return []Statement{&While{Pos: s.Pos, Test: test, Body: body}}, nil

	case *frontend.For:
		return b.buildFor(s)

	case *frontend.Break:
		return []Statement{&Break{Pos: s.Pos}}, nil

	case *frontend.Continue:
		return []Statement{&Continue{Pos: s.Pos}}, nil

	case *frontend.Pass:
		return nil, nil

	default:
		return nil, unsupported(stmt.Position(), "statement type: %T", stmt)
	}
}

// buildFor desugars
//
//	for target in iter: body
//
// into
//
//	tmp = list(iter)
//	tmp.reverse()
//	while len(tmp) > 0:
//	    target = tmp.pop()
//	    body
//
// The temporary is named after the iterable's position so nested loops do
// not collide.
func (b *Builder) buildFor(s *frontend.For) ([]Statement, error) {
	if len(s.Orelse) > 0 {
		return nil, unsupported(s.Pos, "for-else")
	}
	iter, err := b.buildExpression(s.Iter)
	if err != nil {
		return nil, err
	}

	pos := s.Iter.Position()
	tmp := fmt.Sprintf("__tmp_for_%d_%d", pos.Line, pos.Col)
	name := func() Expr { return &VariableName{Pos: pos, Name: tmp} }

	pop := &CallMethod{Pos: pos, Value: name(), Name: "pop"}
	body, err := b.buildAssignment(s.Target, pop, s.Pos)
	if err != nil {
		return nil, err
	}
	rest, err := b.buildStatements(s.Body)
	if err != nil {
		return nil, err
	}
	body = append(body, rest...)

	return []Statement{
		&Assign{
			Pos:    s.Pos,
			Target: name(),
			Value:  &CallFunction{Pos: pos, Name: "list", Args: []Expr{iter}, Runtime: true},
		},
		&Expression{Pos: s.Pos, Value: &CallMethod{Pos: pos, Value: name(), Name: "reverse"}},
		&While{
			Pos: s.Pos,
			Test: &Compare{
				Pos:   pos,
				Left:  &CallFunction{Pos: pos, Name: "len", Args: []Expr{name()}, Runtime: true},
				Right: &ConstantNumber{Pos: pos, Text: "0"},
				Op:    Greater,
			},
			Body: body,
		},
	}, nil
}

// buildAssignment lowers `target = value`. A flat tuple or list target
//
//	a, b = value
//
// becomes
//
//	tmp = value
//	a = tmp[0]
//	b = tmp[1]
func (b *Builder) buildAssignment(target frontend.Expr, value Expr, pos Pos) ([]Statement, error) {
	elts, ok := unpackTarget(target)
	if !ok {
		t, err := b.buildTarget(target)
		if err != nil {
			return nil, err
		}
		return []Statement{&Assign{Pos: pos, Target: t, Value: value}}, nil
	}

	tpos := target.Position()
	tmp := fmt.Sprintf("__tmp_tuple_%d_%d", tpos.Line, tpos.Col)
	stmts := []Statement{&Assign{Pos: pos, Target: &VariableName{Pos: tpos, Name: tmp}, Value: value}}
	for i, elt := range elts {
		if _, nested := unpackTarget(elt); nested {
			return nil, unsupported(elt.Position(), "nested tuple target")
		}
		t, err := b.buildTarget(elt)
		if err != nil {
			return nil, err
		}
		epos := elt.Position()
		stmts = append(stmts, &Assign{
			Pos:    epos,
			Target: t,
			Value: &Index{
				Pos:   epos,
				Value: &VariableName{Pos: tpos, Name: tmp},
				Index: &ConstantNumber{Pos: epos, Text: strconv.Itoa(i)},
			},
		})
	}
	return stmts, nil
}

func unpackTarget(target frontend.Expr) ([]frontend.Expr, bool) {
	switch t := target.(type) {
	case *frontend.Tuple:
		return t.Elts, true
	case *frontend.List:
		return t.Elts, true
	}
	return nil, false
}

// buildTarget lowers an assignable expression: a name or an index.
func (b *Builder) buildTarget(target frontend.Expr) (Expr, error) {
	switch t := target.(type) {
	case *frontend.Name:
		return &VariableName{Pos: t.Pos, Name: t.Id}, nil
	case *frontend.Subscript:
		if _, ok := t.Index.(*frontend.Slice); ok {
			return nil, unsupported(t.Pos, "slice assignment")
		}
		return b.buildExpression(t)
	default:
		return nil, unsupported(target.Position(), "assignment target: %T", target)
	}
}

func (b *Builder) buildExpressions(exprs []frontend.Expr) ([]Expr, error) {
	out := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		v, err := b.buildExpression(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *Builder) buildExpression(expr frontend.Expr) (Expr, error) {
	switch e := expr.(type) {
	case *frontend.Name:
		return &VariableName{Pos: e.Pos, Name: e.Id}, nil

	case *frontend.Num:
		return &ConstantNumber{Pos: e.Pos, Text: e.Text, IsFloat: e.IsFloat}, nil

	case *frontend.Str:
		return &ConstantString{Pos: e.Pos, Value: e.Value}, nil

	case *frontend.NameConstant:
		switch e.Value {
		case "True":
			return &ConstantBoolean{Pos: e.Pos, Value: true}, nil
		case "False":
			return &ConstantBoolean{Pos: e.Pos, Value: false}, nil
		case "None":
			return &ConstantNone{Pos: e.Pos}, nil
		}
		return nil, unsupported(e.Pos, "constant %s", e.Value)

	case *frontend.Tuple:
		items, err := b.buildExpressions(e.Elts)
		if err != nil {
			return nil, err
		}
		return &Tuple{Pos: e.Pos, Items: items}, nil

	case *frontend.List:
		items, err := b.buildExpressions(e.Elts)
		if err != nil {
			return nil, err
		}
		return &List{Pos: e.Pos, Items: items}, nil

	case *frontend.Dict:
		keys, err := b.buildExpressions(e.Keys)
		if err != nil {
			return nil, err
		}
		values, err := b.buildExpressions(e.Values)
		if err != nil {
			return nil, err
		}
		return &Dict{Pos: e.Pos, Keys: keys, Values: values}, nil

	case *frontend.Subscript:
		if _, ok := e.Index.(*frontend.Slice); ok {
			return nil, unsupported(e.Pos, "slice")
		}
		value, err := b.buildExpression(e.Value)
		if err != nil {
			return nil, err
		}
		index, err := b.buildExpression(e.Index)
		if err != nil {
			return nil, err
		}
		return &Index{Pos: e.Pos, Value: value, Index: index}, nil

	case *frontend.Call:
		args, err := b.buildExpressions(e.Args)
		if err != nil {
			return nil, err
		}
		switch fn := e.Func.(type) {
		case *frontend.Name:
			return &CallFunction{Pos: e.Pos, Name: fn.Id, Args: args}, nil
		case *frontend.Attribute:
			value, err := b.buildExpression(fn.Value)
			if err != nil {
				return nil, err
			}
			return &CallMethod{Pos: e.Pos, Value: value, Name: fn.Attr, Args: args}, nil
		}
		return nil, unsupported(e.Pos, "call of %T", e.Func)

	case *frontend.Attribute:
		return nil, unsupported(e.Pos, "attribute access .%s", e.Attr)

	case *frontend.BinOp:
		left, err := b.buildExpression(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.buildExpression(e.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryOperation{Pos: e.Pos, Left: left, Right: right, Op: binaryOp(e.Op)}, nil

	case *frontend.UnaryOp:
		value, err := b.buildExpression(e.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryOperation{Pos: e.Pos, Value: value, Op: unaryOp(e.Op)}, nil

	case *frontend.BoolOp:
		conditions, err := b.buildExpressions(e.Values)
		if err != nil {
			return nil, err
		}
		op := And
		if e.Op == frontend.Or {
			op = Or
		}
		return &BoolOperation{Pos: e.Pos, Op: op, Conditions: conditions}, nil

	case *frontend.Compare:
		return b.buildCompare(e)

	case *frontend.IfExp:
		test, err := b.buildExpression(e.Test)
		if err != nil {
			return nil, err
		}
		body, err := b.buildExpression(e.Body)
		if err != nil {
			return nil, err
		}
		orelse, err := b.buildExpression(e.Orelse)
		if err != nil {
			return nil, err
		}
		return &IfExpression{Pos: e.Pos, Test: test, Body: body, Orelse: orelse}, nil

	default:
		return nil, unsupported(expr.Position(), "expression type: %T", expr)
	}
}

// buildCompare flattens `a < b < c` into `a < b and b < c`. A middle
// operand that may have side effects is bound to a temporary on its first
// use and read back from it on the second.
func (b *Builder) buildCompare(e *frontend.Compare) (Expr, error) {
	left, err := b.buildExpression(e.Left)
	if err != nil {
		return nil, err
	}

	var conditions []Expr
	for i, op := range e.Ops {
		right, err := b.buildExpression(e.Comparators[i])
		if err != nil {
			return nil, err
		}
		next := right
		if i < len(e.Ops)-1 && !pure(right) {
			pos := e.Comparators[i].Position()
			tmp := fmt.Sprintf("__tmp_cmp_%d_%d", pos.Line, pos.Col)
			right = &Bind{Pos: pos, Name: tmp, Value: right}
			next = &VariableName{Pos: pos, Name: tmp}
		}
		conditions = append(conditions, &Compare{Pos: e.Pos, Left: left, Right: right, Op: compareOp(op)})
		left = next
	}

	if len(conditions) == 1 {
		return conditions[0], nil
	}
	return &BoolOperation{Pos: e.Pos, Op: And, Conditions: conditions}, nil
}

// pure reports whether evaluating e twice is indistinguishable from
// evaluating it once.
func pure(e Expr) bool {
	switch e.(type) {
	case *VariableName, *ConstantNumber, *ConstantString, *ConstantBoolean, *ConstantNone:
		return true
	}
	return false
}

func binaryOp(op frontend.Operator) BinaryOperator {
	switch op {
	case frontend.Add:
		return Add
	case frontend.Sub:
		return Sub
	case frontend.Mul:
		return Mul
	case frontend.Div:
		return Div
	case frontend.FloorDiv:
		return FloorDiv
	case frontend.Mod:
		return Mod
	default:
		return Pow
	}
}

func unaryOp(op frontend.UnaryOperator) UnaryOperator {
	switch op {
	case frontend.UAdd:
		return Plus
	case frontend.USub:
		return Minus
	default:
		return Not
	}
}

func compareOp(op frontend.CmpOperator) CompareOperator {
	switch op {
	case frontend.Lt:
		return Less
	case frontend.LtE:
		return LessOrEqual
	case frontend.Gt:
		return Greater
	case frontend.GtE:
		return GreaterOrEqual
	case frontend.Eq:
		return Equal
	case frontend.NotEq:
		return NotEqual
	case frontend.In:
		return In
	default:
		return NotIn
	}
}
