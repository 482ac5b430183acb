package golang

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/pygo/pkg/analysis"
	"github.com/GriffinCanCode/pygo/pkg/ir"
	"github.com/GriffinCanCode/pygo/pkg/tables"
)

// target returns the Go expression for an assignable location.
func (g *generator) target(e ir.Expr) (string, error) {
	switch t := e.(type) {
	case *ir.VariableName:
		if !g.scope.HasVar(t.Name) {
			return "", errorf(t.Pos, "assignment to %q has no declaration in %s", t.Name, scopeLabel(g.scope))
		}
		return varName(t.Name), nil
	case *ir.Index:
		value, err := g.expr(t.Value)
		if err != nil {
			return "", err
		}
		index, err := g.expr(t.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.IndexRef(%s)", value, index), nil
	}
	return "", errorf(ir.Pos{}, "unsupported assignment target: %T", e)
}

func (g *generator) exprs(es []ir.Expr) ([]string, error) {
	out := make([]string, len(es))
	for i, e := range es {
		s, err := g.expr(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (g *generator) expr(e ir.Expr) (string, error) {
	switch x := e.(type) {
	case *ir.VariableName:
		return g.variable(x)

	case *ir.ConstantNumber:
		return number(x)

	case *ir.ConstantString:
		return fmt.Sprintf("rt.Str(%s)", strconv.Quote(x.Value)), nil

	case *ir.ConstantBoolean:
		return fmt.Sprintf("rt.Bool(%t)", x.Value), nil

	case *ir.ConstantNone:
		return "rt.None()", nil

	case *ir.Tuple:
		items, err := g.exprs(x.Items)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt.List(%s)", strings.Join(items, ", ")), nil

	case *ir.List:
		items, err := g.exprs(x.Items)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt.List(%s)", strings.Join(items, ", ")), nil

	case *ir.Dict:
		var kv []string
		for i := range x.Keys {
			pair, err := g.exprs([]ir.Expr{x.Keys[i], x.Values[i]})
			if err != nil {
				return "", err
			}
			kv = append(kv, pair...)
		}
		return fmt.Sprintf("rt.Dict(%s)", strings.Join(kv, ", ")), nil

	case *ir.Index:
		value, err := g.expr(x.Value)
		if err != nil {
			return "", err
		}
		index, err := g.expr(x.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.IndexValue(%s)", value, index), nil

	case *ir.CallFunction:
		return g.call(x)

	case *ir.CallMethod:
		m, ok := tables.Method(x.Name)
		if !ok {
			return "", &ir.UnsupportedError{Construct: "method ." + x.Name, Pos: x.Pos}
		}
		if !m.Accepts(len(x.Args)) {
			return "", errorf(x.Pos, "%s() called with %d arguments", x.Name, len(x.Args))
		}
		value, err := g.expr(x.Value)
		if err != nil {
			return "", err
		}
		args, err := g.exprs(x.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s(%s)", value, m.Name, strings.Join(args, ", ")), nil

	case *ir.BinaryOperation:
		method, ok := tables.BinaryMethod(x.Op)
		if !ok {
			return "", &ir.UnsupportedError{Construct: "operator " + x.Op.String(), Pos: x.Pos}
		}
		return g.method(method, x.Left, x.Right)

	case *ir.Compare:
		method, ok := tables.CompareMethod(x.Op)
		if !ok {
			return "", &ir.UnsupportedError{Construct: "comparison " + x.Op.String(), Pos: x.Pos}
		}
		return g.method(method, x.Left, x.Right)

	case *ir.UnaryOperation:
		method, ok := tables.UnaryMethod(x.Op)
		if !ok {
			return "", &ir.UnsupportedError{Construct: "unary " + x.Op.String(), Pos: x.Pos}
		}
		value, err := g.expr(x.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s()", value, method), nil

	case *ir.BoolOperation:
		conds, err := g.exprs(x.Conditions)
		if err != nil {
			return "", err
		}
		for i, c := range conds {
			conds[i] = c + ".Truth()"
		}
		return fmt.Sprintf("rt.Bool(%s)", strings.Join(conds, " "+tables.BoolOperator(x.Op)+" ")), nil

	case *ir.IfExpression:
		parts, err := g.exprs([]ir.Expr{x.Test, x.Body, x.Orelse})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func() *rt.Object { if %s.Truth() { return %s }; return %s }()",
			parts[0], parts[1], parts[2]), nil

	case *ir.Bind:
		if !g.scope.HasVar(x.Name) {
			return "", errorf(x.Pos, "temporary %q has no declaration", x.Name)
		}
		value, err := g.expr(x.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.Bind(%s)", varName(x.Name), value), nil
	}
	return "", errorf(ir.Pos{}, "unsupported expression type: %T", e)
}

func (g *generator) method(name string, left, right ir.Expr) (string, error) {
	l, err := g.expr(left)
	if err != nil {
		return "", err
	}
	r, err := g.expr(right)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s(%s)", l, name, r), nil
}

// binding is what a name resolves to from the current scope.
type binding struct {
	variable bool
	fn       *analysis.Function
}

// resolve walks the scope chain outward, innermost definition first.
func (g *generator) resolve(name string) (binding, bool) {
	for s := g.scope; s != nil; {
		if s.HasVar(name) {
			return binding{variable: true}, true
		}
		if fn, ok := s.Func(name); ok {
			return binding{fn: fn}, true
		}
		if s.Name == analysis.TopLevel {
			break
		}
		s = g.defs.Scope(s.Parent)
	}
	return binding{}, false
}

func (g *generator) variable(x *ir.VariableName) (string, error) {
	b, ok := g.resolve(x.Name)
	if !ok {
		if _, builtin := tables.Builtin(x.Name); builtin {
			return "", errorf(x.Pos, "builtin %s can only be called or passed to map", x.Name)
		}
		return "", errorf(x.Pos, "name %q is not defined", x.Name)
	}
	if !b.variable {
		return "", errorf(x.Pos, "function %s can only be called or passed to map", x.Name)
	}
	return varName(x.Name), nil
}

// call emits a function call. User functions receive shallow copies of
// their arguments; builtins receive the argument objects themselves.
func (g *generator) call(x *ir.CallFunction) (string, error) {
	if !x.Runtime {
		b, ok := g.resolve(x.Name)
		switch {
		case ok && b.variable:
			return "", &ir.UnsupportedError{Construct: fmt.Sprintf("call of variable %s", x.Name), Pos: x.Pos}
		case ok:
			return g.userCall(x, b.fn)
		}
	}

	c, ok := tables.Builtin(x.Name)
	if !ok {
		return "", errorf(x.Pos, "name %q is not defined", x.Name)
	}
	if !c.Accepts(len(x.Args)) {
		return "", errorf(x.Pos, "%s() called with %d arguments", x.Name, len(x.Args))
	}

	var args []string
	rest := x.Args
	if x.Name == "map" {
		fn, err := g.funcValue(x.Args[0])
		if err != nil {
			return "", err
		}
		args = append(args, fn)
		rest = rest[1:]
	}
	more, err := g.exprs(rest)
	if err != nil {
		return "", err
	}
	args = append(args, more...)
	return fmt.Sprintf("rt.%s(%s)", c.Name, strings.Join(args, ", ")), nil
}

func (g *generator) userCall(x *ir.CallFunction, fn *analysis.Function) (string, error) {
	if len(x.Args) != fn.Arity() {
		return "", errorf(x.Pos, "%s() takes %d arguments but %d were given", x.Name, fn.Arity(), len(x.Args))
	}
	args, err := g.exprs(x.Args)
	if err != nil {
		return "", err
	}
	for i, a := range args {
		args[i] = a + ".ShallowCopy()"
	}
	return fmt.Sprintf("%s(%s)", funcName(x.Name), strings.Join(args, ", ")), nil
}

// funcValue emits a one-argument function value for map.
func (g *generator) funcValue(e ir.Expr) (string, error) {
	name, ok := e.(*ir.VariableName)
	if !ok {
		return "", &ir.UnsupportedError{Construct: "map over a computed function", Pos: posOf(e)}
	}
	if b, found := g.resolve(name.Name); found {
		if b.variable {
			return "", &ir.UnsupportedError{Construct: "map over variable " + name.Name, Pos: name.Pos}
		}
		if b.fn.Arity() != 1 {
			return "", errorf(name.Pos, "map needs a one-argument function, %s takes %d", name.Name, b.fn.Arity())
		}
		return funcName(name.Name), nil
	}

	c, ok := tables.Builtin(name.Name)
	switch {
	case !ok:
		return "", errorf(name.Pos, "name %q is not defined", name.Name)
	case !c.Accepts(1) || name.Name == "map":
		return "", errorf(name.Pos, "map needs a one-argument function, %s is not one", name.Name)
	case c.MinArgs == 1 && c.MaxArgs == 1:
		return "rt." + c.Name, nil
	}
	return fmt.Sprintf("func(x *rt.Object) *rt.Object { return rt.%s(x) }", c.Name), nil
}

// number emits a literal. Integers must fit in int64; floats that overflow
// become infinities.
func number(x *ir.ConstantNumber) (string, error) {
	if !x.IsFloat {
		i, err := strconv.ParseInt(x.Text, 10, 64)
		if err != nil {
			return "", &ir.UnsupportedError{Construct: fmt.Sprintf("integer literal %s outside the 64-bit range", x.Text), Pos: x.Pos}
		}
		return fmt.Sprintf("rt.Int(%d)", i), nil
	}

	f, err := strconv.ParseFloat(x.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return "", errorf(x.Pos, "invalid float literal %s", x.Text)
	}
	if math.IsInf(f, 1) {
		return `rt.ToFloat(rt.Str("inf"))`, nil
	}
	if math.IsInf(f, -1) {
		return `rt.ToFloat(rt.Str("-inf"))`, nil
	}
	return fmt.Sprintf("rt.Float(%s)", strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func posOf(e ir.Expr) ir.Pos {
	if n, ok := e.(interface{ Position() ir.Pos }); ok {
		return n.Position()
	}
	return ir.Pos{}
}

func scopeLabel(s *analysis.Scope) string {
	if s.Name == analysis.TopLevel {
		return "top level"
	}
	return "function " + s.Name
}
