// Package optimizer - IR-level simplifications
// Design: Small rewrites that never change which names a scope defines, so
// analysis sees the same definitions with or without them.
package optimizer

import (
	"strconv"
	"strings"

	"github.com/GriffinCanCode/pygo/pkg/ir"
	"github.com/GriffinCanCode/pygo/pkg/logger"
)

// Optimize applies all passes in place and returns prog.
func Optimize(prog *ir.Program) *ir.Program {
	logger.Debug("Running optimization passes")
	prog = ConstantFold(prog)
	prog = DeadCodeElimination(prog)
	return prog
}

// ConstantFold rewrites operations on literals into literals.
func ConstantFold(prog *ir.Program) *ir.Program {
	logger.Debug("Running constant folding")
	foldBody(prog.Body)
	return prog
}

func foldBody(body []ir.Statement) {
	for _, s := range body {
		switch s := s.(type) {
		case *ir.Assign:
			s.Target = fold(s.Target)
			s.Value = fold(s.Value)
		case *ir.Expression:
			s.Value = fold(s.Value)
		case *ir.If:
			s.Test = fold(s.Test)
			foldBody(s.Body)
			foldBody(s.Orelse)
		case *ir.While:
			s.Test = fold(s.Test)
			foldBody(s.Body)
		case *ir.Func:
			foldBody(s.Body)
		case *ir.Return:
			if s.Value != nil {
				s.Value = fold(s.Value)
			}
		}
	}
}

func foldAll(es []ir.Expr) {
	for i, e := range es {
		es[i] = fold(e)
	}
}

func fold(e ir.Expr) ir.Expr {
	switch x := e.(type) {
	case *ir.Tuple:
		foldAll(x.Items)
	case *ir.List:
		foldAll(x.Items)
	case *ir.Dict:
		foldAll(x.Keys)
		foldAll(x.Values)
	case *ir.Index:
		x.Value = fold(x.Value)
		x.Index = fold(x.Index)
	case *ir.CallFunction:
		foldAll(x.Args)
	case *ir.CallMethod:
		x.Value = fold(x.Value)
		foldAll(x.Args)
	case *ir.Compare:
		x.Left = fold(x.Left)
		x.Right = fold(x.Right)
	case *ir.BoolOperation:
		foldAll(x.Conditions)
	case *ir.Bind:
		x.Value = fold(x.Value)

	case *ir.BinaryOperation:
		x.Left = fold(x.Left)
		x.Right = fold(x.Right)
		l, lok := x.Left.(*ir.ConstantString)
		r, rok := x.Right.(*ir.ConstantString)
		if lok && rok && x.Op == ir.Add {
			return &ir.ConstantString{Pos: x.Pos, Value: l.Value + r.Value}
		}

	case *ir.UnaryOperation:
		x.Value = fold(x.Value)
		if c := foldUnary(x); c != nil {
			return c
		}

	case *ir.IfExpression:
		x.Test = fold(x.Test)
		x.Body = fold(x.Body)
		x.Orelse = fold(x.Orelse)
		if b, ok := x.Test.(*ir.ConstantBoolean); ok {
			if b.Value {
				return x.Body
			}
			return x.Orelse
		}
	}
	return e
}

func foldUnary(x *ir.UnaryOperation) ir.Expr {
	switch v := x.Value.(type) {
	case *ir.ConstantNumber:
		switch x.Op {
		case ir.Plus:
			return &ir.ConstantNumber{Pos: x.Pos, Text: v.Text, IsFloat: v.IsFloat}
		case ir.Minus:
			// Go constants have no negative zero.
			if v.IsFloat && isZero(v.Text) {
				return nil
			}
			return &ir.ConstantNumber{Pos: x.Pos, Text: negate(v.Text), IsFloat: v.IsFloat}
		}
	case *ir.ConstantBoolean:
		if x.Op == ir.Not {
			return &ir.ConstantBoolean{Pos: x.Pos, Value: !v.Value}
		}
	case *ir.ConstantNone:
		if x.Op == ir.Not {
			return &ir.ConstantBoolean{Pos: x.Pos, Value: true}
		}
	case *ir.ConstantString:
		if x.Op == ir.Not {
			return &ir.ConstantBoolean{Pos: x.Pos, Value: v.Value == ""}
		}
	}
	return nil
}

func negate(text string) string {
	if rest, ok := strings.CutPrefix(text, "-"); ok {
		return rest
	}
	return "-" + text
}

func isZero(text string) bool {
	f, err := strconv.ParseFloat(text, 64)
	return err == nil && f == 0
}

// DeadCodeElimination drops statements that follow a return, break or
// continue in the same block, unless one of them defines a name or is itself
// a jump that must still be checked.
func DeadCodeElimination(prog *ir.Program) *ir.Program {
	logger.Debug("Running dead code elimination")
	prog.Body = eliminate(prog.Body)
	return prog
}

func eliminate(body []ir.Statement) []ir.Statement {
	for i, s := range body {
		switch s := s.(type) {
		case *ir.If:
			s.Body = eliminate(s.Body)
			s.Orelse = eliminate(s.Orelse)
		case *ir.While:
			s.Body = eliminate(s.Body)
		case *ir.Func:
			s.Body = eliminate(s.Body)
		case *ir.Return, *ir.Break, *ir.Continue:
			rest := body[i+1:]
			if len(rest) > 0 && !pinnedAny(rest) {
				logger.Debug("Removing unreachable statements", "count", len(rest))
				return body[:i+1]
			}
		}
	}
	return body
}

func pinnedAny(body []ir.Statement) bool {
	for _, s := range body {
		if pinned(s) {
			return true
		}
	}
	return false
}

func pinned(s ir.Statement) bool {
	switch s := s.(type) {
	case *ir.Assign:
		if _, ok := s.Target.(*ir.VariableName); ok {
			return true
		}
		return binds(s.Target) || binds(s.Value)
	case *ir.Func, *ir.Return, *ir.Break, *ir.Continue:
		return true
	case *ir.Expression:
		return binds(s.Value)
	case *ir.If:
		return binds(s.Test) || pinnedAny(s.Body) || pinnedAny(s.Orelse)
	case *ir.While:
		return binds(s.Test) || pinnedAny(s.Body)
	}
	return false
}

// binds reports whether e contains a Bind.
func binds(e ir.Expr) bool {
	switch x := e.(type) {
	case *ir.Bind:
		return true
	case *ir.Tuple:
		return bindsAny(x.Items)
	case *ir.List:
		return bindsAny(x.Items)
	case *ir.Dict:
		return bindsAny(x.Keys) || bindsAny(x.Values)
	case *ir.Index:
		return binds(x.Value) || binds(x.Index)
	case *ir.CallFunction:
		return bindsAny(x.Args)
	case *ir.CallMethod:
		return binds(x.Value) || bindsAny(x.Args)
	case *ir.BinaryOperation:
		return binds(x.Left) || binds(x.Right)
	case *ir.Compare:
		return binds(x.Left) || binds(x.Right)
	case *ir.BoolOperation:
		return bindsAny(x.Conditions)
	case *ir.UnaryOperation:
		return binds(x.Value)
	case *ir.IfExpression:
		return binds(x.Test) || binds(x.Body) || binds(x.Orelse)
	}
	return false
}

func bindsAny(es []ir.Expr) bool {
	for _, e := range es {
		if binds(e) {
			return true
		}
	}
	return false
}
