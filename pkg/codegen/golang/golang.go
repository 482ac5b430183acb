// Package golang emits Go source from IR.
//
// Design: One pass over the IR with the definition map as a read-only side
// table. Every source variable becomes a *rt.Object declared at the top of
// its scope, every def becomes a closure stored in a pre-declared function
// variable, so forward and mutual references always compile.
package golang

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/pygo/pkg/analysis"
	"github.com/GriffinCanCode/pygo/pkg/ir"
	"github.com/GriffinCanCode/pygo/pkg/logger"
)

// RuntimeImport is the package generated programs link against.
const RuntimeImport = "github.com/GriffinCanCode/pygo/pkg/rt"

// Error is a compile error found while generating code.
type Error struct {
	Pos ir.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

func errorf(pos ir.Pos, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

type generator struct {
	defs   *analysis.Definitions
	sb     strings.Builder
	indent int
	scope  *analysis.Scope
	loops  int
}

// Generate returns the text of a Go main package for prog. The output is
// deterministic but not gofmt-formatted.
func Generate(prog *ir.Program, defs *analysis.Definitions) ([]byte, error) {
	g := &generator{defs: defs, scope: defs.Scope(analysis.TopLevel)}

	g.emitLine("// Code generated by pygo. DO NOT EDIT.")
	g.emitLine("")
	g.emitLine("package main")
	g.emitLine("")
	g.emitLinef("import %q", RuntimeImport)
	g.emitLine("")
	g.emitLine("func main() {")
	g.incIndent()
	g.emitLine("defer rt.Exit()")
	g.declareScope(nil)
	if err := g.generateBody(prog.Body); err != nil {
		return nil, err
	}
	g.decIndent()
	g.emitLine("}")

	logger.LogCodeGen("go", "main", strings.Count(g.sb.String(), "\n"))
	return []byte(g.sb.String()), nil
}

// declareScope emits a NewVar for every variable of the current scope that
// is not a parameter, then the function variables defined in it. A function
// variable raises NameError until its def has run.
func (g *generator) declareScope(params []string) {
	isParam := make(map[string]bool, len(params))
	for _, p := range params {
		isParam[p] = true
	}
	for _, name := range g.defs.Vars(g.scope.Name) {
		if !isParam[name] {
			g.emitLinef("%s := rt.NewVar()", varName(name))
		}
	}
	for _, fn := range g.defs.Funcs(g.scope.Name) {
		sig := signature(len(fn.Params))
		g.emitLinef("var %s %s = %s { return rt.Undefined(%q) }", funcName(fn.Name), sig, sig, fn.Name)
	}
}

func (g *generator) generateBody(body []ir.Statement) error {
	for _, stmt := range body {
		if err := g.generateStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) generateStatement(stmt ir.Statement) error {
	switch s := stmt.(type) {
	case *ir.Assign:
		target, err := g.target(s.Target)
		if err != nil {
			return err
		}
		value, err := g.expr(s.Value)
		if err != nil {
			return err
		}
		if _, ok := s.Target.(*ir.Index); !ok {
			g.emitLinef("%s.Assign(%s)", target, value)
			break
		}
		// The value is evaluated before the container and the index.
		g.emitLine("{")
		g.incIndent()
		g.emitLinef("value := %s", value)
		g.emitLinef("%s.Assign(value)", target)
		g.decIndent()
		g.emitLine("}")

	case *ir.Expression:
		value, err := g.expr(s.Value)
		if err != nil {
			return err
		}
		g.emitLinef("_ = %s", value)

	case *ir.If:
		test, err := g.expr(s.Test)
		if err != nil {
			return err
		}
		g.emitLinef("if %s.Truth() {", test)
		g.incIndent()
		if err := g.generateBody(s.Body); err != nil {
			return err
		}
		g.decIndent()
		if len(s.Orelse) > 0 {
			g.emitLine("} else {")
			g.incIndent()
			if err := g.generateBody(s.Orelse); err != nil {
				return err
			}
			g.decIndent()
		}
		g.emitLine("}")

	case *ir.While:
		test, err := g.expr(s.Test)
		if err != nil {
			return err
		}
		g.emitLinef("for %s.Truth() {", test)
		g.incIndent()
		g.loops++
		err = g.generateBody(s.Body)
		g.loops--
		if err != nil {
			return err
		}
		g.decIndent()
		g.emitLine("}")

	case *ir.Break:
		if g.loops == 0 {
			return errorf(s.Pos, "'break' outside loop")
		}
		g.emitLine("break")

	case *ir.Continue:
		if g.loops == 0 {
			return errorf(s.Pos, "'continue' not properly in loop")
		}
		g.emitLine("continue")

	case *ir.Return:
		if g.scope.Name == analysis.TopLevel {
			return errorf(s.Pos, "'return' outside function")
		}
		if s.Value == nil {
			g.emitLine("return rt.None()")
			return nil
		}
		value, err := g.expr(s.Value)
		if err != nil {
			return err
		}
		g.emitLinef("return %s", value)

	case *ir.Func:
		return g.generateFunction(s)

	default:
		return errorf(ir.Pos{}, "unsupported statement type: %T", stmt)
	}
	return nil
}

// generateFunction binds a closure to the function variable declared by
// the enclosing scope.
func (g *generator) generateFunction(fn *ir.Func) error {
	outer, loops := g.scope, g.loops
	g.scope = g.defs.Scope(g.defs.ScopeOf(fn))
	g.loops = 0
	defer func() { g.scope, g.loops = outer, loops }()

	logger.Debug("Generating function", "name", fn.Name, "scope", g.scope.Name)

	params := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		params[i] = varName(a) + " *rt.Object"
	}
	g.emitLinef("%s = func(%s) *rt.Object {", funcName(fn.Name), strings.Join(params, ", "))
	g.incIndent()
	g.declareScope(fn.Args)
	if err := g.generateBody(fn.Body); err != nil {
		return err
	}
	g.emitLine("return rt.None()")
	g.decIndent()
	g.emitLine("}")
	g.emitLinef("_ = %s", funcName(fn.Name))
	return nil
}

func (g *generator) emitLinef(format string, args ...any) {
	g.emitLine(fmt.Sprintf(format, args...))
}

func (g *generator) emitLine(s string) {
	if s != "" {
		g.sb.WriteString(strings.Repeat("\t", g.indent))
		g.sb.WriteString(s)
	}
	g.sb.WriteString("\n")
}

func (g *generator) incIndent() { g.indent++ }
func (g *generator) decIndent() { g.indent-- }

func varName(name string) string  { return "v_" + name }
func funcName(name string) string { return "f_" + name }

func signature(arity int) string {
	params := make([]string, arity)
	for i := range params {
		params[i] = "*rt.Object"
	}
	return fmt.Sprintf("func(%s) *rt.Object", strings.Join(params, ", "))
}
