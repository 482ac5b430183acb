// Package analysis computes, for every scope of a program, the variable
// names that must be declared before the scope's body runs.
//
// Design: One walk over the IR. A scope is the top level ("") or a function
// body, keyed by the dotted path of enclosing function names. If and While
// bodies share their enclosing scope; a nested Func starts a new one.
package analysis

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/GriffinCanCode/pygo/pkg/ir"
	"github.com/GriffinCanCode/pygo/pkg/logger"
)

// TopLevel is the key of the module scope.
const TopLevel = ""

// Function is a def as seen from the scope that contains it.
type Function struct {
	Name   string
	Scope  string // key of the function's own body scope
	Params []string
}

// Arity is the number of declared parameters.
func (f *Function) Arity() int { return len(f.Params) }

// Scope holds the definitions made directly in one scope.
type Scope struct {
	Name   string
	Parent string
	Params []string
	vars   map[string]bool
	funcs  map[string]*Function
}

// Definitions is the definition map for a whole program. It is not
// modified after Analyze returns.
type Definitions struct {
	scopes map[string]*Scope
	byFunc map[*ir.Func]string
}

// ScopeName returns the key of function name defined in parent.
func ScopeName(parent, name string) string {
	if parent == TopLevel {
		return name
	}
	return parent + "." + name
}

// Analyze walks prog and returns its definition map.
func Analyze(prog *ir.Program) (*Definitions, error) {
	d := &Definitions{
		scopes: make(map[string]*Scope),
		byFunc: make(map[*ir.Func]string),
	}
	top := d.newScope(TopLevel, TopLevel, nil)
	if err := d.walk(top, prog.Body); err != nil {
		return nil, err
	}
	for _, s := range d.scopes {
		for name := range s.funcs {
			if s.vars[name] {
				return nil, errors.Errorf("%s: %q is both a function and a variable", describe(s.Name), name)
			}
		}
	}
	logger.Debug("Definition analysis complete", "scopes", len(d.scopes))
	return d, nil
}

func (d *Definitions) newScope(name, parent string, params []string) *Scope {
	s := &Scope{
		Name:   name,
		Parent: parent,
		Params: params,
		vars:   make(map[string]bool),
		funcs:  make(map[string]*Function),
	}
	d.scopes[name] = s
	return s
}

func (d *Definitions) walk(s *Scope, body []ir.Statement) error {
	for _, stmt := range body {
		switch st := stmt.(type) {
		case *ir.Assign:
			if v, ok := st.Target.(*ir.VariableName); ok {
				s.vars[v.Name] = true
			}
			d.collectBinds(s, st.Target)
			d.collectBinds(s, st.Value)
		case *ir.Expression:
			d.collectBinds(s, st.Value)
		case *ir.Return:
			d.collectBinds(s, st.Value)
		case *ir.If:
			d.collectBinds(s, st.Test)
			if err := d.walk(s, st.Body); err != nil {
				return err
			}
			if err := d.walk(s, st.Orelse); err != nil {
				return err
			}
		case *ir.While:
			d.collectBinds(s, st.Test)
			if err := d.walk(s, st.Body); err != nil {
				return err
			}
		case *ir.Func:
			if err := d.define(s, st); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Definitions) define(s *Scope, fn *ir.Func) error {
	if prev, ok := s.funcs[fn.Name]; ok && prev.Arity() != len(fn.Args) {
		return errors.Errorf("line %d: function %s redefined in %s with %d parameters, previously %d",
			fn.Line, fn.Name, describe(s.Name), len(fn.Args), prev.Arity())
	}
	// A redefinition gets its own scope: name#2, name#3, ...
	name := ScopeName(s.Name, fn.Name)
	for i := 2; d.scopes[name] != nil; i++ {
		name = fmt.Sprintf("%s#%d", ScopeName(s.Name, fn.Name), i)
	}
	d.byFunc[fn] = name
	s.funcs[fn.Name] = &Function{Name: fn.Name, Scope: name, Params: fn.Args}
	inner := d.newScope(name, s.Name, fn.Args)
	return d.walk(inner, fn.Body)
}

// collectBinds records the temporaries introduced by Bind expressions.
func (d *Definitions) collectBinds(s *Scope, e ir.Expr) {
	walkExpr(e, func(e ir.Expr) {
		if b, ok := e.(*ir.Bind); ok {
			s.vars[b.Name] = true
		}
	})
}

func describe(scope string) string {
	if scope == TopLevel {
		return "top level"
	}
	return "function " + scope
}

// Scope returns the scope with the given key, or nil.
func (d *Definitions) Scope(name string) *Scope {
	return d.scopes[name]
}

// ScopeOf returns the key of the scope opened by fn.
func (d *Definitions) ScopeOf(fn *ir.Func) string {
	return d.byFunc[fn]
}

// Scopes returns every scope key in lexicographic order.
func (d *Definitions) Scopes() []string {
	names := make([]string, 0, len(d.scopes))
	for name := range d.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Vars returns the names assigned in scope, sorted lexicographically.
func (d *Definitions) Vars(scope string) []string {
	s := d.scopes[scope]
	if s == nil {
		return nil
	}
	return sortedKeys(s.vars)
}

// Funcs returns the functions defined directly in scope, sorted by name.
func (d *Definitions) Funcs(scope string) []*Function {
	s := d.scopes[scope]
	if s == nil {
		return nil
	}
	out := make([]*Function, 0, len(s.funcs))
	for _, name := range sortedKeys(s.funcs) {
		out = append(out, s.funcs[name])
	}
	return out
}

// HasVar reports whether name is assigned in s or is one of its parameters.
func (s *Scope) HasVar(name string) bool {
	if s.vars[name] {
		return true
	}
	for _, p := range s.Params {
		if p == name {
			return true
		}
	}
	return false
}

// Func returns the function called name defined directly in s.
func (s *Scope) Func(name string) (*Function, bool) {
	f, ok := s.funcs[name]
	return f, ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// walkExpr calls visit on e and every expression nested in it.
func walkExpr(e ir.Expr, visit func(ir.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch x := e.(type) {
	case *ir.Tuple:
		for _, item := range x.Items {
			walkExpr(item, visit)
		}
	case *ir.List:
		for _, item := range x.Items {
			walkExpr(item, visit)
		}
	case *ir.Dict:
		for i := range x.Keys {
			walkExpr(x.Keys[i], visit)
			walkExpr(x.Values[i], visit)
		}
	case *ir.Index:
		walkExpr(x.Value, visit)
		walkExpr(x.Index, visit)
	case *ir.CallFunction:
		for _, a := range x.Args {
			walkExpr(a, visit)
		}
	case *ir.CallMethod:
		walkExpr(x.Value, visit)
		for _, a := range x.Args {
			walkExpr(a, visit)
		}
	case *ir.BinaryOperation:
		walkExpr(x.Left, visit)
		walkExpr(x.Right, visit)
	case *ir.Compare:
		walkExpr(x.Left, visit)
		walkExpr(x.Right, visit)
	case *ir.BoolOperation:
		for _, c := range x.Conditions {
			walkExpr(c, visit)
		}
	case *ir.UnaryOperation:
		walkExpr(x.Value, visit)
	case *ir.IfExpression:
		walkExpr(x.Test, visit)
		walkExpr(x.Body, visit)
		walkExpr(x.Orelse, visit)
	case *ir.Bind:
		walkExpr(x.Value, visit)
	}
}
