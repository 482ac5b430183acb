// Package frontend - Recursive descent parser for the supported Python subset
// Design: Predictive parsing, clear error messages, zero backtracking
package frontend

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// maxErrors bounds how many diagnostics one parse collects before giving up.
const maxErrors = 10

type Parser struct {
	lexer   *Lexer
	current Token
	errors  []string
}

func NewParser(source string) *Parser {
	lexer := NewLexer(source)
	return &Parser{
		lexer:   lexer,
		current: lexer.NextToken(),
	}
}

func (p *Parser) Parse() (*Module, error) {
	module := &Module{}

	for !p.check(EOF) && len(p.errors) < maxErrors {
		if p.match(NEWLINE) {
			p.advance()
			continue
		}
		before := len(p.errors)
		module.Body = append(module.Body, p.statement()...)
		if len(p.errors) > before {
			p.synchronize()
		}
	}

	if len(p.errors) > 0 {
		return nil, errors.Errorf("parse errors: %s", strings.Join(p.errors, "; "))
	}

	return module, nil
}

// synchronize skips to the start of the next logical line after an error.
func (p *Parser) synchronize() {
	for !p.check(EOF) && !p.check(NEWLINE) {
		p.advance()
	}
	if p.check(NEWLINE) {
		p.advance()
	}
}

func (p *Parser) statement() []Stmt {
	switch p.current.Type {
	case DEF:
		return nilSafe(p.function())
	case IF:
		return nilSafe(p.ifStatement())
	case WHILE:
		return nilSafe(p.whileStatement())
	case FOR:
		return nilSafe(p.forStatement())
	case CLASS, TRY, WITH:
		p.error(fmt.Sprintf("unsupported statement '%s'", p.current.Lexeme))
		return nil
	case INDENT:
		p.error("unexpected indent")
		return nil
	}
	return p.simpleStatements()
}

func nilSafe(s Stmt) []Stmt {
	if s == nil {
		return nil
	}
	return []Stmt{s}
}

// simpleStatements parses `small (';' small)* NEWLINE`.
func (p *Parser) simpleStatements() []Stmt {
	var stmts []Stmt
	for {
		s := p.smallStatement()
		if s == nil {
			return stmts
		}
		stmts = append(stmts, s)
		if !p.match(SEMICOLON) {
			break
		}
		p.advance()
		if p.check(NEWLINE) || p.check(EOF) {
			break
		}
	}
	if !p.check(EOF) {
		p.consume(NEWLINE, "expected newline")
	}
	return stmts
}

func (p *Parser) smallStatement() Stmt {
	tok := p.current
	switch tok.Type {
	case RETURN:
		p.advance()
		ret := &Return{Pos: tok.Pos()}
		if !p.check(NEWLINE) && !p.check(SEMICOLON) && !p.check(EOF) {
			ret.Value = p.testList()
		}
		return ret
	case BREAK:
		p.advance()
		return &Break{Pos: tok.Pos()}
	case CONTINUE:
		p.advance()
		return &Continue{Pos: tok.Pos()}
	case PASS:
		p.advance()
		return &Pass{Pos: tok.Pos()}
	case IMPORT, FROM, GLOBAL, NONLOCAL, DEL, YIELD, LAMBDA:
		p.error(fmt.Sprintf("unsupported statement '%s'", tok.Lexeme))
		return nil
	}

	expr := p.testList()
	if expr == nil {
		return nil
	}

	if op, ok := augmentedOps[p.current.Type]; ok {
		p.advance()
		value := p.testList()
		if value == nil {
			return nil
		}
		return &AugAssign{Pos: tok.Pos(), Target: expr, Op: op, Value: value}
	}

	if p.match(ASSIGN) {
		targets := []Expr{expr}
		var value Expr
		for p.match(ASSIGN) {
			p.advance()
			value = p.testList()
			if value == nil {
				return nil
			}
			targets = append(targets, value)
		}
		return &Assign{Pos: tok.Pos(), Targets: targets[:len(targets)-1], Value: value}
	}

	return &ExprStmt{Pos: tok.Pos(), Value: expr}
}

var augmentedOps = map[TokenType]Operator{
	PLUSEQ:    Add,
	MINUSEQ:   Sub,
	STAREQ:    Mul,
	SLASHEQ:   Div,
	DSLASHEQ:  FloorDiv,
	PERCENTEQ: Mod,
	DSTAREQ:   Pow,
}

func (p *Parser) function() Stmt {
	tok := p.advance() // consume 'def'

	if !p.check(NAME) {
		p.error("expected function name")
		return nil
	}
	name := p.advance().Lexeme

	if !p.consume(LPAREN, "expected '('") {
		return nil
	}

	var params []Param
	for !p.check(RPAREN) {
		if !p.check(NAME) {
			p.error("expected parameter name")
			return nil
		}
		params = append(params, Param{Name: p.advance().Lexeme})
		if p.match(COLON) {
			p.error("parameter annotations are not supported")
			return nil
		}
		if p.match(ASSIGN) {
			p.error("default parameter values are not supported")
			return nil
		}
		if !p.match(COMMA) {
			break
		}
		p.advance()
	}

	if !p.consume(RPAREN, "expected ')'") {
		return nil
	}
	if p.match(ARROW) {
		p.error("return annotations are not supported")
		return nil
	}

	body := p.block()
	if body == nil {
		return nil
	}

	return &FunctionDef{Pos: tok.Pos(), Name: name, Params: params, Body: body}
}

// ifStatement folds an elif chain into nested If nodes.
func (p *Parser) ifStatement() Stmt {
	tok := p.advance() // consume 'if' or 'elif'
	test := p.test()
	if test == nil {
		return nil
	}
	body := p.block()
	if body == nil {
		return nil
	}

	stmt := &If{Pos: tok.Pos(), Test: test, Body: body}
	switch {
	case p.match(ELIF):
		elif := p.ifStatement()
		if elif == nil {
			return nil
		}
		stmt.Orelse = []Stmt{elif}
	case p.match(ELSE):
		p.advance()
		if stmt.Orelse = p.block(); stmt.Orelse == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) whileStatement() Stmt {
	tok := p.advance() // consume 'while'
	test := p.test()
	if test == nil {
		return nil
	}
	body := p.block()
	if body == nil {
		return nil
	}
	stmt := &While{Pos: tok.Pos(), Test: test, Body: body}
	if p.match(ELSE) {
		p.advance()
		if stmt.Orelse = p.block(); stmt.Orelse == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) forStatement() Stmt {
	tok := p.advance() // consume 'for'
	target := p.targetList()
	if target == nil {
		return nil
	}
	if !p.consume(IN, "expected 'in'") {
		return nil
	}
	iter := p.testList()
	if iter == nil {
		return nil
	}
	body := p.block()
	if body == nil {
		return nil
	}
	stmt := &For{Pos: tok.Pos(), Target: target, Iter: iter, Body: body}
	if p.match(ELSE) {
		p.advance()
		if stmt.Orelse = p.block(); stmt.Orelse == nil {
			return nil
		}
	}
	return stmt
}

// block parses `':' simple_stmts` or `':' NEWLINE INDENT stmt+ DEDENT`.
// A nil result means an error was recorded.
func (p *Parser) block() []Stmt {
	if !p.consume(COLON, "expected ':'") {
		return nil
	}

	if !p.match(NEWLINE) {
		stmts := p.simpleStatements()
		if len(stmts) == 0 {
			return nil
		}
		return stmts
	}
	p.advance()

	if !p.consume(INDENT, "expected an indented block") {
		return nil
	}

	var body []Stmt
	for !p.check(DEDENT) && !p.check(EOF) {
		if p.match(NEWLINE) {
			p.advance()
			continue
		}
		before := len(p.errors)
		body = append(body, p.statement()...)
		if len(p.errors) > before {
			return nil
		}
	}

	if p.check(DEDENT) {
		p.advance()
	}
	if len(body) == 0 {
		p.error("expected an indented block")
		return nil
	}
	return body
}

// targetList parses the target of a for loop: names, subscripts or a flat
// comma-separated tuple of them. It stops before 'in'.
func (p *Parser) targetList() Expr {
	tok := p.current
	first := p.arith()
	if first == nil || !p.match(COMMA) {
		return first
	}
	elts := []Expr{first}
	for p.match(COMMA) {
		p.advance()
		if p.check(IN) {
			break
		}
		e := p.arith()
		if e == nil {
			return nil
		}
		elts = append(elts, e)
	}
	return &Tuple{Pos: tok.Pos(), Elts: elts}
}

// testList parses `test (',' test)* [',']`, producing a Tuple when a comma
// is present.
func (p *Parser) testList() Expr {
	tok := p.current
	first := p.test()
	if first == nil || !p.match(COMMA) {
		return first
	}
	elts := []Expr{first}
	for p.match(COMMA) {
		p.advance()
		if !p.startsExpression() {
			break
		}
		e := p.test()
		if e == nil {
			return nil
		}
		elts = append(elts, e)
	}
	return &Tuple{Pos: tok.Pos(), Elts: elts}
}

func (p *Parser) startsExpression() bool {
	switch p.current.Type {
	case NAME, INT, FLOAT, STRING, TRUE, FALSE, NONE, LPAREN, LBRACKET, LBRACE, MINUS, PLUS, NOT:
		return true
	}
	return false
}

func (p *Parser) test() Expr {
	if p.match(LAMBDA) {
		p.error("lambda expressions are not supported")
		return nil
	}
	body := p.orExpr()
	if body == nil || !p.match(IF) {
		return body
	}
	p.advance()
	test := p.orExpr()
	if test == nil {
		return nil
	}
	if !p.consume(ELSE, "expected 'else' in conditional expression") {
		return nil
	}
	orelse := p.test()
	if orelse == nil {
		return nil
	}
	return &IfExp{Pos: body.Position(), Test: test, Body: body, Orelse: orelse}
}

func (p *Parser) orExpr() Expr {
	return p.boolChain(OR, Or, p.andExpr)
}

func (p *Parser) andExpr() Expr {
	return p.boolChain(AND, And, p.notExpr)
}

func (p *Parser) boolChain(tokType TokenType, op BoolOperator, operand func() Expr) Expr {
	tok := p.current
	first := operand()
	if first == nil || !p.match(tokType) {
		return first
	}
	values := []Expr{first}
	for p.match(tokType) {
		p.advance()
		e := operand()
		if e == nil {
			return nil
		}
		values = append(values, e)
	}
	return &BoolOp{Pos: tok.Pos(), Op: op, Values: values}
}

func (p *Parser) notExpr() Expr {
	if p.match(NOT) {
		tok := p.advance()
		operand := p.notExpr()
		if operand == nil {
			return nil
		}
		return &UnaryOp{Pos: tok.Pos(), Op: Not, Operand: operand}
	}
	return p.comparison()
}

var comparisonOps = map[TokenType]CmpOperator{
	LT: Lt,
	LE: LtE,
	GT: Gt,
	GE: GtE,
	EQ: Eq,
	NE: NotEq,
	IN: In,
}

func (p *Parser) comparison() Expr {
	tok := p.current
	left := p.arith()
	if left == nil {
		return nil
	}

	var ops []CmpOperator
	var comparators []Expr
	for {
		var op CmpOperator
		if o, ok := comparisonOps[p.current.Type]; ok {
			op = o
			p.advance()
		} else if p.match(NOT) {
			p.advance()
			if !p.consume(IN, "expected 'in' after 'not'") {
				return nil
			}
			op = NotIn
		} else if p.match(IS) {
			p.error("'is' comparisons are not supported")
			return nil
		} else {
			break
		}
		right := p.arith()
		if right == nil {
			return nil
		}
		ops = append(ops, op)
		comparators = append(comparators, right)
	}

	if len(ops) == 0 {
		return left
	}
	return &Compare{Pos: tok.Pos(), Left: left, Ops: ops, Comparators: comparators}
}

func (p *Parser) arith() Expr {
	return p.binaryLevel(map[TokenType]Operator{PLUS: Add, MINUS: Sub}, p.term)
}

func (p *Parser) term() Expr {
	return p.binaryLevel(map[TokenType]Operator{
		STAR:    Mul,
		SLASH:   Div,
		DSLASH:  FloorDiv,
		PERCENT: Mod,
	}, p.factor)
}

// binaryLevel parses one left-associative precedence level.
func (p *Parser) binaryLevel(ops map[TokenType]Operator, operand func() Expr) Expr {
	expr := operand()
	for expr != nil {
		op, ok := ops[p.current.Type]
		if !ok {
			break
		}
		p.advance()
		right := operand()
		if right == nil {
			return nil
		}
		expr = &BinOp{Pos: expr.Position(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() Expr {
	if p.match(PLUS) || p.match(MINUS) {
		tok := p.advance()
		operand := p.factor()
		if operand == nil {
			return nil
		}
		op := UAdd
		if tok.Type == MINUS {
			op = USub
		}
		return &UnaryOp{Pos: tok.Pos(), Op: op, Operand: operand}
	}
	return p.power()
}

// power is right-associative and binds tighter than unary minus on its
// left: -2**2 == -(2**2).
func (p *Parser) power() Expr {
	base := p.primary()
	if base == nil || !p.match(DSTAR) {
		return base
	}
	p.advance()
	exp := p.factor()
	if exp == nil {
		return nil
	}
	return &BinOp{Pos: base.Position(), Left: base, Op: Pow, Right: exp}
}

func (p *Parser) primary() Expr {
	expr := p.atom()
	for expr != nil {
		pos := expr.Position()
		switch p.current.Type {
		case LPAREN:
			p.advance()
			args := p.arguments()
			if args == nil && len(p.errors) > 0 {
				return nil
			}
			expr = &Call{Pos: pos, Func: expr, Args: args}
		case LBRACKET:
			p.advance()
			index := p.subscript()
			if index == nil || !p.consume(RBRACKET, "expected ']'") {
				return nil
			}
			expr = &Subscript{Pos: pos, Value: expr, Index: index}
		case DOT:
			p.advance()
			if !p.check(NAME) {
				p.error("expected attribute name")
				return nil
			}
			expr = &Attribute{Pos: pos, Value: expr, Attr: p.advance().Lexeme}
		default:
			return expr
		}
	}
	return nil
}

// arguments parses a call's argument list after '(' through ')'.
func (p *Parser) arguments() []Expr {
	args := []Expr{}
	for !p.check(RPAREN) {
		if p.match(STAR) || p.match(DSTAR) {
			p.error("argument unpacking is not supported")
			return nil
		}
		arg := p.test()
		if arg == nil {
			return nil
		}
		if p.match(ASSIGN) {
			p.error("keyword arguments are not supported")
			return nil
		}
		if p.match(FOR) {
			p.error("generator expressions are not supported")
			return nil
		}
		args = append(args, arg)
		if !p.match(COMMA) {
			break
		}
		p.advance()
	}
	if !p.consume(RPAREN, "expected ')'") {
		return nil
	}
	return args
}

func (p *Parser) subscript() Expr {
	tok := p.current
	var lower Expr
	if !p.check(COLON) {
		lower = p.test()
		if lower == nil || !p.match(COLON) {
			return lower
		}
	}

	slice := &Slice{Pos: tok.Pos(), Lower: lower}
	p.advance() // consume ':'
	if !p.check(COLON) && !p.check(RBRACKET) {
		if slice.Upper = p.test(); slice.Upper == nil {
			return nil
		}
	}
	if p.match(COLON) {
		p.advance()
		if !p.check(RBRACKET) {
			if slice.Step = p.test(); slice.Step == nil {
				return nil
			}
		}
	}
	return slice
}

func (p *Parser) atom() Expr {
	tok := p.current
	switch tok.Type {
	case NAME:
		p.advance()
		return &Name{Pos: tok.Pos(), Id: tok.Lexeme}
	case INT, FLOAT:
		p.advance()
		return &Num{Pos: tok.Pos(), Text: tok.Lexeme, IsFloat: tok.Type == FLOAT}
	case STRING:
		var b strings.Builder
		for p.check(STRING) {
			b.WriteString(p.advance().Lexeme)
		}
		return &Str{Pos: tok.Pos(), Value: b.String()}
	case TRUE, FALSE, NONE:
		p.advance()
		return &NameConstant{Pos: tok.Pos(), Value: tok.Lexeme}
	case LPAREN:
		p.advance()
		if p.match(RPAREN) {
			p.advance()
			return &Tuple{Pos: tok.Pos()}
		}
		expr := p.testList()
		if expr == nil || !p.consume(RPAREN, "expected ')'") {
			return nil
		}
		return expr
	case LBRACKET:
		p.advance()
		elts := []Expr{}
		for !p.check(RBRACKET) {
			e := p.test()
			if e == nil {
				return nil
			}
			if p.match(FOR) {
				p.error("list comprehensions are not supported")
				return nil
			}
			elts = append(elts, e)
			if !p.match(COMMA) {
				break
			}
			p.advance()
		}
		if !p.consume(RBRACKET, "expected ']'") {
			return nil
		}
		return &List{Pos: tok.Pos(), Elts: elts}
	case LBRACE:
		p.advance()
		dict := &Dict{Pos: tok.Pos()}
		for !p.check(RBRACE) {
			key := p.test()
			if key == nil {
				return nil
			}
			if !p.consume(COLON, "expected ':' in dict literal (sets are not supported)") {
				return nil
			}
			value := p.test()
			if value == nil {
				return nil
			}
			dict.Keys = append(dict.Keys, key)
			dict.Values = append(dict.Values, value)
			if !p.match(COMMA) {
				break
			}
			p.advance()
		}
		if !p.consume(RBRACE, "expected '}'") {
			return nil
		}
		return dict
	case ILLEGAL:
		p.error(tok.Lexeme)
		return nil
	}

	p.error(fmt.Sprintf("unexpected %s", tok))
	return nil
}

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) check(typ TokenType) bool {
	return p.current.Type == typ
}

func (p *Parser) advance() Token {
	prev := p.current
	if prev.Type != EOF {
		p.current = p.lexer.NextToken()
	}
	return prev
}

func (p *Parser) consume(typ TokenType, msg string) bool {
	if p.check(typ) {
		p.advance()
		return true
	}
	if p.check(ILLEGAL) {
		msg = p.current.Lexeme
	}
	p.error(msg)
	return false
}

func (p *Parser) error(msg string) {
	errMsg := fmt.Sprintf("line %d, col %d: %s", p.current.Line, p.current.Col, msg)
	p.errors = append(p.errors, errMsg)
}
