// Package frontend - Lexer for the supported Python subset
// Design: Hand-written scanner with an indentation stack and a pending
// queue so that one line can close several blocks at once.
package frontend

import (
	"fmt"
	"strings"
	"unicode"
)

type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL
	NEWLINE
	INDENT
	DEDENT

	// Literals
	INT
	FLOAT
	STRING
	NAME

	// Keywords
	DEF
	CLASS
	RETURN
	IF
	ELIF
	ELSE
	WHILE
	FOR
	IN
	BREAK
	CONTINUE
	PASS
	TRUE
	FALSE
	NONE
	AND
	OR
	NOT
	LAMBDA
	YIELD
	IMPORT
	FROM
	GLOBAL
	NONLOCAL
	TRY
	WITH
	DEL
	IS

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	DSLASH  // //
	PERCENT // %
	DSTAR   // **
	EQ      // ==
	NE      // !=
	LT      // <
	LE      // <=
	GT      // >
	GE      // >=
	ASSIGN  // =
	PLUSEQ
	MINUSEQ
	STAREQ
	SLASHEQ
	DSLASHEQ
	PERCENTEQ
	DSTAREQ

	// Delimiters
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COLON
	SEMICOLON
	COMMA
	ARROW
	DOT
)

var keywords = map[string]TokenType{
	"def":      DEF,
	"class":    CLASS,
	"return":   RETURN,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"pass":     PASS,
	"True":     TRUE,
	"False":    FALSE,
	"None":     NONE,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"lambda":   LAMBDA,
	"yield":    YIELD,
	"import":   IMPORT,
	"from":     FROM,
	"global":   GLOBAL,
	"nonlocal": NONLOCAL,
	"try":      TRY,
	"with":     WITH,
	"del":      DEL,
	"is":       IS,
}

type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int
}

func (t Token) Pos() Pos { return Pos{Line: t.Line, Col: t.Col} }

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of file"
	case NEWLINE:
		return "newline"
	case INDENT:
		return "indent"
	case DEDENT:
		return "dedent"
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

type Lexer struct {
	source      []rune
	pos         int
	line        int
	col         int
	indents     []int
	pending     []Token
	atLineStart bool
	depth       int // open brackets; newlines inside them are insignificant
	last        TokenType
	started     bool
}

func NewLexer(source string) *Lexer {
	return &Lexer{
		source:      []rune(source),
		line:        1,
		col:         1,
		indents:     []int{0},
		atLineStart: true,
	}
}

// NextToken returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) NextToken() Token {
	tok := l.next()
	l.last = tok.Type
	if tok.Type != NEWLINE && tok.Type != INDENT && tok.Type != DEDENT && tok.Type != EOF {
		l.started = true
	}
	return tok
}

func (l *Lexer) next() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	if l.atLineStart && l.depth == 0 {
		if tok, ok := l.handleLineStart(); ok {
			return tok
		}
	}

	l.skipSpaces()

	if l.pos >= len(l.source) {
		// Terminate the last logical line, then close every open block.
		if l.started && l.last != NEWLINE && l.last != DEDENT {
			return Token{Type: NEWLINE, Lexeme: "\n", Line: l.line, Col: l.col}
		}
		if len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			return Token{Type: DEDENT, Line: l.line, Col: l.col}
		}
		return Token{Type: EOF, Line: l.line, Col: l.col}
	}

	line, col := l.line, l.col
	tok := func(typ TokenType, lexeme string) Token {
		return Token{Type: typ, Lexeme: lexeme, Line: line, Col: col}
	}

	c := l.peek()
	switch {
	case unicode.IsDigit(c) || (c == '.' && unicode.IsDigit(l.peekAt(1))):
		return l.scanNumber()
	case unicode.IsLetter(c) || c == '_':
		return l.scanIdentifier()
	case c == '"' || c == '\'':
		return l.scanString()
	}

	l.advance()
	switch c {
	case '\n':
		l.atLineStart = true
		l.line++
		l.col = 1
		return tok(NEWLINE, "\n")
	case '+':
		if l.match('=') {
			return tok(PLUSEQ, "+=")
		}
		return tok(PLUS, "+")
	case '-':
		if l.match('>') {
			return tok(ARROW, "->")
		}
		if l.match('=') {
			return tok(MINUSEQ, "-=")
		}
		return tok(MINUS, "-")
	case '*':
		if l.match('*') {
			if l.match('=') {
				return tok(DSTAREQ, "**=")
			}
			return tok(DSTAR, "**")
		}
		if l.match('=') {
			return tok(STAREQ, "*=")
		}
		return tok(STAR, "*")
	case '/':
		if l.match('/') {
			if l.match('=') {
				return tok(DSLASHEQ, "//=")
			}
			return tok(DSLASH, "//")
		}
		if l.match('=') {
			return tok(SLASHEQ, "/=")
		}
		return tok(SLASH, "/")
	case '%':
		if l.match('=') {
			return tok(PERCENTEQ, "%=")
		}
		return tok(PERCENT, "%")
	case '(':
		l.depth++
		return tok(LPAREN, "(")
	case ')':
		l.closeBracket()
		return tok(RPAREN, ")")
	case '[':
		l.depth++
		return tok(LBRACKET, "[")
	case ']':
		l.closeBracket()
		return tok(RBRACKET, "]")
	case '{':
		l.depth++
		return tok(LBRACE, "{")
	case '}':
		l.closeBracket()
		return tok(RBRACE, "}")
	case ':':
		return tok(COLON, ":")
	case ';':
		return tok(SEMICOLON, ";")
	case ',':
		return tok(COMMA, ",")
	case '.':
		return tok(DOT, ".")
	case '=':
		if l.match('=') {
			return tok(EQ, "==")
		}
		return tok(ASSIGN, "=")
	case '!':
		if l.match('=') {
			return tok(NE, "!=")
		}
	case '<':
		if l.match('=') {
			return tok(LE, "<=")
		}
		return tok(LT, "<")
	case '>':
		if l.match('=') {
			return tok(GE, ">=")
		}
		return tok(GT, ">")
	}

	return tok(ILLEGAL, fmt.Sprintf("unexpected character %q", c))
}

func (l *Lexer) closeBracket() {
	if l.depth > 0 {
		l.depth--
	}
}

// handleLineStart measures indentation of the next non-blank line and
// emits INDENT or DEDENT tokens. ok is false when the level is unchanged.
func (l *Lexer) handleLineStart() (Token, bool) {
	for {
		spaces := 0
		for l.pos < len(l.source) && (l.source[l.pos] == ' ' || l.source[l.pos] == '\t') {
			if l.source[l.pos] == '\t' {
				spaces += 4
			} else {
				spaces++
			}
			l.advance()
		}

		if l.pos >= len(l.source) {
			l.atLineStart = false
			return Token{}, false
		}

		// Blank lines and comment lines do not affect indentation.
		if c := l.peek(); c == '\n' || c == '#' || c == '\r' {
			for l.pos < len(l.source) && l.peek() != '\n' {
				l.advance()
			}
			if l.pos < len(l.source) {
				l.advance()
				l.line++
				l.col = 1
			}
			continue
		}

		l.atLineStart = false
		current := l.indents[len(l.indents)-1]
		switch {
		case spaces > current:
			l.indents = append(l.indents, spaces)
			return Token{Type: INDENT, Line: l.line, Col: 1}, true
		case spaces < current:
			for len(l.indents) > 1 && l.indents[len(l.indents)-1] > spaces {
				l.indents = l.indents[:len(l.indents)-1]
				l.pending = append(l.pending, Token{Type: DEDENT, Line: l.line, Col: 1})
			}
			if l.indents[len(l.indents)-1] != spaces {
				l.pending = append(l.pending, Token{
					Type:   ILLEGAL,
					Lexeme: "unindent does not match any outer indentation level",
					Line:   l.line,
					Col:    1,
				})
			}
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok, true
		}
		return Token{}, false
	}
}

func (l *Lexer) scanNumber() Token {
	start, line, col := l.pos, l.line, l.col
	isFloat := false

	digits := func() {
		for unicode.IsDigit(l.peek()) || (l.peek() == '_' && unicode.IsDigit(l.peekAt(1))) {
			l.advance()
		}
	}

	digits()
	if l.peek() == '.' {
		isFloat = true
		l.advance()
		digits()
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		next := l.peekAt(1)
		if unicode.IsDigit(next) || ((next == '+' || next == '-') && unicode.IsDigit(l.peekAt(2))) {
			isFloat = true
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			digits()
		}
	}

	text := strings.ReplaceAll(string(l.source[start:l.pos]), "_", "")
	typ := INT
	if isFloat {
		typ = FLOAT
	}
	return Token{Type: typ, Lexeme: text, Line: line, Col: col}
}

func (l *Lexer) scanIdentifier() Token {
	start, line, col := l.pos, l.line, l.col

	for l.pos < len(l.source) {
		c := l.source[l.pos]
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			l.advance()
		} else {
			break
		}
	}

	text := string(l.source[start:l.pos])
	typ, ok := keywords[text]
	if !ok {
		typ = NAME
	}
	return Token{Type: typ, Lexeme: text, Line: line, Col: col}
}

// scanString reads a single-line string literal. The lexeme is the decoded
// value.
func (l *Lexer) scanString() Token {
	line, col := l.line, l.col
	quote := l.advance()
	var b strings.Builder

	for {
		if l.pos >= len(l.source) || l.peek() == '\n' {
			return Token{Type: ILLEGAL, Lexeme: "unterminated string literal", Line: line, Col: col}
		}
		c := l.advance()
		if c == quote {
			break
		}
		if c != '\\' {
			b.WriteRune(c)
			continue
		}
		if l.pos >= len(l.source) {
			continue
		}
		esc := l.advance()
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteRune(esc)
		case '\n':
			l.line++
			l.col = 1
		default:
			b.WriteByte('\\')
			b.WriteRune(esc)
		}
	}

	return Token{Type: STRING, Lexeme: b.String(), Line: line, Col: col}
}

// skipSpaces skips blanks, comments and explicit line continuations, plus
// newlines while inside brackets.
func (l *Lexer) skipSpaces() {
	for l.pos < len(l.source) {
		c := l.source[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.advance()
		case c == '#':
			for l.pos < len(l.source) && l.peek() != '\n' {
				l.advance()
			}
		case c == '\\' && l.peekAt(1) == '\n':
			l.advance()
			l.advance()
			l.line++
			l.col = 1
		case c == '\n' && l.depth > 0:
			l.advance()
			l.line++
			l.col = 1
		default:
			return
		}
	}
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.source) {
		return '\x00'
	}
	return l.source[l.pos+n]
}

func (l *Lexer) advance() rune {
	c := l.source[l.pos]
	l.pos++
	l.col++
	return c
}

func (l *Lexer) match(expected rune) bool {
	if l.pos >= len(l.source) || l.source[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}
