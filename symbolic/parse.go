// SPDX-License-Identifier: MIT

package symbolic

import (
	"fmt"
	"strconv"
	"unicode"
)

// Parse reads an infix expression.
//
// Grammar (lowest to highest precedence):
//
//	expr   := term (("+" | "-") term)*
//	term   := unary (("*" | "/") unary)*
//	unary  := ("-" | "+") unary | power
//	power  := atom (("^" | "**") unary)?      right-associative
//	atom   := number | name | name "(" expr ")" | "(" expr ")"
//
// Numbers accept decimal and scientific notation. Function names are exp,
// log (alias ln), sqrt, sin, cos, tan, tanh, abs, sign and erf; any other
// name followed by "(" is ErrUnknownFunction. Every other name is a symbol.
func Parse(src string) (Expr, error) {
	p := &parser{src: src}
	if err := p.next(); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return e, nil
}

// MustParse is Parse for expressions known at compile time; it panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokName
	tokOp
)

type token struct {
	kind tokKind
	text string
	pos  int
	num  float64
}

type parser struct {
	src string
	off int
	tok token
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.tok.pos, fmt.Sprintf(format, args...))
}

// next advances to the next token.
func (p *parser) next() error {
	for p.off < len(p.src) && unicode.IsSpace(rune(p.src[p.off])) {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return nil
	}
	c := p.src[p.off]
	switch {
	case isDigit(c) || c == '.':
		p.scanNumber()
		text := p.src[start:p.off]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.tok = token{pos: start}
			return p.errorf("bad number %q", text)
		}
		p.tok = token{kind: tokNum, text: text, pos: start, num: v}
	case isLetter(c):
		for p.off < len(p.src) && (isLetter(p.src[p.off]) || isDigit(p.src[p.off])) {
			p.off++
		}
		p.tok = token{kind: tokName, text: p.src[start:p.off], pos: start}
	case c == '*' && p.off+1 < len(p.src) && p.src[p.off+1] == '*':
		p.off += 2
		p.tok = token{kind: tokOp, text: "^", pos: start}
	case c == '+' || c == '-' || c == '*' || c == '/' || c == '^' || c == '(' || c == ')':
		p.off++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	default:
		p.tok = token{pos: start}
		return p.errorf("unexpected character %q", c)
	}
	return nil
}

func (p *parser) scanNumber() {
	for p.off < len(p.src) && (isDigit(p.src[p.off]) || p.src[p.off] == '.') {
		p.off++
	}
	if p.off < len(p.src) && (p.src[p.off] == 'e' || p.src[p.off] == 'E') {
		p.off++
		if p.off < len(p.src) && (p.src[p.off] == '+' || p.src[p.off] == '-') {
			p.off++
		}
		for p.off < len(p.src) && isDigit(p.src[p.off]) {
			p.off++
		}
	}
}

func (p *parser) isOp(op string) bool { return p.tok.kind == tokOp && p.tok.text == op }

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.tok.text
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = Neg(right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.tok.text
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			left = DivOf(left, right)
		} else {
			left = MulOf(left, right)
		}
	}
	return left, nil
}

func (p *parser) unary() (Expr, error) {
	if p.isOp("-") || p.isOp("+") {
		neg := p.tok.text == "-"
		if err := p.next(); err != nil {
			return nil, err
		}
		e, err := p.unary()
		if err != nil {
			return nil, err
		}
		if neg {
			return Neg(e), nil
		}
		return e, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.atom()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) atom() (Expr, error) {
	switch {
	case p.tok.kind == tokNum:
		v := p.tok.num
		return N(v), p.next()
	case p.tok.kind == tokName:
		name, pos := p.tok.text, p.tok.pos
		if err := p.next(); err != nil {
			return nil, err
		}
		if !p.isOp("(") {
			return S(name), nil
		}
		build, ok := functionBuilder(name)
		if !ok {
			return nil, fmt.Errorf("%w at offset %d: %q", ErrUnknownFunction, pos, name)
		}
		arg, err := p.parenthesized()
		if err != nil {
			return nil, err
		}
		return build(arg), nil
	case p.isOp("("):
		return p.parenthesized()
	case p.tok.kind == tokEOF:
		return nil, p.errorf("unexpected end of input")
	}
	return nil, p.errorf("unexpected %q", p.tok.text)
}

// parenthesized consumes "(" expr ")".
func (p *parser) parenthesized() (Expr, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.isOp(")") {
		return nil, p.errorf("missing closing parenthesis")
	}
	return e, p.next()
}

func functionBuilder(name string) (func(Expr) Expr, bool) {
	switch name {
	case "exp":
		return ExpOf, true
	case "log", "ln":
		return LogOf, true
	case "sqrt":
		return SqrtOf, true
	case "sin":
		return SinOf, true
	case "cos":
		return CosOf, true
	case "tan":
		return TanOf, true
	case "tanh":
		return TanhOf, true
	case "abs":
		return AbsOf, true
	case "sign":
		return SignOf, true
	case "erf":
		return ErfOf, true
	}
	return nil, false
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
