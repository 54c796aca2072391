// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import (
	"strconv"
	"strings"

	"github.com/retro68k/mon68/cpu"
	"github.com/retro68k/mon68/sym"
)

// A RegisterResolver reports whether a name identifies a register and the
// register's natural width. Matching is case-insensitive. It is implemented
// by the machine the debugger is attached to, so the parser's register set
// follows the accessor rather than being hard-coded per expression.
type RegisterResolver interface {
	RegisterWidth(name string) (cpu.Width, bool)
}

// A Context supplies the parser with everything an expression may
// reference: the register set, the symbol table, and the depth of the
// execution history ring.
type Context struct {
	Regs         RegisterResolver // register set; nil means the 68000 set
	Symbols      *sym.Table       // symbol table; nil means no symbols
	HistoryDepth int              // history ring capacity; 0 rejects history operands
}

func (ctx *Context) registerWidth(name string) (cpu.Width, bool) {
	if ctx.Regs != nil {
		return ctx.Regs.RegisterWidth(name)
	}
	return cpu.WidthOf(name)
}

func (ctx *Context) resolveSymbol(name string) (sym.Symbol, bool) {
	if ctx.Symbols == nil {
		return sym.Symbol{}, false
	}
	return ctx.Symbols.Resolve(name)
}

// Compile parses a breakpoint condition and returns its compiled form.
// Symbol references are resolved to addresses now, so reloading the symbol
// table does not retroactively change an already-compiled breakpoint.
func Compile(text string, ctx Context) (*Condition, error) {
	p := condParser{t: tstring(text), ctx: ctx}

	c, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	c.text = strings.TrimSpace(text)
	return c, nil
}

//
// condParser
//

type condParser struct {
	t   tstring
	ctx Context
}

func (p *condParser) parseCondition() (*Condition, error) {
	c := &Condition{}

	for {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		c.terms = append(c.terms, term)

		p.t = p.t.consumeWhitespace()
		if p.t.isEmpty() {
			return c, nil
		}

		switch {
		case p.t.startsWithString("&&"):
			c.conns = append(c.conns, ConnAnd)
		case p.t.startsWithString("||"):
			c.conns = append(c.conns, ConnOr)
		default:
			return nil, parseError(ErrSyntax, p.t.peekToken())
		}
		p.t = p.t.consume(2)
	}
}

// An operand annotated with the width information needed to resolve the
// enclosing term's width.
type widthedOperand struct {
	op       Operand
	width    cpu.Width
	explicit bool
}

func (p *condParser) parseTerm() (Term, error) {
	left, err := p.parseOperand()
	if err != nil {
		return Term{}, err
	}

	op, err := p.parseRelop()
	if err != nil {
		return Term{}, err
	}

	right, err := p.parseOperand()
	if err != nil {
		return Term{}, err
	}

	width, err := resolveWidth(left, right)
	if err != nil {
		return Term{}, err
	}

	term := Term{
		Left:  left.op,
		Right: right.op,
		Op:    op,
		Width: width,
	}

	// A single '&' following the term introduces a bitmask. A doubled
	// '&&' is the AND connective and belongs to the condition.
	p.t = p.t.consumeWhitespace()
	if p.t.startsWithChar('&') && !p.t.startsWithString("&&") {
		p.t = p.t.consume(1)
		p.t = p.t.consumeWhitespace()
		mask, err := p.parseNumber()
		if err != nil {
			return Term{}, err
		}
		term.Mask, term.HasMask = mask, true
	}

	return term, nil
}

func resolveWidth(left, right widthedOperand) (cpu.Width, error) {
	switch {
	case left.explicit && right.explicit:
		if left.width != right.width {
			return 0, parseError(ErrWidthMismatch,
				"."+left.width.Suffix()+" vs ."+right.width.Suffix())
		}
		return left.width, nil
	case left.explicit:
		return left.width, nil
	case right.explicit:
		return right.width, nil
	}

	// No explicit width on either side: widest natural register width
	// wins, or long when only immediates are involved.
	w := left.width
	if right.width > w {
		w = right.width
	}
	if w == 0 {
		w = cpu.Long
	}
	return w, nil
}

func (p *condParser) parseRelop() (Op, error) {
	p.t = p.t.consumeWhitespace()

	ops := []struct {
		text string
		op   Op
	}{
		{"==", OpEQ},
		{"!=", OpNE},
		{"<>", OpNE},
		{"<=", OpLE},
		{">=", OpGE},
		{"=", OpEQ},
		{"<", OpLT},
		{">", OpGT},
	}

	for _, o := range ops {
		if p.t.startsWithString(o.text) {
			p.t = p.t.consume(len(o.text))
			return o.op, nil
		}
	}
	return 0, parseError(ErrSyntax, p.t.peekToken())
}

func (p *condParser) parseOperand() (widthedOperand, error) {
	p.t = p.t.consumeWhitespace()

	switch {
	case p.t.isEmpty():
		return widthedOperand{}, parseError(ErrSyntax, "")

	case p.t.startsWithChar('['):
		return p.parseMemOperand()

	case p.t.startsWith(numberStart):
		v, err := p.parseNumber()
		if err != nil {
			return widthedOperand{}, err
		}
		return widthedOperand{op: Operand{Kind: OperandImm, Value: v}}, nil

	case p.t.startsWith(identifierStart):
		return p.parseIdentOperand()
	}

	return widthedOperand{}, parseError(ErrSyntax, p.t.peekToken())
}

// parseIdentOperand handles operands starting with an identifier: a
// register reference (optionally narrowed and/or read from history) or a
// symbol reference (an immediate address, or a memory read when a width
// suffix is attached).
func (p *condParser) parseIdentOperand() (widthedOperand, error) {
	var id tstring
	id, p.t = p.t.consumeWhile(identifier)
	name := string(id)

	if natural, ok := p.ctx.registerWidth(name); ok {
		op := Operand{Kind: OperandReg, Reg: strings.ToLower(name)}

		width, explicit, err := p.parseWidthSuffix()
		if err != nil {
			return widthedOperand{}, err
		}
		if !explicit {
			width = natural
		} else if width > natural {
			// A register cannot be read wider than it is.
			return widthedOperand{}, parseError(ErrWidthMismatch,
				name+"."+width.Suffix())
		}

		if p.t.startsWithChar('@') {
			back, err := p.parseHistoryRef(name)
			if err != nil {
				return widthedOperand{}, err
			}
			op.Back = back
		}

		return widthedOperand{op: op, width: width, explicit: explicit}, nil
	}

	if s, ok := p.ctx.resolveSymbol(name); ok {
		width, explicit, err := p.parseWidthSuffix()
		if err != nil {
			return widthedOperand{}, err
		}
		if explicit {
			// A width suffix turns the symbol into a memory read at
			// its address.
			op := Operand{Kind: OperandMem, Value: s.Addr}
			return widthedOperand{op: op, width: width, explicit: true}, nil
		}
		op := Operand{Kind: OperandImm, Value: s.Addr}
		return widthedOperand{op: op}, nil
	}

	// Only registers can carry a history reference, so an unresolved
	// identifier followed by '@' was meant to be a register.
	if p.t.startsWithChar('@') {
		return widthedOperand{}, parseError(ErrUnknownRegister, name)
	}
	return widthedOperand{}, parseError(ErrUnresolvedSymbol, name)
}

// parseMemOperand parses "[addr-expr].width". The address expression is a
// register, symbol or number, plus an optional signed displacement. The
// width suffix is mandatory; there is no implicit default.
func (p *condParser) parseMemOperand() (widthedOperand, error) {
	whole := p.t
	p.t = p.t.consume(1) // '['
	p.t = p.t.consumeWhitespace()

	op := Operand{Kind: OperandMem}

	switch {
	case p.t.isEmpty():
		return widthedOperand{}, parseError(ErrSyntax, whole.peekToken())

	case p.t.startsWith(numberStart):
		v, err := p.parseNumber()
		if err != nil {
			return widthedOperand{}, err
		}
		op.Value = v

	case p.t.startsWith(identifierStart):
		var id tstring
		id, p.t = p.t.consumeWhile(identifier)
		name := string(id)
		if _, ok := p.ctx.registerWidth(name); ok {
			op.Reg = strings.ToLower(name)
		} else if s, ok := p.ctx.resolveSymbol(name); ok {
			op.Value = s.Addr
		} else {
			return widthedOperand{}, parseError(ErrUnresolvedSymbol, name)
		}

	default:
		return widthedOperand{}, parseError(ErrSyntax, p.t.peekToken())
	}

	// Optional displacement.
	p.t = p.t.consumeWhitespace()
	if p.t.startsWithChar('+') || p.t.startsWithChar('-') {
		neg := p.t.startsWithChar('-')
		p.t = p.t.consume(1)
		p.t = p.t.consumeWhitespace()
		d, err := p.parseNumber()
		if err != nil {
			return widthedOperand{}, err
		}
		if neg {
			op.Value -= d
		} else {
			op.Value += d
		}
	}

	p.t = p.t.consumeWhitespace()
	if !p.t.startsWithChar(']') {
		return widthedOperand{}, parseError(ErrSyntax, whole.peekToken())
	}
	p.t = p.t.consume(1)

	width, explicit, err := p.parseWidthSuffix()
	if err != nil {
		return widthedOperand{}, err
	}
	if !explicit {
		n := len(whole) - len(p.t)
		return widthedOperand{}, parseError(ErrMissingWidth, string(whole.trunc(n)))
	}

	return widthedOperand{op: op, width: width, explicit: true}, nil
}

// parseWidthSuffix consumes a ".b", ".w" or ".l" suffix if present.
func (p *condParser) parseWidthSuffix() (w cpu.Width, explicit bool, err error) {
	if !p.t.startsWithChar('.') {
		return 0, false, nil
	}
	if len(p.t) < 2 {
		return 0, false, parseError(ErrSyntax, string(p.t))
	}

	switch p.t[1] {
	case 'b', 'B':
		w = cpu.Byte
	case 'w', 'W':
		w = cpu.Word
	case 'l', 'L':
		w = cpu.Long
	default:
		return 0, false, parseError(ErrSyntax, string(p.t.trunc(min(len(p.t), 2))))
	}
	if len(p.t) > 2 && identifier(p.t[2]) {
		return 0, false, parseError(ErrSyntax, p.t.peekToken())
	}

	p.t = p.t.consume(2)
	return w, true, nil
}

// parseHistoryRef consumes "@n" after a register name. History references
// are rejected outright when the history ring cannot satisfy them.
func (p *condParser) parseHistoryRef(reg string) (int, error) {
	p.t = p.t.consume(1) // '@'

	var num tstring
	num, p.t = p.t.consumeWhile(decimal)
	if num == "" {
		return 0, parseError(ErrSyntax, reg+"@")
	}

	back, err := strconv.Atoi(string(num))
	if err != nil || back < 1 {
		return 0, parseError(ErrSyntax, reg+"@"+string(num))
	}
	if back > p.ctx.HistoryDepth {
		return 0, parseError(ErrHistoryDisabled, reg+"@"+string(num))
	}
	return back, nil
}

// parseNumber parses "$hex", "0xhex" or decimal.
func (p *condParser) parseNumber() (uint32, error) {
	whole := p.t
	base, fn := 10, decimal

	switch {
	case p.t.startsWithChar('$'):
		base, fn = 16, hexadecimal
		p.t = p.t.consume(1)
	case p.t.startsWithString("0x"), p.t.startsWithString("0X"):
		base, fn = 16, hexadecimal
		p.t = p.t.consume(2)
	}

	var num tstring
	num, p.t = p.t.consumeWhile(fn)
	if num == "" {
		return 0, parseError(ErrSyntax, whole.peekToken())
	}

	v, err := strconv.ParseUint(string(num), base, 32)
	if err != nil {
		return 0, parseError(ErrSyntax, string(whole.trunc(len(whole)-len(p.t))))
	}
	return uint32(v), nil
}

//
// tstring
//

// A tstring is a string that is consumed from the front as it is parsed.
type tstring string

func (t tstring) consume(n int) tstring {
	return t[n:]
}

func (t tstring) trunc(n int) tstring {
	return t[:n]
}

func (t tstring) isEmpty() bool {
	return len(t) == 0
}

func (t tstring) startsWith(fn func(c byte) bool) bool {
	return len(t) > 0 && fn(t[0])
}

func (t tstring) startsWithChar(c byte) bool {
	return len(t) > 0 && t[0] == c
}

func (t tstring) startsWithString(s string) bool {
	return len(t) >= len(s) && string(t[:len(s)]) == s
}

func (t tstring) consumeWhitespace() tstring {
	return t.consume(t.scanWhile(whitespace))
}

func (t tstring) scanWhile(fn func(c byte) bool) int {
	i := 0
	for ; i < len(t) && fn(t[i]); i++ {
	}
	return i
}

func (t tstring) consumeWhile(fn func(c byte) bool) (consumed, remain tstring) {
	i := t.scanWhile(fn)
	return t[:i], t[i:]
}

// peekToken returns the next whitespace-delimited token for use in error
// messages.
func (t tstring) peekToken() string {
	t = t.consumeWhitespace()
	i := 0
	for ; i < len(t) && !whitespace(t[i]); i++ {
	}
	return string(t[:i])
}

//
// character classes
//

func whitespace(c byte) bool {
	return c == ' ' || c == '\t'
}

func decimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexadecimal(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func numberStart(c byte) bool {
	return c == '$' || decimal(c)
}

func identifierStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func identifier(c byte) bool {
	return identifierStart(c) || decimal(c)
}
