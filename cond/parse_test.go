// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import (
	"errors"
	"strings"
	"testing"

	"github.com/retro68k/mon68/cpu"
	"github.com/retro68k/mon68/sym"
)

func testSymbols(t *testing.T) *sym.Table {
	t.Helper()

	table := sym.NewTable()
	src := `
00000400 t start
00001000 d counter
00002000 b buffer
`
	if _, _, err := table.Read(strings.NewReader(src)); err != nil {
		t.Fatalf("symbol load failed: %v", err)
	}
	return table
}

func testContext(t *testing.T) Context {
	t.Helper()
	return Context{Symbols: testSymbols(t), HistoryDepth: 8}
}

func compileOK(t *testing.T, expr string, ctx Context) *Condition {
	t.Helper()

	c, err := Compile(expr, ctx)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", expr, err)
	}
	return c
}

func checkCompileError(t *testing.T, expr string, kind ErrorKind) {
	t.Helper()

	_, err := Compile(expr, testContext(t))
	if err == nil {
		t.Errorf("Compile(%q) succeeded, expected %s", expr, kind)
		return
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("Compile(%q) returned %T, expected *ParseError", expr, err)
		return
	}
	if perr.Kind != kind {
		t.Errorf("Compile(%q) = %s, expected %s", expr, perr.Kind, kind)
	}
}

func TestCompileBasics(t *testing.T) {
	ctx := testContext(t)

	c := compileOK(t, "d0 == 5", ctx)
	terms := c.Terms()
	if len(terms) != 1 || len(c.Conns()) != 0 {
		t.Fatalf("unexpected shape: %d terms, %d conns", len(terms), len(c.Conns()))
	}

	term := terms[0]
	if term.Left.Kind != OperandReg || term.Left.Reg != "d0" {
		t.Errorf("unexpected left operand: %+v", term.Left)
	}
	if term.Right.Kind != OperandImm || term.Right.Value != 5 {
		t.Errorf("unexpected right operand: %+v", term.Right)
	}
	if term.Op != OpEQ || term.Width != cpu.Long {
		t.Errorf("unexpected op/width: %v %v", term.Op, term.Width)
	}
}

func TestCompileConnectives(t *testing.T) {
	c := compileOK(t, "d0 > 10 && d1 < 20 || sr == 0", testContext(t))

	if len(c.Terms()) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(c.Terms()))
	}
	conns := c.Conns()
	if len(conns) != 2 || conns[0] != ConnAnd || conns[1] != ConnOr {
		t.Fatalf("unexpected connectives: %v", conns)
	}
}

func TestCompileWidths(t *testing.T) {
	ctx := testContext(t)

	// A suffixed symbol is a memory read at the symbol's address.
	c := compileOK(t, "counter.w == 5", ctx)
	term := c.Terms()[0]
	if term.Left.Kind != OperandMem || term.Left.Value != 0x1000 {
		t.Errorf("unexpected left operand: %+v", term.Left)
	}
	if term.Width != cpu.Word {
		t.Errorf("term width = %v, expected word", term.Width)
	}

	// A bare symbol is an immediate equal to its address.
	c = compileOK(t, "a0 == counter", ctx)
	term = c.Terms()[0]
	if term.Right.Kind != OperandImm || term.Right.Value != 0x1000 {
		t.Errorf("unexpected right operand: %+v", term.Right)
	}

	// The status register is naturally word-wide.
	c = compileOK(t, "sr == 0", ctx)
	if c.Terms()[0].Width != cpu.Word {
		t.Errorf("sr term width = %v, expected word", c.Terms()[0].Width)
	}

	// A register suffix narrows the comparison.
	c = compileOK(t, "d0.b == $ff", ctx)
	if c.Terms()[0].Width != cpu.Byte {
		t.Errorf("d0.b term width = %v, expected byte", c.Terms()[0].Width)
	}
}

func TestCompileMemOperands(t *testing.T) {
	ctx := testContext(t)

	c := compileOK(t, "[a0].b == $ff", ctx)
	term := c.Terms()[0]
	if term.Left.Kind != OperandMem || term.Left.Reg != "a0" || term.Left.Value != 0 {
		t.Errorf("unexpected operand: %+v", term.Left)
	}

	c = compileOK(t, "[a0+4].w == 1", ctx)
	if got := c.Terms()[0].Left; got.Reg != "a0" || got.Value != 4 {
		t.Errorf("unexpected operand: %+v", got)
	}

	c = compileOK(t, "[buffer-2].l == 0", ctx)
	if got := c.Terms()[0].Left; got.Reg != "" || got.Value != 0x1ffe {
		t.Errorf("unexpected operand: %+v", got)
	}

	c = compileOK(t, "[$1000].w == 5", ctx)
	if got := c.Terms()[0].Left; got.Value != 0x1000 {
		t.Errorf("unexpected operand: %+v", got)
	}
}

func TestCompileMask(t *testing.T) {
	c := compileOK(t, "d0 == 5 & $ff", testContext(t))
	term := c.Terms()[0]
	if !term.HasMask || term.Mask != 0xff {
		t.Errorf("unexpected mask: %+v", term)
	}

	// A doubled ampersand is the AND connective, not a mask.
	c = compileOK(t, "d0 == 5 && d1 == 6", testContext(t))
	if c.Terms()[0].HasMask {
		t.Error("mask parsed from && connective")
	}
}

func TestCompileOperatorAliases(t *testing.T) {
	ctx := testContext(t)

	a := compileOK(t, "d0 = 5 && d1 <> 6", ctx)
	b := compileOK(t, "d0 == 5 && d1 != 6", ctx)
	if !a.Equal(b) {
		t.Error("operator aliases produced different conditions")
	}
}

func TestCompileErrors(t *testing.T) {
	checkCompileError(t, "", ErrSyntax)
	checkCompileError(t, "d0", ErrSyntax)
	checkCompileError(t, "d0 ==", ErrSyntax)
	checkCompileError(t, "== 5", ErrSyntax)
	checkCompileError(t, "d0 5", ErrSyntax)
	checkCompileError(t, "d0 == 5 &&", ErrSyntax)
	checkCompileError(t, "d0 == 5 xx d1 == 6", ErrSyntax)
	checkCompileError(t, "d0 == 5 & ", ErrSyntax)
	checkCompileError(t, "d0@0 == 5", ErrSyntax)

	// Memory operands require an explicit width; no silent default.
	checkCompileError(t, "[1000] == 5", ErrMissingWidth)
	checkCompileError(t, "[a0] == 5", ErrMissingWidth)

	checkCompileError(t, "d0.w == [0].l", ErrWidthMismatch)
	checkCompileError(t, "[0].b == [0].w", ErrWidthMismatch)
	checkCompileError(t, "sr.l == 1", ErrWidthMismatch)

	checkCompileError(t, "bogus == 1", ErrUnresolvedSymbol)
	checkCompileError(t, "[bogus].w == 1", ErrUnresolvedSymbol)
	checkCompileError(t, "bogus@1 == 1", ErrUnknownRegister)
}

func TestCompileMissingWidthToken(t *testing.T) {
	_, err := Compile("[1000] == 5", testContext(t))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Token != "[1000]" {
		t.Errorf("error token = %q, expected \"[1000]\"", perr.Token)
	}
}

func TestCompileHistory(t *testing.T) {
	ctx := testContext(t)

	c := compileOK(t, "d0@2 == d0", ctx)
	if !c.NeedsHistory() {
		t.Error("NeedsHistory = false for history operand")
	}
	if c.Terms()[0].Left.Back != 2 {
		t.Errorf("history distance = %d, expected 2", c.Terms()[0].Left.Back)
	}

	// History depth 0 disables history operands entirely.
	ctx.HistoryDepth = 0
	if _, err := Compile("d0@1 == 5", ctx); err == nil {
		t.Error("history operand compiled with depth 0")
	}

	// References deeper than the ring can never be satisfied.
	ctx.HistoryDepth = 4
	checkHistoryErr := func(expr string) {
		_, err := Compile(expr, ctx)
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Kind != ErrHistoryDisabled {
			t.Errorf("Compile(%q) = %v, expected history error", expr, err)
		}
	}
	checkHistoryErr("d0@5 == 5")
	checkHistoryErr("pc@9 == 5")
}

func TestCompileWhitespaceInsensitive(t *testing.T) {
	ctx := testContext(t)

	a := compileOK(t, "d0==5&&[a0+4].w<$10", ctx)
	b := compileOK(t, "  d0 == 5  &&  [ a0 + 4 ].w < $10  ", ctx)
	if !a.Equal(b) {
		t.Error("whitespace changed compiled condition")
	}
}

func TestCompileRoundTrip(t *testing.T) {
	ctx := testContext(t)

	exprs := []string{
		"d0 == 5",
		"counter.w == 5",
		"d0 > 10 && d1 < 20",
		"a0.l == 0 || [a0].b == $ff",
		"sr == 4 & $ff && pc >= start",
		"d0@1 != d0",
	}

	for _, expr := range exprs {
		a := compileOK(t, expr, ctx)
		b := compileOK(t, a.Text(), ctx)
		if !a.Equal(b) {
			t.Errorf("round trip of %q not structurally equal", expr)
		}
	}
}

func TestCompileDeterministic(t *testing.T) {
	ctx := testContext(t)

	a := compileOK(t, "d0 == 5 && [buffer].w > 3 || sr == 0", ctx)
	b := compileOK(t, "d0 == 5 && [buffer].w > 3 || sr == 0", ctx)
	if !a.Equal(b) {
		t.Error("compiling the same text twice produced different conditions")
	}
}

func TestCompileSymbolResolutionIsImmediate(t *testing.T) {
	table := testSymbols(t)
	ctx := Context{Symbols: table}

	c := compileOK(t, "counter.w == 5", ctx)

	// Reloading the symbol table must not retarget the compiled
	// condition.
	_, _, err := table.Read(strings.NewReader("00009000 d counter\n"))
	if err != nil {
		t.Fatalf("symbol reload failed: %v", err)
	}
	if got := c.Terms()[0].Left.Value; got != 0x1000 {
		t.Errorf("compiled address = $%X, expected $1000", got)
	}
}
