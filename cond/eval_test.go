// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import (
	"strings"
	"testing"

	"github.com/retro68k/mon68/cpu"
	"github.com/retro68k/mon68/sym"
)

// countingMemory wraps a memory space and counts loads, so tests can
// prove that short-circuited operands are never dereferenced.
type countingMemory struct {
	cpu.Memory
	loads int
}

func (m *countingMemory) LoadValue(addr uint32, w cpu.Width) (uint32, error) {
	m.loads++
	return m.Memory.LoadValue(addr, w)
}

func testMachine(t *testing.T, memSize int) (*cpu.Machine, *countingMemory) {
	t.Helper()

	mem := &countingMemory{Memory: cpu.NewFlatMemory(memSize)}
	return cpu.New(mem), mem
}

func evalExpr(t *testing.T, expr string, m *cpu.Machine, table *sym.Table, hist *History) bool {
	t.Helper()

	ctx := Context{Regs: m, Symbols: table, HistoryDepth: hist.Cap()}
	c, err := Compile(expr, ctx)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", expr, err)
	}
	return c.Evaluate(m, hist)
}

func TestEvaluateSymbolMemory(t *testing.T) {
	m, _ := testMachine(t, 0x10000)
	table := sym.NewTable()
	table.Read(strings.NewReader("00001000 d counter\n"))

	m.Mem.StoreValue(0x1000, cpu.Word, 5)
	if !evalExpr(t, "counter.w == 5", m, table, nil) {
		t.Error("expected match with memory word 5")
	}

	m.Mem.StoreValue(0x1000, cpu.Word, 6)
	if evalExpr(t, "counter.w == 5", m, table, nil) {
		t.Error("unexpected match with memory word 6")
	}
}

func TestEvaluateAndChain(t *testing.T) {
	m, _ := testMachine(t, 0x100)

	m.Reg.Set("d0", 15)
	m.Reg.Set("d1", 25)
	if evalExpr(t, "d0 > 10 && d1 < 20", m, nil, nil) {
		t.Error("unexpected match: AND should fail on second term")
	}

	m.Reg.Set("d1", 5)
	if !evalExpr(t, "d0 > 10 && d1 < 20", m, nil, nil) {
		t.Error("expected match with d0=15 d1=5")
	}
}

func TestEvaluateOrShortCircuit(t *testing.T) {
	// Size-zero memory: any load faults. The OR's right-hand memory
	// operand must never be dereferenced when the left side matched.
	m, mem := testMachine(t, 0)

	m.Reg.Set("a0", 0)
	if !evalExpr(t, "a0.l == 0 || [a0].b == $ff", m, nil, nil) {
		t.Error("expected match on left alternative")
	}
	if mem.loads != 0 {
		t.Errorf("short-circuited operand was dereferenced %d times", mem.loads)
	}
}

func TestEvaluateAndShortCircuit(t *testing.T) {
	m, mem := testMachine(t, 0)

	m.Reg.Set("d0", 0)
	if evalExpr(t, "d0 == 1 && [a0].b == 1", m, nil, nil) {
		t.Error("unexpected match")
	}
	if mem.loads != 0 {
		t.Errorf("short-circuited operand was dereferenced %d times", mem.loads)
	}

	// A later OR alternative is still evaluated after a failed AND
	// chain.
	m.Reg.Set("d1", 7)
	if !evalExpr(t, "d0 == 1 && [a0].b == 1 || d1 == 7", m, nil, nil) {
		t.Error("expected match on final alternative")
	}
}

func TestEvaluateAccessFaultIsFalse(t *testing.T) {
	m, _ := testMachine(t, 0x100)

	m.Reg.Set("a0", 0xffff0000)
	if evalExpr(t, "[a0].b == 0", m, nil, nil) {
		t.Error("faulting term evaluated true")
	}
	if evalExpr(t, "[a0].b == [a0].b", m, nil, nil) {
		t.Error("faulting term evaluated true")
	}

	// A fault in one alternative must not poison the others.
	m.Reg.Set("d0", 3)
	if !evalExpr(t, "[a0].b == 0 || d0 == 3", m, nil, nil) {
		t.Error("expected match despite faulting alternative")
	}
}

func TestEvaluateMask(t *testing.T) {
	m, _ := testMachine(t, 0x100)

	m.Reg.Set("d0", 0x12345678)
	if !evalExpr(t, "d0 == $345678 & $ffffff", m, nil, nil) {
		t.Error("expected match with masked comparison")
	}
	if evalExpr(t, "d0 == $345678", m, nil, nil) {
		t.Error("unexpected match without mask")
	}

	// Masking both sides up front is equivalent to the term's mask.
	vals := []uint32{0, 1, 0x80, 0xff, 0x1234, 0xffffffff}
	for _, a := range vals {
		for _, b := range vals {
			m.Reg.Set("d0", a)
			m.Reg.Set("d1", b)
			masked := evalExpr(t, "d0 < d1 & $f0f0", m, nil, nil)
			m.Reg.Set("d0", a&0xf0f0)
			m.Reg.Set("d1", b&0xf0f0)
			plain := evalExpr(t, "d0 < d1", m, nil, nil)
			if masked != plain {
				t.Errorf("mask did not distribute for a=%08X b=%08X", a, b)
			}
		}
	}
}

func TestEvaluateWidths(t *testing.T) {
	m, _ := testMachine(t, 0x100)

	// Byte width truncates before comparing.
	m.Reg.Set("d0", 0x1ff)
	if !evalExpr(t, "d0.b == $ff", m, nil, nil) {
		t.Error("expected byte-width match")
	}
	if evalExpr(t, "d0.w == $ff", m, nil, nil) {
		t.Error("unexpected word-width match")
	}

	// Comparisons are unsigned at the declared width.
	m.Reg.Set("d0", 0xffffffff)
	if !evalExpr(t, "d0 > 0", m, nil, nil) {
		t.Error("expected unsigned comparison")
	}

	// Memory reads are big-endian at the declared width.
	m.Mem.StoreValue(0x10, cpu.Long, 0x01020304)
	if !evalExpr(t, "[$10].w == $102", m, nil, nil) {
		t.Error("expected high word of long")
	}
	if !evalExpr(t, "[$12].w == $304", m, nil, nil) {
		t.Error("expected low word of long")
	}
}

func TestEvaluateDisplacement(t *testing.T) {
	m, _ := testMachine(t, 0x100)

	m.Reg.Set("a0", 0x20)
	m.Mem.StoreValue(0x24, cpu.Word, 7)
	if !evalExpr(t, "[a0+4].w == 7", m, nil, nil) {
		t.Error("expected match through displacement")
	}
}

func TestEvaluateHistory(t *testing.T) {
	m, _ := testMachine(t, 0x100)
	hist := NewHistory(4)

	record := func(d0 uint32) {
		m.Reg.Set("d0", d0)
		hist.Record(m.Reg.PC, m.Reg)
		m.Reg.PC += 2
	}
	record(10)
	record(20)
	m.Reg.Set("d0", 30)

	if !evalExpr(t, "d0@1 == 20", m, nil, hist) {
		t.Error("expected d0 one step back to be 20")
	}
	if !evalExpr(t, "d0@2 == 10", m, nil, hist) {
		t.Error("expected d0 two steps back to be 10")
	}
	if !evalExpr(t, "d0 != d0@1", m, nil, hist) {
		t.Error("expected live d0 to differ from history")
	}

	// Deeper than what has been recorded: term is false, like a fault.
	if evalExpr(t, "d0@3 == 10", m, nil, hist) {
		t.Error("unsatisfiable history reference evaluated true")
	}
}

func TestEvaluateNeverMutates(t *testing.T) {
	m, _ := testMachine(t, 0x100)
	table := sym.NewTable()
	table.Read(strings.NewReader("00000010 d flag\n"))

	ctx := Context{Regs: m, Symbols: table}
	c, err := Compile("flag.b == 1 && d0 == 2", ctx)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	before := c.String()
	m.Mem.StoreValue(0x10, cpu.Byte, 1)
	m.Reg.Set("d0", 2)
	for i := 0; i < 3; i++ {
		if !c.Evaluate(m, nil) {
			t.Fatal("expected match")
		}
	}
	if c.String() != before {
		t.Error("evaluation mutated the condition")
	}
}
