// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cond implements mon68's conditional-breakpoint engine: a parser
// that compiles textual breakpoint conditions, an evaluator that checks
// them against live machine state, a bounded history of recent execution,
// and a registry of active breakpoints driven by the stepping loop.
package cond

import (
	"strings"

	"github.com/retro68k/mon68/cpu"
)

// An Op is a relational operator applied between two operands.
type Op byte

// Relational operators.
const (
	OpEQ Op = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
)

func (op Op) String() string {
	switch op {
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	default:
		return ">="
	}
}

// A Conn is a boolean connective joining adjacent comparison terms. AND
// binds tighter than OR.
type Conn byte

// Boolean connectives.
const (
	ConnAnd Conn = iota
	ConnOr
)

func (c Conn) String() string {
	if c == ConnAnd {
		return "&&"
	}
	return "||"
}

// An OperandKind selects one variant of the Operand tagged union.
type OperandKind byte

// Operand variants.
const (
	// OperandImm is an immediate value, including a bare symbol name
	// resolved to its address at compile time.
	OperandImm OperandKind = iota

	// OperandReg is a register read, optionally from history.
	OperandReg

	// OperandMem is a memory read at an explicit width. The effective
	// address is either absolute or register-relative.
	OperandMem
)

// An Operand is one side of a comparison term.
type Operand struct {
	Kind OperandKind

	// Value holds the immediate value, the absolute address of a memory
	// operand, or the displacement added to a register-relative address.
	Value uint32

	// Reg is the canonical lowercase register name for register operands
	// and for register-relative memory operands. Empty for absolute
	// memory operands and immediates.
	Reg string

	// Back is the history distance for register operands: 0 reads live
	// state, n >= 1 reads the register as it was n instruction
	// boundaries ago.
	Back int
}

// A Term compares two operands at a single width. The optional mask is
// applied to both sides with bitwise AND before the comparison.
type Term struct {
	Left    Operand
	Right   Operand
	Op      Op
	Width   cpu.Width
	Mask    uint32
	HasMask bool
}

// A Condition is an immutable compiled breakpoint expression: an ordered
// sequence of comparison terms joined by boolean connectives. Re-parsing
// the source text produces a new Condition.
type Condition struct {
	terms []Term
	conns []Conn // conns[i] joins terms[i] and terms[i+1]
	text  string
}

// Text returns the original expression text the condition was compiled
// from.
func (c *Condition) Text() string {
	return c.text
}

// Terms returns the condition's compiled comparison terms in evaluation
// order.
func (c *Condition) Terms() []Term {
	return c.terms
}

// Conns returns the boolean connectives joining adjacent terms.
func (c *Condition) Conns() []Conn {
	return c.conns
}

// Equal reports whether two conditions are structurally equivalent: the
// same term sequence joined by the same connectives. Source text is not
// compared.
func (c *Condition) Equal(other *Condition) bool {
	if len(c.terms) != len(other.terms) || len(c.conns) != len(other.conns) {
		return false
	}
	for i := range c.terms {
		if c.terms[i] != other.terms[i] {
			return false
		}
	}
	for i := range c.conns {
		if c.conns[i] != other.conns[i] {
			return false
		}
	}
	return true
}

// NeedsHistory reports whether any operand reads past machine state.
func (c *Condition) NeedsHistory() bool {
	for _, t := range c.terms {
		if t.Left.Back > 0 || t.Right.Back > 0 {
			return true
		}
	}
	return false
}

// String renders the condition in canonical form, one term at a time.
// The original source text is preserved separately by Text.
func (c *Condition) String() string {
	var sb strings.Builder
	for i, t := range c.terms {
		if i > 0 {
			sb.WriteString(" " + c.conns[i-1].String() + " ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}
