// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import "github.com/retro68k/mon68/cpu"

// Evaluate walks the condition against live machine state and reports
// whether it triggered. Terms are evaluated strictly left to right with
// short-circuit semantics: once an AND chain has failed or an OR
// alternative has succeeded, the remaining operands are not read. A
// memory read that faults makes its term false rather than propagating,
// so a condition referencing transiently invalid memory never crashes the
// debugger. Evaluation never mutates the condition.
func (c *Condition) Evaluate(st cpu.State, hist *History) bool {
	i := 0
	for i < len(c.terms) {
		// Evaluate one AND chain. After the first false term the rest
		// of the chain is skipped but still consumed.
		ok := c.terms[i].evaluate(st, hist)
		i++
		for i < len(c.terms) && c.conns[i-1] == ConnAnd {
			if ok {
				ok = c.terms[i].evaluate(st, hist)
			}
			i++
		}

		if ok {
			return true
		}
	}
	return false
}

func (t *Term) evaluate(st cpu.State, hist *History) bool {
	left, ok := t.Left.read(st, hist, t.Width)
	if !ok {
		return false
	}
	right, ok := t.Right.read(st, hist, t.Width)
	if !ok {
		return false
	}

	if t.HasMask {
		left &= t.Mask
		right &= t.Mask
	}

	// Unsigned comparison at the term's width; both sides were
	// truncated to the width on read.
	switch t.Op {
	case OpEQ:
		return left == right
	case OpNE:
		return left != right
	case OpLT:
		return left < right
	case OpLE:
		return left <= right
	case OpGT:
		return left > right
	default:
		return left >= right
	}
}

// read produces the operand's value truncated to the term width. A
// faulting memory access or an unsatisfiable history reference yields
// ok == false.
func (o *Operand) read(st cpu.State, hist *History, w cpu.Width) (v uint32, ok bool) {
	switch o.Kind {
	case OperandImm:
		v = o.Value

	case OperandReg:
		if o.Back > 0 {
			entry, found := hist.At(o.Back - 1)
			if !found {
				return 0, false
			}
			v, ok = entry.Reg.Get(o.Reg)
			if !ok {
				return 0, false
			}
			break
		}
		v, ok = st.Register(o.Reg)
		if !ok {
			return 0, false
		}

	case OperandMem:
		addr := o.Value
		if o.Reg != "" {
			base, found := st.Register(o.Reg)
			if !found {
				return 0, false
			}
			addr += base
		}
		var err error
		v, err = st.Load(addr, w)
		if err != nil {
			return 0, false
		}
	}

	return v & w.Mask(), true
}
