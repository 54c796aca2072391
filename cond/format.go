// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import (
	"fmt"

	"github.com/retro68k/mon68/cpu"
)

// String renders the term in canonical form.
func (t Term) String() string {
	s := fmt.Sprintf("%s %s %s",
		t.Left.render(t.Width), t.Op, t.Right.render(t.Width))
	if t.HasMask {
		s += fmt.Sprintf(" & $%X", t.Mask)
	}
	return s
}

func (o Operand) render(w cpu.Width) string {
	switch o.Kind {
	case OperandReg:
		s := o.Reg + "." + w.Suffix()
		if o.Back > 0 {
			s += fmt.Sprintf("@%d", o.Back)
		}
		return s

	case OperandMem:
		if o.Reg != "" {
			if d := int32(o.Value); d < 0 {
				return fmt.Sprintf("[%s-%d].%s", o.Reg, -d, w.Suffix())
			} else if d > 0 {
				return fmt.Sprintf("[%s+%d].%s", o.Reg, d, w.Suffix())
			}
			return fmt.Sprintf("[%s].%s", o.Reg, w.Suffix())
		}
		return fmt.Sprintf("[$%X].%s", o.Value, w.Suffix())

	default:
		return fmt.Sprintf("$%X", o.Value)
	}
}
