// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "strings"

// Registers contains the state of all 68000 registers.
type Registers struct {
	D  [8]uint32 // data registers
	A  [8]uint32 // address registers (A7 doubles as the stack pointer)
	PC uint32    // program counter
	SR uint16    // status register
}

// Canonical register names, in display order. "sp" is an alias for "a7"
// and is not listed.
var registerNames = []string{
	"d0", "d1", "d2", "d3", "d4", "d5", "d6", "d7",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"pc", "sr",
}

// RegisterNames returns the canonical names of all registers, in display
// order.
func RegisterNames() []string {
	return registerNames
}

// Init initializes all registers to zero.
func (r *Registers) Init() {
	*r = Registers{}
}

// Get returns the value of the named register. Names are matched
// case-insensitively. The second return value reports whether the name
// identified a register.
func (r *Registers) Get(name string) (uint32, bool) {
	name = strings.ToLower(name)

	if len(name) == 2 && name[1] >= '0' && name[1] <= '7' {
		i := int(name[1] - '0')
		switch name[0] {
		case 'd':
			return r.D[i], true
		case 'a':
			return r.A[i], true
		}
	}

	switch name {
	case "pc":
		return r.PC, true
	case "sp":
		return r.A[7], true
	case "sr":
		return uint32(r.SR), true
	}
	return 0, false
}

// Set assigns a value to the named register and reports whether the name
// identified a register. Values wider than the register are truncated.
func (r *Registers) Set(name string, v uint32) bool {
	name = strings.ToLower(name)

	if len(name) == 2 && name[1] >= '0' && name[1] <= '7' {
		i := int(name[1] - '0')
		switch name[0] {
		case 'd':
			r.D[i] = v
			return true
		case 'a':
			r.A[i] = v
			return true
		}
	}

	switch name {
	case "pc":
		r.PC = v
	case "sp":
		r.A[7] = v
	case "sr":
		r.SR = uint16(v)
	default:
		return false
	}
	return true
}

// WidthOf returns the natural width of the named register: word for the
// status register, long for everything else. The second return value
// reports whether the name identified a register.
func WidthOf(name string) (Width, bool) {
	name = strings.ToLower(name)
	if name == "sr" {
		return Word, true
	}
	var r Registers
	if _, ok := r.Get(name); ok {
		return Long, true
	}
	return 0, false
}
