// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// A Width selects how many bytes a memory or register access covers.
type Width byte

// Supported access widths.
const (
	Byte Width = 1
	Word Width = 2
	Long Width = 4
)

// Suffix returns the width's one-letter operand suffix.
func (w Width) Suffix() string {
	switch w {
	case Byte:
		return "b"
	case Word:
		return "w"
	default:
		return "l"
	}
}

// Mask returns a mask covering all bits representable at the width.
func (w Width) Mask() uint32 {
	switch w {
	case Byte:
		return 0xff
	case Word:
		return 0xffff
	default:
		return 0xffffffff
	}
}

// An AccessFault is returned when a memory access targets an address
// outside valid emulated memory.
type AccessFault struct {
	Addr  uint32 // faulting address
	Width Width  // requested access width
}

func (f *AccessFault) Error() string {
	return fmt.Sprintf("access fault: %d-byte access at $%08X", f.Width, f.Addr)
}

// The Memory interface presents an interface to the debugger through which
// all memory accesses occur. Multi-byte accesses are big-endian.
type Memory interface {
	// LoadValue loads a value of the requested width from the address.
	LoadValue(addr uint32, w Width) (uint32, error)

	// StoreValue stores a value of the requested width to the address.
	StoreValue(addr uint32, w Width, v uint32) error
}

// FlatMemory represents a contiguous memory space starting at address 0.
// Accesses beyond its size fault.
type FlatMemory struct {
	b []byte
}

// NewFlatMemory creates a flat memory space of 'size' bytes.
func NewFlatMemory(size int) *FlatMemory {
	return &FlatMemory{b: make([]byte, size)}
}

// Size returns the number of bytes in the memory space.
func (m *FlatMemory) Size() int {
	return len(m.b)
}

// LoadValue loads a big-endian value of the requested width from the
// address.
func (m *FlatMemory) LoadValue(addr uint32, w Width) (uint32, error) {
	if int64(addr)+int64(w) > int64(len(m.b)) {
		return 0, &AccessFault{Addr: addr, Width: w}
	}

	var v uint32
	for i := uint32(0); i < uint32(w); i++ {
		v = v<<8 | uint32(m.b[addr+i])
	}
	return v, nil
}

// StoreValue stores a big-endian value of the requested width to the
// address.
func (m *FlatMemory) StoreValue(addr uint32, w Width, v uint32) error {
	if int64(addr)+int64(w) > int64(len(m.b)) {
		return &AccessFault{Addr: addr, Width: w}
	}

	for i := uint32(w); i > 0; i-- {
		m.b[addr+i-1] = byte(v)
		v >>= 8
	}
	return nil
}
