// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu provides the machine-state abstraction the mon68 debugger
// evaluates against: a 68000-style register file, width-tagged memory
// access with typed access faults, and a Machine that binds the two to a
// pluggable execution core. The instruction interpreter itself is supplied
// by the embedding emulator.
package cpu

import "errors"

// Errors
var (
	ErrNoCore = errors.New("no execution core attached")
)

// The State interface is the view of machine state a compiled breakpoint
// condition evaluates against. Register name matching is case-insensitive.
type State interface {
	// Register returns the value of the named register and whether the
	// name identified a register.
	Register(name string) (uint32, bool)

	// Load loads a value of the requested width from memory.
	Load(addr uint32, w Width) (uint32, error)
}

// An ExecFn executes a single instruction on the machine. It is the seam
// where an embedding emulator attaches its instruction interpreter.
type ExecFn func(m *Machine) error

// A Machine binds a register file and a memory space to an execution core.
type Machine struct {
	Reg    Registers // machine registers
	Mem    Memory    // assigned memory
	Exec   ExecFn    // instruction interpreter, supplied by the embedder
	Cycles uint64    // total executed instructions
	LastPC uint32    // previous program counter
}

// New creates a machine bound to the specified memory. No execution core
// is attached; Step fails until the embedder assigns Exec.
func New(m Memory) *Machine {
	mach := &Machine{Mem: m}
	mach.Reg.Init()
	return mach
}

// Register returns the value of the named register.
func (m *Machine) Register(name string) (uint32, bool) {
	return m.Reg.Get(name)
}

// Load loads a value of the requested width from the machine's memory.
func (m *Machine) Load(addr uint32, w Width) (uint32, error) {
	return m.Mem.LoadValue(addr, w)
}

// RegisterWidth returns the natural width of the named register and
// whether the name identified one of the machine's registers.
func (m *Machine) RegisterWidth(name string) (Width, bool) {
	return WidthOf(name)
}

// Step executes a single instruction on the attached execution core.
func (m *Machine) Step() error {
	if m.Exec == nil {
		return ErrNoCore
	}

	m.LastPC = m.Reg.PC
	if err := m.Exec(m); err != nil {
		return err
	}

	m.Cycles++
	return nil
}

// NopCore returns an execution core that performs no work beyond advancing
// the program counter by one word. It exists so the monitor can be
// exercised standalone, without an attached interpreter.
func NopCore() ExecFn {
	return func(m *Machine) error {
		m.Reg.PC += 2
		return nil
	}
}
