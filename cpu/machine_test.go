// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"testing"
)

func TestMachineStepNoCore(t *testing.T) {
	m := New(NewFlatMemory(0x100))

	if err := m.Step(); !errors.Is(err, ErrNoCore) {
		t.Errorf("Step = %v, expected ErrNoCore", err)
	}
	if m.Cycles != 0 {
		t.Errorf("cycles = %d, expected 0", m.Cycles)
	}
}

func TestMachineNopCore(t *testing.T) {
	m := New(NewFlatMemory(0x100))
	m.Exec = NopCore()
	m.Reg.PC = 0x400

	for i := 0; i < 3; i++ {
		if err := m.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}

	if m.Reg.PC != 0x406 {
		t.Errorf("pc = $%X, expected $406", m.Reg.PC)
	}
	if m.LastPC != 0x404 {
		t.Errorf("last pc = $%X, expected $404", m.LastPC)
	}
	if m.Cycles != 3 {
		t.Errorf("cycles = %d, expected 3", m.Cycles)
	}
}

func TestMachineStepExecError(t *testing.T) {
	m := New(NewFlatMemory(0x100))

	fail := errors.New("bus error")
	m.Exec = func(m *Machine) error { return fail }

	if err := m.Step(); !errors.Is(err, fail) {
		t.Errorf("Step = %v, expected exec error", err)
	}
	if m.Cycles != 0 {
		t.Errorf("cycles advanced on failed step: %d", m.Cycles)
	}
}

func TestMachineStateInterface(t *testing.T) {
	m := New(NewFlatMemory(0x100))

	var st State = m
	m.Reg.Set("d2", 99)
	if v, ok := st.Register("d2"); !ok || v != 99 {
		t.Errorf("Register(d2) = %d,%v, expected 99", v, ok)
	}

	m.Mem.StoreValue(0x20, Word, 0xbeef)
	if v, err := st.Load(0x20, Word); err != nil || v != 0xbeef {
		t.Errorf("Load = $%X,%v, expected $BEEF", v, err)
	}
}
