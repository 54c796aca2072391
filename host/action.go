// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/retro68k/mon68/cond"
	"github.com/retro68k/mon68/cpu"
)

// runAction executes a breakpoint's Lua action. Register values and the
// breakpoint's hit count are exposed as globals, and print is redirected
// to the monitor's output writer. Action errors are reported but never
// stop the run loop.
func (h *Host) runAction(b *cond.Breakpoint) {
	L := lua.NewState()
	defer L.Close()

	for _, name := range cpu.RegisterNames() {
		v, _ := h.mach.Reg.Get(name)
		L.SetGlobal(name, lua.LNumber(v))
	}
	L.SetGlobal("hits", lua.LNumber(b.HitCount))

	L.SetGlobal("print", L.NewFunction(func(l *lua.LState) int {
		parts := make([]string, l.GetTop())
		for i := 1; i <= l.GetTop(); i++ {
			parts[i-1] = l.Get(i).String()
		}
		h.println(strings.Join(parts, "\t"))
		return 0
	}))

	if err := L.DoString(b.Action); err != nil {
		h.printf("Breakpoint %d action error: %v\n", b.ID, err)
	}
}
