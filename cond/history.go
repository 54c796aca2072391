// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import "github.com/retro68k/mon68/cpu"

// A HistoryEntry records the machine state at one instruction boundary.
type HistoryEntry struct {
	PC  uint32        // program counter at the boundary
	Seq uint64        // monotonically increasing sequence index
	Reg cpu.Registers // full register snapshot
}

// A History is a fixed-capacity ring of recent execution records, written
// once per instruction by the stepping loop and read by evaluators and
// post-mortem reporting. Once full, the oldest slot is overwritten.
type History struct {
	entries []HistoryEntry
	head    int // index of the next slot to write
	count   int
	seq     uint64
}

// NewHistory creates a history ring with the given capacity. A capacity
// of 0 disables history-dependent conditions.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{entries: make([]HistoryEntry, capacity)}
}

// Cap returns the ring's fixed capacity.
func (h *History) Cap() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Len returns the number of entries currently recorded.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return h.count
}

// Record appends an execution record, overwriting the oldest slot when
// the ring is full.
func (h *History) Record(pc uint32, reg cpu.Registers) {
	if len(h.entries) == 0 {
		return
	}

	h.entries[h.head] = HistoryEntry{PC: pc, Seq: h.seq, Reg: reg}
	h.seq++
	h.head = (h.head + 1) % len(h.entries)
	if h.count < len(h.entries) {
		h.count++
	}
}

// At returns the entry 'back' steps from the newest: At(0) is the most
// recently recorded entry. The second return value reports whether such
// an entry exists.
func (h *History) At(back int) (HistoryEntry, bool) {
	if h == nil || back < 0 || back >= h.count {
		return HistoryEntry{}, false
	}

	i := h.head - 1 - back
	if i < 0 {
		i += len(h.entries)
	}
	return h.entries[i], true
}
