// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import (
	"errors"
	"fmt"
	"sync"

	"github.com/retro68k/mon68/cpu"
)

// Errors returned by the registry.
var (
	ErrNotFound = errors.New("breakpoint not found")
)

// A Breakpoint is a compiled condition plus the metadata the registry
// tracks for it. The registry is the single writer of hit counts and
// flags; evaluation never mutates a breakpoint.
type Breakpoint struct {
	ID       int        // unique, monotonically assigned
	Cond     *Condition // compiled condition
	Enabled  bool       // checked only while enabled
	Once     bool       // auto-disable after the first match
	HitCount int        // number of matches so far
	Action   string     // optional Lua action run on match
}

// Text returns the breakpoint's original expression text.
func (b *Breakpoint) Text() string {
	return b.Cond.Text()
}

// Report renders a match diagnostic. The format is stable so scripted
// tests can compare it.
func (b *Breakpoint) Report(pc uint32) string {
	return fmt.Sprintf("breakpoint %d hit at $%08X (hits=%d): %s",
		b.ID, pc, b.HitCount, b.Text())
}

// Options configures a breakpoint at registration time.
type Options struct {
	Once   bool   // auto-disable after the first match
	Action string // optional Lua action run on match
}

// A Registry owns the set of active conditional breakpoints. All methods
// are serialized by an internal mutex so a front-end thread may mutate
// the set while the stepping loop runs CheckAll.
type Registry struct {
	mu     sync.Mutex
	list   []*Breakpoint // maintained in id order
	nextID int
}

// NewRegistry creates an empty breakpoint registry.
func NewRegistry() *Registry {
	return &Registry{nextID: 1}
}

// Add registers a compiled condition and returns the new breakpoint,
// which starts enabled.
func (r *Registry) Add(c *Condition, opts Options) *Breakpoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := &Breakpoint{
		ID:      r.nextID,
		Cond:    c,
		Enabled: true,
		Once:    opts.Once,
		Action:  opts.Action,
	}
	r.nextID++
	r.list = append(r.list, b)
	return b
}

// Remove deletes the breakpoint with the given id. Removing an unknown id
// returns ErrNotFound and changes nothing.
func (r *Registry) Remove(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.list {
		if b.ID == id {
			r.list = append(r.list[:i], r.list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Find returns the breakpoint with the given id, or nil.
func (r *Registry) Find(id int) *Breakpoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.list {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// List returns all breakpoints ordered by id.
func (r *Registry) List() []*Breakpoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]*Breakpoint, len(r.list))
	copy(list, r.list)
	return list
}

// Clear removes all breakpoints. Id assignment is not reset.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = nil
}

// CheckAll evaluates all enabled breakpoints, in id order, against the
// machine state. Each matching breakpoint has its hit count incremented
// and is auto-disabled if flagged once. The matched breakpoints are
// returned in id order; given identical state, identical calls produce
// identical results. The host stepping loop invokes this once per
// relevant instruction boundary.
func (r *Registry) CheckAll(st cpu.State, hist *History) []*Breakpoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Breakpoint
	for _, b := range r.list {
		if !b.Enabled {
			continue
		}
		if !b.Cond.Evaluate(st, hist) {
			continue
		}

		b.HitCount++
		if b.Once {
			b.Enabled = false
		}
		matched = append(matched, b)
	}
	return matched
}
