// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sym implements the debugger's symbol table. Symbol sources use a
// one-symbol-per-line textual format resembling nm output:
//
//	00001000 t start
//	00001040 d counter     ; loop counter
//	00002000 b buffer
//
// Each line holds a hexadecimal address, a kind letter (t=code, d=data,
// b=bss, a=absolute), and a name. Blank lines and comments introduced by
// ';' or '#' are ignored. Malformed lines are skipped, not fatal.
package sym

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
)

// A Kind classifies the section a symbol belongs to.
type Kind byte

// Symbol kinds.
const (
	Code Kind = iota
	Data
	BSS
	Absolute
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case Data:
		return "data"
	case BSS:
		return "bss"
	default:
		return "abs"
	}
}

// A Symbol binds a name to an address. Symbols are immutable once loaded.
type Symbol struct {
	Name string // symbol name, unique within a table
	Addr uint32 // target address
	Kind Kind   // section classification
}

// A Table maps names to symbols. Lookups are case-sensitive.
type Table struct {
	syms map[string]Symbol
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{syms: make(map[string]Symbol)}
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int {
	return len(t.syms)
}

// Resolve looks up a symbol by name. The lookup is case-sensitive, and an
// unknown name is not an error; the second return value reports whether
// the symbol exists.
func (t *Table) Resolve(name string) (Symbol, bool) {
	s, ok := t.syms[name]
	return s, ok
}

// List returns all symbols ordered by address, then name.
func (t *Table) List() []Symbol {
	list := make([]Symbol, 0, len(t.syms))
	for _, s := range t.syms {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Addr != list[j].Addr {
			return list[i].Addr < list[j].Addr
		}
		return list[i].Name < list[j].Name
	})
	return list
}

// Clear removes all symbols from the table.
func (t *Table) Clear() {
	t.syms = make(map[string]Symbol)
}

// Read replaces the table's contents with symbols read from 'r'. It
// returns the number of symbols loaded and the number of malformed lines
// skipped. The previous contents are discarded even if no line parses; a
// table with zero valid entries is not an error.
func (t *Table) Read(r io.Reader) (loaded, skipped int, err error) {
	syms := make(map[string]Symbol)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		// Strip trailing comments.
		if i := strings.IndexAny(line, ";#"); i >= 0 {
			line = line[:i]
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		s, ok := parseSymbol(fields)
		if !ok {
			skipped++
			continue
		}
		if _, dup := syms[s.Name]; dup {
			skipped++
			continue
		}
		syms[s.Name] = s
	}

	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}

	t.syms = syms
	return len(syms), skipped, nil
}

func parseSymbol(fields []string) (Symbol, bool) {
	if len(fields) != 3 {
		return Symbol{}, false
	}

	addr, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "$"), 16, 32)
	if err != nil {
		return Symbol{}, false
	}

	var kind Kind
	switch strings.ToLower(fields[1]) {
	case "t":
		kind = Code
	case "d":
		kind = Data
	case "b":
		kind = BSS
	case "a":
		kind = Absolute
	default:
		return Symbol{}, false
	}

	name := fields[2]
	if !validName(name) {
		return Symbol{}, false
	}

	return Symbol{Name: name, Addr: uint32(addr), Kind: kind}, true
}

func validName(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_'
		if !ok {
			return false
		}
	}
	return true
}
