// Copyright 2026 The mon68 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements the mon68 monitor: an interactive debugger
// front end over the conditional-breakpoint engine. Within the host it is
// possible to load symbol tables, set conditional breakpoints on register
// and memory state, dump and modify memory, manipulate registers, and
// step or run the attached execution core.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/cmd"

	"github.com/retro68k/mon68/cond"
	"github.com/retro68k/mon68/cpu"
	"github.com/retro68k/mon68/sym"
)

var cmds *cmd.Tree

func init() {
	// Create a command tree, where the parameter stored with each command
	// is a host callback capable of handling the command.
	cmds = cmd.NewTree("mon68")

	cmds.AddCommand(cmd.Command{
		Name: "help",
		Data: (*Host).cmdHelp,
	})

	breakpointTree := cmd.NewTree("Breakpoint")
	breakpointTree.AddCommand(cmd.Command{
		Name:        "list",
		Brief:       "List breakpoints",
		Description: "List all current conditional breakpoints.",
		Usage:       "breakpoint list",
		Data:        (*Host).cmdBreakpointList,
	})
	breakpointTree.AddCommand(cmd.Command{
		Name:  "add",
		Brief: "Add a conditional breakpoint",
		Description: "Compile a breakpoint condition and add it to the" +
			" registry. The condition compares registers, immediates and" +
			" memory operands with =, !=, <, <=, > and >=, joined by &&" +
			" and ||. Memory operands require a width suffix, e.g." +
			" [a0].b or counter.w. The breakpoint starts enabled.",
		Usage: "breakpoint add <condition>",
		Data:  (*Host).cmdBreakpointAdd,
	})
	breakpointTree.AddCommand(cmd.Command{
		Name:  "once",
		Brief: "Add a one-shot breakpoint",
		Description: "Add a conditional breakpoint that disables itself" +
			" after its first match.",
		Usage: "breakpoint once <condition>",
		Data:  (*Host).cmdBreakpointOnce,
	})
	breakpointTree.AddCommand(cmd.Command{
		Name:  "action",
		Brief: "Attach a Lua action to a breakpoint",
		Description: "Attach a Lua chunk to a breakpoint. When the" +
			" breakpoint matches, the action runs with register values" +
			" exposed as globals and execution continues instead of" +
			" halting. An empty action detaches.",
		Usage: "breakpoint action <id> [<lua>]",
		Data:  (*Host).cmdBreakpointAction,
	})
	breakpointTree.AddCommand(cmd.Command{
		Name:        "remove",
		Brief:       "Remove a breakpoint",
		Description: "Remove the breakpoint with the specified id.",
		Usage:       "breakpoint remove <id>",
		Data:        (*Host).cmdBreakpointRemove,
	})
	breakpointTree.AddCommand(cmd.Command{
		Name:        "enable",
		Brief:       "Enable a breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "breakpoint enable <id>",
		Data:        (*Host).cmdBreakpointEnable,
	})
	breakpointTree.AddCommand(cmd.Command{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being checked while the" +
			" machine is running.",
		Usage: "breakpoint disable <id>",
		Data:  (*Host).cmdBreakpointDisable,
	})
	cmds.AddCommand(cmd.Command{
		Name:    "breakpoint",
		Brief:   "Breakpoint commands",
		Subtree: breakpointTree,
	})

	symbolsTree := cmd.NewTree("Symbols")
	symbolsTree.AddCommand(cmd.Command{
		Name:  "load",
		Brief: "Load a symbol table",
		Description: "Load a symbol table from a file, replacing the" +
			" current table. Each line holds a hexadecimal address, a" +
			" kind letter (t, d, b or a) and a name. Comments and blank" +
			" lines are ignored; malformed lines are skipped.",
		Usage: "symbols load <filename>",
		Data:  (*Host).cmdSymbolsLoad,
	})
	symbolsTree.AddCommand(cmd.Command{
		Name:        "list",
		Brief:       "List loaded symbols",
		Description: "List all loaded symbols ordered by address.",
		Usage:       "symbols list",
		Data:        (*Host).cmdSymbolsList,
	})
	symbolsTree.AddCommand(cmd.Command{
		Name:        "clear",
		Brief:       "Clear the symbol table",
		Description: "Remove all symbols from the current table.",
		Usage:       "symbols clear",
		Data:        (*Host).cmdSymbolsClear,
	})
	cmds.AddCommand(cmd.Command{
		Name:    "symbols",
		Brief:   "Symbol table commands",
		Subtree: symbolsTree,
	})

	memoryTree := cmd.NewTree("Memory")
	memoryTree.AddCommand(cmd.Command{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option.",
		Usage: "memory dump <address> [<bytes>]",
		Data:  (*Host).cmdMemoryDump,
	})
	memoryTree.AddCommand(cmd.Command{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of memory starting from the" +
			" specified address. The values to assign should be a series" +
			" of space-separated byte values.",
		Usage: "memory set <address> <byte> [<byte> ...]",
		Data:  (*Host).cmdMemorySet,
	})
	cmds.AddCommand(cmd.Command{
		Name:    "memory",
		Brief:   "Memory commands",
		Subtree: memoryTree,
	})

	cmds.AddCommand(cmd.Command{
		Name:  "register",
		Brief: "View or change register values",
		Description: "When used without arguments, this command displays the" +
			" current contents of all machine registers. When used with" +
			" arguments, it changes the value of a register. Allowed names" +
			" are d0-d7, a0-a7, sp, pc and sr.",
		Usage: "register [<name> <value>]",
		Data:  (*Host).cmdRegister,
	})
	cmds.AddCommand(cmd.Command{
		Name:  "test",
		Brief: "Evaluate a breakpoint condition once",
		Description: "Compile a breakpoint condition and evaluate it against" +
			" the current machine state, printing true or false. The condition" +
			" is not added to the registry.",
		Usage: "test <condition>",
		Data:  (*Host).cmdTest,
	})
	cmds.AddCommand(cmd.Command{
		Name:  "run",
		Brief: "Run the machine",
		Description: "Run the attached execution core until a breakpoint" +
			" matches or the user types Ctrl-C.",
		Usage: "run",
		Data:  (*Host).cmdRun,
	})
	cmds.AddCommand(cmd.Command{
		Name:  "step",
		Brief: "Step the machine",
		Description: "Step the attached execution core by a single" +
			" instruction. The number of steps may be specified as an option.",
		Usage: "step [<count>]",
		Data:  (*Host).cmdStep,
	})
	cmds.AddCommand(cmd.Command{
		Name:  "history",
		Brief: "Display recent execution history",
		Description: "Display the most recent entries in the execution" +
			" history ring: sequence index and program counter, rendered" +
			" through the symbol table when possible.",
		Usage: "history [<count>]",
		Data:  (*Host).cmdHistory,
	})
	cmds.AddCommand(cmd.Command{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. Type the set" +
			" command without a variable name or value to display the current" +
			" values of all configuration variables.",
		Usage: "set <var> <value>",
		Data:  (*Host).cmdSet,
	})
	cmds.AddCommand(cmd.Command{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})

	// Command shortcuts
	cmds.AddShortcut("?", "help")
	cmds.AddShortcut("b", "breakpoint")
	cmds.AddShortcut("sym", "symbols")
	cmds.AddShortcut("r", "register")
	cmds.AddShortcut("s", "step")

	// Aliases for nested commands
	cmds.AddShortcut("ba", "breakpoint add")
	cmds.AddShortcut("bo", "breakpoint once")
	cmds.AddShortcut("br", "breakpoint remove")
	cmds.AddShortcut("bl", "breakpoint list")
	cmds.AddShortcut("be", "breakpoint enable")
	cmds.AddShortcut("bd", "breakpoint disable")
	cmds.AddShortcut("m", "memory dump")
	cmds.AddShortcut("ms", "memory set")
	cmds.AddShortcut("sl", "symbols load")
	cmds.AddShortcut("t", "test")
}

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
)

// Default sizes for the host's machine and history ring.
const (
	defaultMemSize      = 16 * 1024 * 1024
	defaultHistoryDepth = 64
)

// A Host represents a monitor session: an attached machine, a symbol
// table, a breakpoint registry and an execution history ring.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mach        *cpu.Machine
	symbols     *sym.Table
	breakpoints *cond.Registry
	history     *cond.History
	lastCmd     *cmd.Selection
	state       state
	settings    *settings
}

// New creates a new monitor host with a 16MB machine and a no-op
// execution core. Embedders attach a real instruction interpreter through
// Machine().Exec.
func New() *Host {
	h := &Host{
		state:       stateProcessingCommands,
		symbols:     sym.NewTable(),
		breakpoints: cond.NewRegistry(),
		history:     cond.NewHistory(defaultHistoryDepth),
		settings:    newSettings(),
	}

	h.mach = cpu.New(cpu.NewFlatMemory(defaultMemSize))
	h.mach.Exec = cpu.NopCore()
	return h
}

// Machine returns the host's machine so an embedder can attach an
// execution core or seed memory.
func (h *Host) Machine() *cpu.Machine {
	return h.mach
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed
// while the host waits for the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
		h.displayPC()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(func(*Host, cmd.Selection) error)
		err = handler(h, c)
		if err != nil {
			break
		}
	}

	h.flush()
}

// Break interrupts a running machine.
func (h *Host) Break() {
	h.println()

	if h.state == stateRunning {
		h.displayPC()
	}
	if h.state == stateProcessingCommands {
		h.prompt()
	}
	h.state = stateProcessingCommands
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		r := &h.mach.Reg
		h.printf("PC=%08X SR=%04X%s\n", r.PC, r.SR, h.annotatePC(r.PC))
	}
}

// annotatePC renders the program counter through the symbol table when a
// code symbol covers it.
func (h *Host) annotatePC(pc uint32) string {
	name, offset, ok := nearestSymbol(h.symbols, pc)
	if !ok {
		return ""
	}
	if offset == 0 {
		return "  ; " + name
	}
	return fmt.Sprintf("  ; %s+%d", name, offset)
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	switch {
	case len(c.Args) == 0:
		h.displayCommands(cmds)
	default:
		s, err := cmds.Lookup(strings.Join(c.Args, " "))
		if err != nil {
			h.printf("%v\n", err)
		} else {
			switch {
			case s.Command.Subtree != nil:
				h.displayCommands(s.Command.Subtree)
			default:
				if s.Command.Usage != "" {
					h.printf("Syntax: %s\n\n", s.Command.Usage)
				}
				switch {
				case s.Command.Description != "":
					h.printf("Description:\n%s\n\n", indentWrap(3, s.Command.Description))
				case s.Command.Brief != "":
					h.printf("Description:\n%s.\n\n", indentWrap(3, s.Command.Brief))
				}
			}
		}
	}
	return nil
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Id   Enabled Once Hits  Condition")
	h.println("---- ------- ---- ----- ---------")
	for _, b := range h.breakpoints.List() {
		h.printf("%-4d %-7v %-4v %-5d %s\n",
			b.ID, b.Enabled, b.Once, b.HitCount, b.Text())
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	return h.addBreakpoint(c, cond.Options{})
}

func (h *Host) cmdBreakpointOnce(c cmd.Selection) error {
	return h.addBreakpoint(c, cond.Options{Once: true})
}

func (h *Host) addBreakpoint(c cmd.Selection, opts cond.Options) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	text := strings.Join(c.Args, " ")
	compiled, err := cond.Compile(text, h.compileContext())
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.breakpoints.Add(compiled, opts)
	h.printf("Breakpoint %d added: %s\n", b.ID, b.Text())
	return nil
}

func (h *Host) cmdBreakpointAction(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	b, ok := h.findBreakpoint(c.Args[0])
	if !ok {
		return nil
	}

	b.Action = strings.Join(c.Args[1:], " ")
	if b.Action == "" {
		h.printf("Breakpoint %d action removed.\n", b.ID)
	} else {
		h.printf("Breakpoint %d action set.\n", b.ID)
	}
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	id, err := strconv.Atoi(c.Args[0])
	if err != nil {
		h.printf("Invalid breakpoint id '%s'.\n", c.Args[0])
		return nil
	}

	if err := h.breakpoints.Remove(id); err != nil {
		h.printf("No breakpoint with id %d.\n", id)
		return nil
	}

	h.printf("Breakpoint %d removed.\n", id)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	b, ok := h.findBreakpoint(c.Args[0])
	if !ok {
		return nil
	}

	b.Enabled = true
	h.printf("Breakpoint %d enabled.\n", b.ID)
	return nil
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	b, ok := h.findBreakpoint(c.Args[0])
	if !ok {
		return nil
	}

	b.Enabled = false
	h.printf("Breakpoint %d disabled.\n", b.ID)
	return nil
}

func (h *Host) findBreakpoint(arg string) (*cond.Breakpoint, bool) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		h.printf("Invalid breakpoint id '%s'.\n", arg)
		return nil, false
	}

	b := h.breakpoints.Find(id)
	if b == nil {
		h.printf("No breakpoint with id %d.\n", id)
		return nil, false
	}
	return b, true
}

func (h *Host) cmdSymbolsLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	filename := c.Args[0]
	file, err := os.Open(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	defer file.Close()

	loaded, skipped, err := h.symbols.Read(file)
	if err != nil {
		h.printf("Failed to read '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Loaded %d symbols from '%s'.\n", loaded, filepath.Base(filename))
	if skipped > 0 {
		h.printf("Skipped %d malformed lines.\n", skipped)
	}
	return nil
}

func (h *Host) cmdSymbolsList(c cmd.Selection) error {
	h.println("Address  Kind Name")
	h.println("-------- ---- ----")
	for _, s := range h.symbols.List() {
		h.printf("%08X %-4s %s\n", s.Addr, s.Kind, s.Name)
	}
	return nil
}

func (h *Host) cmdSymbolsClear(c cmd.Selection) error {
	h.symbols.Clear()
	h.println("Symbol table cleared.")
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	var addr uint32
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
	case ".":
		addr = h.mach.Reg.PC
	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint32(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		n, err := h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		bytes = n
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayHelpText(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	for i, arg := range c.Args[1:] {
		v, err := h.parseAddr(arg)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		err = h.mach.Mem.StoreValue(addr+uint32(i), cpu.Byte, v)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.printf("%d bytes stored at $%08X.\n", len(c.Args)-1, addr)
	return nil
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayRegisters()
		return nil
	}
	if len(c.Args) < 2 {
		h.displayHelpText(c.Command)
		return nil
	}

	name := c.Args[0]
	v, err := h.parseAddr(c.Args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if !h.mach.Reg.Set(name, v) {
		h.printf("Unknown register '%s'.\n", name)
		return nil
	}

	value, _ := h.mach.Reg.Get(name)
	h.printf("Register %s set to $%08X.\n", strings.ToLower(name), value)
	return nil
}

func (h *Host) cmdTest(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	text := strings.Join(c.Args, " ")
	compiled, err := cond.Compile(text, h.compileContext())
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("%v\n", compiled.Evaluate(h.mach, h.history))
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	h.printf("Running from $%08X. Press ctrl-C to break.\n", h.mach.Reg.PC)

	h.state = stateRunning
	for h.state == stateRunning {
		h.step()
	}
	h.state = stateProcessingCommands

	return nil
}

func (h *Host) cmdStep(c cmd.Selection) error {
	count := 1
	if len(c.Args) > 0 {
		n, err := strconv.Atoi(c.Args[0])
		if err == nil && n > 0 {
			count = n
		}
	}

	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		h.step()
		switch {
		case i == h.settings.StepLinesToDisplay:
			h.println("...")
		case i < h.settings.StepLinesToDisplay:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	return nil
}

func (h *Host) cmdHistory(c cmd.Selection) error {
	count := h.settings.HistoryLinesToDisplay
	if len(c.Args) > 0 {
		n, err := strconv.Atoi(c.Args[0])
		if err == nil && n > 0 {
			count = n
		}
	}
	if count > h.history.Len() {
		count = h.history.Len()
	}

	// Oldest first.
	for back := count - 1; back >= 0; back-- {
		e, ok := h.history.At(back)
		if !ok {
			continue
		}
		h.printf("%6d  %08X%s\n", e.Seq, e.PC, h.annotatePC(e.PC))
	}
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)

	case 1:
		h.displayHelpText(c.Command)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("Setting '%s' not found", key)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v uint32
			v, err = h.parseAddr(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}
	}

	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errors.New("Exiting program")
}

// step advances the machine one instruction and checks all enabled
// breakpoints. A matching breakpoint with an action runs the action and
// lets execution continue; one without an action halts the run loop.
func (h *Host) step() {
	m := h.mach

	// Snapshot pre-instruction state so history operands read the
	// machine as it was at earlier instruction boundaries.
	h.history.Record(m.Reg.PC, m.Reg)

	if err := m.Step(); err != nil {
		h.printf("%v\n", err)
		h.state = stateProcessingCommands
		return
	}

	for _, b := range h.breakpoints.CheckAll(m, h.history) {
		h.printf("%s\n", b.Report(m.Reg.PC))
		if b.Action != "" {
			h.runAction(b)
			continue
		}
		h.state = stateBreakpoint
	}
}

func (h *Host) displayRegisters() {
	r := &h.mach.Reg
	h.printf("PC=%08X SR=%04X%s\n", r.PC, r.SR, h.annotatePC(r.PC))
	h.printf("D0=%08X D1=%08X D2=%08X D3=%08X D4=%08X D5=%08X D6=%08X D7=%08X\n",
		r.D[0], r.D[1], r.D[2], r.D[3], r.D[4], r.D[5], r.D[6], r.D[7])
	h.printf("A0=%08X A1=%08X A2=%08X A3=%08X A4=%08X A5=%08X A6=%08X A7=%08X\n",
		r.A[0], r.A[1], r.A[2], r.A[3], r.A[4], r.A[5], r.A[6], r.A[7])
}

func (h *Host) dumpMemory(addr0, bytes uint32) {
	if bytes == 0 {
		return
	}

	buf := []byte("        -" + strings.Repeat(" ", 68))

	// 16 bytes per row, with a printable-character column.
	for row := addr0; row < addr0+bytes; row += 16 {
		addrToBuf(row, buf[0:8])
		for i, c1, c2 := uint32(0), 11, 61; i < 16; i, c1, c2 = i+1, c1+3, c2+1 {
			if row+i < addr0+bytes {
				v, err := h.mach.Mem.LoadValue(row+i, cpu.Byte)
				if err != nil {
					h.printf("%v\n", err)
					return
				}
				byteToBuf(byte(v), buf[c1:c1+2])
				buf[c2] = toPrintableChar(byte(v))
			} else {
				buf[c1], buf[c1+1], buf[c2] = ' ', ' ', ' '
			}
		}
		h.println(string(buf))
	}
}

// parseAddr parses an address or value argument: hexadecimal with a '$'
// or '0x' prefix, decimal, a symbol name, or a register name.
func (h *Host) parseAddr(s string) (uint32, error) {
	if sm, ok := h.symbols.Resolve(s); ok {
		return sm.Addr, nil
	}
	if v, ok := h.mach.Reg.Get(s); ok {
		return v, nil
	}

	str, base := s, 10
	switch {
	case strings.HasPrefix(s, "$"):
		str, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		str, base = s[2:], 16
	}

	v, err := strconv.ParseUint(str, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s'", s)
	}
	return uint32(v), nil
}

func (h *Host) compileContext() cond.Context {
	return cond.Context{
		Regs:         h.mach,
		Symbols:      h.symbols,
		HistoryDepth: h.history.Cap(),
	}
}

func (h *Host) displayHelpText(c *cmd.Command) {
	if c.Usage != "" {
		h.printf("Syntax: %s\n", c.Usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(commands *cmd.Tree) {
	h.printf("%s commands:\n", commands.Title)
	for _, c := range commands.Commands {
		if c.Brief != "" {
			h.printf("    %-15s  %s\n", c.Name, c.Brief)
		}
	}
}

// nearestSymbol finds the code or data symbol at or just below the
// address, within a small window.
func nearestSymbol(t *sym.Table, addr uint32) (name string, offset uint32, ok bool) {
	const window = 0x1000

	var best sym.Symbol
	var found bool
	for _, s := range t.List() {
		if s.Addr > addr || addr-s.Addr >= window {
			continue
		}
		if !found || s.Addr > best.Addr {
			best, found = s, true
		}
	}
	if !found {
		return "", 0, false
	}
	return best.Name, addr - best.Addr, true
}
