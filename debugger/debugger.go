// Package debugger provides an interactive debugger for RAM programs: a
// command-line interface and a tview-based TUI over the same command set.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/ram-machine/ram"
)

// StepMode represents different stepping modes.
type StepMode int

const (
	StepNone   StepMode = iota // not stepping
	StepSingle                 // stop after one instruction
)

// Debugger holds the debugger state: the machine under control, breakpoints,
// history and the program listing used for source display.
type Debugger struct {
	Machine *ram.RAM

	// Breakpoint management
	Breakpoints *BreakpointManager

	// Command history
	History *CommandHistory

	// Execution control
	Running  bool
	StepMode StepMode

	// Program listing, one line per instruction index
	Listing []string

	// Label for each labeled instruction index
	Labels map[int]ram.JumpTarget

	// Last command (for repeat on empty input)
	LastCommand string

	// Output buffer
	Output strings.Builder
}

// NewDebugger creates a debugger for the given machine.
func NewDebugger(machine *ram.RAM) *Debugger {
	return &Debugger{
		Machine:     machine,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(1000),
		Listing:     strings.Split(machine.Program.Serialize(), "\n"),
		Labels:      machine.Program.Labels(),
	}
}

// ResolveIndex resolves a label or a numeric instruction index.
func (d *Debugger) ResolveIndex(s string) (int, error) {
	if index, ok := d.Machine.Program.Jumptable[ram.JumpTarget{Value: s}]; ok {
		return index, nil
	}
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 || index >= len(d.Machine.Program.Instructions) {
		return 0, fmt.Errorf("invalid instruction index or label: %s", s)
	}
	return index, nil
}

// ExecuteCommand processes and executes a debugger command.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	// Empty command repeats the last command (for step etc.)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}

	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

// handleCommand dispatches commands to the appropriate handlers.
func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	// Execution control
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s":
		return d.cmdStep(args)

	// Breakpoints
	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	// Inspection
	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "list", "l":
		return d.cmdList(args)

	// Program control
	case "reset":
		return d.cmdReset(args)

	// Help
	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak checks if execution should pause at the current location
// counter.
func (d *Debugger) ShouldBreak() (bool, string) {
	index := d.Machine.LocationCounter

	if d.StepMode == StepSingle {
		d.StepMode = StepNone
		return true, "single step"
	}

	if bp := d.Breakpoints.GetBreakpoint(index); bp != nil {
		if !bp.Enabled {
			return false, ""
		}

		bp.HitCount++

		if bp.Temporary {
			_ = d.Breakpoints.DeleteBreakpoint(bp.ID)
		}

		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	return false, ""
}

// GetOutput returns and clears the output buffer.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}
