package debugger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Command handler implementations

// cmdRun starts or restarts program execution.
func (d *Debugger) cmdRun(args []string) error {
	d.Machine.Reset()
	d.Running = true
	d.StepMode = StepNone

	d.Println("Starting program execution...")
	return nil
}

// cmdContinue continues execution from the current point.
func (d *Debugger) cmdContinue(args []string) error {
	if d.Machine.Halted {
		return fmt.Errorf("program has halted; use 'run' to restart")
	}

	d.Running = true
	d.StepMode = StepNone

	d.Println("Continuing...")
	return nil
}

// cmdStep executes a single instruction.
func (d *Debugger) cmdStep(args []string) error {
	if d.Machine.Halted {
		return fmt.Errorf("program has halted; use 'run' to restart")
	}
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

// cmdBreak sets a breakpoint.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <index|label>")
	}

	index, err := d.ResolveIndex(args[0])
	if err != nil {
		return err
	}

	bp := d.Breakpoints.AddBreakpoint(index, false)
	d.Printf("Breakpoint %d at instruction %d\n", bp.ID, index)

	return nil
}

// cmdTBreak sets a temporary breakpoint (auto-delete after hit).
func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <index|label>")
	}

	index, err := d.ResolveIndex(args[0])
	if err != nil {
		return err
	}

	bp := d.Breakpoints.AddBreakpoint(index, true)
	d.Printf("Temporary breakpoint %d at instruction %d\n", bp.ID, index)

	return nil
}

// cmdDelete deletes breakpoint(s).
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

// cmdEnable enables a breakpoint.
func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.EnableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d enabled\n", id)
	return nil
}

// cmdDisable disables a breakpoint.
func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DisableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d disabled\n", id)
	return nil
}

// cmdPrint prints a register value. "acc" and "0" name the accumulator.
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <register|acc>")
	}

	name := strings.ToLower(args[0])
	var register int64
	if name != "acc" {
		n, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid register: %s", args[0])
		}
		register = n
	}

	value, ok := d.Machine.Registers[register]
	if !ok {
		return fmt.Errorf("register %d is uninitialized", register)
	}

	d.Printf("c(%d) = %d\n", register, value)
	return nil
}

// cmdInfo shows machine state.
func (d *Debugger) cmdInfo(args []string) error {
	what := "registers"
	if len(args) > 0 {
		what = strings.ToLower(args[0])
	}

	switch what {
	case "registers", "reg", "r":
		return d.showRegisters()
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	case "tape", "tapes", "t":
		return d.showTapes()
	case "program", "prog":
		return d.cmdList(nil)
	default:
		return fmt.Errorf("usage: info [registers|breakpoints|tape|program]")
	}
}

func (d *Debugger) showRegisters() error {
	registers := make([]int64, 0, len(d.Machine.Registers))
	for i := range d.Machine.Registers {
		registers = append(registers, i)
	}
	sort.Slice(registers, func(i, j int) bool { return registers[i] < registers[j] })

	for _, i := range registers {
		name := fmt.Sprintf("c(%d)", i)
		if i == 0 {
			name = "acc "
		}
		d.Printf("%s = %d\n", name, d.Machine.Registers[i])
	}
	d.Printf("location counter = %d\n", d.Machine.LocationCounter)
	d.Printf("steps = %d, halted = %t\n", d.Machine.StepCounter, d.Machine.Halted)
	return nil
}

func (d *Debugger) showBreakpoints() error {
	bps := d.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		d.Println("No breakpoints set")
		return nil
	}

	for _, bp := range bps {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		line := fmt.Sprintf("%d: instruction %d (%s, hits: %d)", bp.ID, bp.Index, status, bp.HitCount)
		if label, ok := d.Labels[bp.Index]; ok {
			line += fmt.Sprintf(" <%s>", label.Value)
		}
		d.Println(line)
	}
	return nil
}

func (d *Debugger) showTapes() error {
	d.Printf("input tape:  %s\n", formatTape(d.Machine.InputTape))
	d.Printf("read head:   %d\n", d.Machine.ReadHead)
	d.Printf("output tape: %s\n", formatTape(d.Machine.OutputTape))
	return nil
}

// cmdList shows the whole program listing, marking the location counter and
// breakpoints.
func (d *Debugger) cmdList(args []string) error {
	for index, line := range d.Listing {
		marker := "  "
		if index == d.Machine.LocationCounter && !d.Machine.Halted {
			marker = "->"
		}
		if d.Breakpoints.GetBreakpoint(index) != nil {
			marker = "* "
		}
		d.Printf("%s %3d  %s\n", marker, index, line)
	}
	return nil
}

// cmdReset resets the machine without starting it.
func (d *Debugger) cmdReset(args []string) error {
	d.Machine.Reset()
	d.Running = false
	d.StepMode = StepNone
	d.Println("Machine reset")
	return nil
}

// cmdHelp shows command help.
func (d *Debugger) cmdHelp(args []string) error {
	d.Println(`Commands:
  run, r             Restart program execution from the beginning
  continue, c        Continue execution
  step, s            Execute a single instruction
  break, b IDX       Set breakpoint at instruction index or label
  tbreak IDX         Set temporary breakpoint
  delete [ID]        Delete breakpoint (all if no ID)
  enable ID          Enable breakpoint
  disable ID         Disable breakpoint
  print, p REG       Print register value ('acc' for the accumulator)
  info [WHAT]        Show registers, breakpoints, tape or program
  list, l            Show program listing
  reset              Reset the machine
  help, h            Show this help
  quit, q            Exit the debugger`)
	return nil
}

// formatTape renders a tape as space-separated integers.
func formatTape(tape []int64) string {
	if len(tape) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(tape))
	for i, v := range tape {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, " ")
}
