package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Advance executes the machine according to the current step mode until it
// stops: after one instruction for a single step, otherwise until a
// breakpoint, a halt, or a runtime error. It returns a human-readable stop
// reason.
func (d *Debugger) Advance() (string, error) {
	d.Running = false

	if d.Machine.Halted {
		return "program has halted", nil
	}

	if d.StepMode == StepSingle {
		d.StepMode = StepNone
		if err := d.Machine.Step(); err != nil {
			return "", err
		}
		if d.Machine.Halted {
			return "program halted", nil
		}
		return fmt.Sprintf("stopped at instruction %d", d.Machine.LocationCounter), nil
	}

	for {
		if err := d.Machine.Step(); err != nil {
			return "", err
		}
		if d.Machine.Halted {
			return "program halted", nil
		}
		if stop, reason := d.ShouldBreak(); stop {
			return fmt.Sprintf("%s at instruction %d", reason, d.Machine.LocationCounter), nil
		}
	}
}

// RunCLI runs the command-line debugger interface.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(ram-dbg) ")

		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		if output := dbg.GetOutput(); output != "" {
			fmt.Print(output)
		}

		if dbg.Running {
			reason, err := dbg.Advance()
			if err != nil {
				fmt.Printf("Runtime error: %v\n", err)
			} else {
				fmt.Println(reason)
				if dbg.Machine.Halted {
					fmt.Printf("Output tape: %s\n", formatTape(dbg.Machine.OutputTape))
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// RunTUI runs the TUI (Text User Interface) debugger.
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
