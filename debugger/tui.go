package debugger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI represents the text user interface for the debugger.
type TUI struct {
	// Core components
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	// Layout containers
	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	// View panels
	SourceView      *tview.TextView
	RegisterView    *tview.TextView
	TapeView        *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI creates a new text user interface.
func NewTUI(debugger *Debugger) *TUI {
	tui := &TUI{
		Debugger: debugger,
		App:      tview.NewApplication(),
	}

	tui.initializeViews()
	tui.buildLayout()
	tui.setupKeyBindings()

	return tui
}

// initializeViews creates all the view panels.
func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.SourceView.SetBorder(true).SetTitle(" Program ")

	t.RegisterView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.TapeView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.TapeView.SetBorder(true).SetTitle(" Tapes ")

	t.BreakpointsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

// buildLayout constructs the TUI layout.
func (t *TUI) buildLayout() {
	// Left panel: program listing
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.SourceView, 0, 1, false)

	// Right panel: registers, tapes, breakpoints
	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 0, 2, false).
		AddItem(t.TapeView, 8, 0, false).
		AddItem(t.BreakpointsView, 8, 0, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().
		AddPage("main", t.MainLayout, true, true)
}

// setupKeyBindings sets up keyboard shortcuts.
func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF9:
			t.executeCommand("break")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

// handleCommand processes command input.
func (t *TUI) handleCommand(key tcell.Key) {
	if key == tcell.KeyEnter {
		cmd := t.CommandInput.GetText()
		if cmd != "" {
			t.executeCommand(cmd)
			t.CommandInput.SetText("")
		}
	}
}

// executeCommand executes a debugger command.
func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()

	err := t.Debugger.ExecuteCommand(cmd)

	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	if t.Debugger.Running {
		reason, err := t.Debugger.Advance()
		if err != nil {
			t.WriteOutput(fmt.Sprintf("[red]Runtime error:[white] %v\n", err))
		} else {
			t.WriteOutput(reason + "\n")
			if t.Debugger.Machine.Halted {
				t.WriteOutput(fmt.Sprintf("Output tape: %s\n", formatTape(t.Debugger.Machine.OutputTape)))
			}
		}
	}

	t.RefreshAll()
}

// WriteOutput writes to the output view.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text)) // Ignore write errors in TUI
	t.OutputView.ScrollToEnd()
}

// RefreshAll refreshes all view panels.
func (t *TUI) RefreshAll() {
	t.UpdateSourceView()
	t.UpdateRegisterView()
	t.UpdateTapeView()
	t.UpdateBreakpointsView()
	t.App.Draw()
}

// UpdateSourceView updates the program listing view.
func (t *TUI) UpdateSourceView() {
	t.SourceView.Clear()

	lc := t.Debugger.Machine.LocationCounter

	var lines []string
	for index, text := range t.Debugger.Listing {
		marker := "  "
		color := "white"
		if index == lc && !t.Debugger.Machine.Halted {
			marker = "->"
			color = "yellow"
		}
		if t.Debugger.Breakpoints.GetBreakpoint(index) != nil {
			marker = "* "
		}
		lines = append(lines, fmt.Sprintf("[%s]%s %3d  %s[white]", color, marker, index, text))
	}

	t.SourceView.SetText(strings.Join(lines, "\n"))
}

// UpdateRegisterView updates the register view.
func (t *TUI) UpdateRegisterView() {
	t.RegisterView.Clear()

	machine := t.Debugger.Machine

	registers := make([]int64, 0, len(machine.Registers))
	for i := range machine.Registers {
		registers = append(registers, i)
	}
	sort.Slice(registers, func(i, j int) bool { return registers[i] < registers[j] })

	var lines []string
	for _, i := range registers {
		name := fmt.Sprintf("c(%d)", i)
		if i == 0 {
			name = "[yellow]acc[white] "
		}
		lines = append(lines, fmt.Sprintf("%s = %d", name, machine.Registers[i]))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("location counter: %d", machine.LocationCounter))
	lines = append(lines, fmt.Sprintf("steps: %d", machine.StepCounter))
	lines = append(lines, fmt.Sprintf("halted: %t", machine.Halted))

	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

// UpdateTapeView updates the tape view, marking the read head position.
func (t *TUI) UpdateTapeView() {
	t.TapeView.Clear()

	machine := t.Debugger.Machine

	var input strings.Builder
	for i, v := range machine.InputTape {
		if i > 0 {
			input.WriteString(" ")
		}
		if i == machine.ReadHead {
			fmt.Fprintf(&input, "[yellow]%d[white]", v)
		} else {
			fmt.Fprintf(&input, "%d", v)
		}
	}
	if machine.ReadHead >= len(machine.InputTape) {
		input.WriteString(" [yellow]·[white]")
	}

	lines := []string{
		"input:  " + input.String(),
		"output: " + formatTape(machine.OutputTape),
	}
	t.TapeView.SetText(strings.Join(lines, "\n"))
}

// UpdateBreakpointsView updates the breakpoints view.
func (t *TUI) UpdateBreakpointsView() {
	t.BreakpointsView.Clear()

	bps := t.Debugger.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		t.BreakpointsView.SetText("[yellow]No breakpoints set[white]")
		return
	}

	var lines []string
	for _, bp := range bps {
		status := "green"
		statusText := "enabled"
		if !bp.Enabled {
			status = "red"
			statusText = "disabled"
		}
		line := fmt.Sprintf("  %d: [%s]%s[white] instruction %d (hits: %d)",
			bp.ID, status, statusText, bp.Index, bp.HitCount)
		if label, ok := t.Debugger.Labels[bp.Index]; ok {
			line += fmt.Sprintf(" <%s>", label.Value)
		}
		lines = append(lines, line)
	}

	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI application.
func (t *TUI) Run() error {
	t.RefreshAll()

	t.WriteOutput("[green]RAM Debugger TUI[white]\n")
	t.WriteOutput("Press F1 for help, F5 to continue, F11 to step\n")
	t.WriteOutput("Type 'help' for command list\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI application.
func (t *TUI) Stop() {
	t.App.Stop()
}
