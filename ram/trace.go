package ram

import (
	"fmt"
	"io"
	"strings"
)

// TraceEntry records one executed instruction.
type TraceEntry struct {
	Step        uint64 // step counter after execution
	PC          int    // index of the executed instruction
	Instruction string // rendered instruction text
	Accumulator int64  // c(0) after execution
}

// ExecutionTrace collects per-step trace entries and writes them out on
// Flush. A MaxEntries of 0 means unbounded.
type ExecutionTrace struct {
	Enabled    bool
	Writer     io.Writer
	MaxEntries int

	entries []TraceEntry
}

// NewExecutionTrace creates an execution trace writing to w.
func NewExecutionTrace(w io.Writer) *ExecutionTrace {
	return &ExecutionTrace{
		Enabled:    true,
		Writer:     w,
		MaxEntries: 100000,
		entries:    make([]TraceEntry, 0, 1000),
	}
}

// Record appends an entry for the instruction just executed at pc.
func (t *ExecutionTrace) Record(r *RAM, pc int, inst Instruction) {
	if !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}
	t.entries = append(t.entries, TraceEntry{
		Step:        r.StepCounter,
		PC:          pc,
		Instruction: inst.String(),
		Accumulator: r.Registers[0],
	})
}

// Entries returns the recorded entries.
func (t *ExecutionTrace) Entries() []TraceEntry {
	return t.entries
}

// Flush writes all recorded entries to the trace writer.
func (t *ExecutionTrace) Flush() error {
	if t.Writer == nil {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("step     pc    instruction          acc\n")
	sb.WriteString("---------------------------------------\n")
	for _, e := range t.entries {
		fmt.Fprintf(&sb, "%-8d %-5d %-20s %d\n", e.Step, e.PC, e.Instruction, e.Accumulator)
	}
	_, err := io.WriteString(t.Writer, sb.String())
	return err
}

// String summarizes the trace.
func (t *ExecutionTrace) String() string {
	return fmt.Sprintf("Execution trace: %d entries", len(t.entries))
}
