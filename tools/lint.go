// Package tools provides static analysis helpers for RAM programs: a linter
// for common mistakes and a label cross-referencer.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/ram-machine/ram"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintWarning LintLevel = iota // potential issues
	LintInfo                     // suggestions, style recommendations
)

func (l LintLevel) String() string {
	switch l {
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding, anchored to an instruction index when it
// applies to one.
type LintIssue struct {
	Level   LintLevel
	Index   int // instruction index, -1 for program-level issues
	Message string
}

func (i LintIssue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("%s: %s", i.Level, i.Message)
	}
	return fmt.Sprintf("%s: instruction %d: %s", i.Level, i.Index, i.Message)
}

// Lint inspects a parsed program for common mistakes: unused labels,
// instructions unreachable after an unconditional JUMP or HALT, and a missing
// trailing HALT. Undefined labels are a parse error and never reach here.
func Lint(program *ram.Program) []LintIssue {
	var issues []LintIssue

	// Labels that no jump references.
	referenced := make(map[ram.JumpTarget]bool)
	for _, inst := range program.Instructions {
		if target, ok := inst.Address.(ram.JumpTarget); ok {
			referenced[target] = true
		}
	}
	unused := make([]ram.JumpTarget, 0)
	for target := range program.Jumptable {
		if !referenced[target] {
			unused = append(unused, target)
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Value < unused[j].Value })
	for _, target := range unused {
		issues = append(issues, LintIssue{
			Level:   LintWarning,
			Index:   program.Jumptable[target],
			Message: fmt.Sprintf("label %q is never referenced", target.Value),
		})
	}

	// Instructions that can only be reached by falling through an
	// unconditional control transfer.
	labeled := make(map[int]bool, len(program.Jumptable))
	for _, index := range program.Jumptable {
		labeled[index] = true
	}
	for index := 1; index < len(program.Instructions); index++ {
		prev := program.Instructions[index-1].Opcode
		if (prev == ram.JUMP || prev == ram.HALT) && !labeled[index] {
			issues = append(issues, LintIssue{
				Level:   LintWarning,
				Index:   index,
				Message: fmt.Sprintf("unreachable %s after %s", program.Instructions[index].Opcode, prev),
			})
		}
	}

	// Execution falls off the end without a HALT.
	if n := len(program.Instructions); n == 0 || program.Instructions[n-1].Opcode != ram.HALT {
		issues = append(issues, LintIssue{
			Level:   LintWarning,
			Index:   -1,
			Message: "program does not end with HALT",
		})
	}

	return issues
}

// FormatIssues renders lint issues one per line.
func FormatIssues(issues []LintIssue) string {
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}
