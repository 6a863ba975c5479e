package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/ram-machine/ram"
)

// Reference records one use of a label: the referencing instruction index and
// its opcode.
type Reference struct {
	Index  int
	Opcode ram.Opcode
}

// CrossReference maps each label to its definition index and every
// instruction that jumps to it.
type CrossReference struct {
	Labels []LabelEntry
}

// LabelEntry is the cross-reference record for one label.
type LabelEntry struct {
	Label      ram.JumpTarget
	Definition int
	References []Reference
}

// BuildCrossReference builds a label cross-reference for a parsed program,
// ordered by definition index.
func BuildCrossReference(program *ram.Program) *CrossReference {
	byLabel := make(map[ram.JumpTarget][]Reference)
	for index, inst := range program.Instructions {
		if target, ok := inst.Address.(ram.JumpTarget); ok {
			byLabel[target] = append(byLabel[target], Reference{Index: index, Opcode: inst.Opcode})
		}
	}

	entries := make([]LabelEntry, 0, len(program.Jumptable))
	for target, definition := range program.Jumptable {
		entries = append(entries, LabelEntry{
			Label:      target,
			Definition: definition,
			References: byLabel[target],
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Definition != entries[j].Definition {
			return entries[i].Definition < entries[j].Definition
		}
		return entries[i].Label.Value < entries[j].Label.Value
	})

	return &CrossReference{Labels: entries}
}

// String renders the cross-reference as a table.
func (x *CrossReference) String() string {
	if len(x.Labels) == 0 {
		return "no labels defined"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-15s %-10s %s\n", "Label", "Defined", "Referenced by"))
	for _, entry := range x.Labels {
		refs := make([]string, len(entry.References))
		for i, ref := range entry.References {
			refs[i] = fmt.Sprintf("%d (%s)", ref.Index, ref.Opcode)
		}
		refText := strings.Join(refs, ", ")
		if refText == "" {
			refText = "-"
		}
		sb.WriteString(fmt.Sprintf("%-15s %-10d %s\n", entry.Label.Value, entry.Definition, refText))
	}
	return strings.TrimRight(sb.String(), "\n")
}
