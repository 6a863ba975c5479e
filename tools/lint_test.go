package tools

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/ram-machine/ram"
)

func mustParse(t *testing.T, src string) *ram.Program {
	t.Helper()
	p, err := ram.ParseString(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return p
}

func TestLintCleanProgram(t *testing.T) {
	p := mustParse(t, "loop: READ 1 LOAD 1 JGTZ loop HALT")
	if issues := Lint(p); len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestLintUnusedLabel(t *testing.T) {
	p := mustParse(t, "start: LOAD =1 HALT")
	issues := Lint(p)
	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, `label "start" is never referenced`) {
		t.Errorf("Unexpected message: %q", issues[0].Message)
	}
}

func TestLintUnreachableInstruction(t *testing.T) {
	p := mustParse(t, "skip: JUMP skip LOAD =1 HALT")
	issues := Lint(p)

	found := false
	for _, issue := range issues {
		if strings.Contains(issue.Message, "unreachable LOAD after JUMP") && issue.Index == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected unreachable instruction issue, got %v", issues)
	}
}

func TestLintLabeledInstructionIsReachable(t *testing.T) {
	p := mustParse(t, "LOAD =1 JUMP done done: HALT")
	for _, issue := range Lint(p) {
		if strings.Contains(issue.Message, "unreachable") {
			t.Errorf("Labeled instruction flagged unreachable: %v", issue)
		}
	}
}

func TestLintMissingHalt(t *testing.T) {
	p := mustParse(t, "LOAD =1 WRITE 0")
	issues := Lint(p)
	if len(issues) != 1 || !strings.Contains(issues[0].Message, "does not end with HALT") {
		t.Errorf("Expected missing HALT issue, got %v", issues)
	}
}

func TestCrossReference(t *testing.T) {
	p := mustParse(t, `
loop:  READ  1
       LOAD  1
       JZERO done
       WRITE 1
       JUMP  loop
done:  HALT
`)
	xref := BuildCrossReference(p)

	if len(xref.Labels) != 2 {
		t.Fatalf("Expected 2 labels, got %d", len(xref.Labels))
	}

	loop := xref.Labels[0]
	if loop.Label.Value != "loop" || loop.Definition != 0 {
		t.Errorf("Unexpected first entry: %+v", loop)
	}
	if len(loop.References) != 1 || loop.References[0].Index != 4 || loop.References[0].Opcode != ram.JUMP {
		t.Errorf("Unexpected loop references: %+v", loop.References)
	}

	done := xref.Labels[1]
	if done.Label.Value != "done" || done.Definition != 5 {
		t.Errorf("Unexpected second entry: %+v", done)
	}
	if len(done.References) != 1 || done.References[0].Opcode != ram.JZERO {
		t.Errorf("Unexpected done references: %+v", done.References)
	}

	text := xref.String()
	if !strings.Contains(text, "loop") || !strings.Contains(text, "4 (JUMP)") {
		t.Errorf("Unexpected rendering:\n%s", text)
	}
}
