package cliutil

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/ram-machine/ram"
)

func TestParseInputTape(t *testing.T) {
	tape, err := ParseInputTape([]string{"1", "-2", "30"})
	if err != nil {
		t.Fatalf("ParseInputTape failed: %v", err)
	}
	if len(tape) != 3 || tape[0] != 1 || tape[1] != -2 || tape[2] != 30 {
		t.Errorf("Unexpected tape: %v", tape)
	}

	if tape, err := ParseInputTape(nil); err != nil || len(tape) != 0 {
		t.Errorf("Expected empty tape, got %v (%v)", tape, err)
	}

	if _, err := ParseInputTape([]string{"1", "x"}); err == nil {
		t.Error("Expected error for non-integer cell")
	}
}

func TestFormatTape(t *testing.T) {
	if got := FormatTape([]int64{3, -1, 25}); got != "3 -1 25" {
		t.Errorf("Expected \"3 -1 25\", got %q", got)
	}
	if got := FormatTape(nil); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}

func TestDumpTokens(t *testing.T) {
	var sb strings.Builder
	err := DumpTokens(&sb, ram.TokenizeString("LOAD =1 HALT"), false, 80)
	if err != nil {
		t.Fatalf("DumpTokens failed: %v", err)
	}
	if got := sb.String(); got != "«LOAD» «=» «1» «HALT»\n" {
		t.Errorf("Unexpected dump: %q", got)
	}
}

func TestDumpTokensWraps(t *testing.T) {
	var sb strings.Builder
	err := DumpTokens(&sb, ram.TokenizeString("LOAD =1 STORE 2 WRITE 3"), false, 12)
	if err != nil {
		t.Fatalf("DumpTokens failed: %v", err)
	}
	for i, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		if len(line) > 12 {
			t.Errorf("Line %d exceeds width: %q", i, line)
		}
	}
}

func TestDumpTokensVerbose(t *testing.T) {
	var sb strings.Builder
	err := DumpTokens(&sb, ram.TokenizeString("HALT"), true, 80)
	if err != nil {
		t.Fatalf("DumpTokens failed: %v", err)
	}
	if !strings.Contains(sb.String(), "keyword(\"HALT\")") {
		t.Errorf("Unexpected verbose dump: %q", sb.String())
	}
}
