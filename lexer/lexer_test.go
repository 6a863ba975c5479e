package lexer

import (
	"io"
	"testing"
)

var numberSpec = []Rule{
	{Tag: "int", Pattern: `\d+`},
	{Tag: "whitespace", Pattern: `\s+`},
}

func collect(t *testing.T, src TokenReader) []Token {
	t.Helper()
	var tokens []Token
	for {
		tok, err := src.ReadToken()
		if err == io.EOF {
			return tokens
		}
		if err != nil {
			t.Fatalf("ReadToken failed: %v", err)
		}
		tokens = append(tokens, tok)
	}
}

func TestTokenSpan(t *testing.T) {
	tok := Token{Tag: "test", Value: "test-value", Line: 2, Column: 4}
	start, end := tok.Span()
	if start != 4 || end != 4+len("test-value") {
		t.Errorf("Expected span [4, 14), got [%d, %d)", start, end)
	}
}

func TestTokenizeLinesAndColumns(t *testing.T) {
	lex := MustNew([]Rule{
		{Tag: "int", Pattern: `\d+`},
		{Tag: "anything", Pattern: `.`},
	})
	toks := collect(t, lex.TokenizeString("123\n&"))

	if len(toks) != 2 {
		t.Fatalf("Expected 2 tokens, got %d", len(toks))
	}
	if toks[0].Tag != "int" || toks[0].Value != "123" {
		t.Errorf("Expected int(123), got %s", toks[0])
	}
	if toks[0].Line != 0 || toks[0].Column != 0 {
		t.Errorf("Expected L0:C0, got L%d:C%d", toks[0].Line, toks[0].Column)
	}
	if toks[1].Tag != "anything" || toks[1].Value != "&" {
		t.Errorf("Expected anything(&), got %s", toks[1])
	}
	if toks[1].Line != 1 || toks[1].Column != 0 {
		t.Errorf("Expected L1:C0, got L%d:C%d", toks[1].Line, toks[1].Column)
	}
}

func TestTokenizeColumnsWithinLine(t *testing.T) {
	lex := MustNew(numberSpec)
	toks := collect(t, lex.TokenizeString("12 345\t6"))

	expected := []struct {
		tag    string
		value  string
		column int
	}{
		{"int", "12", 0},
		{"whitespace", " ", 2},
		{"int", "345", 3},
		{"whitespace", "\t", 6},
		{"int", "6", 7},
	}
	if len(toks) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d", len(expected), len(toks))
	}
	for i, want := range expected {
		if toks[i].Tag != want.tag || toks[i].Value != want.value || toks[i].Column != want.column {
			t.Errorf("Token %d: expected %s(%q) at C%d, got %s", i, want.tag, want.value, want.column, toks[i])
		}
	}
}

func TestAlternativePriority(t *testing.T) {
	// The first matching alternative wins, so keywords beat identifiers.
	lex := MustNew([]Rule{
		{Tag: "keyword", Pattern: `(begin|end)`},
		{Tag: "id", Pattern: `\w+`},
		{Tag: "whitespace", Pattern: `\s+`},
	})
	toks := collect(t, lex.TokenizeString("begin foo end"))

	if toks[0].Tag != "keyword" {
		t.Errorf("Expected keyword, got %s", toks[0])
	}
	if toks[2].Tag != "id" || toks[2].Value != "foo" {
		t.Errorf("Expected id(foo), got %s", toks[2])
	}
	if toks[4].Tag != "keyword" || toks[4].Value != "end" {
		t.Errorf("Expected keyword(end), got %s", toks[4])
	}
}

func TestSkipTags(t *testing.T) {
	lex := MustNew(numberSpec)
	lex.Skip = []string{"whitespace"}
	toks := collect(t, lex.TokenizeString("12 345\n6"))

	if len(toks) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(toks))
	}
	for _, tok := range toks {
		if tok.Tag != "int" {
			t.Errorf("Expected only int tokens, got %s", tok)
		}
	}
}

func TestErrorTag(t *testing.T) {
	lex := MustNew([]Rule{
		{Tag: "int", Pattern: `\d+`},
		{Tag: "whitespace", Pattern: `\s+`},
		{Tag: "error", Pattern: `.`},
	})
	lex.ErrorTag = "error"

	src := lex.TokenizeString("12\n 34 &56")
	var err error
	var tok Token
	for err == nil {
		tok, err = src.ReadToken()
		_ = tok
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if perr.Line != 1 || perr.Column != 4 {
		t.Errorf("Expected error at L1:C4, got L%d:C%d", perr.Line, perr.Column)
	}
	if perr.Value != "&" {
		t.Errorf("Expected offending value &, got %q", perr.Value)
	}

	// The error is sticky.
	if _, err2 := src.ReadToken(); err2 != err {
		t.Errorf("Expected sticky error, got %v", err2)
	}
}

func newStream(t *testing.T, input string) *BufferedTokenStream {
	t.Helper()
	lex := MustNew(numberSpec)
	lex.Skip = []string{"whitespace"}
	return NewBufferedTokenStream(lex.TokenizeString(input))
}

func TestStreamNext(t *testing.T) {
	toks := newStream(t, "123 345\t789\n10 14\n86")
	tok, err := toks.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if tok.Tag != "int" || tok.Value != "123" {
		t.Errorf("Expected int(123), got %s", tok)
	}
}

func TestStreamPeek(t *testing.T) {
	toks := newStream(t, "123 345\t789")

	tok, err := toks.Peek(1)
	if err != nil || tok.Value != "123" {
		t.Errorf("Expected peek 123, got %s (%v)", tok, err)
	}
	tok, err = toks.Peek(2)
	if err != nil || tok.Value != "345" {
		t.Errorf("Expected peek 345, got %s (%v)", tok, err)
	}

	// Peeking does not consume.
	tok, err = toks.Next()
	if err != nil || tok.Value != "123" {
		t.Errorf("Expected next 123, got %s (%v)", tok, err)
	}
}

func TestStreamPeekPastEnd(t *testing.T) {
	toks := newStream(t, "123")
	if _, err := toks.Peek(2); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
	// The stream is still usable afterwards.
	tok, err := toks.Next()
	if err != nil || tok.Value != "123" {
		t.Errorf("Expected next 123, got %s (%v)", tok, err)
	}
	if _, err := toks.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestStreamRollback(t *testing.T) {
	toks := newStream(t, "123 345 789")

	toks.Checkpoint()
	if tok, _ := toks.Next(); tok.Value != "123" {
		t.Fatalf("Expected 123, got %s", tok)
	}
	if tok, _ := toks.Next(); tok.Value != "345" {
		t.Fatalf("Expected 345, got %s", tok)
	}
	toks.Rollback()

	if tok, _ := toks.Next(); tok.Value != "123" {
		t.Errorf("Expected 123 after rollback, got %s", tok)
	}
}

func TestStreamCommit(t *testing.T) {
	toks := newStream(t, "123 345 789")

	toks.Checkpoint()
	if tok, _ := toks.Next(); tok.Value != "123" {
		t.Fatalf("Expected 123, got %s", tok)
	}
	toks.Commit()

	if tok, _ := toks.Next(); tok.Value != "345" {
		t.Errorf("Expected 345 after commit, got %s", tok)
	}
}

func TestStreamNestedCheckpoints(t *testing.T) {
	toks := newStream(t, "1 2 3 4 5")

	toks.Checkpoint()
	if tok, _ := toks.Next(); tok.Value != "1" {
		t.Fatalf("Expected 1, got %s", tok)
	}

	toks.Checkpoint()
	if tok, _ := toks.Next(); tok.Value != "2" {
		t.Fatalf("Expected 2, got %s", tok)
	}
	toks.Rollback() // back to after 1

	if tok, _ := toks.Next(); tok.Value != "2" {
		t.Errorf("Expected 2 after inner rollback, got %s", tok)
	}

	toks.Rollback() // back to start

	if tok, _ := toks.Next(); tok.Value != "1" {
		t.Errorf("Expected 1 after outer rollback, got %s", tok)
	}
}
