package palgol

import (
	"io"
	"testing"

	"github.com/lookbusy1344/ram-machine/lexer"
)

const nPowNSource = `begin
    read r1;
    if r1 ≤ 0 then write 0
    else begin
        r2 ← r1;
        r3 ← r1 - 1;
        while r3 > 0 do begin
            r2 ← r2 * r1;
            r3 ← r3 - 1
        end;
        write r2
    end
end
`

const equalCountSource = `begin
    d <- 0;
    read x;
    while x != 0 do begin
        if x = 1 then d <- d + 1
        else d <- d - 1;
        read x
    end;
    if d = 0 then write 1
end
`

func collectTokens(t *testing.T, src lexer.TokenReader) []lexer.Token {
	t.Helper()
	var tokens []lexer.Token
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

func TestTokenizeNPowN(t *testing.T) {
	toks := collectTokens(t, TokenizeString(nPowNSource))

	if len(toks) < 10 {
		t.Fatalf("Expected more than 10 tokens, got %d", len(toks))
	}
	first := toks[0]
	if first.Tag != TagKeyword || first.Value != "begin" {
		t.Errorf("Expected keyword(begin), got %s", first)
	}
	last := toks[len(toks)-1]
	if last.Tag != TagKeyword || last.Value != "end" {
		t.Errorf("Expected keyword(end), got %s", last)
	}
	if toks[1].Tag != TagKeyword || toks[1].Value != "read" {
		t.Errorf("Expected keyword(read), got %s", toks[1])
	}
	if toks[2].Tag != TagIdent || toks[2].Value != "r1" {
		t.Errorf("Expected literal_id(r1), got %s", toks[2])
	}
	if toks[2].Line != 1 || toks[2].Column <= 0 {
		t.Errorf("Expected position on line 1, got %s", toks[2])
	}
}

func TestKeywordsWinOverIdentifiers(t *testing.T) {
	toks := collectTokens(t, TokenizeString("while whilst"))
	if toks[0].Tag != TagKeyword || toks[0].Value != "while" {
		t.Errorf("Expected keyword(while), got %s", toks[0])
	}
	// Alternative priority also means a keyword prefix wins inside a longer
	// word; "whilst" lexes as keyword(while) + literal_id(st).
	if toks[1].Tag != TagKeyword || toks[1].Value != "while" {
		t.Errorf("Expected keyword(while), got %s", toks[1])
	}
	if toks[2].Tag != TagIdent || toks[2].Value != "st" {
		t.Errorf("Expected literal_id(st), got %s", toks[2])
	}
}

func TestTokenizeUnicodeAndASCIISymbols(t *testing.T) {
	for _, symbol := range []string{"←", "<-", "≠", "!=", "≤", "<=", "≥", ">=", "<", ">", "=", "+", "-", "*", "/", ";"} {
		toks := collectTokens(t, TokenizeString("x "+symbol+" y"))
		if len(toks) != 3 {
			t.Fatalf("%q: expected 3 tokens, got %d", symbol, len(toks))
		}
		if toks[1].Tag != TagSymbol || toks[1].Value != symbol {
			t.Errorf("%q: expected symbol token, got %s", symbol, toks[1])
		}
	}
}

func TestTokenizeError(t *testing.T) {
	src := TokenizeString("begin & end")
	var err error
	for err == nil {
		_, err = src.ReadToken()
	}
	perr, ok := err.(*lexer.ParseError)
	if !ok {
		t.Fatalf("Expected *lexer.ParseError, got %v", err)
	}
	if perr.Value != "&" {
		t.Errorf("Expected offending value &, got %q", perr.Value)
	}
}
