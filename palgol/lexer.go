package palgol

import (
	"io"
	"strings"

	"github.com/lookbusy1344/ram-machine/lexer"
)

// Token tags for Pidgin ALGOL.
const (
	TagWhitespace = "whitespace"
	TagKeyword    = "keyword"
	TagSymbol     = "symbol"
	TagInteger    = "literal_integer"
	TagIdent      = "literal_id"
	TagError      = "error"
)

// Spec is the lexer spec for Pidgin ALGOL. The keyword alternative precedes
// the identifier alternative so reserved words never lex as identifiers, and
// the two-character ASCII synonyms precede the single-character symbols so
// "<=" is not split into "<" "=".
var Spec = []lexer.Rule{
	{Tag: TagWhitespace, Pattern: `\s+`},
	{Tag: TagKeyword, Pattern: keywordPattern()},
	{Tag: TagSymbol, Pattern: `(\<=|>=|!=|\<-|[;=≠<≤>≥←+*/-])`},
	{Tag: TagInteger, Pattern: `\d+`},
	{Tag: TagIdent, Pattern: `\w+`},
	{Tag: TagError, Pattern: `.`},
}

func keywordPattern() string {
	names := make([]string, len(Keywords))
	for i, k := range Keywords {
		names[i] = string(k)
	}
	return "(" + strings.Join(names, "|") + ")"
}

var palgolLexer = newPalgolLexer()

func newPalgolLexer() *lexer.Lexer {
	l := lexer.MustNew(Spec)
	l.Skip = []string{TagWhitespace}
	l.ErrorTag = TagError
	return l
}

// Tokenize returns a lazy token stream over Pidgin ALGOL source. Whitespace
// is suppressed; an unlexable character surfaces as a *lexer.ParseError.
func Tokenize(r io.Reader) lexer.TokenReader {
	return palgolLexer.Tokenize(r)
}

// TokenizeString tokenizes in-memory Pidgin ALGOL source.
func TokenizeString(s string) lexer.TokenReader {
	return palgolLexer.TokenizeString(s)
}
