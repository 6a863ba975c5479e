package ram

import (
	"io"
	"strings"

	"github.com/lookbusy1344/ram-machine/lexer"
)

// Token tags for RAM assembly.
const (
	TagWhitespace = "whitespace"
	TagColon      = "colon"
	TagEquals     = "equals"
	TagStar       = "star"
	TagInteger    = "literal_integer"
	TagKeyword    = "keyword"
	TagIdent      = "literal_id"
	TagError      = "error"
)

// Spec is the lexer spec for RAM assembly. The keyword alternative precedes
// the identifier alternative so opcode names always lex as keywords.
var Spec = []lexer.Rule{
	{Tag: TagWhitespace, Pattern: `\s+`},
	{Tag: TagColon, Pattern: `\:`},
	{Tag: TagEquals, Pattern: `\=`},
	{Tag: TagStar, Pattern: `\*`},
	{Tag: TagInteger, Pattern: `[-]?\d+`},
	{Tag: TagKeyword, Pattern: keywordPattern()},
	{Tag: TagIdent, Pattern: `\w+`},
	{Tag: TagError, Pattern: `.`},
}

func keywordPattern() string {
	names := make([]string, len(Opcodes))
	for i, o := range Opcodes {
		names[i] = string(o)
	}
	return "(" + strings.Join(names, "|") + ")"
}

var ramLexer = newRAMLexer()

func newRAMLexer() *lexer.Lexer {
	l := lexer.MustNew(Spec)
	l.Skip = []string{TagWhitespace}
	l.ErrorTag = TagError
	return l
}

// Tokenize returns a lazy token stream over RAM assembly source. Whitespace
// is suppressed; an unlexable character surfaces as a *lexer.ParseError.
func Tokenize(r io.Reader) lexer.TokenReader {
	return ramLexer.Tokenize(r)
}

// TokenizeString tokenizes in-memory RAM assembly source.
func TokenizeString(s string) lexer.TokenReader {
	return ramLexer.TokenizeString(s)
}
