// Package lexer provides a generic line-oriented, regex-driven tokenizer and
// a buffered token stream with checkpoint/rollback/commit transactions.
//
// A lexer is built from an ordered spec of (tag, pattern) alternatives. Within
// a line it emits the leftmost match at each position, tagged with the first
// alternative that matched, so earlier spec entries win over later ones. This
// ordering is what lets a language put its keyword alternative ahead of its
// identifier alternative.
package lexer

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Rule is one (tag, pattern) alternative of a lexer spec.
type Rule struct {
	Tag     string
	Pattern string
}

// Lexer tokenizes input line by line against an ordered rule spec.
//
// Skip lists tags whose tokens are suppressed from the output stream
// (typically whitespace). ErrorTag, if set, names the catch-all alternative
// (conventionally the last rule, matching any single character); producing a
// token with that tag aborts tokenization with a ParseError at its position.
type Lexer struct {
	Skip     []string
	ErrorTag string

	spec []Rule
	re   *regexp.Regexp
}

// New compiles a lexer from the given spec. Rule tags must be valid regexp
// group names and unique within the spec.
func New(spec []Rule) (*Lexer, error) {
	if len(spec) == 0 {
		return nil, fmt.Errorf("lexer spec must have at least one rule")
	}
	alts := make([]string, 0, len(spec))
	seen := make(map[string]bool, len(spec))
	for _, r := range spec {
		if seen[r.Tag] {
			return nil, fmt.Errorf("duplicate tag %q in lexer spec", r.Tag)
		}
		seen[r.Tag] = true
		alts = append(alts, fmt.Sprintf("(?P<%s>%s)", r.Tag, r.Pattern))
	}
	re, err := regexp.Compile(strings.Join(alts, "|"))
	if err != nil {
		return nil, fmt.Errorf("compiling lexer spec: %w", err)
	}
	return &Lexer{spec: spec, re: re}, nil
}

// MustNew is like New but panics on an invalid spec. Intended for package-level
// lexers built from static specs.
func MustNew(spec []Rule) *Lexer {
	l, err := New(spec)
	if err != nil {
		panic(err)
	}
	return l
}

// TokenReader is a pull-based source of tokens. ReadToken returns io.EOF when
// the input is exhausted.
type TokenReader interface {
	ReadToken() (Token, error)
}

// Tokenize returns a lazy token scanner over r. Tokens are produced on demand
// as the consumer pulls them.
func (l *Lexer) Tokenize(r io.Reader) *Scanner {
	skip := make(map[string]bool, len(l.Skip))
	for _, tag := range l.Skip {
		skip[tag] = true
	}
	return &Scanner{
		lexer: l,
		lines: newLineReader(r),
		skip:  skip,
		line:  -1,
	}
}

// TokenizeString tokenizes an in-memory source.
func (l *Lexer) TokenizeString(s string) *Scanner {
	return l.Tokenize(strings.NewReader(s))
}

// Scanner is a lazy token stream over one input. It implements TokenReader.
type Scanner struct {
	lexer   *Lexer
	lines   *lineReader
	skip    map[string]bool
	pending []Token
	line    int
	failed  error
}

// ReadToken returns the next token, io.EOF at end of input, or a *ParseError
// if the spec's error alternative matched. Tokens matched earlier on the
// failing line are still delivered before the error surfaces; after that,
// every call returns the same error.
func (s *Scanner) ReadToken() (Token, error) {
	for len(s.pending) == 0 {
		if s.failed != nil {
			return Token{}, s.failed
		}
		text, err := s.lines.readLine()
		if err != nil {
			s.failed = err
			continue
		}
		s.line++
		if err := s.tokenizeLine(text); err != nil {
			s.failed = err
		}
	}
	tok := s.pending[0]
	s.pending = s.pending[1:]
	return tok, nil
}

// tokenizeLine matches one logical line against the spec, appending the
// surviving tokens to the pending queue.
func (s *Scanner) tokenizeLine(text string) error {
	names := s.lexer.re.SubexpNames()
	pos := 0
	for pos < len(text) {
		loc := s.lexer.re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		tag := ""
		for i := 1; i < len(names); i++ {
			if loc[2*i] >= 0 {
				tag = names[i]
				break
			}
		}
		tok := Token{
			Tag:    tag,
			Value:  text[pos+loc[0] : pos+loc[1]],
			Line:   s.line,
			Column: pos + loc[0],
		}
		if tag == s.lexer.ErrorTag && s.lexer.ErrorTag != "" {
			return &ParseError{Line: tok.Line, Column: tok.Column, Value: tok.Value}
		}
		if !s.skip[tag] {
			s.pending = append(s.pending, tok)
		}
		if loc[1] == loc[0] {
			pos++ // zero-width match, step past it
		} else {
			pos += loc[1]
		}
	}
	return nil
}

// lineReader yields logical lines including their trailing newline, so a
// whitespace alternative can consume line endings just like interior spaces.
type lineReader struct {
	rest string
	err  error
}

func newLineReader(r io.Reader) *lineReader {
	b, err := io.ReadAll(r)
	return &lineReader{rest: string(b), err: err}
}

func (lr *lineReader) readLine() (string, error) {
	if lr.err != nil {
		return "", lr.err
	}
	if lr.rest == "" {
		return "", io.EOF
	}
	if i := strings.IndexByte(lr.rest, '\n'); i >= 0 {
		line := lr.rest[:i+1]
		lr.rest = lr.rest[i+1:]
		return line, nil
	}
	line := lr.rest
	lr.rest = ""
	return line, nil
}
