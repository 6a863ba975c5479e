package ram

import (
	"fmt"
	"io"
	"strconv"

	"github.com/lookbusy1344/ram-machine/lexer"
)

// Parse reads RAM assembly from r and builds a Program. The grammar is
// whitespace-delimited; line breaks carry no meaning. A line is an optional
// "label:" followed by an optional instruction; jump opcodes take a bare
// label, all other opcodes except HALT take an operand of the form
// [=*]?<integer>. STORE and READ reject the literal "=" flag.
func Parse(r io.Reader) (*Program, error) {
	return parseTokens(lexer.NewBufferedTokenStream(Tokenize(r)))
}

// ParseString parses in-memory RAM assembly source.
func ParseString(s string) (*Program, error) {
	return parseTokens(lexer.NewBufferedTokenStream(TokenizeString(s)))
}

// ParseTokens builds a Program from an already-tokenized source.
func ParseTokens(src lexer.TokenReader) (*Program, error) {
	return parseTokens(lexer.NewBufferedTokenStream(src))
}

func parseTokens(stream *lexer.BufferedTokenStream) (*Program, error) {
	var instructions []Instruction
	jumptable := make(map[JumpTarget]int)

	for {
		tok, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch tok.Tag {
		case TagIdent:
			// A label definition: identifier followed by a colon.
			colon, err := stream.Next()
			if err != nil || colon.Tag != TagColon {
				return nil, lexer.NewParseError(
					fmt.Sprintf("expected ':' after label %q", tok.Value), tok)
			}
			jumptable[JumpTarget{Value: tok.Value}] = len(instructions)

		case TagKeyword:
			opcode := Opcode(tok.Value)
			if opcode == HALT {
				instructions = append(instructions, Instruction{Opcode: HALT})
				continue
			}
			address, err := parseAddress(stream, opcode, tok)
			if err != nil {
				return nil, err
			}
			instructions = append(instructions, Instruction{Opcode: opcode, Address: address})

		default:
			return nil, lexer.NewParseError(
				fmt.Sprintf("unexpected token %q", tok.Value), tok)
		}
	}

	for _, inst := range instructions {
		if target, ok := inst.Address.(JumpTarget); ok {
			if _, defined := jumptable[target]; !defined {
				return nil, &lexer.ParseError{
					Message: fmt.Sprintf("undefined label %q", target.Value),
				}
			}
		}
	}

	return &Program{Instructions: instructions, Jumptable: jumptable}, nil
}

// parseAddress consumes the address of a non-HALT instruction.
func parseAddress(stream *lexer.BufferedTokenStream, opcode Opcode, at lexer.Token) (Address, error) {
	tok, err := stream.Next()
	if err == io.EOF {
		return nil, lexer.NewParseError(
			fmt.Sprintf("missing address for %s", opcode), at)
	}
	if err != nil {
		return nil, err
	}

	if opcode.IsJump() {
		if tok.Tag != TagIdent {
			return nil, lexer.NewParseError(
				fmt.Sprintf("%s requires a label, got %q", opcode, tok.Value), tok)
		}
		return JumpTarget{Value: tok.Value}, nil
	}

	flag := Direct
	switch tok.Tag {
	case TagEquals:
		if opcode == STORE || opcode == READ {
			return nil, lexer.NewParseError(
				fmt.Sprintf("%s cannot take a literal operand", opcode), tok)
		}
		flag = Literal
		if tok, err = stream.Next(); err != nil {
			return nil, lexer.NewParseError(
				fmt.Sprintf("missing integer after '=' for %s", opcode), at)
		}
	case TagStar:
		flag = Indirect
		if tok, err = stream.Next(); err != nil {
			return nil, lexer.NewParseError(
				fmt.Sprintf("missing integer after '*' for %s", opcode), at)
		}
	}

	if tok.Tag != TagInteger {
		return nil, lexer.NewParseError(
			fmt.Sprintf("%s requires an integer operand, got %q", opcode, tok.Value), tok)
	}
	value, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return nil, lexer.NewParseError(
			fmt.Sprintf("integer operand %q out of range", tok.Value), tok)
	}
	return Operand{Value: value, Flag: flag}, nil
}
