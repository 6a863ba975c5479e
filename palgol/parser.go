package palgol

import (
	"fmt"
	"io"
	"strconv"

	"github.com/lookbusy1344/ram-machine/lexer"
)

// Parser is a recursive-descent parser for Pidgin ALGOL. Backtracking is
// confined to a single checkpoint on the token stream, used to disambiguate
// binary from unary expressions.
type Parser struct {
	stream *lexer.BufferedTokenStream
}

// Parse reads Pidgin ALGOL source from r and builds its AST.
func Parse(r io.Reader) (*AST, error) {
	return ParseTokens(Tokenize(r))
}

// ParseString parses in-memory Pidgin ALGOL source.
func ParseString(s string) (*AST, error) {
	return ParseTokens(TokenizeString(s))
}

// ParseTokens builds an AST from an already-tokenized source.
func ParseTokens(src lexer.TokenReader) (*AST, error) {
	p := &Parser{stream: lexer.NewBufferedTokenStream(src)}
	head, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &AST{Head: head}, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	top, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch {
	case top.Value == string(KwBegin):
		return p.parseBlock()
	case top.Value == string(KwRead):
		return p.parseRead()
	case top.Value == string(KwIf):
		return p.parseIf()
	case top.Value == string(KwWhile):
		return p.parseWhile()
	case top.Value == string(KwWrite):
		return p.parseWrite()
	case top.Tag == TagIdent:
		return p.parseAssignment()
	default:
		return nil, lexer.NewParseError(
			fmt.Sprintf("unexpected token %q, expected a statement", top.Value), top)
	}
}

func (p *Parser) parseBlock() (Statement, error) {
	begin, err := p.expectKeyword(KwBegin)
	if err != nil {
		return nil, err
	}
	var stmts []Statement
	for {
		top, err := p.peek()
		if err == io.EOF {
			return nil, lexer.NewParseError("unterminated block, missing 'end'", begin)
		}
		if err != nil {
			return nil, err
		}
		if top.Value == string(KwEnd) {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		sep, err := p.peek()
		if err == io.EOF {
			return nil, lexer.NewParseError("unterminated block, missing 'end'", begin)
		}
		if err != nil {
			return nil, err
		}
		if sep.Tag == TagSymbol && sep.Value == ";" {
			p.next() // separator, or a trailing semicolon before end
		} else if sep.Value != string(KwEnd) {
			return nil, lexer.NewParseError(
				fmt.Sprintf("unexpected token %q, expected ';' or 'end'", sep.Value), sep)
		}
	}
	if _, err := p.expectKeyword(KwEnd); err != nil {
		return nil, err
	}
	return BlockStatement{Line: begin.Line, Column: begin.Column, Statements: stmts}, nil
}

func (p *Parser) parseRead() (Statement, error) {
	read, err := p.expectKeyword(KwRead)
	if err != nil {
		return nil, err
	}
	variable, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	return ReadStatement{Line: read.Line, Column: read.Column, Variable: variable}, nil
}

func (p *Parser) parseWrite() (Statement, error) {
	write, err := p.expectKeyword(KwWrite)
	if err != nil {
		return nil, err
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	switch exp.(type) {
	case VariableExpression, LiteralExpression:
	default:
		line, column := exp.Pos()
		return nil, &lexer.ParseError{
			Message: fmt.Sprintf("write takes a variable or literal, got %s", exp.Serialize()),
			Line:    line,
			Column:  column,
		}
	}
	return WriteStatement{Line: write.Line, Column: write.Column, Value: exp}, nil
}

func (p *Parser) parseIf() (Statement, error) {
	ifTok, err := p.expectKeyword(KwIf)
	if err != nil {
		return nil, err
	}
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(KwThen); err != nil {
		return nil, err
	}
	trueBody, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseBody Statement
	if top, err := p.peek(); err == nil && top.Value == string(KwElse) {
		p.next()
		if elseBody, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return IfStatement{
		Line:      ifTok.Line,
		Column:    ifTok.Column,
		Condition: condition,
		TrueBody:  trueBody,
		ElseBody:  elseBody,
	}, nil
}

func (p *Parser) parseWhile() (Statement, error) {
	whileTok, err := p.expectKeyword(KwWhile)
	if err != nil {
		return nil, err
	}
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(KwDo); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return WhileStatement{
		Line:      whileTok.Line,
		Column:    whileTok.Column,
		Condition: condition,
		Body:      body,
	}, nil
}

func (p *Parser) parseAssignment() (Statement, error) {
	target, err := p.next()
	if err != nil {
		return nil, err
	}
	if target.Tag != TagIdent {
		return nil, lexer.NewParseError(
			fmt.Sprintf("unexpected token %q, expected a variable", target.Value), target)
	}
	arrow, err := p.next()
	if err != nil || arrow.Tag != TagSymbol || (arrow.Value != "←" && arrow.Value != "<-") {
		if err != nil {
			arrow = target
		}
		return nil, lexer.NewParseError("expected '←' in assignment", arrow)
	}
	exp, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return AssignmentStatement{
		Line:       target.Line,
		Column:     target.Column,
		Variable:   VariableExpression{Line: target.Line, Column: target.Column, Name: target.Value},
		Expression: exp,
	}, nil
}

// parseExpression tries a binary parse under a checkpoint and falls back to a
// unary parse on failure.
func (p *Parser) parseExpression() (Expression, error) {
	p.stream.Checkpoint()
	exp, err := p.parseBinary()
	if err == nil {
		p.stream.Commit()
		return exp, nil
	}
	p.stream.Rollback()
	return p.parseUnary()
}

func (p *Parser) parseBinary() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	tok, err := p.next()
	if err != nil {
		return nil, &lexer.ParseError{Message: "expected binary operator, got end of input"}
	}
	operator, ok := binaryOperatorFor(tok.Value)
	if tok.Tag != TagSymbol || !ok {
		return nil, lexer.NewParseError(
			fmt.Sprintf("unexpected token %q, expected binary operator", tok.Value), tok)
	}
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	line, column := left.Pos()
	return BinaryExpression{
		Line:     line,
		Column:   column,
		Left:     left,
		Operator: operator,
		Right:    right,
	}, nil
}

func (p *Parser) parseUnary() (UnaryExpression, error) {
	top, err := p.peek()
	if err != nil {
		return nil, &lexer.ParseError{Message: "expected expression, got end of input"}
	}
	switch {
	case top.Tag == TagIdent:
		return p.parseVariable()
	case top.Tag == TagInteger:
		return p.parseLiteral()
	case top.Tag == TagSymbol && top.Value == "-":
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return UnaryNegationExpression{Line: top.Line, Column: top.Column, Exp: exp}, nil
	default:
		return nil, lexer.NewParseError(
			fmt.Sprintf("unexpected token %q, expected variable or integer", top.Value), top)
	}
}

func (p *Parser) parseVariable() (VariableExpression, error) {
	tok, err := p.next()
	if err != nil {
		return VariableExpression{}, &lexer.ParseError{Message: "expected variable, got end of input"}
	}
	if tok.Tag != TagIdent {
		return VariableExpression{}, lexer.NewParseError(
			fmt.Sprintf("unexpected token %q, expected a variable", tok.Value), tok)
	}
	return VariableExpression{Line: tok.Line, Column: tok.Column, Name: tok.Value}, nil
}

func (p *Parser) parseLiteral() (LiteralExpression, error) {
	tok, err := p.next()
	if err != nil {
		return LiteralExpression{}, &lexer.ParseError{Message: "expected integer, got end of input"}
	}
	if tok.Tag != TagInteger {
		return LiteralExpression{}, lexer.NewParseError(
			fmt.Sprintf("unexpected token %q, expected an integer", tok.Value), tok)
	}
	value, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return LiteralExpression{}, lexer.NewParseError(
			fmt.Sprintf("integer literal %q out of range", tok.Value), tok)
	}
	return LiteralExpression{Line: tok.Line, Column: tok.Column, Value: value}, nil
}

func (p *Parser) expectKeyword(kw Keyword) (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return lexer.Token{}, &lexer.ParseError{Message: fmt.Sprintf("expected %q, got end of input", kw)}
	}
	if tok.Tag != TagKeyword || tok.Value != string(kw) {
		return lexer.Token{}, lexer.NewParseError(
			fmt.Sprintf("unexpected token %q, expected %q", tok.Value, kw), tok)
	}
	return tok, nil
}

func (p *Parser) next() (lexer.Token, error) {
	return p.stream.Next()
}

func (p *Parser) peek() (lexer.Token, error) {
	return p.stream.Peek(1)
}
