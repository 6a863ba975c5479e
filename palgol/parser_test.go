package palgol

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/ram-machine/lexer"
)

func TestParseReadWrite(t *testing.T) {
	ast, err := ParseString("begin read x; write x end")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	block, ok := ast.Head.(BlockStatement)
	if !ok {
		t.Fatalf("Expected BlockStatement, got %T", ast.Head)
	}
	if len(block.Statements) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(block.Statements))
	}

	read, ok := block.Statements[0].(ReadStatement)
	if !ok || read.Variable.Name != "x" {
		t.Errorf("Expected read x, got %v", block.Statements[0])
	}
	write, ok := block.Statements[1].(WriteStatement)
	if !ok {
		t.Fatalf("Expected WriteStatement, got %T", block.Statements[1])
	}
	if v, ok := write.Value.(VariableExpression); !ok || v.Name != "x" {
		t.Errorf("Expected write x, got %s", write.Serialize())
	}
}

func TestParseWriteLiteral(t *testing.T) {
	ast, err := ParseString("write 42")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	write := ast.Head.(WriteStatement)
	if lit, ok := write.Value.(LiteralExpression); !ok || lit.Value != 42 {
		t.Errorf("Expected write 42, got %s", write.Serialize())
	}
}

func TestParseWriteRejectsNegation(t *testing.T) {
	if _, err := ParseString("write -x"); err == nil {
		t.Error("Expected parse error for write of a negation")
	}
}

func TestParseAssignmentSynonym(t *testing.T) {
	for _, arrow := range []string{"←", "<-"} {
		ast, err := ParseString("x " + arrow + " 1")
		if err != nil {
			t.Fatalf("%q: parse failed: %v", arrow, err)
		}
		assign, ok := ast.Head.(AssignmentStatement)
		if !ok || assign.Variable.Name != "x" {
			t.Errorf("%q: expected assignment to x, got %v", arrow, ast.Head)
		}
	}
}

func TestParseIfElse(t *testing.T) {
	ast, err := ParseString("if x < y then write 1 else write 2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	stmt := ast.Head.(IfStatement)

	cond, ok := stmt.Condition.(BinaryExpression)
	if !ok || cond.Operator != OpLess {
		t.Errorf("Expected condition x < y, got %s", stmt.Condition.Serialize())
	}
	if stmt.ElseBody == nil {
		t.Error("Expected else body")
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	ast, err := ParseString("if x then write 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	stmt := ast.Head.(IfStatement)
	if _, ok := stmt.Condition.(VariableExpression); !ok {
		t.Errorf("Expected bare variable condition, got %s", stmt.Condition.Serialize())
	}
	if stmt.ElseBody != nil {
		t.Error("Expected no else body")
	}
}

func TestParseWhile(t *testing.T) {
	ast, err := ParseString("while x > 0 do x ← x - 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	stmt := ast.Head.(WhileStatement)
	if _, ok := stmt.Body.(AssignmentStatement); !ok {
		t.Errorf("Expected assignment body, got %T", stmt.Body)
	}
}

func TestParseRightAssociativity(t *testing.T) {
	ast, err := ParseString("x ← 1 - 2 - 3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	assign := ast.Head.(AssignmentStatement)
	outer := assign.Expression.(BinaryExpression)
	// No precedence: 1 - (2 - 3).
	if _, ok := outer.Left.(LiteralExpression); !ok {
		t.Errorf("Expected literal on the left, got %s", outer.Left.Serialize())
	}
	if _, ok := outer.Right.(BinaryExpression); !ok {
		t.Errorf("Expected nested binary on the right, got %s", outer.Right.Serialize())
	}
}

func TestParseNegation(t *testing.T) {
	ast, err := ParseString("x ← -y")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	assign := ast.Head.(AssignmentStatement)
	neg, ok := assign.Expression.(UnaryNegationExpression)
	if !ok {
		t.Fatalf("Expected negation, got %T", assign.Expression)
	}
	if v, ok := neg.Exp.(VariableExpression); !ok || v.Name != "y" {
		t.Errorf("Expected -y, got %s", neg.Serialize())
	}
}

func TestParseTrailingSemicolon(t *testing.T) {
	ast, err := ParseString("begin read x; write x; end")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	block := ast.Head.(BlockStatement)
	if len(block.Statements) != 2 {
		t.Errorf("Expected 2 statements, got %d", len(block.Statements))
	}
}

func TestParseUnterminatedBlock(t *testing.T) {
	_, err := ParseString("begin read x;\n  begin write x")
	perr, ok := err.(*lexer.ParseError)
	if !ok {
		t.Fatalf("Expected *lexer.ParseError, got %v", err)
	}
	if !strings.Contains(perr.Message, "unterminated block") {
		t.Errorf("Expected unterminated block message, got %q", perr.Message)
	}
	// The error points at the innermost open begin.
	if perr.Line != 1 || perr.Column != 2 {
		t.Errorf("Expected error at L1:C2, got L%d:C%d", perr.Line, perr.Column)
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseString("begin read 5 end")
	perr, ok := err.(*lexer.ParseError)
	if !ok {
		t.Fatalf("Expected *lexer.ParseError, got %v", err)
	}
	if perr.Line != 0 || perr.Column != 11 {
		t.Errorf("Expected error at L0:C11, got L%d:C%d", perr.Line, perr.Column)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	ast, err := ParseString(nPowNSource)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	again, err := ParseString(ast.Serialize())
	if err != nil {
		t.Fatalf("Re-parse failed:\n%s\n%v", ast.Serialize(), err)
	}
	if ast.Serialize() != again.Serialize() {
		t.Errorf("Serialization not stable:\n%s\n--\n%s", ast.Serialize(), again.Serialize())
	}
}
