package palgol

import (
	"fmt"
	"io"

	"github.com/lookbusy1344/ram-machine/ram"
)

// conditionAction describes how one comparison operator lowers to a single
// test against the accumulator: whether the difference is negated first,
// whether the conditional jump targets the body or past it, and which branch
// opcode performs the test.
type conditionAction struct {
	withMult   bool
	jumpToBody bool
	jumper     ram.Opcode
}

var conditionActions = map[BinaryOperator]conditionAction{
	OpEquals:    {withMult: false, jumpToBody: true, jumper: ram.JZERO},
	OpNotEquals: {withMult: false, jumpToBody: false, jumper: ram.JZERO},
	OpLess:      {withMult: true, jumpToBody: true, jumper: ram.JGTZ},
	OpLessEq:    {withMult: false, jumpToBody: false, jumper: ram.JGTZ},
	OpGreater:   {withMult: false, jumpToBody: true, jumper: ram.JGTZ},
	OpGreaterEq: {withMult: true, jumpToBody: false, jumper: ram.JGTZ},
}

var (
	literalZero = ram.Operand{Value: 0, Flag: ram.Literal}
	literalOne  = ram.Operand{Value: 1, Flag: ram.Literal}
	multNegOne  = ram.Instruction{Opcode: ram.MULT, Address: ram.Operand{Value: -1, Flag: ram.Literal}}
)

// Compiler lowers a Pidgin ALGOL AST to a RAM program. Variables bind to
// registers in first-appearance order starting at register 1; register 0 is
// the accumulator. Temporaries share the variable map under synthetic names.
type Compiler struct {
	varMap           map[string]int
	jumptable        map[ram.JumpTarget]int
	reverseJumptable map[int]ram.JumpTarget
	pc               int
	ifCounter        int
	whileCounter     int
	compCounter      int
}

// NewCompiler creates a compiler. A single compiler may be reused; state is
// reset at the start of every Compile call.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile reads Pidgin ALGOL source from r, parses it and lowers it.
func Compile(r io.Reader) (*ram.Program, error) {
	ast, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return NewCompiler().Compile(ast)
}

// CompileString compiles in-memory Pidgin ALGOL source.
func CompileString(s string) (*ram.Program, error) {
	ast, err := ParseString(s)
	if err != nil {
		return nil, err
	}
	return NewCompiler().Compile(ast)
}

// Compile lowers the AST to a RAM program, appending the trailing HALT.
func (c *Compiler) Compile(ast *AST) (*ram.Program, error) {
	c.varMap = make(map[string]int)
	c.jumptable = make(map[ram.JumpTarget]int)
	c.reverseJumptable = make(map[int]ram.JumpTarget)
	c.pc = 0
	c.ifCounter = 0
	c.whileCounter = 0
	c.compCounter = 0

	instructions, err := c.compileStatement(ast.Head)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, ram.Instruction{Opcode: ram.HALT})
	c.pc++

	jumptable := make(map[ram.JumpTarget]int, len(c.jumptable))
	for target, index := range c.jumptable {
		jumptable[target] = index
	}
	return &ram.Program{Instructions: instructions, Jumptable: jumptable}, nil
}

func (c *Compiler) compileStatement(statement Statement) ([]ram.Instruction, error) {
	switch s := statement.(type) {
	case BlockStatement:
		return c.compileBlock(s)
	case ReadStatement:
		inst := c.compileRead(s)
		c.pc++
		return []ram.Instruction{inst}, nil
	case WriteStatement:
		inst, err := c.compileWrite(s)
		if err != nil {
			return nil, err
		}
		c.pc++
		return []ram.Instruction{inst}, nil
	case IfStatement:
		return c.compileIf(s)
	case WhileStatement:
		return c.compileWhile(s)
	case AssignmentStatement:
		return c.compileAssignment(s)
	default:
		return nil, newCompileError("unknown statement %s", statement.Serialize())
	}
}

func (c *Compiler) compileBlock(block BlockStatement) ([]ram.Instruction, error) {
	var instructions []ram.Instruction
	for _, stmt := range block.Statements {
		insts, err := c.compileStatement(stmt)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, insts...)
	}
	return instructions, nil
}

func (c *Compiler) compileRead(s ReadStatement) ram.Instruction {
	register := c.register(s.Variable.Name)
	return ram.Instruction{
		Opcode:  ram.READ,
		Address: ram.Operand{Value: int64(register), Flag: ram.Direct},
	}
}

func (c *Compiler) compileWrite(s WriteStatement) (ram.Instruction, error) {
	switch value := s.Value.(type) {
	case LiteralExpression:
		return ram.Instruction{
			Opcode:  ram.WRITE,
			Address: ram.Operand{Value: value.Value, Flag: ram.Literal},
		}, nil
	case VariableExpression:
		register := c.register(value.Name)
		return ram.Instruction{
			Opcode:  ram.WRITE,
			Address: ram.Operand{Value: int64(register), Flag: ram.Direct},
		}, nil
	default:
		return ram.Instruction{}, newCompileError("write takes a variable or literal, got %s", s.Value.Serialize())
	}
}

// buildCondition lowers a statement condition into instructions ending in a
// single test against the accumulator. When the condition is not a
// comparison it is treated as condition ≠ 0. When jumpToBody is set the
// conditional jump to the body is emitted here and the caller appends an
// unconditional JUMP to the else/exit label; otherwise the caller appends the
// action's conditional jumper to the else/exit label.
func (c *Compiler) buildCondition(condition Expression, bodyLabel string) ([]ram.Instruction, conditionAction, error) {
	var insts []ram.Instruction
	var action conditionAction
	var err error

	if cmp, ok := condition.(BinaryExpression); ok && cmp.Operator.IsComparison() {
		if isZero(cmp.Right) {
			insts, err = c.compileExpression(cmp.Left)
		} else {
			diff := BinaryExpression{
				Line:     cmp.Line,
				Column:   cmp.Column,
				Left:     cmp.Left,
				Operator: OpMinus,
				Right:    cmp.Right,
			}
			insts, err = c.compileExpression(diff)
		}
		action = conditionActions[cmp.Operator]
	} else {
		insts, err = c.compileExpression(condition)
		action = conditionActions[OpNotEquals]
	}
	if err != nil {
		return nil, conditionAction{}, err
	}

	if action.withMult {
		insts = append(insts, multNegOne)
		c.pc++
	}

	if action.jumpToBody {
		// Two slots: the conditional jump to the body here, and the
		// unconditional jump to else/end added by the caller.
		c.pc += 2
		target := c.updateJumptable(bodyLabel)
		insts = append(insts, ram.Instruction{Opcode: action.jumper, Address: target})
	} else {
		// One slot for the caller's jump to else/end.
		c.pc++
	}

	return insts, action, nil
}

func (c *Compiler) compileIf(s IfStatement) ([]ram.Instruction, error) {
	c.ifCounter++
	ic := c.ifCounter

	condInsts, action, err := c.buildCondition(s.Condition, fmt.Sprintf("if%d", ic))
	if err != nil {
		return nil, err
	}

	trueInsts, err := c.compileStatement(s.TrueBody)
	if err != nil {
		return nil, err
	}

	var elseInsts []ram.Instruction

	if s.ElseBody != nil {
		// The true body needs a trailing jump over the else body.
		c.pc++

		target := c.updateJumptable(fmt.Sprintf("else%d", ic))
		if action.jumpToBody {
			condInsts = append(condInsts, ram.Instruction{Opcode: ram.JUMP, Address: target})
		} else {
			condInsts = append(condInsts, ram.Instruction{Opcode: action.jumper, Address: target})
		}

		if elseInsts, err = c.compileStatement(s.ElseBody); err != nil {
			return nil, err
		}

		target = c.updateJumptable(fmt.Sprintf("endif%d", ic))
		trueInsts = append(trueInsts, ram.Instruction{Opcode: ram.JUMP, Address: target})
	} else {
		target := c.updateJumptable(fmt.Sprintf("endif%d", ic))
		if action.jumpToBody {
			condInsts = append(condInsts, ram.Instruction{Opcode: ram.JUMP, Address: target})
		} else {
			condInsts = append(condInsts, ram.Instruction{Opcode: action.jumper, Address: target})
		}
	}

	out := append(condInsts, trueInsts...)
	return append(out, elseInsts...), nil
}

func (c *Compiler) compileWhile(s WhileStatement) ([]ram.Instruction, error) {
	c.whileCounter++
	wc := c.whileCounter

	whileTarget := c.updateJumptable(fmt.Sprintf("while%d", wc))

	condInsts, action, err := c.buildCondition(s.Condition, fmt.Sprintf("continue%d", wc))
	if err != nil {
		return nil, err
	}

	bodyInsts, err := c.compileStatement(s.Body)
	if err != nil {
		return nil, err
	}

	bodyInsts = append(bodyInsts, ram.Instruction{Opcode: ram.JUMP, Address: whileTarget})
	c.pc++

	endTarget := c.updateJumptable(fmt.Sprintf("endwhile%d", wc))
	if action.jumpToBody {
		condInsts = append(condInsts, ram.Instruction{Opcode: ram.JUMP, Address: endTarget})
	} else {
		condInsts = append(condInsts, ram.Instruction{Opcode: action.jumper, Address: endTarget})
	}

	return append(condInsts, bodyInsts...), nil
}

func (c *Compiler) compileAssignment(s AssignmentStatement) ([]ram.Instruction, error) {
	insts, err := c.compileExpression(s.Expression)
	if err != nil {
		return nil, err
	}
	register := c.register(s.Variable.Name)
	insts = append(insts, ram.Instruction{
		Opcode:  ram.STORE,
		Address: ram.Operand{Value: int64(register), Flag: ram.Direct},
	})
	c.pc++
	return insts, nil
}

func (c *Compiler) compileExpression(exp Expression) ([]ram.Instruction, error) {
	switch e := exp.(type) {
	case LiteralExpression:
		c.pc++
		return []ram.Instruction{{
			Opcode:  ram.LOAD,
			Address: ram.Operand{Value: e.Value, Flag: ram.Literal},
		}}, nil

	case VariableExpression:
		register := c.register(e.Name)
		c.pc++
		return []ram.Instruction{{
			Opcode:  ram.LOAD,
			Address: ram.Operand{Value: int64(register), Flag: ram.Direct},
		}}, nil

	case UnaryNegationExpression:
		if lit, ok := e.Exp.(LiteralExpression); ok {
			c.pc++
			return []ram.Instruction{{
				Opcode:  ram.LOAD,
				Address: ram.Operand{Value: -lit.Value, Flag: ram.Literal},
			}}, nil
		}
		insts, err := c.compileExpression(e.Exp)
		if err != nil {
			return nil, err
		}
		c.pc++
		return append(insts, multNegOne), nil

	case BinaryExpression:
		return c.compileBinary(e)

	default:
		return nil, newCompileError("unknown expression %s", exp.Serialize())
	}
}

func (c *Compiler) compileBinary(exp BinaryExpression) ([]ram.Instruction, error) {
	var insts []ram.Instruction
	var address ram.Operand

	// A literal or variable right operand becomes the operand of the
	// combining instruction directly; anything else is computed into a
	// fresh temporary first.
	switch right := exp.Right.(type) {
	case LiteralExpression:
		address = ram.Operand{Value: right.Value, Flag: ram.Literal}
	case VariableExpression:
		address = ram.Operand{Value: int64(c.register(right.Name)), Flag: ram.Direct}
	default:
		rightInsts, err := c.compileExpression(exp.Right)
		if err != nil {
			return nil, err
		}
		insts = append(insts, rightInsts...)

		register := c.reserveRegister()
		address = ram.Operand{Value: int64(register), Flag: ram.Direct}
		insts = append(insts, ram.Instruction{Opcode: ram.STORE, Address: address})
		c.pc++
	}

	leftInsts, err := c.compileExpression(exp.Left)
	if err != nil {
		return nil, err
	}
	insts = append(insts, leftInsts...)

	switch {
	case exp.Operator.IsComparison():
		cmpInsts := c.compileComparison(exp, address)
		return append(insts, cmpInsts...), nil
	case exp.Operator.IsArithmetic():
		arithInsts, err := c.compileArithmetic(exp, address)
		if err != nil {
			return nil, err
		}
		return append(insts, arithInsts...), nil
	default:
		return nil, newCompileError("invalid binary operator %s in %s", exp.Operator, exp.Serialize())
	}
}

// compileComparison materializes a comparison at expression position as a 0/1
// value in the accumulator: branch with the operator's jumper to cmp<k>. When
// the taken jump means the comparison holds (jumpToBody), cmp<k> loads 1 and
// the fall-through path loads 0; otherwise cmp<k> loads 0 and the
// fall-through path loads 1.
func (c *Compiler) compileComparison(exp BinaryExpression, address ram.Operand) []ram.Instruction {
	var insts []ram.Instruction
	c.compCounter++
	cc := c.compCounter

	if !isZero(exp.Right) {
		insts = append(insts, ram.Instruction{Opcode: ram.SUB, Address: address})
		c.pc++
	}

	action := conditionActions[exp.Operator]
	if action.withMult {
		insts = append(insts, multNegOne)
		c.pc++
	}

	loadFallthrough := literalOne
	loadTarget := literalZero
	if action.jumpToBody {
		loadFallthrough = literalZero
		loadTarget = literalOne
	}

	c.pc += 3
	target := c.updateJumptable(fmt.Sprintf("cmp%d", cc))
	insts = append(insts,
		ram.Instruction{Opcode: action.jumper, Address: target},
		ram.Instruction{Opcode: ram.LOAD, Address: loadFallthrough})

	c.pc++
	target = c.updateJumptable(fmt.Sprintf("endcmp%d", cc))
	insts = append(insts,
		ram.Instruction{Opcode: ram.JUMP, Address: target},
		ram.Instruction{Opcode: ram.LOAD, Address: loadTarget})

	return insts
}

func (c *Compiler) compileArithmetic(exp BinaryExpression, address ram.Operand) ([]ram.Instruction, error) {
	var insts []ram.Instruction
	rightIsZero := isZero(exp.Right)

	switch exp.Operator {
	case OpPlus, OpMinus:
		if !rightIsZero {
			opcode := ram.ADD
			if exp.Operator == OpMinus {
				opcode = ram.SUB
			}
			insts = append(insts, ram.Instruction{Opcode: opcode, Address: address})
			c.pc++
		}
	case OpMult:
		if rightIsZero {
			insts = append(insts, ram.Instruction{Opcode: ram.LOAD, Address: literalZero})
		} else {
			insts = append(insts, ram.Instruction{Opcode: ram.MULT, Address: address})
		}
		c.pc++
	case OpDiv:
		if rightIsZero {
			line, column := exp.Pos()
			return nil, &CompileError{
				Message: fmt.Sprintf("attempt to divide by literal 0 in %s", exp.Serialize()),
				Line:    line,
				Column:  column,
			}
		}
		insts = append(insts, ram.Instruction{Opcode: ram.DIV, Address: address})
		c.pc++
	default:
		return nil, newCompileError("invalid arithmetic operator %s in %s", exp.Operator, exp.Serialize())
	}
	return insts, nil
}

// register returns the register bound to name, binding the next free register
// on first appearance.
func (c *Compiler) register(name string) int {
	if register, ok := c.varMap[name]; ok {
		return register
	}
	register := len(c.varMap) + 1
	c.varMap[name] = register
	return register
}

// reserveRegister allocates a temporary under a synthetic name in the same
// register namespace as variables.
func (c *Compiler) reserveRegister() int {
	register := len(c.varMap) + 1
	c.varMap[fmt.Sprintf("<reserved %d>", register)] = register
	return register
}

// updateJumptable returns the label already installed at the current pc, or
// creates one with the suggested name and installs it in both directions.
func (c *Compiler) updateJumptable(suggested string) ram.JumpTarget {
	if target, ok := c.reverseJumptable[c.pc]; ok {
		return target
	}
	target := ram.JumpTarget{Value: suggested}
	c.jumptable[target] = c.pc
	c.reverseJumptable[c.pc] = target
	return target
}

// isZero reports whether exp is the literal 0.
func isZero(exp Expression) bool {
	lit, ok := exp.(LiteralExpression)
	return ok && lit.Value == 0
}
