// Package ram implements the random access machine: the instruction model,
// the textual program codec, and the interpreter that executes a program
// against an input tape.
package ram

import (
	"fmt"
	"sort"
	"strings"
)

// Opcode identifies a RAM instruction.
type Opcode string

const (
	LOAD  Opcode = "LOAD"
	STORE Opcode = "STORE"
	ADD   Opcode = "ADD"
	SUB   Opcode = "SUB"
	MULT  Opcode = "MULT"
	DIV   Opcode = "DIV"
	READ  Opcode = "READ"
	WRITE Opcode = "WRITE"
	JUMP  Opcode = "JUMP"
	JGTZ  Opcode = "JGTZ"
	JZERO Opcode = "JZERO"
	HALT  Opcode = "HALT"
)

// Opcodes lists every opcode in canonical order.
var Opcodes = []Opcode{LOAD, STORE, ADD, SUB, MULT, DIV, READ, WRITE, JUMP, JGTZ, JZERO, HALT}

// IsJump reports whether the opcode takes a JumpTarget address.
func (o Opcode) IsJump() bool {
	return o == JUMP || o == JGTZ || o == JZERO
}

// Valid reports whether o is a known opcode.
func (o Opcode) Valid() bool {
	for _, op := range Opcodes {
		if o == op {
			return true
		}
	}
	return false
}

// OperandFlag selects the addressing mode of an operand.
type OperandFlag int

const (
	Direct   OperandFlag = iota // register number
	Literal                     // the integer itself, written "=i"
	Indirect                    // register named by register i, written "*i"
)

func (f OperandFlag) String() string {
	switch f {
	case Literal:
		return "="
	case Indirect:
		return "*"
	default:
		return ""
	}
}

// Address is the parsed operand of an instruction: an Operand for memory and
// arithmetic opcodes, or a JumpTarget for jumps.
type Address interface {
	fmt.Stringer
	isAddress()
}

// Operand is an integer address with an addressing mode.
type Operand struct {
	Value int64
	Flag  OperandFlag
}

func (Operand) isAddress() {}

func (o Operand) String() string {
	return fmt.Sprintf("%s%d", o.Flag, o.Value)
}

// JumpTarget is a symbolic label referenced by a jump instruction.
type JumpTarget struct {
	Value string
}

func (JumpTarget) isAddress() {}

func (t JumpTarget) String() string {
	return t.Value
}

// Instruction is a single RAM instruction. Address is nil only for HALT.
type Instruction struct {
	Opcode  Opcode
	Address Address
}

func (i Instruction) String() string {
	if i.Address == nil {
		return string(i.Opcode)
	}
	return fmt.Sprintf("%s %s", i.Opcode, i.Address)
}

// Program is an immutable RAM program: an instruction sequence indexed from 0
// and a jumptable resolving labels to instruction indexes.
type Program struct {
	Instructions []Instruction
	Jumptable    map[JumpTarget]int
}

// Labels returns the jumptable inverted to instruction order. When several
// labels alias one index, the lexicographically smallest wins, keeping
// serialization deterministic.
func (p *Program) Labels() map[int]JumpTarget {
	targets := make([]JumpTarget, 0, len(p.Jumptable))
	for t := range p.Jumptable {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Value < targets[j].Value })
	labels := make(map[int]JumpTarget, len(targets))
	for _, t := range targets {
		index := p.Jumptable[t]
		if _, taken := labels[index]; !taken {
			labels[index] = t
		}
	}
	return labels
}

// Serialize renders the program in canonical textual form: a label column
// wide enough for the longest label plus ": ", the opcode in a 7-column
// field, then the address. Labels are emitted in instruction order.
func (p *Program) Serialize() string {
	pad := 0
	for t := range p.Jumptable {
		if n := len(t.Value) + 3; n > pad {
			pad = n
		}
	}
	labels := p.Labels()

	lines := make([]string, 0, len(p.Instructions))
	for index, inst := range p.Instructions {
		label := ""
		if t, ok := labels[index]; ok {
			label = t.Value + ":"
		}
		address := ""
		if inst.Address != nil {
			address = inst.Address.String()
		}
		line := fmt.Sprintf("%-*s%-7s%s", pad, label, inst.Opcode, address)
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n")
}

func (p *Program) String() string {
	return p.Serialize()
}
