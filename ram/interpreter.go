package ram

import (
	"fmt"

	"github.com/pkg/errors"
)

// ReadPolicy selects the behavior of READ past the end of the input tape.
type ReadPolicy int

const (
	// ReadPadZero treats squares past the end of the input tape as 0.
	ReadPadZero ReadPolicy = iota
	// ReadStrict fails with a ReadError instead.
	ReadStrict
)

// RAM models a one-accumulator random access machine: a read-only input tape,
// a write-only output tape, an immutable program, and an arbitrarily large
// set of integer registers. Register 0 is the accumulator.
//
// Register values are int64 and wrap on overflow, two's complement.
type RAM struct {
	Program         *Program
	InputTape       []int64
	ReadHead        int
	OutputTape      []int64
	Registers       map[int64]int64
	LocationCounter int
	Halted          bool
	StepCounter     uint64

	// MaxSteps bounds execution when non-zero; exceeding it fails with a
	// StepLimitError.
	MaxSteps uint64

	// Policy controls READ past the end of the input tape.
	Policy ReadPolicy

	// Trace, when set, records every executed instruction.
	Trace *ExecutionTrace
}

// New creates a machine for one execution of program on the given input tape.
func New(program *Program, input []int64) *RAM {
	return &RAM{
		Program:   program,
		InputTape: input,
		Registers: map[int64]int64{0: 0},
	}
}

// Reset returns the machine to its initial state, keeping the program, input
// tape and execution settings.
func (r *RAM) Reset() {
	r.ReadHead = 0
	r.OutputTape = nil
	r.Registers = map[int64]int64{0: 0}
	r.LocationCounter = 0
	r.Halted = false
	r.StepCounter = 0
}

// Run executes the program until it halts. It fails immediately with a
// HaltError when the machine has already halted.
func (r *RAM) Run() error {
	if r.Halted {
		return &HaltError{}
	}
	for !r.Halted {
		if err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step executes the next instruction and advances the location counter.
func (r *RAM) Step() error {
	if r.Halted {
		return &HaltError{}
	}
	if r.MaxSteps > 0 && r.StepCounter >= r.MaxSteps {
		return &StepLimitError{Limit: r.MaxSteps}
	}
	pc := r.LocationCounter
	if pc < 0 || pc >= len(r.Program.Instructions) {
		return &InternalError{Message: fmt.Sprintf("instruction fetch past end of program at %d", pc)}
	}
	inst := r.Program.Instructions[pc]
	next, err := r.dispatch(inst)
	if err != nil {
		return errors.Wrapf(err, "step %d at instruction %d (%s)", r.StepCounter, pc, inst)
	}
	r.LocationCounter = next
	r.StepCounter++
	if r.Trace != nil {
		r.Trace.Record(r, pc, inst)
	}
	return nil
}

// dispatch executes one instruction and returns the next location counter.
func (r *RAM) dispatch(inst Instruction) (int, error) {
	switch inst.Opcode {
	case LOAD:
		v, err := r.value(inst)
		if err != nil {
			return 0, err
		}
		r.setRegister(0, v)
		return r.LocationCounter + 1, nil

	case STORE:
		operand, err := r.operand(inst)
		if err != nil {
			return 0, err
		}
		target := operand.Value
		if operand.Flag == Indirect {
			if target, err = r.register(operand.Value); err != nil {
				return 0, err
			}
		}
		acc, err := r.register(0)
		if err != nil {
			return 0, err
		}
		r.setRegister(target, acc)
		return r.LocationCounter + 1, nil

	case ADD, SUB, MULT, DIV:
		v, err := r.value(inst)
		if err != nil {
			return 0, err
		}
		acc, err := r.register(0)
		if err != nil {
			return 0, err
		}
		switch inst.Opcode {
		case ADD:
			acc += v
		case SUB:
			acc -= v
		case MULT:
			acc *= v
		case DIV:
			if v == 0 {
				return 0, &DivisionByZeroError{Instruction: inst}
			}
			acc = floorDiv(acc, v)
		}
		r.setRegister(0, acc)
		return r.LocationCounter + 1, nil

	case READ:
		operand, err := r.operand(inst)
		if err != nil {
			return 0, err
		}
		var symbol int64
		if r.ReadHead < len(r.InputTape) {
			symbol = r.InputTape[r.ReadHead]
		} else if r.Policy == ReadStrict {
			return 0, &ReadError{ReadHead: r.ReadHead}
		}
		r.ReadHead++
		target := operand.Value
		if operand.Flag == Indirect {
			if target, err = r.register(operand.Value); err != nil {
				return 0, err
			}
		}
		r.setRegister(target, symbol)
		return r.LocationCounter + 1, nil

	case WRITE:
		v, err := r.value(inst)
		if err != nil {
			return 0, err
		}
		r.OutputTape = append(r.OutputTape, v)
		return r.LocationCounter + 1, nil

	case JUMP:
		return r.jumpIndex(inst)

	case JGTZ:
		acc, err := r.register(0)
		if err != nil {
			return 0, err
		}
		if acc > 0 {
			return r.jumpIndex(inst)
		}
		return r.LocationCounter + 1, nil

	case JZERO:
		acc, err := r.register(0)
		if err != nil {
			return 0, err
		}
		if acc == 0 {
			return r.jumpIndex(inst)
		}
		return r.LocationCounter + 1, nil

	case HALT:
		r.Halted = true
		return r.LocationCounter, nil

	default:
		return 0, &InternalError{Message: fmt.Sprintf("unknown opcode %q", inst.Opcode)}
	}
}

// register returns c(i), failing on a register that was never written.
func (r *RAM) register(i int64) (int64, error) {
	v, ok := r.Registers[i]
	if !ok {
		return 0, &RegisterError{Register: i}
	}
	return v, nil
}

// setRegister performs c(i) ← v.
func (r *RAM) setRegister(i, v int64) {
	r.Registers[i] = v
}

// value evaluates v(a) for the instruction's operand: the literal itself, a
// register value, or an indirect register value.
func (r *RAM) value(inst Instruction) (int64, error) {
	operand, err := r.operand(inst)
	if err != nil {
		return 0, err
	}
	switch operand.Flag {
	case Literal:
		return operand.Value, nil
	case Indirect:
		i, err := r.register(operand.Value)
		if err != nil {
			return 0, err
		}
		return r.register(i)
	default:
		return r.register(operand.Value)
	}
}

// operand extracts the Operand address of a non-jump instruction.
func (r *RAM) operand(inst Instruction) (Operand, error) {
	operand, ok := inst.Address.(Operand)
	if !ok {
		return Operand{}, &InternalError{Message: fmt.Sprintf("%s has no operand address", inst)}
	}
	return operand, nil
}

// jumpIndex resolves the instruction's jump target through the jumptable.
func (r *RAM) jumpIndex(inst Instruction) (int, error) {
	target, ok := inst.Address.(JumpTarget)
	if !ok {
		return 0, &InternalError{Message: fmt.Sprintf("%s has no jump target", inst)}
	}
	index, ok := r.Program.Jumptable[target]
	if !ok {
		return 0, &InternalError{Message: fmt.Sprintf("jump to unresolved label %q", target.Value)}
	}
	return index, nil
}

// floorDiv divides truncating toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
