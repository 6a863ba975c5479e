package ram

import "fmt"

// HaltError reports an attempt to step or run a machine that has already
// halted.
type HaltError struct{}

func (e *HaltError) Error() string {
	return "attempt to step halted machine"
}

// ReadError reports a READ past the end of the input tape under the strict
// read policy.
type ReadError struct {
	ReadHead int
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read past end of input tape at position %d", e.ReadHead)
}

// RegisterError reports a read from a register that was never written.
type RegisterError struct {
	Register int64
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("read from uninitialized memory register %d", e.Register)
}

// DivisionByZeroError reports a DIV whose operand evaluated to zero.
type DivisionByZeroError struct {
	Instruction Instruction
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero in %s", e.Instruction)
}

// StepLimitError reports that execution exceeded the configured step limit.
type StepLimitError struct {
	Limit uint64
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step limit of %d exceeded", e.Limit)
}

// InternalError reports a machine fault: a jump to an unresolved label or an
// instruction fetch past the end of the program.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return e.Message
}
