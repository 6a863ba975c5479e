package palgol

import "fmt"

// CompileError reports an AST construct the compiler cannot lower, such as an
// operator in an invalid context or a division by a literal zero.
type CompileError struct {
	Message string
	Line    int
	Column  int
}

func (e *CompileError) Error() string {
	if e.Line > 0 || e.Column > 0 {
		return fmt.Sprintf("%s at L%d:C%d", e.Message, e.Line, e.Column)
	}
	return e.Message
}

// newCompileError creates a CompileError with a formatted message and no
// source position.
func newCompileError(format string, args ...interface{}) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...)}
}
