package errors

import (
	"fmt"

	"github.com/go-stack/stack"

	"carlos/internal/ast"
)

// InternalError reports a construct the compiler has no handling for. It
// always indicates a bug upstream of the phase that raised it.
type InternalError struct {
	Message  string
	Position ast.Position
	Call     stack.Call
}

// NewInternalError records the caller of NewInternalError as the origin.
func NewInternalError(pos ast.Position, format string, args ...interface{}) *InternalError {
	return NewInternalErrorSkip(1, pos, format, args...)
}

// NewInternalErrorSkip is NewInternalError for use inside reporting
// helpers: skip counts the frames above the caller to attribute the error
// to, so a helper passes 1 to record its own caller.
func NewInternalErrorSkip(skip int, pos ast.Position, format string, args ...interface{}) *InternalError {
	return &InternalError{
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		Call:     stack.Caller(skip + 1),
	}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal compiler error at %+v: %s", e.Call, e.Message)
}

// Diagnostic converts the error for reporting alongside semantic errors.
func (e *InternalError) Diagnostic() CompilerError {
	return NewSemanticError(ErrorInternal, Message(ErrorInternal, e.Message), e.Position).
		WithNote(fmt.Sprintf("raised in %n (%v)", e.Call, e.Call)).
		Build()
}
