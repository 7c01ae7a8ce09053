package interpreter

import (
	"errors"
	"fmt"

	"github.com/orizon-lang/quill/internal/position"
)

// RuntimeError is an error raised while a program runs, located at the
// piece of source that caused it.
type RuntimeError struct {
	Span    position.Span
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

func newRuntimeError(span position.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Span: span, Message: fmt.Sprintf(format, args...)}
}

// asRuntimeError returns err as a RuntimeError, locating errors that carry
// no position of their own at fallback.
func asRuntimeError(err error, fallback position.Span) *RuntimeError {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr
	}
	return &RuntimeError{Span: fallback, Message: err.Error()}
}
