// Package errors provides contextual error handling for the HIVE
// optimization server: errors carry the component and operation they came
// from plus a stack trace, for structured logging of failed jobs.
package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// Error is an error annotated with where it happened.
type Error struct {
	Err       error
	Message   string
	Operation string
	Component string
	Stack     []string
}

// Error implements the error interface. The rendered form is
// "message: component=..., operation=...: cause", with empty parts omitted.
func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	var where []string
	if e.Operation != "" {
		where = append(where, "operation="+e.Operation)
	}
	if e.Component != "" {
		where = append(where, "component="+e.Component)
	}
	if len(where) > 0 {
		parts = append(parts, strings.Join(where, ", "))
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithMessage sets the message and returns the error for chaining.
func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

// WithOperation sets the failing operation and returns the error for chaining.
func (e *Error) WithOperation(op string) *Error {
	e.Operation = op
	return e
}

// WithComponent sets the originating component and returns the error for
// chaining.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// StackTrace returns the stack captured when the error was created.
func (e *Error) StackTrace() []string {
	return e.Stack
}

// New creates an Error with a message and the current stack.
func New(msg string) *Error {
	return &Error{Message: msg, Stack: capture()}
}

// Errorf creates an Error with a formatted message and the current stack.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Stack: capture()}
}

// Wrap annotates err with msg. A nil err yields nil; an err that is already
// an *Error keeps its original stack.
func Wrap(err error, msg string) *Error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		e = &Error{Err: err, Stack: capture()}
	}
	if msg != "" {
		e.Message = msg
	}
	return e
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// capture records the caller stack, skipping runtime frames and this package.
func capture() []string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]string, 0, n)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") && !strings.Contains(frame.File, "internal/errors") {
			stack = append(stack, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return stack
}
