package importexport

import (
	"fmt"
	"strings"
)

// ErrorSeparator joins accumulated session diagnostics into one message.
const ErrorSeparator = ", "

// Error is returned by an export that failed in one of its stages. Its
// message is the session's diagnostics joined with ErrorSeparator.
type Error struct {
	Messages []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return strings.Join(e.Messages, ErrorSeparator)
}

// NewError creates an Error from the given diagnostics.
func NewError(messages []string) *Error {
	out := make([]string, len(messages))
	copy(out, messages)
	return &Error{Messages: out}
}

// StageError wraps a failure raised inside a stage with the stage name.
// Stages record it in Shared; it never escapes a stage.
type StageError struct {
	Stage string
	Cause error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// NewStageError creates a new StageError.
func NewStageError(stage string, cause error) *StageError {
	return &StageError{
		Stage: stage,
		Cause: cause,
	}
}
