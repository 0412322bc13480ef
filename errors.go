package sawk

import (
	"fmt"
)

// ParseError represents a syntax error in program source code.
type ParseError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number
	Message string // Error description
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// RuntimeError represents a fatal error during execution, such as
// division by zero. The run is aborted and cannot be resumed.
type RuntimeError struct {
	Message string // Error description
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s", e.Message)
}

// LimitError reports that an execution limit was exceeded. Unlike
// RuntimeError it is a structured, recoverable condition: PartialOutput
// holds everything the program printed before the abort, so a host can
// surface the partial result alongside the limit diagnosis.
type LimitError struct {
	Kind          string // "iterations" or "recursion"
	PartialOutput string // output accumulated before the abort
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("execution %s limit exceeded", e.Kind)
}

// IsLimitError reports whether err is a LimitError.
// Returns (err, true) if it is, or (nil, false) otherwise.
func IsLimitError(err error) (*LimitError, bool) {
	if e, ok := err.(*LimitError); ok {
		return e, true
	}
	return nil, false
}

// ExitError represents a normal exit with a non-zero status code.
// This is not a failure; it indicates the program called exit with the
// given status.
type ExitError struct {
	Code int // Exit status code
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// IsExitError reports whether err is an ExitError and returns the exit code.
// Returns (code, true) if err is an ExitError, or (0, false) otherwise.
func IsExitError(err error) (int, bool) {
	if e, ok := err.(*ExitError); ok {
		return e.Code, true
	}
	return 0, false
}
