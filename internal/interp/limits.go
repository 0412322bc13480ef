package interp

import "fmt"

// LimitKind identifies which execution limit was exceeded.
type LimitKind string

const (
	LimitIterations LimitKind = "iterations"
	LimitRecursion  LimitKind = "recursion"
)

// LimitError reports that an execution limit was exceeded. It is the
// recoverable error class: it carries the output accumulated up to the
// abort so the host can surface partial results.
type LimitError struct {
	Kind          LimitKind
	PartialOutput string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("execution %s limit exceeded", e.Kind)
}

// RuntimeError is the fatal error class: it aborts the whole run and is
// not recoverable. Division and modulo by zero in the plain operator
// form raise it.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s", e.Message)
}

func runtimeErrorf(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// countStep charges one unit against the iteration limit. The statement
// executor calls it for every executed statement and loop back-edge;
// this is the cooperative cancellation point for scripts stuck in loops
// that never recurse.
func (ctx *Context) countStep() error {
	if ctx.maxSteps < 0 {
		return nil
	}
	ctx.steps++
	if ctx.steps > ctx.maxSteps {
		return &LimitError{Kind: LimitIterations, PartialOutput: ctx.out.String()}
	}
	return nil
}

// enterCall charges one level against the recursion limit.
func (ctx *Context) enterCall() error {
	ctx.depth++
	if ctx.maxDepth >= 0 && ctx.depth > ctx.maxDepth {
		ctx.depth--
		return &LimitError{Kind: LimitRecursion, PartialOutput: ctx.out.String()}
	}
	return nil
}

// leaveCall undoes enterCall.
func (ctx *Context) leaveCall() {
	ctx.depth--
}
