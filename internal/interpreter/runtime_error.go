package interpreter

import "github.com/sdecook/glox/internal/token"

// RuntimeError is raised by an evaluation step that fails at run time. It
// carries the token identifying the faulting location so the diagnostic
// sink can report a position.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// controlReturn carries a `return` statement's value up the Go call stack to
// the enclosing Function.Call. It implements error so it can travel through
// ordinary (value, error) returns, but it is never reported to a diagnostic
// sink — callers must type-assert for it before treating an error as real.
type controlReturn struct {
	value any
}

func (c *controlReturn) Error() string { return "uncaught return outside a function" }
