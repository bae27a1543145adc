// Package interpreter walks a resolved AST, evaluating expressions and
// executing statements against a chain of environment frames.
package interpreter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sdecook/glox/internal/ast"
	"github.com/sdecook/glox/internal/diagnostics"
	"github.com/sdecook/glox/internal/resolver"
	"github.com/sdecook/glox/internal/token"
)

// Interpreter holds the global frame, the current frame, the resolver's
// side table, and the sink runtime errors are reported to.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  resolver.Locals
	sink    diagnostics.Sink
	stdout  io.Writer
}

// New returns an Interpreter with clock and printf installed in its global
// frame. locals is the side table produced by the resolver; stdout is where
// print and printf write.
func New(locals resolver.Locals, sink diagnostics.Sink, stdout io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	defineNatives(globals)
	return &Interpreter{globals: globals, env: globals, locals: locals, sink: sink, stdout: stdout}
}

// GlobalNames lists every name currently bound in the global frame, sorted.
// Intended for REPL introspection, not for anything the pipeline itself
// depends on.
func (interp *Interpreter) GlobalNames() []string {
	return interp.globals.Names()
}

// SetSink replaces the sink runtime errors are reported to. A REPL that
// keeps one Interpreter across lines gives each line its own sink, since a
// sink's had-error flags are meant to describe a single compile/run cycle.
func (interp *Interpreter) SetSink(sink diagnostics.Sink) {
	interp.sink = sink
}

// MergeLocals adds more side-table entries to the ones this Interpreter
// already consults. A REPL resolves and compiles one line at a time but
// keeps a single long-lived Interpreter across lines (so earlier lines'
// globals stay visible); each line's freshly-resolved locals are folded in
// here before that line's statements run.
func (interp *Interpreter) MergeLocals(locals resolver.Locals) {
	for expr, distance := range locals {
		interp.locals[expr] = distance
	}
}

// Interpret executes stmts in order. A runtime error halts execution and is
// reported to the sink; statements already executed have already taken
// effect.
func (interp *Interpreter) Interpret(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		if err := interp.execute(stmt); err != nil {
			if rerr, ok := err.(*RuntimeError); ok {
				interp.sink.RuntimeError(rerr.Token, rerr.Message)
			}
			return
		}
	}
}

func (interp *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return interp.executeBlock(s.Stmts, NewEnvironment(interp.env))

	case *ast.Class:
		return interp.executeClass(s)

	case *ast.Function:
		fn := NewFunction(s, interp.env, false)
		interp.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.Var:
		var value any
		if s.Init != nil {
			v, err := interp.evaluate(s.Init)
			if err != nil {
				return err
			}
			value = v
		}
		interp.env.Define(s.Name.Lexeme, value)
		return nil

	case *ast.ExprStmt:
		_, err := interp.evaluate(s.Expr)
		return err

	case *ast.If:
		cond, err := interp.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return interp.execute(s.Then)
		}
		if s.Else != nil {
			return interp.execute(s.Else)
		}
		return nil

	case *ast.Print:
		v, err := interp.evaluate(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(interp.stdout, Stringify(v))
		return nil

	case *ast.Return:
		var value any
		if s.Value != nil {
			v, err := interp.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &controlReturn{value: value}

	case *ast.While:
		for {
			cond, err := interp.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := interp.execute(s.Body); err != nil {
				return err
			}
		}

	default:
		panic("interpreter: unhandled statement type")
	}
}

// executeBlock runs stmts against env, restoring the previous current frame
// on every exit path: normal completion, a runtime error, or a return
// signal unwinding through it.
func (interp *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := interp.env
	interp.env = env
	defer func() { interp.env = previous }()

	for _, stmt := range stmts {
		if err := interp.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (interp *Interpreter) executeClass(c *ast.Class) error {
	var superclass *Class
	if c.Superclass != nil {
		v, err := interp.evaluate(c.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &RuntimeError{Token: c.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	interp.env.Define(c.Name.Lexeme, nil)

	closureEnv := interp.env
	if c.Superclass != nil {
		closureEnv = NewEnvironment(interp.env)
		closureEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(c.Methods))
	for _, m := range c.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, closureEnv, m.Name.Lexeme == "init")
	}

	class := &Class{Name: c.Name.Lexeme, Superclass: superclass, Methods: methods}
	return interp.env.Assign(c.Name, class)
}

func (interp *Interpreter) evaluate(expr ast.Expr) (any, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return interp.evaluate(e.Inner)

	case *ast.Variable:
		return interp.lookUpVariable(e.Name, e)

	case *ast.This:
		return interp.lookUpVariable(e.Keyword, e)

	case *ast.Assign:
		value, err := interp.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := interp.locals[e]; ok {
			interp.env.AssignAt(distance, e.Name, value)
		} else if err := interp.globals.Assign(e.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *ast.Unary:
		return interp.evalUnary(e)

	case *ast.Binary:
		return interp.evalBinary(e)

	case *ast.Logical:
		left, err := interp.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Kind == token.Or {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}
		return interp.evaluate(e.Right)

	case *ast.Call:
		return interp.evalCall(e)

	case *ast.Get:
		obj, err := interp.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: e.Name, Message: "Only instances have properties."}
		}
		return instance.Get(e.Name)

	case *ast.Set:
		obj, err := interp.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: e.Name, Message: "Only instances have fields."}
		}
		value, err := interp.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name, value)
		return value, nil

	case *ast.Super:
		return interp.evalSuper(e)

	default:
		panic("interpreter: unhandled expression type")
	}
}

func (interp *Interpreter) evalUnary(e *ast.Unary) (any, error) {
	right, err := interp.evaluate(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.Minus:
		n, ok := right.(float64)
		if !ok {
			return nil, &RuntimeError{Token: e.Op, Message: "Operand must be a number."}
		}
		return -n, nil
	case token.Bang:
		return !isTruthy(right), nil
	default:
		panic("interpreter: unhandled unary operator")
	}
}

func (interp *Interpreter) evalBinary(e *ast.Binary) (any, error) {
	left, err := interp.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := interp.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual, token.Minus, token.Star, token.Slash:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, &RuntimeError{Token: e.Op, Message: "Operands must be numbers."}
		}
		switch e.Op.Kind {
		case token.Greater:
			return ln > rn, nil
		case token.GreaterEqual:
			return ln >= rn, nil
		case token.Less:
			return ln < rn, nil
		case token.LessEqual:
			return ln <= rn, nil
		case token.Minus:
			return ln - rn, nil
		case token.Star:
			return ln * rn, nil
		case token.Slash:
			if rn == 0 {
				return nil, &RuntimeError{Token: e.Op, Message: "Cannot divide by zero."}
			}
			return ln / rn, nil
		}

	case token.Plus:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, &RuntimeError{Token: e.Op, Message: "Operands must be two numbers or two strings."}

	case token.BangEqual:
		return !isEqual(left, right), nil
	case token.EqualEqual:
		return isEqual(left, right), nil
	}
	panic("interpreter: unhandled binary operator")
}

func (interp *Interpreter) evalCall(e *ast.Call) (any, error) {
	callee, err := interp.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := interp.evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Token: e.Paren, Message: "Can only call functions and classes."}
	}
	if len(args) != fn.Arity() {
		return nil, &RuntimeError{
			Token:   e.Paren,
			Message: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
		}
	}
	return fn.Call(interp, args)
}

func (interp *Interpreter) evalSuper(e *ast.Super) (any, error) {
	distance := interp.locals[e]
	superclass := interp.env.GetAt(distance, "super").(*Class)
	instance := interp.env.GetAt(distance-1, "this").(*Instance)

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, &RuntimeError{
			Token:   e.Method,
			Message: fmt.Sprintf("Undefined property '%s'.", e.Method.Lexeme),
		}
	}
	return method.Bind(instance), nil
}

func (interp *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (any, error) {
	if distance, ok := interp.locals[expr]; ok {
		return interp.env.GetAt(distance, name.Lexeme), nil
	}
	return interp.globals.Get(name)
}

func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

func isEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}

// Stringify renders a runtime value the way print and printf do. Numbers
// with no fractional part print without a trailing ".0".
func Stringify(v any) string {
	if v == nil {
		return "nil"
	}
	switch val := v.(type) {
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
