package interpreter

import "github.com/sdecook/glox/internal/ast"

// Function is a user-defined function or method value: a declaration node
// paired with the environment frame active when it was declared.
type Function struct {
	decl          *ast.Function
	closure       *Environment
	isInitializer bool
}

// NewFunction wraps decl as a callable closing over closure.
func NewFunction(decl *ast.Function, closure *Environment, isInitializer bool) *Function {
	return &Function{decl: decl, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Arity() int { return len(f.decl.Params) }

// Bind produces a new function value whose closure is a fresh child of f's
// closure defining "this" as instance. This is what makes `this` resolve at
// depth 0 inside a bound method's body.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return &Function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

func (f *Function) Call(interp *Interpreter, args []any) (any, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := interp.executeBlock(f.decl.Body, env)
	if ret, ok := err.(*controlReturn); ok {
		if f.isInitializer {
			return f.closure.GetAt(0, "this"), nil
		}
		return ret.value, nil
	}
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

func (f *Function) String() string {
	return "<fn " + f.decl.Name.Lexeme + ">"
}
