// Package resolver implements the static scope-resolution pass that runs
// between parsing and interpretation. For every Variable, Assign, This, and
// Super expression it computes how many enclosing scopes to walk to reach
// the frame that declares the name, and records that hop distance in a side
// table keyed by the expression's identity. It also performs the early
// static checks the language requires (self-referencing initializers,
// top-level return, this/super outside a class, and so on).
package resolver

import (
	"github.com/sdecook/glox/internal/ast"
	"github.com/sdecook/glox/internal/diagnostics"
	"github.com/sdecook/glox/internal/token"
)

type functionKind int

const (
	fnNone functionKind = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// Locals is the side table the interpreter consults to look up locals by hop
// distance. Absence of a key means "global".
type Locals map[ast.Expr]int

// Resolver walks an already-parsed AST maintaining a stack of lexical
// scopes. Each scope maps a name to whether its declaration has finished
// (false means "declared but not yet defined").
type Resolver struct {
	sink   diagnostics.Sink
	scopes []map[string]bool
	fn     functionKind
	class  classKind
	locals Locals
}

// New returns a Resolver that reports scope-rule violations to sink.
func New(sink diagnostics.Sink) *Resolver {
	return &Resolver{sink: sink, locals: make(Locals)}
}

// Resolve walks stmts and returns the completed side table.
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.Class:
		r.resolveClass(s)

	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)

	case *ast.Var:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)

	case *ast.ExprStmt:
		r.resolveExpr(s.Expr)

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.Print:
		r.resolveExpr(s.Expr)

	case *ast.Return:
		if r.fn == fnNone {
			r.sink.ParseError(s.Keyword, "Can't return from top-level code")
		}
		if s.Value != nil {
			if r.fn == fnInitializer {
				r.sink.ParseError(s.Keyword, "Can't return a value from an initializer")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosingClass := r.class
	r.class = classClass
	defer func() { r.class = enclosingClass }()

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.sink.ParseError(c.Superclass.Name, "A class can't inherit from itself")
		}
		r.class = classSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	defer r.endScope()

	for _, method := range c.Methods {
		kind := fnMethod
		if method.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method, kind)
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFn := r.fn
	r.fn = kind
	defer func() { r.fn = enclosingFn }()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Super:
		if r.class == classNone {
			r.sink.ParseError(e.Keyword, "Can't use 'super' outside of a class")
		} else if r.class != classSubclass {
			r.sink.ParseError(e.Keyword, "Can't use 'super' without a superclass")
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.This:
		if r.class == classNone {
			r.sink.ParseError(e.Keyword, "Can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.Unary:
		r.resolveExpr(e.Operand)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.sink.ParseError(e.Name, "Can't read local variable in its own initializer")
			}
		}
		r.resolveLocal(e, e.Name)

	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.sink.ParseError(name, "Already a variable with this name in scope")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack from innermost outward and, on the
// first frame binding name, records the hop distance. If no scope binds it,
// the expression is left out of the table entirely — the interpreter falls
// back to the global frame.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}
