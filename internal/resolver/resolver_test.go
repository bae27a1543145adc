package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/glox/internal/ast"
	"github.com/sdecook/glox/internal/lexer"
	"github.com/sdecook/glox/internal/parser"
	"github.com/sdecook/glox/internal/resolver"
	"github.com/sdecook/glox/internal/token"
)

type stubSink struct {
	parseErrs []string
}

func (s *stubSink) ScanError(int, string)                  {}
func (s *stubSink) ParseError(tok token.Token, msg string) { s.parseErrs = append(s.parseErrs, msg) }
func (s *stubSink) RuntimeError(token.Token, string)       {}
func (s *stubSink) HadError() bool                         { return len(s.parseErrs) > 0 }
func (s *stubSink) HadRuntimeError() bool                  { return false }

func resolve(t *testing.T, src string) ([]ast.Stmt, resolver.Locals, *stubSink) {
	t.Helper()
	sink := &stubSink{}
	stmts := parser.New(lexer.New(src, sink), sink).Parse()
	require.False(t, sink.HadError(), "fixture must parse cleanly")
	locals := resolver.New(sink).Resolve(stmts)
	return stmts, locals, sink
}

func TestLocalShadowingInSameScopeIsRejected(t *testing.T) {
	_, _, sink := resolve(t, `{ var a = 1; var a = 2; }`)
	assert.Contains(t, sink.parseErrs, "Already a variable with this name in scope")
}

func TestReadingOwnInitializerIsRejected(t *testing.T) {
	_, _, sink := resolve(t, `{ var a = a; }`)
	assert.Contains(t, sink.parseErrs, "Can't read local variable in its own initializer")
}

func TestTopLevelReturnIsRejected(t *testing.T) {
	_, _, sink := resolve(t, `return 1;`)
	assert.Contains(t, sink.parseErrs, "Can't return from top-level code")
}

func TestReturnValueInInitializerIsRejected(t *testing.T) {
	_, _, sink := resolve(t, `class C { init() { return 1; } }`)
	assert.Contains(t, sink.parseErrs, "Can't return a value from an initializer")
}

func TestBareReturnInInitializerIsAllowed(t *testing.T) {
	_, _, sink := resolve(t, `class C { init() { return; } }`)
	assert.False(t, sink.HadError())
}

func TestThisOutsideClassIsRejected(t *testing.T) {
	_, _, sink := resolve(t, `print this;`)
	assert.Contains(t, sink.parseErrs, "Can't use 'this' outside of a class")
}

func TestSuperOutsideClassIsRejected(t *testing.T) {
	_, _, sink := resolve(t, `super.foo();`)
	assert.Contains(t, sink.parseErrs, "Can't use 'super' outside of a class")
}

func TestSuperWithoutSuperclassIsRejected(t *testing.T) {
	_, _, sink := resolve(t, `class A { m() { super.m(); } }`)
	assert.Contains(t, sink.parseErrs, "Can't use 'super' without a superclass")
}

func TestClassInheritingFromItselfIsRejected(t *testing.T) {
	_, _, sink := resolve(t, `class A < A {}`)
	assert.Contains(t, sink.parseErrs, "A class can't inherit from itself")
}

func TestClosureVariableIgnoresLaterBlockDeclaration(t *testing.T) {
	stmts, locals, sink := resolve(t, `
		var a = "global";
		{ fun showA() { print a; } showA(); var a = "block"; showA(); }
	`)
	require.False(t, sink.HadError())

	block := stmts[1].(*ast.Block)
	fn := block.Stmts[0].(*ast.Function)
	printStmt := fn.Body[0].(*ast.Print)
	variable := printStmt.Expr.(*ast.Variable)

	_, recorded := locals[variable]
	assert.False(t, recorded, "showA's reference to a is unresolved locally, so it falls back to the global frame")
}

func TestFunctionParameterResolvesAtDepthZero(t *testing.T) {
	stmts, locals, sink := resolve(t, `fun id(x) { return x; }`)
	require.False(t, sink.HadError())

	fn := stmts[0].(*ast.Function)
	ret := fn.Body[0].(*ast.Return)
	variable := ret.Value.(*ast.Variable)

	distance, ok := locals[variable]
	require.True(t, ok)
	assert.Equal(t, 0, distance)
}
