package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/glox/internal/ast"
	"github.com/sdecook/glox/internal/lexer"
	"github.com/sdecook/glox/internal/parser"
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

func parse(t *testing.T, src string) ([]ast.Stmt, *stubSink) {
	t.Helper()
	sink := &stubSink{}
	stmts := parser.New(lexer.New(src, sink), sink).Parse()
	return stmts, sink
}

func TestParsesArithmeticPrecedence(t *testing.T) {
	stmts, sink := parse(t, `print 1 + 2 * 3;`)
	require.False(t, sink.HadError())
	require.Len(t, stmts, 1)

	p := stmts[0].(*ast.Print)
	bin := p.Expr.(*ast.Binary)
	assert.Equal(t, token.Plus, bin.Op.Kind)
	assert.Equal(t, 1.0, bin.Left.(*ast.Literal).Value)
	rhs := bin.Right.(*ast.Binary)
	assert.Equal(t, token.Star, rhs.Op.Kind)
}

func TestForDesugarsToWhileBlock(t *testing.T) {
	stmts, sink := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.False(t, sink.HadError())
	require.Len(t, stmts, 1)

	block := stmts[0].(*ast.Block)
	require.Len(t, block.Stmts, 2)
	_, isVar := block.Stmts[0].(*ast.Var)
	assert.True(t, isVar)

	while := block.Stmts[1].(*ast.While)
	whileBody := while.Body.(*ast.Block)
	require.Len(t, whileBody.Stmts, 2)
}

func TestForWithMissingClausesUsesTrueCondition(t *testing.T) {
	stmts, sink := parse(t, `for (;;) print 1;`)
	require.False(t, sink.HadError())
	while := stmts[0].(*ast.While)
	lit := while.Cond.(*ast.Literal)
	assert.Equal(t, true, lit.Value)
}

func TestAssignmentTargetMustBeVariableOrGet(t *testing.T) {
	_, sink := parse(t, `1 + 2 = 3;`)
	require.True(t, sink.HadError())
	assert.Contains(t, sink.parseErrs, "Invalid assignment target")
}

func TestSetExprFromGetAssignment(t *testing.T) {
	stmts, sink := parse(t, `a.b = 1;`)
	require.False(t, sink.HadError())
	exprStmt := stmts[0].(*ast.ExprStmt)
	set := exprStmt.Expr.(*ast.Set)
	assert.Equal(t, "b", set.Name.Lexeme)
}

func TestPrefixPlusRejected(t *testing.T) {
	_, sink := parse(t, `print +1;`)
	require.True(t, sink.HadError())
	assert.Contains(t, sink.parseErrs, "Prefix-plus is not supported")
}

func TestClassWithSuperclassAndMethods(t *testing.T) {
	stmts, sink := parse(t, `
		class B < A {
			greet() { print "hi"; }
		}
	`)
	require.False(t, sink.HadError())
	class := stmts[0].(*ast.Class)
	assert.Equal(t, "B", class.Name.Lexeme)
	require.NotNil(t, class.Superclass)
	assert.Equal(t, "A", class.Superclass.Name.Lexeme)
	require.Len(t, class.Methods, 1)
	assert.Equal(t, "greet", class.Methods[0].Name.Lexeme)
}

func TestParseErrorRecoverySkipsToNextStatement(t *testing.T) {
	stmts, sink := parse(t, `
		var a = ;
		var b = 2;
	`)
	require.True(t, sink.HadError())
	require.Len(t, stmts, 1, "the malformed declaration is dropped but parsing continues")
	decl := stmts[0].(*ast.Var)
	assert.Equal(t, "b", decl.Name.Lexeme)
}

func TestArgumentCountCapReportsButContinues(t *testing.T) {
	args := ""
	for i := 0; i < 256; i++ {
		if i > 0 {
			args += ", "
		}
		args += "1"
	}
	_, sink := parse(t, `f(`+args+`);`)
	require.True(t, sink.HadError())
	assert.Contains(t, sink.parseErrs, "Can't have more than 255 arguments")
}
