package main

import (
	"fmt"
	"io"

	"github.com/sdecook/glox/internal/ast"
	"github.com/sdecook/glox/internal/diagnostics"
	"github.com/sdecook/glox/internal/interpreter"
	"github.com/sdecook/glox/internal/lexer"
	"github.com/sdecook/glox/internal/parser"
	"github.com/sdecook/glox/internal/resolver"
)

// compile lexes, parses, and resolves src, refusing to resolve once parsing
// has already recorded an error. It returns the statements and the resolved
// side table, or ok=false if an earlier stage failed.
func compile(src string, sink diagnostics.Sink) (stmts []ast.Stmt, locals resolver.Locals, ok bool) {
	stmts = parser.New(lexer.New(src, sink), sink).Parse()
	if sink.HadError() {
		return nil, nil, false
	}

	locals = resolver.New(sink).Resolve(stmts)
	if sink.HadError() {
		return nil, nil, false
	}
	return stmts, locals, true
}

// run compiles and interprets src as a single, self-contained program — the
// one-shot path a script-file invocation takes.
func run(src string, sink diagnostics.Sink, stdout io.Writer) {
	stmts, locals, ok := compile(src, sink)
	if !ok {
		return
	}
	interpreter.New(locals, sink, stdout).Interpret(stmts)
}

// dumpAST parses src and writes one parenthesized line per top-level
// statement to w — the --ast debug path. Expression, print, var and return
// statements are expanded; blocks, function and class declarations, and
// control flow are identified by keyword rather than expanded.
func dumpAST(src string, sink diagnostics.Sink, w io.Writer) {
	stmts := parser.New(lexer.New(src, sink), sink).Parse()
	if sink.HadError() {
		return
	}
	for _, stmt := range stmts {
		fmt.Fprintln(w, stmtAST(stmt))
	}
}

func stmtAST(stmt ast.Stmt) string {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return ast.Print(s.Expr)
	case *ast.Print:
		return fmt.Sprintf("(print %s)", ast.Print(s.Expr))
	case *ast.Var:
		if s.Init == nil {
			return fmt.Sprintf("(var %s)", s.Name.Lexeme)
		}
		return fmt.Sprintf("(var %s %s)", s.Name.Lexeme, ast.Print(s.Init))
	case *ast.Return:
		if s.Value == nil {
			return "(return)"
		}
		return fmt.Sprintf("(return %s)", ast.Print(s.Value))
	case *ast.Block:
		return fmt.Sprintf("(block %d)", len(s.Stmts))
	case *ast.If:
		return "(if ...)"
	case *ast.While:
		return "(while ...)"
	case *ast.Function:
		return fmt.Sprintf("(fun %s)", s.Name.Lexeme)
	case *ast.Class:
		return fmt.Sprintf("(class %s)", s.Name.Lexeme)
	default:
		return "<?stmt>"
	}
}
