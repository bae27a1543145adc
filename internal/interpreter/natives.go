package interpreter

import (
	"fmt"
	"strings"
	"time"

	"github.com/sdecook/glox/internal/ast"
	"github.com/sdecook/glox/internal/lexer"
	"github.com/sdecook/glox/internal/parser"
	"github.com/sdecook/glox/internal/token"
)

// discardSink feeds the lexer/parser re-invoked on a printf format's
// embedded expression text; it only needs to report whether anything went
// wrong, never to surface diagnostics to the user.
type discardSink struct {
	hadErr bool
}

func (d *discardSink) ScanError(int, string)            { d.hadErr = true }
func (d *discardSink) ParseError(token.Token, string)   { d.hadErr = true }
func (d *discardSink) RuntimeError(token.Token, string) { d.hadErr = true }
func (d *discardSink) HadError() bool                   { return d.hadErr }
func (d *discardSink) HadRuntimeError() bool             { return d.hadErr }

// Native is a host-implemented callable, used for the two built-ins the
// language ships with: clock and printf.
type Native struct {
	name  string
	arity int
	fn    func(interp *Interpreter, args []any) (any, error)
}

func (n *Native) Arity() int { return n.arity }

func (n *Native) Call(interp *Interpreter, args []any) (any, error) {
	return n.fn(interp, args)
}

func (n *Native) String() string { return "<native fn " + n.name + ">" }

// defineNatives installs clock and printf into the global frame.
func defineNatives(globals *Environment) {
	globals.Define("clock", &Native{
		name:  "clock",
		arity: 0,
		fn: func(interp *Interpreter, args []any) (any, error) {
			return float64(time.Now().UnixNano()) / 1e9, nil
		},
	})

	globals.Define("printf", &Native{
		name:  "printf",
		arity: 1,
		fn: func(interp *Interpreter, args []any) (any, error) {
			format, ok := args[0].(string)
			if !ok {
				return nil, &RuntimeError{Message: "printf expects a string"}
			}
			rendered, err := interp.renderFormat(format)
			if err != nil {
				return nil, err
			}
			fmt.Fprintln(interp.stdout, rendered)
			return nil, nil
		},
	})
}

// renderFormat replaces every balanced {expr} substring of format with the
// stringification of evaluating expr as a Lox expression against the
// interpreter's current environment. These embedded expressions were never
// seen by the resolver, so per the side-table's own rule (absence means
// global) any free variable they reference resolves against the global
// frame rather than the caller's locals.
func (interp *Interpreter) renderFormat(format string) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(format) {
		if format[i] != '{' {
			out.WriteByte(format[i])
			i++
			continue
		}

		depth := 1
		j := i + 1
		for j < len(format) && depth > 0 {
			switch format[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth > 0 {
				j++
			}
		}
		if depth != 0 {
			return "", &RuntimeError{Message: "printf format has an unterminated '{'"}
		}

		exprSrc := format[i+1 : j]
		value, err := interp.evalEmbedded(exprSrc)
		if err != nil {
			return "", err
		}
		out.WriteString(Stringify(value))
		i = j + 1
	}
	return out.String(), nil
}

func (interp *Interpreter) evalEmbedded(src string) (any, error) {
	sink := &discardSink{}
	stmts := parser.New(lexer.New(src+";", sink), sink).Parse()
	if sink.HadError() || len(stmts) != 1 {
		return nil, &RuntimeError{Message: "printf embedded expression is invalid"}
	}
	exprStmt, ok := stmts[0].(*ast.ExprStmt)
	if !ok {
		return nil, &RuntimeError{Message: "printf embedded expression is invalid"}
	}
	return interp.evaluate(exprStmt.Expr)
}
