// Package parser implements the recursive-descent, one-token-lookahead
// parser described by the grammar in the scanner/parser design notes: it
// consumes a token stream and produces a sequence of top-level statements.
package parser

import (
	"github.com/sdecook/glox/internal/ast"
	"github.com/sdecook/glox/internal/diagnostics"
	"github.com/sdecook/glox/internal/token"
)

const maxArgs = 255

// tokenSource is satisfied by *lexer.Scanner; kept narrow so parser doesn't
// need to import lexer.
type tokenSource interface {
	Next() token.Token
}

// parseError is panicked to unwind out of a broken production and resync at
// the next statement boundary. It carries no data: the diagnostic was
// already reported to the sink at the point of the throw.
type parseError struct{}

// Parser turns a token stream into a sequence of statements. It reports
// errors to sink and recovers from them by synchronizing, so a single
// malformed statement does not abort the whole parse.
type Parser struct {
	src      tokenSource
	sink     diagnostics.Sink
	current  token.Token
	previous token.Token
}

// New constructs a Parser pulling tokens from src.
func New(src tokenSource, sink diagnostics.Sink) *Parser {
	p := &Parser{src: src, sink: sink}
	p.current = p.src.Next()
	return p
}

// Parse consumes the whole token stream and returns every statement that
// parsed successfully; statements that failed are dropped after the error
// encountered while parsing them was reported to the sink.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.atEnd() {
		if stmt, ok := p.declaration(); ok {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *Parser) declaration() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); isParseErr {
				p.synchronize()
				stmt, ok = nil, false
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.Class):
		return p.classDecl(), true
	case p.match(token.Fun):
		return p.function("function"), true
	case p.match(token.Var):
		return p.varDecl(), true
	default:
		return p.statement(), true
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name")

	var superclass *ast.Variable
	if p.match(token.Less) {
		p.consume(token.Identifier, "Expect superclass name")
		superclass = &ast.Variable{Name: p.previous}
	}

	p.consume(token.LeftBrace, "Expect '{' before class body")
	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RightBrace, "Expect '}' after class body")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, "Expect "+kind+" name")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.reportError(p.current, "Can't have more than 255 parameters")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters")

	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body")
	body := p.blockStmts()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name")

	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration")
	return &ast.Var{Name: name, Init: init}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.LeftBrace):
		return &ast.Block{Stmts: p.blockStmts()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression")
	return &ast.ExprStmt{Expr: expr}
}

func (p *Parser) printStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after value")
	return &ast.Print{Expr: expr}
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.If{Cond: cond, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after while condition")
	body := p.statement()
	return &ast.While{Cond: cond, Body: body}
}

// forStmt desugars a C-style for loop into the equivalent while loop,
// reflecting the desugaring directly in the produced AST.
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'")

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
		// no initializer
	case p.match(token.Var):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Stmts: []ast.Stmt{body, &ast.ExprStmt{Expr: increment}}}
	}

	if cond == nil {
		cond = &ast.Literal{Value: true}
	}
	loop := ast.Stmt(&ast.While{Cond: cond, Body: body})

	if init != nil {
		loop = &ast.Block{Stmts: []ast.Stmt{init, loop}}
	}
	return loop
}

func (p *Parser) blockStmts() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if stmt, ok := p.declaration(); ok {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block")
	return stmts
}

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if equals := p.current; p.match(token.Equal) {
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.reportError(equals, "Invalid assignment target")
			return expr
		}
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		op := p.previous
		right := p.and()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Minus, token.Plus) {
		op := p.previous
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Slash, token.Star) {
		op := p.previous
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous
		right := p.unary()
		return &ast.Unary{Op: op, Operand: right}
	}
	if p.match(token.Plus) {
		op := p.previous
		p.unary() // parse and discard the operand so the cursor stays in sync
		panic(p.error(op, "Prefix-plus is not supported"))
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.reportError(p.current, "Can't have more than 255 arguments")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return &ast.Literal{Value: false}
	case p.match(token.True):
		return &ast.Literal{Value: true}
	case p.match(token.Nil):
		return &ast.Literal{Value: nil}
	case p.match(token.Number, token.String):
		return &ast.Literal{Value: p.previous.Literal}
	case p.match(token.Super):
		keyword := p.previous
		p.consume(token.Dot, "Expect '.' after 'super'")
		method := p.consume(token.Identifier, "Expect superclass method name")
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.This):
		return &ast.This{Keyword: p.previous}
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous}
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression")
		return &ast.Grouping{Inner: expr}
	}

	panic(p.error(p.current, "Expect expression"))
}

// --------------- token-stream helpers --------------- //

func (p *Parser) advance() token.Token {
	prev := p.current
	if !p.atEnd() {
		p.current = p.src.Next()
	}
	p.previous = prev
	return prev
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.atEnd() && p.current.Kind == kind
}

func (p *Parser) atEnd() bool {
	return p.current.Kind == token.EOF
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.error(p.current, message))
}

func (p *Parser) error(tok token.Token, message string) parseError {
	p.reportError(tok, message)
	return parseError{}
}

func (p *Parser) reportError(tok token.Token, message string) {
	p.sink.ParseError(tok, message)
}

// synchronize discards tokens until it is positioned at a likely statement
// boundary, so the next declaration() call has a fresh start.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.previous.Kind == token.Semicolon {
			return
		}
		switch p.current.Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
