// Package token describes the lexemes the scanner produces and the parser
// consumes. A Token is an immutable value: its Lexeme is always the exact
// slice of source text between Offset and Offset+Length.
package token

import (
	"fmt"

	"github.com/josharian/intern"
)

// Kind enumerates every lexeme category in Lox, punctuation through keywords.
type Kind int

const (
	EOF Kind = iota

	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	Identifier
	String
	Number

	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
)

var names = [...]string{
	EOF:           "EOF",
	LeftParen:     "(",
	RightParen:    ")",
	LeftBrace:     "{",
	RightBrace:    "}",
	Comma:         ",",
	Dot:           ".",
	Minus:         "-",
	Plus:          "+",
	Semicolon:     ";",
	Slash:         "/",
	Star:          "*",
	Bang:          "!",
	BangEqual:     "!=",
	Equal:         "=",
	EqualEqual:    "==",
	Greater:       ">",
	GreaterEqual:  ">=",
	Less:          "<",
	LessEqual:     "<=",
	Identifier:    "IDENTIFIER",
	String:        "STRING",
	Number:        "NUMBER",
	And:           "and",
	Class:         "class",
	Else:          "else",
	False:         "false",
	Fun:           "fun",
	For:           "for",
	If:            "if",
	Nil:           "nil",
	Or:            "or",
	Print:         "print",
	Return:        "return",
	Super:         "super",
	This:          "this",
	True:          "true",
	Var:           "var",
	While:         "while",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(names) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return names[k]
}

// Keywords maps a reserved lexeme to its Kind. The keyword strings are passed
// through intern at init; the Lexeme of a scanned Token is still a slice of
// its own source text, so keyword tokens do not share one backing string.
var Keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

func init() {
	for k := range Keywords {
		intern.String(k)
	}
}

// Token is a value record: a lexeme, its kind, an optional literal payload,
// and its position in the source. Literal is nil, a float64, or a string.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Offset  int
	Length  int
	Line    int
}

func (t Token) String() string {
	lit := "null"
	if t.Literal != nil {
		lit = fmt.Sprintf("%v", t.Literal)
	}
	return fmt.Sprintf("%s %s %s", t.Kind, t.Lexeme, lit)
}
