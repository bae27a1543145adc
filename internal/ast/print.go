package ast

import (
	"fmt"
	"strings"
)

// Print renders a parenthesized Lisp-ish form of an expression, used by the
// cmd/glox --ast debug flag. It is not part of any pipeline invariant.
func Print(e Expr) string {
	switch e := e.(type) {
	case *Assign:
		return fmt.Sprintf("(= %s %s)", e.Name.Lexeme, Print(e.Value))
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", e.Op.Lexeme, Print(e.Left), Print(e.Right))
	case *Call:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = Print(a)
		}
		return fmt.Sprintf("(call %s %s)", Print(e.Callee), strings.Join(args, " "))
	case *Get:
		return fmt.Sprintf("(. %s %s)", Print(e.Object), e.Name.Lexeme)
	case *Set:
		return fmt.Sprintf("(.= %s %s %s)", Print(e.Object), e.Name.Lexeme, Print(e.Value))
	case *Grouping:
		return fmt.Sprintf("(group %s)", Print(e.Inner))
	case *Literal:
		if e.Value == nil {
			return "nil"
		}
		return fmt.Sprintf("%v", e.Value)
	case *Logical:
		return fmt.Sprintf("(%s %s %s)", e.Op.Lexeme, Print(e.Left), Print(e.Right))
	case *Super:
		return fmt.Sprintf("(super.%s)", e.Method.Lexeme)
	case *This:
		return "this"
	case *Unary:
		return fmt.Sprintf("(%s %s)", e.Op.Lexeme, Print(e.Operand))
	case *Variable:
		return e.Name.Lexeme
	default:
		return "<?expr>"
	}
}
