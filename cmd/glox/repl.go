package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sdecook/glox/internal/interpreter"
	"github.com/sdecook/glox/internal/resolver"
)

// runPrompt reads one line at a time and evaluates it against a single
// long-lived interpreter, so a variable or function defined on one line
// stays visible on later lines. Each line still gets its own diagnostic
// sink, so a bad line's error flags don't poison the rest of the session.
func runPrompt() error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	interp := interpreter.New(resolver.Locals{}, newTerminalSink(os.Stderr, os.Stderr.Fd()), os.Stdout)

	for {
		line, err := rl.Readline()
		switch {
		case err == readline.ErrInterrupt:
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		if handled := replMetaCommand(interp, line); handled {
			continue
		}

		sink := newTerminalSink(os.Stderr, os.Stderr.Fd())
		stmts, locals, ok := compile(line, sink)
		if !ok {
			continue
		}
		interp.MergeLocals(locals)
		interp.SetSink(sink)
		interp.Interpret(stmts)
	}
}

// replMetaCommand handles the REPL's own introspection commands (":globals"
// lists every currently-defined global, sorted) and reports whether line
// was one of them.
func replMetaCommand(interp *interpreter.Interpreter, line string) bool {
	if strings.TrimSpace(line) != ":globals" {
		return false
	}
	names := interp.GlobalNames()
	fmt.Println(strings.Join(names, ", "))
	return true
}
