package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/sdecook/glox/internal/token"
)

// terminalSink renders diagnostics in red when w is a terminal and falls
// back to plain text when it isn't (a pipe, a file, a CI log).
type terminalSink struct {
	w               io.Writer
	colorize        bool
	hadError        bool
	hadRuntimeError bool
}

func newTerminalSink(w io.Writer, fd uintptr) *terminalSink {
	return &terminalSink{w: w, colorize: isatty.IsTerminal(fd)}
}

func (s *terminalSink) ScanError(offset int, message string) {
	s.hadError = true
	s.emit("[offset %d] Error: %s\n", offset, message)
}

func (s *terminalSink) ParseError(tok token.Token, message string) {
	s.hadError = true
	where := "at end"
	if tok.Kind != token.EOF {
		where = fmt.Sprintf("at '%s'", tok.Lexeme)
	}
	s.emit("[line %d] Error %s: %s\n", tok.Line, where, message)
}

func (s *terminalSink) RuntimeError(tok token.Token, message string) {
	s.hadRuntimeError = true
	s.emit("%s\n[line %d]\n", message, tok.Line)
}

func (s *terminalSink) HadError() bool        { return s.hadError }
func (s *terminalSink) HadRuntimeError() bool { return s.hadRuntimeError }

func (s *terminalSink) emit(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s.colorize {
		color.New(color.FgRed, color.Bold).Fprint(s.w, msg)
		return
	}
	fmt.Fprint(s.w, msg)
}
