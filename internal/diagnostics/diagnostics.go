// Package diagnostics defines the abstract sink every pipeline stage reports
// errors to, plus a default implementation wired to logrus.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"

	"github.com/sdecook/glox/internal/token"
)

// Sink is the channel scan, parse/resolve, and runtime errors are reported
// through. It also tracks whether any error of each category occurred, so a
// driver knows when it must not advance to the next pipeline stage.
type Sink interface {
	ScanError(offset int, message string)
	ParseError(tok token.Token, message string)
	RuntimeError(tok token.Token, message string)
	HadError() bool
	HadRuntimeError() bool
}

// Logger is the default Sink. It writes one entry per diagnostic through
// logrus (one line, or two for a runtime error) and keeps a multierror of everything reported, so a caller that
// wants the whole batch (rather than a stream) can ask for it with Errors.
type Logger struct {
	log             *logrus.Logger
	errs            *multierror.Error
	hadError        bool
	hadRuntimeError bool
}

// New builds a Logger that writes to w: one line per scan or parse error,
// and a runtime error as its message followed by a "[line N]" line.
func New(w io.Writer) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&easy.Formatter{
		LogFormat: "%msg%\n",
	})
	return &Logger{log: log}
}

func (l *Logger) ScanError(offset int, message string) {
	l.hadError = true
	l.errs = multierror.Append(l.errs, fmt.Errorf("offset %d: %s", offset, message))
	l.log.Errorf("[offset %d] Error: %s", offset, message)
}

func (l *Logger) ParseError(tok token.Token, message string) {
	l.hadError = true
	where := "at end"
	if tok.Kind != token.EOF {
		where = fmt.Sprintf("at '%s'", tok.Lexeme)
	}
	l.errs = multierror.Append(l.errs, fmt.Errorf("[line %d] %s: %s", tok.Line, where, message))
	l.log.Errorf("[line %d] Error %s: %s", tok.Line, where, message)
}

func (l *Logger) RuntimeError(tok token.Token, message string) {
	l.hadRuntimeError = true
	l.errs = multierror.Append(l.errs, fmt.Errorf("%s\n[line %d]", message, tok.Line))
	l.log.Errorf("%s\n[line %d]", message, tok.Line)
}

func (l *Logger) HadError() bool        { return l.hadError }
func (l *Logger) HadRuntimeError() bool { return l.hadRuntimeError }

// Errors returns every diagnostic reported so far, or nil if none were.
func (l *Logger) Errors() error {
	return l.errs.ErrorOrNil()
}

// Reset clears the error flags and the collected diagnostics, so a REPL that
// reuses one Logger across lines can keep one bad statement from poisoning
// the rest of the session.
func (l *Logger) Reset() {
	l.hadError = false
	l.hadRuntimeError = false
	l.errs = nil
}
