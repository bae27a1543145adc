package diagnostics_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/glox/internal/diagnostics"
	"github.com/sdecook/glox/internal/token"
)

func TestLoggerTracksErrorFlagsIndependently(t *testing.T) {
	var buf bytes.Buffer
	log := diagnostics.New(&buf)

	assert.False(t, log.HadError())
	assert.False(t, log.HadRuntimeError())

	log.ScanError(3, "Unexpected character")
	assert.True(t, log.HadError())
	assert.False(t, log.HadRuntimeError())

	log.RuntimeError(token.Token{Line: 1}, "Operands must be numbers.")
	assert.True(t, log.HadRuntimeError())
}

func TestLoggerParseErrorFormatsAtEndDifferently(t *testing.T) {
	var buf bytes.Buffer
	log := diagnostics.New(&buf)

	log.ParseError(token.Token{Kind: token.EOF, Line: 4}, "Expect expression")
	require.Contains(t, buf.String(), "at end")

	buf.Reset()
	log.ParseError(token.Token{Kind: token.Identifier, Lexeme: "x", Line: 5}, "Expect ';' after value")
	assert.Contains(t, buf.String(), "at 'x'")
}

func TestLoggerErrorsAggregatesEveryDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	log := diagnostics.New(&buf)

	log.ScanError(0, "Unexpected character")
	log.ParseError(token.Token{Kind: token.EOF}, "Expect expression")

	err := log.Errors()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected character")
	assert.Contains(t, err.Error(), "Expect expression")
}

func TestLoggerResetClearsFlagsForTheNextReplLine(t *testing.T) {
	var buf bytes.Buffer
	log := diagnostics.New(&buf)

	log.ScanError(0, "Unexpected character")
	require.True(t, log.HadError())

	log.Reset()
	assert.False(t, log.HadError())
	assert.False(t, log.HadRuntimeError())
	assert.Nil(t, log.Errors())
}
