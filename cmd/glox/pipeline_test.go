package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/glox/internal/token"
)

type stubSink struct {
	parseErrs   []string
	runtimeErrs []string
}

func (s *stubSink) ScanError(int, string) {}
func (s *stubSink) ParseError(tok token.Token, msg string) {
	s.parseErrs = append(s.parseErrs, msg)
}
func (s *stubSink) RuntimeError(tok token.Token, msg string) {
	s.runtimeErrs = append(s.runtimeErrs, msg)
}
func (s *stubSink) HadError() bool        { return len(s.parseErrs) > 0 }
func (s *stubSink) HadRuntimeError() bool { return len(s.runtimeErrs) > 0 }

func TestRunStopsBeforeInterpretingOnAParseError(t *testing.T) {
	sink := &stubSink{}
	var out bytes.Buffer
	run(`var a = ;`, sink, &out)

	require.True(t, sink.HadError())
	assert.Empty(t, out.String())
	assert.False(t, sink.HadRuntimeError(), "the interpreter never ran")
}

func TestRunExecutesACleanProgram(t *testing.T) {
	sink := &stubSink{}
	var out bytes.Buffer
	run(`print 1 + 1;`, sink, &out)

	require.False(t, sink.HadError())
	require.False(t, sink.HadRuntimeError())
	assert.Equal(t, "2\n", out.String())
}

func TestCompileFailsOnAResolverError(t *testing.T) {
	sink := &stubSink{}
	_, _, ok := compile(`class A < A {}`, sink)

	assert.False(t, ok)
	assert.Contains(t, sink.parseErrs, "A class can't inherit from itself")
}

func TestDumpASTPrintsEachTopLevelStatement(t *testing.T) {
	sink := &stubSink{}
	var out bytes.Buffer
	dumpAST(`print 1 + 2; var x = 3;`, sink, &out)

	require.False(t, sink.HadError())
	assert.Equal(t, "(print (+ 1 2))\n(var x 3)\n", out.String())
}
