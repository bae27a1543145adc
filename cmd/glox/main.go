// Command glox is the script runner and REPL for the Lox tree-walking
// interpreter: it wires the scanner, parser, resolver, and interpreter
// together and formats diagnostics for a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var printAST bool

	cmd := &cobra.Command{
		Use:           "glox [script]",
		Short:         "A tree-walking interpreter for Lox",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runFile(args[0], printAST)
			}
			return runPrompt()
		},
	}
	cmd.Flags().BoolVar(&printAST, "ast", false, "print the parsed AST instead of running the script")
	return cmd
}

// runFile loads path and runs it start to finish: exit 65 on a static
// (scan/parse/resolve) error, 70 on a runtime error, 0 on success. When
// printAST is set it dumps the parsed tree instead of executing it.
func runFile(path string, printAST bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sink := newTerminalSink(os.Stderr, os.Stderr.Fd())

	if printAST {
		dumpAST(string(src), sink, os.Stdout)
		if sink.HadError() {
			os.Exit(65)
		}
		return nil
	}

	run(string(src), sink, os.Stdout)

	if sink.HadError() {
		os.Exit(65)
	}
	if sink.HadRuntimeError() {
		os.Exit(70)
	}
	return nil
}
