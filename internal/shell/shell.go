// Package shell ties the tokeniser, parser, evaluator, redirection applier
// and process executor together into a runnable line-at-a-time shell,
// mirroring how the original RatShell's Shell.{h,cpp} drives the same
// pipeline, and how the Go toy shells in the retrieved pack structure their
// own run-a-line entry points (see ratsh/internal/shell's exec.go and
// pipeline.go for the process-level mechanics).
package shell

import (
	"fmt"
	"io"
	"os"

	"ratsh/internal/ast"
	"ratsh/internal/builtinproto"
	"ratsh/internal/parser"
	"ratsh/internal/value"
)

// Shell holds everything a running line needs beyond the line itself: where
// to print diagnostics, and which built-ins are available in this process.
type Shell struct {
	ErrOut   io.Writer
	Builtins *builtinproto.Registry
}

// New returns a Shell with its diagnostic stream defaulted to os.Stderr.
func New(builtins *builtinproto.Registry) *Shell {
	return &Shell{ErrOut: os.Stderr, Builtins: builtins}
}

// PrintError writes a single diagnostic line, prefixed per kind, to ErrOut.
// This package never touches color.Color itself — cmd/ratsh's
// diagnostics.go wraps ErrOut in a colourising writer instead, so the core
// stays usable headlessly.
func (s *Shell) PrintError(kind ErrorKind, message string) {
	fmt.Fprintf(s.ErrOut, "%s%s\n", kind.prefix(), message)
}

// RunLine parses and evaluates a single logical input line, and returns the
// exit status of whatever it ran (0 if nothing did). A syntax error is
// reported and yields status 1, the same status an internal error yields.
func (s *Shell) RunLine(line string) int {
	node := parser.New(line).Parse()

	if node.IsSyntaxError() {
		se := node.(*ast.SyntaxError)
		s.PrintError(SyntaxErrorKind, se.Message)
		return 1
	}

	switch v := node.Eval().(type) {
	case *value.AndOrListValue:
		return s.runAndOrList(v)
	case *value.CommandValue:
		return s.runCommand(v)
	default:
		return 0
	}
}

// runAndOrList walks a flattened AND/OR chain left to right: once a
// command fails, every subsequent command joined by && is skipped until an
// || is reached, and vice versa for a command that succeeds.
func (s *Shell) runAndOrList(list *value.AndOrListValue) int {
	status := 0
	skip := false

	for i, cmd := range list.Commands {
		if i > 0 {
			switch list.Commands[i-1].WithOp {
			case value.AndIf:
				skip = status != 0
			case value.OrIf:
				skip = status == 0
			default:
				skip = false
			}
		}

		if skip {
			continue
		}
		status = s.runCommand(cmd)
	}

	return status
}

// runCommand dispatches a single evaluated command to either the pipeline
// runner or the single-command path, depending on whether it has a
// successor piped into it.
func (s *Shell) runCommand(cmd *value.CommandValue) int {
	if cmd.NextInPipeline != nil {
		return s.runPipeline(cmd)
	}
	return s.runSingle(cmd)
}
