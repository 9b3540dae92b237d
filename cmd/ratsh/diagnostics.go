package main

import (
	"io"

	"github.com/fatih/color"
)

// diagnosticsWriter colourises everything written through it in bold red,
// the way the pack's own shell colours its diagnostic output (see
// commands/base.go's ColorBoldRed). shell.Shell itself stays color-agnostic
// and just writes plain text to whatever io.Writer it's given; this is
// where that text picks up color, so the core package remains usable
// headlessly (e.g. under test, where ANSI escapes would just be noise).
type diagnosticsWriter struct {
	out   io.Writer
	color *color.Color
}

func newDiagnosticsWriter(out io.Writer) io.Writer {
	return &diagnosticsWriter{out: out, color: color.New(color.FgRed, color.Bold)}
}

func (w *diagnosticsWriter) Write(p []byte) (int, error) {
	if _, err := w.color.Fprint(w.out, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
