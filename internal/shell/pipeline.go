package shell

import (
	"io"
	"os"
	"os/exec"
	"syscall"

	"ratsh/internal/value"
)

// runPipeline wires a chain of CommandValues (linked by NextInPipeline)
// stdout-to-stdin through anonymous pipes and runs every stage
// concurrently: every stage starts before any of them is waited on, rather
// than fully running one stage to completion before starting the next —
// starting one stage at a time would deadlock the moment a stage writes
// more than a pipe buffer's worth of output before its downstream reader is
// even running.
//
// Built-ins are not dispatched inside a pipeline (only the single-command
// path in exec.go does that): running a built-in as a pipeline stage would
// mean it executes in this process while sharing pipe descriptors with
// forked children, so built-in dispatch is reserved for the no-pipe case.
func (s *Shell) runPipeline(head *value.CommandValue) int {
	var stages []*value.CommandValue
	for c := head; c != nil; c = c.NextInPipeline {
		stages = append(stages, c)
	}

	cmds := make([]*exec.Cmd, len(stages))
	var closers []io.Closer

	for i, stage := range stages {
		if len(stage.Argv) == 0 {
			s.PrintError(RuntimeErrorKind, "empty command in pipeline")
			return 1
		}

		cmd := exec.Command(stage.Argv[0], stage.Argv[1:]...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmds[i] = cmd
	}

	for i := 0; i < len(cmds)-1; i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			s.PrintError(RuntimeErrorKind, err.Error())
			closeAll(closers)
			return 1
		}
		cmds[i].Stdout = pw
		cmds[i+1].Stdin = pr
		closers = append(closers, pw, pr)
	}

	for i, stage := range stages {
		if !applyPipelineRedirections(cmds[i], stage.Redirections) {
			s.PrintError(RuntimeErrorKind, "redirection failed")
			closeAll(closers)
			return 1
		}
	}

	for _, cmd := range cmds {
		if err := cmd.Start(); err != nil {
			s.PrintError(RuntimeErrorKind, err.Error())
			closeAll(closers)
			return 126
		}
	}

	// The shell's own copies of the pipe descriptors must close now: a
	// downstream stage never sees EOF from its upstream writer while this
	// process still holds the write end open too.
	closeAll(closers)

	var status int
	for _, cmd := range cmds {
		status = exitStatusOf(cmd.Wait())
	}
	return status
}

// applyPipelineRedirections layers a stage's own redirections on top of the
// pipe wiring runPipeline already set up, supporting the standard streams
// (0, 1, 2) a pipeline stage plausibly redirects.
func applyPipelineRedirections(cmd *exec.Cmd, redirections []*value.RedirectionValue) bool {
	for _, r := range redirections {
		switch r.Action {
		case value.Open:
			f, err := os.OpenFile(r.Path.Path, r.Path.OpenFlags, 0o666)
			if err != nil {
				return false
			}
			bindStageFd(cmd, r.IoNumber, f)

		case value.Close:
			bindStageFd(cmd, r.IoNumber, nil)

		case value.InputDup, value.OutputDup:
			f, ok := stageFd(cmd, r.DupFd)
			if !ok {
				return false
			}
			bindStageFd(cmd, r.IoNumber, f)
		}
	}
	return true
}

func bindStageFd(cmd *exec.Cmd, fd int, f *os.File) {
	switch fd {
	case 0:
		cmd.Stdin = orNilReader(f)
	case 1:
		cmd.Stdout = orNilWriter(f)
	case 2:
		cmd.Stderr = orNilWriter(f)
	}
}

func stageFd(cmd *exec.Cmd, fd int) (*os.File, bool) {
	var v interface{}
	switch fd {
	case 0:
		v = cmd.Stdin
	case 1:
		v = cmd.Stdout
	case 2:
		v = cmd.Stderr
	default:
		return nil, false
	}
	f, ok := v.(*os.File)
	return f, ok
}

func orNilReader(f *os.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}

func orNilWriter(f *os.File) io.Writer {
	if f == nil {
		return nil
	}
	return f
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

func exitStatusOf(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				return 128 + int(ws.Signal())
			}
			return ws.ExitStatus()
		}
	}
	return 1
}
