package shell

import (
	"os"
	"os/exec"
	"syscall"

	"ratsh/internal/redirect"
	"ratsh/internal/value"
)

// runSingle applies cmd's redirections directly to the live process
// descriptors, dispatches to a built-in if cmd.Argv[0] names one, otherwise
// forks and execs an external binary, and restores the descriptors
// afterwards. Applying redirections to the shell's own fds rather than only
// to a child's ProcAttr.Files is what lets a built-in (which runs in this
// process, not a forked one) observe "cd >log.txt" the same way an external
// command would.
func (s *Shell) runSingle(cmd *value.CommandValue) int {
	var collector redirect.FileDescriptionCollector
	var saver redirect.SavedFileDescriptions

	ok := redirect.Apply(cmd.Redirections, &collector, &saver)
	collector.Close()
	defer saver.Restore()

	if !ok {
		s.PrintError(RuntimeErrorKind, "redirection failed")
		return 1
	}

	if len(cmd.Argv) == 0 {
		return 0
	}

	if builtin, found := s.Builtins.Lookup(cmd.Argv[0]); found {
		return builtin(cmd.Argv)
	}

	return s.execExternal(cmd.Argv)
}

// execExternal runs an external command via fork+exec. Go programs can't
// safely call the bare fork(2) the original RatShell's Shell.cpp does (the
// runtime's goroutine scheduler and garbage collector don't survive a raw
// fork with only one thread copied across), so this goes through
// syscall.ForkExec, which performs the fork and the exec together in the
// child before any Go code resumes running there — the safe idiomatic
// substitute, also how the pack's own codecrafters shell runs external
// commands.
func (s *Shell) execExternal(argv []string) int {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		s.PrintError(RuntimeErrorKind, argv[0]+": command not found")
		return 127
	}

	pid, err := syscall.ForkExec(path, argv, &syscall.ProcAttr{
		Env:   os.Environ(),
		Files: []uintptr{0, 1, 2},
	})
	if err != nil {
		s.PrintError(RuntimeErrorKind, err.Error())
		return 126
	}

	return waitFor(pid)
}

// waitFor blocks for pid to exit and translates its wait status into a
// shell exit code: 128+signal for a command killed by a signal, its own
// exit code otherwise.
func waitFor(pid int) int {
	var ws syscall.WaitStatus
	if _, err := syscall.Wait4(pid, &ws, 0, nil); err != nil {
		return 1
	}
	if ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ws.ExitStatus()
}
