package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abiosoft/readline"

	"ratsh/internal/shell"
)

// runREPL drives an interactive session: read a line, run it, print the
// next prompt, until EOF (Ctrl-D). The readline.Instance setup mirrors the
// pack's own NewShell/Run (core/shell.go), trimmed to a plain terminal
// instead of one driven over an ssh.Session.
func runREPL(sh *shell.Shell) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "ratsh:", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		rl.SetPrompt(prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			return

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			fmt.Fprintln(os.Stderr, "ratsh:", err)
			return

		default:
			sh.RunLine(line)
		}
	}
}

func prompt() string {
	wd, err := os.Getwd()
	if err != nil {
		return "ratsh$ "
	}
	return filepath.Base(wd) + "$ "
}
