package main

import (
	"os"

	"github.com/spf13/cobra"

	"ratsh/internal/builtinproto"
	"ratsh/internal/shell"
)

var (
	loginShell bool
	command    string
)

// rootCmd is ratsh's entry point: with no -c, it starts an interactive
// REPL (see repl.go); with -c, it runs a single line and exits with its
// status, the way sh -c does.
var rootCmd = &cobra.Command{
	Use:   "ratsh",
	Short: "ratsh is a small POSIX-subset command shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := newShell()

		if loginShell {
			initLoginEnvironment()
		}

		if command != "" {
			os.Exit(sh.RunLine(command))
		}

		runREPL(sh)
		return nil
	},
}

// Execute runs the root command. It's the only thing main.main calls.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&loginShell, "login", "l", false, "act as a login shell")
	rootCmd.PersistentFlags().StringVarP(&command, "command", "c", "", "run command then exit")
}

// newShell wires up the built-ins registry and returns a Shell whose
// diagnostics are colourised, as described in diagnostics.go.
func newShell() *shell.Shell {
	registry := builtinproto.NewRegistry()
	registry.Register("cd", builtinproto.NewCd(os.Stderr))
	registry.Register("pwd", builtinproto.NewPwd(os.Stdout))

	sh := shell.New(registry)
	sh.ErrOut = newDiagnosticsWriter(os.Stderr)
	return sh
}

// initLoginEnvironment changes to $HOME (when set) and sets $PWD to the
// resulting working directory, mirroring the honeypot shell's own Init step.
func initLoginEnvironment() {
	if home := os.Getenv("HOME"); home != "" {
		_ = os.Chdir(home)
	}
	if wd, err := os.Getwd(); err == nil {
		os.Setenv("PWD", wd)
	}
}
