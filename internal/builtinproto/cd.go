package builtinproto

import (
	"fmt"
	"os"
	"path/filepath"

	getopt "github.com/pborman/getopt/v2"
)

// NewCd returns the "cd" built-in, grounded on the original RatShell
// Builtins.cpp::builtin_cd: it chdirs to the target and sets $OLDPWD and
// $PWD to the working directory os.Getwd reports before and after the
// change. "-P" resolves symlinks in the target before the chdir; "-L" (the
// default) passes the target to chdir as given. In both modes $PWD comes
// from os.Getwd, not from the operand, so symlinks named in the operand are
// not kept in $PWD. "-L"/"-P" and the "-" operand (switch to $OLDPWD) are
// supplemented here from POSIX cd semantics; the original left both as
// FIXMEs.
func NewCd(errOut *os.File) Builtin {
	return func(argv []string) int {
		opts := getopt.New()
		physical := opts.BoolLong("physical", 'P', "resolve symlinks before changing directory")
		logical := opts.BoolLong("logical", 'L', "do not resolve symlinks before changing directory (default)")

		if err := opts.Getopt(argv, nil); err != nil {
			fmt.Fprintf(errOut, "cd: %s\n", err)
			return 1
		}

		operands := opts.Args()
		if len(operands) > 1 {
			fmt.Fprintln(errOut, "cd: too many arguments")
			return 1
		}

		target, err := cdTarget(operands)
		if err != nil {
			fmt.Fprintf(errOut, "cd: %s\n", err)
			return 1
		}

		oldPWD, _ := os.Getwd()

		resolved := target
		if *physical && !*logical {
			if p, err := filepath.EvalSymlinks(target); err == nil {
				resolved = p
			}
		}

		if err := os.Chdir(resolved); err != nil {
			fmt.Fprintf(errOut, "cd: %s\n", err)
			return 1
		}

		newPWD, err := os.Getwd()
		if err != nil {
			newPWD = resolved
		}

		os.Setenv("OLDPWD", oldPWD)
		os.Setenv("PWD", newPWD)
		return 0
	}
}

func cdTarget(operands []string) (string, error) {
	if len(operands) == 0 {
		home := os.Getenv("HOME")
		if home == "" {
			return "", fmt.Errorf("HOME not set")
		}
		return home, nil
	}

	path := operands[0]
	if path == "-" {
		oldPWD := os.Getenv("OLDPWD")
		if oldPWD == "" {
			return "", fmt.Errorf("OLDPWD not set")
		}
		fmt.Println(oldPWD)
		return oldPWD, nil
	}

	return path, nil
}

// NewPwd returns the "pwd" built-in: it prints $PWD, falling back to the
// real working directory if $PWD isn't set.
func NewPwd(out *os.File) Builtin {
	return func(argv []string) int {
		if pwd := os.Getenv("PWD"); pwd != "" {
			fmt.Fprintln(out, pwd)
			return 0
		}
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(out, "pwd: %s\n", err)
			return 1
		}
		fmt.Fprintln(out, wd)
		return 0
	}
}
