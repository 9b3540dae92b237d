// Package redirect applies a command's redirection list to file
// descriptors, with save/restore semantics so the shell's own descriptors
// are always returned to what they pointed at before the command ran. It is
// the Go translation of the original RatShell FileDescription.{h,cpp} and
// the apply_redirections() helper in Shell.cpp, expressed with
// golang.org's syscall package instead of raw POSIX calls.
package redirect

import (
	"fmt"
	"sort"
	"syscall"

	"ratsh/internal/value"
)

// FileDescriptionCollector is an ordered set of descriptors that get closed
// when the scope that owns them is done with them. Close is idempotent;
// Clear forgets the descriptors without closing them, for when ownership
// has been handed off elsewhere (e.g. after a successful dup2 the original
// fd is the child's problem, not ours).
type FileDescriptionCollector struct {
	fds []int
}

// Add records fd for later closing.
func (c *FileDescriptionCollector) Add(fd int) {
	c.fds = append(c.fds, fd)
}

// Close closes every collected descriptor and forgets them.
func (c *FileDescriptionCollector) Close() {
	for _, fd := range c.fds {
		_ = syscall.Close(fd)
	}
	c.fds = nil
}

// Clear forgets the collected descriptors without closing them.
func (c *FileDescriptionCollector) Clear() {
	c.fds = nil
}

// savedFileDescription remembers that original was duplicated to saved so
// it can be restored later.
type savedFileDescription struct {
	original int
	saved    int
}

// SavedFileDescriptions duplicates a descriptor to a high, close-on-exec
// slot for every fd a redirection is about to overwrite, and restores them
// all with Restore.
type SavedFileDescriptions struct {
	saves []savedFileDescription
	fds   FileDescriptionCollector
}

// Save duplicates fd to the lowest free descriptor at or above 10, marks the
// duplicate close-on-exec, and remembers the pair so Restore can dup2 it
// back later.
func (s *SavedFileDescriptions) Save(fd int) error {
	saved, err := fcntl(fd, syscall.F_DUPFD, 10)
	if err != nil {
		return fmt.Errorf("fcntl(F_DUPFD): %w", err)
	}

	if err := setCloseOnExec(saved); err != nil {
		_ = syscall.Close(saved)
		return err
	}

	s.saves = append(s.saves, savedFileDescription{original: fd, saved: saved})
	s.fds.Add(saved)
	return nil
}

// Restore dup2's every saved descriptor back onto the original it was
// duplicated from, then closes the saved duplicates.
func (s *SavedFileDescriptions) Restore() {
	for _, save := range s.saves {
		_ = syscall.Dup2(save.saved, save.original)
	}
	s.saves = nil
	s.fds.Close()
}

func setCloseOnExec(fd int) error {
	flags, err := fcntlGetFD(fd)
	if err != nil {
		return fmt.Errorf("fcntl(F_GETFD): %w", err)
	}
	if err := fcntlSetFD(fd, flags|syscall.FD_CLOEXEC); err != nil {
		return fmt.Errorf("fcntl(F_SETFD): %w", err)
	}
	return nil
}

type dupOp struct {
	from int
	to   int
}

// Apply translates redirections into file-descriptor operations: it opens
// paths, inspects access modes for dup redirections, and rebinds
// descriptors. Every fd a redirection touches is saved into saver first, so
// the caller can restore it later; descriptors opened here are owned by
// collector.
//
// The scan and the dup/close operations are deliberately split into two
// passes: queuing every open/inspect first and only then performing the
// dup2 calls means a sequence like "cmd >a >b" correctly leaves stdout
// bound to b while the *original* stdout was the one saved, not an
// intermediate redirection.
func Apply(redirections []*value.RedirectionValue, collector *FileDescriptionCollector, saver *SavedFileDescriptions) bool {
	var dups []dupOp
	var toClose []int

	for _, redir := range redirections {
		fd := redir.IoNumber

		if err := saver.Save(fd); err != nil {
			return false
		}

		switch redir.Action {
		case value.Open:
			pathFd, err := syscall.Open(redir.Path.Path, redir.Path.OpenFlags, 0o666)
			if err != nil {
				return false
			}
			collector.Add(pathFd)
			dups = append(dups, dupOp{from: pathFd, to: fd})

		case value.Close:
			toClose = append(toClose, fd)

		case value.InputDup, value.OutputDup:
			flags, err := fcntlGetFL(redir.DupFd)
			if err != nil {
				return false
			}
			access := flags & syscall.O_ACCMODE

			if redir.Action == value.OutputDup && access == syscall.O_RDONLY {
				return false
			}
			if redir.Action == value.InputDup && access == syscall.O_WRONLY {
				return false
			}

			dups = append(dups, dupOp{from: redir.DupFd, to: fd})
		}
	}

	for _, d := range dups {
		if err := syscall.Dup2(d.from, d.to); err != nil {
			return false
		}
	}

	sort.Ints(toClose) // deterministic order only; closing order has no semantic effect
	for _, fd := range toClose {
		_ = syscall.Close(fd)
	}

	return true
}
