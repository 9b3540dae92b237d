// Package ast defines the ratsh command tree: the tagged sum type a parsed
// shell line reduces to. Every variant implements Node and knows how to
// evaluate itself into a value.Value (see ratsh/internal/value).
package ast

import (
	"syscall"

	"ratsh/internal/value"
)

// Kind names the concrete variant of a Node.
type Kind int

const (
	KindSyntaxError Kind = iota
	KindExecute
	KindPathRedirection
	KindDupRedirection
	KindPipeline
	KindAndOrIf
	// KindConcatenateListToCommand is a convenience node aggregating a
	// simple command's argv piece and its redirections.
	KindConcatenateListToCommand
)

func (k Kind) String() string {
	switch k {
	case KindSyntaxError:
		return "SyntaxError"
	case KindExecute:
		return "Execute"
	case KindPathRedirection:
		return "PathRedirection"
	case KindDupRedirection:
		return "DupRedirection"
	case KindPipeline:
		return "Pipeline"
	case KindAndOrIf:
		return "AndOrIf"
	case KindConcatenateListToCommand:
		return "ConcatenateListToCommand"
	}
	return "Unknown"
}

// Node is a command-tree node. Eval returns nil only for SyntaxError, whose
// presence the runner must check before ever calling Eval.
type Node interface {
	Eval() value.Value
	Kind() Kind
	IsSyntaxError() bool
}

// SyntaxError is a terminal sentinel node the parser produces in place of a
// real node whenever it cannot make sense of the token stream.
type SyntaxError struct {
	Message string
}

func (*SyntaxError) Eval() value.Value  { return nil }
func (*SyntaxError) Kind() Kind         { return KindSyntaxError }
func (*SyntaxError) IsSyntaxError() bool { return true }

// Execute is a bare simple-command invocation.
type Execute struct {
	Argv []string
}

func (e *Execute) Eval() value.Value {
	return &value.CommandValue{Argv: e.Argv}
}
func (*Execute) Kind() Kind         { return KindExecute }
func (*Execute) IsSyntaxError() bool { return false }

// RedirFlag names the open-mode a PathRedirection requests.
type RedirFlag int

const (
	Read RedirFlag = iota
	ReadWrite
	Write
	WriteAppend
)

// PathRedirection is a redirection that opens a named file and binds the
// result to fd.
type PathRedirection struct {
	Path  string
	Fd    int
	Flags RedirFlag
}

func (r *PathRedirection) Eval() value.Value {
	var openFlags int
	switch r.Flags {
	case Read:
		openFlags = syscall.O_RDONLY
	case ReadWrite:
		openFlags = syscall.O_CREAT | syscall.O_RDWR
	case Write:
		openFlags = syscall.O_CREAT | syscall.O_WRONLY | syscall.O_TRUNC
	case WriteAppend:
		openFlags = syscall.O_CREAT | syscall.O_WRONLY | syscall.O_APPEND
	}
	return value.NewOpenRedirection(r.Fd, r.Path, openFlags)
}
func (*PathRedirection) Kind() Kind         { return KindPathRedirection }
func (*PathRedirection) IsSyntaxError() bool { return false }

// DupDirection names whether a DupRedirection duplicates onto an input or
// output descriptor.
type DupDirection int

const (
	Input DupDirection = iota
	Output
)

// DupRedirection is a redirection of the form "N<&M", "N<&-", "N>&M" or
// "N>&-": duplicate RightFd onto LeftFd, or close LeftFd when RightFd is
// absent.
type DupRedirection struct {
	LeftFd    int
	RightFd   *int // nil means "-" (close)
	Direction DupDirection
}

func (r *DupRedirection) Eval() value.Value {
	if r.RightFd == nil {
		return value.NewCloseRedirection(r.LeftFd)
	}
	action := value.InputDup
	if r.Direction == Output {
		action = value.OutputDup
	}
	return value.NewDupRedirection(r.LeftFd, action, *r.RightFd)
}
func (*DupRedirection) Kind() Kind         { return KindDupRedirection }
func (*DupRedirection) IsSyntaxError() bool { return false }

// Pipeline joins two commands by their stdout/stdin: Left's evaluated
// command gets Right's evaluated command chained as NextInPipeline.
type Pipeline struct {
	Left  Node
	Right Node
}

func (p *Pipeline) Eval() value.Value {
	left := p.Left.Eval()
	cmd, ok := left.(*value.CommandValue)
	if !ok {
		return left
	}

	right := p.Right.Eval()
	rightCmd, ok := right.(*value.CommandValue)
	if !ok {
		return left
	}

	cmd.NextInPipeline = rightCmd
	return cmd
}
func (*Pipeline) Kind() Kind         { return KindPipeline }
func (*Pipeline) IsSyntaxError() bool { return false }

// ConcatenateListToCommand aggregates a simple command's pieces (its
// Execute node plus any redirection nodes, in source order) into a single
// CommandValue.
type ConcatenateListToCommand struct {
	Nodes []Node
}

func (c *ConcatenateListToCommand) Eval() value.Value {
	command := &value.CommandValue{}

	for _, node := range c.Nodes {
		v := node.Eval()
		if v == nil {
			continue
		}
		if cmd, ok := v.(*value.CommandValue); ok {
			command.Argv = cmd.Argv
		}
		if redir, ok := v.(*value.RedirectionValue); ok {
			command.Redirections = append(command.Redirections, redir)
		}
	}

	return command
}
func (*ConcatenateListToCommand) Kind() Kind         { return KindConcatenateListToCommand }
func (*ConcatenateListToCommand) IsSyntaxError() bool { return false }

// AndOrIfKind names whether an AndOrIf node is joined by && or ||.
type AndOrIfKind int

const (
	KindAndIf AndOrIfKind = iota
	KindOrIf
)

// AndOrIf joins two commands with short-circuiting && or ||.
type AndOrIf struct {
	Left  Node
	Right Node
	Op    AndOrIfKind
}

func (a *AndOrIf) Eval() value.Value {
	leftVal := a.Left.Eval()
	leftCmd, ok := leftVal.(*value.CommandValue)
	if !ok {
		return leftVal
	}

	if a.Op == KindAndIf {
		leftCmd.WithOp = value.AndIf
	} else {
		leftCmd.WithOp = value.OrIf
	}

	commands := []*value.CommandValue{leftCmd}

	switch rightVal := a.Right.Eval().(type) {
	case *value.CommandValue:
		commands = append(commands, rightVal)
	case *value.AndOrListValue:
		commands = append(commands, rightVal.Commands...)
	}

	return &value.AndOrListValue{Commands: commands}
}
func (*AndOrIf) Kind() Kind         { return KindAndOrIf }
func (*AndOrIf) IsSyntaxError() bool { return false }
