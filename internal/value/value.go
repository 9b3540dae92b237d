// Package value defines the evaluator's output types: the value objects an
// ast.Node reduces to when walked by eval, capturing a command's argument
// vector, its redirection list, its pipeline successor, and the short-
// circuit operator that joins it to the next command in an AND/OR list.
package value

// Value is the result of evaluating an ast.Node. It is implemented by
// CommandValue, RedirectionValue and AndOrListValue; the last is what an
// AST AndOrIf node's Eval returns.
type Value interface {
	IsCommand() bool
	IsRedirection() bool
}

// WithOp names the operator that joins a CommandValue to the command that
// follows it in an AND/OR list.
type WithOp int

const (
	NoOp WithOp = iota
	AndIf
	OrIf
)

// CommandValue is the evaluated form of a simple command: its argument
// vector, the redirections that must be applied before it runs, an optional
// successor command it pipes into, and the operator joining it to whatever
// follows it in an AND/OR list.
type CommandValue struct {
	Argv           []string
	Redirections   []*RedirectionValue
	NextInPipeline *CommandValue
	WithOp         WithOp
}

func (*CommandValue) IsCommand() bool     { return true }
func (*CommandValue) IsRedirection() bool { return false }

// Action names what a RedirectionValue does to a file descriptor.
type Action int

const (
	Open Action = iota
	Close
	InputDup
	OutputDup
)

// PathData is the payload of an Open redirection: the path to open and the
// O_* flags to open it with.
type PathData struct {
	Path      string
	OpenFlags int
}

// RedirectionValue is the evaluated form of a redirection node. Path holds
// the PathData for Open; DupFd holds the source file descriptor otherwise
// (-1 for Close).
type RedirectionValue struct {
	IoNumber int
	Action   Action
	Path     PathData // valid when Action == Open
	DupFd    int      // valid when Action == InputDup/OutputDup/Close; < 0 means Close
}

func (*RedirectionValue) IsCommand() bool     { return false }
func (*RedirectionValue) IsRedirection() bool { return true }

// NewCloseRedirection builds a RedirectionValue that closes ioNumber.
func NewCloseRedirection(ioNumber int) *RedirectionValue {
	return &RedirectionValue{IoNumber: ioNumber, Action: Close, DupFd: -1}
}

// NewDupRedirection builds a RedirectionValue that duplicates dupFd onto
// ioNumber, in the direction named by action (InputDup or OutputDup).
func NewDupRedirection(ioNumber int, action Action, dupFd int) *RedirectionValue {
	return &RedirectionValue{IoNumber: ioNumber, Action: action, DupFd: dupFd}
}

// NewOpenRedirection builds a RedirectionValue that opens path with flags
// and binds the result to ioNumber.
func NewOpenRedirection(ioNumber int, path string, flags int) *RedirectionValue {
	return &RedirectionValue{
		IoNumber: ioNumber,
		Action:   Open,
		Path:     PathData{Path: path, OpenFlags: flags},
	}
}

// AndOrListValue is the flattened result of reducing an AST AndOrIf chain:
// every command in source order, each tagged with the operator that follows
// it (NoOp on the last). It satisfies Value so that ast.Node.Eval can return
// it uniformly alongside CommandValue and RedirectionValue, but it is
// neither a command nor a redirection itself.
type AndOrListValue struct {
	Commands []*CommandValue
}

func (*AndOrListValue) IsCommand() bool     { return false }
func (*AndOrListValue) IsRedirection() bool { return false }
