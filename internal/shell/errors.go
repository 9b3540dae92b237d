package shell

// ErrorKind distinguishes the two diagnostic channels a running shell
// produces: a syntax error the parser produced versus a runtime error the
// executor hit trying to actually run something.
type ErrorKind int

const (
	// SyntaxErrorKind marks a diagnostic that originated from an
	// *ast.SyntaxError node: the input itself didn't parse.
	SyntaxErrorKind ErrorKind = iota
	// RuntimeErrorKind marks a diagnostic from executing an otherwise
	// well-formed command: a failed open, a failed exec, a failed fork.
	RuntimeErrorKind
)

func (k ErrorKind) prefix() string {
	switch k {
	case SyntaxErrorKind:
		return "ratsh (syntax error): "
	default:
		return "ratsh (error): "
	}
}
