package parser

import (
	"testing"

	"ratsh/internal/ast"
	"ratsh/internal/value"
)

func TestParseSimpleCommand(t *testing.T) {
	node := New("echo hello world").Parse()
	if node.IsSyntaxError() {
		t.Fatalf("unexpected syntax error: %+v", node)
	}

	v := node.Eval()
	cmd, ok := v.(*value.CommandValue)
	if !ok {
		t.Fatalf("expected *value.CommandValue, got %T", v)
	}

	want := []string{"echo", "hello", "world"}
	if len(cmd.Argv) != len(want) {
		t.Fatalf("argv = %v, want %v", cmd.Argv, want)
	}
	for i := range want {
		if cmd.Argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, cmd.Argv[i], want[i])
		}
	}
}

func TestParseWhitespaceOnlyInputYieldsEmptyArgv(t *testing.T) {
	node := New("   \n  \n").Parse()
	if node.IsSyntaxError() {
		t.Fatalf("unexpected syntax error: %+v", node)
	}

	cmd, ok := node.Eval().(*value.CommandValue)
	if !ok {
		t.Fatalf("expected *value.CommandValue, got %T", node.Eval())
	}
	if len(cmd.Argv) != 0 {
		t.Errorf("argv = %v, want empty", cmd.Argv)
	}
}

func TestParseLeadingOperatorIsSyntaxError(t *testing.T) {
	node := New("| cat").Parse()
	if !node.IsSyntaxError() {
		t.Fatalf("expected syntax error, got %T", node)
	}
}

func TestParseRedirectionOrderingIsPreserved(t *testing.T) {
	node := New("cat hello.txt > a.txt > b.txt").Parse()
	if node.IsSyntaxError() {
		t.Fatalf("unexpected syntax error: %+v", node)
	}

	cmd, ok := node.Eval().(*value.CommandValue)
	if !ok {
		t.Fatalf("expected *value.CommandValue, got %T", node.Eval())
	}
	if len(cmd.Redirections) != 2 {
		t.Fatalf("expected 2 redirections, got %d", len(cmd.Redirections))
	}
	if cmd.Redirections[0].Path.Path != "a.txt" || cmd.Redirections[1].Path.Path != "b.txt" {
		t.Errorf("redirections out of order: %+v", cmd.Redirections)
	}
}

func TestParseMissingFilenameIsSyntaxError(t *testing.T) {
	node := New("cat >").Parse()
	if !node.IsSyntaxError() {
		t.Fatalf("expected syntax error, got %T", node)
	}
}

func TestParseDupRedirection(t *testing.T) {
	node := New("cmd 2>&1").Parse()
	if node.IsSyntaxError() {
		t.Fatalf("unexpected syntax error: %+v", node)
	}

	cmd, ok := node.Eval().(*value.CommandValue)
	if !ok {
		t.Fatalf("expected *value.CommandValue, got %T", node.Eval())
	}
	if len(cmd.Redirections) != 1 {
		t.Fatalf("expected 1 redirection, got %d", len(cmd.Redirections))
	}
	r := cmd.Redirections[0]
	if r.IoNumber != 2 || r.Action != value.OutputDup || r.DupFd != 1 {
		t.Errorf("redirection = %+v, want 2>&1", r)
	}
}

func TestParseCloseRedirection(t *testing.T) {
	node := New("cmd 2>&-").Parse()
	if node.IsSyntaxError() {
		t.Fatalf("unexpected syntax error: %+v", node)
	}

	cmd := node.Eval().(*value.CommandValue)
	if len(cmd.Redirections) != 1 || cmd.Redirections[0].Action != value.Close {
		t.Fatalf("expected a Close redirection, got %+v", cmd.Redirections)
	}
}

func TestParseConcatenateKind(t *testing.T) {
	node := New("echo hi").Parse()
	if node.Kind() != ast.KindConcatenateListToCommand {
		t.Errorf("Kind() = %v, want KindConcatenateListToCommand", node.Kind())
	}
}

func TestParsePipelineBuildsPipelineNode(t *testing.T) {
	node := New("printf foo | cat").Parse()
	if node.IsSyntaxError() {
		t.Fatalf("unexpected syntax error: %+v", node)
	}
	if node.Kind() != ast.KindPipeline {
		t.Fatalf("Kind() = %v, want KindPipeline", node.Kind())
	}

	v := node.Eval()
	cmd, ok := v.(*value.CommandValue)
	if !ok {
		t.Fatalf("expected *value.CommandValue, got %T", v)
	}
	if cmd.NextInPipeline == nil {
		t.Fatal("expected NextInPipeline to be set")
	}
	if len(cmd.NextInPipeline.Argv) != 1 || cmd.NextInPipeline.Argv[0] != "cat" {
		t.Errorf("NextInPipeline.Argv = %v, want [cat]", cmd.NextInPipeline.Argv)
	}
}

func TestParsePipelineIsRightAssociative(t *testing.T) {
	node := New("a | b | c").Parse()
	pipe, ok := node.(*ast.Pipeline)
	if !ok {
		t.Fatalf("expected *ast.Pipeline, got %T", node)
	}
	if _, ok := pipe.Right.(*ast.Pipeline); !ok {
		t.Fatalf("expected pipe.Right to itself be a *ast.Pipeline (right nesting), got %T", pipe.Right)
	}
}

func TestParseAndOrBuildsAndOrIfNode(t *testing.T) {
	node := New("false && echo skipped || echo ran").Parse()
	if node.IsSyntaxError() {
		t.Fatalf("unexpected syntax error: %+v", node)
	}
	if node.Kind() != ast.KindAndOrIf {
		t.Fatalf("Kind() = %v, want KindAndOrIf", node.Kind())
	}

	v, ok := node.Eval().(*value.AndOrListValue)
	if !ok {
		t.Fatalf("expected *value.AndOrListValue, got %T", node.Eval())
	}
	if len(v.Commands) != 3 {
		t.Fatalf("expected 3 commands in the flattened list, got %d: %+v", len(v.Commands), v.Commands)
	}
	if v.Commands[0].WithOp != value.AndIf || v.Commands[1].WithOp != value.OrIf {
		t.Errorf("join operators = %v, %v; want AndIf, OrIf", v.Commands[0].WithOp, v.Commands[1].WithOp)
	}
}

func TestParseAndOrIsRightAssociative(t *testing.T) {
	node := New("a && b && c").Parse()
	andOr, ok := node.(*ast.AndOrIf)
	if !ok {
		t.Fatalf("expected *ast.AndOrIf, got %T", node)
	}
	if _, ok := andOr.Right.(*ast.AndOrIf); !ok {
		t.Fatalf("expected andOr.Right to itself be a *ast.AndOrIf (right nesting), got %T", andOr.Right)
	}
}
