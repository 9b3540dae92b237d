package lexer

import (
	"testing"

	"ratsh/internal/token"
)

func allTokens(input string) []token.Token {
	l := New(input)
	var out []token.Token
	for {
		batch := l.BatchNext()
		if len(batch) == 0 {
			break
		}
		out = append(out, batch...)
	}
	return out
}

func typesOf(toks []token.Token) []token.Type {
	types := make([]token.Type, len(toks))
	for i, t := range toks {
		types[i] = t.Type
	}
	return types
}

func TestSimpleWords(t *testing.T) {
	toks := allTokens("echo hello")
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens (2 words + eof), got %d: %v", len(toks), toks)
	}
	if toks[0].Type != token.Raw || toks[0].Value != "echo" {
		t.Errorf("token 0 = %+v", toks[0])
	}
	if toks[1].Type != token.Raw || toks[1].Value != "hello" {
		t.Errorf("token 1 = %+v", toks[1])
	}
	if toks[2].Type != token.Eof {
		t.Errorf("token 2 = %+v, want Eof", toks[2])
	}
}

func TestSingleQuotedWordPreservesContents(t *testing.T) {
	toks := allTokens("echo 'a b  c'")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens: %v", len(toks), toks)
	}
	if toks[1].Value != "'a b  c'" {
		t.Errorf("expected quoted word preserved verbatim, got %q", toks[1].Value)
	}
}

func TestLineContinuationIsRemoved(t *testing.T) {
	toks := allTokens("echo a\\\nb\n")
	want := []token.Type{token.Raw, token.Raw, token.Newline, token.Eof}
	got := typesOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got types %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("type %d = %v, want %v", i, got[i], want[i])
		}
	}
	if toks[1].Value != "ab" {
		t.Errorf("expected line continuation to splice 'a' and 'b' into 'ab', got %q", toks[1].Value)
	}
}

func TestIoNumberCases(t *testing.T) {
	cases := []struct {
		input string
		want  []token.Type
	}{
		{"4<", []token.Type{token.IoNumber, token.Less, token.Eof}},
		{"16>&", []token.Type{token.IoNumber, token.GreatAnd, token.Eof}},
		{"4.txt<", []token.Type{token.Raw, token.Less, token.Eof}},
		{"30 >", []token.Type{token.Raw, token.Great, token.Eof}},
	}

	for _, c := range cases {
		toks := allTokens(c.input)
		got := typesOf(toks)
		if len(got) != len(c.want) {
			t.Fatalf("%q: got %v, want %v", c.input, got, c.want)
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("%q: type %d = %v, want %v", c.input, i, got[i], c.want[i])
			}
		}
	}
}

func TestCommentRunsToNewline(t *testing.T) {
	toks := allTokens("echo hi # a comment\nworld\n")
	got := typesOf(toks)
	want := []token.Type{token.Raw, token.Raw, token.Newline, token.Raw, token.Newline, token.Eof}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("type %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOperatorDisambiguation(t *testing.T) {
	toks := allTokens(">>")
	if len(toks) != 2 || toks[0].Type != token.DoubleGreat {
		t.Fatalf("expected single DoubleGreat token, got %v", toks)
	}

	toks = allTokens(">")
	if len(toks) != 2 || toks[0].Type != token.Great {
		t.Fatalf("expected single Great token, got %v", toks)
	}
}
