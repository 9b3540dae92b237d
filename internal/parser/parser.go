// Package parser implements the ratsh recursive-descent parser: it drains a
// lexer.Lexer into a token buffer and turns it into an ast.Node command
// tree (see ratsh/internal/ast), realising the subset of POSIX grammar:
//
//	and_or         := pipe_sequence (('&&' | '||') and_or)?
//	pipe_sequence  := simple_command ('|' pipe_sequence)?
//	simple_command := word (word | io_redirect)*
//	io_redirect    := [IoNumber] io_file
//	io_file        := ('<' | '>' | '>>' | '<>' | '>|') word
//	                | ('<&' | '>&') (digits | '-')
//
// Both and_or and pipe_sequence nest on the right, so "a && b && c" and
// "a | b | c" each build a tree whose right child is itself the remaining
// chain.
package parser

import (
	"strconv"
	"strings"

	"ratsh/internal/ast"
	"ratsh/internal/lexer"
	"ratsh/internal/token"
)

// Parser consumes a token stream drained from a lexer.Lexer and produces an
// ast.Node command tree.
type Parser struct {
	lx *lexer.Lexer

	tokens []token.Token
	index  int
}

// New returns a Parser over input.
func New(input string) *Parser {
	return &Parser{lx: lexer.New(input)}
}

// Parse drains the lexer, promotes every raw token to a Word (reserved-word
// recognition is acknowledged by the grammar but not implemented), and
// parses an AND/OR list of pipelines of simple commands. It never returns
// nil: malformed input yields an *ast.SyntaxError node.
func (p *Parser) Parse() ast.Node {
	p.fillTokenBuffer()

	// 1. [Command Name] A Raw token is unconditionally promoted to Word;
	// reserved words are acknowledged in the token vocabulary but never
	// otherwise recognised.
	for i := range p.tokens {
		if p.tokens[i].Type == token.Raw {
			p.tokens[i].Type = token.Word
		}
	}

	return p.parseAndOr()
}

// parseAndOr parses a pipe_sequence, then, while an "&&" or "||" operator
// follows, consumes it and recurses for the right-hand side: the resulting
// AndOrIf chain nests on the right, matching the grammar's right-associative
// composition.
func (p *Parser) parseAndOr() ast.Node {
	left := p.parsePipeSequence()
	if left.IsSyntaxError() {
		return left
	}

	var kind ast.AndOrIfKind
	switch p.peek().Type {
	case token.AndIf:
		kind = ast.KindAndIf
	case token.OrIf:
		kind = ast.KindOrIf
	default:
		return left
	}
	p.consume()

	right := p.parseAndOr()
	if right.IsSyntaxError() {
		return right
	}

	return &ast.AndOrIf{Left: left, Right: right, Op: kind}
}

// parsePipeSequence parses a command, then, while a "|" operator follows,
// consumes it and recurses for the right-hand side: the resulting Pipeline
// chain nests on the right, the same right-associative composition as
// parseAndOr.
func (p *Parser) parsePipeSequence() ast.Node {
	left := p.parseCommand()
	if left.IsSyntaxError() {
		return left
	}

	if p.peek().Type != token.Pipe {
		return left
	}
	p.consume()

	right := p.parsePipeSequence()
	if right.IsSyntaxError() {
		return right
	}

	return &ast.Pipeline{Left: left, Right: right}
}

// parseCommand is the pipe_sequence's leaf: a single simple command.
func (p *Parser) parseCommand() ast.Node {
	return p.parseSimpleCommand()
}

func (p *Parser) fillTokenBuffer() {
	for {
		batch := p.lx.BatchNext()
		if len(batch) == 0 {
			break
		}
		p.tokens = append(p.tokens, batch...)
	}
}

func (p *Parser) isEOF() bool {
	return p.index >= len(p.tokens) || p.tokens[p.index].Type == token.Eof
}

func (p *Parser) peek() token.Token {
	if p.isEOF() {
		return token.EOF()
	}
	return p.tokens[p.index]
}

// onlyNewlinesRemain reports whether every remaining token (from the
// current position on) is a Newline, meaning the line had no command words
// at all — just whitespace and/or blank lines.
func (p *Parser) onlyNewlinesRemain() bool {
	for i := p.index; i < len(p.tokens) && p.tokens[i].Type != token.Eof; i++ {
		if p.tokens[i].Type != token.Newline {
			return false
		}
	}
	return true
}

func (p *Parser) consume() token.Token {
	if p.isEOF() {
		return token.EOF()
	}
	t := p.tokens[p.index]
	p.index++
	return t
}

// parseSimpleCommand parses a word, followed by any mixture of further
// words and I/O redirections, and wraps the result in a
// ConcatenateListToCommand.
func (p *Parser) parseSimpleCommand() ast.Node {
	var nodes []ast.Node
	var argv []string

	if p.peek().Type != token.Word {
		// Input consisting solely of blanks/newlines lexes to nothing but
		// Newline and Eof tokens; that's not a syntax error, it's an empty
		// command line.
		if p.onlyNewlinesRemain() {
			return &ast.ConcatenateListToCommand{Nodes: []ast.Node{&ast.Execute{Argv: nil}}}
		}
		return &ast.SyntaxError{Message: "prefixed redirection not supported yet"}
	}
	argv = append(argv, p.consume().Value)

	for {
		if p.peek().Type == token.Word {
			argv = append(argv, p.consume().Value)
			continue
		}

		redirect, errNode := p.parseIoRedirect()
		if errNode != nil {
			return errNode
		}
		if redirect == nil {
			break
		}
		nodes = append(nodes, redirect)
	}

	nodes = append(nodes, &ast.Execute{Argv: argv})

	return &ast.ConcatenateListToCommand{Nodes: nodes}
}

// parseIoRedirect consumes an optional leading IoNumber and delegates to
// parseIoFile. It returns (nil, nil) when the next token isn't a
// redirection operator at all (meaning the caller should stop looking for
// simple-command pieces), and (nil, errNode) on a genuine syntax error.
func (p *Parser) parseIoRedirect() (ast.Node, ast.Node) {
	var ioNumber *int

	if p.peek().Type == token.IoNumber {
		n, err := strconv.Atoi(p.consume().Value)
		if err != nil {
			return nil, &ast.SyntaxError{Message: "invalid IO number"}
		}
		ioNumber = &n
	}

	return p.parseIoFile(ioNumber)
}

func isRedirectOperator(t token.Type) bool {
	switch t {
	case token.Less, token.LessAnd, token.Great, token.GreatAnd,
		token.DoubleGreat, token.LessGreat, token.Clobber:
		return true
	}
	return false
}

func (p *Parser) parseIoFile(ioNumber *int) (ast.Node, ast.Node) {
	if !isRedirectOperator(p.peek().Type) {
		if ioNumber != nil {
			// An IoNumber was consumed but nothing redirection-shaped
			// followed; put it back by treating it as a plain word is not
			// possible once consumed, so this is a syntax error.
			return nil, &ast.SyntaxError{Message: "no file name given for redirection"}
		}
		return nil, nil
	}

	op := p.consume()

	if p.peek().Type != token.Word {
		return nil, &ast.SyntaxError{Message: "no file name given for redirection"}
	}
	filename := p.consume()

	switch op.Type {
	case token.Less:
		return &ast.PathRedirection{Path: filename.Value, Fd: valueOr(ioNumber, 0), Flags: ast.Read}, nil
	case token.Great, token.Clobber:
		return &ast.PathRedirection{Path: filename.Value, Fd: valueOr(ioNumber, 1), Flags: ast.Write}, nil
	case token.DoubleGreat:
		return &ast.PathRedirection{Path: filename.Value, Fd: valueOr(ioNumber, 1), Flags: ast.WriteAppend}, nil
	case token.LessGreat:
		return &ast.PathRedirection{Path: filename.Value, Fd: valueOr(ioNumber, 0), Flags: ast.ReadWrite}, nil
	case token.LessAnd, token.GreatAnd:
		leftFd := valueOr(ioNumber, 1)
		direction := ast.Output
		if op.Type == token.LessAnd {
			leftFd = valueOr(ioNumber, 0)
			direction = ast.Input
		}

		var rightFd *int
		if filename.Value == "-" {
			rightFd = nil
		} else if isAllDigits(filename.Value) {
			n, err := strconv.Atoi(filename.Value)
			if err != nil {
				return nil, &ast.SyntaxError{Message: "dup operator not given a valid word"}
			}
			rightFd = &n
		} else {
			return nil, &ast.SyntaxError{Message: "dup operator not given a valid word"}
		}

		return &ast.DupRedirection{LeftFd: leftFd, RightFd: rightFd, Direction: direction}, nil
	}

	return nil, nil
}

func valueOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1
}
