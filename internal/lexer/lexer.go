// Package lexer implements the ratsh tokeniser: a small state machine that
// turns shell source bytes into a stream of token.Token values, following
// POSIX "Token Recognition" rules (quoting, operator delimiting, I/O number
// detection, comments). See ratsh/internal/token for the token vocabulary.
package lexer

import (
	"strings"
	"unicode"

	"ratsh/internal/token"
)

// stateType names the states of the tokeniser's driver loop.
type stateType int

const (
	stateNone stateType = iota
	stateStart
	stateEnd
	stateOperator
	stateSingleQuotedString
	stateIoNumber
	stateComment
)

// state is the tokeniser's mutable working state between batches.
type state struct {
	buffer     strings.Builder
	isEscaping bool
}

func (s *state) reset() {
	s.buffer.Reset()
}

// Lexer drives the tokeniser state machine over an input string. Callers
// pull token batches with BatchNext until an empty batch signals no further
// progress is possible without more input.
type Lexer struct {
	input string
	index int

	st            state
	nextStateType stateType
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input, nextStateType: stateStart}
}

// IsEOF reports whether the lexer has consumed the whole input.
func (l *Lexer) IsEOF() bool {
	return l.index >= len(l.input)
}

func (l *Lexer) peek() byte {
	if l.IsEOF() {
		return 0
	}
	return l.input[l.index]
}

func (l *Lexer) peekIs(ch byte) bool {
	return !l.IsEOF() && l.peek() == ch
}

func (l *Lexer) consume() byte {
	ch := l.input[l.index]
	l.index++
	return ch
}

type transitionResult struct {
	tokens        []token.Token
	nextStateType stateType
}

// BatchNext pumps the state machine forward until it has a non-empty batch
// of tokens to hand back, or has nothing left to do (an empty batch then
// signals end of progress; the final batch before that always contains the
// Eof token).
func (l *Lexer) BatchNext() []token.Token {
	for l.nextStateType != stateNone {
		result := l.transition(l.nextStateType)
		l.nextStateType = result.nextStateType

		if len(result.tokens) > 0 {
			return result.tokens
		}
	}
	return nil
}

func (l *Lexer) transition(st stateType) transitionResult {
	switch st {
	case stateNone:
		return transitionResult{nextStateType: stateNone}
	case stateStart:
		return l.transitionStart()
	case stateEnd:
		return l.transitionEnd()
	case stateOperator:
		return l.transitionOperator()
	case stateSingleQuotedString:
		return l.transitionSingleQuotedString()
	case stateIoNumber:
		return l.transitionIoNumber()
	case stateComment:
		return l.transitionComment()
	}
	return transitionResult{nextStateType: stateNone}
}

// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html#tag_18_03
func (l *Lexer) transitionStart() transitionResult {
	// 1. End of input delimits the current token, if any.
	if l.IsEOF() {
		var tokens []token.Token
		if tok, ok := token.Generic(l.st.buffer.String()); ok {
			tokens = append(tokens, tok)
		}
		l.st.reset()
		return transitionResult{tokens: tokens, nextStateType: stateEnd}
	}

	if l.st.isEscaping {
		// (2.2.1) A <newline> following a <backslash> is a line
		// continuation: both are removed before splitting into tokens.
		if l.peekIs('\n') {
			l.st.isEscaping = false
			buf := l.st.buffer.String()
			l.st.buffer.Reset()
			l.st.buffer.WriteString(buf[:len(buf)-1]) // drop the trailing '\'
			l.consume()                               // skip the newline
			return transitionResult{nextStateType: stateStart}
		}
	} else {
		// 4. A <backslash> begins an escape sequence.
		if l.peekIs('\\') {
			l.st.isEscaping = true
			l.st.buffer.WriteByte(l.consume())
			return transitionResult{nextStateType: stateStart}
		}

		// A single-quote starts a literal, verbatim region.
		if l.peekIs('\'') {
			l.st.buffer.WriteByte(l.consume())
			return transitionResult{nextStateType: stateSingleQuotedString}
		}

		// 6. An unquoted character that can begin an operator delimits the
		// current token and starts a new operator token.
		if token.IsPartOfOperator("", l.peek()) {
			var tokens []token.Token
			if tok, ok := token.Generic(l.st.buffer.String()); ok {
				tokens = append(tokens, tok)
			}
			l.st.reset()
			l.st.buffer.WriteByte(l.consume())
			return transitionResult{tokens: tokens, nextStateType: stateOperator}
		}

		// 7. An unquoted <blank> delimits the current token and is discarded.
		if isBlank(l.peek()) {
			var tokens []token.Token
			if tok, ok := token.Generic(l.st.buffer.String()); ok {
				tokens = append(tokens, tok)
			}
			l.consume()
			l.st.reset()
			return transitionResult{tokens: tokens, nextStateType: stateStart}
		}

		// (2.10.1) A leading digit immediately followed by '<'/'>' becomes
		// an IO_NUMBER; only the first digit of an empty buffer qualifies.
		if isDigit(l.peek()) && l.st.buffer.Len() == 0 {
			l.st.buffer.WriteByte(l.consume())
			return transitionResult{nextStateType: stateIoNumber}
		}

		// 9. '#' starts a comment that runs to (excluding) the next newline.
		if l.peekIs('#') {
			return transitionResult{nextStateType: stateComment}
		}
	}

	// 8/10. Append the character to the current word.
	l.st.isEscaping = false
	l.st.buffer.WriteByte(l.consume())
	return transitionResult{nextStateType: stateStart}
}

func (l *Lexer) transitionEnd() transitionResult {
	return transitionResult{tokens: []token.Token{token.EOF()}, nextStateType: stateNone}
}

// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html#tag_18_03
func (l *Lexer) transitionOperator() transitionResult {
	buffer := l.st.buffer.String()

	if l.IsEOF() {
		if token.IsOperator(buffer) {
			tok, _ := token.FromOperator(buffer)
			l.st.reset()
			return transitionResult{tokens: []token.Token{tok}, nextStateType: stateEnd}
		}
		// Characters that looked like the start of an operator but never
		// formed one at EOF fall back to Start so rule 1 can resolve them.
		return transitionResult{nextStateType: stateStart}
	}

	// 2. If the buffer extends to a still-valid operator, keep accumulating.
	if token.IsPartOfOperator(buffer, l.peek()) {
		l.st.buffer.WriteByte(l.consume())
		return transitionResult{nextStateType: stateOperator}
	}

	// 3. Otherwise the operator containing the previous character(s) is
	// delimited (if it's actually a complete operator).
	var tokens []token.Token
	if token.IsOperator(buffer) {
		tok, _ := token.FromOperator(buffer)
		tokens = append(tokens, tok)
		l.st.reset()
	}

	return transitionResult{tokens: tokens, nextStateType: stateStart}
}

func (l *Lexer) transitionSingleQuotedString() transitionResult {
	// An unterminated quote at end of input leaves the buffer for Start to
	// emit as an ordinary token.
	if l.IsEOF() {
		return transitionResult{nextStateType: stateStart}
	}

	ch := l.consume()
	l.st.buffer.WriteByte(ch)

	if ch == '\'' {
		// The token is not delimited by the closing quote.
		return transitionResult{nextStateType: stateStart}
	}

	return transitionResult{nextStateType: stateSingleQuotedString}
}

func (l *Lexer) transitionIoNumber() transitionResult {
	if l.IsEOF() {
		return transitionResult{nextStateType: stateStart}
	}

	if l.peekIs('<') || l.peekIs('>') {
		tok := token.Token{Type: token.IoNumber, Value: l.st.buffer.String()}
		l.st.reset()
		return transitionResult{tokens: []token.Token{tok}, nextStateType: stateStart}
	}

	if isDigit(l.peek()) {
		l.st.buffer.WriteByte(l.consume())
		return transitionResult{nextStateType: stateIoNumber}
	}

	// No longer digits (e.g. "10.txt"); the buffer continues as a word.
	return transitionResult{nextStateType: stateStart}
}

func (l *Lexer) transitionComment() transitionResult {
	if l.IsEOF() {
		return transitionResult{nextStateType: stateEnd}
	}

	if l.consume() == '\n' {
		return transitionResult{tokens: []token.Token{token.NewlineToken()}, nextStateType: stateStart}
	}

	return transitionResult{nextStateType: stateComment}
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

func isDigit(ch byte) bool {
	return unicode.IsDigit(rune(ch))
}
