package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Lexer scans raw template text into a flat stream of text, output and tag
// tokens. Whitespace-control markers are resolved here, so the token
// stream the parser sees already has adjacent literal whitespace stripped.
type Lexer struct {
	source string
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	logger *zap.Logger
}

// NewLexer creates a new lexer over the given source.
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Tokenize processes the source and returns the token stream.
func (l *Lexer) Tokenize() ([]Token, error) {
	l.logger.Debug(LogMsgTokenizeStart)
	var tokens []Token

	for !l.isAtEnd() {
		if l.matchStr(StrOutputOpen) {
			tok, err := l.scanOutput()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			continue
		}

		if l.matchStr(StrTagOpen) {
			tok, err := l.scanTag()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

			// The body of a raw block is literal text up to endraw; it
			// must not be tokenized.
			if tok.Name == TagNameRaw {
				rawTokens, err := l.scanRawBody()
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, rawTokens...)
			}
			continue
		}

		textToken := l.scanText()
		if textToken.Value != StringValueEmpty {
			tokens = append(tokens, textToken)
		}
	}

	tokens = append(tokens, NewEOFToken(l.currentPosition()))
	tokens = applyWhitespaceControl(tokens)
	l.logger.Debug(LogMsgTokenizeEnd, zap.Int(LogFieldTokens, len(tokens)))
	return tokens, nil
}

// scanText scans literal text until the next delimiter.
func (l *Lexer) scanText() Token {
	startPos := l.currentPosition()
	var sb strings.Builder

	for !l.isAtEnd() {
		if l.matchStr(StrOutputOpen) || l.matchStr(StrTagOpen) {
			break
		}
		sb.WriteByte(l.advance())
	}

	return NewTextToken(sb.String(), startPos)
}

// scanOutput scans an output span: {{ expr }}, with optional trim markers
// immediately inside either delimiter.
func (l *Lexer) scanOutput() (Token, error) {
	startPos := l.currentPosition()
	l.advanceN(len(StrOutputOpen))

	trimLeft := l.matchStr(StrTrimMarker)
	if trimLeft {
		l.advance()
	}

	inner, trimRight, ok := l.scanUntilClose(StrOutputClose)
	if !ok {
		return Token{}, NewParseError(ErrMsgUnterminatedOutput, StrOutputOpen, startPos)
	}

	expr := strings.TrimSpace(inner)
	if expr == StringValueEmpty {
		return Token{}, NewParseError(ErrMsgEmptyOutput, StringValueEmpty, startPos)
	}
	return NewOutputToken(expr, startPos, trimLeft, trimRight), nil
}

// scanTag scans a tag span: {% name args %}, with optional trim markers.
func (l *Lexer) scanTag() (Token, error) {
	startPos := l.currentPosition()
	l.advanceN(len(StrTagOpen))

	trimLeft := l.matchStr(StrTrimMarker)
	if trimLeft {
		l.advance()
	}

	inner, trimRight, ok := l.scanUntilClose(StrTagClose)
	if !ok {
		return Token{}, NewParseError(ErrMsgUnterminatedTag, StrTagOpen, startPos)
	}

	inner = strings.TrimSpace(inner)
	if inner == StringValueEmpty {
		return Token{}, NewParseError(ErrMsgEmptyTag, StringValueEmpty, startPos)
	}

	name, args := splitTagContent(inner)
	return NewTagToken(name, args, startPos, trimLeft, trimRight), nil
}

// scanUntilClose consumes source up to (and including) the closing
// delimiter, honoring string literals so a delimiter inside quotes does
// not terminate the span. Returns the inner text and whether a trim marker
// sat immediately inside the closing delimiter.
func (l *Lexer) scanUntilClose(closeDelim string) (inner string, trimRight bool, ok bool) {
	var sb strings.Builder

	for !l.isAtEnd() {
		ch := l.peek()

		if ch == CharDoubleQuote || ch == CharSingleQuote {
			str, terminated := l.scanQuoted(ch)
			sb.WriteString(str)
			if !terminated {
				return StringValueEmpty, false, false
			}
			continue
		}

		if ch == CharMinus && l.matchStrAt(1, closeDelim) {
			l.advance()
			l.advanceN(len(closeDelim))
			return sb.String(), true, true
		}

		if l.matchStr(closeDelim) {
			l.advanceN(len(closeDelim))
			return sb.String(), false, true
		}

		sb.WriteByte(l.advance())
	}

	return StringValueEmpty, false, false
}

// scanQuoted consumes a quoted string literal including its quotes.
func (l *Lexer) scanQuoted(quote byte) (string, bool) {
	var sb strings.Builder
	sb.WriteByte(l.advance()) // opening quote

	for !l.isAtEnd() {
		ch := l.advance()
		sb.WriteByte(ch)
		if ch == CharBackslash && !l.isAtEnd() {
			sb.WriteByte(l.advance())
			continue
		}
		if ch == quote {
			return sb.String(), true
		}
	}
	return sb.String(), false
}

// scanRawBody consumes literal text up to the matching {% endraw %} and
// returns it as a text token followed by the endraw tag token.
func (l *Lexer) scanRawBody() ([]Token, error) {
	startPos := l.currentPosition()
	var sb strings.Builder

	for !l.isAtEnd() {
		if l.matchStr(StrTagOpen) {
			save := l.snapshot()
			tok, err := l.scanTag()
			if err == nil && tok.Name == TagNameEndRaw {
				return []Token{
					NewTextToken(sb.String(), startPos),
					tok,
				}, nil
			}
			l.restore(save)
		}
		sb.WriteByte(l.advance())
	}

	return nil, NewParseError(ErrMsgMissingTerminator, TagNameEndRaw, startPos)
}

// splitTagContent separates the leading tag name from its argument text.
func splitTagContent(inner string) (name, args string) {
	i := 0
	for i < len(inner) {
		ch := inner[i]
		if isLetter(ch) || isDigit(ch) || ch == CharUnderscore {
			i++
			continue
		}
		break
	}
	return inner[:i], strings.TrimSpace(inner[i:])
}

// applyWhitespaceControl strips adjacent literal whitespace around tokens
// carrying trim markers. This is a property of the token stream, not the
// runtime.
func applyWhitespaceControl(tokens []Token) []Token {
	for i := range tokens {
		if tokens[i].Type != TokenTypeOutput && tokens[i].Type != TokenTypeTag {
			continue
		}
		if tokens[i].TrimLeft && i > 0 && tokens[i-1].Type == TokenTypeText {
			tokens[i-1].Value = strings.TrimRight(tokens[i-1].Value, trimCutset)
		}
		if tokens[i].TrimRight && i+1 < len(tokens) && tokens[i+1].Type == TokenTypeText {
			tokens[i+1].Value = strings.TrimLeft(tokens[i+1].Value, trimCutset)
		}
	}
	return tokens
}

// trimCutset is the whitespace stripped by trim markers.
const trimCutset = " \t\r\n"

// lexerState captures scanner position for backtracking.
type lexerState struct {
	pos    int
	line   int
	column int
}

func (l *Lexer) snapshot() lexerState {
	return lexerState{pos: l.pos, line: l.line, column: l.column}
}

func (l *Lexer) restore(s lexerState) {
	l.pos = s.pos
	l.line = s.line
	l.column = s.column
}

// Helper methods

// currentPosition returns the current position.
func (l *Lexer) currentPosition() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

// isAtEnd returns true if we've reached the end of source.
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current character without advancing.
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

// advance consumes and returns the current character.
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == CharNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// advanceN advances by n characters.
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
}

// matchStr returns true if the remaining source starts with s.
func (l *Lexer) matchStr(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}

// matchStrAt returns true if the source at offset from the current
// position starts with s.
func (l *Lexer) matchStrAt(offset int, s string) bool {
	if l.pos+offset > len(l.source) {
		return false
	}
	return strings.HasPrefix(l.source[l.pos+offset:], s)
}

// Character classification helpers

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
