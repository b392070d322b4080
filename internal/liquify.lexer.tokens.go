package internal

import "fmt"

// TokenType identifies a span kind in the flat token stream.
type TokenType int

// Token type constants
const (
	TokenTypeText TokenType = iota
	TokenTypeOutput
	TokenTypeTag
	TokenTypeEOF
)

// Token type name constants
const (
	TokenTypeNameText   = "TEXT"
	TokenTypeNameOutput = "OUTPUT"
	TokenTypeNameTag    = "TAG"
	TokenTypeNameEOF    = "EOF"
)

// String returns the token type name.
func (t TokenType) String() string {
	switch t {
	case TokenTypeText:
		return TokenTypeNameText
	case TokenTypeOutput:
		return TokenTypeNameOutput
	case TokenTypeTag:
		return TokenTypeNameTag
	case TokenTypeEOF:
		return TokenTypeNameEOF
	default:
		return TokenTypeNameEOF
	}
}

// Token is one span of the template source. For output spans Value holds
// the inner expression text; for tag spans Name holds the tag name and
// Args the remaining argument text. Trim markers are recorded so the lexer
// can strip adjacent literal whitespace before the parser runs.
type Token struct {
	Type      TokenType
	Value     string
	Name      string
	Args      string
	Position  Position
	TrimLeft  bool
	TrimRight bool
}

// String returns a human-readable representation for debugging.
func (t Token) String() string {
	switch t.Type {
	case TokenTypeText:
		return fmt.Sprintf("TEXT(%q @ %s)", t.Value, t.Position)
	case TokenTypeOutput:
		return fmt.Sprintf("OUTPUT(%q @ %s)", t.Value, t.Position)
	case TokenTypeTag:
		return fmt.Sprintf("TAG(%s %q @ %s)", t.Name, t.Args, t.Position)
	default:
		return TokenTypeNameEOF
	}
}

// NewTextToken creates a literal text token.
func NewTextToken(value string, pos Position) Token {
	return Token{Type: TokenTypeText, Value: value, Position: pos}
}

// NewOutputToken creates an output expression token.
func NewOutputToken(expr string, pos Position, trimLeft, trimRight bool) Token {
	return Token{Type: TokenTypeOutput, Value: expr, Position: pos, TrimLeft: trimLeft, TrimRight: trimRight}
}

// NewTagToken creates a tag token.
func NewTagToken(name, args string, pos Position, trimLeft, trimRight bool) Token {
	return Token{Type: TokenTypeTag, Name: name, Args: args, Position: pos, TrimLeft: trimLeft, TrimRight: trimRight}
}

// NewEOFToken creates an end-of-input token.
func NewEOFToken(pos Position) Token {
	return Token{Type: TokenTypeEOF, Position: pos}
}
