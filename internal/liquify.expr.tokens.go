package internal

import (
	"fmt"
	"strings"
)

// ExprTokenType represents the type of an expression token.
type ExprTokenType string

// Expression token type constants
const (
	ExprTokenTypeIdent    ExprTokenType = "IDENT"
	ExprTokenTypeString   ExprTokenType = "STRING"
	ExprTokenTypeInt      ExprTokenType = "INT"
	ExprTokenTypeFloat    ExprTokenType = "FLOAT"
	ExprTokenTypePipe     ExprTokenType = "PIPE"
	ExprTokenTypeColon    ExprTokenType = "COLON"
	ExprTokenTypeComma    ExprTokenType = "COMMA"
	ExprTokenTypeDot      ExprTokenType = "DOT"
	ExprTokenTypeDotDot   ExprTokenType = "DOTDOT"
	ExprTokenTypeLBracket ExprTokenType = "LBRACKET"
	ExprTokenTypeRBracket ExprTokenType = "RBRACKET"
	ExprTokenTypeLParen   ExprTokenType = "LPAREN"
	ExprTokenTypeRParen   ExprTokenType = "RPAREN"
	ExprTokenTypeCompare  ExprTokenType = "COMPARE"
	ExprTokenTypeAssign   ExprTokenType = "ASSIGN"
	ExprTokenTypeEOF      ExprTokenType = "EOF"
)

// Comparison operator strings
const (
	ExprOpEq  = "=="
	ExprOpNeq = "!="
	ExprOpLt  = "<"
	ExprOpGt  = ">"
	ExprOpLte = "<="
	ExprOpGte = ">="
)

// Expression keyword constants
const (
	ExprKeywordTrue  = "true"
	ExprKeywordFalse = "false"
	ExprKeywordNil   = "nil"
	ExprKeywordNull  = "null"
)

// ExprToken represents a token inside an output or tag-argument span.
type ExprToken struct {
	Type  ExprTokenType
	Value string
	Pos   int // Byte offset within the expression text
}

// String returns the string representation of the token.
func (t ExprToken) String() string {
	if t.Value != StringValueEmpty {
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
	return string(t.Type)
}

// ExprTokenizer tokenizes the expression sub-grammar.
type ExprTokenizer struct {
	input string
	pos   int
	len   int
}

// NewExprTokenizer creates a new expression tokenizer.
func NewExprTokenizer(input string) *ExprTokenizer {
	return &ExprTokenizer{input: input, pos: 0, len: len(input)}
}

// Tokenize converts the input string into a slice of tokens.
func (t *ExprTokenizer) Tokenize() ([]ExprToken, error) {
	var tokens []ExprToken

	for {
		t.skipWhitespace()
		if t.pos >= t.len {
			tokens = append(tokens, ExprToken{Type: ExprTokenTypeEOF, Pos: t.pos})
			return tokens, nil
		}
		token, err := t.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
}

// nextToken reads the next token from the input.
func (t *ExprTokenizer) nextToken() (ExprToken, error) {
	startPos := t.pos
	ch := t.input[t.pos]

	if ch == CharDoubleQuote || ch == CharSingleQuote {
		return t.readString()
	}

	if isDigit(ch) || (ch == CharMinus && t.pos+1 < t.len && isDigit(t.input[t.pos+1])) {
		return t.readNumber()
	}

	if isLetter(ch) || ch == CharUnderscore {
		return t.readIdentifier()
	}

	// Two-character operators
	if t.pos+1 < t.len {
		twoChar := t.input[t.pos : t.pos+2]
		switch twoChar {
		case "..":
			t.pos += 2
			return ExprToken{Type: ExprTokenTypeDotDot, Value: twoChar, Pos: startPos}, nil
		case ExprOpEq, ExprOpNeq, ExprOpLte, ExprOpGte:
			t.pos += 2
			return ExprToken{Type: ExprTokenTypeCompare, Value: twoChar, Pos: startPos}, nil
		}
	}

	t.pos++
	switch ch {
	case CharPipe:
		return ExprToken{Type: ExprTokenTypePipe, Value: "|", Pos: startPos}, nil
	case CharColon:
		return ExprToken{Type: ExprTokenTypeColon, Value: ":", Pos: startPos}, nil
	case CharComma:
		return ExprToken{Type: ExprTokenTypeComma, Value: ",", Pos: startPos}, nil
	case CharDot:
		return ExprToken{Type: ExprTokenTypeDot, Value: ".", Pos: startPos}, nil
	case CharLBracket:
		return ExprToken{Type: ExprTokenTypeLBracket, Value: "[", Pos: startPos}, nil
	case CharRBracket:
		return ExprToken{Type: ExprTokenTypeRBracket, Value: "]", Pos: startPos}, nil
	case CharLParen:
		return ExprToken{Type: ExprTokenTypeLParen, Value: "(", Pos: startPos}, nil
	case CharRParen:
		return ExprToken{Type: ExprTokenTypeRParen, Value: ")", Pos: startPos}, nil
	case '<':
		return ExprToken{Type: ExprTokenTypeCompare, Value: ExprOpLt, Pos: startPos}, nil
	case '>':
		return ExprToken{Type: ExprTokenTypeCompare, Value: ExprOpGt, Pos: startPos}, nil
	case '=':
		return ExprToken{Type: ExprTokenTypeAssign, Value: "=", Pos: startPos}, nil
	}

	return ExprToken{}, &exprScanError{message: ErrMsgUnexpectedChar, pos: startPos, detail: string(ch)}
}

// readString reads a single- or double-quoted string literal.
func (t *ExprTokenizer) readString() (ExprToken, error) {
	startPos := t.pos
	quote := t.input[t.pos]
	t.pos++

	var sb strings.Builder
	for t.pos < t.len {
		ch := t.input[t.pos]
		if ch == quote {
			t.pos++
			return ExprToken{Type: ExprTokenTypeString, Value: sb.String(), Pos: startPos}, nil
		}
		if ch == CharBackslash && t.pos+1 < t.len {
			t.pos++
			escaped := t.input[t.pos]
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(escaped)
			}
			t.pos++
			continue
		}
		sb.WriteByte(ch)
		t.pos++
	}

	return ExprToken{}, &exprScanError{message: ErrMsgUnterminatedString, pos: startPos}
}

// readNumber reads an integer or decimal literal. A trailing ".." is left
// for the range operator.
func (t *ExprTokenizer) readNumber() (ExprToken, error) {
	startPos := t.pos
	if t.input[t.pos] == CharMinus {
		t.pos++
	}
	hasDecimal := false

	for t.pos < t.len {
		ch := t.input[t.pos]
		if ch == CharDot {
			if hasDecimal {
				break
			}
			// ".." after a number is a range operator, not a decimal point
			if t.pos+1 < t.len && t.input[t.pos+1] == CharDot {
				break
			}
			if t.pos+1 >= t.len || !isDigit(t.input[t.pos+1]) {
				break
			}
			hasDecimal = true
			t.pos++
			continue
		}
		if !isDigit(ch) {
			break
		}
		t.pos++
	}

	value := t.input[startPos:t.pos]
	typ := ExprTokenTypeInt
	if hasDecimal {
		typ = ExprTokenTypeFloat
	}
	return ExprToken{Type: typ, Value: value, Pos: startPos}, nil
}

// readIdentifier reads an identifier (a single path component; dots are
// tokenized separately so bracket access composes).
func (t *ExprTokenizer) readIdentifier() (ExprToken, error) {
	startPos := t.pos
	for t.pos < t.len {
		ch := t.input[t.pos]
		if !isLetter(ch) && !isDigit(ch) && ch != CharUnderscore && ch != CharMinus {
			break
		}
		t.pos++
	}
	return ExprToken{Type: ExprTokenTypeIdent, Value: t.input[startPos:t.pos], Pos: startPos}, nil
}

// skipWhitespace skips whitespace characters.
func (t *ExprTokenizer) skipWhitespace() {
	for t.pos < t.len {
		ch := t.input[t.pos]
		if ch != CharSpace && ch != CharTab && ch != CharNewline && ch != CharCarriageRet {
			break
		}
		t.pos++
	}
}

// exprScanError is an internal scan failure, converted to a ParseError
// with a real source position by the caller.
type exprScanError struct {
	message string
	detail  string
	pos     int
}

func (e *exprScanError) Error() string {
	if e.detail != StringValueEmpty {
		return fmt.Sprintf("%s at position %d: %s", e.message, e.pos, e.detail)
	}
	return fmt.Sprintf("%s at position %d", e.message, e.pos)
}
