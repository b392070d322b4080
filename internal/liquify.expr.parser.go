package internal

import "strconv"

// ExprParser parses the expression sub-grammar inside output and
// tag-argument spans. It is purely structural: it never evaluates
// expressions or touches data.
type ExprParser struct {
	tokens  []ExprToken
	pos     int
	basePos Position
}

// NewExprParser tokenizes src and returns a parser over it. basePos is the
// template position of the enclosing span, used for error attribution.
func NewExprParser(src string, basePos Position) (*ExprParser, error) {
	tokens, err := NewExprTokenizer(src).Tokenize()
	if err != nil {
		return nil, NewParseError(ErrMsgExprSyntax, err.Error(), basePos)
	}
	return &ExprParser{tokens: tokens, basePos: basePos}, nil
}

// ParseFilteredExpression parses a complete `expr | filter: args...`
// expression and requires the whole input to be consumed.
func ParseFilteredExpression(src string, basePos Position) (Expression, error) {
	p, err := NewExprParser(src, basePos)
	if err != nil {
		return nil, err
	}
	expr, err := p.ParseFiltered()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseCondition parses a boolean condition (comparisons joined with
// and/or) and requires the whole input to be consumed.
func ParseCondition(src string, basePos Position) (Expression, error) {
	p, err := NewExprParser(src, basePos)
	if err != nil {
		return nil, err
	}
	expr, err := p.ParseConditionExpr()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseConditionExpr parses comparison (and/or comparison)*.
func (p *ExprParser) ParseConditionExpr() (Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != ExprTokenTypeIdent || (tok.Value != KeywordAnd && tok.Value != KeywordOr) {
			return left, nil
		}
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: tok.Value, Right: right}
	}
}

// parseComparison parses filtered (op filtered)?, where op is a comparison
// operator or the contains keyword.
func (p *ExprParser) parseComparison() (Expression, error) {
	left, err := p.ParseFiltered()
	if err != nil {
		return nil, err
	}

	tok := p.current()
	switch {
	case tok.Type == ExprTokenTypeCompare:
		p.advance()
		right, err := p.ParseFiltered()
		if err != nil {
			return nil, err
		}
		return &ComparisonExpr{Left: left, Op: tok.Value, Right: right}, nil
	case tok.Type == ExprTokenTypeIdent && tok.Value == KeywordContains:
		p.advance()
		right, err := p.ParseFiltered()
		if err != nil {
			return nil, err
		}
		return &ComparisonExpr{Left: left, Op: KeywordContains, Right: right}, nil
	default:
		return left, nil
	}
}

// ParseFiltered parses primary ('|' filtercall)*. Filters apply in written
// order, left-associative.
func (p *ExprParser) ParseFiltered() (Expression, error) {
	input, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}

	var filters []FilterCall
	for p.current().Type == ExprTokenTypePipe {
		p.advance()
		call, err := p.parseFilterCall()
		if err != nil {
			return nil, err
		}
		filters = append(filters, call)
	}

	if len(filters) == 0 {
		return input, nil
	}
	return &FilteredExpr{Input: input, Filters: filters}, nil
}

// parseFilterCall parses `name` or `name: arg, arg, kw: val`.
func (p *ExprParser) parseFilterCall() (FilterCall, error) {
	nameTok := p.current()
	if nameTok.Type != ExprTokenTypeIdent {
		return FilterCall{}, p.errExpected(ErrMsgExpectedIdentifier, nameTok)
	}
	p.advance()

	call := FilterCall{Name: nameTok.Value}
	if p.current().Type != ExprTokenTypeColon {
		return call, nil
	}
	p.advance()

	for {
		// A keyword argument is an identifier directly followed by a colon.
		if p.current().Type == ExprTokenTypeIdent && p.peekAhead(1).Type == ExprTokenTypeColon {
			kwName := p.current().Value
			p.advance() // ident
			p.advance() // colon
			val, err := p.ParsePrimary()
			if err != nil {
				return FilterCall{}, err
			}
			call.KwArgs = append(call.KwArgs, KwArg{Name: kwName, Value: val})
		} else {
			arg, err := p.ParsePrimary()
			if err != nil {
				return FilterCall{}, err
			}
			call.Args = append(call.Args, arg)
		}

		if p.current().Type != ExprTokenTypeComma {
			return call, nil
		}
		p.advance()
	}
}

// ParsePrimary parses a literal, a range literal or a variable path.
func (p *ExprParser) ParsePrimary() (Expression, error) {
	tok := p.current()

	switch tok.Type {
	case ExprTokenTypeString:
		p.advance()
		return NewLiteral(Str(tok.Value)), nil

	case ExprTokenTypeInt:
		p.advance()
		i, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errExpected(ErrMsgExprSyntax, tok)
		}
		return NewLiteral(Int(i)), nil

	case ExprTokenTypeFloat:
		p.advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errExpected(ErrMsgExprSyntax, tok)
		}
		return NewLiteral(Float(f)), nil

	case ExprTokenTypeLParen:
		return p.parseRange()

	case ExprTokenTypeIdent:
		switch tok.Value {
		case ExprKeywordTrue:
			p.advance()
			return NewLiteral(Bool(true)), nil
		case ExprKeywordFalse:
			p.advance()
			return NewLiteral(Bool(false)), nil
		case ExprKeywordNil, ExprKeywordNull:
			p.advance()
			return NewLiteral(Nil()), nil
		}
		return p.parsePath()

	default:
		return nil, p.errExpected(ErrMsgExpectedExpression, tok)
	}
}

// parseRange parses an inclusive range literal `(from..to)`.
func (p *ExprParser) parseRange() (Expression, error) {
	p.advance() // consume LPAREN

	from, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}

	if p.current().Type != ExprTokenTypeDotDot {
		return nil, p.errExpected(ErrMsgExprSyntax, p.current())
	}
	p.advance()

	to, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}

	if p.current().Type != ExprTokenTypeRParen {
		return nil, NewParseError(ErrMsgUnterminatedRange, StringValueEmpty, p.basePos)
	}
	p.advance()

	return &RangeExpr{From: from, To: to}, nil
}

// parsePath parses ident ('.' ident | '[' expr ']')*.
func (p *ExprParser) parsePath() (Expression, error) {
	rootTok := p.current()
	if rootTok.Type != ExprTokenTypeIdent {
		return nil, p.errExpected(ErrMsgExpectedIdentifier, rootTok)
	}
	p.advance()

	path := &PathExpr{Root: rootTok.Value}
	for {
		switch p.current().Type {
		case ExprTokenTypeDot:
			p.advance()
			nameTok := p.current()
			if nameTok.Type != ExprTokenTypeIdent {
				return nil, p.errExpected(ErrMsgExpectedIdentifier, nameTok)
			}
			p.advance()
			path.Segments = append(path.Segments, PathSegment{Name: nameTok.Value})

		case ExprTokenTypeLBracket:
			p.advance()
			index, err := p.ParsePrimary()
			if err != nil {
				return nil, err
			}
			if p.current().Type != ExprTokenTypeRBracket {
				return nil, p.errExpected(ErrMsgExprSyntax, p.current())
			}
			p.advance()
			path.Segments = append(path.Segments, PathSegment{Index: index, IsIndex: true})

		default:
			return path, nil
		}
	}
}

// Cursor helpers used by tag parslets consuming argument grammars.

// AcceptIdent consumes the current token when it is the given identifier.
func (p *ExprParser) AcceptIdent(name string) bool {
	tok := p.current()
	if tok.Type == ExprTokenTypeIdent && tok.Value == name {
		p.advance()
		return true
	}
	return false
}

// ExpectIdent consumes and returns the current identifier token value.
func (p *ExprParser) ExpectIdent() (string, error) {
	tok := p.current()
	if tok.Type != ExprTokenTypeIdent {
		return StringValueEmpty, p.errExpected(ErrMsgExpectedIdentifier, tok)
	}
	p.advance()
	return tok.Value, nil
}

// AcceptToken consumes the current token when it has the given type.
func (p *ExprParser) AcceptToken(typ ExprTokenType) bool {
	if p.current().Type == typ {
		p.advance()
		return true
	}
	return false
}

// ExpectToken consumes the current token of the given type or fails.
func (p *ExprParser) ExpectToken(typ ExprTokenType) error {
	tok := p.current()
	if tok.Type != typ {
		return p.errExpected(ErrMsgExprSyntax, tok)
	}
	p.advance()
	return nil
}

// AtEnd reports whether all input has been consumed.
func (p *ExprParser) AtEnd() bool {
	return p.current().Type == ExprTokenTypeEOF
}

// ExpectEOF fails with a parse error when input remains.
func (p *ExprParser) ExpectEOF() error {
	if !p.AtEnd() {
		return p.errExpected(ErrMsgTrailingInput, p.current())
	}
	return nil
}

// current returns the current token.
func (p *ExprParser) current() ExprToken {
	if p.pos >= len(p.tokens) {
		return ExprToken{Type: ExprTokenTypeEOF}
	}
	return p.tokens[p.pos]
}

// peekAhead returns the token n positions ahead without advancing.
func (p *ExprParser) peekAhead(n int) ExprToken {
	if p.pos+n >= len(p.tokens) {
		return ExprToken{Type: ExprTokenTypeEOF}
	}
	return p.tokens[p.pos+n]
}

// advance consumes the current token.
func (p *ExprParser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// errExpected builds a parse error naming the offending token.
func (p *ExprParser) errExpected(message string, tok ExprToken) error {
	detail := tok.Value
	if detail == StringValueEmpty {
		detail = string(tok.Type)
	}
	return NewParseError(message, detail, p.basePos)
}
