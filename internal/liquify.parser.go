package internal

import (
	"go.uber.org/zap"
)

// Parser turns the flat token stream into a tree of executable nodes,
// dispatching tag spans to the registered parslets. The parser is purely
// structural: it never evaluates expressions or touches data.
type Parser struct {
	tokens   []Token
	pos      int
	tags     *TagRegistry
	blocks   *BlockRegistry
	template string
	logger   *zap.Logger
}

// NewParser creates a parser over a token stream.
func NewParser(tokens []Token, tags *TagRegistry, blocks *BlockRegistry, templateName string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldTokens, len(tokens)), zap.String(LogFieldTemplate, templateName))
	return &Parser{
		tokens:   tokens,
		tags:     tags,
		blocks:   blocks,
		template: templateName,
		logger:   logger,
	}
}

// Parse consumes the whole stream and returns the top-level node
// sequence.
func (p *Parser) Parse() ([]Node, error) {
	p.logger.Debug(LogMsgParseStart)

	var nodes []Node
	for !p.isAtEnd() {
		node, err := p.parseNode()
		if err != nil {
			return nil, p.attribute(err)
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	p.logger.Debug(LogMsgParseEnd, zap.Int(LogFieldNodes, len(nodes)))
	return nodes, nil
}

// parseNode parses a single node at the current position.
func (p *Parser) parseNode() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenTypeText:
		p.advance()
		if tok.Value == StringValueEmpty {
			return nil, nil
		}
		return NewTextNode(tok.Value, tok.Position), nil

	case TokenTypeOutput:
		p.advance()
		expr, err := ParseFilteredExpression(tok.Value, tok.Position)
		if err != nil {
			return nil, err
		}
		return NewOutputNode(expr, tok.Position), nil

	case TokenTypeTag:
		return p.parseTag()

	default:
		return nil, nil
	}
}

// parseTag dispatches a tag token to its registered parslet.
func (p *Parser) parseTag() (Node, error) {
	tok := p.current()

	if block, ok := p.blocks.Get(tok.Name); ok {
		p.advance()
		args, err := NewExprParser(tok.Args, tok.Position)
		if err != nil {
			return nil, err
		}
		cursor := &BlockCursor{parser: p, block: block, openTok: tok}
		return block.ParseBlock(args, tok, cursor)
	}

	if tag, ok := p.tags.Get(tok.Name); ok {
		p.advance()
		args, err := NewExprParser(tok.Args, tok.Position)
		if err != nil {
			return nil, err
		}
		return tag.ParseTag(args, tok, p)
	}

	// A terminator or continuation tag with no matching opener.
	if _, ok := p.blocks.IsTerminator(tok.Name); ok {
		return nil, NewParseError(ErrMsgOrphanTag, tok.Name, tok.Position)
	}

	return nil, NewParseError(ErrMsgUnknownTag, tok.Name, tok.Position)
}

// Helper methods

// current returns the current token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenTypeEOF}
	}
	return p.tokens[p.pos]
}

// advance consumes the current token.
func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// isAtEnd returns true at EOF.
func (p *Parser) isAtEnd() bool {
	return p.current().Type == TokenTypeEOF
}

// attribute stamps the template name onto parse errors for attribution.
func (p *Parser) attribute(err error) error {
	if pe, ok := err.(*ParseError); ok && pe.Template == StringValueEmpty {
		pe.Template = p.template
	}
	return err
}

// BlockCursor is handed to a block parslet so it can drive the parser
// through its body, including recursively parsed nested blocks, until one
// of its own terminator or continuation tags appears at this nesting
// level.
type BlockCursor struct {
	parser  *Parser
	block   BlockParser
	openTok Token
}

// OpenPosition returns the position of the block's opening tag.
func (c *BlockCursor) OpenPosition() Position {
	return c.openTok.Position
}

// ParseUntil parses body nodes until the block's terminator or one of the
// given continuation tags appears. The stopping tag token is consumed and
// returned so the parslet can read its arguments. Reaching end of input
// first is a parse error naming the expected terminator and the opening
// location.
func (c *BlockCursor) ParseUntil(continuations ...string) ([]Node, Token, error) {
	var nodes []Node

	for !c.parser.isAtEnd() {
		tok := c.parser.current()

		if tok.Type == TokenTypeTag {
			if tok.Name == c.block.EndTag() || containsString(continuations, tok.Name) {
				c.parser.advance()
				return nodes, tok, nil
			}
		}

		node, err := c.parser.parseNode()
		if err != nil {
			return nil, Token{}, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	pe := NewParseError(ErrMsgMissingTerminator, c.block.EndTag(), c.openTok.Position)
	return nil, Token{}, pe
}

// SkipUntilEnd consumes raw tokens up to the block's terminator without
// parsing them, tracking same-name nesting. Comment bodies use this so
// arbitrary tag-like content inside them never fails the parse.
func (c *BlockCursor) SkipUntilEnd() error {
	depth := 0
	for !c.parser.isAtEnd() {
		tok := c.parser.advance()
		if tok.Type != TokenTypeTag {
			continue
		}
		switch tok.Name {
		case c.block.StartTag():
			depth++
		case c.block.EndTag():
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
	return NewParseError(ErrMsgMissingTerminator, c.block.EndTag(), c.openTok.Position)
}
