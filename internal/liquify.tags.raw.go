package internal

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// RawBlock is the parslet for {% raw %} ... {% endraw %}. The scanner has
// already isolated the body as a single literal text span, so the body
// here is plain text regardless of what delimiters it contains.
type RawBlock struct{}

// StartTag returns "raw".
func (b *RawBlock) StartTag() string { return TagNameRaw }

// EndTag returns "endraw".
func (b *RawBlock) EndTag() string { return TagNameEndRaw }

// ContinuationTags returns nil.
func (b *RawBlock) ContinuationTags() []string { return nil }

// ParseBlock collects the literal body into a raw node.
func (b *RawBlock) ParseBlock(args *ExprParser, tok Token, body *BlockCursor) (Node, error) {
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	nodes, _, err := body.ParseUntil()
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, n := range nodes {
		if text, ok := n.(*TextNode); ok {
			sb.WriteString(text.Content)
		}
	}
	return NewRawNode(sb.String(), tok.Position), nil
}

// CommentBlock is the parslet for {% comment %} ... {% endcomment %}. The
// body is discarded wholesale at the token level, so it may contain
// anything, including malformed or unknown tags.
type CommentBlock struct{}

// StartTag returns "comment".
func (b *CommentBlock) StartTag() string { return TagNameComment }

// EndTag returns "endcomment".
func (b *CommentBlock) EndTag() string { return TagNameEndComment }

// ContinuationTags returns nil.
func (b *CommentBlock) ContinuationTags() []string { return nil }

// ParseBlock skips the body and yields a node that renders nothing.
func (b *CommentBlock) ParseBlock(args *ExprParser, tok Token, body *BlockCursor) (Node, error) {
	if err := body.SkipUntilEnd(); err != nil {
		return nil, err
	}
	return NewCommentNode(tok.Position), nil
}

// IfChangedNode renders its body to a buffer and emits the result only
// when it differs from the previous emission of any ifchanged block in
// the same render call.
type IfChangedNode struct {
	pos  Position
	Body []Node
}

// Pos returns the source position.
func (n *IfChangedNode) Pos() Position { return n.pos }

// ifChangedState is the shared last-emitted text for one render call.
type ifChangedState struct {
	last string
	seen bool
}

// Render compares the freshly rendered body against the last emission.
func (n *IfChangedNode) Render(rc *RenderContext, w io.Writer) error {
	var buf bytes.Buffer
	if err := RenderNodes(n.Body, rc, &buf); err != nil {
		return AnnotateRender(err, "{% ifchanged %}", n.pos)
	}

	state := rc.Register(RegisterKeyIfChanged, func() any {
		return &ifChangedState{}
	}).(*ifChangedState)

	rendered := buf.String()
	if state.seen && state.last == rendered {
		return nil
	}
	state.last = rendered
	state.seen = true

	_, err := io.WriteString(w, rendered)
	return err
}

// String returns a string representation.
func (n *IfChangedNode) String() string {
	return fmt.Sprintf("IfChangedNode{@ %s}", n.pos)
}

// IfChangedBlock is the parslet for {% ifchanged %} ... {% endifchanged %}.
type IfChangedBlock struct{}

// StartTag returns "ifchanged".
func (b *IfChangedBlock) StartTag() string { return TagNameIfChanged }

// EndTag returns "endifchanged".
func (b *IfChangedBlock) EndTag() string { return TagNameEndIfChanged }

// ContinuationTags returns nil.
func (b *IfChangedBlock) ContinuationTags() []string { return nil }

// ParseBlock consumes the body.
func (b *IfChangedBlock) ParseBlock(args *ExprParser, tok Token, body *BlockCursor) (Node, error) {
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	nodes, _, err := body.ParseUntil()
	if err != nil {
		return nil, err
	}
	return &IfChangedNode{pos: tok.Position, Body: nodes}, nil
}

// CycleNode emits the next value from its candidate list on every visit,
// wrapping around at the end. Cycles sharing a group name, or sharing the
// same candidate list when ungrouped, advance a common position.
type CycleNode struct {
	pos    Position
	Group  string
	Values []Expression
}

// Pos returns the source position.
func (n *CycleNode) Pos() Position { return n.pos }

// cycleState maps a cycle key to its next candidate index for one render
// call.
type cycleState struct {
	positions map[string]int
}

// Render evaluates the current candidate and advances the shared cursor.
func (n *CycleNode) Render(rc *RenderContext, w io.Writer) error {
	state := rc.Register(RegisterKeyCycle, func() any {
		return &cycleState{positions: make(map[string]int)}
	}).(*cycleState)

	key := n.cycleKey()
	idx := state.positions[key] % len(n.Values)
	state.positions[key] = idx + 1

	v, err := EvalExpression(rc, n.Values[idx], n.pos)
	if err != nil {
		return AnnotateRender(err, "{% cycle %}", n.pos)
	}
	_, err = io.WriteString(w, v.Render())
	return err
}

// cycleKey identifies the shared cursor: the explicit group name when
// given, otherwise the candidate list's textual form.
func (n *CycleNode) cycleKey() string {
	if n.Group != StringValueEmpty {
		return n.Group
	}
	var sb strings.Builder
	for i, v := range n.Values {
		if i > 0 {
			sb.WriteByte(CharComma)
		}
		sb.WriteString(v.String())
	}
	return sb.String()
}

// String returns a string representation.
func (n *CycleNode) String() string {
	return fmt.Sprintf("CycleNode{group=%q, values=%d @ %s}", n.Group, len(n.Values), n.pos)
}

// CycleTag is the parslet for {% cycle "a", "b" %} and
// {% cycle "group": "a", "b" %}.
type CycleTag struct{}

// TagName returns "cycle".
func (t *CycleTag) TagName() string { return TagNameCycle }

// ParseTag consumes an optional group label and the candidate list.
func (t *CycleTag) ParseTag(args *ExprParser, tok Token, p *Parser) (Node, error) {
	node := &CycleNode{pos: tok.Position}

	first, err := args.ParsePrimary()
	if err != nil {
		return nil, err
	}

	// A colon after the first value marks it as the group label.
	if args.AcceptToken(ExprTokenTypeColon) {
		lit, ok := first.(*LiteralExpr)
		if !ok {
			return nil, NewParseError(ErrMsgExprSyntax, first.String(), tok.Position)
		}
		node.Group = lit.Val.Render()
		first, err = args.ParsePrimary()
		if err != nil {
			return nil, err
		}
	}
	node.Values = append(node.Values, first)

	for args.AcceptToken(ExprTokenTypeComma) {
		val, err := args.ParsePrimary()
		if err != nil {
			return nil, err
		}
		node.Values = append(node.Values, val)
	}

	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	return node, nil
}
