package internal

import (
	"fmt"
	"io"
)

// ForNode iterates a collection, binding the loop variable and forloop
// metadata in a fresh scope per iteration. offset and limit select from
// the source-ordered sequence first; reversed then reverses the selected
// window.
type ForNode struct {
	pos        Position
	ItemVar    string
	Collection Expression
	LimitExpr  Expression
	OffsetExpr Expression
	Reversed   bool
	Body       []Node
	ElseBody   []Node
	HasElse    bool
}

// Pos returns the source position.
func (n *ForNode) Pos() Position { return n.pos }

// String returns a string representation.
func (n *ForNode) String() string {
	return fmt.Sprintf("ForNode{%s in %s, reversed=%t @ %s}", n.ItemVar, n.Collection.String(), n.Reversed, n.pos)
}

// Render evaluates the collection, applies the selection modifiers and
// runs the body once per remaining item. An empty selection falls through
// to the else body.
func (n *ForNode) Render(rc *RenderContext, w io.Writer) error {
	items, err := n.materialize(rc)
	if err != nil {
		return AnnotateRender(err, "{% for %}", n.pos)
	}

	if len(items) == 0 {
		if n.HasElse {
			return AnnotateRender(RenderNodes(n.ElseBody, rc, w), "{% for %}", n.pos)
		}
		return nil
	}

	length := len(items)
	for i, item := range items {
		if err := rc.CountIteration(n.pos); err != nil {
			return AnnotateRender(err, "{% for %}", n.pos)
		}

		rc.PushScope()
		rc.SetLocal(n.ItemVar, item)
		rc.SetLocal(VarNameForloop, forloopMeta(i, length))

		err := RenderNodes(n.Body, rc, w)
		rc.PopScope()
		if err != nil {
			return AnnotateRender(err, "{% for %}", n.pos)
		}

		switch rc.TakeInterrupt() {
		case InterruptBreak:
			return nil
		case InterruptContinue:
			continue
		}
	}

	return nil
}

// materialize evaluates the collection expression and applies offset,
// limit and reversed.
func (n *ForNode) materialize(rc *RenderContext) ([]Value, error) {
	coll, err := EvalExpression(rc, n.Collection, n.pos)
	if err != nil {
		return nil, err
	}

	var items []Value
	switch coll.Kind() {
	case KindArray:
		items = coll.AsArray()
	case KindObject:
		// Objects iterate as [key, value] pairs in insertion order.
		obj := coll.AsObject()
		for _, k := range obj.Keys() {
			v, _ := obj.Get(k)
			items = append(items, Array(Str(k), v))
		}
	case KindNil:
		items = nil
	default:
		return nil, NewRenderError(ErrMsgNotIterable, coll.Kind().String(), n.pos)
	}

	if n.OffsetExpr != nil {
		offset, err := n.evalIntModifier(rc, n.OffsetExpr, KeywordOffset)
		if err != nil {
			return nil, err
		}
		if offset >= int64(len(items)) {
			items = nil
		} else if offset > 0 {
			items = items[offset:]
		}
	}
	if n.LimitExpr != nil {
		limit, err := n.evalIntModifier(rc, n.LimitExpr, KeywordLimit)
		if err != nil {
			return nil, err
		}
		if limit < int64(len(items)) {
			if limit < 0 {
				limit = 0
			}
			items = items[:limit]
		}
	}
	if n.Reversed {
		reversed := make([]Value, len(items))
		for i, item := range items {
			reversed[len(items)-1-i] = item
		}
		items = reversed
	}

	return items, nil
}

func (n *ForNode) evalIntModifier(rc *RenderContext, expr Expression, name string) (int64, error) {
	v, err := EvalExpression(rc, expr, n.pos)
	if err != nil {
		return 0, err
	}
	i, err := v.ToInt()
	if err != nil {
		return 0, WrapRenderError(err, name, n.pos)
	}
	return i, nil
}

// forloopMeta builds the forloop metadata object for one iteration.
func forloopMeta(i, length int) Value {
	meta := NewObject()
	meta.Set(ForloopKeyIndex, Int(int64(i+1)))
	meta.Set(ForloopKeyIndex0, Int(int64(i)))
	meta.Set(ForloopKeyRIndex, Int(int64(length-i)))
	meta.Set(ForloopKeyRIndex0, Int(int64(length-i-1)))
	meta.Set(ForloopKeyFirst, Bool(i == 0))
	meta.Set(ForloopKeyLast, Bool(i == length-1))
	meta.Set(ForloopKeyLength, Int(int64(length)))
	return ObjectValue(meta)
}

// ForBlock is the parslet for {% for x in coll limit:n offset:n reversed %}
// ... {% else %} ... {% endfor %}.
type ForBlock struct{}

// StartTag returns "for".
func (b *ForBlock) StartTag() string { return TagNameFor }

// EndTag returns "endfor".
func (b *ForBlock) EndTag() string { return TagNameEndFor }

// ContinuationTags returns the tags legal inside a for at its own level.
func (b *ForBlock) ContinuationTags() []string {
	return []string{TagNameElse}
}

// ParseBlock consumes the loop header and the body.
func (b *ForBlock) ParseBlock(args *ExprParser, tok Token, body *BlockCursor) (Node, error) {
	itemVar, err := args.ExpectIdent()
	if err != nil {
		return nil, err
	}
	if !args.AcceptIdent(KeywordIn) {
		return nil, NewParseError(ErrMsgExprSyntax, KeywordIn, tok.Position)
	}
	collection, err := args.ParseFiltered()
	if err != nil {
		return nil, err
	}

	node := &ForNode{pos: tok.Position, ItemVar: itemVar, Collection: collection}

	// Modifiers may appear in any order after the collection.
	for !args.AtEnd() {
		switch {
		case args.AcceptIdent(KeywordLimit):
			if err := args.ExpectToken(ExprTokenTypeColon); err != nil {
				return nil, err
			}
			node.LimitExpr, err = args.ParsePrimary()
			if err != nil {
				return nil, err
			}
		case args.AcceptIdent(KeywordOffset):
			if err := args.ExpectToken(ExprTokenTypeColon); err != nil {
				return nil, err
			}
			node.OffsetExpr, err = args.ParsePrimary()
			if err != nil {
				return nil, err
			}
		case args.AcceptIdent(KeywordReversed):
			node.Reversed = true
		default:
			return nil, args.ExpectEOF()
		}
	}

	nodes, stop, err := body.ParseUntil(TagNameElse)
	if err != nil {
		return nil, err
	}
	node.Body = nodes

	if stop.Name == TagNameElse {
		elseNodes, _, err := body.ParseUntil()
		if err != nil {
			return nil, err
		}
		node.ElseBody = elseNodes
		node.HasElse = true
	}

	return node, nil
}

// BreakNode terminates the innermost enclosing loop immediately.
type BreakNode struct {
	pos Position
}

// Pos returns the source position.
func (n *BreakNode) Pos() Position { return n.pos }

// Render raises the break interrupt.
func (n *BreakNode) Render(rc *RenderContext, w io.Writer) error {
	rc.SetInterrupt(InterruptBreak)
	return nil
}

// String returns a string representation.
func (n *BreakNode) String() string {
	return fmt.Sprintf("BreakNode{@ %s}", n.pos)
}

// BreakTag is the parslet for {% break %}. It accepts no arguments.
type BreakTag struct{}

// TagName returns "break".
func (t *BreakTag) TagName() string { return TagNameBreak }

// ParseTag rejects any argument text.
func (t *BreakTag) ParseTag(args *ExprParser, tok Token, p *Parser) (Node, error) {
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	return &BreakNode{pos: tok.Position}, nil
}

// ContinueNode skips the remainder of the current iteration's body.
type ContinueNode struct {
	pos Position
}

// Pos returns the source position.
func (n *ContinueNode) Pos() Position { return n.pos }

// Render raises the continue interrupt.
func (n *ContinueNode) Render(rc *RenderContext, w io.Writer) error {
	rc.SetInterrupt(InterruptContinue)
	return nil
}

// String returns a string representation.
func (n *ContinueNode) String() string {
	return fmt.Sprintf("ContinueNode{@ %s}", n.pos)
}

// ContinueTag is the parslet for {% continue %}. It accepts no arguments.
type ContinueTag struct{}

// TagName returns "continue".
func (t *ContinueTag) TagName() string { return TagNameContinue }

// ParseTag rejects any argument text.
func (t *ContinueTag) ParseTag(args *ExprParser, tok Token, p *Parser) (Node, error) {
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	return &ContinueNode{pos: tok.Position}, nil
}
