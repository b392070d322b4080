package internal

import (
	"bytes"
	"fmt"
	"io"
)

// AssignNode evaluates a filtered expression and binds the result in the
// outermost scope, so the binding survives the enclosing block.
type AssignNode struct {
	pos  Position
	Name string
	Expr Expression
}

// Pos returns the source position.
func (n *AssignNode) Pos() Position { return n.pos }

// Render evaluates the expression and stores the result.
func (n *AssignNode) Render(rc *RenderContext, w io.Writer) error {
	v, err := EvalExpression(rc, n.Expr, n.pos)
	if err != nil {
		return AnnotateRender(err, "{% assign %}", n.pos)
	}
	rc.SetGlobal(n.Name, v)
	return nil
}

// String returns a string representation.
func (n *AssignNode) String() string {
	return fmt.Sprintf("AssignNode{%s = %s @ %s}", n.Name, n.Expr.String(), n.pos)
}

// AssignTag is the parslet for {% assign name = expr | filters %}.
type AssignTag struct{}

// TagName returns "assign".
func (t *AssignTag) TagName() string { return TagNameAssign }

// ParseTag consumes `name = filtered-expression`.
func (t *AssignTag) ParseTag(args *ExprParser, tok Token, p *Parser) (Node, error) {
	name, err := args.ExpectIdent()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectToken(ExprTokenTypeAssign); err != nil {
		return nil, err
	}
	expr, err := args.ParseFiltered()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	return &AssignNode{pos: tok.Position, Name: name, Expr: expr}, nil
}

// CaptureNode renders its body into a private buffer and binds the
// captured text as a string in the outermost scope. Nothing is written to
// the render output.
type CaptureNode struct {
	pos  Position
	Name string
	Body []Node
}

// Pos returns the source position.
func (n *CaptureNode) Pos() Position { return n.pos }

// Render executes the body against a buffer and stores the result.
func (n *CaptureNode) Render(rc *RenderContext, w io.Writer) error {
	if err := rc.EnterNested(n.pos); err != nil {
		return AnnotateRender(err, "{% capture %}", n.pos)
	}
	defer rc.ExitNested()

	var buf bytes.Buffer
	if err := RenderNodes(n.Body, rc, &buf); err != nil {
		return AnnotateRender(err, "{% capture %}", n.pos)
	}
	rc.SetGlobal(n.Name, Str(buf.String()))
	return nil
}

// String returns a string representation.
func (n *CaptureNode) String() string {
	return fmt.Sprintf("CaptureNode{%s @ %s}", n.Name, n.pos)
}

// CaptureBlock is the parslet for {% capture name %} ... {% endcapture %}.
type CaptureBlock struct{}

// StartTag returns "capture".
func (b *CaptureBlock) StartTag() string { return TagNameCapture }

// EndTag returns "endcapture".
func (b *CaptureBlock) EndTag() string { return TagNameEndCapture }

// ContinuationTags returns nil: capture has no internal branch tags.
func (b *CaptureBlock) ContinuationTags() []string { return nil }

// ParseBlock consumes the target name and the body.
func (b *CaptureBlock) ParseBlock(args *ExprParser, tok Token, body *BlockCursor) (Node, error) {
	name, err := args.ExpectIdent()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	nodes, _, err := body.ParseUntil()
	if err != nil {
		return nil, err
	}
	return &CaptureNode{pos: tok.Position, Name: name, Body: nodes}, nil
}

// counterRegister holds the shared increment/decrement counters for one
// render call. increment and decrement targeting the same name share a
// counter, independent of any assign binding of that name.
type counterRegister struct {
	counters map[string]int64
}

func counters(rc *RenderContext) *counterRegister {
	reg := rc.Register(RegisterKeyCounters, func() any {
		return &counterRegister{counters: make(map[string]int64)}
	})
	return reg.(*counterRegister)
}

// IncrementNode emits the counter's current value, then increments it.
// The first emission for a name is 0.
type IncrementNode struct {
	pos  Position
	Name string
}

// Pos returns the source position.
func (n *IncrementNode) Pos() Position { return n.pos }

// Render writes the pre-increment value.
func (n *IncrementNode) Render(rc *RenderContext, w io.Writer) error {
	reg := counters(rc)
	cur := reg.counters[n.Name]
	reg.counters[n.Name] = cur + 1
	_, err := io.WriteString(w, Int(cur).Render())
	return err
}

// String returns a string representation.
func (n *IncrementNode) String() string {
	return fmt.Sprintf("IncrementNode{%s @ %s}", n.Name, n.pos)
}

// IncrementTag is the parslet for {% increment name %}.
type IncrementTag struct{}

// TagName returns "increment".
func (t *IncrementTag) TagName() string { return TagNameIncrement }

// ParseTag consumes the counter name.
func (t *IncrementTag) ParseTag(args *ExprParser, tok Token, p *Parser) (Node, error) {
	name, err := args.ExpectIdent()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	return &IncrementNode{pos: tok.Position, Name: name}, nil
}

// DecrementNode decrements the counter, then emits the new value. The
// first emission for a name is -1.
type DecrementNode struct {
	pos  Position
	Name string
}

// Pos returns the source position.
func (n *DecrementNode) Pos() Position { return n.pos }

// Render writes the post-decrement value.
func (n *DecrementNode) Render(rc *RenderContext, w io.Writer) error {
	reg := counters(rc)
	cur := reg.counters[n.Name] - 1
	reg.counters[n.Name] = cur
	_, err := io.WriteString(w, Int(cur).Render())
	return err
}

// String returns a string representation.
func (n *DecrementNode) String() string {
	return fmt.Sprintf("DecrementNode{%s @ %s}", n.Name, n.pos)
}

// DecrementTag is the parslet for {% decrement name %}.
type DecrementTag struct{}

// TagName returns "decrement".
func (t *DecrementTag) TagName() string { return TagNameDecrement }

// ParseTag consumes the counter name.
func (t *DecrementTag) ParseTag(args *ExprParser, tok Token, p *Parser) (Node, error) {
	name, err := args.ExpectIdent()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	return &DecrementNode{pos: tok.Position, Name: name}, nil
}
