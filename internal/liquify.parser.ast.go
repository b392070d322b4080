package internal

import (
	"fmt"
	"io"
)

// Node is the compiled, executable form of one template construct. Nodes
// strictly own their children; the compiled tree is immutable and may be
// rendered concurrently against independent RenderContexts.
type Node interface {
	// Pos returns the source position of this node.
	Pos() Position
	// Render writes the node's output against the given context.
	Render(rc *RenderContext, w io.Writer) error
	// String returns a human-readable representation for debugging.
	String() string
}

// TextNode writes literal text verbatim.
type TextNode struct {
	pos     Position
	Content string
}

// NewTextNode creates a literal text node.
func NewTextNode(content string, pos Position) *TextNode {
	return &TextNode{pos: pos, Content: content}
}

// Pos returns the source position.
func (n *TextNode) Pos() Position { return n.pos }

// Render writes the literal content.
func (n *TextNode) Render(rc *RenderContext, w io.Writer) error {
	_, err := io.WriteString(w, n.Content)
	return err
}

// String returns a string representation.
func (n *TextNode) String() string {
	content := n.Content
	if len(content) > maxStringDisplayLength {
		content = content[:truncatedStringLength] + truncationSuffix
	}
	return fmt.Sprintf("TextNode{%q @ %s}", content, n.pos)
}

// Display truncation constants for String methods
const (
	maxStringDisplayLength = 40
	truncatedStringLength  = 37
	truncationSuffix       = "..."
)

// OutputNode evaluates an expression and writes the resulting value's
// textual rendering.
type OutputNode struct {
	pos  Position
	Expr Expression
}

// NewOutputNode creates an output node.
func NewOutputNode(expr Expression, pos Position) *OutputNode {
	return &OutputNode{pos: pos, Expr: expr}
}

// Pos returns the source position.
func (n *OutputNode) Pos() Position { return n.pos }

// Render evaluates the expression and writes its rendering.
func (n *OutputNode) Render(rc *RenderContext, w io.Writer) error {
	v, err := EvalExpression(rc, n.Expr, n.pos)
	if err != nil {
		return AnnotateRender(err, fmt.Sprintf("{{ %s }}", n.Expr.String()), n.pos)
	}
	_, err = io.WriteString(w, v.Render())
	return err
}

// String returns a string representation.
func (n *OutputNode) String() string {
	return fmt.Sprintf("OutputNode{%s @ %s}", n.Expr.String(), n.pos)
}

// RawNode writes its body's literal text unmodified, without output or
// tag interpretation.
type RawNode struct {
	pos     Position
	Content string
}

// NewRawNode creates a raw block node.
func NewRawNode(content string, pos Position) *RawNode {
	return &RawNode{pos: pos, Content: content}
}

// Pos returns the source position.
func (n *RawNode) Pos() Position { return n.pos }

// Render writes the raw content.
func (n *RawNode) Render(rc *RenderContext, w io.Writer) error {
	_, err := io.WriteString(w, n.Content)
	return err
}

// String returns a string representation.
func (n *RawNode) String() string {
	return fmt.Sprintf("RawNode{%d bytes @ %s}", len(n.Content), n.pos)
}

// CommentNode writes nothing.
type CommentNode struct {
	pos Position
}

// NewCommentNode creates a comment node.
func NewCommentNode(pos Position) *CommentNode {
	return &CommentNode{pos: pos}
}

// Pos returns the source position.
func (n *CommentNode) Pos() Position { return n.pos }

// Render writes nothing.
func (n *CommentNode) Render(rc *RenderContext, w io.Writer) error {
	return nil
}

// String returns a string representation.
func (n *CommentNode) String() string {
	return fmt.Sprintf("CommentNode{@ %s}", n.pos)
}
