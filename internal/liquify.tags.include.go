package internal

import (
	"fmt"
	"io"
)

// IncludeNode resolves a partial template by name at render time, compiles
// it and renders it inline. Bound arguments (`with`-style `k: v` pairs)
// are visible inside the partial as innermost-scope locals; the partial
// also reads the surrounding scopes.
type IncludeNode struct {
	pos      Position
	NameExpr Expression
	Args     []KwArg
}

// Pos returns the source position.
func (n *IncludeNode) Pos() Position { return n.pos }

// Render resolves, compiles and executes the partial against the current
// context. Output streams to the same writer.
func (n *IncludeNode) Render(rc *RenderContext, w io.Writer) error {
	nameVal, err := EvalExpression(rc, n.NameExpr, n.pos)
	if err != nil {
		return AnnotateRender(err, "{% include %}", n.pos)
	}
	name := nameVal.Render()

	frame := fmt.Sprintf("{%% include %q %%}", name)

	source, err := rc.ResolvePartial(name, n.pos)
	if err != nil {
		return AnnotateRender(err, frame, n.pos)
	}

	partial, err := rc.Engine().Compile(source, name)
	if err != nil {
		return AnnotateRender(WrapRenderError(err, ErrMsgPartialCompile, n.pos), frame, n.pos)
	}

	if err := rc.EnterNested(n.pos); err != nil {
		return AnnotateRender(err, frame, n.pos)
	}
	defer rc.ExitNested()

	rc.PushScope()
	defer rc.PopScope()
	for _, arg := range n.Args {
		v, err := EvalExpression(rc, arg.Value, n.pos)
		if err != nil {
			return AnnotateRender(err, frame, n.pos)
		}
		rc.SetLocal(arg.Name, v)
	}

	return AnnotateRender(RenderNodes(partial.Nodes, rc, w), frame, n.pos)
}

// String returns a string representation.
func (n *IncludeNode) String() string {
	return fmt.Sprintf("IncludeNode{%s, args=%d @ %s}", n.NameExpr.String(), len(n.Args), n.pos)
}

// IncludeTag is the parslet for
// {% include "name" %} and {% include "name", key: expr, key2: expr %}.
type IncludeTag struct{}

// TagName returns "include".
func (t *IncludeTag) TagName() string { return TagNameInclude }

// ParseTag consumes the partial name expression and optional keyword
// arguments.
func (t *IncludeTag) ParseTag(args *ExprParser, tok Token, p *Parser) (Node, error) {
	nameExpr, err := args.ParsePrimary()
	if err != nil {
		return nil, err
	}

	node := &IncludeNode{pos: tok.Position, NameExpr: nameExpr}

	for args.AcceptToken(ExprTokenTypeComma) {
		key, err := args.ExpectIdent()
		if err != nil {
			return nil, err
		}
		if err := args.ExpectToken(ExprTokenTypeColon); err != nil {
			return nil, err
		}
		val, err := args.ParseFiltered()
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, KwArg{Name: key, Value: val})
	}

	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}
	return node, nil
}
