package internal

import (
	"fmt"
	"io"
)

// Conditional parse error message constants
const (
	ErrMsgElseNotLast  = "else must be the last branch"
	ErrMsgWhenExpected = "content before the first when arm of a case"
)

// CondBranch is one branch of a conditional node. Cond is nil for an else
// branch.
type CondBranch struct {
	Cond Expression
	Body []Node
	Pos  Position
}

// IfNode executes the first branch whose condition is truthy. With no
// matching branch and no else, it writes nothing.
type IfNode struct {
	pos      Position
	Branches []CondBranch
}

// Pos returns the source position.
func (n *IfNode) Pos() Position { return n.pos }

// Render evaluates branch conditions in source order and executes the
// first match.
func (n *IfNode) Render(rc *RenderContext, w io.Writer) error {
	for _, branch := range n.Branches {
		matched := true
		if branch.Cond != nil {
			var err error
			matched, err = EvalTruthy(rc, branch.Cond, branch.Pos)
			if err != nil {
				return AnnotateRender(err, "{% if %}", n.pos)
			}
		}
		if matched {
			return AnnotateRender(RenderNodes(branch.Body, rc, w), "{% if %}", n.pos)
		}
	}
	return nil
}

// String returns a string representation.
func (n *IfNode) String() string {
	return fmt.Sprintf("IfNode{branches=%d @ %s}", len(n.Branches), n.pos)
}

// IfBlock is the parslet for {% if %} ... {% elsif %} ... {% else %} ...
// {% endif %}.
type IfBlock struct{}

// StartTag returns "if".
func (b *IfBlock) StartTag() string { return TagNameIf }

// EndTag returns "endif".
func (b *IfBlock) EndTag() string { return TagNameEndIf }

// ContinuationTags returns the tags legal inside an if at its own level.
func (b *IfBlock) ContinuationTags() []string {
	return []string{TagNameElsif, TagNameElse}
}

// ParseBlock consumes the condition and the branch bodies.
func (b *IfBlock) ParseBlock(args *ExprParser, tok Token, body *BlockCursor) (Node, error) {
	return parseConditionalBranches(args, tok, body, false)
}

// UnlessNode is the negated conditional.
type UnlessNode struct {
	pos      Position
	Branches []CondBranch
}

// Pos returns the source position.
func (n *UnlessNode) Pos() Position { return n.pos }

// Render executes the first branch body whose negated condition holds.
func (n *UnlessNode) Render(rc *RenderContext, w io.Writer) error {
	for i, branch := range n.Branches {
		matched := true
		if branch.Cond != nil {
			truthy, err := EvalTruthy(rc, branch.Cond, branch.Pos)
			if err != nil {
				return AnnotateRender(err, "{% unless %}", n.pos)
			}
			// Only the opening condition is negated; elsif branches read
			// as written.
			if i == 0 {
				matched = !truthy
			} else {
				matched = truthy
			}
		}
		if matched {
			return AnnotateRender(RenderNodes(branch.Body, rc, w), "{% unless %}", n.pos)
		}
	}
	return nil
}

// String returns a string representation.
func (n *UnlessNode) String() string {
	return fmt.Sprintf("UnlessNode{branches=%d @ %s}", len(n.Branches), n.pos)
}

// UnlessBlock is the parslet for {% unless %} ... {% endunless %}.
type UnlessBlock struct{}

// StartTag returns "unless".
func (b *UnlessBlock) StartTag() string { return TagNameUnless }

// EndTag returns "endunless".
func (b *UnlessBlock) EndTag() string { return TagNameEndUnless }

// ContinuationTags returns the tags legal inside an unless.
func (b *UnlessBlock) ContinuationTags() []string {
	return []string{TagNameElsif, TagNameElse}
}

// ParseBlock consumes the condition and the branch bodies.
func (b *UnlessBlock) ParseBlock(args *ExprParser, tok Token, body *BlockCursor) (Node, error) {
	return parseConditionalBranches(args, tok, body, true)
}

// parseConditionalBranches is shared between if and unless: condition,
// then bodies separated by elsif/else up to the terminator.
func parseConditionalBranches(args *ExprParser, openTok Token, body *BlockCursor, unless bool) (Node, error) {
	cond, err := args.ParseConditionExpr()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}

	var branches []CondBranch
	currentCond := cond
	currentPos := openTok.Position
	sawElse := false

	for {
		continuations := []string{TagNameElsif, TagNameElse}
		if sawElse {
			continuations = nil
		}
		nodes, stop, err := body.ParseUntil(continuations...)
		if err != nil {
			return nil, err
		}
		branches = append(branches, CondBranch{Cond: currentCond, Body: nodes, Pos: currentPos})

		switch stop.Name {
		case TagNameElsif:
			elsifArgs, err := NewExprParser(stop.Args, stop.Position)
			if err != nil {
				return nil, err
			}
			currentCond, err = elsifArgs.ParseConditionExpr()
			if err != nil {
				return nil, err
			}
			if err := elsifArgs.ExpectEOF(); err != nil {
				return nil, err
			}
			currentPos = stop.Position

		case TagNameElse:
			if sawElse {
				return nil, NewParseError(ErrMsgElseNotLast, stop.Name, stop.Position)
			}
			sawElse = true
			currentCond = nil
			currentPos = stop.Position

		default: // terminator
			if unless {
				return &UnlessNode{pos: openTok.Position, Branches: branches}, nil
			}
			return &IfNode{pos: openTok.Position, Branches: branches}, nil
		}
	}
}

// WhenBranch is one when arm of a case node. A when may list several
// candidate values.
type WhenBranch struct {
	Values []Expression
	Body   []Node
	Pos    Position
}

// CaseNode compares a subject expression against when branches in source
// order and executes the first equal match, falling back to an optional
// else body.
type CaseNode struct {
	pos     Position
	Subject Expression
	Whens   []WhenBranch
	Else    []Node
	HasElse bool
}

// Pos returns the source position.
func (n *CaseNode) Pos() Position { return n.pos }

// Render evaluates the subject once and compares branch values in order.
func (n *CaseNode) Render(rc *RenderContext, w io.Writer) error {
	subject, err := EvalExpression(rc, n.Subject, n.pos)
	if err != nil {
		return AnnotateRender(err, "{% case %}", n.pos)
	}

	for _, when := range n.Whens {
		for _, valExpr := range when.Values {
			val, err := EvalExpression(rc, valExpr, when.Pos)
			if err != nil {
				return AnnotateRender(err, "{% case %}", n.pos)
			}
			if subject.Equal(val) {
				return AnnotateRender(RenderNodes(when.Body, rc, w), "{% case %}", n.pos)
			}
		}
	}

	if n.HasElse {
		return AnnotateRender(RenderNodes(n.Else, rc, w), "{% case %}", n.pos)
	}
	return nil
}

// String returns a string representation.
func (n *CaseNode) String() string {
	return fmt.Sprintf("CaseNode{whens=%d, hasElse=%t @ %s}", len(n.Whens), n.HasElse, n.pos)
}

// CaseBlock is the parslet for {% case %} {% when %} ... {% else %} ...
// {% endcase %}. A case without when arms is legal and falls straight to
// its else body, when present.
type CaseBlock struct{}

// StartTag returns "case".
func (b *CaseBlock) StartTag() string { return TagNameCase }

// EndTag returns "endcase".
func (b *CaseBlock) EndTag() string { return TagNameEndCase }

// ContinuationTags returns the tags legal inside a case.
func (b *CaseBlock) ContinuationTags() []string {
	return []string{TagNameWhen, TagNameElse}
}

// ParseBlock consumes the subject, the when arms and an optional else.
func (b *CaseBlock) ParseBlock(args *ExprParser, tok Token, body *BlockCursor) (Node, error) {
	subject, err := args.ParseFiltered()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectEOF(); err != nil {
		return nil, err
	}

	node := &CaseNode{pos: tok.Position, Subject: subject}

	// Content before the first when (or a when-less else) is discarded;
	// anything visible there has no arm to belong to.
	leading, stop, err := body.ParseUntil(TagNameWhen, TagNameElse)
	if err != nil {
		return nil, err
	}
	if hasVisibleContent(leading) {
		return nil, NewParseError(ErrMsgWhenExpected, stop.Name, stop.Position)
	}

	for stop.Name == TagNameWhen {
		whenPos := stop.Position
		values, err := parseWhenValues(stop)
		if err != nil {
			return nil, err
		}
		var nodes []Node
		nodes, stop, err = body.ParseUntil(TagNameWhen, TagNameElse)
		if err != nil {
			return nil, err
		}
		node.Whens = append(node.Whens, WhenBranch{Values: values, Body: nodes, Pos: whenPos})
	}

	if stop.Name == TagNameElse {
		elseNodes, _, err := body.ParseUntil()
		if err != nil {
			return nil, err
		}
		node.Else = elseNodes
		node.HasElse = true
	}

	return node, nil
}

// parseWhenValues parses the candidate list of a when tag: values
// separated by commas or the `or` keyword.
func parseWhenValues(stop Token) ([]Expression, error) {
	args, err := NewExprParser(stop.Args, stop.Position)
	if err != nil {
		return nil, err
	}

	var values []Expression
	for {
		val, err := args.ParsePrimary()
		if err != nil {
			return nil, err
		}
		values = append(values, val)

		if args.AcceptToken(ExprTokenTypeComma) || args.AcceptIdent(KeywordOr) {
			continue
		}
		if err := args.ExpectEOF(); err != nil {
			return nil, err
		}
		return values, nil
	}
}

// hasVisibleContent reports whether the node sequence contains anything
// beyond whitespace-only text.
func hasVisibleContent(nodes []Node) bool {
	for _, n := range nodes {
		text, ok := n.(*TextNode)
		if !ok {
			return true
		}
		for i := 0; i < len(text.Content); i++ {
			ch := text.Content[i]
			if ch != CharSpace && ch != CharTab && ch != CharNewline && ch != CharCarriageRet {
				return true
			}
		}
	}
	return false
}
