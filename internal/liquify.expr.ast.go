package internal

import (
	"fmt"
	"strings"
)

// Expression is the immutable parse-time form of anything that evaluates
// to a Value at render time. Expressions hold no runtime state.
type Expression interface {
	// String returns the canonical source-like form for debugging and
	// error messages.
	String() string
	exprNode()
}

// LiteralExpr holds a literal value parsed from the source.
type LiteralExpr struct {
	Val Value
}

func (e *LiteralExpr) exprNode() {}

func (e *LiteralExpr) String() string {
	if e.Val.Kind() == KindString {
		return fmt.Sprintf("%q", e.Val.AsString())
	}
	if e.Val.IsNil() {
		return ExprKeywordNil
	}
	return e.Val.Render()
}

// PathSegment is one access step in a variable path: either a named field
// or a bracketed index expression.
type PathSegment struct {
	Name    string
	Index   Expression
	IsIndex bool
}

// PathExpr is a sequence of accesses rooted at a variable name.
type PathExpr struct {
	Root     string
	Segments []PathSegment
}

func (e *PathExpr) exprNode() {}

func (e *PathExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.Root)
	for _, seg := range e.Segments {
		if seg.IsIndex {
			sb.WriteByte('[')
			sb.WriteString(seg.Index.String())
			sb.WriteByte(']')
		} else {
			sb.WriteByte('.')
			sb.WriteString(seg.Name)
		}
	}
	return sb.String()
}

// RangeExpr is an inclusive integer range literal (a..b).
type RangeExpr struct {
	From Expression
	To   Expression
}

func (e *RangeExpr) exprNode() {}

func (e *RangeExpr) String() string {
	return fmt.Sprintf("(%s..%s)", e.From.String(), e.To.String())
}

// KwArg is a keyword argument in a filter call.
type KwArg struct {
	Name  string
	Value Expression
}

// FilterCall is one step in a filter chain.
type FilterCall struct {
	Name   string
	Args   []Expression
	KwArgs []KwArg
}

// String returns the call in "name: a, b, kw: v" form.
func (c FilterCall) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	parts := make([]string, 0, len(c.Args)+len(c.KwArgs))
	for _, arg := range c.Args {
		parts = append(parts, arg.String())
	}
	for _, kw := range c.KwArgs {
		parts = append(parts, kw.Name+": "+kw.Value.String())
	}
	if len(parts) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(parts, ", "))
	}
	return sb.String()
}

// FilteredExpr is an input expression plus an ordered filter chain applied
// left to right.
type FilteredExpr struct {
	Input   Expression
	Filters []FilterCall
}

func (e *FilteredExpr) exprNode() {}

func (e *FilteredExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.Input.String())
	for _, f := range e.Filters {
		sb.WriteString(" | ")
		sb.WriteString(f.String())
	}
	return sb.String()
}

// ComparisonExpr is a binary comparison in a condition (==, !=, <, >, <=,
// >=, contains).
type ComparisonExpr struct {
	Left  Expression
	Op    string
	Right Expression
}

func (e *ComparisonExpr) exprNode() {}

func (e *ComparisonExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.Left.String(), e.Op, e.Right.String())
}

// LogicalExpr combines two conditions with and/or.
type LogicalExpr struct {
	Left  Expression
	Op    string
	Right Expression
}

func (e *LogicalExpr) exprNode() {}

func (e *LogicalExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.Left.String(), e.Op, e.Right.String())
}

// NewLiteral creates a literal expression.
func NewLiteral(v Value) *LiteralExpr {
	return &LiteralExpr{Val: v}
}

// NewPath creates a path expression.
func NewPath(root string, segments ...PathSegment) *PathExpr {
	return &PathExpr{Root: root, Segments: segments}
}
