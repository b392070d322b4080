package internal

import "fmt"

// Expression evaluation error message constants
const (
	ErrMsgExprNilNode       = "expression node is nil"
	ErrMsgExprUnknownNode   = "unknown expression node type"
	ErrMsgExprNotComparable = "values cannot be ordered"
	ErrMsgExprRangeBound    = "range bound is not an integer"
)

// EvalExpression evaluates a parsed expression against the render
// context's scope stack and filter registry. pos attributes failures to
// the enclosing span.
func EvalExpression(rc *RenderContext, expr Expression, pos Position) (Value, error) {
	switch e := expr.(type) {
	case nil:
		return Nil(), NewRenderError(ErrMsgExprNilNode, StringValueEmpty, pos)

	case *LiteralExpr:
		return e.Val, nil

	case *PathExpr:
		return evalPath(rc, e, pos)

	case *RangeExpr:
		return evalRange(rc, e, pos)

	case *FilteredExpr:
		return evalFiltered(rc, e, pos)

	case *ComparisonExpr:
		return evalComparison(rc, e, pos)

	case *LogicalExpr:
		return evalLogical(rc, e, pos)

	default:
		return Nil(), NewRenderError(ErrMsgExprUnknownNode, fmt.Sprintf("%T", expr), pos)
	}
}

// EvalTruthy evaluates an expression and applies the truthiness rule.
func EvalTruthy(rc *RenderContext, expr Expression, pos Position) (bool, error) {
	v, err := EvalExpression(rc, expr, pos)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

// evalPath resolves the root name against the scope stack (innermost
// first), then walks the access segments. Every miss yields Nil, never an
// error.
func evalPath(rc *RenderContext, path *PathExpr, pos Position) (Value, error) {
	current := rc.Lookup(path.Root)

	for _, seg := range path.Segments {
		if !seg.IsIndex {
			current = current.Key(seg.Name)
			continue
		}
		idx, err := EvalExpression(rc, seg.Index, pos)
		if err != nil {
			return Nil(), err
		}
		switch idx.Kind() {
		case KindInt:
			current = current.Index(idx.AsInt())
		case KindFloat:
			current = current.Index(int64(idx.AsFloat()))
		case KindString:
			current = current.Key(idx.AsString())
		default:
			current = Nil()
		}
	}

	return current, nil
}

// evalRange materializes an inclusive integer range as an array. An empty
// range (from > to) yields an empty array.
func evalRange(rc *RenderContext, r *RangeExpr, pos Position) (Value, error) {
	from, err := evalRangeBound(rc, r.From, pos)
	if err != nil {
		return Nil(), err
	}
	to, err := evalRangeBound(rc, r.To, pos)
	if err != nil {
		return Nil(), err
	}

	if from > to {
		return Array(), nil
	}
	elems := make([]Value, 0, to-from+1)
	for i := from; i <= to; i++ {
		elems = append(elems, Int(i))
	}
	return Array(elems...), nil
}

func evalRangeBound(rc *RenderContext, expr Expression, pos Position) (int64, error) {
	v, err := EvalExpression(rc, expr, pos)
	if err != nil {
		return 0, err
	}
	i, err := v.ToInt()
	if err != nil {
		return 0, WrapRenderError(err, ErrMsgExprRangeBound, pos)
	}
	return i, nil
}

// evalFiltered evaluates the input and applies the chain's filters left to
// right, each looked up by name in the filter registry.
func evalFiltered(rc *RenderContext, f *FilteredExpr, pos Position) (Value, error) {
	current, err := EvalExpression(rc, f.Input, pos)
	if err != nil {
		return Nil(), err
	}

	for _, call := range f.Filters {
		args := make([]Value, len(call.Args))
		for i, argExpr := range call.Args {
			args[i], err = EvalExpression(rc, argExpr, pos)
			if err != nil {
				return Nil(), err
			}
		}
		var kwargs map[string]Value
		if len(call.KwArgs) > 0 {
			kwargs = make(map[string]Value, len(call.KwArgs))
			for _, kw := range call.KwArgs {
				kwargs[kw.Name], err = EvalExpression(rc, kw.Value, pos)
				if err != nil {
					return Nil(), err
				}
			}
		}

		current, err = rc.Engine().Filters.Apply(call.Name, current, args, kwargs, pos)
		if err != nil {
			return Nil(), err
		}
	}

	return current, nil
}

// evalComparison applies a comparison operator. Equality is defined for
// every kind pair; ordering requires comparable kinds and fails otherwise
// with a render error naming both operands.
func evalComparison(rc *RenderContext, c *ComparisonExpr, pos Position) (Value, error) {
	left, err := EvalExpression(rc, c.Left, pos)
	if err != nil {
		return Nil(), err
	}
	right, err := EvalExpression(rc, c.Right, pos)
	if err != nil {
		return Nil(), err
	}

	switch c.Op {
	case ExprOpEq:
		return Bool(left.Equal(right)), nil
	case ExprOpNeq:
		return Bool(!left.Equal(right)), nil
	case KeywordContains:
		return Bool(left.Contains(right)), nil
	}

	cmp, ok := left.Compare(right)
	if !ok {
		detail := fmt.Sprintf("%s %s %s", left.Kind(), c.Op, right.Kind())
		return Nil(), NewRenderError(ErrMsgExprNotComparable, detail, pos)
	}

	switch c.Op {
	case ExprOpLt:
		return Bool(cmp < 0), nil
	case ExprOpGt:
		return Bool(cmp > 0), nil
	case ExprOpLte:
		return Bool(cmp <= 0), nil
	case ExprOpGte:
		return Bool(cmp >= 0), nil
	default:
		return Nil(), NewRenderError(ErrMsgExprSyntax, c.Op, pos)
	}
}

// evalLogical applies and/or with short-circuit evaluation over
// truthiness.
func evalLogical(rc *RenderContext, l *LogicalExpr, pos Position) (Value, error) {
	left, err := EvalTruthy(rc, l.Left, pos)
	if err != nil {
		return Nil(), err
	}

	if l.Op == KeywordAnd {
		if !left {
			return Bool(false), nil
		}
		right, err := EvalTruthy(rc, l.Right, pos)
		if err != nil {
			return Nil(), err
		}
		return Bool(right), nil
	}

	if left {
		return Bool(true), nil
	}
	right, err := EvalTruthy(rc, l.Right, pos)
	if err != nil {
		return Nil(), err
	}
	return Bool(right), nil
}
