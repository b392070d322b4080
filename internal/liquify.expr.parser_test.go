package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprParser_ParseFiltered_Literals(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected Value
	}{
		{"integer", "42", Int(42)},
		{"negative integer", "-7", Int(-7)},
		{"float", "3.14", Float(3.14)},
		{"double-quoted string", `"hi"`, Str("hi")},
		{"single-quoted string", `'hi'`, Str("hi")},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"nil", "nil", Nil()},
		{"null alias", "null", Nil()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseFilteredExpression(tt.src, Position{Line: 1, Column: 1})

			require.NoError(t, err)
			lit, ok := expr.(*LiteralExpr)
			require.True(t, ok)
			assert.True(t, tt.expected.Equal(lit.Val) || (tt.expected.IsNil() && lit.Val.IsNil()))
		})
	}
}

func TestExprParser_ParseFiltered_Path(t *testing.T) {
	expr, err := ParseFilteredExpression(`user.emails[0]`, Position{})

	require.NoError(t, err)
	path, ok := expr.(*PathExpr)
	require.True(t, ok)
	assert.Equal(t, "user", path.Root)
	require.Len(t, path.Segments, 2)
	assert.Equal(t, "emails", path.Segments[0].Name)
	assert.True(t, path.Segments[1].IsIndex)
}

func TestExprParser_ParseFiltered_FilterChain(t *testing.T) {
	expr, err := ParseFilteredExpression(`name | append: "!" | upcase`, Position{})

	require.NoError(t, err)
	filtered, ok := expr.(*FilteredExpr)
	require.True(t, ok)
	require.Len(t, filtered.Filters, 2)
	assert.Equal(t, "append", filtered.Filters[0].Name)
	require.Len(t, filtered.Filters[0].Args, 1)
	assert.Equal(t, "upcase", filtered.Filters[1].Name)
}

func TestExprParser_ParseFiltered_KeywordArgs(t *testing.T) {
	expr, err := ParseFilteredExpression(`items | join: ", ", sep: "-"`, Position{})

	require.NoError(t, err)
	filtered := expr.(*FilteredExpr)
	require.Len(t, filtered.Filters, 1)
	call := filtered.Filters[0]
	require.Len(t, call.Args, 1)
	require.Len(t, call.KwArgs, 1)
	assert.Equal(t, "sep", call.KwArgs[0].Name)
}

func TestExprParser_ParseRange(t *testing.T) {
	expr, err := ParseFilteredExpression(`(1..5)`, Position{})

	require.NoError(t, err)
	_, ok := expr.(*RangeExpr)
	assert.True(t, ok)
}

func TestExprParser_ParseCondition(t *testing.T) {
	expr, err := ParseCondition(`a > 1 and b == "x" or c contains "y"`, Position{})

	require.NoError(t, err)
	logical, ok := expr.(*LogicalExpr)
	require.True(t, ok)
	// Left-associative: ((a > 1 and b == "x") or ...)
	assert.Equal(t, KeywordOr, logical.Op)
	inner, ok := logical.Left.(*LogicalExpr)
	require.True(t, ok)
	assert.Equal(t, KeywordAnd, inner.Op)
}

func TestExprParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"trailing input", "a b"},
		{"dangling pipe", "a |"},
		{"dangling dot", "a."},
		{"unterminated range", "(1..5"},
		{"missing range dots", "(1 5)"},
		{"unterminated bracket", "a[0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilteredExpression(tt.src, Position{})

			require.Error(t, err)
			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

// evalContext builds a render context over the given data for evaluator
// tests.
func evalContext(t *testing.T, data map[string]any) *RenderContext {
	t.Helper()
	core := NewEngineCore(nil)
	obj := FromAny(data).AsObject()
	return NewRenderContext(context.Background(), core, obj, nil, "test")
}

func evalString(t *testing.T, src string, data map[string]any) Value {
	t.Helper()
	expr, err := ParseFilteredExpression(src, Position{})
	require.NoError(t, err)
	v, err := EvalExpression(evalContext(t, data), expr, Position{})
	require.NoError(t, err)
	return v
}

func TestEvalExpression_Paths(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{
			"name":   "ada",
			"emails": []any{"a@x", "b@x"},
		},
	}

	assert.Equal(t, "ada", evalString(t, "user.name", data).Render())
	assert.Equal(t, "a@x", evalString(t, "user.emails[0]", data).Render())
	assert.Equal(t, "b@x", evalString(t, "user.emails[-1]", data).Render())
	assert.True(t, evalString(t, "user.missing.deeper", data).IsNil())
	assert.True(t, evalString(t, "user.emails[99]", data).IsNil())
}

func TestEvalExpression_Range(t *testing.T) {
	v := evalString(t, "(1..4)", nil)

	require.Equal(t, KindArray, v.Kind())
	assert.Equal(t, "1234", v.Render())

	empty := evalString(t, "(5..1)", nil)
	assert.Len(t, empty.AsArray(), 0)
}

func TestEvalExpression_RangeBoundsFromVariables(t *testing.T) {
	v := evalString(t, "(a..b)", map[string]any{"a": 2, "b": 4})
	assert.Equal(t, "234", v.Render())
}

func TestEvalExpression_FilterChainOrder(t *testing.T) {
	v := evalString(t, `"ab" | append: "c" | upcase`, nil)
	assert.Equal(t, "ABC", v.Render())
}

func TestEvalExpression_UnknownFilterFails(t *testing.T) {
	expr, err := ParseFilteredExpression(`x | nosuchfilter`, Position{})
	require.NoError(t, err)

	_, err = EvalExpression(evalContext(t, nil), expr, Position{})
	require.Error(t, err)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrMsgUnknownFilter, re.Message)
	assert.Equal(t, "nosuchfilter", re.Detail)
}

func TestEvalExpression_Comparisons(t *testing.T) {
	data := map[string]any{"n": 3, "s": "hello"}

	tests := []struct {
		name     string
		src      string
		expected bool
	}{
		{"numeric less-than", "n < 5", true},
		{"numeric cross-kind equality", "n == 3.0", true},
		{"not equal", "n != 3", false},
		{"string contains", `s contains "ell"`, true},
		{"and short-circuit", "false and missing > 1", false},
		{"or", `n > 10 or s == "hello"`, true},
		{"nil equals missing", "missing == nil", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseCondition(tt.src, Position{})
			require.NoError(t, err)
			v, err := EvalExpression(evalContext(t, data), expr, Position{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.Truthy())
		})
	}
}

func TestEvalExpression_OrderingIncomparableKindsFails(t *testing.T) {
	expr, err := ParseCondition(`s < 3`, Position{})
	require.NoError(t, err)

	_, err = EvalExpression(evalContext(t, map[string]any{"s": "x"}), expr, Position{})
	require.Error(t, err)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrMsgExprNotComparable, re.Message)
}
