package liquify

import (
	"io"
	"time"

	"github.com/itsatony/go-liquify/internal"
)

// Value is the closed tagged union over all data the template language
// can manipulate: nil, booleans, integers, floats, strings, datetimes,
// arrays and insertion-ordered objects. The zero Value is Nil.
type Value = internal.Value

// ValueKind identifies the variant held by a Value.
type ValueKind = internal.ValueKind

// Value kind constants
const (
	KindNil    = internal.KindNil
	KindBool   = internal.KindBool
	KindInt    = internal.KindInt
	KindFloat  = internal.KindFloat
	KindString = internal.KindString
	KindTime   = internal.KindTime
	KindArray  = internal.KindArray
	KindObject = internal.KindObject
)

// Object is a string-keyed mapping with insertion order preserved.
type Object = internal.Object

// Position is a location in template source.
type Position = internal.Position

// ParseError is a compile-time failure with source attribution.
type ParseError = internal.ParseError

// RenderError is a run-time failure carrying an innermost-first trace of
// the enclosing constructs.
type RenderError = internal.RenderError

// TraceFrame is one contextual annotation on a render error.
type TraceFrame = internal.TraceFrame

// Value constructors

// Nil returns the nil value.
func Nil() Value { return internal.Nil() }

// Bool returns a boolean value.
func Bool(b bool) Value { return internal.Bool(b) }

// Int returns an integer value.
func Int(i int64) Value { return internal.Int(i) }

// Float returns a float value.
func Float(f float64) Value { return internal.Float(f) }

// Str returns a string value.
func Str(s string) Value { return internal.Str(s) }

// Time returns a datetime value.
func Time(t time.Time) Value { return internal.Time(t) }

// ArrayOf returns an array value over the given elements.
func ArrayOf(elems ...Value) Value { return internal.Array(elems...) }

// ObjectOf wraps an Object into a Value.
func ObjectOf(o *Object) Value { return internal.ObjectValue(o) }

// NewObject creates an empty insertion-ordered object.
func NewObject() *Object { return internal.NewObject() }

// FromAny converts arbitrary Go data (maps, slices, scalars, time.Time)
// into a Value.
func FromAny(data any) Value { return internal.FromAny(data) }

// Extension surface: the parse- and render-time types custom filters,
// tags and blocks work with.

// Filter is a named transformation applied in {{ expr | name: args }}
// chains.
type Filter = internal.Filter

// TagParser is the parslet capability for a custom non-block tag.
type TagParser = internal.TagParser

// BlockParser is the parslet capability for a custom block tag.
type BlockParser = internal.BlockParser

// Parser is the template parser handed to custom tag parslets.
type Parser = internal.Parser

// ExprParser is the cursor over a tag's argument grammar handed to
// parslets.
type ExprParser = internal.ExprParser

// BlockCursor drives the parser through a block's body on behalf of a
// block parslet.
type BlockCursor = internal.BlockCursor

// Token is one scanned template span.
type Token = internal.Token

// Node is the compiled, executable form of one template construct.
type Node = internal.Node

// Expression is the parse-time form of anything that evaluates to a
// Value.
type Expression = internal.Expression

// RenderContext is the per-render mutable state passed to node Render
// methods.
type RenderContext = internal.RenderContext

// EvalExpression evaluates a parsed expression against a render context.
// Custom tag nodes use this to evaluate their stored argument
// expressions.
func EvalExpression(rc *RenderContext, expr Expression, pos Position) (Value, error) {
	return internal.EvalExpression(rc, expr, pos)
}

// RenderNodes executes a node sequence in source order. Custom block
// nodes use this to render their bodies.
func RenderNodes(nodes []Node, rc *RenderContext, w io.Writer) error {
	return internal.RenderNodes(nodes, rc, w)
}
