package internal

import (
	"fmt"
	"strings"
)

// Position represents a location in the source template.
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Parse error message constants
const (
	ErrMsgUnterminatedOutput = "unterminated output expression, missing '}}'"
	ErrMsgUnterminatedTag    = "unterminated tag, missing '%}'"
	ErrMsgUnknownTag         = "unknown tag"
	ErrMsgOrphanTag          = "tag has no matching opener"
	ErrMsgMissingTerminator  = "block is never closed"
	ErrMsgEmptyTag           = "tag is empty"
	ErrMsgEmptyOutput        = "output expression is empty"
	ErrMsgExprSyntax         = "malformed expression"
	ErrMsgUnterminatedString = "unterminated string literal"
	ErrMsgUnexpectedChar     = "unexpected character"
	ErrMsgExpectedIdentifier = "expected identifier"
	ErrMsgExpectedExpression = "expected expression"
	ErrMsgUnterminatedRange  = "unterminated range literal, missing ')'"
	ErrMsgTrailingInput      = "unexpected trailing input"
)

// Render error message constants
const (
	ErrMsgUnknownFilter    = "unknown filter"
	ErrMsgFilterFailed     = "filter failed"
	ErrMsgFilterArgCount   = "wrong number of filter arguments"
	ErrMsgUnknownKwArg     = "unknown keyword argument"
	ErrMsgPartialNotFound  = "partial template not found"
	ErrMsgPartialCompile   = "partial template failed to compile"
	ErrMsgNoResolver       = "no partial resolver configured"
	ErrMsgNotIterable      = "value is not iterable"
	ErrMsgMaxDepthExceeded = "maximum render depth exceeded"
	ErrMsgMaxIterExceeded  = "maximum loop iterations exceeded"
	ErrMsgCoercionFailed   = "type coercion failed"
	ErrMsgRenderCanceled   = "render canceled"
)

// ParseError is a compile-time failure with source attribution. Template
// is the source name the compiler was invoked with; Detail names the
// offending or expected construct (tag name, terminator, delimiter).
type ParseError struct {
	Message  string
	Detail   string
	Position Position
	Template string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Detail != StringValueEmpty {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	sb.WriteString(" at ")
	sb.WriteString(e.Position.String())
	if e.Template != StringValueEmpty {
		sb.WriteString(" in ")
		sb.WriteString(e.Template)
	}
	return sb.String()
}

// NewParseError creates a parse error at the given position.
func NewParseError(message, detail string, pos Position) *ParseError {
	return &ParseError{Message: message, Detail: detail, Position: pos}
}

// TraceFrame is one contextual annotation attached to a render error as it
// unwinds through an enclosing construct.
type TraceFrame struct {
	Description string
	Position    Position
}

// String returns the frame in "description (line L, column C)" form.
func (f TraceFrame) String() string {
	return fmt.Sprintf("%s (%s)", f.Description, f.Position.String())
}

// RenderError is a run-time failure. Trace holds the annotations of the
// enclosing constructs, innermost first, accumulated while the error
// propagates outward.
type RenderError struct {
	Message  string
	Detail   string
	Position Position
	Trace    []TraceFrame
	Cause    error
}

// Error implements the error interface, rendering the message followed by
// the innermost-to-outermost trace.
func (e *RenderError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Detail != StringValueEmpty {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	sb.WriteString(" at ")
	sb.WriteString(e.Position.String())
	for _, frame := range e.Trace {
		sb.WriteString("\n  in ")
		sb.WriteString(frame.String())
	}
	return sb.String()
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *RenderError) Unwrap() error { return e.Cause }

// Annotate appends a trace frame for an enclosing construct and returns
// the error for chaining.
func (e *RenderError) Annotate(description string, pos Position) *RenderError {
	e.Trace = append(e.Trace, TraceFrame{Description: description, Position: pos})
	return e
}

// NewRenderError creates a render error at the given position.
func NewRenderError(message, detail string, pos Position) *RenderError {
	return &RenderError{Message: message, Detail: detail, Position: pos}
}

// WrapRenderError wraps a cause into a render error. An existing
// RenderError passes through unchanged so traces keep accumulating on a
// single error value.
func WrapRenderError(cause error, message string, pos Position) *RenderError {
	if re, ok := cause.(*RenderError); ok {
		return re
	}
	return &RenderError{Message: message, Position: pos, Cause: cause}
}

// AnnotateRender attaches a trace frame when err is a render error and
// returns err unchanged otherwise. Enclosing block tags call this on every
// failure from their body.
func AnnotateRender(err error, description string, pos Position) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RenderError); ok {
		return re.Annotate(description, pos)
	}
	return err
}
