package liquify

import (
	"errors"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-liquify/internal"
)

// wrapParseError converts an internal parse error into a categorized
// cuserr error with position metadata. Other errors pass through
// unchanged.
func wrapParseError(err error) error {
	if err == nil {
		return nil
	}
	var pe *internal.ParseError
	if !errors.As(err, &pe) {
		return cuserr.WrapStdError(err, ErrCodeParse, ErrMsgParseFailed)
	}

	wrapped := cuserr.WrapStdError(pe, ErrCodeParse, ErrMsgParseFailed).
		WithMetadata(MetaKeyLine, strconv.Itoa(pe.Position.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pe.Position.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pe.Position.Offset))
	if pe.Detail != "" {
		wrapped = wrapped.WithMetadata(MetaKeyDetail, pe.Detail)
	}
	if pe.Template != "" {
		wrapped = wrapped.WithMetadata(MetaKeyTemplateName, pe.Template)
	}
	return wrapped
}

// wrapRenderError converts an internal render error into a categorized
// cuserr error carrying the innermost-first trace as metadata.
func wrapRenderError(err error, templateName string) error {
	if err == nil {
		return nil
	}
	var re *internal.RenderError
	if !errors.As(err, &re) {
		return cuserr.WrapStdError(err, ErrCodeRender, ErrMsgRenderFailed).
			WithMetadata(MetaKeyTemplateName, templateName)
	}

	wrapped := cuserr.WrapStdError(re, ErrCodeRender, ErrMsgRenderFailed).
		WithMetadata(MetaKeyLine, strconv.Itoa(re.Position.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(re.Position.Column)).
		WithMetadata(MetaKeyTemplateName, templateName)
	if re.Detail != "" {
		wrapped = wrapped.WithMetadata(MetaKeyDetail, re.Detail)
	}
	if len(re.Trace) > 0 {
		wrapped = wrapped.WithMetadata(MetaKeyTrace, formatTrace(re.Trace))
	}
	return wrapped
}

// formatTrace joins trace frames innermost-first for error metadata.
func formatTrace(frames []TraceFrame) string {
	parts := make([]string, len(frames))
	for i, f := range frames {
		parts[i] = f.String()
	}
	return strings.Join(parts, " <- ")
}

// AsParseError extracts the underlying parse error when err originated
// from compilation.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	ok := errors.As(err, &pe)
	return pe, ok
}

// AsRenderError extracts the underlying render error, with its position
// and trace, when err originated from rendering.
func AsRenderError(err error) (*RenderError, bool) {
	var re *RenderError
	ok := errors.As(err, &re)
	return re, ok
}
