package liquify

import (
	"bytes"
	"context"
	"io"

	"github.com/itsatony/go-liquify/internal"
)

// Template is an immutable compiled template. It may be rendered
// concurrently; every render call gets its own state.
type Template struct {
	engine   *Engine
	compiled *internal.CompiledTemplate
}

// Name returns the source name the template was compiled with.
func (t *Template) Name() string {
	return t.compiled.Name
}

// Render executes the template against data and returns the complete
// output. Output is buffered internally: on error, nothing is returned
// beyond the error, so callers never see partial output.
func (t *Template) Render(ctx context.Context, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := t.renderTo(ctx, &buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo streams the template's output to w as it is produced. On
// error, everything written before the failure remains in w.
func (t *Template) RenderTo(ctx context.Context, w io.Writer, data map[string]any) error {
	return t.renderTo(ctx, w, data)
}

// RenderValues renders against an already-converted Object, avoiding the
// map conversion for callers that build Values directly.
func (t *Template) RenderValues(ctx context.Context, data *Object) (string, error) {
	var buf bytes.Buffer
	if err := t.renderObject(ctx, &buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (t *Template) renderTo(ctx context.Context, w io.Writer, data map[string]any) error {
	var obj *Object
	if data != nil {
		obj = internal.FromAny(data).AsObject()
	}
	return t.renderObject(ctx, w, obj)
}

func (t *Template) renderObject(ctx context.Context, w io.Writer, data *Object) error {
	err := t.engine.core.Render(ctx, t.compiled, data, t.engine.resolver, w)
	if err != nil {
		return wrapRenderError(err, t.compiled.Name)
	}
	return nil
}
