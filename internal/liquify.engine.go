package internal

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// EngineCore owns the registries and configuration shared by every
// compile and render. It is immutable after setup; renders never mutate
// it, so a single core may serve concurrent renders without locking
// beyond the registries' own.
type EngineCore struct {
	Tags    *TagRegistry
	Blocks  *BlockRegistry
	Filters *FilterRegistry
	Logger  *zap.Logger

	// MaxDepth bounds nested renders (include, capture). 0 = unlimited.
	MaxDepth int
	// MaxIterations bounds total loop iterations per render call.
	// 0 = unlimited.
	MaxIterations int
}

// NewEngineCore creates a core with the built-in tags, blocks and filters
// registered.
func NewEngineCore(logger *zap.Logger) *EngineCore {
	if logger == nil {
		logger = zap.NewNop()
	}
	core := &EngineCore{
		Tags:          NewTagRegistry(),
		Blocks:        NewBlockRegistry(),
		Filters:       NewFilterRegistry(),
		Logger:        logger,
		MaxDepth:      DefaultMaxRenderDepth,
		MaxIterations: DefaultMaxIterations,
	}
	RegisterBuiltinTags(core.Tags)
	RegisterBuiltinBlocks(core.Blocks)
	RegisterBuiltinFilters(core.Filters)
	return core
}

// CompiledTemplate is the root of a compiled template: an ordered
// sequence of top-level nodes plus the source name used for error
// attribution. Immutable once compiled.
type CompiledTemplate struct {
	Name  string
	Nodes []Node
}

// Compile scans and parses template source into an executable template.
// Parse failures are fatal: no partial template is produced.
func (e *EngineCore) Compile(source, name string) (*CompiledTemplate, error) {
	tokens, err := NewLexer(source, e.Logger).Tokenize()
	if err != nil {
		if pe, ok := err.(*ParseError); ok && pe.Template == StringValueEmpty {
			pe.Template = name
		}
		return nil, err
	}

	nodes, err := NewParser(tokens, e.Tags, e.Blocks, name, e.Logger).Parse()
	if err != nil {
		return nil, err
	}

	return &CompiledTemplate{Name: name, Nodes: nodes}, nil
}

// Render walks a compiled template against fresh per-call state, writing
// output incrementally to w.
func (e *EngineCore) Render(ctx context.Context, t *CompiledTemplate, data *Object, resolver PartialResolver, w io.Writer) error {
	e.Logger.Debug(LogMsgRenderStart, zap.String(LogFieldTemplate, t.Name))

	rc := NewRenderContext(ctx, e, data, resolver, t.Name)
	if err := RenderNodes(t.Nodes, rc, w); err != nil {
		return AnnotateRender(err, "template "+t.Name, Position{Line: 1, Column: 1})
	}

	e.Logger.Debug(LogMsgRenderEnd, zap.String(LogFieldTemplate, t.Name))
	return nil
}

// RegisterBuiltinTags registers the non-block built-in tags.
func RegisterBuiltinTags(r *TagRegistry) {
	r.MustRegister(&AssignTag{})
	r.MustRegister(&IncludeTag{})
	r.MustRegister(&BreakTag{})
	r.MustRegister(&ContinueTag{})
	r.MustRegister(&IncrementTag{})
	r.MustRegister(&DecrementTag{})
	r.MustRegister(&CycleTag{})
}

// RegisterBuiltinBlocks registers the built-in block tags.
func RegisterBuiltinBlocks(r *BlockRegistry) {
	r.MustRegister(&IfBlock{})
	r.MustRegister(&UnlessBlock{})
	r.MustRegister(&CaseBlock{})
	r.MustRegister(&ForBlock{})
	r.MustRegister(&CaptureBlock{})
	r.MustRegister(&RawBlock{})
	r.MustRegister(&CommentBlock{})
	r.MustRegister(&IfChangedBlock{})
}
