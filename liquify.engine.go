package liquify

import (
	"context"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-liquify/internal"
	"go.uber.org/zap"
)

// Engine compiles template source and owns the filter, tag and block
// registries. An Engine is safe for concurrent use once setup (option
// application and registrations) is complete.
type Engine struct {
	core     *internal.EngineCore
	resolver PartialResolver
	logger   *zap.Logger
}

// New creates a new Engine with the built-in filters, tags and blocks
// registered.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	core := internal.NewEngineCore(config.logger)
	core.MaxDepth = config.maxDepth
	core.MaxIterations = config.maxIterations

	return &Engine{
		core:     core,
		resolver: config.resolver,
		logger:   core.Logger,
	}, nil
}

// MustNew creates a new Engine or panics.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Parse compiles template source into an immutable Template. name
// attributes errors to the source; pass "" for an anonymous template.
func (e *Engine) Parse(source, name string) (*Template, error) {
	if name == "" {
		name = DefaultTemplateName
	}
	compiled, err := e.core.Compile(source, name)
	if err != nil {
		return nil, wrapParseError(err)
	}
	return &Template{engine: e, compiled: compiled}, nil
}

// MustParse compiles template source or panics.
func (e *Engine) MustParse(source, name string) *Template {
	tmpl, err := e.Parse(source, name)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// RenderString compiles and renders source in one call. For templates
// rendered more than once, Parse once and reuse the Template.
func (e *Engine) RenderString(ctx context.Context, source string, data map[string]any) (string, error) {
	tmpl, err := e.Parse(source, DefaultTemplateName)
	if err != nil {
		return "", err
	}
	return tmpl.Render(ctx, data)
}

// RegisterFilter adds a filter, shadowing any built-in of the same name.
func (e *Engine) RegisterFilter(f *Filter) error {
	if err := e.core.Filters.Register(f); err != nil {
		return cuserr.WrapStdError(err, ErrCodeRegistry, ErrMsgRegistrationFailed)
	}
	return nil
}

// MustRegisterFilter adds a filter or panics.
func (e *Engine) MustRegisterFilter(f *Filter) {
	if err := e.RegisterFilter(f); err != nil {
		panic(err)
	}
}

// RegisterTag adds a custom non-block tag parslet. Tag names are unique;
// registering over an existing name fails.
func (e *Engine) RegisterTag(t TagParser) error {
	if err := e.core.Tags.Register(t); err != nil {
		return cuserr.WrapStdError(err, ErrCodeRegistry, ErrMsgRegistrationFailed)
	}
	return nil
}

// MustRegisterTag adds a custom tag parslet or panics.
func (e *Engine) MustRegisterTag(t TagParser) {
	if err := e.RegisterTag(t); err != nil {
		panic(err)
	}
}

// RegisterBlock adds a custom block parslet.
func (e *Engine) RegisterBlock(b BlockParser) error {
	if err := e.core.Blocks.Register(b); err != nil {
		return cuserr.WrapStdError(err, ErrCodeRegistry, ErrMsgRegistrationFailed)
	}
	return nil
}

// MustRegisterBlock adds a custom block parslet or panics.
func (e *Engine) MustRegisterBlock(b BlockParser) {
	if err := e.RegisterBlock(b); err != nil {
		panic(err)
	}
}

// HasFilter reports whether a filter is registered.
func (e *Engine) HasFilter(name string) bool {
	return e.core.Filters.Has(name)
}

// Filters returns the names of all registered filters.
func (e *Engine) Filters() []string {
	return e.core.Filters.List()
}

// Resolver returns the configured partial resolver, nil when none is
// set.
func (e *Engine) Resolver() PartialResolver {
	return e.resolver
}
