package internal

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// Interrupt signals a control-flow escape raised by break/continue and
// consumed by the innermost enclosing loop.
type Interrupt int

// Interrupt constants
const (
	InterruptNone Interrupt = iota
	InterruptBreak
	InterruptContinue
)

// PartialResolver resolves a partial-template name to its source text.
// found is false when the name is unknown; err reports resolver failures
// (I/O, backend errors).
type PartialResolver interface {
	Resolve(ctx context.Context, name string) (source string, found bool, err error)
}

// RenderContext is the per-render mutable state: the variable scope stack,
// interrupt and loop state, render-call registers, and references to the
// engine's registries and the partial resolver. A RenderContext is
// exclusively owned by one render call.
type RenderContext struct {
	engine   *EngineCore
	resolver PartialResolver
	ctx      context.Context
	logger   *zap.Logger

	scopes    []map[string]Value
	interrupt Interrupt
	registers map[string]any

	depth      int
	iterations int
	template   string
}

// NewRenderContext creates the context for one render call. data seeds the
// outermost (global) scope.
func NewRenderContext(ctx context.Context, engine *EngineCore, data *Object, resolver PartialResolver, templateName string) *RenderContext {
	globals := make(map[string]Value)
	if data != nil {
		for _, k := range data.Keys() {
			v, _ := data.Get(k)
			globals[k] = v
		}
	}
	return &RenderContext{
		engine:    engine,
		resolver:  resolver,
		ctx:       ctx,
		logger:    engine.Logger,
		scopes:    []map[string]Value{globals},
		registers: make(map[string]any),
		template:  templateName,
	}
}

// Ctx returns the caller's context for cancellation checks.
func (rc *RenderContext) Ctx() context.Context {
	if rc.ctx == nil {
		return context.Background()
	}
	return rc.ctx
}

// Engine returns the engine core (registries, compile entry).
func (rc *RenderContext) Engine() *EngineCore { return rc.engine }

// TemplateName returns the name of the template being rendered, for error
// attribution.
func (rc *RenderContext) TemplateName() string { return rc.template }

// PushScope pushes a new innermost variable scope.
func (rc *RenderContext) PushScope() {
	rc.scopes = append(rc.scopes, make(map[string]Value))
}

// PopScope removes the innermost scope. Pops are strictly LIFO, matching
// block nesting.
func (rc *RenderContext) PopScope() {
	if len(rc.scopes) > 1 {
		rc.scopes = rc.scopes[:len(rc.scopes)-1]
	}
}

// Lookup resolves a variable name against the scope stack, innermost
// first. A missing name yields Nil per the language's permissive-lookup
// semantics.
func (rc *RenderContext) Lookup(name string) Value {
	for i := len(rc.scopes) - 1; i >= 0; i-- {
		if v, ok := rc.scopes[i][name]; ok {
			return v
		}
	}
	return Nil()
}

// SetLocal binds a name in the innermost scope (loop variables, include
// arguments).
func (rc *RenderContext) SetLocal(name string, v Value) {
	rc.scopes[len(rc.scopes)-1][name] = v
}

// SetGlobal binds a name in the outermost scope. assign and capture use
// this so their bindings survive the enclosing block.
func (rc *RenderContext) SetGlobal(name string, v Value) {
	rc.scopes[0][name] = v
}

// Interrupt state

// SetInterrupt raises a control-flow interrupt.
func (rc *RenderContext) SetInterrupt(i Interrupt) { rc.interrupt = i }

// TakeInterrupt returns the pending interrupt and clears it.
func (rc *RenderContext) TakeInterrupt() Interrupt {
	i := rc.interrupt
	rc.interrupt = InterruptNone
	return i
}

// Interrupted reports whether an interrupt is pending. Node sequences stop
// executing while one is in flight.
func (rc *RenderContext) Interrupted() bool { return rc.interrupt != InterruptNone }

// Register returns the named render-call private register, creating it
// with the supplied constructor on first use. ifchanged, cycle and the
// increment/decrement counters keep their state here.
func (rc *RenderContext) Register(key string, create func() any) any {
	if v, ok := rc.registers[key]; ok {
		return v
	}
	v := create()
	rc.registers[key] = v
	return v
}

// Depth guard for nested renders (include, capture).

// EnterNested increments the nesting depth, failing when the configured
// maximum is exceeded.
func (rc *RenderContext) EnterNested(pos Position) error {
	rc.depth++
	if rc.engine.MaxDepth > 0 && rc.depth > rc.engine.MaxDepth {
		return NewRenderError(ErrMsgMaxDepthExceeded, StringValueEmpty, pos)
	}
	return nil
}

// ExitNested decrements the nesting depth.
func (rc *RenderContext) ExitNested() {
	if rc.depth > 0 {
		rc.depth--
	}
}

// CountIteration enforces the engine-wide loop iteration cap and checks
// for caller cancellation.
func (rc *RenderContext) CountIteration(pos Position) error {
	rc.iterations++
	if rc.engine.MaxIterations > 0 && rc.iterations > rc.engine.MaxIterations {
		return NewRenderError(ErrMsgMaxIterExceeded, StringValueEmpty, pos)
	}
	if err := rc.Ctx().Err(); err != nil {
		return WrapRenderError(err, ErrMsgRenderCanceled, pos)
	}
	return nil
}

// ResolvePartial resolves a partial template's source through the
// configured resolver.
func (rc *RenderContext) ResolvePartial(name string, pos Position) (string, error) {
	if rc.resolver == nil {
		return StringValueEmpty, NewRenderError(ErrMsgNoResolver, name, pos)
	}
	rc.logger.Debug(LogMsgPartialResolve, zap.String(LogFieldPartial, name))
	source, found, err := rc.resolver.Resolve(rc.Ctx(), name)
	if err != nil {
		return StringValueEmpty, WrapRenderError(err, ErrMsgPartialNotFound, pos)
	}
	if !found {
		return StringValueEmpty, NewRenderError(ErrMsgPartialNotFound, name, pos)
	}
	return source, nil
}

// RenderNodes executes a node sequence depth-first in source order,
// writing output incrementally. Execution stops early when an interrupt
// is raised inside the sequence.
func RenderNodes(nodes []Node, rc *RenderContext, w io.Writer) error {
	for _, node := range nodes {
		if err := node.Render(rc, w); err != nil {
			return err
		}
		if rc.Interrupted() {
			return nil
		}
	}
	return nil
}
