package internal

import (
	"fmt"
	"sync"
)

// Registry error message constants
const (
	ErrMsgTagExists    = "tag already registered"
	ErrMsgBlockExists  = "block already registered"
	ErrMsgNilParslet   = "parslet cannot be nil"
	ErrMsgEmptyTagName = "tag name cannot be empty"
	ErrMsgNilFilter    = "filter cannot be nil"
	ErrMsgEmptyFilter  = "filter name cannot be empty"
)

// Filter is a named, pure transformation from an input value plus
// positional and keyword arguments to a value or an error.
type Filter struct {
	// Name is the identifier used in filter chains.
	Name string
	// MinArgs is the minimum number of positional arguments.
	MinArgs int
	// MaxArgs is the maximum number of positional arguments (-1 for
	// variadic).
	MaxArgs int
	// KwArgs lists the accepted keyword argument names.
	KwArgs []string
	// Fn is the filter implementation.
	Fn func(input Value, args []Value, kwargs map[string]Value) (Value, error)
}

// FilterRegistry maps filter names to callables. Registration under an
// existing name shadows the earlier filter.
type FilterRegistry struct {
	filters map[string]*Filter
	mu      sync.RWMutex
}

// NewFilterRegistry creates an empty filter registry.
func NewFilterRegistry() *FilterRegistry {
	return &FilterRegistry{filters: make(map[string]*Filter)}
}

// Register adds a filter, shadowing any earlier filter of the same name.
func (r *FilterRegistry) Register(f *Filter) error {
	if f == nil {
		return &RegistryError{Message: ErrMsgNilFilter}
	}
	if f.Name == StringValueEmpty {
		return &RegistryError{Message: ErrMsgEmptyFilter}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[f.Name] = f
	return nil
}

// MustRegister adds a filter and panics on error.
func (r *FilterRegistry) MustRegister(f *Filter) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Get retrieves a filter by name.
func (r *FilterRegistry) Get(name string) (*Filter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.filters[name]
	return f, ok
}

// Has checks if a filter is registered.
func (r *FilterRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all registered filter names.
func (r *FilterRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	return names
}

// Apply invokes the named filter, enforcing its declared arity and
// keyword set. Failures come back as render errors carrying the filter
// name.
func (r *FilterRegistry) Apply(name string, input Value, args []Value, kwargs map[string]Value, pos Position) (Value, error) {
	f, ok := r.Get(name)
	if !ok {
		return Nil(), NewRenderError(ErrMsgUnknownFilter, name, pos)
	}

	if len(args) < f.MinArgs || (f.MaxArgs >= 0 && len(args) > f.MaxArgs) {
		detail := fmt.Sprintf("%s expects %s, got %d", name, arityString(f.MinArgs, f.MaxArgs), len(args))
		return Nil(), NewRenderError(ErrMsgFilterArgCount, detail, pos)
	}
	for kw := range kwargs {
		if !containsString(f.KwArgs, kw) {
			return Nil(), NewRenderError(ErrMsgUnknownKwArg, name+": "+kw, pos)
		}
	}

	out, err := f.Fn(input, args, kwargs)
	if err != nil {
		re := WrapRenderError(err, ErrMsgFilterFailed, pos)
		if re.Detail == StringValueEmpty {
			re.Detail = name
		}
		return Nil(), re
	}
	return out, nil
}

// arityString renders an arity declaration for error messages.
func arityString(min, max int) string {
	switch {
	case max < 0:
		return fmt.Sprintf("at least %d argument(s)", min)
	case min == max:
		return fmt.Sprintf("%d argument(s)", min)
	default:
		return fmt.Sprintf("%d to %d arguments", min, max)
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// TagParser is the parslet capability for a non-block tag: it consumes
// exactly one tag span's argument text and produces an executable node.
type TagParser interface {
	// TagName returns the name this parslet is registered under.
	TagName() string
	// ParseTag consumes the tag's argument grammar and produces a node.
	ParseTag(args *ExprParser, tok Token, p *Parser) (Node, error)
}

// BlockParser is the parslet capability for a block tag: it drives the
// parser to consume the block's body, including nested blocks, until one
// of its own terminator or continuation tags appears.
type BlockParser interface {
	// StartTag returns the opening tag name.
	StartTag() string
	// EndTag returns the terminator tag name.
	EndTag() string
	// ContinuationTags returns tag names legal inside this block at its
	// own nesting level (e.g. elsif/else for if).
	ContinuationTags() []string
	// ParseBlock consumes the argument grammar and the body and produces
	// a node.
	ParseBlock(args *ExprParser, tok Token, body *BlockCursor) (Node, error)
}

// TagRegistry maps tag names to their parslets. Tag names are unique;
// re-registration is an error.
type TagRegistry struct {
	tags map[string]TagParser
	mu   sync.RWMutex
}

// NewTagRegistry creates an empty tag registry.
func NewTagRegistry() *TagRegistry {
	return &TagRegistry{tags: make(map[string]TagParser)}
}

// Register adds a tag parslet. Duplicate names are rejected.
func (r *TagRegistry) Register(t TagParser) error {
	if t == nil {
		return &RegistryError{Message: ErrMsgNilParslet}
	}
	if t.TagName() == StringValueEmpty {
		return &RegistryError{Message: ErrMsgEmptyTagName}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tags[t.TagName()]; exists {
		return &RegistryError{Message: ErrMsgTagExists, Name: t.TagName()}
	}
	r.tags[t.TagName()] = t
	return nil
}

// MustRegister adds a tag parslet and panics on error.
func (r *TagRegistry) MustRegister(t TagParser) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get retrieves a tag parslet by name.
func (r *TagRegistry) Get(name string) (TagParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tags[name]
	return t, ok
}

// BlockRegistry maps block start tags to their parslets and indexes their
// terminator and continuation tags so the parser can flag orphans.
type BlockRegistry struct {
	blocks      map[string]BlockParser
	terminators map[string]string // end/continuation tag -> start tag
	mu          sync.RWMutex
}

// NewBlockRegistry creates an empty block registry.
func NewBlockRegistry() *BlockRegistry {
	return &BlockRegistry{
		blocks:      make(map[string]BlockParser),
		terminators: make(map[string]string),
	}
}

// Register adds a block parslet. Duplicate start tags are rejected.
func (r *BlockRegistry) Register(b BlockParser) error {
	if b == nil {
		return &RegistryError{Message: ErrMsgNilParslet}
	}
	if b.StartTag() == StringValueEmpty {
		return &RegistryError{Message: ErrMsgEmptyTagName}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.blocks[b.StartTag()]; exists {
		return &RegistryError{Message: ErrMsgBlockExists, Name: b.StartTag()}
	}
	r.blocks[b.StartTag()] = b
	r.terminators[b.EndTag()] = b.StartTag()
	for _, cont := range b.ContinuationTags() {
		r.terminators[cont] = b.StartTag()
	}
	return nil
}

// MustRegister adds a block parslet and panics on error.
func (r *BlockRegistry) MustRegister(b BlockParser) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Get retrieves a block parslet by start tag name.
func (r *BlockRegistry) Get(name string) (BlockParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blocks[name]
	return b, ok
}

// IsTerminator reports whether name is a terminator or continuation tag of
// some registered block, and for which block.
func (r *BlockRegistry) IsTerminator(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	start, ok := r.terminators[name]
	return start, ok
}

// RegistryError reports an invalid registration.
type RegistryError struct {
	Message string
	Name    string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	if e.Name != StringValueEmpty {
		return fmt.Sprintf("%s: %s", e.Message, e.Name)
	}
	return e.Message
}
