package liquify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-liquify/internal"
)

// PartialResolver resolves an {% include %} name to template source at
// render time. found is false when the name is unknown; err reports
// resolver failures (I/O, backend errors).
type PartialResolver = internal.PartialResolver

// Resolver error message constants
const (
	ErrMsgPartialNameInvalid = "partial name is invalid"
	ErrMsgPartialReadFailed  = "partial read failed"
)

// MemoryResolver serves partials from an in-memory map. It is safe for
// concurrent use and suited to tests and embedded template sets.
type MemoryResolver struct {
	mu       sync.RWMutex
	partials map[string]string
}

// NewMemoryResolver creates an empty in-memory resolver.
func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{partials: make(map[string]string)}
}

// NewMemoryResolverFrom creates a resolver preloaded with the given
// partials.
func NewMemoryResolverFrom(partials map[string]string) *MemoryResolver {
	r := NewMemoryResolver()
	for name, source := range partials {
		r.Add(name, source)
	}
	return r
}

// Add stores or replaces a partial.
func (r *MemoryResolver) Add(name, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partials[name] = source
}

// Remove deletes a partial.
func (r *MemoryResolver) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.partials, name)
}

// Resolve implements PartialResolver.
func (r *MemoryResolver) Resolve(ctx context.Context, name string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	source, ok := r.partials[name]
	return source, ok, nil
}

// Filesystem resolver defaults
const (
	DefaultPartialExtension = ".liquid"
)

// FilesystemResolver serves partials from files under a root directory.
// The partial name maps to a relative path; names escaping the root are
// rejected.
type FilesystemResolver struct {
	root      string
	extension string
}

// NewFilesystemResolver creates a resolver rooted at dir. Partial "x/y"
// resolves to dir/x/y.liquid; names already carrying an extension are
// used as-is.
func NewFilesystemResolver(dir string) *FilesystemResolver {
	return &FilesystemResolver{root: dir, extension: DefaultPartialExtension}
}

// WithExtension sets the file extension appended to extension-less
// partial names.
func (r *FilesystemResolver) WithExtension(ext string) *FilesystemResolver {
	r.extension = ext
	return r
}

// Resolve implements PartialResolver.
func (r *FilesystemResolver) Resolve(ctx context.Context, name string) (string, bool, error) {
	path, err := r.partialPath(name)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, cuserr.WrapStdError(err, ErrCodeResolver, ErrMsgPartialReadFailed).
			WithMetadata(MetaKeyDetail, name)
	}
	return string(data), true, nil
}

// partialPath maps a partial name onto a file path inside the root,
// rejecting traversal outside it.
func (r *FilesystemResolver) partialPath(name string) (string, error) {
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return "", cuserr.NewValidationError(ErrCodeResolver, ErrMsgPartialNameInvalid).
			WithMetadata(MetaKeyDetail, name)
	}
	if filepath.Ext(name) == "" {
		name += r.extension
	}
	return filepath.Join(r.root, filepath.FromSlash(name)), nil
}
