package views

import (
	"context"
	"fmt"
	"sync"
)

// Template is a loaded render unit. Render writes model's output to the
// view's ambient output, and may render or capture nested views through
// view.
type Template interface {
	Render(ctx context.Context, model any, view *Service) error
}

// RenderFunc adapts an ordinary function to the Template interface.
type RenderFunc func(ctx context.Context, model any, view *Service) error

// Render calls f(ctx, model, view).
func (f RenderFunc) Render(ctx context.Context, model any, view *Service) error {
	return f(ctx, model, view)
}

// Loader turns the template at a path into a Template. A Service loads
// each path at most once and reuses the result for its whole lifetime.
//
// Returning a nil Template with a nil error makes rendering that path fail
// with ErrNotRenderable.
type Loader interface {
	Load(ctx context.Context, path string) (Template, error)
}

// LoaderFunc adapts an ordinary function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string) (Template, error)

// Load calls f(ctx, path).
func (f LoaderFunc) Load(ctx context.Context, path string) (Template, error) {
	return f(ctx, path)
}

var _ Loader = &Registry{}

// Registry is a Loader for templates written in Go. Each Template is
// registered under the path a finder would resolve it to; finders that
// check for existence still need a file, possibly empty, at that path.
//
// It can safely be used by multiple goroutines.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{templates: map[string]Template{}}
}

// Register stores tmpl under path, replacing anything already there.
func (r *Registry) Register(path string, tmpl Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[path] = tmpl
}

// RegisterFunc stores fn under path.
func (r *Registry) RegisterFunc(path string, fn func(ctx context.Context, model any, view *Service) error) {
	r.Register(path, RenderFunc(fn))
}

// Load returns the Template registered under path.
func (r *Registry) Load(_ context.Context, path string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.templates[path]
	if !ok {
		return nil, fmt.Errorf("no template registered for %q", path)
	}
	return tmpl, nil
}
