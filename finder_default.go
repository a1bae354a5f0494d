package views

import "context"

var _ ViewFinder = &DefaultFinder{}

// DefaultFinder maps a namespace onto a list of root directories, in
// priority order, and resolves to the first template that exists under
// any of them. Unlike SimpleFinder, it only ever returns paths that exist.
type DefaultFinder struct {
	namespace string
	finders   *MultiFinder
}

// NewDefaultFinder returns a DefaultFinder that searches roots in order.
// The WithNamespace, WithStrictNamespace, and WithExtension options are
// applied to the SimpleFinder created for each root; WithFs controls where
// existence is checked.
func NewDefaultFinder(roots []string, opts ...FinderOption) *DefaultFinder {
	cfg := newFinderConfig(opts)
	finders := NewMultiFinder(nil, opts...)
	for _, root := range roots {
		finders.Append(NewSimpleFinder(root, opts...))
	}
	return &DefaultFinder{
		namespace: cfg.namespace,
		finders:   finders,
	}
}

// Namespace returns the namespace the finder is restricted to, if any.
func (f *DefaultFinder) Namespace() string {
	return f.namespace
}

// FindTemplate returns the first candidate template that exists, or "".
func (f *DefaultFinder) FindTemplate(ctx context.Context, model any, viewType string) (string, error) {
	return f.finders.FindTemplate(ctx, model, viewType)
}

// ListSearchPaths returns one candidate per root, whether or not it exists.
func (f *DefaultFinder) ListSearchPaths(ctx context.Context, model any, viewType string) ([]string, error) {
	return f.finders.ListSearchPaths(ctx, model, viewType)
}
