package views

import (
	"context"
	"fmt"
	"strings"
)

var _ ViewFinder = &SimpleFinder{}

// SimpleFinder maps view-model type IDs directly onto a root directory and
// assumes the template exists. A view-model with type ID "app/pages/Home"
// and view type "view" resolves to "<root>/app/pages/Home.view.tpl", or,
// with WithNamespace("app"), to "<root>/pages/Home.view.tpl".
type SimpleFinder struct {
	root      string
	namespace string
	strict    bool
	extension string
}

// NewSimpleFinder returns a SimpleFinder rooted at root. It accepts the
// WithNamespace, WithStrictNamespace, and WithExtension options.
func NewSimpleFinder(root string, opts ...FinderOption) *SimpleFinder {
	cfg := newFinderConfig(opts)
	return &SimpleFinder{
		root:      normalizeRoot(root),
		namespace: cfg.namespace,
		strict:    cfg.strict,
		extension: cfg.extension,
	}
}

// NewNamespaceFinder returns a SimpleFinder that only supports view-models
// inside namespace, returning ErrUnsupportedModel for any others.
func NewNamespaceFinder(root, namespace string, opts ...FinderOption) *SimpleFinder {
	opts = append(opts, WithNamespace(namespace), WithStrictNamespace())
	return NewSimpleFinder(root, opts...)
}

// Root returns the normalized root directory, always ending in a path
// separator.
func (f *SimpleFinder) Root() string {
	return f.root
}

// Namespace returns the namespace the finder is restricted to, if any.
func (f *SimpleFinder) Namespace() string {
	return f.namespace
}

// FindTemplate returns the template path for model and viewType. It
// returns "" for view-models outside the finder's namespace, or
// ErrUnsupportedModel if the finder is strict.
func (f *SimpleFinder) FindTemplate(_ context.Context, model any, viewType string) (string, error) {
	name, ok, err := f.templateName(model)
	if err != nil || !ok {
		return "", err
	}
	return f.root + templateFile(name, viewType, f.extension), nil
}

// ListSearchPaths returns the single path FindTemplate would return, or
// nothing if the view-model is outside the finder's namespace.
func (f *SimpleFinder) ListSearchPaths(ctx context.Context, model any, viewType string) ([]string, error) {
	path, err := f.FindTemplate(ctx, model, viewType)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return []string{}, nil
	}
	return []string{path}, nil
}

// templateName returns the type ID of model with the namespace trimmed
// off. ok is false if the model is outside the namespace.
func (f *SimpleFinder) templateName(model any) (name string, ok bool, err error) {
	name = TypeID(model)
	if f.namespace == "" {
		return name, true, nil
	}
	prefix := f.namespace + NamespaceSeparator
	if !strings.HasPrefix(name, prefix) {
		if f.strict {
			return "", false, fmt.Errorf("%w: %s - expected namespace: %s", ErrUnsupportedModel, name, f.namespace)
		}
		return "", false, nil
	}
	return strings.TrimPrefix(name, prefix), true, nil
}
