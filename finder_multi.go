package views

import (
	"context"

	"github.com/spf13/afero"
)

var _ ViewFinder = &MultiFinder{}

// MultiFinder stacks any number of ViewFinders and tries each of them in
// order, returning the first template that exists. Use it for themes and
// other override scenarios: Prepend a finder to let its templates take
// priority over everything already in the stack.
//
// MultiFinders can be nested. A MultiFinder is not safe to modify while
// it's being used to find templates.
type MultiFinder struct {
	finders []ViewFinder
	fs      afero.Fs
}

// NewMultiFinder returns a MultiFinder containing finders, in priority
// order. It accepts the WithFs option, which controls where template
// existence is checked.
func NewMultiFinder(finders []ViewFinder, opts ...FinderOption) *MultiFinder {
	cfg := newFinderConfig(opts)
	m := &MultiFinder{fs: cfg.fs}
	for _, finder := range finders {
		m.Append(finder)
	}
	return m
}

// Append adds finder to the stack with a lower priority than every finder
// already in it.
func (m *MultiFinder) Append(finder ViewFinder) {
	if finder == nil {
		return
	}
	m.finders = append(m.finders, finder)
}

// Prepend adds finder to the stack with a higher priority than every
// finder already in it.
func (m *MultiFinder) Prepend(finder ViewFinder) {
	if finder == nil {
		return
	}
	m.finders = append([]ViewFinder{finder}, m.finders...)
}

// Len returns the number of finders in the stack.
func (m *MultiFinder) Len() int {
	return len(m.finders)
}

// FindTemplate asks each finder in order for a template, returning the
// first one that exists, or "" if none do. An error from any finder stops
// the search.
func (m *MultiFinder) FindTemplate(ctx context.Context, model any, viewType string) (string, error) {
	for _, finder := range m.finders {
		path, err := finder.FindTemplate(ctx, model, viewType)
		if err != nil {
			return "", err
		}
		if path == "" {
			continue
		}
		if exists(ctx, m.fs, path) {
			return path, nil
		}
	}
	return "", nil
}

// ListSearchPaths concatenates the search paths of every finder in the
// stack, in order. Paths aren't checked for existence or deduplicated.
func (m *MultiFinder) ListSearchPaths(ctx context.Context, model any, viewType string) ([]string, error) {
	paths := []string{}
	for _, finder := range m.finders {
		found, err := finder.ListSearchPaths(ctx, model, viewType)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
