package views

import (
	"context"
	"path/filepath"
)

var _ ViewFinder = &LocalFinder{}

// LocalFinder looks for templates next to the source file that declares
// the view-model's type:
//
//	pages/home.go          // declares type Home
//	pages/Home.view.tpl    // template for view type "view"
//
// See SourceLocation for how the source file is discovered.
type LocalFinder struct {
	extension string
}

// NewLocalFinder returns a LocalFinder. It accepts the WithExtension
// option.
func NewLocalFinder(opts ...FinderOption) *LocalFinder {
	cfg := newFinderConfig(opts)
	return &LocalFinder{extension: cfg.extension}
}

// FindTemplate returns the path to the template next to model's source
// file. It doesn't check whether the template exists.
func (f *LocalFinder) FindTemplate(_ context.Context, model any, viewType string) (string, error) {
	dir, name, err := SourceLocation(model)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+"."+viewType+f.extension), nil
}

// ListSearchPaths always returns exactly the path FindTemplate returns.
func (f *LocalFinder) ListSearchPaths(ctx context.Context, model any, viewType string) ([]string, error) {
	path, err := f.FindTemplate(ctx, model, viewType)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}
