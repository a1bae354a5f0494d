package views

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultExtension is the template file extension finders use unless
// configured otherwise with WithExtension.
const DefaultExtension = ".tpl"

// ViewFinder locates the template for a view-model and view type.
//
// A ViewFinder proposes candidate paths; unless documented otherwise it
// does not check that they exist. FindTemplate returns an empty string
// when it has no candidate, which is not an error.
type ViewFinder interface {
	// FindTemplate returns the absolute path to the template that
	// should be used to render model as viewType, or "" if there is
	// none.
	FindTemplate(ctx context.Context, model any, viewType string) (string, error)

	// ListSearchPaths returns every path that FindTemplate considers
	// for model and viewType, in priority order, whether or not they
	// exist. It is used to build diagnostics when a view can't be
	// found.
	ListSearchPaths(ctx context.Context, model any, viewType string) ([]string, error)
}

// FinderOption configures a finder when it is constructed. Not every
// option applies to every finder; options that don't apply are ignored.
type FinderOption func(*finderConfig)

type finderConfig struct {
	namespace string
	strict    bool
	extension string
	fs        afero.Fs
}

func newFinderConfig(opts []FinderOption) finderConfig {
	cfg := finderConfig{
		extension: DefaultExtension,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.fs == nil {
		cfg.fs = afero.NewOsFs()
	}
	return cfg
}

// WithNamespace restricts a finder to view-models whose type ID starts
// with namespace followed by NamespaceSeparator. The namespace is removed
// from the type ID when building the template path.
//
// By default, view-models outside the namespace resolve to no template;
// combine with WithStrictNamespace to treat them as errors instead.
func WithNamespace(namespace string) FinderOption {
	return func(cfg *finderConfig) {
		cfg.namespace = strings.TrimSuffix(strings.TrimSpace(namespace), NamespaceSeparator)
	}
}

// WithStrictNamespace makes finders return ErrUnsupportedModel for
// view-models outside their namespace, instead of resolving them to no
// template.
func WithStrictNamespace() FinderOption {
	return func(cfg *finderConfig) {
		cfg.strict = true
	}
}

// WithExtension overrides DefaultExtension. A leading dot is added if
// missing.
func WithExtension(ext string) FinderOption {
	return func(cfg *finderConfig) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithFs sets the filesystem finders use to check whether candidate
// templates exist. The default is the operating system's filesystem.
func WithFs(fs afero.Fs) FinderOption {
	return func(cfg *finderConfig) {
		if fs != nil {
			cfg.fs = fs
		}
	}
}

// normalizeRoot strips trailing separators from root and appends exactly
// one.
func normalizeRoot(root string) string {
	return strings.TrimRight(root, "/"+string(filepath.Separator)) + string(filepath.Separator)
}

// templateFile builds the file name for a template: name, then the view
// type, then the extension. name uses NamespaceSeparator and is translated
// to the OS path separator.
func templateFile(name, viewType, ext string) string {
	return filepath.FromSlash(name) + "." + viewType + ext
}

// exists reports whether path exists on fs. Errors other than the file not
// existing are treated as the file not existing.
func exists(ctx context.Context, fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		logger(ctx, nil).DebugContext(ctx, "error checking template existence",
			"path", path, "error", err)
		return false
	}
	return ok
}
