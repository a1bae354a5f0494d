package views

import (
	"context"
	"fmt"
	"log/slog"

	gocache "github.com/patrickmn/go-cache"
)

// renderCache memoizes template paths by view-model type and view type,
// and loaded Templates by path. Entries never expire: templates are
// assumed not to be added or removed while a Service is running.
type renderCache struct {
	finder ViewFinder
	loader Loader

	// paths maps pathKey(typeID, viewType) to a template path. A stored
	// "" records that no template was found, so misses aren't retried.
	paths *gocache.Cache

	// templates maps a template path to its loaded Template.
	templates *gocache.Cache
}

func newRenderCache(finder ViewFinder, loader Loader) *renderCache {
	return &renderCache{
		finder:    finder,
		loader:    loader,
		paths:     gocache.New(gocache.NoExpiration, 0),
		templates: gocache.New(gocache.NoExpiration, 0),
	}
}

func pathKey(typeID, viewType string) string {
	return typeID + "\x00" + viewType
}

// path returns the template path for model and viewType, asking the finder
// only the first time a type ID and view type pair is seen. Errors from
// the finder aren't cached.
func (c *renderCache) path(ctx context.Context, log *slog.Logger, model any, viewType string) (string, error) {
	typeID := TypeID(model)
	key := pathKey(typeID, viewType)
	if cached, ok := c.paths.Get(key); ok {
		if path, ok := cached.(string); ok {
			log.DebugContext(ctx, "template path cache hit", "type_id", typeID, "view_type", viewType, "path", path)
			return path, nil
		}
	}
	path, err := c.finder.FindTemplate(ctx, model, viewType)
	if err != nil {
		return "", err
	}
	log.DebugContext(ctx, "resolved template path", "type_id", typeID, "view_type", viewType, "path", path)
	c.paths.Set(key, path, gocache.NoExpiration)
	return path, nil
}

// template returns the loaded Template for path, loading it the first
// time. Nothing is cached if loading fails.
func (c *renderCache) template(ctx context.Context, log *slog.Logger, path string) (Template, error) {
	if cached, ok := c.templates.Get(path); ok {
		if tmpl, ok := cached.(Template); ok {
			return tmpl, nil
		}
	}
	tmpl, err := c.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("error loading template %q: %w", path, err)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("error loading template %q: %w", path, ErrNotRenderable)
	}
	log.DebugContext(ctx, "loaded template", "path", path)
	c.templates.Set(path, tmpl, gocache.NoExpiration)
	return tmpl, nil
}
