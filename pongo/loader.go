// Package pongo provides a views.Loader for Django-syntax templates, backed
// by pongo2.
package pongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/afero"

	"impractical.co/views"
)

// Option configures a Loader before construction.
type Option func(*config)

type config struct {
	fs      afero.Fs
	globals pongo2.Context
	policy  *bluemonday.Policy
}

// WithFs sets the filesystem templates are read from. The default is the
// operating system's filesystem.
func WithFs(fs afero.Fs) Option {
	return func(cfg *config) {
		if fs != nil {
			cfg.fs = fs
		}
	}
}

// WithGlobals seeds values available to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		for key, value := range data {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			cfg.globals[key] = value
		}
	}
}

// WithSanitizePolicy sets the bluemonday policy used by view.Sanitize. The
// default is bluemonday.UGCPolicy.
func WithSanitizePolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

var _ views.Loader = &Loader{}

// Loader loads pongo2 templates from files.
//
// Templates are executed with these variables:
//
//	model    the view-model being rendered
//	view     a View, for rendering nested view-models
//
// Nested view-models are rendered with {{ view.Capture(model.Sidebar, "") }}.
// Untrusted HTML can be cleaned with the "sanitize" filter, which uses
// bluemonday.UGCPolicy, or with {{ view.Sanitize(model.Body) }}, which uses
// the policy set with WithSanitizePolicy.
type Loader struct {
	fs     afero.Fs
	set    *pongo2.TemplateSet
	policy *bluemonday.Policy
}

var registerFilters sync.Once

// New returns a Loader configured with options.
func New(options ...Option) *Loader {
	cfg := &config{
		globals: pongo2.Context{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.fs == nil {
		cfg.fs = afero.NewOsFs()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	l := &Loader{
		fs:     cfg.fs,
		policy: cfg.policy,
	}
	l.set = pongo2.NewSet("views", pongo2.NewFSLoader(afero.NewIOFS(cfg.fs)))
	l.set.Globals.Update(cfg.globals)

	registerFilters.Do(func() {
		if !pongo2.FilterExists("sanitize") {
			_ = pongo2.RegisterFilter("sanitize", filterSanitize)
		}
	})
	return l
}

// Load reads and compiles the template at path.
func (l *Loader) Load(_ context.Context, path string) (views.Template, error) {
	if l == nil || l.set == nil {
		return nil, errors.New("pongo: loader is nil")
	}
	contents, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("pongo: read template %q: %w", path, err)
	}
	tmpl, err := l.set.FromBytes(contents)
	if err != nil {
		return nil, fmt.Errorf("pongo: parse template %q: %w", path, err)
	}
	return &template{tmpl: tmpl, policy: l.policy}, nil
}

type template struct {
	tmpl   *pongo2.Template
	policy *bluemonday.Policy
}

func (t *template) Render(ctx context.Context, model any, view *views.Service) error {
	calls := &callState{}
	data := pongo2.Context{
		"model": model,
		"view":  View{ctx: ctx, service: view, policy: t.policy, calls: calls},
	}
	if err := t.tmpl.ExecuteWriter(data, view); err != nil {
		if calls.err != nil {
			return &callError{err: err, cause: calls.err}
		}
		return fmt.Errorf("pongo: execute: %w", err)
	}
	return nil
}

// callState remembers the last error a View method failed with. pongo2
// only keeps the message of errors returned by functions.
type callState struct {
	err error
}

// callError is a pongo2 execution error caused by a failed View call.
type callError struct {
	err   error
	cause error
}

func (e *callError) Error() string {
	return "pongo: execute: " + e.err.Error()
}

func (e *callError) Unwrap() []error {
	return []error{e.err, e.cause}
}

// View is exposed to templates as "view".
type View struct {
	ctx     context.Context
	service *views.Service
	policy  *bluemonday.Policy
	calls   *callState
}

// Capture renders model as viewType and returns its output, marked safe so
// it isn't escaped again. An empty viewType uses the Service's default.
func (v View) Capture(model any, viewType string) (*pongo2.Value, error) {
	out, err := v.service.Capture(v.ctx, model, viewType)
	if err != nil {
		if v.calls != nil {
			v.calls.err = err
		}
		return nil, err
	}
	return pongo2.AsSafeValue(out), nil
}

// DefaultType returns the Service's default view type.
func (v View) DefaultType() string {
	return v.service.DefaultType()
}

// Sanitize cleans untrusted HTML with the Loader's policy.
func (v View) Sanitize(html string) *pongo2.Value {
	return pongo2.AsSafeValue(v.policy.Sanitize(html))
}

var defaultPolicy = bluemonday.UGCPolicy()

// filterSanitize cleans its input with bluemonday.UGCPolicy. Filters are
// registered globally, so it can't see a Loader's policy; use
// view.Sanitize for that.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(defaultPolicy.Sanitize(in.String())), nil
}
