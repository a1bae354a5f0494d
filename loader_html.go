package views

import (
	"context"
	"fmt"
	"html/template"

	"github.com/spf13/afero"
)

var _ Loader = &HTMLLoader{}

// HTMLLoader loads templates from files using the html/template package.
// Each file is parsed on its own and executed with a RenderData value as
// its data, so templates can use {{ .Model }} and capture nested views with
// {{ .Capture .Model.Sidebar "" }}.
type HTMLLoader struct {
	fs    afero.Fs
	funcs template.FuncMap
}

// NewHTMLLoader returns an HTMLLoader reading from fs, which defaults to the
// operating system's filesystem. funcs are made available to every
// template.
func NewHTMLLoader(fs afero.Fs, funcs template.FuncMap) *HTMLLoader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &HTMLLoader{fs: fs, funcs: mergeFuncMaps(template.FuncMap{}, funcs)}
}

// Load reads and parses the template at path.
func (l *HTMLLoader) Load(_ context.Context, path string) (Template, error) {
	contents, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	tmpl, err := template.New(path).Funcs(l.funcs).Parse(string(contents))
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	return htmlTemplate{tmpl: tmpl}, nil
}

type htmlTemplate struct {
	tmpl *template.Template
}

func (h htmlTemplate) Render(ctx context.Context, model any, view *Service) error {
	return h.tmpl.Execute(view, RenderData{ctx: ctx, Model: model, View: view})
}

// RenderData is the data HTMLLoader templates are executed with.
type RenderData struct {
	ctx context.Context

	// Model is the view-model being rendered.
	Model any

	// View is the Service rendering the template.
	View *Service
}

// Capture renders model as viewType and returns the output, for embedding
// nested views. An empty viewType uses the Service's default.
func (d RenderData) Capture(model any, viewType string) (template.HTML, error) {
	out, err := d.View.Capture(d.ctx, model, viewType)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil // #nosec G203
}

// Render renders model as viewType straight to the output, in place.
// It always returns an empty string, so {{ .Render .Model.Footer "" }}
// adds nothing of its own.
func (d RenderData) Render(model any, viewType string) (template.HTML, error) {
	return "", d.View.Render(d.ctx, model, viewType)
}

// mergeFuncMaps flattens two FuncMaps into one, with the values in `extra`
// overriding the values in `in` if they have the same keys.
func mergeFuncMaps(in, extra template.FuncMap) template.FuncMap {
	res := template.FuncMap{}
	for k, v := range in {
		res[k] = v
	}
	for k, v := range extra {
		res[k] = v
	}
	return res
}
