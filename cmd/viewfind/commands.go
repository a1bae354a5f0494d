package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"impractical.co/views"
	"impractical.co/views/pongo"
)

// model is a view-model read from a YAML document. Its type ID comes from
// the document rather than from a Go type.
type model struct {
	id   string
	Data map[string]any
}

func (m model) ViewModelID() string {
	return m.id
}

type document struct {
	Type string         `yaml:"type"`
	Data map[string]any `yaml:"data"`
}

func readModel(fs afero.Fs, path string) (model, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return model{}, fmt.Errorf("reading model %q: %w", path, err)
	}
	var doc document
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return model{}, fmt.Errorf("parsing model %q: %w", path, err)
	}
	if doc.Type == "" {
		return model{}, fmt.Errorf("model %q has no type", path)
	}
	return model{id: doc.Type, Data: doc.Data}, nil
}

func newPathsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "paths <type-id>",
		Short: "List every template path searched for a type ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := a.finder()
			if err != nil {
				return err
			}
			ctx := views.LoggingContext(cmd.Context(), a.logger)
			paths, err := finder.ListSearchPaths(ctx, model{id: args[0]}, a.viewType(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range paths {
				mark := " "
				if ok, _ := afero.Exists(a.fs, path); ok {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\n", mark, path)
			}
			return nil
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <type-id>",
		Short: "Print the template path a type ID resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := a.finder()
			if err != nil {
				return err
			}
			ctx := views.LoggingContext(cmd.Context(), a.logger)
			m := model{id: args[0]}
			viewType := a.viewType(cmd)
			path, err := finder.FindTemplate(ctx, m, viewType)
			if err != nil {
				return err
			}
			if path == "" {
				svc := views.New(finder, append(a.cfg.Options(), views.WithOutput(io.Discard))...)
				return views.NotFound(ctx, svc, m, viewType)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var engine string
	cmd := &cobra.Command{
		Use:   "render <model.yaml>",
		Short: "Render a view-model described by a YAML file",
		Long: `Render a view-model described by a YAML file:

    type: app/pages/Home
    data:
      title: Hello

Templates see the data as model.Data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := a.finder()
			if err != nil {
				return err
			}
			m, err := readModel(a.fs, args[0])
			if err != nil {
				return err
			}
			var loader views.Loader
			switch engine {
			case "pongo":
				loader = pongo.New(pongo.WithFs(a.fs))
			case "html":
				loader = views.NewHTMLLoader(a.fs, nil)
			default:
				return errors.New(`--engine must be "pongo" or "html"`)
			}
			opts := append(a.cfg.Options(),
				views.WithLoader(loader),
				views.WithOutput(cmd.OutOrStdout()),
				views.WithLogger(a.logger),
			)
			svc := views.New(finder, opts...)
			return svc.Render(cmd.Context(), m, a.viewType(cmd))
		},
	}
	cmd.Flags().StringVarP(&engine, "engine", "e", "pongo", `template engine, "pongo" or "html"`)
	return cmd
}
