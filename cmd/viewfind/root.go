package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"impractical.co/views"
)

// app holds the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	fs      afero.Fs
	cfgFile string
	cfg     views.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithFs(afero.NewOsFs())
}

func newRootCmdWithFs(fs afero.Fs) *cobra.Command {
	a := &app{v: viper.New(), fs: fs}

	root := &cobra.Command{
		Use:           "viewfind",
		Short:         "Inspect and render views",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./viewfind.yaml if present)")
	root.PersistentFlags().StringSlice("root", nil,
		"template root directory, in priority order; used when the config has no layers")
	root.PersistentFlags().String("namespace", "",
		"namespace for --root layers")
	root.PersistentFlags().String("extension", "",
		"template file extension (default \".tpl\")")
	root.PersistentFlags().StringP("type", "t", "",
		"view type (default: the configured default type)")
	root.PersistentFlags().Bool("debug", false,
		"log resolution details to stderr")

	_ = a.v.BindPFlag("roots", root.PersistentFlags().Lookup("root"))
	_ = a.v.BindPFlag("namespace", root.PersistentFlags().Lookup("namespace"))
	_ = a.v.BindPFlag("extension", root.PersistentFlags().Lookup("extension"))
	_ = a.v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))

	root.AddCommand(newPathsCmd(a), newResolveCmd(a), newRenderCmd(a))
	return root
}

func (a *app) loadConfig() error {
	a.v.SetFs(a.fs)
	a.v.SetEnvPrefix("VIEWFIND")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()
	a.v.SetDefault("default_type", views.DefaultViewType)
	a.v.SetDefault("extension", views.DefaultExtension)

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("viewfind")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if len(a.cfg.Layers) == 0 {
		if roots := a.v.GetStringSlice("roots"); len(roots) > 0 {
			a.cfg.Layers = []views.LayerConfig{{
				Kind:      views.LayerDefault,
				Roots:     roots,
				Namespace: a.v.GetString("namespace"),
			}}
		}
	}

	level := slog.LevelInfo
	if a.v.GetBool("debug") {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return a.cfg.Validate()
}

// finder builds the finder stack from the loaded config.
func (a *app) finder() (*views.MultiFinder, error) {
	return a.cfg.Finder(a.fs)
}

// viewType returns the --type flag, falling back to the configured
// default.
func (a *app) viewType(cmd *cobra.Command) string {
	if t, _ := cmd.Flags().GetString("type"); t != "" {
		return t
	}
	return a.cfg.DefaultType
}
