package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// ErrInvalidConfig is returned when a Config can't be turned into a finder.
var ErrInvalidConfig = errors.New("invalid view configuration")

// Layer kinds understood by LayerConfig.
const (
	LayerDefault = "default"
	LayerSimple  = "simple"
	LayerLocal   = "local"
)

// Config describes a stack of finders declaratively, so it can be loaded
// from a configuration file. Layers are listed highest priority first.
type Config struct {
	DefaultType string        `mapstructure:"default_type" yaml:"default_type"`
	Extension   string        `mapstructure:"extension" yaml:"extension"`
	Layers      []LayerConfig `mapstructure:"layers" yaml:"layers"`
}

// LayerConfig describes a single finder in a Config.
type LayerConfig struct {
	// Kind is one of LayerDefault, LayerSimple, or LayerLocal. It
	// defaults to LayerDefault.
	Kind string `mapstructure:"kind" yaml:"kind"`

	// Roots lists template root directories, in priority order. A
	// LayerSimple layer takes exactly one root; LayerLocal takes none.
	Roots []string `mapstructure:"roots" yaml:"roots"`

	// Namespace restricts the layer to view-models in a namespace.
	Namespace string `mapstructure:"namespace" yaml:"namespace"`

	// Strict makes view-models outside Namespace an error instead of a
	// miss.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

func (l LayerConfig) kind() string {
	kind := strings.ToLower(strings.TrimSpace(l.Kind))
	if kind == "" {
		return LayerDefault
	}
	return kind
}

// Validate checks that every layer is well formed.
func (c Config) Validate() error {
	if len(c.Layers) == 0 {
		return fmt.Errorf("%w: at least one layer is required", ErrInvalidConfig)
	}
	for i, layer := range c.Layers {
		switch layer.kind() {
		case LayerDefault:
			if len(layer.Roots) == 0 {
				return fmt.Errorf("%w: layer %d: %s layer needs at least one root", ErrInvalidConfig, i, LayerDefault)
			}
		case LayerSimple:
			if len(layer.Roots) != 1 {
				return fmt.Errorf("%w: layer %d: %s layer needs exactly one root, got %d", ErrInvalidConfig, i, LayerSimple, len(layer.Roots))
			}
		case LayerLocal:
			if len(layer.Roots) > 0 || layer.Namespace != "" {
				return fmt.Errorf("%w: layer %d: %s layer takes no roots or namespace", ErrInvalidConfig, i, LayerLocal)
			}
		default:
			return fmt.Errorf("%w: layer %d: unknown kind %q", ErrInvalidConfig, i, layer.Kind)
		}
		if layer.Strict && layer.Namespace == "" {
			return fmt.Errorf("%w: layer %d: strict requires a namespace", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Finder builds the finder stack the Config describes, checking template
// existence on fs.
func (c Config) Finder(fs afero.Fs) (*MultiFinder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	common := []FinderOption{WithFs(fs)}
	if c.Extension != "" {
		common = append(common, WithExtension(c.Extension))
	}
	stack := NewMultiFinder(nil, common...)
	for _, layer := range c.Layers {
		opts := append([]FinderOption{}, common...)
		if layer.Namespace != "" {
			opts = append(opts, WithNamespace(layer.Namespace))
		}
		if layer.Strict {
			opts = append(opts, WithStrictNamespace())
		}
		switch layer.kind() {
		case LayerDefault:
			stack.Append(NewDefaultFinder(layer.Roots, opts...))
		case LayerSimple:
			stack.Append(NewSimpleFinder(layer.Roots[0], opts...))
		case LayerLocal:
			stack.Append(NewLocalFinder(opts...))
		}
	}
	return stack, nil
}

// Options returns the Service options the Config describes.
func (c Config) Options() []Option {
	var opts []Option
	if c.DefaultType != "" {
		opts = append(opts, WithDefaultType(c.DefaultType))
	}
	return opts
}
