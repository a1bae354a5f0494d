package views

import (
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Service when it is constructed. A Service's
// configuration can't be changed after New returns.
type Option func(*Service)

// WithDefaultType sets the view type used when Render or Capture are called
// with an empty view type. The default is DefaultViewType.
func WithDefaultType(viewType string) Option {
	return func(s *Service) {
		if trimmed := strings.TrimSpace(viewType); trimmed != "" {
			s.defaultType = trimmed
		}
	}
}

// WithLoader sets the Loader used to turn template paths into Templates.
// The default is an HTMLLoader reading from the operating system's
// filesystem.
func WithLoader(loader Loader) Option {
	return func(s *Service) {
		if loader != nil {
			s.loader = loader
		}
	}
}

// WithSink sets the ambient output channel templates write to.
func WithSink(sink Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithOutput makes templates write to out, through a new Output. The
// default is os.Stdout.
func WithOutput(out io.Writer) Option {
	return func(s *Service) {
		s.sink = NewOutput(out)
	}
}

// WithMissingViewFunc overrides what happens when no template can be found
// for a view-model. Whatever fn returns is returned from Render, so a fn
// that returns nil turns missing views into empty output. The default is
// NotFound.
func WithMissingViewFunc(fn MissingViewFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.onMissingView = fn
		}
	}
}

// WithLogger sets the logger used when the context passed to Render has
// none. See LoggingContext.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracerProvider sets the OpenTelemetry TracerProvider used to trace
// renders. The default is the global TracerProvider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Service) {
		if provider != nil {
			s.tracer = provider.Tracer(tracerName)
		}
	}
}
