package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultViewType is the view type used when none is given to Render or
// Capture, unless the Service is configured with WithDefaultType.
const DefaultViewType = "view"

const tracerName = "impractical.co/views"

// MissingViewFunc is called by Render when no template can be found for a
// view-model. Its return value is returned from Render.
type MissingViewFunc func(ctx context.Context, view *Service, model any, viewType string) error

// Service renders view-models using the templates its ViewFinder locates,
// and provides a nested output capture facility for templates.
//
// A Service caches template paths and loaded templates for its whole
// lifetime, and keeps track of captures in progress. It must not be used
// by more than one goroutine at a time; give each goroutine that renders
// its own Service, or serialize access to a shared one.
type Service struct {
	finder        ViewFinder
	loader        Loader
	sink          Sink
	defaultType   string
	onMissingView MissingViewFunc
	logger        *slog.Logger
	tracer        trace.Tracer

	cache    *renderCache
	captures []*string
}

var _ io.Writer = &Service{}

// New returns a Service that locates templates with finder. A nil finder
// is replaced by an empty MultiFinder, which finds nothing.
func New(finder ViewFinder, opts ...Option) *Service {
	if finder == nil {
		finder = NewMultiFinder(nil)
	}
	s := &Service{
		finder:        finder,
		defaultType:   DefaultViewType,
		onMissingView: NotFound,
		tracer:        otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.loader == nil {
		s.loader = NewHTMLLoader(nil, nil)
	}
	if s.sink == nil {
		s.sink = NewOutput(os.Stdout)
	}
	s.cache = newRenderCache(finder, s.loader)
	return s
}

// Finder returns the ViewFinder the Service locates templates with.
func (s *Service) Finder() ViewFinder {
	return s.finder
}

// DefaultType returns the view type used when none is specified.
func (s *Service) DefaultType() string {
	return s.defaultType
}

// Write writes p to the ambient output, or to the innermost capture in
// progress.
func (s *Service) Write(p []byte) (int, error) {
	return s.sink.Write(p)
}

// Print writes the default formatting of args to the ambient output.
func (s *Service) Print(args ...any) error {
	_, err := fmt.Fprint(s.sink, args...)
	return err
}

// Printf writes formatted output to the ambient output.
func (s *Service) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(s.sink, format, args...)
	return err
}

// Render locates the template for model and viewType and renders it to the
// ambient output. An empty viewType uses the Service's default type.
//
// If no template can be found, the Service's MissingViewFunc decides what
// Render returns; by default that's a *ViewNotFoundError.
//
// Render checks that the template left the capture stack and the ambient
// output as it found them. If it didn't, Render discards whatever the
// template left open and returns a *TemplateError wrapping
// ErrUnbalancedCapture or ErrOutputLevelMismatch. The same cleanup happens
// when the template returns an error or panics.
func (s *Service) Render(ctx context.Context, model any, viewType string) (err error) {
	if viewType == "" {
		viewType = s.defaultType
	}
	log := logger(ctx, s.logger)

	ctx, span := s.tracer.Start(ctx, "views.Render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("views.type_id", TypeID(model)),
			attribute.String("views.view_type", viewType),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	path, err := s.cache.path(ctx, log, model, viewType)
	if err != nil {
		return err
	}
	if path == "" {
		span.AddEvent("views.missing")
		return s.onMissingView(ctx, s, model, viewType)
	}
	span.SetAttributes(attribute.String("views.path", path))

	tmpl, err := s.cache.template(ctx, log, path)
	if err != nil {
		return err
	}
	return s.execute(ctx, log, path, tmpl, model)
}

func (s *Service) execute(ctx context.Context, log *slog.Logger, path string, tmpl Template, model any) error {
	outputDepth := s.sink.Depth()
	captureDepth := len(s.captures)

	defer func() {
		if r := recover(); r != nil {
			s.unwind(ctx, log, path, outputDepth, captureDepth)
			panic(r)
		}
	}()

	renderErr := tmpl.Render(ctx, model, s)

	var imbalance error
	switch {
	case len(s.captures) != captureDepth:
		imbalance = ErrUnbalancedCapture
	case s.sink.Depth() != outputDepth:
		imbalance = fmt.Errorf("%w: was %d, expected %d", ErrOutputLevelMismatch, s.sink.Depth(), outputDepth)
	}
	if renderErr == nil && imbalance == nil {
		return nil
	}
	s.unwind(ctx, log, path, outputDepth, captureDepth)

	if renderErr != nil {
		var tmplErr *TemplateError
		if errors.As(renderErr, &tmplErr) {
			return renderErr
		}
		return &TemplateError{Path: path, Err: renderErr}
	}
	return &TemplateError{Path: path, Err: imbalance}
}

// Capture renders model as viewType, like Render, but returns the output
// instead of writing it to the ambient output. Nothing is returned if
// rendering fails; the error is returned instead. The buffer Capture opens
// is closed even if rendering panics.
func (s *Service) Capture(ctx context.Context, model any, viewType string) (out string, err error) {
	s.sink.Open()
	depth := s.sink.Depth()

	defer func() {
		r := recover()
		for s.sink.Depth() > depth {
			if _, closeErr := s.sink.Close(); closeErr != nil {
				break
			}
		}
		var captured string
		if s.sink.Depth() == depth {
			var closeErr error
			captured, closeErr = s.sink.Close()
			if err == nil && closeErr != nil {
				err = closeErr
			}
		}
		if r != nil {
			panic(r)
		}
		if err != nil {
			out = ""
			return
		}
		out = captured
	}()

	return "", s.Render(ctx, model, viewType)
}

// NotFound is the default MissingViewFunc. It returns a *ViewNotFoundError
// listing every path the Service's finder considered.
func NotFound(ctx context.Context, view *Service, model any, viewType string) error {
	paths, err := view.Finder().ListSearchPaths(ctx, model, viewType)
	if err != nil {
		return fmt.Errorf("error listing search paths for %s: %w", TypeID(model), err)
	}
	return &ViewNotFoundError{
		TypeID:      TypeID(model),
		ViewType:    viewType,
		SearchPaths: paths,
	}
}
