package views

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var (
	slogCtxKey = ctxKey{}
)

// LoggingContext returns a copy of ctx carrying logger. A Service logs to
// the logger in the context passed to Render and Capture, falling back to
// the logger set with WithLogger, and discarding logs if neither is set.
func LoggingContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, slogCtxKey, logger)
}

func loggerFromContext(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(slogCtxKey).(*slog.Logger)
	if !ok || logger == nil {
		return nil, false
	}
	return logger, true
}

// logger returns the logger from ctx, or fallback, or a logger that
// discards everything.
func logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := loggerFromContext(ctx); ok {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return discard
}

var discard = slog.New(noopHandler{})

type noopHandler struct{}

func (noopHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (noopHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n noopHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n noopHandler) WithGroup(_ string) slog.Handler {
	return n
}
