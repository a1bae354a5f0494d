package views

import (
	"context"
	"fmt"
	"log/slog"
)

// Begin starts capturing output into target. Everything written to the
// Service until the matching call to End is stored in *target instead of
// being written to the ambient output.
//
// Calls to Begin and End nest, and must be strictly balanced: End must be
// passed the same pointer as the most recent Begin that hasn't been ended
// yet. Begin returns ErrDuplicateCaptureTarget if target is already being
// captured to.
func (s *Service) Begin(target *string) error {
	if target == nil {
		return ErrNilCaptureTarget
	}
	for _, existing := range s.captures {
		if existing == target {
			return ErrDuplicateCaptureTarget
		}
	}
	s.captures = append(s.captures, target)
	s.sink.Open()
	return nil
}

// End stops capturing output into target and stores what was captured in
// *target.
//
// It returns ErrEmptyCaptureStack if nothing is being captured, and
// ErrMismatchedEnd, leaving every capture in progress, if target isn't the
// innermost capture.
func (s *Service) End(target *string) error {
	if target == nil {
		return ErrNilCaptureTarget
	}
	n := len(s.captures)
	if n == 0 {
		return ErrEmptyCaptureStack
	}
	if s.captures[n-1] != target {
		return ErrMismatchedEnd
	}
	out, err := s.sink.Close()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputLevelMismatch, err)
	}
	*target = out
	s.popCaptures(n - 1)
	return nil
}

// popCaptures drops every capture above depth.
func (s *Service) popCaptures(depth int) {
	for i := depth; i < len(s.captures); i++ {
		s.captures[i] = nil
	}
	s.captures = s.captures[:depth]
}

// unwind restores the capture stack and the sink to the depths they had
// before a template ran, discarding whatever the template left behind.
func (s *Service) unwind(ctx context.Context, log *slog.Logger, path string, outputDepth, captureDepth int) {
	if leaked := len(s.captures) - captureDepth; leaked > 0 {
		log.WarnContext(ctx, "discarding unfinished captures", "path", path, "count", leaked)
		s.popCaptures(captureDepth)
	}
	for s.sink.Depth() > outputDepth {
		if _, err := s.sink.Close(); err != nil {
			log.ErrorContext(ctx, "error closing leaked output buffer", "path", path, "error", err)
			return
		}
		log.WarnContext(ctx, "closed leaked output buffer", "path", path)
	}
}
