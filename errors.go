package views

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedModel is returned when a view-model can't be handled
	// by a finder, usually because its type ID falls outside the
	// namespace a strict finder was configured with, or because its
	// source location can't be discovered.
	ErrUnsupportedModel = errors.New("unsupported view-model")

	// ErrViewNotFound is returned when no finder produced a template path
	// that exists. The error returned by Render is a *ViewNotFoundError
	// wrapping this value, so use errors.Is to check for it.
	ErrViewNotFound = errors.New("view not found")

	// ErrNilCaptureTarget is returned when Begin or End is called with a
	// nil target.
	ErrNilCaptureTarget = errors.New("nil capture target")

	// ErrDuplicateCaptureTarget is returned when Begin is called with a
	// target that is already being captured to.
	ErrDuplicateCaptureTarget = errors.New("begin() with same target as prior begin()")

	// ErrEmptyCaptureStack is returned when End is called without a
	// matching call to Begin.
	ErrEmptyCaptureStack = errors.New("end() without begin()")

	// ErrMismatchedEnd is returned when End is called with a target that
	// isn't the most recent target passed to Begin. The capture stack is
	// left unchanged.
	ErrMismatchedEnd = errors.New("end() with mismatched begin()")

	// ErrUnbalancedCapture is returned when a template calls Begin
	// without a matching End, or End without a matching Begin.
	ErrUnbalancedCapture = errors.New("begin() without matching end()")

	// ErrOutputLevelMismatch is returned when a template opens or closes
	// output buffers on the Sink directly, without going through Begin
	// and End.
	ErrOutputLevelMismatch = errors.New("output buffer-level mismatch")

	// ErrNotRenderable is returned when a Loader yields no Template for a
	// path without reporting an error of its own.
	ErrNotRenderable = errors.New("template is not renderable")

	// ErrNoBuffer is returned when a Sink is asked to close a buffer but
	// has none open.
	ErrNoBuffer = errors.New("no open output buffer")
)

// ViewNotFoundError describes a view that couldn't be resolved, including
// every path that was considered while looking for it.
type ViewNotFoundError struct {
	// TypeID is the type ID of the view-model that was being rendered.
	TypeID string

	// ViewType is the view type that was requested.
	ViewType string

	// SearchPaths lists the candidate template paths, in the order the
	// finder considered them.
	SearchPaths []string
}

func (e *ViewNotFoundError) Error() string {
	msg := "no applicable path(s) found"
	if len(e.SearchPaths) > 0 {
		msg = "searched paths:\n  * " + strings.Join(e.SearchPaths, "\n  * ")
	}
	return fmt.Sprintf("no view of type %q found for model: %s - %s", e.ViewType, e.TypeID, msg)
}

func (e *ViewNotFoundError) Unwrap() error {
	return ErrViewNotFound
}

// TemplateError is returned when something goes wrong while executing the
// template at Path.
type TemplateError struct {
	Path string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s in file: %s", e.Err, e.Path)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
