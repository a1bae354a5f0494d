package views

import (
	"bytes"
	"io"
)

// Sink is the ambient output channel templates write to. Output can be
// buffered in nested layers: Open starts a new buffer that captures every
// write until the matching Close, which returns what was captured.
type Sink interface {
	io.Writer

	// Open starts buffering output in a new layer.
	Open()

	// Close stops buffering in the innermost layer and returns its
	// contents. It returns ErrNoBuffer if no layer is open.
	Close() (string, error)

	// Depth returns the number of open layers.
	Depth() int
}

var _ Sink = &Output{}

// Output is the default Sink. Writes go to the innermost open buffer, or
// straight to the underlying io.Writer when no buffer is open.
type Output struct {
	out     io.Writer
	buffers []*bytes.Buffer
}

// NewOutput returns an Output writing to out. A nil out discards anything
// written outside of a buffer.
func NewOutput(out io.Writer) *Output {
	if out == nil {
		out = io.Discard
	}
	return &Output{out: out}
}

func (o *Output) Write(p []byte) (int, error) {
	if n := len(o.buffers); n > 0 {
		return o.buffers[n-1].Write(p)
	}
	return o.out.Write(p)
}

// Open starts buffering output in a new layer.
func (o *Output) Open() {
	o.buffers = append(o.buffers, &bytes.Buffer{})
}

// Close discards the innermost buffer and returns its contents.
func (o *Output) Close() (string, error) {
	n := len(o.buffers)
	if n == 0 {
		return "", ErrNoBuffer
	}
	buf := o.buffers[n-1]
	o.buffers[n-1] = nil
	o.buffers = o.buffers[:n-1]
	return buf.String(), nil
}

// Depth returns the number of open buffers.
func (o *Output) Depth() int {
	return len(o.buffers)
}
