package terminal

import (
	"bytes"
	"errors"
	"io"
)

// autoFlushThreshold bounds the staging buffer; queueing past it writes through
const autoFlushThreshold = 131072 // 128KB

// ErrNoDestination is returned when flushing an Output without a writer
var ErrNoDestination = errors.New("terminal: output has no destination")

// Output stages encoded commands and writes them to the destination on Flush.
// Not safe for concurrent use; callers own the single handle.
type Output struct {
	dst       io.Writer
	buf       bytes.Buffer
	colorMode ColorMode
}

// NewOutput creates a sink writing to dst with the given color capability
func NewOutput(dst io.Writer, mode ColorMode) *Output {
	o := &Output{dst: dst, colorMode: mode}
	o.buf.Grow(4096)
	return o
}

// ColorMode returns the color capability used to encode colors
func (o *Output) ColorMode() ColorMode {
	return o.colorMode
}

// Queue encodes cmd into the staging buffer. Nothing reaches the destination
// until Flush, unless the buffer grows past its threshold.
func (o *Output) Queue(cmd Command) error {
	cmd.encode(&o.buf, o.colorMode)
	if o.buf.Len() >= autoFlushThreshold {
		return o.Flush()
	}
	return nil
}

// Execute queues cmd and flushes
func (o *Output) Execute(cmd Command) error {
	if err := o.Queue(cmd); err != nil {
		return err
	}
	return o.Flush()
}

// Flush writes all staged bytes to the destination
func (o *Output) Flush() error {
	if o.buf.Len() == 0 {
		return nil
	}
	if o.dst == nil {
		return ErrNoDestination
	}
	_, err := o.dst.Write(o.buf.Bytes())
	// Staged bytes are dropped even on failure, never replayed
	o.buf.Reset()
	return err
}

// Pending returns the staged bytes not yet flushed
func (o *Output) Pending() []byte {
	return o.buf.Bytes()
}
