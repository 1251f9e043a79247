//go:build !unix

package terminal

import (
	"errors"
	"os"
	"time"
)

var errUnsupported = errors.New("terminal: platform not supported")

type stubBackend struct {
	out *os.File
}

// NewBackend creates a backend over the given tty files
func NewBackend(_, out *os.File) Backend {
	return &stubBackend{out: out}
}

// NewStdBackend creates a backend over stdin and stdout
func NewStdBackend() Backend {
	return NewBackend(os.Stdin, os.Stdout)
}

func (b *stubBackend) EnableRawMode() error                    { return errUnsupported }
func (b *stubBackend) DisableRawMode() error                   { return errUnsupported }
func (b *stubBackend) IsRawMode() bool                         { return false }
func (b *stubBackend) Size() (uint16, uint16, error)           { return 0, 0, errUnsupported }
func (b *stubBackend) Read([]byte, time.Duration) (int, error) { return 0, errUnsupported }
func (b *stubBackend) Write(p []byte) (int, error)             { return b.out.Write(p) }
func (b *stubBackend) Resized() bool                           { return false }
func (b *stubBackend) Close() error                            { return nil }
