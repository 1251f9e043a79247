package terminal

import (
	"errors"
	"time"
)

// ErrNotTerminal is returned when raw mode is requested on a non-tty
var ErrNotTerminal = errors.New("terminal: input is not a terminal")

// Backend abstracts platform-specific terminal operations
type Backend interface {
	// Raw mode toggle; the host pairs enable and disable calls
	EnableRawMode() error
	DisableRawMode() error
	IsRawMode() bool

	// Size returns the window size in cells
	Size() (cols, rows uint16, err error)

	// Read waits up to timeout for input and reads what is available.
	// Returns 0, nil on timeout. A negative timeout waits indefinitely.
	Read(p []byte, timeout time.Duration) (int, error)

	// Write writes raw bytes to the terminal, bypassing any Output staging
	Write(p []byte) (int, error)

	// Resized reports, without blocking, whether the window changed size since the last call
	Resized() bool

	Close() error
}
