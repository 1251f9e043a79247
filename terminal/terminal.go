package terminal

import (
	"io"
	"os"
)

// Terminal bundles the backend with its output sink and input reader
type Terminal struct {
	backend Backend
	output  *Output
	reader  *Reader
}

// New creates a terminal over backend; output is staged and written to the backend on flush
func New(backend Backend, mode ColorMode) *Terminal {
	return &Terminal{
		backend: backend,
		output:  NewOutput(backend, mode),
		reader:  NewReader(backend),
	}
}

// NewStd creates a terminal over stdin and stdout
func NewStd(mode ColorMode) *Terminal {
	return New(NewStdBackend(), mode)
}

// Output returns the buffered command sink
func (t *Terminal) Output() *Output { return t.output }

// Input returns the ANSI input reader
func (t *Terminal) Input() *Reader { return t.reader }

// Backend returns the platform backend
func (t *Terminal) Backend() Backend { return t.backend }

func (t *Terminal) EnableRawMode() error  { return t.backend.EnableRawMode() }
func (t *Terminal) DisableRawMode() error { return t.backend.DisableRawMode() }

// Size returns the window size in cells
func (t *Terminal) Size() (cols, rows uint16, err error) {
	return t.backend.Size()
}

// CursorPosition queries the 0-based cursor location, entering raw mode for
// the duration of the query when needed
func (t *Terminal) CursorPosition() (col, row uint16, err error) {
	if !t.backend.IsRawMode() {
		if err := t.backend.EnableRawMode(); err != nil {
			return 0, 0, err
		}
		defer t.backend.DisableRawMode()
	}
	return t.reader.CursorPosition()
}

// Close restores cooked mode and releases signal handlers
func (t *Terminal) Close() error {
	return t.backend.Close()
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Close cannot be called normally
func EmergencyReset(w io.Writer) {
	// Disable input reporting modes a host may have left on
	w.Write(csiMouseSGROff)
	w.Write(csiMouseURXVTOff)
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiFocusOff)
	w.Write(csiPasteOff)
	w.Write(csiKeyboardPop)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
