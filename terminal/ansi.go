// @focus: #terminal { ansi }
package terminal

import (
	"bytes"
)

// Pre-allocated ANSI sequence fragments
var (
	csi     = []byte("\x1b[")
	csiRIS  = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0 = []byte("\x1b[0m")

	// Cursor control
	csiCursorHide    = []byte("\x1b[?25l")
	csiCursorShow    = []byte("\x1b[?25h")
	csiCursorSave    = []byte("\x1b7") // DECSC
	csiCursorRestore = []byte("\x1b8") // DECRC
	csiBlinkOn       = []byte("\x1b[?12h")
	csiBlinkOff      = []byte("\x1b[?12l")
	csiCursorReport  = []byte("\x1b[6n") // DSR, answered with CSI row;col R

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: Auto-Wrap Mode
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Mouse tracking: click, drag, any-motion, urxvt, SGR extended coordinates
	csiMouseClickOn   = []byte("\x1b[?1000h")
	csiMouseDragOn    = []byte("\x1b[?1002h")
	csiMouseMotionOn  = []byte("\x1b[?1003h")
	csiMouseURXVTOn   = []byte("\x1b[?1015h")
	csiMouseSGROn     = []byte("\x1b[?1006h")
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseDragOff   = []byte("\x1b[?1002l")
	csiMouseMotionOff = []byte("\x1b[?1003l")
	csiMouseURXVTOff  = []byte("\x1b[?1015l")
	csiMouseSGROff    = []byte("\x1b[?1006l")

	csiFocusOn      = []byte("\x1b[?1004h")
	csiFocusOff     = []byte("\x1b[?1004l")
	csiPasteOn      = []byte("\x1b[?2004h")
	csiPasteOff     = []byte("\x1b[?2004l")
	csiKeyboardPop  = []byte("\x1b[<1u")
	csiKeyboardPush = []byte("\x1b[>") // followed by flags u
)

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bytes.Buffer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [10]byte
	i := len(buf) - 1
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCSI1 writes CSI n <final>
func writeCSI1(w *bytes.Buffer, n int, final byte) {
	w.Write(csi)
	writeInt(w, n)
	w.WriteByte(final)
}

// writeCursorPos writes cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bytes.Buffer, col, row int) {
	w.Write(csi)
	writeInt(w, row+1)
	w.WriteByte(';')
	writeInt(w, col+1)
	w.WriteByte('H')
}
