// @focus: #terminal { ansi, command }
package terminal

import (
	"bytes"
)

// Command is a unit of terminal output. The set is closed: every command is
// declared in this package and encodes itself into ANSI bytes.
type Command interface {
	encode(w *bytes.Buffer, mode ColorMode)
}

// Cursor

// MoveTo moves the cursor to a 0-based column and row
type MoveTo struct{ Col, Row uint16 }

// MoveToNextLine moves the cursor down N lines to column 0
type MoveToNextLine struct{ N uint16 }

// MoveToPreviousLine moves the cursor up N lines to column 0
type MoveToPreviousLine struct{ N uint16 }

// MoveToColumn moves the cursor to a 0-based column on the current row
type MoveToColumn struct{ Col uint16 }

// MoveToRow moves the cursor to a 0-based row on the current column
type MoveToRow struct{ Row uint16 }

type MoveUp struct{ N uint16 }
type MoveRight struct{ N uint16 }
type MoveDown struct{ N uint16 }
type MoveLeft struct{ N uint16 }

type SavePosition struct{}
type RestorePosition struct{}
type HideCursor struct{}
type ShowCursor struct{}
type EnableBlinking struct{}
type DisableBlinking struct{}

type SetCursorShape struct{ Shape CursorShape }

func (c MoveTo) encode(w *bytes.Buffer, _ ColorMode) { writeCursorPos(w, int(c.Col), int(c.Row)) }

func (c MoveToNextLine) encode(w *bytes.Buffer, _ ColorMode) {
	if c.N != 0 {
		writeCSI1(w, int(c.N), 'E')
	}
}

func (c MoveToPreviousLine) encode(w *bytes.Buffer, _ ColorMode) {
	if c.N != 0 {
		writeCSI1(w, int(c.N), 'F')
	}
}

func (c MoveToColumn) encode(w *bytes.Buffer, _ ColorMode) { writeCSI1(w, int(c.Col)+1, 'G') }
func (c MoveToRow) encode(w *bytes.Buffer, _ ColorMode)    { writeCSI1(w, int(c.Row)+1, 'd') }

func (c MoveUp) encode(w *bytes.Buffer, _ ColorMode) {
	if c.N != 0 {
		writeCSI1(w, int(c.N), 'A')
	}
}

func (c MoveRight) encode(w *bytes.Buffer, _ ColorMode) {
	if c.N != 0 {
		writeCSI1(w, int(c.N), 'C')
	}
}

func (c MoveDown) encode(w *bytes.Buffer, _ ColorMode) {
	if c.N != 0 {
		writeCSI1(w, int(c.N), 'B')
	}
}

func (c MoveLeft) encode(w *bytes.Buffer, _ ColorMode) {
	if c.N != 0 {
		writeCSI1(w, int(c.N), 'D')
	}
}

func (SavePosition) encode(w *bytes.Buffer, _ ColorMode)    { w.Write(csiCursorSave) }
func (RestorePosition) encode(w *bytes.Buffer, _ ColorMode) { w.Write(csiCursorRestore) }
func (HideCursor) encode(w *bytes.Buffer, _ ColorMode)      { w.Write(csiCursorHide) }
func (ShowCursor) encode(w *bytes.Buffer, _ ColorMode)      { w.Write(csiCursorShow) }
func (EnableBlinking) encode(w *bytes.Buffer, _ ColorMode)  { w.Write(csiBlinkOn) }
func (DisableBlinking) encode(w *bytes.Buffer, _ ColorMode) { w.Write(csiBlinkOff) }

// DECSCUSR steady shapes
var cursorShapeParam = [...]int{
	CursorUnderScore: 4,
	CursorLine:       6,
	CursorBlock:      2,
}

func (c SetCursorShape) encode(w *bytes.Buffer, _ ColorMode) {
	p := 2
	if int(c.Shape) < len(cursorShapeParam) {
		p = cursorShapeParam[c.Shape]
	}
	w.Write(csi)
	writeInt(w, p)
	w.WriteString(" q")
}

// Input modes

type EnableMouseCapture struct{}
type DisableMouseCapture struct{}

type PushKeyboardEnhancementFlags struct{ Flags KeyboardEnhancementFlags }
type PopKeyboardEnhancementFlags struct{}

type EnableFocusChange struct{}
type DisableFocusChange struct{}
type EnableBracketedPaste struct{}
type DisableBracketedPaste struct{}

func (EnableMouseCapture) encode(w *bytes.Buffer, _ ColorMode) {
	w.Write(csiMouseClickOn)
	w.Write(csiMouseDragOn)
	w.Write(csiMouseMotionOn)
	w.Write(csiMouseURXVTOn)
	w.Write(csiMouseSGROn)
}

func (DisableMouseCapture) encode(w *bytes.Buffer, _ ColorMode) {
	w.Write(csiMouseSGROff)
	w.Write(csiMouseURXVTOff)
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
}

func (c PushKeyboardEnhancementFlags) encode(w *bytes.Buffer, _ ColorMode) {
	w.Write(csiKeyboardPush)
	writeInt(w, int(c.Flags))
	w.WriteByte('u')
}

func (PopKeyboardEnhancementFlags) encode(w *bytes.Buffer, _ ColorMode) { w.Write(csiKeyboardPop) }
func (EnableFocusChange) encode(w *bytes.Buffer, _ ColorMode)           { w.Write(csiFocusOn) }
func (DisableFocusChange) encode(w *bytes.Buffer, _ ColorMode)          { w.Write(csiFocusOff) }
func (EnableBracketedPaste) encode(w *bytes.Buffer, _ ColorMode)        { w.Write(csiPasteOn) }
func (DisableBracketedPaste) encode(w *bytes.Buffer, _ ColorMode)       { w.Write(csiPasteOff) }

// Style

type SetForegroundColor struct{ Color Color }
type SetBackgroundColor struct{ Color Color }
type SetUnderlineColor struct{ Color Color }

// SetColors sets whichever of the pair is present in one sequence
type SetColors struct{ Colors Colors }

type SetAttribute struct{ Attr Attribute }
type SetAttributes struct{ Attrs Attributes }
type SetStyle struct{ Style ContentStyle }

// Print writes text verbatim
type Print struct{ Text string }

// ResetColor restores default colors and attributes
type ResetColor struct{}

func (c SetForegroundColor) encode(w *bytes.Buffer, mode ColorMode) {
	writeColor(w, layerFg, c.Color, mode)
}

func (c SetBackgroundColor) encode(w *bytes.Buffer, mode ColorMode) {
	writeColor(w, layerBg, c.Color, mode)
}

func (c SetUnderlineColor) encode(w *bytes.Buffer, mode ColorMode) {
	writeColor(w, layerUnderline, c.Color, mode)
}

func (c SetColors) encode(w *bytes.Buffer, mode ColorMode) {
	fg, bg := c.Colors.Foreground, c.Colors.Background
	if fg == nil && bg == nil {
		return
	}
	w.Write(csi)
	if fg != nil {
		writeColorParams(w, layerFg, *fg, mode)
		if bg != nil {
			w.WriteByte(';')
		}
	}
	if bg != nil {
		writeColorParams(w, layerBg, *bg, mode)
	}
	w.WriteByte('m')
}

func (c SetAttribute) encode(w *bytes.Buffer, _ ColorMode) {
	w.Write(csi)
	w.WriteString(c.Attr.SGR())
	w.WriteByte('m')
}

func (c SetAttributes) encode(w *bytes.Buffer, mode ColorMode) {
	for _, a := range c.Attrs.List() {
		SetAttribute{Attr: a}.encode(w, mode)
	}
}

func (c SetStyle) encode(w *bytes.Buffer, mode ColorMode) {
	if c.Style.Foreground != nil {
		writeColor(w, layerFg, *c.Style.Foreground, mode)
	}
	if c.Style.Background != nil {
		writeColor(w, layerBg, *c.Style.Background, mode)
	}
	if c.Style.Underline != nil {
		writeColor(w, layerUnderline, *c.Style.Underline, mode)
	}
	SetAttributes{Attrs: c.Style.Attributes}.encode(w, mode)
}

func (c Print) encode(w *bytes.Buffer, _ ColorMode)    { w.WriteString(c.Text) }
func (ResetColor) encode(w *bytes.Buffer, _ ColorMode) { w.Write(csiSGR0) }

// Screen

type DisableLineWrap struct{}
type EnableLineWrap struct{}
type EnterAlternateScreen struct{}
type LeaveAlternateScreen struct{}
type ScrollUp struct{ N uint16 }
type ScrollDown struct{ N uint16 }
type Clear struct{ Type ClearType }

// SetSize requests a window resize (xterm window manipulation)
type SetSize struct{ Cols, Rows uint16 }

func (DisableLineWrap) encode(w *bytes.Buffer, _ ColorMode)      { w.Write(csiAutoWrapOff) }
func (EnableLineWrap) encode(w *bytes.Buffer, _ ColorMode)       { w.Write(csiAutoWrapOn) }
func (EnterAlternateScreen) encode(w *bytes.Buffer, _ ColorMode) { w.Write(csiAltScreenEnter) }
func (LeaveAlternateScreen) encode(w *bytes.Buffer, _ ColorMode) { w.Write(csiAltScreenExit) }

func (c ScrollUp) encode(w *bytes.Buffer, _ ColorMode) {
	if c.N != 0 {
		writeCSI1(w, int(c.N), 'S')
	}
}

func (c ScrollDown) encode(w *bytes.Buffer, _ ColorMode) {
	if c.N != 0 {
		writeCSI1(w, int(c.N), 'T')
	}
}

var clearSequences = [...]string{
	ClearAll:            "\x1b[2J",
	ClearPurge:          "\x1b[3J",
	ClearFromCursorDown: "\x1b[J",
	ClearFromCursorUp:   "\x1b[1J",
	ClearCurrentLine:    "\x1b[2K",
	ClearUntilNewLine:   "\x1b[K",
}

func (c Clear) encode(w *bytes.Buffer, _ ColorMode) {
	if int(c.Type) < len(clearSequences) {
		w.WriteString(clearSequences[c.Type])
	}
}

func (c SetSize) encode(w *bytes.Buffer, _ ColorMode) {
	w.WriteString("\x1b[8;")
	writeInt(w, int(c.Rows))
	w.WriteByte(';')
	writeInt(w, int(c.Cols))
	w.WriteByte('t')
}

// Encode renders commands into their byte form without a destination
func Encode(mode ColorMode, cmds ...Command) []byte {
	var buf bytes.Buffer
	for _, c := range cmds {
		c.encode(&buf, mode)
	}
	return buf.Bytes()
}
