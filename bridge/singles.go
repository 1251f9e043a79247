// @focus: #bridge { api }
package bridge

import (
	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/terminal"
)

// enqueue stages the command built by build as entry point name
func (b *Bridge) enqueue(env host.Env, name string, build func() (terminal.Command, error)) {
	call(b, env, name, func() (none, error) {
		cmd, err := build()
		if err != nil {
			return none{}, err
		}
		return none{}, IOError(b.sink.Queue(cmd))
	})
}

func (b *Bridge) enqueueFixed(env host.Env, name string, cmd terminal.Command) {
	b.enqueue(env, name, func() (terminal.Command, error) { return cmd, nil })
}

func (b *Bridge) enqueueCount(env host.Env, name, field string, n int32, build func(uint16) terminal.Command) {
	b.enqueue(env, name, func() (terminal.Command, error) {
		v, err := narrowU16(field, int64(n))
		if err != nil {
			return nil, err
		}
		return build(v), nil
	})
}

// --- Cursor ---

func (b *Bridge) EnqueueCursorMoveTo(env host.Env, x, y int32) {
	b.enqueue(env, "enqueueCursorMoveTo", func() (terminal.Command, error) {
		col, err := narrowU16("x", int64(x))
		if err != nil {
			return nil, err
		}
		row, err := narrowU16("y", int64(y))
		if err != nil {
			return nil, err
		}
		return terminal.MoveTo{Col: col, Row: row}, nil
	})
}

func (b *Bridge) EnqueueCursorMoveToNextLine(env host.Env, n int32) {
	b.enqueueCount(env, "enqueueCursorMoveToNextLine", "num_lines", n,
		func(v uint16) terminal.Command { return terminal.MoveToNextLine{N: v} })
}

func (b *Bridge) EnqueueCursorMoveToPreviousLine(env host.Env, n int32) {
	b.enqueueCount(env, "enqueueCursorMoveToPreviousLine", "num_lines", n,
		func(v uint16) terminal.Command { return terminal.MoveToPreviousLine{N: v} })
}

func (b *Bridge) EnqueueCursorMoveToColumn(env host.Env, col int32) {
	b.enqueueCount(env, "enqueueCursorMoveToColumn", "column", col,
		func(v uint16) terminal.Command { return terminal.MoveToColumn{Col: v} })
}

func (b *Bridge) EnqueueCursorMoveToRow(env host.Env, row int32) {
	b.enqueueCount(env, "enqueueCursorMoveToRow", "row", row,
		func(v uint16) terminal.Command { return terminal.MoveToRow{Row: v} })
}

func (b *Bridge) EnqueueCursorMoveUp(env host.Env, n int32) {
	b.enqueueCount(env, "enqueueCursorMoveUp", "num_rows", n,
		func(v uint16) terminal.Command { return terminal.MoveUp{N: v} })
}

func (b *Bridge) EnqueueCursorMoveDown(env host.Env, n int32) {
	b.enqueueCount(env, "enqueueCursorMoveDown", "num_rows", n,
		func(v uint16) terminal.Command { return terminal.MoveDown{N: v} })
}

func (b *Bridge) EnqueueCursorMoveLeft(env host.Env, n int32) {
	b.enqueueCount(env, "enqueueCursorMoveLeft", "num_columns", n,
		func(v uint16) terminal.Command { return terminal.MoveLeft{N: v} })
}

func (b *Bridge) EnqueueCursorMoveRight(env host.Env, n int32) {
	b.enqueueCount(env, "enqueueCursorMoveRight", "num_columns", n,
		func(v uint16) terminal.Command { return terminal.MoveRight{N: v} })
}

func (b *Bridge) EnqueueCursorSavePosition(env host.Env) {
	b.enqueueFixed(env, "enqueueCursorSavePosition", terminal.SavePosition{})
}

func (b *Bridge) EnqueueCursorRestorePosition(env host.Env) {
	b.enqueueFixed(env, "enqueueCursorRestorePosition", terminal.RestorePosition{})
}

func (b *Bridge) EnqueueCursorHide(env host.Env) {
	b.enqueueFixed(env, "enqueueCursorHide", terminal.HideCursor{})
}

func (b *Bridge) EnqueueCursorShow(env host.Env) {
	b.enqueueFixed(env, "enqueueCursorShow", terminal.ShowCursor{})
}

func (b *Bridge) EnqueueCursorEnableBlinking(env host.Env) {
	b.enqueueFixed(env, "enqueueCursorEnableBlinking", terminal.EnableBlinking{})
}

func (b *Bridge) EnqueueCursorDisableBlinking(env host.Env) {
	b.enqueueFixed(env, "enqueueCursorDisableBlinking", terminal.DisableBlinking{})
}

// EnqueueCursorSetCursorShape takes a CursorShape constant
func (b *Bridge) EnqueueCursorSetCursorShape(env host.Env, shape *host.Object) {
	b.enqueue(env, "enqueueCursorSetCursorShape", func() (terminal.Command, error) {
		s, err := DecodeCursorShape(env, shape)
		if err != nil {
			return nil, err
		}
		return terminal.SetCursorShape{Shape: s}, nil
	})
}

// --- Event modes ---

func (b *Bridge) EnqueueEventEnableMouseCapture(env host.Env) {
	b.enqueueFixed(env, "enqueueEventEnableMouseCapture", terminal.EnableMouseCapture{})
}

func (b *Bridge) EnqueueEventDisableMouseCapture(env host.Env) {
	b.enqueueFixed(env, "enqueueEventDisableMouseCapture", terminal.DisableMouseCapture{})
}

func (b *Bridge) EnqueueEventEnableFocusChange(env host.Env) {
	b.enqueueFixed(env, "enqueueEventEnableFocusChange", terminal.EnableFocusChange{})
}

func (b *Bridge) EnqueueEventDisableFocusChange(env host.Env) {
	b.enqueueFixed(env, "enqueueEventDisableFocusChange", terminal.DisableFocusChange{})
}

func (b *Bridge) EnqueueEventEnableBracketedPaste(env host.Env) {
	b.enqueueFixed(env, "enqueueEventEnableBracketedPaste", terminal.EnableBracketedPaste{})
}

func (b *Bridge) EnqueueEventDisableBracketedPaste(env host.Env) {
	b.enqueueFixed(env, "enqueueEventDisableBracketedPaste", terminal.DisableBracketedPaste{})
}

// EnqueueEventPushKeyboardEnhancementFlags takes a KeyboardEnhancementFlags record
func (b *Bridge) EnqueueEventPushKeyboardEnhancementFlags(env host.Env, flags *host.Object) {
	b.enqueue(env, "enqueueEventPushKeyboardEnhancementFlags", func() (terminal.Command, error) {
		f, err := DecodeKeyboardEnhancementFlags(env, flags)
		if err != nil {
			return nil, err
		}
		return terminal.PushKeyboardEnhancementFlags{Flags: f}, nil
	})
}

func (b *Bridge) EnqueueEventPopKeyboardEnhancementFlags(env host.Env) {
	b.enqueueFixed(env, "enqueueEventPopKeyboardEnhancementFlags", terminal.PopKeyboardEnhancementFlags{})
}

// --- Style ---

func (b *Bridge) enqueueColor(env host.Env, name string, color *host.Object, build func(terminal.Color) terminal.Command) {
	b.enqueue(env, name, func() (terminal.Command, error) {
		c, err := DecodeColor(env, color)
		if err != nil {
			return nil, err
		}
		return build(c), nil
	})
}

func (b *Bridge) EnqueueStyleSetForegroundColor(env host.Env, color *host.Object) {
	b.enqueueColor(env, "enqueueStyleSetForegroundColor", color,
		func(c terminal.Color) terminal.Command { return terminal.SetForegroundColor{Color: c} })
}

func (b *Bridge) EnqueueStyleSetBackgroundColor(env host.Env, color *host.Object) {
	b.enqueueColor(env, "enqueueStyleSetBackgroundColor", color,
		func(c terminal.Color) terminal.Command { return terminal.SetBackgroundColor{Color: c} })
}

func (b *Bridge) EnqueueStyleSetUnderlineColor(env host.Env, color *host.Object) {
	b.enqueueColor(env, "enqueueStyleSetUnderlineColor", color,
		func(c terminal.Color) terminal.Command { return terminal.SetUnderlineColor{Color: c} })
}

// EnqueueStyleSetColors takes two optional Colors
func (b *Bridge) EnqueueStyleSetColors(env host.Env, foreground, background *host.Object) {
	b.enqueue(env, "enqueueStyleSetColors", func() (terminal.Command, error) {
		fg, err := DecodeOptionalColor(env, foreground)
		if err != nil {
			return nil, err
		}
		bg, err := DecodeOptionalColor(env, background)
		if err != nil {
			return nil, err
		}
		return terminal.SetColors{Colors: terminal.Colors{Foreground: fg, Background: bg}}, nil
	})
}

func (b *Bridge) EnqueueStyleSetAttribute(env host.Env, attr *host.Object) {
	b.enqueue(env, "enqueueStyleSetAttribute", func() (terminal.Command, error) {
		a, err := DecodeAttribute(env, attr)
		if err != nil {
			return nil, err
		}
		return terminal.SetAttribute{Attr: a}, nil
	})
}

// EnqueueStyleSetAttributes takes a list of Attribute constants
func (b *Bridge) EnqueueStyleSetAttributes(env host.Env, attrs host.Value) {
	b.enqueue(env, "enqueueStyleSetAttributes", func() (terminal.Command, error) {
		set, err := DecodeAttributeList(env, attrs)
		if err != nil {
			return nil, err
		}
		return terminal.SetAttributes{Attrs: set}, nil
	})
}

// EnqueueStyleSetStyle takes three optional Colors and a list of Attribute constants
func (b *Bridge) EnqueueStyleSetStyle(env host.Env, foreground, background, underline *host.Object, attrs host.Value) {
	b.enqueue(env, "enqueueStyleSetStyle", func() (terminal.Command, error) {
		var style terminal.ContentStyle
		var err error
		if style.Foreground, err = DecodeOptionalColor(env, foreground); err != nil {
			return nil, err
		}
		if style.Background, err = DecodeOptionalColor(env, background); err != nil {
			return nil, err
		}
		if style.Underline, err = DecodeOptionalColor(env, underline); err != nil {
			return nil, err
		}
		if style.Attributes, err = DecodeAttributeList(env, attrs); err != nil {
			return nil, err
		}
		return terminal.SetStyle{Style: style}, nil
	})
}

func (b *Bridge) EnqueueStyleResetColor(env host.Env) {
	b.enqueueFixed(env, "enqueueStyleResetColor", terminal.ResetColor{})
}

// EnqueueStylePrint takes a foreign string
func (b *Bridge) EnqueueStylePrint(env host.Env, text host.Value) {
	b.enqueue(env, "enqueueStylePrint", func() (terminal.Command, error) {
		s, err := text.AsString()
		if err != nil {
			return nil, CallError(err)
		}
		return terminal.Print{Text: s}, nil
	})
}

// --- Terminal ---

func (b *Bridge) EnqueueTerminalDisableLineWrap(env host.Env) {
	b.enqueueFixed(env, "enqueueTerminalDisableLineWrap", terminal.DisableLineWrap{})
}

func (b *Bridge) EnqueueTerminalEnableLineWrap(env host.Env) {
	b.enqueueFixed(env, "enqueueTerminalEnableLineWrap", terminal.EnableLineWrap{})
}

func (b *Bridge) EnqueueTerminalEnterAlternateScreen(env host.Env) {
	b.enqueueFixed(env, "enqueueTerminalEnterAlternateScreen", terminal.EnterAlternateScreen{})
}

func (b *Bridge) EnqueueTerminalLeaveAlternateScreen(env host.Env) {
	b.enqueueFixed(env, "enqueueTerminalLeaveAlternateScreen", terminal.LeaveAlternateScreen{})
}

func (b *Bridge) EnqueueTerminalScrollUp(env host.Env, n int32) {
	b.enqueueCount(env, "enqueueTerminalScrollUp", "num_rows", n,
		func(v uint16) terminal.Command { return terminal.ScrollUp{N: v} })
}

func (b *Bridge) EnqueueTerminalScrollDown(env host.Env, n int32) {
	b.enqueueCount(env, "enqueueTerminalScrollDown", "num_rows", n,
		func(v uint16) terminal.Command { return terminal.ScrollDown{N: v} })
}

func (b *Bridge) EnqueueTerminalSetSize(env host.Env, cols, rows int32) {
	b.enqueue(env, "enqueueTerminalSetSize", func() (terminal.Command, error) {
		c, err := narrowU16("columns", int64(cols))
		if err != nil {
			return nil, err
		}
		r, err := narrowU16("rows", int64(rows))
		if err != nil {
			return nil, err
		}
		return terminal.SetSize{Cols: c, Rows: r}, nil
	})
}

// EnqueueTerminalClear takes a ClearType constant
func (b *Bridge) EnqueueTerminalClear(env host.Env, clearType *host.Object) {
	b.enqueue(env, "enqueueTerminalClear", func() (terminal.Command, error) {
		ct, err := DecodeClearType(env, clearType)
		if err != nil {
			return nil, err
		}
		return terminal.Clear{Type: ct}, nil
	})
}
