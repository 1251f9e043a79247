// @focus: #bridge { dispatch }
package bridge

import (
	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/terminal"
)

// Sink is the output handle commands are staged into
type Sink interface {
	Queue(cmd terminal.Command) error
	Flush() error
}

// commandDecoder turns one foreign command record into a terminal command
type commandDecoder func(env host.Env, obj *host.Object) (terminal.Command, error)

// commands is the closed table of command tags. A tag missing here is a
// contract violation between the two catalogues.
var commands = map[string]commandDecoder{
	"MoveTo": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		x, err := readU16(env, obj, "x")
		if err != nil {
			return nil, err
		}
		y, err := readU16(env, obj, "y")
		if err != nil {
			return nil, err
		}
		return terminal.MoveTo{Col: x, Row: y}, nil
	},
	"MoveToNextLine":     count("num_lines", func(n uint16) terminal.Command { return terminal.MoveToNextLine{N: n} }),
	"MoveToPreviousLine": count("num_lines", func(n uint16) terminal.Command { return terminal.MoveToPreviousLine{N: n} }),
	"MoveToColumn":       count("column", func(n uint16) terminal.Command { return terminal.MoveToColumn{Col: n} }),
	"MoveToRow":          count("row", func(n uint16) terminal.Command { return terminal.MoveToRow{Row: n} }),
	"MoveUp":             count("num_rows", func(n uint16) terminal.Command { return terminal.MoveUp{N: n} }),
	"MoveRight":          count("num_columns", func(n uint16) terminal.Command { return terminal.MoveRight{N: n} }),
	"MoveDown":           count("num_rows", func(n uint16) terminal.Command { return terminal.MoveDown{N: n} }),
	"MoveLeft":           count("num_columns", func(n uint16) terminal.Command { return terminal.MoveLeft{N: n} }),
	"SavePosition":       fixed(terminal.SavePosition{}),
	"RestorePosition":    fixed(terminal.RestorePosition{}),
	"Hide":               fixed(terminal.HideCursor{}),
	"Show":               fixed(terminal.ShowCursor{}),
	"EnableBlinking":     fixed(terminal.EnableBlinking{}),
	"DisableBlinking":    fixed(terminal.DisableBlinking{}),
	"SetCursorShape": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		o, err := readObject(env, obj, "cursor_shape")
		if err != nil {
			return nil, err
		}
		shape, err := DecodeCursorShape(env, o)
		if err != nil {
			return nil, err
		}
		return terminal.SetCursorShape{Shape: shape}, nil
	},

	"EnableMouseCapture":  fixed(terminal.EnableMouseCapture{}),
	"DisableMouseCapture": fixed(terminal.DisableMouseCapture{}),
	"PushKeyboardEnhancementFlags": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		o, err := readObject(env, obj, "flags")
		if err != nil {
			return nil, err
		}
		flags, err := DecodeKeyboardEnhancementFlags(env, o)
		if err != nil {
			return nil, err
		}
		return terminal.PushKeyboardEnhancementFlags{Flags: flags}, nil
	},
	"PopKeyboardEnhancementFlags": fixed(terminal.PopKeyboardEnhancementFlags{}),
	"EnableFocusChange":           fixed(terminal.EnableFocusChange{}),
	"DisableFocusChange":          fixed(terminal.DisableFocusChange{}),
	"EnableBracketedPaste":        fixed(terminal.EnableBracketedPaste{}),
	"DisableBracketedPaste":       fixed(terminal.DisableBracketedPaste{}),

	"SetForegroundColor": color(func(c terminal.Color) terminal.Command { return terminal.SetForegroundColor{Color: c} }),
	"SetBackgroundColor": color(func(c terminal.Color) terminal.Command { return terminal.SetBackgroundColor{Color: c} }),
	"SetUnderlineColor":  color(func(c terminal.Color) terminal.Command { return terminal.SetUnderlineColor{Color: c} }),
	"SetColors": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		fg, err := decodeOptionalColorField(env, obj, "foreground")
		if err != nil {
			return nil, err
		}
		bg, err := decodeOptionalColorField(env, obj, "background")
		if err != nil {
			return nil, err
		}
		return terminal.SetColors{Colors: terminal.Colors{Foreground: fg, Background: bg}}, nil
	},
	"SetAttribute": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		o, err := readObject(env, obj, "attribute")
		if err != nil {
			return nil, err
		}
		a, err := DecodeAttribute(env, o)
		if err != nil {
			return nil, err
		}
		return terminal.SetAttribute{Attr: a}, nil
	},
	"SetAttributes": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		set, err := DecodeAttributes(env, obj)
		if err != nil {
			return nil, err
		}
		return terminal.SetAttributes{Attrs: set}, nil
	},
	"SetStyle": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		var style terminal.ContentStyle
		var err error
		if style.Foreground, err = decodeOptionalColorField(env, obj, "foreground_color"); err != nil {
			return nil, err
		}
		if style.Background, err = decodeOptionalColorField(env, obj, "background_color"); err != nil {
			return nil, err
		}
		if style.Underline, err = decodeOptionalColorField(env, obj, "underline_color"); err != nil {
			return nil, err
		}
		if style.Attributes, err = DecodeAttributes(env, obj); err != nil {
			return nil, err
		}
		return terminal.SetStyle{Style: style}, nil
	},
	"Print": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		text, err := readString(env, obj, "text")
		if err != nil {
			return nil, err
		}
		return terminal.Print{Text: text}, nil
	},
	"ResetColor": fixed(terminal.ResetColor{}),

	"DisableLineWrap":      fixed(terminal.DisableLineWrap{}),
	"EnableLineWrap":       fixed(terminal.EnableLineWrap{}),
	"EnterAlternateScreen": fixed(terminal.EnterAlternateScreen{}),
	"LeaveAlternateScreen": fixed(terminal.LeaveAlternateScreen{}),
	"ScrollUp":             count("num_rows", func(n uint16) terminal.Command { return terminal.ScrollUp{N: n} }),
	"ScrollDown":           count("num_rows", func(n uint16) terminal.Command { return terminal.ScrollDown{N: n} }),
	"Clear": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		o, err := readObject(env, obj, "clear_type")
		if err != nil {
			return nil, err
		}
		ct, err := DecodeClearType(env, o)
		if err != nil {
			return nil, err
		}
		return terminal.Clear{Type: ct}, nil
	},
	"SetSize": func(env host.Env, obj *host.Object) (terminal.Command, error) {
		cols, err := readU16(env, obj, "columns")
		if err != nil {
			return nil, err
		}
		rows, err := readU16(env, obj, "rows")
		if err != nil {
			return nil, err
		}
		return terminal.SetSize{Cols: cols, Rows: rows}, nil
	},
}

func fixed(cmd terminal.Command) commandDecoder {
	return func(host.Env, *host.Object) (terminal.Command, error) { return cmd, nil }
}

func count(field string, build func(uint16) terminal.Command) commandDecoder {
	return func(env host.Env, obj *host.Object) (terminal.Command, error) {
		n, err := readU16(env, obj, field)
		if err != nil {
			return nil, err
		}
		return build(n), nil
	}
}

func color(build func(terminal.Color) terminal.Command) commandDecoder {
	return func(env host.Env, obj *host.Object) (terminal.Command, error) {
		o, err := readObject(env, obj, "color")
		if err != nil {
			return nil, err
		}
		c, err := DecodeColor(env, o)
		if err != nil {
			return nil, err
		}
		return build(c), nil
	}
}

// CommandTags lists every command tag the dispatcher recognizes
func CommandTags() []string {
	tags := make([]string, 0, len(commands))
	for tag := range commands {
		tags = append(tags, tag)
	}
	return tags
}

// DecodeCommand decodes one foreign command record without staging it.
// An unknown tag panics with *DecodeError.
func DecodeCommand(env host.Env, obj *host.Object) (terminal.Command, error) {
	tag, err := tagOf(env, obj)
	if err != nil {
		return nil, err
	}
	decode, ok := commands[tag]
	if !ok {
		unknownTag(FamilyCommand, tag)
	}
	return decode(env, obj)
}

// Dispatch decodes one foreign command and stages it in sink with exactly one Queue call
func Dispatch(env host.Env, sink Sink, obj *host.Object) error {
	cmd, err := DecodeCommand(env, obj)
	if err != nil {
		return err
	}
	return IOError(sink.Queue(cmd))
}

// DispatchAll dispatches every command of a foreign list in order and stops
// at the first failure. Commands staged before the failure stay staged.
func DispatchAll(env host.Env, sink Sink, list host.Value) error {
	elems, err := env.Elements(list)
	if err != nil {
		return CallError(err)
	}
	for _, e := range elems {
		obj, err := e.AsObject()
		if err != nil {
			return CallError(err)
		}
		if err := Dispatch(env, sink, obj); err != nil {
			return err
		}
	}
	return nil
}
