// @focus: #bridge { catalog }
package bridge

import (
	"fmt"

	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/terminal"
)

// ClassPrefix qualifies every foreign class name
const ClassPrefix = "termbridge/"

// Family names of the foreign unions, enums and standalone records
const (
	FamilyCommand        = "Command"
	FamilyColor          = "Color"
	FamilyAttribute      = "Attribute"
	FamilyCursorShape    = "CursorShape"
	FamilyClearType      = "ClearType"
	FamilyEvent          = "Event"
	FamilyKeyCode        = "KeyCode"
	FamilyKeyEventKind   = "KeyEventKind"
	FamilyMediaKeyCode   = "MediaKeyCode"
	FamilyMouseButton    = "MouseButton"
	FamilyMouseEventKind = "MouseEventKind"

	RecordKeyEvent      = "KeyEvent"
	RecordKeyModifiers  = "KeyModifiers"
	RecordKeyEventState = "KeyEventState"
	RecordMouseEvent    = "MouseEvent"
	RecordKeyboardFlags = "KeyboardEnhancementFlags"
	RecordXy            = "Xy"
	RecordDuration      = "Duration"
)

const optionalFamily = "Optional"

// VariantClass returns the qualified class name of a union member
func VariantClass(family, tag string) string {
	return ClassPrefix + family + "$" + tag
}

// EnumClass returns the qualified class name of an enum or standalone record
func EnumClass(name string) string {
	return ClassPrefix + name
}

func variant(family, tag string, fields ...host.Field) *host.Class {
	return &host.Class{Name: VariantClass(family, tag), Family: family, Tag: tag, Fields: fields}
}

func standalone(name string, fields ...host.Field) *host.Class {
	return &host.Class{Name: EnumClass(name), Family: name, Tag: name, Fields: fields}
}

func enum(family string, constants ...string) *host.Class {
	return &host.Class{Name: EnumClass(family), Family: family, Constants: constants}
}

func intField(name string) host.Field  { return host.Field{Name: name, Kind: host.KindInt} }
func longField(name string) host.Field { return host.Field{Name: name, Kind: host.KindLong} }

func objField(name, family string) host.Field {
	return host.Field{Name: name, Kind: host.KindObject, Type: family}
}

func optField(name, family string) host.Field {
	return host.Field{Name: name, Kind: host.KindObject, Type: optionalFamily, Elem: family}
}

func listField(name, family string) host.Field {
	return host.Field{Name: name, Kind: host.KindList, Elem: family}
}

func names[T fmt.Stringer](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}

// Classes returns the declarations of every foreign type the bridge reads or produces
func Classes() []*host.Class {
	var cls []*host.Class

	// Commands
	cls = append(cls,
		variant(FamilyCommand, "MoveTo", intField("x"), intField("y")),
		variant(FamilyCommand, "MoveToNextLine", intField("num_lines")),
		variant(FamilyCommand, "MoveToPreviousLine", intField("num_lines")),
		variant(FamilyCommand, "MoveToColumn", intField("column")),
		variant(FamilyCommand, "MoveToRow", intField("row")),
		variant(FamilyCommand, "MoveUp", intField("num_rows")),
		variant(FamilyCommand, "MoveRight", intField("num_columns")),
		variant(FamilyCommand, "MoveDown", intField("num_rows")),
		variant(FamilyCommand, "MoveLeft", intField("num_columns")),
		variant(FamilyCommand, "SavePosition"),
		variant(FamilyCommand, "RestorePosition"),
		variant(FamilyCommand, "Hide"),
		variant(FamilyCommand, "Show"),
		variant(FamilyCommand, "EnableBlinking"),
		variant(FamilyCommand, "DisableBlinking"),
		variant(FamilyCommand, "SetCursorShape", objField("cursor_shape", FamilyCursorShape)),
		variant(FamilyCommand, "EnableMouseCapture"),
		variant(FamilyCommand, "DisableMouseCapture"),
		variant(FamilyCommand, "PushKeyboardEnhancementFlags", objField("flags", RecordKeyboardFlags)),
		variant(FamilyCommand, "PopKeyboardEnhancementFlags"),
		variant(FamilyCommand, "EnableFocusChange"),
		variant(FamilyCommand, "DisableFocusChange"),
		variant(FamilyCommand, "EnableBracketedPaste"),
		variant(FamilyCommand, "DisableBracketedPaste"),
		variant(FamilyCommand, "SetForegroundColor", objField("color", FamilyColor)),
		variant(FamilyCommand, "SetBackgroundColor", objField("color", FamilyColor)),
		variant(FamilyCommand, "SetUnderlineColor", objField("color", FamilyColor)),
		variant(FamilyCommand, "SetColors", optField("foreground", FamilyColor), optField("background", FamilyColor)),
		variant(FamilyCommand, "SetAttribute", objField("attribute", FamilyAttribute)),
		variant(FamilyCommand, "SetAttributes", listField("attributes", FamilyAttribute)),
		variant(FamilyCommand, "SetStyle",
			optField("foreground_color", FamilyColor),
			optField("background_color", FamilyColor),
			optField("underline_color", FamilyColor),
			listField("attributes", FamilyAttribute)),
		variant(FamilyCommand, "Print", host.Field{Name: "text", Kind: host.KindString}),
		variant(FamilyCommand, "ResetColor"),
		variant(FamilyCommand, "DisableLineWrap"),
		variant(FamilyCommand, "EnableLineWrap"),
		variant(FamilyCommand, "EnterAlternateScreen"),
		variant(FamilyCommand, "LeaveAlternateScreen"),
		variant(FamilyCommand, "ScrollUp", intField("num_rows")),
		variant(FamilyCommand, "ScrollDown", intField("num_rows")),
		variant(FamilyCommand, "Clear", objField("clear_type", FamilyClearType)),
		variant(FamilyCommand, "SetSize", intField("columns"), intField("rows")),
	)

	// Colors: named variants carry no payload
	for k := terminal.ColorReset; k < terminal.ColorRgb; k++ {
		cls = append(cls, variant(FamilyColor, k.String()))
	}
	cls = append(cls,
		variant(FamilyColor, "Rgb", intField("r"), intField("g"), intField("b")),
		variant(FamilyColor, "AnsiValue", intField("color")),
	)

	attrs := make([]string, terminal.AttributeCount)
	for i := range attrs {
		attrs[i] = terminal.Attribute(i).String()
	}
	cls = append(cls,
		enum(FamilyAttribute, attrs...),
		enum(FamilyCursorShape, names(cursorShapes[:])...),
		enum(FamilyClearType, names(clearTypes[:])...),
		enum(FamilyMouseButton, "Left", "Right", "Middle"),
		enum(FamilyKeyEventKind, "Press", "Repeat", "Release"),
		enum(FamilyMediaKeyCode, terminal.MediaKeyCodeNames()...),
	)

	// Events
	cls = append(cls,
		variant(FamilyEvent, "FocusGained"),
		variant(FamilyEvent, "FocusLost"),
		variant(FamilyEvent, "Key", objField("keyEvent", RecordKeyEvent)),
		variant(FamilyEvent, "Mouse", objField("mouseEvent", RecordMouseEvent)),
		variant(FamilyEvent, "Paste", host.Field{Name: "string", Kind: host.KindString}),
		variant(FamilyEvent, "Resize", intField("columns"), intField("rows")),
	)

	for k := terminal.KeyCodeKind(0); ; k++ {
		name := k.String()
		kind, ok := terminal.KeyCodeKindByName(name)
		if !ok || kind != k {
			break
		}
		switch k {
		case terminal.KeyF:
			cls = append(cls, variant(FamilyKeyCode, name, intField("num")))
		case terminal.KeyChar:
			cls = append(cls, variant(FamilyKeyCode, name, host.Field{Name: "c", Kind: host.KindChar}))
		case terminal.KeyMedia:
			cls = append(cls, variant(FamilyKeyCode, name, objField("mediaKeyCode", FamilyMediaKeyCode)))
		default:
			// Modifier included: the modifier key identity is not carried across
			cls = append(cls, variant(FamilyKeyCode, name))
		}
	}

	for _, kind := range []string{"Down", "Up", "Drag"} {
		cls = append(cls, variant(FamilyMouseEventKind, kind, objField("mouseButton", FamilyMouseButton)))
	}
	cls = append(cls,
		variant(FamilyMouseEventKind, "Moved"),
		variant(FamilyMouseEventKind, "ScrollDown"),
		variant(FamilyMouseEventKind, "ScrollUp"),

		standalone(RecordKeyEvent,
			objField("code", FamilyKeyCode),
			objField("modifiers", RecordKeyModifiers),
			objField("kind", FamilyKeyEventKind),
			objField("state", RecordKeyEventState)),
		standalone(RecordKeyModifiers, intField("bits")),
		standalone(RecordKeyEventState, intField("bits")),
		standalone(RecordMouseEvent,
			objField("kind", FamilyMouseEventKind),
			intField("column"),
			intField("row"),
			objField("modifiers", RecordKeyModifiers)),
		standalone(RecordKeyboardFlags, intField("bits")),
		standalone(RecordXy, intField("x"), intField("y")),
		standalone(RecordDuration, longField("secs"), intField("nanos")),
	)
	return cls
}

// NewCatalog indexes Classes
func NewCatalog() (*host.Catalog, error) {
	return host.NewCatalog(Classes()...)
}

// NewRuntime returns an in-process host runtime over the bridge catalog
func NewRuntime() (*host.Runtime, error) {
	cat, err := NewCatalog()
	if err != nil {
		return nil, err
	}
	return host.NewRuntime(cat), nil
}
