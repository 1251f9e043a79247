// @focus: #sys { io } #input { types }
package terminal

import (
	"fmt"
	"strings"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventFocusGained EventType = iota
	EventFocusLost
	EventKey
	EventMouse
	EventPaste
	EventResize
)

var eventTypeNames = [...]string{"FocusGained", "FocusLost", "Key", "Mouse", "Paste", "Resize"}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// Event is one terminal input occurrence. Only the field matching Type is meaningful.
type Event struct {
	Type  EventType
	Key   KeyEvent   // EventKey
	Mouse MouseEvent // EventMouse
	Paste string     // EventPaste
	Cols  uint16     // EventResize
	Rows  uint16     // EventResize
}

func (e Event) String() string {
	switch e.Type {
	case EventKey:
		return "Key(" + e.Key.String() + ")"
	case EventMouse:
		return "Mouse(" + e.Mouse.String() + ")"
	case EventPaste:
		return fmt.Sprintf("Paste(%q)", e.Paste)
	case EventResize:
		return fmt.Sprintf("Resize(%d,%d)", e.Cols, e.Rows)
	}
	return e.Type.String()
}

// KeyEventFor builds a press event with no lock state
func KeyEventFor(code KeyCode, mods KeyModifiers) Event {
	return Event{Type: EventKey, Key: KeyEvent{Code: code, Modifiers: mods, Kind: KeyPress}}
}

// KeyModifiers is a bitmask of held modifier keys
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
	ModHyper
	ModMeta

	ModNone KeyModifiers = 0
)

var modifierNames = [...]string{"Shift", "Control", "Alt", "Super", "Hyper", "Meta"}

func (m KeyModifiers) String() string {
	if m == ModNone {
		return "None"
	}
	var parts []string
	for i, name := range modifierNames {
		if m&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// KeyEventKind distinguishes press, auto-repeat and release
type KeyEventKind uint8

const (
	KeyPress KeyEventKind = iota
	KeyRepeat
	KeyRelease
)

var keyEventKindNames = [...]string{"Press", "Repeat", "Release"}

func (k KeyEventKind) String() string {
	if int(k) < len(keyEventKindNames) {
		return keyEventKindNames[k]
	}
	return fmt.Sprintf("KeyEventKind(%d)", k)
}

// KeyEventState carries lock and keypad flags (kitty protocol only)
type KeyEventState uint8

const (
	StateKeypad KeyEventState = 1 << iota
	StateCapsLock
	StateNumLock

	StateNone KeyEventState = 0
)

// KeyEvent is a key press, repeat or release
type KeyEvent struct {
	Code      KeyCode
	Modifiers KeyModifiers
	Kind      KeyEventKind
	State     KeyEventState
}

func (k KeyEvent) String() string {
	s := k.Code.String()
	if k.Modifiers != ModNone {
		s = k.Modifiers.String() + "+" + s
	}
	if k.Kind != KeyPress {
		s += " " + k.Kind.String()
	}
	return s
}

// KeyCodeKind selects the key code variant
type KeyCodeKind uint8

const (
	KeyBackspace KeyCodeKind = iota
	KeyEnter
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyTab
	KeyBackTab
	KeyDelete
	KeyInsert
	KeyF
	KeyChar
	KeyNull
	KeyEsc
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
	KeyMenu
	KeyKeypadBegin
	KeyMedia
	KeyModifier

	keyCodeKindCount
)

// KeyCode identifies a key. Char, F, Media and Modifier carry a payload.
type KeyCode struct {
	Kind     KeyCodeKind
	Char     rune            // KeyChar
	F        uint8           // KeyF, 1-based
	Media    MediaKeyCode    // KeyMedia
	Modifier ModifierKeyCode // KeyModifier
}

// Key returns a payload-free key code
func Key(kind KeyCodeKind) KeyCode { return KeyCode{Kind: kind} }

// Char returns a character key code
func Char(r rune) KeyCode { return KeyCode{Kind: KeyChar, Char: r} }

// FKey returns a function key code
func FKey(n uint8) KeyCode { return KeyCode{Kind: KeyF, F: n} }

func (k KeyCode) String() string {
	switch k.Kind {
	case KeyChar:
		return fmt.Sprintf("Char(%q)", k.Char)
	case KeyF:
		return fmt.Sprintf("F%d", k.F)
	case KeyMedia:
		return "Media(" + k.Media.String() + ")"
	case KeyModifier:
		return "Modifier(" + k.Modifier.String() + ")"
	}
	return k.Kind.String()
}

// MediaKeyCode identifies a media key
type MediaKeyCode uint8

const (
	MediaPlay MediaKeyCode = iota
	MediaPause
	MediaPlayPause
	MediaReverse
	MediaStop
	MediaFastForward
	MediaRewind
	MediaTrackNext
	MediaTrackPrevious
	MediaRecord
	MediaLowerVolume
	MediaRaiseVolume
	MediaMuteVolume

	mediaKeyCodeCount
)

// ModifierKeyCode identifies a modifier key pressed on its own
type ModifierKeyCode uint8

const (
	ModKeyLeftShift ModifierKeyCode = iota
	ModKeyLeftControl
	ModKeyLeftAlt
	ModKeyLeftSuper
	ModKeyLeftHyper
	ModKeyLeftMeta
	ModKeyRightShift
	ModKeyRightControl
	ModKeyRightAlt
	ModKeyRightSuper
	ModKeyRightHyper
	ModKeyRightMeta
	ModKeyIsoLevel3Shift
	ModKeyIsoLevel5Shift

	modifierKeyCodeCount
)
