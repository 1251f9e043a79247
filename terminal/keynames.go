package terminal

import "fmt"

// keyCodeKindNames are the canonical variant names, also used on the wire
var keyCodeKindNames = [keyCodeKindCount]string{
	KeyBackspace:   "Backspace",
	KeyEnter:       "Enter",
	KeyLeft:        "Left",
	KeyRight:       "Right",
	KeyUp:          "Up",
	KeyDown:        "Down",
	KeyHome:        "Home",
	KeyEnd:         "End",
	KeyPageUp:      "PageUp",
	KeyPageDown:    "PageDown",
	KeyTab:         "Tab",
	KeyBackTab:     "BackTab",
	KeyDelete:      "Delete",
	KeyInsert:      "Insert",
	KeyF:           "F",
	KeyChar:        "Char",
	KeyNull:        "Null",
	KeyEsc:         "Esc",
	KeyCapsLock:    "CapsLock",
	KeyScrollLock:  "ScrollLock",
	KeyNumLock:     "NumLock",
	KeyPrintScreen: "PrintScreen",
	KeyPause:       "Pause",
	KeyMenu:        "Menu",
	KeyKeypadBegin: "KeypadBegin",
	KeyMedia:       "Media",
	KeyModifier:    "Modifier",
}

var mediaKeyCodeNames = [mediaKeyCodeCount]string{
	MediaPlay:          "Play",
	MediaPause:         "Pause",
	MediaPlayPause:     "PlayPause",
	MediaReverse:       "Reverse",
	MediaStop:          "Stop",
	MediaFastForward:   "FastForward",
	MediaRewind:        "Rewind",
	MediaTrackNext:     "TrackNext",
	MediaTrackPrevious: "TrackPrevious",
	MediaRecord:        "Record",
	MediaLowerVolume:   "LowerVolume",
	MediaRaiseVolume:   "RaiseVolume",
	MediaMuteVolume:    "MuteVolume",
}

var modifierKeyCodeNames = [modifierKeyCodeCount]string{
	ModKeyLeftShift:      "LeftShift",
	ModKeyLeftControl:    "LeftControl",
	ModKeyLeftAlt:        "LeftAlt",
	ModKeyLeftSuper:      "LeftSuper",
	ModKeyLeftHyper:      "LeftHyper",
	ModKeyLeftMeta:       "LeftMeta",
	ModKeyRightShift:     "RightShift",
	ModKeyRightControl:   "RightControl",
	ModKeyRightAlt:       "RightAlt",
	ModKeyRightSuper:     "RightSuper",
	ModKeyRightHyper:     "RightHyper",
	ModKeyRightMeta:      "RightMeta",
	ModKeyIsoLevel3Shift: "IsoLevel3Shift",
	ModKeyIsoLevel5Shift: "IsoLevel5Shift",
}

var nameToKeyCodeKind map[string]KeyCodeKind

func init() {
	nameToKeyCodeKind = make(map[string]KeyCodeKind, len(keyCodeKindNames))
	for k, name := range keyCodeKindNames {
		nameToKeyCodeKind[name] = KeyCodeKind(k)
	}
}

func (k KeyCodeKind) String() string {
	if k < keyCodeKindCount {
		return keyCodeKindNames[k]
	}
	return fmt.Sprintf("KeyCodeKind(%d)", k)
}

// KeyCodeKindByName returns the kind for a canonical name
func KeyCodeKindByName(name string) (KeyCodeKind, bool) {
	k, ok := nameToKeyCodeKind[name]
	return k, ok
}

func (m MediaKeyCode) String() string {
	if m < mediaKeyCodeCount {
		return mediaKeyCodeNames[m]
	}
	return fmt.Sprintf("MediaKeyCode(%d)", m)
}

func (m ModifierKeyCode) String() string {
	if m < modifierKeyCodeCount {
		return modifierKeyCodeNames[m]
	}
	return fmt.Sprintf("ModifierKeyCode(%d)", m)
}

// MediaKeyCodeNames lists media key names in declaration order
func MediaKeyCodeNames() []string {
	return mediaKeyCodeNames[:]
}

// ModifierKeyCodeNames lists modifier key names in declaration order
func ModifierKeyCodeNames() []string {
	return modifierKeyCodeNames[:]
}
