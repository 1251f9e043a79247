// @focus: #bridge { events }
package bridge

import (
	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/terminal"
)

// EncodeEvent allocates the foreign Event record for one input occurrence
func EncodeEvent(env host.Env, ev terminal.Event) (*host.Object, error) {
	switch ev.Type {
	case terminal.EventFocusGained, terminal.EventFocusLost:
		return newVariant(env, FamilyEvent, ev.Type.String())

	case terminal.EventKey:
		key, err := EncodeKeyEvent(env, ev.Key)
		if err != nil {
			return nil, err
		}
		return newVariant(env, FamilyEvent, "Key", host.Ref(key))

	case terminal.EventMouse:
		mouse, err := EncodeMouseEvent(env, ev.Mouse)
		if err != nil {
			return nil, err
		}
		return newVariant(env, FamilyEvent, "Mouse", host.Ref(mouse))

	case terminal.EventPaste:
		s, err := env.NewString(ev.Paste)
		if err != nil {
			return nil, CallError(err)
		}
		return newVariant(env, FamilyEvent, "Paste", s)

	case terminal.EventResize:
		return newVariant(env, FamilyEvent, "Resize", host.Int(int32(ev.Cols)), host.Int(int32(ev.Rows)))
	}
	unknownTag(FamilyEvent, ev.Type.String())
	return nil, nil
}

// EncodeKeyEvent allocates KeyEvent(code, modifiers, kind, state)
func EncodeKeyEvent(env host.Env, k terminal.KeyEvent) (*host.Object, error) {
	code, err := EncodeKeyCode(env, k.Code)
	if err != nil {
		return nil, err
	}
	mods, err := newStandalone(env, RecordKeyModifiers, host.Int(int32(k.Modifiers)))
	if err != nil {
		return nil, err
	}
	kind, err := enumConstant(env, FamilyKeyEventKind, k.Kind.String())
	if err != nil {
		return nil, err
	}
	state, err := newStandalone(env, RecordKeyEventState, host.Int(int32(k.State)))
	if err != nil {
		return nil, err
	}
	return newStandalone(env, RecordKeyEvent, host.Ref(code), host.Ref(mods), host.Ref(kind), host.Ref(state))
}

// EncodeKeyCode allocates the KeyCode variant. Characters outside the basic
// multilingual plane are narrowed to their low 16 bits, and Modifier keys
// lose the identity of the modifier.
func EncodeKeyCode(env host.Env, code terminal.KeyCode) (*host.Object, error) {
	switch code.Kind {
	case terminal.KeyChar:
		return newVariant(env, FamilyKeyCode, "Char", host.Char(uint16(code.Char)))
	case terminal.KeyF:
		return newVariant(env, FamilyKeyCode, "F", host.Int(int32(code.F)))
	case terminal.KeyMedia:
		media, err := enumConstant(env, FamilyMediaKeyCode, code.Media.String())
		if err != nil {
			return nil, err
		}
		return newVariant(env, FamilyKeyCode, "Media", host.Ref(media))
	}
	return newVariant(env, FamilyKeyCode, code.Kind.String())
}

// EncodeMouseEvent allocates MouseEvent(kind, column, row, modifiers)
func EncodeMouseEvent(env host.Env, m terminal.MouseEvent) (*host.Object, error) {
	var kind *host.Object
	var err error
	if m.Kind.HasButton() {
		button, berr := enumConstant(env, FamilyMouseButton, m.Button.String())
		if berr != nil {
			return nil, berr
		}
		kind, err = newVariant(env, FamilyMouseEventKind, m.Kind.String(), host.Ref(button))
	} else {
		kind, err = newVariant(env, FamilyMouseEventKind, m.Kind.String())
	}
	if err != nil {
		return nil, err
	}
	mods, err := newStandalone(env, RecordKeyModifiers, host.Int(int32(m.Modifiers)))
	if err != nil {
		return nil, err
	}
	return newStandalone(env, RecordMouseEvent,
		host.Ref(kind), host.Int(int32(m.Column)), host.Int(int32(m.Row)), host.Ref(mods))
}

// EncodeXy allocates an Xy pair
func EncodeXy(env host.Env, x, y uint16) (*host.Object, error) {
	return newStandalone(env, RecordXy, host.Int(int32(x)), host.Int(int32(y)))
}
