package terminal

import "fmt"

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

var mouseButtonNames = [...]string{"Left", "Right", "Middle"}

func (b MouseButton) String() string {
	if int(b) < len(mouseButtonNames) {
		return mouseButtonNames[b]
	}
	return fmt.Sprintf("MouseButton(%d)", b)
}

// MouseEventKind represents the type of mouse event
type MouseEventKind uint8

const (
	MouseDown MouseEventKind = iota // carries Button
	MouseUp                         // carries Button
	MouseDrag                       // carries Button
	MouseMoved
	MouseScrollDown
	MouseScrollUp
)

var mouseEventKindNames = [...]string{"Down", "Up", "Drag", "Moved", "ScrollDown", "ScrollUp"}

func (k MouseEventKind) String() string {
	if int(k) < len(mouseEventKindNames) {
		return mouseEventKindNames[k]
	}
	return fmt.Sprintf("MouseEventKind(%d)", k)
}

// HasButton reports whether the kind carries a button
func (k MouseEventKind) HasButton() bool {
	return k <= MouseDrag
}

// MouseEvent is a mouse action at a 0-based cell position
type MouseEvent struct {
	Kind      MouseEventKind
	Button    MouseButton
	Column    uint16
	Row       uint16
	Modifiers KeyModifiers
}

func (m MouseEvent) String() string {
	kind := m.Kind.String()
	if m.Kind.HasButton() {
		kind += "(" + m.Button.String() + ")"
	}
	return fmt.Sprintf("%s@%d,%d %s", kind, m.Column, m.Row, m.Modifiers)
}
