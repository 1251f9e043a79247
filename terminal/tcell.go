package terminal

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// ErrScreenClosed is returned once the tcell screen has been finalized
var ErrScreenClosed = errors.New("terminal: screen closed")

// TcellSource is an EventSource backed by a tcell screen. The screen owns
// terminal input and delivers events on a channel drained by the caller.
type TcellSource struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	queue  []Event

	pasting bool
	paste   strings.Builder

	lastButtons tcell.ButtonMask
}

// NewTcellSource wraps an initialized screen, enabling mouse, paste and focus reporting
func NewTcellSource(screen tcell.Screen) *TcellSource {
	screen.EnableMouse()
	screen.EnablePaste()
	screen.EnableFocus()
	s := &TcellSource{
		screen: screen,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
	}
	go screen.ChannelEvents(s.events, s.quit)
	return s
}

// Poll implements EventSource
func (s *TcellSource) Poll(timeout time.Duration) (bool, error) {
	if len(s.queue) > 0 {
		return true, nil
	}

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	for len(s.queue) == 0 {
		if timeout == 0 {
			select {
			case ev, ok := <-s.events:
				if !ok {
					return false, ErrScreenClosed
				}
				s.convert(ev)
				continue
			default:
				return false, nil
			}
		}
		select {
		case ev, ok := <-s.events:
			if !ok {
				return false, ErrScreenClosed
			}
			s.convert(ev)
		case <-timer:
			return false, nil
		}
	}
	return true, nil
}

// Close stops event delivery and finalizes the screen
func (s *TcellSource) Close() {
	select {
	case <-s.quit:
		return
	default:
	}
	close(s.quit)
	s.screen.Fini()
}

// Read implements EventSource
func (s *TcellSource) Read() (Event, error) {
	for len(s.queue) == 0 {
		if _, err := s.Poll(-1); err != nil {
			return Event{}, err
		}
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, nil
}

// convert translates one tcell event, queueing zero or one events
func (s *TcellSource) convert(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if s.pasting {
			if e.Key() == tcell.KeyRune {
				s.paste.WriteRune(e.Rune())
			} else if e.Key() == tcell.KeyEnter {
				s.paste.WriteByte('\n')
			}
			return
		}
		if k, ok := convertTcellKey(e); ok {
			s.queue = append(s.queue, k)
		}
	case *tcell.EventPaste:
		if e.Start() {
			s.pasting = true
			s.paste.Reset()
			return
		}
		s.pasting = false
		s.queue = append(s.queue, Event{Type: EventPaste, Paste: s.paste.String()})
	case *tcell.EventMouse:
		if m, ok := s.convertMouse(e); ok {
			s.queue = append(s.queue, Event{Type: EventMouse, Mouse: m})
		}
	case *tcell.EventResize:
		w, h := e.Size()
		s.queue = append(s.queue, Event{Type: EventResize, Cols: uint16(w), Rows: uint16(h)})
	case *tcell.EventFocus:
		if e.Focused {
			s.queue = append(s.queue, Event{Type: EventFocusGained})
		} else {
			s.queue = append(s.queue, Event{Type: EventFocusLost})
		}
	}
}

func tcellModifiers(m tcell.ModMask) KeyModifiers {
	var mods KeyModifiers
	if m&tcell.ModShift != 0 {
		mods |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= ModControl
	}
	if m&tcell.ModAlt != 0 {
		mods |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= ModMeta
	}
	return mods
}

var tcellKeys = map[tcell.Key]KeyCode{
	tcell.KeyBackspace:  Key(KeyBackspace),
	tcell.KeyEnter:      Key(KeyEnter),
	tcell.KeyLF:         Key(KeyEnter),
	tcell.KeyDEL:        Key(KeyBackspace),
	tcell.KeyLeft:       Key(KeyLeft),
	tcell.KeyRight:      Key(KeyRight),
	tcell.KeyUp:         Key(KeyUp),
	tcell.KeyDown:       Key(KeyDown),
	tcell.KeyHome:       Key(KeyHome),
	tcell.KeyEnd:        Key(KeyEnd),
	tcell.KeyPgUp:       Key(KeyPageUp),
	tcell.KeyPgDn:       Key(KeyPageDown),
	tcell.KeyTab:        Key(KeyTab),
	tcell.KeyBacktab:    Key(KeyBackTab),
	tcell.KeyDelete:     Key(KeyDelete),
	tcell.KeyInsert:     Key(KeyInsert),
	tcell.KeyEscape:     Key(KeyEsc),
	tcell.KeyCapsLock:   Key(KeyCapsLock),
	tcell.KeyScrollLock: Key(KeyScrollLock),
	tcell.KeyNumLock:    Key(KeyNumLock),
	tcell.KeyPrint:      Key(KeyPrintScreen),
	tcell.KeyPause:      Key(KeyPause),
	tcell.KeyMenu:       Key(KeyMenu),
	tcell.KeyCenter:     Key(KeyKeypadBegin),
}

func convertTcellKey(e *tcell.EventKey) (Event, bool) {
	mods := tcellModifiers(e.Modifiers())
	k := e.Key()

	if k == tcell.KeyRune {
		r := e.Rune()
		if unicode.IsUpper(r) {
			mods |= ModShift
		}
		return KeyEventFor(Char(r), mods), true
	}
	if code, ok := tcellKeys[k]; ok {
		return KeyEventFor(code, mods), true
	}

	switch {
	case k >= tcell.KeyF1 && k <= tcell.KeyF64:
		return KeyEventFor(FKey(uint8(k-tcell.KeyF1+1)), mods), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return KeyEventFor(Char(rune('a'+k-tcell.KeyCtrlA)), mods|ModControl), true
	case k == tcell.KeyCtrlSpace || k == tcell.KeyNUL:
		return KeyEventFor(Char(' '), mods|ModControl), true
	case k >= tcell.KeySOH && k <= tcell.KeySUB:
		// Raw C0 codes, as produced for control characters
		return KeyEventFor(Char(rune('a'+k-tcell.KeySOH)), mods|ModControl), true
	case k >= tcell.KeyFS && k <= tcell.KeyUS:
		return KeyEventFor(Char(rune('4'+k-tcell.KeyFS)), mods|ModControl), true
	}
	return Event{}, false
}

// convertMouse derives press, release and drag from successive button masks
func (s *TcellSource) convertMouse(e *tcell.EventMouse) (MouseEvent, bool) {
	x, y := e.Position()
	btns := e.Buttons()
	me := MouseEvent{
		Column:    uint16(max(x, 0)),
		Row:       uint16(max(y, 0)),
		Modifiers: tcellModifiers(e.Modifiers()),
	}

	prev := s.lastButtons
	s.lastButtons = btns & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	switch {
	case btns&tcell.WheelUp != 0:
		me.Kind = MouseScrollUp
	case btns&tcell.WheelDown != 0:
		me.Kind = MouseScrollDown
	case btns&(tcell.Button1|tcell.Button2|tcell.Button3) != 0:
		me.Button = tcellButton(btns)
		me.Kind = MouseDown
		if prev&btns != 0 {
			me.Kind = MouseDrag
		}
	case prev != 0:
		me.Kind = MouseUp
		me.Button = tcellButton(prev)
	default:
		me.Kind = MouseMoved
	}
	return me, true
}

func tcellButton(m tcell.ButtonMask) MouseButton {
	switch {
	case m&tcell.Button1 != 0:
		return MouseLeft
	case m&tcell.Button2 != 0:
		return MouseRight
	}
	return MouseMiddle
}
