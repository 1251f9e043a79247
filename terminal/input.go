package terminal

import (
	"bytes"
	"errors"
	"time"
	"unicode"
	"unicode/utf8"
)

// EventSource delivers input events on the calling goroutine
type EventSource interface {
	// Poll reports whether an event is ready, waiting up to timeout.
	// A zero timeout never blocks; a negative timeout waits indefinitely.
	Poll(timeout time.Duration) (bool, error)
	// Read blocks until an event is available
	Read() (Event, error)
}

// ErrCursorPositionTimeout is returned when the terminal does not answer a position request
var ErrCursorPositionTimeout = errors.New("terminal: cursor position could not be read within a normal duration")

const (
	// escapeTimeout is the duration to wait after ESC to distinguish
	// standalone ESC from escape sequence start
	escapeTimeout = 50 * time.Millisecond

	// pollSlice bounds a single backend wait so resize signals are noticed
	pollSlice = 100 * time.Millisecond

	cursorPositionTimeout = 2 * time.Second

	// maxCSILen bounds a CSI sequence; longer input is discarded as garbage
	maxCSILen = 64
)

var (
	pasteStart = []byte("\x1b[200~")
	pasteEnd   = []byte("\x1b[201~")
)

// Reader parses raw terminal input into events. It runs entirely on the
// caller's goroutine: no background reader, no channel.
type Reader struct {
	backend Backend
	readBuf [1024]byte

	// Persistent buffer for stream assembly across reads
	buf      []byte
	bufSince time.Time // arrival of the oldest unparsed byte

	queue []Event

	positionPending bool
	positionReady   bool
	posCol, posRow  uint16
}

// NewReader creates a reader over the backend input
func NewReader(backend Backend) *Reader {
	return &Reader{
		backend: backend,
		buf:     make([]byte, 0, 256),
	}
}

// Poll implements EventSource
func (r *Reader) Poll(timeout time.Duration) (bool, error) {
	if len(r.queue) > 0 {
		return true, nil
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		r.checkResize()
		r.flushStale()
		if len(r.queue) > 0 {
			return true, nil
		}

		wait := pollSlice
		switch {
		case timeout == 0:
			wait = 0
		case timeout > 0:
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return false, nil
			}
			wait = min(wait, remaining)
		}
		if len(r.buf) > 0 && wait != 0 {
			wait = max(min(wait, escapeTimeout-time.Since(r.bufSince)), time.Millisecond)
		}

		n, err := r.backend.Read(r.readBuf[:], wait)
		if err != nil {
			return false, err
		}
		if n > 0 {
			r.feed(r.readBuf[:n])
			continue
		}
		if timeout == 0 {
			r.flushStale()
			return len(r.queue) > 0, nil
		}
	}
}

// Read implements EventSource
func (r *Reader) Read() (Event, error) {
	for len(r.queue) == 0 {
		if _, err := r.Poll(-1); err != nil {
			return Event{}, err
		}
	}
	ev := r.queue[0]
	r.queue = r.queue[1:]
	return ev, nil
}

// CursorPosition asks the terminal for the cursor location and waits for the
// report. Events arriving meanwhile stay queued. Requires raw mode.
func (r *Reader) CursorPosition() (col, row uint16, err error) {
	r.positionPending = true
	r.positionReady = false
	defer func() { r.positionPending = false }()

	if _, err := r.backend.Write(csiCursorReport); err != nil {
		return 0, 0, err
	}

	deadline := time.Now().Add(cursorPositionTimeout)
	for !r.positionReady {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, 0, ErrCursorPositionTimeout
		}
		n, err := r.backend.Read(r.readBuf[:], min(remaining, pollSlice))
		if err != nil {
			return 0, 0, err
		}
		if n > 0 {
			r.feed(r.readBuf[:n])
		}
	}
	return r.posCol, r.posRow, nil
}

// Feed parses bytes as if read from the terminal
func (r *Reader) Feed(data []byte) {
	r.feed(data)
}

func (r *Reader) checkResize() {
	if !r.backend.Resized() {
		return
	}
	cols, rows, err := r.backend.Size()
	if err != nil {
		return
	}
	r.queue = append(r.queue, Event{Type: EventResize, Cols: cols, Rows: rows})
}

func (r *Reader) feed(data []byte) {
	if len(r.buf) == 0 {
		r.bufSince = time.Now()
	}
	r.buf = append(r.buf, data...)
	r.parse(true)
}

// flushStale resolves a lone or truncated escape prefix that stopped growing
func (r *Reader) flushStale() {
	if len(r.buf) == 0 || time.Since(r.bufSince) < escapeTimeout {
		return
	}
	// Bracketed paste may legitimately span many reads
	if bytes.HasPrefix(r.buf, pasteStart) {
		return
	}
	r.parse(false)
}

// parse consumes as much of buf as possible. With more=false, incomplete
// sequences are resolved instead of waiting for further bytes.
func (r *Reader) parse(more bool) {
	i := 0
	for i < len(r.buf) {
		n, ev, ok := r.parseOne(r.buf[i:], more)
		if n == 0 {
			break // Incomplete, wait for more data
		}
		if ok {
			r.queue = append(r.queue, ev)
		}
		i += n
	}

	// Compact buffer
	if i >= len(r.buf) {
		r.buf = r.buf[:0]
		return
	}
	if i > 0 {
		copy(r.buf, r.buf[i:])
		r.buf = r.buf[:len(r.buf)-i]
		r.bufSince = time.Now()
	}
}

// parseOne parses a single event from the head of data.
// Returns bytes consumed (0 = incomplete) and whether ev is meaningful.
func (r *Reader) parseOne(data []byte, more bool) (int, Event, bool) {
	b := data[0]

	// Fast path: printable ASCII
	if b >= 0x20 && b < 0x7f {
		return 1, charEvent(rune(b), ModNone), true
	}

	if b == 0x1b {
		return r.parseEscape(data, more)
	}

	if b < 0x20 || b == 0x7f {
		return 1, parseControl(b), true
	}

	// UTF-8 multibyte
	if !utf8.FullRune(data) {
		if more {
			return 0, Event{}, false
		}
		return 1, Event{}, false
	}
	rn, size := utf8.DecodeRune(data)
	if rn == utf8.RuneError && size == 1 {
		return 1, Event{}, false
	}
	return size, charEvent(rn, ModNone), true
}

// charEvent reports uppercase letters with Shift, as typed
func charEvent(rn rune, mods KeyModifiers) Event {
	if unicode.IsUpper(rn) {
		mods |= ModShift
	}
	return KeyEventFor(Char(rn), mods)
}

// parseControl maps C0 control characters and DEL to keys
func parseControl(b byte) Event {
	switch b {
	case '\r', '\n':
		return KeyEventFor(Key(KeyEnter), ModNone)
	case '\t':
		return KeyEventFor(Key(KeyTab), ModNone)
	case 0x7f, 0x08:
		return KeyEventFor(Key(KeyBackspace), ModNone)
	case 0x1b:
		return KeyEventFor(Key(KeyEsc), ModNone)
	case 0x00:
		return KeyEventFor(Char(' '), ModControl)
	}
	if b >= 0x01 && b <= 0x1a {
		return KeyEventFor(Char(rune('a'+b-0x01)), ModControl)
	}
	// 0x1c-0x1f: Ctrl+4 through Ctrl+7
	return KeyEventFor(Char(rune('4'+b-0x1c)), ModControl)
}

// parseEscape parses input starting with ESC
func (r *Reader) parseEscape(data []byte, more bool) (int, Event, bool) {
	if len(data) < 2 {
		if more {
			return 0, Event{}, false
		}
		return 1, KeyEventFor(Key(KeyEsc), ModNone), true
	}

	switch data[1] {
	case '[':
		n, ev, ok := r.parseCSI(data)
		if n == 0 && !more {
			// Truncated sequence: the ESC stands alone
			return 1, KeyEventFor(Key(KeyEsc), ModNone), true
		}
		return n, ev, ok
	case 'O':
		if len(data) < 3 {
			if more {
				return 0, Event{}, false
			}
			return 1, KeyEventFor(Key(KeyEsc), ModNone), true
		}
		if key, ok := ss3Keys[data[2]]; ok {
			return 3, KeyEventFor(key, ModNone), true
		}
		// Unknown SS3 - consume to prevent garbage
		return 3, Event{}, false
	case 0x1b:
		return 2, KeyEventFor(Key(KeyEsc), ModAlt), true
	}

	// Alt + key
	n, ev, ok := r.parseOne(data[1:], more)
	if n == 0 {
		return 0, Event{}, false
	}
	if ok && ev.Type == EventKey {
		ev.Key.Modifiers |= ModAlt
	}
	return n + 1, ev, ok
}

// csiParams holds CSI parameters: groups split by ';', sub-parameters by ':'
type csiParams [][]int

func (p csiParams) get(group, sub, def int) int {
	if group < len(p) && sub < len(p[group]) && p[group][sub] >= 0 {
		return p[group][sub]
	}
	return def
}

// parseCSIParams parses "1;5:2" style parameter bytes; missing values are -1
func parseCSIParams(data []byte) (csiParams, bool) {
	params := csiParams{{-1}}
	for _, b := range data {
		cur := params[len(params)-1]
		switch {
		case b >= '0' && b <= '9':
			v := cur[len(cur)-1]
			if v < 0 {
				v = 0
			}
			v = v*10 + int(b-'0')
			if v > 0x10FFFF { // Sanity limit
				return nil, false
			}
			cur[len(cur)-1] = v
		case b == ':':
			params[len(params)-1] = append(cur, -1)
		case b == ';':
			params = append(params, []int{-1})
		default:
			return nil, false
		}
	}
	return params, true
}

// parseCSI parses ESC [ ... sequences
func (r *Reader) parseCSI(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}

	switch data[2] {
	case '<':
		return parseSGRMouse(data)
	case '[':
		if len(data) < 4 {
			return 0, Event{}, false
		}
		if key, ok := linuxConsoleKeys[data[3]]; ok {
			return 4, KeyEventFor(key, ModNone), true
		}
		return 4, Event{}, false
	case 'M':
		return parseX10Mouse(data)
	}

	// Find final byte (0x40-0x7e)
	end := 2
	for {
		if end >= len(data) {
			if end >= maxCSILen {
				return len(data), Event{}, false
			}
			return 0, Event{}, false
		}
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Not a CSI body byte, discard what was seen
			return end, Event{}, false
		}
		end++
		if end >= maxCSILen {
			return end, Event{}, false
		}
	}
	final := data[end]
	consumed := end + 1

	body := data[2:end]
	if len(body) > 0 && (body[0] == '?' || body[0] == '>' || body[0] == '=') {
		// Private replies (device attributes, keyboard flags query) are not input
		return consumed, Event{}, false
	}
	params, ok := parseCSIParams(body)
	if !ok {
		return consumed, Event{}, false
	}

	switch final {
	case 'I':
		return consumed, Event{Type: EventFocusGained}, true
	case 'O':
		return consumed, Event{Type: EventFocusLost}, true
	case 'Z':
		mods, _ := decodeModifierParam(params.get(1, 0, 1))
		return consumed, KeyEventFor(Key(KeyBackTab), mods|ModShift), true
	case 'R':
		if r.positionPending && len(params) == 2 {
			r.posRow = uint16(max(params.get(0, 0, 1)-1, 0))
			r.posCol = uint16(max(params.get(1, 0, 1)-1, 0))
			r.positionReady = true
			return consumed, Event{}, false
		}
	case 'u':
		return consumed, kittyEvent(params), true
	case '~':
		first := params.get(0, 0, -1)
		if first == 200 {
			return parsePaste(data, consumed)
		}
		key, ok := tildeKeys[first]
		if !ok {
			return consumed, Event{}, false
		}
		return consumed, modifiedKey(key, params), true
	}

	if key, ok := csiFinalKeys[final]; ok {
		return consumed, modifiedKey(key, params), true
	}

	// Unknown but valid CSI syntax - consume silently
	return consumed, Event{}, false
}

// modifiedKey applies the xterm modifier parameter (group 1) and kitty event type
func modifiedKey(key KeyCode, params csiParams) Event {
	mods, state := decodeModifierParam(params.get(1, 0, 1))
	ev := KeyEventFor(key, mods)
	ev.Key.State = state
	ev.Key.Kind = decodeKittyKind(params.get(1, 1, 1))
	return ev
}

// kittyEvent decodes ESC [ code[:shifted] ; mods[:kind] u
func kittyEvent(params csiParams) Event {
	cp := params.get(0, 0, 0)
	key, state, ok := kittyKey(cp)
	if !ok {
		key = Key(KeyNull)
	}
	mods, lockState := decodeModifierParam(params.get(1, 0, 1))

	if key.Kind == KeyChar && mods&ModShift != 0 {
		if shifted := params.get(0, 1, -1); shifted > 0 {
			key = Char(rune(shifted))
		}
	}
	if key.Kind == KeyModifier && key.Modifier < modifierKeyCodeCount {
		mods |= modifierKeyMask[key.Modifier]
	}

	ev := KeyEventFor(key, mods)
	ev.Key.State = state | lockState
	ev.Key.Kind = decodeKittyKind(params.get(1, 1, 1))
	return ev
}

// parsePaste collects text between the bracketed paste markers
func parsePaste(data []byte, start int) (int, Event, bool) {
	idx := bytes.Index(data[start:], pasteEnd)
	if idx < 0 {
		return 0, Event{}, false
	}
	text := string(data[start : start+idx])
	return start + idx + len(pasteEnd), Event{Type: EventPaste, Paste: text}, true
}

// parseSGRMouse parses ESC [ < Btn ; X ; Y M/m
func parseSGRMouse(data []byte) (int, Event, bool) {
	end := 3
	for end < len(data) && end < 32 {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		if end >= 32 {
			return end, Event{}, false
		}
		return 0, Event{}, false
	}
	if data[end] != 'M' && data[end] != 'm' {
		return end, Event{}, false
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1, Event{}, false
	}
	me, ok := decodeMouse(btn, data[end] == 'm', x, y)
	if !ok {
		return end + 1, Event{}, false
	}
	return end + 1, Event{Type: EventMouse, Mouse: me}, true
}

// parseX10Mouse parses the legacy ESC [ M Cb Cx Cy encoding
func parseX10Mouse(data []byte) (int, Event, bool) {
	if len(data) < 6 {
		return 0, Event{}, false
	}
	cb := int(data[3]) - 32
	me, ok := decodeMouse(cb, false, int(data[4])-32, int(data[5])-32)
	if !ok {
		return 6, Event{}, false
	}
	return 6, Event{Type: EventMouse, Mouse: me}, true
}

// decodeMouse converts a button code and 1-based position to a mouse event
func decodeMouse(cb int, release bool, x, y int) (MouseEvent, bool) {
	if cb < 0 {
		return MouseEvent{}, false
	}
	// Bits 0-1 and 6-7: button number; bit 5: motion
	buttonNumber := (cb & 0x03) | ((cb & 0xc0) >> 4)
	dragging := cb&32 != 0

	var me MouseEvent
	switch {
	case buttonNumber <= 2:
		me.Kind = MouseDown
		if dragging {
			me.Kind = MouseDrag
		}
		me.Button = [...]MouseButton{MouseLeft, MouseMiddle, MouseRight}[buttonNumber]
	case buttonNumber == 3 && !dragging:
		// Legacy release does not identify the button
		me.Kind = MouseUp
		me.Button = MouseLeft
	case dragging && buttonNumber <= 5:
		me.Kind = MouseMoved
	case buttonNumber == 4:
		me.Kind = MouseScrollUp
	case buttonNumber == 5:
		me.Kind = MouseScrollDown
	default:
		return MouseEvent{}, false
	}
	if release && me.Kind == MouseDown {
		me.Kind = MouseUp
	}

	if cb&4 != 0 {
		me.Modifiers |= ModShift
	}
	if cb&8 != 0 {
		me.Modifiers |= ModAlt
	}
	if cb&16 != 0 {
		me.Modifiers |= ModControl
	}

	me.Column = uint16(max(x-1, 0))
	me.Row = uint16(max(y-1, 0))
	return me, true
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y" format
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0 // 0=btn, 1=x, 2=y
	val := 0

	for _, b := range data {
		if b == ';' {
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		} else if b >= '0' && b <= '9' {
			val = val*10 + int(b-'0')
			if val > 65535 { // Sanity limit
				return 0, 0, 0, false
			}
		} else {
			return 0, 0, 0, false
		}
	}

	if state != 2 {
		return 0, 0, 0, false
	}
	y = val
	return btn, x, y, true
}
