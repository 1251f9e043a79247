package terminal

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

var errNoScript = errors.New("fake backend: script exhausted")

// fakeBackend replays scripted input chunks and records writes
type fakeBackend struct {
	chunks  [][]byte
	written bytes.Buffer
	replies map[string][]byte // write -> chunk queued in response
	err     error             // returned once the script is exhausted
	raw     bool
	resized bool
	cols    uint16
	rows    uint16
}

func (b *fakeBackend) EnableRawMode() error  { b.raw = true; return nil }
func (b *fakeBackend) DisableRawMode() error { b.raw = false; return nil }
func (b *fakeBackend) IsRawMode() bool       { return b.raw }

func (b *fakeBackend) Size() (uint16, uint16, error) { return b.cols, b.rows, nil }

func (b *fakeBackend) Read(p []byte, timeout time.Duration) (int, error) {
	if len(b.chunks) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		if timeout != 0 {
			time.Sleep(5 * time.Millisecond)
		}
		return 0, nil
	}
	n := copy(p, b.chunks[0])
	if n == len(b.chunks[0]) {
		b.chunks = b.chunks[1:]
	} else {
		b.chunks[0] = b.chunks[0][n:]
	}
	return n, nil
}

func (b *fakeBackend) Write(p []byte) (int, error) {
	b.written.Write(p)
	if reply, ok := b.replies[string(p)]; ok {
		b.chunks = append(b.chunks, reply)
	}
	return len(p), nil
}

func (b *fakeBackend) Resized() bool {
	r := b.resized
	b.resized = false
	return r
}

func (b *fakeBackend) Close() error { b.raw = false; return nil }

func drain(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		ready, err := r.Poll(0)
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if !ready {
			return out
		}
		ev, err := r.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		out = append(out, ev)
	}
}

func key(code KeyCode, mods KeyModifiers) Event { return KeyEventFor(code, mods) }

func TestReaderParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{"ascii", "a", []Event{key(Char('a'), ModNone)}},
		{"upper implies shift", "A", []Event{key(Char('A'), ModShift)}},
		{"ctrl letter", "\x01", []Event{key(Char('a'), ModControl)}},
		{"ctrl space", "\x00", []Event{key(Char(' '), ModControl)}},
		{"enter", "\r", []Event{key(Key(KeyEnter), ModNone)}},
		{"tab", "\t", []Event{key(Key(KeyTab), ModNone)}},
		{"backspace", "\x7f", []Event{key(Key(KeyBackspace), ModNone)}},
		{"utf8", "é", []Event{key(Char('é'), ModNone)}},
		{"arrow", "\x1b[A", []Event{key(Key(KeyUp), ModNone)}},
		{"ctrl arrow", "\x1b[1;5C", []Event{key(Key(KeyRight), ModControl)}},
		{"alt shift arrow", "\x1b[1;4D", []Event{key(Key(KeyLeft), ModShift|ModAlt)}},
		{"delete", "\x1b[3~", []Event{key(Key(KeyDelete), ModNone)}},
		{"f5", "\x1b[15~", []Event{key(FKey(5), ModNone)}},
		{"ss3 f1", "\x1bOP", []Event{key(FKey(1), ModNone)}},
		{"backtab", "\x1b[Z", []Event{key(Key(KeyBackTab), ModShift)}},
		{"alt char", "\x1bx", []Event{key(Char('x'), ModAlt)}},
		{"double escape", "\x1b\x1b", []Event{key(Key(KeyEsc), ModAlt)}},
		{"focus gained", "\x1b[I", []Event{{Type: EventFocusGained}}},
		{"focus lost", "\x1b[O", []Event{{Type: EventFocusLost}}},
		{"paste", "\x1b[200~hi\r\nthere\x1b[201~", []Event{{Type: EventPaste, Paste: "hi\r\nthere"}}},
		{"kitty ctrl", "\x1b[97;5u", []Event{key(Char('a'), ModControl)}},
		{"kitty shifted", "\x1b[97:65;2u", []Event{key(Char('A'), ModShift)}},
		{"kitty media", "\x1b[57428u", []Event{key(KeyCode{Kind: KeyMedia, Media: MediaPlay}, ModNone)}},
		{"private reply ignored", "\x1b[?1u", nil},
		{"unknown csi ignored", "\x1b[99y", nil},
		{"sequence", "ab\x1b[B", []Event{key(Char('a'), ModNone), key(Char('b'), ModNone), key(Key(KeyDown), ModNone)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(&fakeBackend{})
			r.Feed([]byte(tt.input))
			got := drain(t, r)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReaderKittyKinds(t *testing.T) {
	r := NewReader(&fakeBackend{})
	r.Feed([]byte("\x1b[97;1:2u\x1b[97;1:3u"))
	got := drain(t, r)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0].Key.Kind != KeyRepeat || got[1].Key.Kind != KeyRelease {
		t.Errorf("kinds = %v, %v", got[0].Key.Kind, got[1].Key.Kind)
	}
}

func TestReaderMouse(t *testing.T) {
	tests := []struct {
		input string
		want  MouseEvent
	}{
		{"\x1b[<0;10;5M", MouseEvent{Kind: MouseDown, Button: MouseLeft, Column: 9, Row: 4}},
		{"\x1b[<0;10;5m", MouseEvent{Kind: MouseUp, Button: MouseLeft, Column: 9, Row: 4}},
		{"\x1b[<2;1;1M", MouseEvent{Kind: MouseDown, Button: MouseRight}},
		{"\x1b[<32;3;3M", MouseEvent{Kind: MouseDrag, Button: MouseLeft, Column: 2, Row: 2}},
		{"\x1b[<35;3;3M", MouseEvent{Kind: MouseMoved, Column: 2, Row: 2}},
		{"\x1b[<64;1;1M", MouseEvent{Kind: MouseScrollUp}},
		{"\x1b[<65;1;1M", MouseEvent{Kind: MouseScrollDown}},
		{"\x1b[<16;1;1M", MouseEvent{Kind: MouseDown, Button: MouseLeft, Modifiers: ModControl}},
		{"\x1b[M !!", MouseEvent{Kind: MouseDown, Button: MouseLeft}},
	}
	for _, tt := range tests {
		r := NewReader(&fakeBackend{})
		r.Feed([]byte(tt.input))
		got := drain(t, r)
		if len(got) != 1 || got[0].Type != EventMouse {
			t.Fatalf("%q: got %v", tt.input, got)
		}
		if got[0].Mouse != tt.want {
			t.Errorf("%q: got %v, want %v", tt.input, got[0].Mouse, tt.want)
		}
	}
}

func TestReaderPollZeroNeverBlocks(t *testing.T) {
	r := NewReader(&fakeBackend{})
	start := time.Now()
	ready, err := r.Poll(0)
	if err != nil || ready {
		t.Fatalf("Poll(0) = %v, %v", ready, err)
	}
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("Poll(0) took %v", elapsed)
	}
}

func TestReaderPollTimeout(t *testing.T) {
	r := NewReader(&fakeBackend{})
	start := time.Now()
	ready, err := r.Poll(30 * time.Millisecond)
	if err != nil || ready {
		t.Fatalf("Poll = %v, %v", ready, err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Poll returned early after %v", elapsed)
	}
}

func TestReaderPollReadsBackend(t *testing.T) {
	b := &fakeBackend{chunks: [][]byte{[]byte("q")}}
	r := NewReader(b)
	ready, err := r.Poll(time.Second)
	if err != nil || !ready {
		t.Fatalf("Poll = %v, %v", ready, err)
	}
	ev, err := r.Read()
	if err != nil || ev != key(Char('q'), ModNone) {
		t.Errorf("Read = %v, %v", ev, err)
	}
}

func TestReaderSplitSequence(t *testing.T) {
	b := &fakeBackend{chunks: [][]byte{[]byte("\x1b["), []byte("1;5"), []byte("A")}}
	r := NewReader(b)
	ready, err := r.Poll(time.Second)
	if err != nil || !ready {
		t.Fatalf("Poll = %v, %v", ready, err)
	}
	ev, _ := r.Read()
	if ev != key(Key(KeyUp), ModControl) {
		t.Errorf("got %v", ev)
	}
}

func TestReaderLoneEscape(t *testing.T) {
	r := NewReader(&fakeBackend{})
	r.Feed([]byte{0x1b})

	// Still ambiguous: a sequence may follow
	if ready, _ := r.Poll(0); ready {
		t.Fatal("lone ESC resolved immediately")
	}

	ready, err := r.Poll(time.Second)
	if err != nil || !ready {
		t.Fatalf("Poll = %v, %v", ready, err)
	}
	ev, _ := r.Read()
	if ev != key(Key(KeyEsc), ModNone) {
		t.Errorf("got %v", ev)
	}
}

func TestReaderResize(t *testing.T) {
	b := &fakeBackend{resized: true, cols: 120, rows: 40}
	r := NewReader(b)
	got := drain(t, r)
	if len(got) != 1 || got[0] != (Event{Type: EventResize, Cols: 120, Rows: 40}) {
		t.Errorf("got %v", got)
	}
}

func TestReaderReadErrorPropagates(t *testing.T) {
	r := NewReader(&fakeBackend{err: errNoScript})
	if _, err := r.Read(); !errors.Is(err, errNoScript) {
		t.Errorf("Read = %v", err)
	}
}

func TestReaderCursorPosition(t *testing.T) {
	b := &fakeBackend{replies: map[string][]byte{
		string(csiCursorReport): []byte("k\x1b[5;10R"),
	}}
	r := NewReader(b)

	col, row, err := r.CursorPosition()
	if err != nil {
		t.Fatal(err)
	}
	if col != 9 || row != 4 {
		t.Errorf("position = %d,%d, want 9,4", col, row)
	}
	if b.written.String() != string(csiCursorReport) {
		t.Errorf("wrote %q", b.written.String())
	}

	// Input arriving before the report is kept
	got := drain(t, r)
	if len(got) != 1 || got[0] != key(Char('k'), ModNone) {
		t.Errorf("queued = %v", got)
	}
}

func TestReaderF3WithoutPendingQuery(t *testing.T) {
	r := NewReader(&fakeBackend{})
	r.Feed([]byte("\x1b[1;1R"))
	got := drain(t, r)
	if len(got) != 1 || got[0] != key(FKey(3), ModNone) {
		t.Errorf("got %v", got)
	}
}

func TestTerminalCursorPositionEntersRawMode(t *testing.T) {
	b := &fakeBackend{replies: map[string][]byte{
		string(csiCursorReport): []byte("\x1b[1;1R"),
	}}
	term := New(b, ColorModeTrueColor)
	col, row, err := term.CursorPosition()
	if err != nil || col != 0 || row != 0 {
		t.Fatalf("CursorPosition = %d,%d,%v", col, row, err)
	}
	if b.raw {
		t.Error("raw mode left enabled after query")
	}
}
