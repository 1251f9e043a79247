package bridge

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/terminal"
)

type fakeConsole struct {
	raw      bool
	cols     uint16
	rows     uint16
	sizeErr  error
	modeErr  error
	col, row uint16
}

func (c *fakeConsole) EnableRawMode() error {
	if c.modeErr != nil {
		return c.modeErr
	}
	c.raw = true
	return nil
}

func (c *fakeConsole) DisableRawMode() error {
	c.raw = false
	return c.modeErr
}

func (c *fakeConsole) Size() (uint16, uint16, error) { return c.cols, c.rows, c.sizeErr }

func (c *fakeConsole) CursorPosition() (uint16, uint16, error) { return c.col, c.row, nil }

// fakeSource serves queued events without blocking
type fakeSource struct {
	events []terminal.Event
}

func (s *fakeSource) Poll(timeout time.Duration) (bool, error) {
	return len(s.events) > 0, nil
}

func (s *fakeSource) Read() (terminal.Event, error) {
	if len(s.events) == 0 {
		return terminal.Event{}, errors.New("no input")
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("device gone") }

func commandList(t *testing.T, rt *host.Runtime) host.Value {
	t.Helper()
	return host.List(
		host.Ref(mustObject(t, rt, VariantClass(FamilyCommand, "MoveTo"), host.Int(5), host.Int(10))),
		host.Ref(mustObject(t, rt, VariantClass(FamilyCommand, "Print"), host.String("hi"))),
	)
}

func duration(t *testing.T, rt *host.Runtime, d time.Duration) *host.Object {
	t.Helper()
	return mustObject(t, rt, EnumClass(RecordDuration),
		host.Long(int64(d/time.Second)), host.Int(int32(d%time.Second)))
}

func expectException(t *testing.T, rt *host.Runtime, class, prefix string) {
	t.Helper()
	exc := rt.TakeException()
	if exc == nil {
		t.Fatal("expected a raised exception")
	}
	if exc.Class != class {
		t.Errorf("exception class = %s, want %s", exc.Class, class)
	}
	if !strings.HasPrefix(exc.Message, prefix) {
		t.Errorf("message %q lacks prefix %q", exc.Message, prefix)
	}
}

func TestBridge_EnqueueDoesNotFlush(t *testing.T) {
	rt := newTestRuntime(t)
	var dst bytes.Buffer
	out := terminal.NewOutput(&dst, terminal.ColorModeTrueColor)
	b := New(out, &fakeConsole{}, &fakeSource{}, nil)

	b.Enqueue(rt, commandList(t, rt))
	if rt.ExceptionCheck() {
		t.Fatalf("unexpected exception: %v", rt.TakeException())
	}
	if dst.Len() != 0 {
		t.Fatalf("enqueue wrote %q to the terminal", dst.String())
	}
	staged := string(out.Pending())
	if staged != "\x1b[11;6Hhi" {
		t.Errorf("staged %q", staged)
	}

	b.Flush(rt)
	if dst.String() != staged {
		t.Errorf("flushed %q, want %q", dst.String(), staged)
	}
}

func TestBridge_ExecuteEqualsEnqueueFlush(t *testing.T) {
	rt := newTestRuntime(t)

	var viaEnqueue bytes.Buffer
	a := New(terminal.NewOutput(&viaEnqueue, terminal.ColorModeTrueColor), &fakeConsole{}, &fakeSource{}, nil)
	a.Enqueue(rt, commandList(t, rt))
	a.Flush(rt)

	var viaExecute bytes.Buffer
	out := terminal.NewOutput(&viaExecute, terminal.ColorModeTrueColor)
	b := New(out, &fakeConsole{}, &fakeSource{}, nil)
	b.Execute(rt, commandList(t, rt))

	if viaExecute.String() != viaEnqueue.String() {
		t.Errorf("execute wrote %q, enqueue+flush wrote %q", viaExecute.String(), viaEnqueue.String())
	}
	if len(out.Pending()) != 0 {
		t.Error("execute left bytes staged")
	}
}

func TestBridge_TrapIOFailure(t *testing.T) {
	rt := newTestRuntime(t)
	out := terminal.NewOutput(failingWriter{}, terminal.ColorModeTrueColor)
	b := New(out, &fakeConsole{}, &fakeSource{}, nil)

	b.Execute(rt, commandList(t, rt))
	expectException(t, rt, host.RuntimeException, "IO error: ")

	if got := b.Stats().Ints.Get("failures.io").Load(); got != 1 {
		t.Errorf("failures.io = %d, want 1", got)
	}
}

func TestBridge_TrapRangeFailure(t *testing.T) {
	rt := newTestRuntime(t)
	sink := &recordingSink{}
	b := New(sink, &fakeConsole{}, &fakeSource{}, nil)

	b.EnqueueCursorMoveTo(rt, 100000, 0)
	expectException(t, rt, host.RuntimeException, "Range violation: ")
	if len(sink.queued) != 0 {
		t.Error("nothing should be staged")
	}

	b.EnqueueCursorMoveTo(rt, 5, 10)
	if rt.ExceptionCheck() {
		t.Fatalf("unexpected exception: %v", rt.TakeException())
	}
	if len(sink.queued) != 1 || sink.queued[0] != (terminal.MoveTo{Col: 5, Row: 10}) {
		t.Errorf("queued %v", sink.queued)
	}
}

func TestBridge_TrapCallFailure(t *testing.T) {
	rt := newTestRuntime(t)
	b := New(&recordingSink{}, &fakeConsole{}, &fakeSource{}, nil)

	if b.Poll(rt, nil) {
		t.Error("failed poll must return the zero value")
	}
	expectException(t, rt, host.RuntimeException, "Error from boundary call: ")
}

func TestBridge_PendingExceptionIsKept(t *testing.T) {
	rt := newTestRuntime(t)
	b := New(&recordingSink{}, &fakeConsole{}, &fakeSource{}, nil)

	_ = rt.ThrowNew("IllegalStateException", "host side")
	if obj := b.TerminalSize(rt); obj != nil {
		// Size succeeds natively; the allocation fails on the pending exception
		t.Errorf("expected zero value, got %v", obj)
	}
	expectException(t, rt, "IllegalStateException", "host side")
}

func TestBridge_ContractViolationIsRaised(t *testing.T) {
	rt := newTestRuntime(t, &host.Class{
		Name:   VariantClass(FamilyCommand, "Beep"),
		Family: FamilyCommand,
		Tag:    "Beep",
	})
	sink := &recordingSink{}
	b := New(sink, &fakeConsole{}, &fakeSource{}, nil)

	b.Execute(rt, host.List(host.Ref(mustObject(t, rt, VariantClass(FamilyCommand, "Beep")))))
	expectException(t, rt, ContractViolation, "not a valid Command: Beep")
	if sink.flushes != 0 || len(sink.queued) != 0 {
		t.Error("contract violation must stop before any native call")
	}
	if got := b.Stats().Ints.Get("failures.contract").Load(); got != 1 {
		t.Errorf("failures.contract = %d, want 1", got)
	}
}

func TestBridge_Queries(t *testing.T) {
	rt := newTestRuntime(t)
	console := &fakeConsole{cols: 132, rows: 43, col: 7, row: 2}
	b := New(&recordingSink{}, console, &fakeSource{}, nil)

	size := host.ToTree(host.Ref(b.TerminalSize(rt)))
	want := map[string]any{"type": RecordXy, "x": int64(132), "y": int64(43)}
	if !equalTree(size, want) {
		t.Errorf("terminalSize = %v", size)
	}

	pos := host.ToTree(host.Ref(b.CursorPosition(rt)))
	want = map[string]any{"type": RecordXy, "x": int64(7), "y": int64(2)}
	if !equalTree(pos, want) {
		t.Errorf("cursorPosition = %v", pos)
	}

	console.sizeErr = errors.New("not a tty")
	if b.TerminalSize(rt) != nil {
		t.Error("failed size must return nil")
	}
	expectException(t, rt, host.RuntimeException, "IO error: ")
}

func TestBridge_RawMode(t *testing.T) {
	rt := newTestRuntime(t)
	console := &fakeConsole{}
	b := New(&recordingSink{}, console, &fakeSource{}, nil)

	b.EnableRawMode(rt)
	if !console.raw || !b.Stats().Bools.Get("terminal.raw_mode").Load() {
		t.Error("raw mode not enabled")
	}
	b.DisableRawMode(rt)
	if console.raw || b.Stats().Bools.Get("terminal.raw_mode").Load() {
		t.Error("raw mode not disabled")
	}
}

func TestBridge_PollAndRead(t *testing.T) {
	rt := newTestRuntime(t)
	src := &fakeSource{}
	b := New(&recordingSink{}, &fakeConsole{}, src, nil)

	if b.Poll(rt, duration(t, rt, 0)) {
		t.Error("poll on empty source should be false")
	}
	src.events = append(src.events, terminal.Event{Type: terminal.EventFocusGained})
	if !b.Poll(rt, duration(t, rt, time.Second)) {
		t.Error("poll should report the queued event")
	}
	ev := b.Read(rt)
	if tag, _ := rt.Tag(ev); tag != "FocusGained" {
		t.Errorf("read tag = %q", tag)
	}

	if b.Read(rt) != nil {
		t.Error("failed read must return nil")
	}
	expectException(t, rt, host.RuntimeException, "IO error: ")
}

func TestBridge_Invoke(t *testing.T) {
	rt := newTestRuntime(t)
	sink := &recordingSink{}
	b := New(sink, &fakeConsole{}, &fakeSource{}, nil)

	b.Invoke(rt, "enqueueCursorMoveTo", []host.Value{host.Int(1), host.Int(2)})
	b.Invoke(rt, "enqueueStylePrint", []host.Value{host.String("x")})
	if rt.ExceptionCheck() {
		t.Fatalf("unexpected exception: %v", rt.TakeException())
	}
	if len(sink.queued) != 2 {
		t.Fatalf("queued %d commands", len(sink.queued))
	}

	b.Invoke(rt, "enqueueTeleport", nil)
	expectException(t, rt, host.RuntimeException, "Error from boundary call: ")

	b.Invoke(rt, "enqueueCursorMoveTo", []host.Value{host.Int(1)})
	expectException(t, rt, host.RuntimeException, "Error from boundary call: ")

	b.Invoke(rt, "enqueueCursorMoveTo", []host.Value{host.String("1"), host.Int(2)})
	expectException(t, rt, host.RuntimeException, "Error from boundary call: ")

	lines, err := b.Invoke(rt, "stats", nil).AsList()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	found := false
	for _, l := range lines {
		if s, _ := l.AsString(); s == "calls.enqueueCursorMoveTo=1" {
			found = true
		}
	}
	if !found {
		t.Errorf("stats missing call counter: %v", lines)
	}
}

func TestMethods_CoverEveryCommand(t *testing.T) {
	names := MethodNames()
	if len(names) != 51 {
		t.Errorf("method count = %d, want 51", len(names))
	}
	for _, want := range []string{"terminalSize", "cursorPosition", "poll", "read", "flush",
		"enableRawMode", "disableRawMode", "enqueue", "execute", "enqueueTerminalClear"} {
		if _, ok := LookupMethod(want); !ok {
			t.Errorf("missing method %s", want)
		}
	}
}

func equalTree(got any, want map[string]any) bool {
	m, ok := got.(map[string]any)
	if !ok || len(m) != len(want) {
		return false
	}
	for k, v := range want {
		if m[k] != v {
			return false
		}
	}
	return true
}
