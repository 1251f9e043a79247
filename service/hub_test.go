package service

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/lixenwraith/termbridge/status"
)

type recorder struct {
	events []string
}

type fakeService struct {
	name     string
	deps     []string
	rec      *recorder
	initErr  error
	startErr error
	gotArgs  []any
}

func (s *fakeService) Name() string           { return s.name }
func (s *fakeService) Dependencies() []string { return s.deps }

func (s *fakeService) Init(args ...any) error {
	s.gotArgs = args
	s.rec.events = append(s.rec.events, "init:"+s.name)
	return s.initErr
}

func (s *fakeService) Start() error {
	s.rec.events = append(s.rec.events, "start:"+s.name)
	return s.startErr
}

func (s *fakeService) Stop() error {
	s.rec.events = append(s.rec.events, "stop:"+s.name)
	return nil
}

func TestHubLifecycleOrder(t *testing.T) {
	rec := &recorder{}
	h := NewHub(nil)
	network := &fakeService{name: "network", deps: []string{"bridge"}, rec: rec}
	bridge := &fakeService{name: "bridge", deps: []string{"terminal"}, rec: rec}
	term := &fakeService{name: "terminal", rec: rec}

	for _, svc := range []*fakeService{network, bridge, term} {
		if err := h.Register(svc); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.InitAll(); err != nil {
		t.Fatal(err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatal(err)
	}
	h.StopAll()

	want := []string{
		"init:terminal", "init:bridge", "init:network",
		"start:terminal", "start:bridge", "start:network",
		"stop:network", "stop:bridge", "stop:terminal",
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v\nwant %v", rec.events, want)
	}
}

func TestHubPassesInitArgs(t *testing.T) {
	rec := &recorder{}
	h := NewHub(nil)
	svc := &fakeService{name: "terminal", rec: rec}
	if err := h.Register(svc, "truecolor", 7); err != nil {
		t.Fatal(err)
	}
	if err := h.InitAll(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(svc.gotArgs, []any{"truecolor", 7}) {
		t.Errorf("args = %v", svc.gotArgs)
	}
}

func TestHubDuplicateRegistration(t *testing.T) {
	h := NewHub(nil)
	rec := &recorder{}
	_ = h.Register(&fakeService{name: "a", rec: rec})
	if err := h.Register(&fakeService{name: "a", rec: rec}); err == nil {
		t.Error("duplicate accepted")
	}
}

func TestHubDependencyErrors(t *testing.T) {
	rec := &recorder{}

	h := NewHub(nil)
	_ = h.Register(&fakeService{name: "a", deps: []string{"missing"}, rec: rec})
	if err := h.InitAll(); err == nil || !strings.Contains(err.Error(), "unregistered") {
		t.Errorf("missing dependency: %v", err)
	}

	h = NewHub(nil)
	_ = h.Register(&fakeService{name: "a", deps: []string{"b"}, rec: rec})
	_ = h.Register(&fakeService{name: "b", deps: []string{"a"}, rec: rec})
	if err := h.InitAll(); err == nil || !strings.Contains(err.Error(), "circular") {
		t.Errorf("cycle: %v", err)
	}
}

func TestHubInitRollback(t *testing.T) {
	rec := &recorder{}
	h := NewHub(nil)
	boom := errors.New("boom")
	_ = h.Register(&fakeService{name: "a", rec: rec})
	_ = h.Register(&fakeService{name: "b", deps: []string{"a"}, rec: rec, initErr: boom})

	err := h.InitAll()
	if !errors.Is(err, boom) {
		t.Fatalf("InitAll = %v", err)
	}
	want := []string{"init:a", "init:b", "stop:a"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestHubStartRollback(t *testing.T) {
	rec := &recorder{}
	h := NewHub(nil)
	boom := errors.New("boom")
	_ = h.Register(&fakeService{name: "a", rec: rec})
	_ = h.Register(&fakeService{name: "b", deps: []string{"a"}, rec: rec, startErr: boom})

	if err := h.InitAll(); err != nil {
		t.Fatal(err)
	}
	if err := h.StartAll(); !errors.Is(err, boom) {
		t.Fatalf("StartAll = %v", err)
	}
	h.StopAll() // nothing left running
	want := []string{"init:a", "init:b", "start:a", "start:b", "stop:a"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestHubTiesKeepRegistrationOrder(t *testing.T) {
	rec := &recorder{}
	h := NewHub(nil)
	for _, n := range []string{"websocket", "terminal", "tcp"} {
		_ = h.Register(&fakeService{name: n, rec: rec})
	}
	if err := h.InitAll(); err != nil {
		t.Fatal(err)
	}
	want := []string{"init:websocket", "init:terminal", "init:tcp"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestHubPublishesStates(t *testing.T) {
	stats := status.NewRegistry()
	h := NewHub(stats)
	rec := &recorder{}
	boom := errors.New("boom")
	_ = h.Register(&fakeService{name: "terminal", rec: rec})
	_ = h.Register(&fakeService{name: "network", deps: []string{"terminal"}, rec: rec, startErr: boom})

	if got := h.State("terminal"); got != StateRegistered {
		t.Errorf("before init = %q", got)
	}
	if err := h.InitAll(); err != nil {
		t.Fatal(err)
	}
	if got := h.State("network"); got != StateInitialized {
		t.Errorf("after init = %q", got)
	}
	_ = h.StartAll()

	tests := []struct{ name, want string }{
		{"terminal", StateStopped},
		{"network", StateFailed},
		{"unknown", ""},
	}
	for _, tt := range tests {
		if got := h.State(tt.name); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
		}
	}

	lines := strings.Join(stats.Lines(), "\n")
	if !strings.Contains(lines, "service.network=failed") || !strings.Contains(lines, "service.terminal=stopped") {
		t.Errorf("stats = %s", lines)
	}
}
