package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/termbridge/bridge"
	"github.com/lixenwraith/termbridge/network"
	"github.com/lixenwraith/termbridge/terminal"
)

type stubConsole struct{}

func (stubConsole) EnableRawMode() error                    { return nil }
func (stubConsole) DisableRawMode() error                   { return nil }
func (stubConsole) Size() (uint16, uint16, error)           { return 80, 24, nil }
func (stubConsole) CursorPosition() (uint16, uint16, error) { return 0, 0, nil }

type stubSource struct{}

func (stubSource) Poll(time.Duration) (bool, error) { return false, nil }
func (stubSource) Read() (terminal.Event, error)    { return terminal.Event{}, errors.New("no input") }

func newScriptHandler(t *testing.T) (*network.Handler, *bytes.Buffer) {
	t.Helper()
	rt, err := bridge.NewRuntime()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	b := bridge.New(terminal.NewOutput(&out, terminal.ColorModeTrueColor), stubConsole{}, stubSource{}, nil)
	return network.NewHandler(b, rt), &out
}

func TestRunScriptYAML(t *testing.T) {
	path := writeFile(t, "hello.yaml", `
commands:
  - {type: MoveTo, x: 2, y: 1}
  - {type: SetForegroundColor, color: {type: Rgb, r: 255, g: 0, b: 0}}
  - {type: Print, text: hello}
  - {type: ResetColor}
`)
	cmds, err := loadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 4 {
		t.Fatalf("loaded %d commands", len(cmds))
	}

	h, out := newScriptHandler(t)
	if err := runScript(h, cmds); err != nil {
		t.Fatal(err)
	}
	want := "\x1b[2;3H\x1b[38;2;255;0;0mhello\x1b[0m"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunScriptJSONList(t *testing.T) {
	path := writeFile(t, "clear.json", `[{"type":"Clear","clear_type":"All"},{"type":"Print","text":"x"}]`)
	cmds, err := loadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	h, out := newScriptHandler(t)
	if err := runScript(h, cmds); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\x1b[2Jx" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunScriptFailure(t *testing.T) {
	h, out := newScriptHandler(t)
	err := runScript(h, []any{
		map[string]any{"type": "Print", "text": "a"},
		map[string]any{"type": "MoveTo", "x": 70000, "y": 0},
	})
	var failure *network.CallFailure
	if !errors.As(err, &failure) || !strings.HasPrefix(failure.Message, "Range violation: ") {
		t.Fatalf("err = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("failed script flushed %q", out.String())
	}
}

func TestRunScriptUnknownColor(t *testing.T) {
	path := writeFile(t, "purple.yaml", `
- {type: Print, text: a}
- {type: SetForegroundColor, color: Purple}
`)
	cmds, err := loadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	h, out := newScriptHandler(t)
	err = runScript(h, cmds)
	var failure *network.CallFailure
	if !errors.As(err, &failure) {
		t.Fatalf("err = %v", err)
	}
	if failure.Class != bridge.ContractViolation || failure.Message != "not a valid Color: Purple" {
		t.Errorf("failure = %s: %s", failure.Class, failure.Message)
	}
	if out.Len() != 0 {
		t.Errorf("failed script flushed %q", out.String())
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"not a list", "a.yaml", "commands: 3\n"},
		{"scalar", "b.yaml", "hello\n"},
		{"bad json", "c.json", "[{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadScript(writeFile(t, tt.file, tt.content)); err == nil {
				t.Error("accepted")
			}
		})
	}
}
