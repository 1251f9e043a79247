package terminal

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newTestService(b *fakeBackend) *TerminalService {
	return NewServiceWith(
		func() Backend { return b },
		func() (tcell.Screen, error) { return tcell.NewSimulationScreen("UTF-8"), nil },
	)
}

func TestServiceANSIInput(t *testing.T) {
	b := &fakeBackend{cols: 80, rows: 24}
	svc := newTestService(b)
	if err := svc.Init(Options{ColorMode: ColorMode256, Input: InputANSI}); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.Events().(*Reader); !ok {
		t.Errorf("Events = %T, want *Reader", svc.Events())
	}
	if svc.Output().ColorMode() != ColorMode256 {
		t.Errorf("color mode = %v", svc.Output().ColorMode())
	}
	cols, rows, err := svc.Console().Size()
	if err != nil || cols != 80 || rows != 24 {
		t.Errorf("Size = %d,%d,%v", cols, rows, err)
	}

	_ = svc.Console().EnableRawMode()
	if err := svc.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if b.raw {
		t.Error("Stop left raw mode enabled")
	}
}

func TestServiceTcellInput(t *testing.T) {
	svc := newTestService(&fakeBackend{})
	if err := svc.Init(Options{ColorMode: ColorModeTrueColor, Input: InputTcell}); err != nil {
		t.Fatal(err)
	}
	defer svc.Stop()

	if _, ok := svc.Events().(*TcellSource); !ok {
		t.Errorf("Events = %T, want *TcellSource", svc.Events())
	}
	if _, _, err := svc.Console().CursorPosition(); !errors.Is(err, ErrCursorPositionUnsupported) {
		t.Errorf("CursorPosition = %v", err)
	}
}

func TestServiceUnknownInput(t *testing.T) {
	svc := newTestService(&fakeBackend{})
	if err := svc.Init(Options{Input: "serial"}); err == nil {
		t.Error("unknown input accepted")
	}
}

func TestServiceDefaults(t *testing.T) {
	t.Setenv(colorModeEnv, "truecolor")
	svc := newTestService(&fakeBackend{})
	if err := svc.Init(); err != nil {
		t.Fatal(err)
	}
	if svc.Output().ColorMode() != ColorModeTrueColor {
		t.Errorf("detected mode = %v", svc.Output().ColorMode())
	}
	if svc.Name() != "terminal" || svc.Dependencies() != nil {
		t.Error("unexpected identity")
	}
}
