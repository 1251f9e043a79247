package terminal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Input source selection
const (
	InputANSI  = "ansi"
	InputTcell = "tcell"
)

// ErrCursorPositionUnsupported is returned when another component owns terminal input
var ErrCursorPositionUnsupported = errors.New("terminal: cursor position query unavailable with tcell input")

// Console is the direct, unbuffered side of the terminal
type Console interface {
	EnableRawMode() error
	DisableRawMode() error
	Size() (cols, rows uint16, err error)
	CursorPosition() (col, row uint16, err error)
}

// Options configures the terminal service
type Options struct {
	// ColorMode is used when AutoColor is false
	ColorMode ColorMode
	AutoColor bool
	// Input is InputANSI (default) or InputTcell
	Input string
}

// TerminalService manages the terminal lifecycle: backend, output sink and
// the selected input source. It starts no goroutines of its own.
type TerminalService struct {
	mu      sync.Mutex
	term    *Terminal
	tcell   *TcellSource
	console Console
	backend func() Backend
	screen  func() (tcell.Screen, error)
	stopped bool
}

// NewService creates a terminal service over stdin and stdout
func NewService() *TerminalService {
	return &TerminalService{
		backend: NewStdBackend,
		screen:  tcell.NewScreen,
	}
}

// NewServiceWith creates a terminal service over the given backend and tcell screen factory
func NewServiceWith(backend func() Backend, screen func() (tcell.Screen, error)) *TerminalService {
	return &TerminalService{backend: backend, screen: screen}
}

// Name implements Service
func (s *TerminalService) Name() string {
	return "terminal"
}

// Dependencies implements Service
func (s *TerminalService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: Options (optional, defaults to detected color and ANSI input)
func (s *TerminalService) Init(args ...any) error {
	opts := Options{AutoColor: true, Input: InputANSI}
	if len(args) > 0 {
		if o, ok := args[0].(Options); ok {
			opts = o
		}
	}
	mode := opts.ColorMode
	if opts.AutoColor {
		mode = DetectColorMode()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.term = New(s.backend(), mode)
	s.console = s.term

	switch opts.Input {
	case "", InputANSI:
	case InputTcell:
		screen, err := s.screen()
		if err != nil {
			return fmt.Errorf("tcell screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("tcell init: %w", err)
		}
		s.tcell = NewTcellSource(screen)
		s.console = tcellConsole{s.term}
	default:
		return fmt.Errorf("unknown input source %q", opts.Input)
	}
	return nil
}

// Start implements Service
func (s *TerminalService) Start() error {
	return nil
}

// Stop implements Service - releases the screen and restores cooked mode
func (s *TerminalService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.term == nil {
		return nil
	}
	s.stopped = true

	if s.tcell != nil {
		s.tcell.Close()
	}
	return s.term.Close()
}

// Terminal returns the wrapped terminal instance
func (s *TerminalService) Terminal() *Terminal {
	return s.term
}

// Output returns the buffered command sink
func (s *TerminalService) Output() *Output {
	return s.term.Output()
}

// Console returns the unbuffered terminal controls
func (s *TerminalService) Console() Console {
	return s.console
}

// Events returns the configured input source
func (s *TerminalService) Events() EventSource {
	if s.tcell != nil {
		return s.tcell
	}
	return s.term.Input()
}

// tcellConsole defers to the terminal except for queries that read input,
// which the tcell screen owns
type tcellConsole struct {
	*Terminal
}

func (tcellConsole) CursorPosition() (uint16, uint16, error) {
	return 0, 0, ErrCursorPositionUnsupported
}
