package bridge

import (
	"errors"

	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/status"
	"github.com/lixenwraith/termbridge/terminal"
)

// Service hosts the bridge and its runtime on top of the terminal service
type Service struct {
	term  *terminal.TerminalService
	stats *status.Registry

	bridge  *Bridge
	runtime *host.Runtime
}

// NewService creates the bridge service; nil stats gets a private registry
func NewService(term *terminal.TerminalService, stats *status.Registry) *Service {
	if stats == nil {
		stats = status.NewRegistry()
	}
	return &Service{term: term, stats: stats}
}

// Name implements service.Service
func (s *Service) Name() string { return "bridge" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return []string{"terminal"} }

// Init implements service.Service
func (s *Service) Init(...any) error {
	if s.term == nil || s.term.Terminal() == nil {
		return errors.New("bridge: terminal not initialized")
	}
	rt, err := NewRuntime()
	if err != nil {
		return err
	}
	s.runtime = rt
	s.bridge = New(s.term.Output(), s.term.Console(), s.term.Events(), s.stats)
	return nil
}

// Start implements service.Service
func (s *Service) Start() error { return nil }

// Stop implements service.Service. Bytes still staged are discarded with the sink.
func (s *Service) Stop() error { return nil }

// Bridge returns the entry points; nil before Init
func (s *Service) Bridge() *Bridge { return s.bridge }

// Runtime returns the host runtime the entry points raise into
func (s *Service) Runtime() *host.Runtime { return s.runtime }

// Stats returns the registry the stats entry point reports
func (s *Service) Stats() *status.Registry { return s.stats }
