package network

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/termbridge/bridge"
	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/status"
)

// Provider supplies the bridge the network serves, once initialized
type Provider interface {
	Bridge() *bridge.Bridge
	Runtime() *host.Runtime
	Stats() *status.Registry
}

// Service exposes the bridge entry points over framed TCP and WebSocket
type Service struct {
	provider Provider
	config   *Config
	handler  *Handler
	server   *Server

	httpServer *http.Server
	wsListener net.Listener

	disabled atomic.Bool
}

// NewService creates a network service (disabled until configured as a server)
func NewService(provider Provider) *Service {
	return &Service{
		provider: provider,
		config:   DefaultConfig(),
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "network"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return []string{"bridge"}
}

// Init implements service.Service
// args[0]: *Config (optional, overrides default)
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if cfg, ok := args[0].(*Config); ok && cfg != nil {
			s.config = cfg
		}
	}

	if s.config.Role != RoleServer {
		s.disabled.Store(true)
		return nil
	}
	if s.provider == nil || s.provider.Bridge() == nil {
		return errors.New("network: bridge not initialized")
	}

	s.handler = NewHandler(s.provider.Bridge(), s.provider.Runtime())

	if s.config.Address != "" {
		s.server = NewServer(s.config, s.onMessage, s.provider.Stats())
	}
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	if s.disabled.Load() {
		return nil
	}
	if s.server != nil {
		if err := s.server.Listen(); err != nil {
			return err
		}
		log.Printf("network: serving on %s", s.server.Addr())
	}
	if s.config.WebSocketAddress != "" {
		if err := s.startWebSocket(); err != nil {
			if s.server != nil {
				s.server.Close()
			}
			return err
		}
	}
	return nil
}

func (s *Service) startWebSocket() error {
	ln, err := net.Listen("tcp", s.config.WebSocketAddress)
	if err != nil {
		return err
	}
	if s.config.TLS != nil {
		ln = tls.NewListener(ln, s.config.TLS)
	}

	mux := http.NewServeMux()
	mux.Handle(s.config.WebSocketPath, NewWebSocketHandler(s.handler, s.config))
	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: s.config.ConnectTimeout,
	}
	s.wsListener = ln

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("network: websocket server: %v", err)
		}
	}()
	log.Printf("network: websocket on %s%s", ln.Addr(), s.config.WebSocketPath)
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	var err error
	if s.server != nil {
		err = s.server.Close()
	}
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		// Hijacked websocket connections are not tracked by Shutdown
		if serr := s.httpServer.Shutdown(ctx); serr != nil && err == nil {
			err = serr
		}
		s.httpServer = nil
	}
	return err
}

// onMessage answers calls on the peer's dispatch goroutine
func (s *Service) onMessage(peer *Peer, msg *Message) {
	if msg.Type != MsgCall {
		log.Printf("network: peer %d sent unexpected %v", peer.ID, msg.Type)
		return
	}
	t, payload := s.handler.HandlePayload(msg.Payload)
	if !peer.Send(NewReply(t, msg.Seq, payload)) {
		// The caller is waiting on this sequence; disconnect so it fails now
		log.Printf("network: peer %d reply to %d dropped, disconnecting", peer.ID, msg.Seq)
		peer.Close()
	}
}

// Addr returns the framed TCP listener address, nil when not serving
func (s *Service) Addr() net.Addr {
	if s.server == nil {
		return nil
	}
	return s.server.Addr()
}

// WebSocketAddr returns the WebSocket listener address, nil when not serving
func (s *Service) WebSocketAddr() net.Addr {
	if s.wsListener == nil {
		return nil
	}
	return s.wsListener.Addr()
}

// PeerCount returns connected framed-protocol peers
func (s *Service) PeerCount() int {
	if s.server == nil {
		return 0
	}
	return s.server.PeerCount()
}

// IsRunning returns true if the framed server is accepting
func (s *Service) IsRunning() bool {
	return s.server != nil && s.server.IsRunning()
}
