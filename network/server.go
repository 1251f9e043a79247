package network

import (
	"crypto/tls"
	"errors"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/termbridge/status"
)

// Server errors
var (
	ErrMaxPeers     = errors.New("max peers reached")
	ErrServerClosed = errors.New("network: server closed")
)

// Server accepts framed connections and hands their calls to a handler
type Server struct {
	cfg     *Config
	handler func(*Peer, *Message)

	counters frameCounters
	gauge    *atomic.Int64 // connected peers
	accepted *atomic.Int64
	rejected *atomic.Int64

	mu       sync.Mutex
	listener net.Listener
	peers    map[PeerID]*Peer
	nextID   PeerID
	closed   bool

	wg sync.WaitGroup
}

// NewServer creates a server that runs handler for every non-heartbeat
// frame. nil stats gets a private registry.
func NewServer(cfg *Config, handler func(*Peer, *Message), stats *status.Registry) *Server {
	if stats == nil {
		stats = status.NewRegistry()
	}
	return &Server{
		cfg:      cfg,
		handler:  handler,
		counters: newFrameCounters(stats),
		gauge:    stats.Ints.Get("network.peers"),
		accepted: stats.Ints.Get("network.accepted"),
		rejected: stats.Ints.Get("network.rejected"),
		peers:    make(map[PeerID]*Peer),
	}
}

// Listen binds cfg.Address, with TLS when configured, and starts accepting
func (s *Server) Listen() error {
	var ln net.Listener
	var err error
	if s.cfg.TLS != nil {
		ln, err = tls.Listen("tcp", s.cfg.Address, s.cfg.TLS)
	} else {
		ln, err = net.Listen("tcp", s.cfg.Address)
	}
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve starts accepting on ln in the background. The server owns ln.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed || s.listener != nil {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(ln)
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("network: accept: %v", err)
			continue
		}
		if _, err := s.admit(conn); err != nil {
			s.rejected.Add(1)
			log.Printf("network: rejected %s: %v", conn.RemoteAddr(), err)
		}
	}
}

// admit registers conn as a peer and starts its loops
func (s *Server) admit(conn net.Conn) (*Peer, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		conn.Close()
		return nil, ErrServerClosed
	case s.cfg.MaxPeers > 0 && len(s.peers) >= s.cfg.MaxPeers:
		s.mu.Unlock()
		conn.Close()
		return nil, ErrMaxPeers
	}
	s.nextID++
	p := newPeer(s.nextID, conn, s.cfg, s.counters)
	s.peers[p.ID] = p
	s.mu.Unlock()

	s.accepted.Add(1)
	s.gauge.Add(1)
	log.Printf("network: peer %d connected from %s", p.ID, p.Addr)

	p.run(s.handler)
	go s.watch(p)
	return p, nil
}

// watch forgets p once it disconnects
func (s *Server) watch(p *Peer) {
	<-p.Done()

	s.mu.Lock()
	_, ok := s.peers[p.ID]
	delete(s.peers, p.ID)
	s.mu.Unlock()

	if ok {
		s.gauge.Add(-1)
	}
	log.Printf("network: peer %d disconnected", p.ID)
}

// Close stops accepting and disconnects every peer. Safe to call twice.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.listener
	peers := s.peers
	s.peers = make(map[PeerID]*Peer)
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	for _, p := range peers {
		p.Close()
		s.gauge.Add(-1)
	}
	s.wg.Wait()
	return err
}

// Addr returns the bound address, nil before Serve
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// PeerCount returns connected peer count
func (s *Server) PeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

// IsRunning reports whether the server is accepting connections
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener != nil && !s.closed
}
