package network

import (
	"bufio"
	"crypto/tls"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/termbridge/status"
)

// PeerID uniquely identifies a connected peer
type PeerID uint32

// ConnState represents connection lifecycle state
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnected
	StateDisconnecting
)

// frameCounters are shared by every peer of one endpoint
type frameCounters struct {
	in  *atomic.Int64
	out *atomic.Int64
}

func newFrameCounters(stats *status.Registry) frameCounters {
	if stats == nil {
		stats = status.NewRegistry()
	}
	return frameCounters{
		in:  stats.Ints.Get("network.frames_in"),
		out: stats.Ints.Get("network.frames_out"),
	}
}

// Peer is one framed connection. Reading, writing and handling run on
// separate goroutines: a call that blocks (an input read, say) holds up the
// next call from the same peer but not heartbeats or disconnect detection.
type Peer struct {
	ID   PeerID
	Addr string

	state    atomic.Uint32 // ConnState
	lastSeen atomic.Int64  // UnixNano
	outSeq   atomic.Uint32 // last assigned outbound sequence
	inSeq    atomic.Uint32 // highest inbound sequence

	conn     net.Conn
	reader   *bufio.Reader
	writer   *bufio.Writer
	cfg      *Config
	counters frameCounters

	sendCh chan *Message
	inbox  chan *Message

	closeCh   chan struct{}
	closeOnce sync.Once
}

func newPeer(id PeerID, conn net.Conn, cfg *Config, counters frameCounters) *Peer {
	p := &Peer{
		ID:       id,
		Addr:     conn.RemoteAddr().String(),
		conn:     conn,
		reader:   bufio.NewReaderSize(conn, cfg.ReadBufferSize),
		writer:   bufio.NewWriterSize(conn, cfg.WriteBufferSize),
		cfg:      cfg,
		counters: counters,
		sendCh:   make(chan *Message, cfg.SendQueueSize),
		inbox:    make(chan *Message, cfg.SendQueueSize),
		closeCh:  make(chan struct{}),
	}
	p.state.Store(uint32(StateConnected))
	p.lastSeen.Store(time.Now().UnixNano())
	return p
}

// run starts the I/O loops. handler sees every non-heartbeat frame in
// arrival order, one at a time.
func (p *Peer) run(handler func(*Peer, *Message)) {
	go p.readLoop()
	go p.writeLoop()
	go p.dispatchLoop(handler)
}

// State returns the lifecycle state
func (p *Peer) State() ConnState {
	return ConnState(p.state.Load())
}

// LastSeen returns when the last frame, heartbeats included, arrived
func (p *Peer) LastSeen() time.Time {
	return time.Unix(0, p.lastSeen.Load())
}

// Send queues a message, assigning its sequence number. Ack defaults to the
// highest sequence received. Returns false if the peer is gone or its queue is full.
func (p *Peer) Send(msg *Message) bool {
	if p.State() != StateConnected {
		return false
	}

	msg.Seq = p.outSeq.Add(1)
	if msg.Ack == 0 {
		msg.Ack = p.inSeq.Load()
	}

	select {
	case p.sendCh <- msg:
		return true
	default:
		return false
	}
}

// Done is closed once the peer disconnects
func (p *Peer) Done() <-chan struct{} {
	return p.closeCh
}

// Close drops the connection; queued frames are discarded
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.state.Store(uint32(StateDisconnecting))
		close(p.closeCh)
		p.conn.Close()
		p.state.Store(uint32(StateDisconnected))
	})
}

func (p *Peer) closing() bool {
	select {
	case <-p.closeCh:
		return true
	default:
		return false
	}
}

func (p *Peer) readLoop() {
	defer p.Close()

	for {
		if p.cfg.DisconnectTimeout > 0 {
			p.conn.SetReadDeadline(time.Now().Add(p.cfg.DisconnectTimeout))
		}

		msg, err := Decode(p.reader, p.cfg.MaxPayload)
		if err != nil {
			if !p.closing() {
				log.Printf("network: peer %d (%s) read: %v", p.ID, p.Addr, err)
			}
			return
		}
		p.counters.in.Add(1)
		p.lastSeen.Store(time.Now().UnixNano())
		if msg.Seq > p.inSeq.Load() {
			p.inSeq.Store(msg.Seq)
		}

		if msg.Type == MsgHeartbeat {
			continue
		}
		select {
		case p.inbox <- msg:
		case <-p.closeCh:
			return
		}
	}
}

func (p *Peer) dispatchLoop(handler func(*Peer, *Message)) {
	for {
		select {
		case <-p.closeCh:
			return
		case msg := <-p.inbox:
			handler(p, msg)
		}
	}
}

// writeLoop drains the send queue and emits a heartbeat every interval
func (p *Peer) writeLoop() {
	defer p.Close()

	interval := p.cfg.HeartbeatInterval
	if interval <= 0 {
		interval = time.Hour
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	for {
		var msg *Message
		select {
		case <-p.closeCh:
			return
		case msg = <-p.sendCh:
		case <-heartbeat.C:
			msg = NewMessage(MsgHeartbeat, nil)
			msg.Seq = p.outSeq.Add(1)
			msg.Ack = p.inSeq.Load()
		}

		if p.cfg.WriteTimeout > 0 {
			p.conn.SetWriteDeadline(time.Now().Add(p.cfg.WriteTimeout))
		}
		if err := msg.Encode(p.writer); err != nil {
			return
		}
		if err := p.writer.Flush(); err != nil {
			return
		}
		p.counters.out.Add(1)
	}
}

// dial connects to addr, over TLS when configured
func dial(addr string, cfg *Config) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	if cfg.TLS != nil {
		return tls.DialWithDialer(dialer, "tcp", addr, cfg.TLS)
	}
	return dialer.Dial("tcp", addr)
}
