package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Client errors
var (
	ErrDisconnected = errors.New("network: disconnected from bridge")
	ErrSendFailed   = errors.New("network: send queue full")
)

// Client calls bridge entry points over the framed protocol. Calls may be
// issued from several goroutines; the server answers them in order.
type Client struct {
	peer    *Peer
	timeout time.Duration // applied when the caller's context has no deadline

	mu      sync.Mutex
	pending map[uint32]chan *Message
}

// Dial connects to a bridge server at cfg.Address
func Dial(cfg *Config) (*Client, error) {
	conn, err := dial(cfg.Address, cfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Address, err)
	}

	c := &Client{
		pending: make(map[uint32]chan *Message),
		timeout: cfg.CallTimeout,
	}
	c.peer = newPeer(1, conn, cfg, newFrameCounters(nil))
	c.peer.run(c.onMessage)
	go c.failPendingOnClose()
	return c, nil
}

// Call invokes method with tree-encoded args and returns the tree-encoded
// result. A raised foreign exception is returned as *CallFailure.
func (c *Client) Call(ctx context.Context, method string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	payload, err := json.Marshal(CallRequest{Method: method, Args: args})
	if err != nil {
		return nil, err
	}

	reply := make(chan *Message, 1)
	msg := NewMessage(MsgCall, payload)

	// Registration shares the lock with onMessage so a fast reply finds its waiter
	c.mu.Lock()
	if !c.peer.Send(msg) {
		c.mu.Unlock()
		select {
		case <-c.peer.Done():
			return nil, ErrDisconnected
		default:
			return nil, ErrSendFailed
		}
	}
	seq := msg.Seq
	c.pending[seq] = reply
	c.mu.Unlock()

	select {
	case m := <-reply:
		if m == nil {
			return nil, ErrDisconnected
		}
		return decodeReply(m)
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
		return nil, ctx.Err()
	}
}

func decodeReply(m *Message) (any, error) {
	switch m.Type {
	case MsgResult:
		var res CallResult
		if err := unmarshal(m.Payload, &res); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		return res.Result, nil
	case MsgFailure:
		f := &CallFailure{}
		if err := unmarshal(m.Payload, f); err != nil {
			return nil, fmt.Errorf("decode failure: %w", err)
		}
		return nil, f
	}
	return nil, fmt.Errorf("unexpected reply %v", m.Type)
}

func (c *Client) onMessage(_ *Peer, m *Message) {
	c.mu.Lock()
	ch, ok := c.pending[m.Ack]
	delete(c.pending, m.Ack)
	c.mu.Unlock()

	if ok {
		ch <- m
	}
}

// failPendingOnClose fails every outstanding call once the connection drops
func (c *Client) failPendingOnClose() {
	<-c.peer.Done()

	c.mu.Lock()
	defer c.mu.Unlock()
	for seq, ch := range c.pending {
		close(ch)
		delete(c.pending, seq)
	}
}

// Done is closed once the connection to the server is gone
func (c *Client) Done() <-chan struct{} {
	return c.peer.Done()
}

// Close disconnects from the server
func (c *Client) Close() error {
	c.peer.Close()
	return nil
}
