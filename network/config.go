package network

import (
	"crypto/tls"
	"time"
)

// Role selects whether the network service serves at all
type Role uint8

const (
	RoleNone   Role = iota // Network disabled
	RoleServer             // Serves the bridge entry points
)

// Config holds network configuration
type Config struct {
	// Role is consulted by Service only; Dial ignores it
	Role Role

	// Address to bind (Service) or connect to (Dial); empty disables framed TCP
	Address string

	// WebSocketAddress to bind for the WebSocket endpoint; empty disables it
	WebSocketAddress string
	WebSocketPath    string

	// TLS configuration (nil = plaintext, local use only)
	TLS *tls.Config

	// Connection limits
	MaxPeers   int
	MaxPayload int

	// Timing
	ConnectTimeout    time.Duration
	WriteTimeout      time.Duration
	HeartbeatInterval time.Duration
	// DisconnectTimeout drops a peer silent for this long; heartbeats keep idle peers alive
	DisconnectTimeout time.Duration
	CallTimeout       time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
}

// DefaultConfig returns production-safe defaults
func DefaultConfig() *Config {
	return &Config{
		Role:              RoleNone,
		Address:           "127.0.0.1:7777",
		WebSocketPath:     "/ws",
		TLS:               nil, // Must be explicitly configured for remote hosts
		MaxPeers:          4,
		MaxPayload:        16 << 20,
		ConnectTimeout:    5 * time.Second,
		WriteTimeout:      5 * time.Second,
		HeartbeatInterval: 10 * time.Second,
		DisconnectTimeout: 30 * time.Second,
		CallTimeout:       30 * time.Second,
		ReadBufferSize:    64 * 1024,
		WriteBufferSize:   64 * 1024,
		SendQueueSize:     256,
	}
}

// DebugConfig returns a plaintext config for local testing
func DebugConfig(role Role, addr string) *Config {
	cfg := DefaultConfig()
	cfg.Role = role
	cfg.Address = addr
	cfg.TLS = nil
	return cfg
}
