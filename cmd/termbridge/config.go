package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/termbridge/network"
	"github.com/lixenwraith/termbridge/terminal"
)

// config is the on-disk configuration; flags override individual fields
type config struct {
	Color string `yaml:"color"` // auto, truecolor, 256
	Input string `yaml:"input"` // ansi, tcell
	Debug bool   `yaml:"debug"`

	Network networkConfig `yaml:"network"`
}

type networkConfig struct {
	Listen        string        `yaml:"listen"`
	WebSocket     string        `yaml:"websocket"`
	WebSocketPath string        `yaml:"websocket_path"`
	MaxPeers      int           `yaml:"max_peers"`
	MaxPayload    int           `yaml:"max_payload"`
	Heartbeat     time.Duration `yaml:"heartbeat"`
	Disconnect    time.Duration `yaml:"disconnect_timeout"`
	CallTimeout   time.Duration `yaml:"call_timeout"`
}

func defaultConfig() *config {
	d := network.DefaultConfig()
	return &config{
		Color: "auto",
		Input: terminal.InputANSI,
		Network: networkConfig{
			Listen:        d.Address,
			WebSocketPath: d.WebSocketPath,
			MaxPeers:      d.MaxPeers,
			MaxPayload:    d.MaxPayload,
			Heartbeat:     d.HeartbeatInterval,
			Disconnect:    d.DisconnectTimeout,
			CallTimeout:   d.CallTimeout,
		},
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags over cfg
func (cfg *config) applyFlags(fs *flag.FlagSet, f *flags) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "color":
			cfg.Color = f.color
		case "input":
			cfg.Input = f.input
		case "debug":
			cfg.Debug = f.debug
		case "listen":
			cfg.Network.Listen = f.listen
		case "ws":
			cfg.Network.WebSocket = f.ws
		}
	})
}

// terminalOptions resolves the color and input settings
func (cfg *config) terminalOptions() (terminal.Options, error) {
	opts := terminal.Options{Input: cfg.Input}
	switch cfg.Input {
	case terminal.InputANSI, terminal.InputTcell:
	default:
		return opts, fmt.Errorf("unknown input %q (want ansi or tcell)", cfg.Input)
	}

	switch cfg.Color {
	case "", "auto":
		opts.AutoColor = true
	default:
		mode, err := terminal.ParseColorMode(cfg.Color)
		if err != nil {
			return opts, err
		}
		opts.ColorMode = mode
	}
	return opts, nil
}

// networkConfig builds the transport settings for serving
func (cfg *config) networkConfig() *network.Config {
	n := network.DefaultConfig()
	n.Role = network.RoleServer
	n.Address = cfg.Network.Listen
	n.WebSocketAddress = cfg.Network.WebSocket
	if cfg.Network.WebSocketPath != "" {
		n.WebSocketPath = cfg.Network.WebSocketPath
	}
	if cfg.Network.MaxPeers > 0 {
		n.MaxPeers = cfg.Network.MaxPeers
	}
	if cfg.Network.MaxPayload > 0 {
		n.MaxPayload = cfg.Network.MaxPayload
	}
	if cfg.Network.Heartbeat > 0 {
		n.HeartbeatInterval = cfg.Network.Heartbeat
	}
	if cfg.Network.Disconnect > 0 {
		n.DisconnectTimeout = cfg.Network.Disconnect
	}
	if cfg.Network.CallTimeout > 0 {
		n.CallTimeout = cfg.Network.CallTimeout
	}
	return n
}
