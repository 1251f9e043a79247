package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/termbridge/network"
	"github.com/lixenwraith/termbridge/terminal"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Color != "auto" || cfg.Input != terminal.InputANSI || cfg.Debug {
		t.Errorf("defaults = %+v", cfg)
	}
	n := cfg.networkConfig()
	d := network.DefaultConfig()
	if n.Role != network.RoleServer || n.Address != d.Address || n.MaxPeers != d.MaxPeers || n.WebSocketAddress != "" {
		t.Errorf("network defaults = %+v", n)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "termbridge.yaml", `
color: "256"
input: tcell
network:
  listen: 127.0.0.1:9000
  websocket: 127.0.0.1:9001
  websocket_path: /bridge
  max_peers: 2
  heartbeat: 2s
  call_timeout: 1m
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	opts, err := cfg.terminalOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.AutoColor || opts.ColorMode != terminal.ColorMode256 || opts.Input != terminal.InputTcell {
		t.Errorf("options = %+v", opts)
	}

	n := cfg.networkConfig()
	if n.Address != "127.0.0.1:9000" || n.WebSocketAddress != "127.0.0.1:9001" || n.WebSocketPath != "/bridge" {
		t.Errorf("addresses = %q %q %q", n.Address, n.WebSocketAddress, n.WebSocketPath)
	}
	if n.MaxPeers != 2 || n.HeartbeatInterval != 2*time.Second || n.CallTimeout != time.Minute {
		t.Errorf("limits = %d %v %v", n.MaxPeers, n.HeartbeatInterval, n.CallTimeout)
	}
	if n.DisconnectTimeout != network.DefaultConfig().DisconnectTimeout {
		t.Errorf("unset field lost its default: %v", n.DisconnectTimeout)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
	path := writeFile(t, "bad.yaml", "colour: 256\n")
	if _, err := loadConfig(path); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Errorf("unknown key: %v", err)
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := loadConfig(writeFile(t, "empty.yaml", ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Color != "auto" {
		t.Errorf("color = %q", cfg.Color)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Network.WebSocket = "127.0.0.1:9001"

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f, err := parseFlags(fs, []string{"-listen", "", "-color", "truecolor", "-debug"})
	if err != nil {
		t.Fatal(err)
	}
	cfg.applyFlags(fs, f)

	if cfg.Network.Listen != "" {
		t.Errorf("listen = %q, want disabled", cfg.Network.Listen)
	}
	if cfg.Network.WebSocket != "127.0.0.1:9001" {
		t.Errorf("unset -ws clobbered config: %q", cfg.Network.WebSocket)
	}
	if cfg.Color != "truecolor" || !cfg.Debug || cfg.Input != terminal.InputANSI {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestTerminalOptionsErrors(t *testing.T) {
	tests := []struct {
		color, input string
	}{
		{"16", terminal.InputANSI},
		{"auto", "curses"},
	}
	for _, tt := range tests {
		cfg := defaultConfig()
		cfg.Color, cfg.Input = tt.color, tt.input
		if _, err := cfg.terminalOptions(); err == nil {
			t.Errorf("color=%q input=%q accepted", tt.color, tt.input)
		}
	}
}
