package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/lixenwraith/termbridge/bridge"
	"github.com/lixenwraith/termbridge/network"
	"github.com/lixenwraith/termbridge/service"
	"github.com/lixenwraith/termbridge/status"
	"github.com/lixenwraith/termbridge/terminal"
)

type flags struct {
	config string
	listen string
	ws     string
	color  string
	input  string
	debug  bool
	script string
}

func parseFlags(fs *flag.FlagSet, args []string) (*flags, error) {
	f := &flags{}
	fs.StringVar(&f.config, "config", "", "YAML configuration file")
	fs.StringVar(&f.listen, "listen", "", "framed TCP listen address, overrides the config file (\"\" disables)")
	fs.StringVar(&f.ws, "ws", "", "WebSocket listen address, overrides the config file")
	fs.StringVar(&f.color, "color", "auto", "Color mode: auto, truecolor, 256")
	fs.StringVar(&f.input, "input", terminal.InputANSI, "Input source: ansi, tcell")
	fs.BoolVar(&f.debug, "debug", false, "write logs to logs/termbridge.log")
	fs.StringVar(&f.script, "script", "", "execute a command list (.yaml or .json) once and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func main() {
	// Panic recovery: the terminal is reset even if the bridge crashes outside a trapped call
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mTERMBRIDGE CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "termbridge: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("termbridge", flag.ContinueOnError)
	f, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.config)
	if err != nil {
		return err
	}
	cfg.applyFlags(fs, f)

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	opts, err := cfg.terminalOptions()
	if err != nil {
		return err
	}

	netCfg := cfg.networkConfig()
	if f.script != "" {
		netCfg.Role = network.RoleNone
	} else if netCfg.Address == "" && netCfg.WebSocketAddress == "" {
		return fmt.Errorf("nothing to serve: set -listen or -ws")
	}

	stats := status.NewRegistry()
	termSvc := terminal.NewService()
	bridgeSvc := bridge.NewService(termSvc, stats)
	netSvc := network.NewService(bridgeSvc)

	hub := service.NewHub(stats)
	for _, reg := range []struct {
		svc  service.Service
		args []any
	}{
		{termSvc, []any{opts}},
		{bridgeSvc, nil},
		{netSvc, []any{netCfg}},
	} {
		if err := hub.Register(reg.svc, reg.args...); err != nil {
			return err
		}
	}

	if err := hub.InitAll(); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer func() {
		hub.StopAll()
		for _, line := range stats.Lines() {
			log.Print(line)
		}
	}()

	if f.script != "" {
		cmds, err := loadScript(f.script)
		if err != nil {
			return err
		}
		return runScript(network.NewHandler(bridgeSvc.Bridge(), bridgeSvc.Runtime()), cmds)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	log.Printf("termbridge: serving (tcp=%q ws=%q)", netCfg.Address, netCfg.WebSocketAddress)
	s := <-sig
	log.Printf("termbridge: %v, shutting down", s)
	return nil
}
