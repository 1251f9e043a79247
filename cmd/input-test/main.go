// Command input-test echoes every terminal event as the tree a host runtime
// receives for it. Ctrl+C quits.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/termbridge/bridge"
	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/terminal"
)

var kitty = flag.Bool("kitty", true, "request kitty keyboard enhancement")

// reportingOn enables every input report the event encoder understands
func reportingOn(kittyFlags bool) []terminal.Command {
	cmds := []terminal.Command{
		terminal.EnableMouseCapture{},
		terminal.EnableFocusChange{},
		terminal.EnableBracketedPaste{},
	}
	if kittyFlags {
		cmds = append(cmds, terminal.PushKeyboardEnhancementFlags{Flags: terminal.KeyboardFlagsFromBits(0xff)})
	}
	return cmds
}

func reportingOff(kittyFlags bool) []terminal.Command {
	cmds := []terminal.Command{
		terminal.DisableMouseCapture{},
		terminal.DisableFocusChange{},
		terminal.DisableBracketedPaste{},
	}
	if kittyFlags {
		cmds = append(cmds, terminal.PopKeyboardEnhancementFlags{})
	}
	return cmds
}

// describe renders ev as the JSON tree of its foreign Event record
func describe(rt *host.Runtime, ev terminal.Event) (string, error) {
	obj, err := bridge.EncodeEvent(rt, ev)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(host.ToTree(host.Ref(obj)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func isInterrupt(ev terminal.Event) bool {
	return ev.Type == terminal.EventKey &&
		ev.Key.Code == terminal.Char('c') &&
		ev.Key.Modifiers&terminal.ModControl != 0 &&
		ev.Key.Kind == terminal.KeyPress
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT-TEST CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "input-test: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rt, err := bridge.NewRuntime()
	if err != nil {
		return err
	}

	term := terminal.NewStd(terminal.DetectColorMode())
	defer term.Close()
	if err := term.EnableRawMode(); err != nil {
		return err
	}

	out := term.Output()
	for _, cmd := range reportingOn(*kitty) {
		out.Queue(cmd)
	}
	out.Queue(terminal.Print{Text: "input-test: press keys, click, paste, resize. Ctrl+C quits.\r\n"})
	if err := out.Flush(); err != nil {
		return err
	}
	defer func() {
		for _, cmd := range reportingOff(*kitty) {
			out.Queue(cmd)
		}
		out.Flush()
	}()

	in := term.Input()
	for {
		ev, err := in.Read()
		if err != nil {
			return err
		}
		if isInterrupt(ev) {
			return nil
		}
		line, err := describe(rt, ev)
		if err != nil {
			line = fmt.Sprintf("%v: %v", ev, err)
		}
		if err := out.Execute(terminal.Print{Text: line + "\r\n"}); err != nil {
			return err
		}
	}
}
