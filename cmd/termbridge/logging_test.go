package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirTemp runs the test inside a scratch directory so logs/ never lands in the tree
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		_ = os.Chdir(wd)
	})
}

func readLog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSetupLogging_Disabled(t *testing.T) {
	chdirTemp(t)

	if f := setupLogging(false); f != nil {
		f.Close()
		t.Fatal("log file opened without -debug")
	}
	if log.Writer() != io.Discard {
		t.Errorf("log output = %v, want io.Discard", log.Writer())
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Error("logs/ created without -debug")
	}
}

func TestSetupLogging_Debug(t *testing.T) {
	chdirTemp(t)

	f := setupLogging(true)
	if f == nil {
		t.Fatal("no log file with -debug")
	}
	defer f.Close()

	if w := log.Writer(); w == os.Stdout || w == os.Stderr {
		t.Fatal("log output shares the terminal")
	}
	log.Println("network: serving on 127.0.0.1:7777")
	if got := readLog(t); !strings.Contains(got, "serving on 127.0.0.1:7777") {
		t.Errorf("log = %q", got)
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	chdirTemp(t)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatal(err)
	}

	f := setupLogging(true)
	if f == nil {
		t.Fatal("no log file after rotation")
	}
	defer f.Close()

	rotated, err := filepath.Glob(filepath.Join(logDir, "termbridge-*.log"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rotated) != 1 {
		t.Fatalf("rotated logs = %v, want one termbridge-*.log", rotated)
	}
	if info, err := os.Stat(rotated[0]); err != nil || info.Size() != maxLogSize+1 {
		t.Errorf("rotated log lost its content: %v", err)
	}
	if info, err := os.Stat(logPath); err != nil || info.Size() != 0 {
		t.Errorf("fresh log not empty: %v", err)
	}
}

func TestSetupLogging_SmallLogAppends(t *testing.T) {
	chdirTemp(t)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(logDir, logFileName), []byte("earlier run\n"), 0644); err != nil {
		t.Fatal(err)
	}

	f := setupLogging(true)
	if f == nil {
		t.Fatal("no log file")
	}
	defer f.Close()
	log.Println("later run")

	got := readLog(t)
	if !strings.HasPrefix(got, "earlier run\n") || !strings.Contains(got, "later run") {
		t.Errorf("log = %q", got)
	}
	if rotated, _ := filepath.Glob(filepath.Join(logDir, "termbridge-*.log")); len(rotated) != 0 {
		t.Errorf("rotated below the size limit: %v", rotated)
	}
}

// Bridge diagnostics land in the log file and never in the escape stream
func TestSetupLogging_BridgeDiagnosticsStayOffTerminal(t *testing.T) {
	chdirTemp(t)

	f := setupLogging(true)
	if f == nil {
		t.Fatal("no log file")
	}
	defer f.Close()

	h, out := newScriptHandler(t)
	if err := runScript(h, []any{map[string]any{"type": "Teleport"}}); err == nil {
		t.Fatal("unknown command accepted")
	}
	if out.Len() != 0 {
		t.Errorf("terminal output = %q", out.String())
	}
	if got := readLog(t); !strings.Contains(got, "not a valid Command: Teleport") {
		t.Errorf("log = %q", got)
	}
}
