// @focus: #bridge { api }
package bridge

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/status"
	"github.com/lixenwraith/termbridge/terminal"
)

// Bridge owns the output sink, the console and the input source that every
// entry point acts on. Entry points raise failures through env and return
// the zero value in that case.
type Bridge struct {
	sink    Sink
	console terminal.Console
	input   terminal.EventSource
	stats   *status.Registry

	rawMode *atomic.Bool
	waited  *status.AtomicFloat
	lastErr *status.AtomicString
}

// New creates a bridge. A nil registry gets a private one.
func New(sink Sink, console terminal.Console, input terminal.EventSource, stats *status.Registry) *Bridge {
	if stats == nil {
		stats = status.NewRegistry()
	}
	return &Bridge{
		sink:    sink,
		console: console,
		input:   input,
		stats:   stats,
		rawMode: stats.Bools.Get("terminal.raw_mode"),
		waited:  stats.Floats.Get("input.wait_seconds"),
		lastErr: stats.Strings.Get("failures.last"),
	}
}

// Stats returns the registry the bridge reports into
func (b *Bridge) Stats() *status.Registry { return b.stats }

// call counts the invocation and its failure origin, then runs fn under the trap
func call[T any](b *Bridge, env host.Env, name string, fn func() (T, error)) T {
	b.stats.Ints.Get("calls." + name).Add(1)
	return Unwrap(env, func() (v T, err error) {
		defer func() {
			if r := recover(); r != nil {
				kind := "panic"
				if _, ok := r.(*DecodeError); ok {
					kind = "contract"
				}
				b.failed(name, kind)
				panic(r)
			}
		}()
		v, err = fn()
		if err != nil {
			b.failed(name, Unify(err).Origin.String())
		}
		return v, err
	})
}

func (b *Bridge) failed(name, kind string) {
	b.stats.Ints.Get("failures." + kind).Add(1)
	b.lastErr.Store(name)
}

// RaiseUnknownTag raises a tag the host sent by name, over a transport, that
// names no variant of its family. It fails the same way an unknown tag met
// during in-process decoding does.
func (b *Bridge) RaiseUnknownTag(env host.Env, method string, uv *host.UnknownVariantError) {
	b.stats.Ints.Get("calls." + method).Add(1)
	de := &DecodeError{Family: uv.Family, Tag: uv.Tag}
	log.Printf("bridge: contract violation in %s: %v", method, de)
	b.failed(method, "contract")
	_ = env.ThrowNew(ContractViolation, de.Error())
}

type none = struct{}

// --- Queries ---

// TerminalSize returns Xy(columns, rows)
func (b *Bridge) TerminalSize(env host.Env) *host.Object {
	return call(b, env, "terminalSize", func() (*host.Object, error) {
		cols, rows, err := b.console.Size()
		if err != nil {
			return nil, IOError(err)
		}
		return EncodeXy(env, cols, rows)
	})
}

// CursorPosition returns Xy(column, row), 0-based
func (b *Bridge) CursorPosition(env host.Env) *host.Object {
	return call(b, env, "cursorPosition", func() (*host.Object, error) {
		col, row, err := b.console.CursorPosition()
		if err != nil {
			return nil, IOError(err)
		}
		return EncodeXy(env, col, row)
	})
}

// Poll reports whether an event is ready within timeout, a Duration record
func (b *Bridge) Poll(env host.Env, timeout *host.Object) bool {
	return call(b, env, "poll", func() (bool, error) {
		d, err := DecodeDuration(env, timeout)
		if err != nil {
			return false, err
		}
		start := time.Now()
		ready, err := b.input.Poll(d)
		b.waited.Add(time.Since(start).Seconds())
		if err != nil {
			return false, IOError(err)
		}
		return ready, nil
	})
}

// Read blocks until the next event and returns it as an Event record
func (b *Bridge) Read(env host.Env) *host.Object {
	return call(b, env, "read", func() (*host.Object, error) {
		start := time.Now()
		ev, err := b.input.Read()
		b.waited.Add(time.Since(start).Seconds())
		if err != nil {
			return nil, IOError(err)
		}
		return EncodeEvent(env, ev)
	})
}

// --- Immediate ---

func (b *Bridge) EnableRawMode(env host.Env) {
	call(b, env, "enableRawMode", func() (none, error) {
		if err := b.console.EnableRawMode(); err != nil {
			return none{}, IOError(err)
		}
		b.rawMode.Store(true)
		return none{}, nil
	})
}

func (b *Bridge) DisableRawMode(env host.Env) {
	call(b, env, "disableRawMode", func() (none, error) {
		if err := b.console.DisableRawMode(); err != nil {
			return none{}, IOError(err)
		}
		b.rawMode.Store(false)
		return none{}, nil
	})
}

// Flush commits staged output without staging anything new
func (b *Bridge) Flush(env host.Env) {
	call(b, env, "flush", func() (none, error) {
		return none{}, IOError(b.sink.Flush())
	})
}

// --- Bulk ---

// Enqueue stages a list of Command records
func (b *Bridge) Enqueue(env host.Env, commands host.Value) {
	call(b, env, "enqueue", func() (none, error) {
		return none{}, DispatchAll(env, b.sink, commands)
	})
}

// Execute stages a list of Command records and flushes
func (b *Bridge) Execute(env host.Env, commands host.Value) {
	call(b, env, "execute", func() (none, error) {
		if err := DispatchAll(env, b.sink, commands); err != nil {
			return none{}, err
		}
		return none{}, IOError(b.sink.Flush())
	})
}

// StatsLines returns every metric as a "name=value" line
func (b *Bridge) StatsLines(env host.Env) []string {
	return call(b, env, "stats", func() ([]string, error) {
		return b.stats.Lines(), nil
	})
}
