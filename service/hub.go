package service

import (
	"fmt"
	"log"

	"github.com/lixenwraith/termbridge/status"
)

// Lifecycle states published as service.<name> in the status registry
const (
	StateRegistered  = "registered"
	StateInitialized = "initialized"
	StateRunning     = "running"
	StateStopped     = "stopped"
	StateFailed      = "failed"
)

type entry struct {
	svc   Service
	args  []any // passed to Init
	state *status.AtomicString
}

// Hub brings the terminal, the bridge and the transports up in dependency
// order and tears them down in reverse
type Hub struct {
	entries map[string]*entry
	order   []string // registration order, then dependency order after InitAll
	sorted  bool
	started []string // for rollback and StopAll
	stats   *status.Registry
}

// NewHub creates an empty hub reporting lifecycle states into stats.
// A nil registry gets a private one.
func NewHub(stats *status.Registry) *Hub {
	if stats == nil {
		stats = status.NewRegistry()
	}
	return &Hub{entries: make(map[string]*entry), stats: stats}
}

// Register adds a service with the arguments its Init receives
func (h *Hub) Register(svc Service, args ...any) error {
	name := svc.Name()
	if _, exists := h.entries[name]; exists {
		return fmt.Errorf("service already registered: %s", name)
	}
	e := &entry{svc: svc, args: args, state: h.stats.Strings.Get("service." + name)}
	e.state.Store(StateRegistered)
	h.entries[name] = e
	h.order = append(h.order, name)
	h.sorted = false
	return nil
}

// State returns the last lifecycle state of a registered service
func (h *Hub) State(name string) string {
	e, ok := h.entries[name]
	if !ok {
		return ""
	}
	return e.state.Load()
}

// InitAll orders services by dependency and calls Init on each.
// On failure the services already initialized are stopped in reverse.
func (h *Hub) InitAll() error {
	if !h.sorted {
		if err := h.sortByDependency(); err != nil {
			return err
		}
	}

	for i, name := range h.order {
		e := h.entries[name]
		if err := e.svc.Init(e.args...); err != nil {
			e.state.Store(StateFailed)
			h.stopReverse(h.order[:i])
			return fmt.Errorf("service %s init failed: %w", name, err)
		}
		e.state.Store(StateInitialized)
	}
	return nil
}

// StartAll calls Start in dependency order.
// On failure the services already started are stopped in reverse.
func (h *Hub) StartAll() error {
	if !h.sorted {
		return fmt.Errorf("services not initialized")
	}
	h.started = h.started[:0]

	for _, name := range h.order {
		e := h.entries[name]
		if err := e.svc.Start(); err != nil {
			e.state.Store(StateFailed)
			h.stopReverse(h.started)
			h.started = nil
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		e.state.Store(StateRunning)
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops every started service in reverse order. Stop errors are
// logged and never cut the teardown short.
func (h *Hub) StopAll() {
	h.stopReverse(h.started)
	h.started = nil
}

func (h *Hub) stopReverse(names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		e := h.entries[names[i]]
		if err := e.svc.Stop(); err != nil {
			log.Printf("service %s stop: %v", names[i], err)
			e.state.Store(StateFailed)
			continue
		}
		e.state.Store(StateStopped)
	}
}

// sortByDependency reorders h.order so every service follows its
// dependencies (Kahn's algorithm). Ties keep registration order.
func (h *Hub) sortByDependency() error {
	pending := make(map[string]int, len(h.order))
	dependents := make(map[string][]string)
	for _, name := range h.order {
		deps := h.entries[name].svc.Dependencies()
		for _, dep := range deps {
			if _, ok := h.entries[dep]; !ok {
				return fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			dependents[dep] = append(dependents[dep], name)
		}
		pending[name] = len(deps)
	}

	var ready []string
	for _, name := range h.order {
		if pending[name] == 0 {
			ready = append(ready, name)
		}
	}

	sorted := make([]string, 0, len(h.order))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		sorted = append(sorted, name)
		for _, d := range dependents[name] {
			if pending[d]--; pending[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(sorted) != len(h.order) {
		return fmt.Errorf("circular dependency detected in services")
	}
	h.order = sorted
	h.sorted = true
	return nil
}
