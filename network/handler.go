package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/lixenwraith/termbridge/bridge"
	"github.com/lixenwraith/termbridge/host"
)

// Handler runs wire calls against the bridge. Calls from every connection
// are serialized: the bridge and its runtime have a single logical caller.
type Handler struct {
	mu      sync.Mutex
	bridge  *bridge.Bridge
	runtime *host.Runtime
}

// NewHandler creates a handler over the bridge and the runtime it raises into
func NewHandler(b *bridge.Bridge, rt *host.Runtime) *Handler {
	return &Handler{bridge: b, runtime: rt}
}

// Handle invokes req and returns the tree-encoded result, or the exception
// the entry point raised
func (h *Handler) Handle(req CallRequest) (any, *CallFailure) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A previous call never leaks its exception into this one
	h.runtime.TakeException()

	args, err := h.decodeArgs(req)
	var uv *host.UnknownVariantError
	switch {
	case errors.As(err, &uv):
		h.bridge.RaiseUnknownTag(h.runtime, req.Method, uv)
	case err != nil:
		bridge.Raise(h.runtime, bridge.CallError(err))
	default:
		v := h.bridge.Invoke(h.runtime, req.Method, args)
		if !h.runtime.ExceptionCheck() {
			return host.ToTree(v), nil
		}
	}

	exc := h.runtime.TakeException()
	return nil, &CallFailure{Class: exc.Class, Message: exc.Message}
}

// decodeArgs builds host values for the method's parameters from their trees.
// Unknown methods pass through with no arguments for Invoke to reject.
func (h *Handler) decodeArgs(req CallRequest) ([]host.Value, error) {
	m, ok := bridge.LookupMethod(req.Method)
	if !ok {
		return nil, nil
	}
	if len(req.Args) != len(m.Params) {
		return nil, fmt.Errorf("%s: %w: want %d, got %d", req.Method, host.ErrArity, len(m.Params), len(req.Args))
	}
	args := make([]host.Value, len(m.Params))
	for i, p := range m.Params {
		v, err := h.runtime.FromTree(p, req.Args[i])
		if err != nil {
			return nil, fmt.Errorf("%s(%s): %w", req.Method, p.Name, err)
		}
		args[i] = v
	}
	return args, nil
}

// HandlePayload decodes a JSON call and encodes its reply
func (h *Handler) HandlePayload(payload []byte) (MessageType, []byte) {
	var req CallRequest
	if err := unmarshal(payload, &req); err != nil {
		return failureReply(&CallFailure{
			Class:   host.RuntimeException,
			Message: "Error from boundary call: malformed request: " + err.Error(),
		})
	}

	result, failure := h.Handle(req)
	if failure != nil {
		return failureReply(failure)
	}
	data, err := json.Marshal(CallResult{Result: result})
	if err != nil {
		return failureReply(&CallFailure{Class: host.RuntimeException, Message: "IO error: " + err.Error()})
	}
	return MsgResult, data
}

func failureReply(f *CallFailure) (MessageType, []byte) {
	data, _ := json.Marshal(f)
	return MsgFailure, data
}
