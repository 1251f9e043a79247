package network

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/termbridge/host"
)

// wsRequest is a call frame; id is echoed in the reply
type wsRequest struct {
	ID uint64 `json:"id"`
	CallRequest
}

type wsReply struct {
	ID     uint64       `json:"id"`
	Result any          `json:"result"`
	Error  *CallFailure `json:"error,omitempty"`
}

// WebSocketHandler serves the call protocol as JSON text frames, one reply per request
type WebSocketHandler struct {
	handler    *Handler
	upgrader   websocket.Upgrader
	maxPayload int64
}

// NewWebSocketHandler creates an endpoint over handler. The default origin
// check applies: browsers must connect from the same host.
func NewWebSocketHandler(handler *Handler, cfg *Config) *WebSocketHandler {
	return &WebSocketHandler{
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
		},
		maxPayload: int64(cfg.MaxPayload),
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("network: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	if h.maxPayload > 0 {
		conn.SetReadLimit(h.maxPayload)
	}

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("network: websocket read: %v", err)
			}
			return
		}

		reply := h.serve(mt, data)
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("network: websocket write: %v", err)
			return
		}
	}
}

func (h *WebSocketHandler) serve(mt int, data []byte) wsReply {
	if mt != websocket.TextMessage {
		return wsReply{Error: &CallFailure{
			Class:   host.RuntimeException,
			Message: "Error from boundary call: expected a text frame",
		}}
	}
	var req wsRequest
	if err := unmarshal(data, &req); err != nil {
		return wsReply{Error: &CallFailure{
			Class:   host.RuntimeException,
			Message: "Error from boundary call: malformed request: " + err.Error(),
		}}
	}
	result, failure := h.handler.Handle(req.CallRequest)
	return wsReply{ID: req.ID, Result: result, Error: failure}
}
