package network

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func dialWebSocket(t *testing.T) (*websocket.Conn, *lockedBuffer) {
	t.Helper()
	p, out := newTestProvider(t)
	srv := httptest.NewServer(NewWebSocketHandler(NewHandler(p.b, p.rt), DefaultConfig()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, out
}

func roundTrip(t *testing.T, conn *websocket.Conn, mt int, frame string) map[string]any {
	t.Helper()
	if err := conn.WriteMessage(mt, []byte(frame)); err != nil {
		t.Fatal(err)
	}
	var reply map[string]any
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	return reply
}

func TestWebSocketCall(t *testing.T) {
	conn, out := dialWebSocket(t)

	reply := roundTrip(t, conn, websocket.TextMessage,
		`{"id":7,"method":"execute","args":[[{"type":"Print","text":"ws"}]]}`)
	if reply["id"] != float64(7) || reply["error"] != nil {
		t.Fatalf("reply = %v", reply)
	}
	if out.String() != "ws" {
		t.Errorf("output = %q", out.String())
	}

	reply = roundTrip(t, conn, websocket.TextMessage, `{"id":8,"method":"terminalSize","args":[]}`)
	res, ok := reply["result"].(map[string]any)
	if !ok || res["x"] != float64(80) || res["y"] != float64(24) {
		t.Errorf("terminalSize reply = %v", reply)
	}
}

func TestWebSocketFailures(t *testing.T) {
	conn, _ := dialWebSocket(t)

	tests := []struct {
		name  string
		mt    int
		frame string
		want  string
	}{
		{"binary frame", websocket.BinaryMessage, `{}`, "expected a text frame"},
		{"malformed", websocket.TextMessage, `{"id":`, "malformed request"},
		{"unknown method", websocket.TextMessage, `{"id":1,"method":"nope","args":[]}`, "Error from boundary call: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := roundTrip(t, conn, tt.mt, tt.frame)
			e, ok := reply["error"].(map[string]any)
			if !ok {
				t.Fatalf("reply = %v", reply)
			}
			if msg, _ := e["message"].(string); !strings.Contains(msg, tt.want) {
				t.Errorf("message = %q, want %q", msg, tt.want)
			}
		})
	}
}
