package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hays/affinity-mcp/observability"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSTransport frames one JSON-RPC message per WebSocket text message.
// Writes are serialized; gorilla connections allow one concurrent writer.
type WSTransport struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewWSTransport wraps an established WebSocket connection.
func NewWSTransport(conn *websocket.Conn) *WSTransport {
	return &WSTransport{conn: conn}
}

func (t *WSTransport) ReadMessage() (*JSONRPCMessage, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &msg, nil
}

func (t *WSTransport) WriteMessage(msg *JSONRPCMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

func (t *WSTransport) Close() error { return t.conn.Close() }

// ServeWebSocket accepts WebSocket sessions on addr and runs one dispatch
// loop per connection via session. It blocks until ctx is cancelled or the
// listener fails.
func ServeWebSocket(ctx context.Context, addr string, obs observability.Observer, session func(Transport)) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			obs.OnEvent(r.Context(), observability.Event{
				Type:   "rpc.ws_upgrade_failed",
				Level:  observability.LevelWarn,
				Source: "server",
				Data:   map[string]any{"error": err.Error()},
			})
			return
		}
		go session(NewWSTransport(conn))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	obs.OnEvent(ctx, observability.Event{
		Type:   "rpc.ws_listening",
		Level:  observability.LevelInfo,
		Source: "server",
		Data:   map[string]any{"addr": addr},
	})

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
