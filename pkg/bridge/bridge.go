// Package bridge hosts the WebSocket endpoint design-tool plugins connect
// to. A connected plugin can ingest exported components, request
// transformations and receive engine events pushed as they happen.
package bridge

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/figbridge/figbridge/pkg/engine"
	"github.com/figbridge/figbridge/pkg/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Plugins connect from tool-embedded webviews with unpredictable
	// origins; auth happens at the session level, not the origin level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Bridge owns the connected plugin clients and fans engine events out to
// them.
type Bridge struct {
	engine *engine.Engine
	hub    *notify.Hub
	logger *slog.Logger

	register   chan *Client
	unregister chan *Client
	clients    map[*Client]bool
	done       chan struct{}
}

// New creates a Bridge. Run must be called before serving connections.
func New(eng *engine.Engine, hub *notify.Hub, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		engine:     eng,
		hub:        hub,
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run owns the client set and forwards engine events to interested
// clients. It returns when ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	events, cancel := b.hub.Subscribe(64)
	defer cancel()
	defer close(b.done)

	for {
		select {
		case <-ctx.Done():
			for c := range b.clients {
				close(c.send)
				delete(b.clients, c)
			}
			return
		case c := <-b.register:
			b.clients[c] = true
			b.logger.Debug("plugin connected", "client", c.id)
		case c := <-b.unregister:
			if b.clients[c] {
				delete(b.clients, c)
				close(c.send)
				b.logger.Debug("plugin disconnected", "client", c.id)
			}
		case e, ok := <-events:
			if !ok {
				return
			}
			b.dispatch(e)
		}
	}
}

// dispatch pushes an engine event to every client attached to its session.
// Events without a session go to everyone. Slow clients miss events rather
// than stalling the loop.
func (b *Bridge) dispatch(e notify.Event) {
	msg := outbound{Type: "event", Event: &e}
	for c := range b.clients {
		if e.SessionID != "" && c.sessionID() != e.SessionID {
			continue
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

// addClient hands a client to the Run loop. Returns false when the bridge
// has shut down, so callers never block on a loop that is gone.
func (b *Bridge) addClient(c *Client) bool {
	select {
	case b.register <- c:
		return true
	case <-b.done:
		return false
	}
}

// removeClient hands a disconnect to the Run loop, or drops it when the
// bridge has shut down (Run closed every client on the way out).
func (b *Bridge) removeClient(c *Client) {
	select {
	case b.unregister <- c:
	case <-b.done:
	}
}

// HandleWS upgrades an HTTP request and starts the client pumps.
func (b *Bridge) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	c := newClient(b, conn)
	if !b.addClient(c) {
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
