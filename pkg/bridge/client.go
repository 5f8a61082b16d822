package bridge

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/figbridge/figbridge/pkg/emit"
	"github.com/figbridge/figbridge/pkg/notify"
	"github.com/figbridge/figbridge/pkg/scene"
	"github.com/figbridge/figbridge/pkg/store"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer (4MB for scene exports)
	maxMessageSize = 4 * 1024 * 1024
)

// inbound is a message received from a plugin.
type inbound struct {
	Type       string           `json:"type"`
	SessionID  string           `json:"sessionId,omitempty"`
	Components json.RawMessage  `json:"components,omitempty"`
	Meta       *store.BatchMeta `json:"meta,omitempty"`
	Options    *emit.Options    `json:"options,omitempty"`
	Query      string           `json:"query,omitempty"`
	Limit      int              `json:"limit,omitempty"`
}

// outbound is a message pushed to a plugin.
type outbound struct {
	Type    string        `json:"type"`
	Error   string        `json:"error,omitempty"`
	Result  any           `json:"result,omitempty"`
	Event   *notify.Event `json:"event,omitempty"`
	InReply string        `json:"inReply,omitempty"`
}

// Client is one connected plugin.
type Client struct {
	bridge *Bridge
	conn   *websocket.Conn
	send   chan outbound
	id     string

	mu      sync.RWMutex
	session string
}

func newClient(b *Bridge, conn *websocket.Conn) *Client {
	return &Client{
		bridge: b,
		conn:   conn,
		send:   make(chan outbound, 32),
		id:     uuid.NewString(),
	}
}

func (c *Client) sessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(id string) {
	c.mu.Lock()
	c.session = id
	c.mu.Unlock()
}

// push queues an outbound message, dropping it when the client is backed up.
func (c *Client) push(msg outbound) {
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) readPump() {
	defer func() {
		c.bridge.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				c.bridge.logger.Warn("websocket read error", "client", c.id, "error", err)
			}
			break
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.push(outbound{Type: "error", Error: "malformed message: " + err.Error()})
			continue
		}
		c.routeMessage(&msg)
	}
}

// routeMessage dispatches an inbound plugin message. Engine calls run
// inline: the plugin protocol is request/response per connection, and
// events for other clients flow through the bridge loop.
func (c *Client) routeMessage(msg *inbound) {
	switch msg.Type {
	case "join":
		c.setSession(msg.SessionID)
		c.push(outbound{Type: "joined", InReply: "join", Result: map[string]string{"sessionId": msg.SessionID}})
	case "ingest":
		c.handleIngest(msg)
	case "transform":
		c.handleTransform(msg)
	case "search":
		res := c.bridge.engine.Search(msg.Query, msg.Limit)
		c.push(outbound{Type: "result", InReply: "search", Result: res})
	case "ping":
		// deadline refresh is handled by the pong handler
	default:
		c.push(outbound{Type: "error", InReply: msg.Type, Error: "unknown message type: " + msg.Type})
	}
}

func (c *Client) handleIngest(msg *inbound) {
	raw, ok := c.decodeComponents(msg, "ingest")
	if !ok {
		return
	}
	var meta store.BatchMeta
	if msg.Meta != nil {
		meta = *msg.Meta
	}
	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = c.sessionID()
	}

	res, err := c.bridge.engine.Ingest(sessionID, meta, raw)
	if err != nil {
		c.push(outbound{Type: "error", InReply: "ingest", Error: err.Error()})
		return
	}
	c.setSession(res.SessionID)
	c.push(outbound{Type: "result", InReply: "ingest", Result: res})
}

func (c *Client) handleTransform(msg *inbound) {
	var opts emit.Options
	if msg.Options != nil {
		opts = *msg.Options
	}
	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = c.sessionID()
	}

	if len(msg.Components) > 0 {
		raw, ok := c.decodeComponents(msg, "transform")
		if !ok {
			return
		}
		res, err := c.bridge.engine.Transform(sessionID, raw, opts)
		if err != nil {
			c.push(outbound{Type: "error", InReply: "transform", Error: err.Error()})
			return
		}
		c.push(outbound{Type: "result", InReply: "transform", Result: res})
		return
	}

	res, err := c.bridge.engine.TransformStored(sessionID, opts)
	if err != nil {
		c.push(outbound{Type: "error", InReply: "transform", Error: err.Error()})
		return
	}
	c.push(outbound{Type: "result", InReply: "transform", Result: res})
}

func (c *Client) decodeComponents(msg *inbound, reply string) ([]scene.RawNode, bool) {
	var raw []scene.RawNode
	if err := json.Unmarshal(msg.Components, &raw); err != nil {
		c.push(outbound{Type: "error", InReply: reply, Error: "invalid components payload: " + err.Error()})
		return nil, false
	}
	if len(raw) == 0 {
		c.push(outbound{Type: "error", InReply: reply, Error: "components must be a non-empty array"})
		return nil, false
	}
	return raw, true
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.bridge.logger.Warn("websocket write error", "client", c.id, "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
