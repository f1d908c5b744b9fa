package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/nba-live-sync/internal/logging"
)

const (
	// A connection is stale once this many poll-scale keepalive
	// windows pass without a client ping.
	staleAfter   = 90 * time.Second
	writeTimeout = 10 * time.Second
	sendBuffer   = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one connected socket subscriber with a buffered send queue
// so a slow reader never blocks the broadcast path.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	logger *slog.Logger

	send      chan []byte
	closeOnce sync.Once
}

// ServeWS upgrades an HTTP request and runs the subscriber's pumps.
func ServeWS(hub *Hub, logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(logger, "websocket upgrade failed", "err", err)
		return
	}

	c := &Client{
		hub:    hub,
		conn:   conn,
		logger: logger,
		send:   make(chan []byte, sendBuffer),
	}
	hub.Register(c)

	go c.writePump()
	go c.readPump()
}

// enqueue offers a frame to the subscriber without blocking. A full
// queue or closed client drops the frame and reports false.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump consumes client keepalives; each ping extends the read
// deadline. A quiet or broken connection times out and unregisters.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(staleAfter))

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == TypePing {
			_ = c.conn.SetReadDeadline(time.Now().Add(staleAfter))
		}
	}
}

// writePump drains the send queue onto the wire.
func (c *Client) writePump() {
	defer func() { _ = c.conn.Close() }()

	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	// Hub closed the queue; say goodbye politely.
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
