package notify

import (
	"sync"
	"time"

	"halisaha-backend/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size accepted from the peer
	maxMessageSize = 512
)

// Publisher delivers an encoded notification to a user's live connections
type Publisher interface {
	Publish(userID uuid.UUID, payload []byte) int
}

// Hub tracks the open websocket connections of each user
type Hub struct {
	mu           sync.RWMutex
	clients      map[uuid.UUID]map[*Client]struct{}
	sendBuffer   int
	pingInterval time.Duration
}

// Client is one websocket connection of a user
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
	once   sync.Once
}

// NewHub creates a hub whose clients buffer up to sendBuffer undelivered messages
func NewHub(sendBuffer int, pingInterval time.Duration) *Hub {
	if sendBuffer < 1 {
		sendBuffer = 1
	}
	if pingInterval <= 0 {
		pingInterval = 50 * time.Second
	}
	return &Hub{
		clients:      make(map[uuid.UUID]map[*Client]struct{}),
		sendBuffer:   sendBuffer,
		pingInterval: pingInterval,
	}
}

// Register adds conn as a connection of userID and returns its client
func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) *Client {
	c := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, h.sendBuffer),
		userID: userID,
	}

	h.mu.Lock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	return c
}

// Unregister removes the client and closes its send channel
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if conns, ok := h.clients[c.userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()

	c.once.Do(func() { close(c.send) })
}

// Publish queues payload on every connection of userID and returns how many accepted it.
// A connection whose buffer is full misses the message.
func (h *Hub) Publish(userID uuid.UUID, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients[userID] {
		select {
		case c.send <- payload:
			delivered++
		default:
			logger.New().WithField("user_id", userID.String()).Warn("websocket send buffer full, dropping notification")
		}
	}
	return delivered
}

// ConnectionCount returns the number of open connections of userID
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Serve pumps messages to the connection until it closes, then unregisters the client.
// The client never sends data; reads only process control frames.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	pongWait := c.hub.pingInterval * 10 / 9
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.New().WithField("user_id", c.userID.String()).WithError(err).Debug("websocket closed unexpectedly")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
