// Package live pushes change events of a sport to connected websocket clients.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

// Message - кадр, отправляемый клиенту.
type Message struct {
	Type    string      `json:"type"`
	SportID int         `json:"sport_id"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	room     int
	mu       sync.Mutex
	isClosed bool
}

// Hub groups clients into rooms, one room per sport.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	rooms      map[int]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
	now        func() time.Time
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. Browser connections are accepted from the same host
// and from allowedOrigins; "*" accepts any origin.
func NewHub(logger *slog.Logger, allowedOrigins ...string) *Hub {
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[int]map[*Client]bool),
		logger:     logger,
		now:        time.Now,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// Run processes client registration until ctx is cancelled.
// On exit every remaining client is disconnected.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			size := len(h.rooms[client.room])
			h.mu.Unlock()
			h.logger.Debug("live client registered", slog.Int("sport_id", client.room), slog.Int("clients", size))

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, room := range h.rooms {
				for client := range room {
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	room, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	client.closeSend()
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.room)
	}
	h.logger.Debug("live client unregistered", slog.Int("sport_id", client.room), slog.Int("clients", len(room)))
}

// RoomSize returns the number of clients listening to a sport.
func (h *Hub) RoomSize(sportID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sportID])
}

// Publish sends an event to every client of the sport. Slow clients are skipped.
func (h *Hub) Publish(sportID int, event string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[sportID]
	if !ok {
		return
	}

	data, err := json.Marshal(Message{Type: event, SportID: sportID, Payload: payload, SentAt: h.now().UTC()})
	if err != nil {
		h.logger.Error("failed to marshal live message", slog.String("event", event), slog.Any("error", err))
		return
	}

	for client := range room {
		client.mu.Lock()
		if !client.isClosed {
			select {
			case client.send <- data:
			default:
				h.logger.Warn("live client send buffer full, message dropped", slog.Int("sport_id", sportID))
			}
		}
		client.mu.Unlock()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isClosed {
		close(c.send)
		c.isClosed = true
	}
}

// readPump discards incoming messages and keeps the read deadline alive.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("live client read error", slog.Int("sport_id", c.room), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
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
			// один кадр - одно JSON-сообщение
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
