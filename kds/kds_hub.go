package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-pos/utils"
)

// DefaultWriteTimeout bounds a single write to a screen.
const DefaultWriteTimeout = 2 * time.Second

// Hub keeps the websocket connections of the kitchen, delivery and order
// screens and pushes every order event to all of them. A screen that cannot
// take a message within WriteTimeout is dropped.
type Hub struct {
	WriteTimeout time.Duration

	clients map[string]*client
	mutex   sync.Mutex
}

type client struct {
	conn *websocket.Conn
	role string
}

func NewHub() *Hub {
	return &Hub{WriteTimeout: DefaultWriteTimeout, clients: make(map[string]*client)}
}

// Register adds a connection and returns the id used to unregister it.
func (h *Hub) Register(conn *websocket.Conn, role string) string {
	id := uuid.NewString()

	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[id] = &client{conn: conn, role: role}

	utils.InfoLogger.Infof("KDS client %s registered (role=%s, clients=%d)", id, role, len(h.clients))
	return id
}

// Unregister drops and closes a connection.
func (h *Hub) Unregister(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		c.conn.Close()
	}
}

// ClientCount returns the number of connected screens.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish writes msg to every client. Clients that fail the write are dropped.
func (h *Hub) Publish(_ context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(h.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("Error sending %s to client %s (role=%s): %v", msg.Event, id, c.role, err)
			delete(h.clients, id)
			c.conn.Close()
		}
	}
	return nil
}
