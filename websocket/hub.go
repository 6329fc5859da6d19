package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

type MessageType string

const (
	MessageTypeNotification MessageType = "NOTIFICATION"
	MessageTypeError        MessageType = "ERROR"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan WebSocketMessage
}

// Hub tracks connected clients keyed by user so notification pushes can
// target a single citizen or admin.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// PushToUser delivers a notification payload to every open connection of
// one user. A full send buffer drops the message; the in-app record is
// still there on next fetch.
func (h *Hub) PushToUser(userID string, payload interface{}) {
	message := WebSocketMessage{
		Type:      MessageTypeNotification,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Send <- message:
		default:
		}
	}
}

// ConnectedUsers returns the count of distinct users currently online.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]bool)
	for client := range h.clients {
		seen[client.UserID] = true
	}
	return len(seen)
}
