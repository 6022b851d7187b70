package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
)

const EventNotice = "notice"

// Message is one event written to a stream.
type Message struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Client is a connected stream. An empty Channels list receives every notice.
type Client struct {
	ClientID    string
	Channels    []string
	ConnectedAt time.Time
	MessageChan chan *Message
}

func NewClient(clientID string, channels []string) *Client {
	return &Client{
		ClientID:    clientID,
		Channels:    channels,
		ConnectedAt: time.Now().UTC(),
		MessageChan: make(chan *Message, 100),
	}
}

func (c *Client) wants(channelID string) bool {
	if len(c.Channels) == 0 {
		return true
	}
	for _, ch := range c.Channels {
		if ch == channelID {
			return true
		}
	}
	return false
}

// Hub fans notices for other channels out to the connected gateway streams.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client, replacing any previous client with the same id.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[client.ClientID]; ok {
		close(old.MessageChan)
	}
	h.clients[client.ClientID] = client
}

// Unregister removes client. It is a no-op when client was already replaced.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[client.ClientID]; ok && c == client {
		close(c.MessageChan)
		delete(h.clients, client.ClientID)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends a notice to every client subscribed to its channel and
// returns how many accepted it. Clients with a full buffer miss the notice.
func (h *Hub) Publish(n platform.Notice) (int, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return 0, err
	}
	msg := &Message{
		ID:        uuid.New().String(),
		Event:     EventNotice,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, c := range h.clients {
		if c.wants(n.ChannelID) && trySend(c, msg) {
			sent++
		}
	}
	return sent, nil
}

// Stop disconnects every client.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.MessageChan)
		delete(h.clients, id)
	}
}

func trySend(c *Client, msg *Message) bool {
	select {
	case c.MessageChan <- msg:
		return true
	default:
		return false
	}
}
