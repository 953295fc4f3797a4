// Package websocket streams domain events to connected caseworkers. The Hub
// is an events.Publisher, so services publish to it the same way they
// publish to NATS.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/casework/casework/internal/platform/events"
)

// AllTopics subscribes a client to every topic.
const AllTopics = "*"

const sendBuffer = 64

// Message is the frame written to clients.
type Message struct {
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// ClientMessage is an inbound subscribe or unsubscribe request.
type ClientMessage struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

// Client is one connected stream. Send is closed by the hub on Unregister.
type Client struct {
	ID     string
	UserID string
	Send   chan []byte

	topics map[string]struct{}
}

func NewClient(id, userID string, topics []string) *Client {
	c := &Client{ID: id, UserID: userID, Send: make(chan []byte, sendBuffer), topics: make(map[string]struct{})}
	for _, t := range topics {
		c.topics[t] = struct{}{}
	}
	return c
}

// Hub tracks clients and their topic subscriptions.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  zerolog.Logger
	now     func() time.Time
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger.With().Str("component", "event-stream").Logger(),
		now:     time.Now,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Unregister removes the client and closes its Send channel. Calling it
// twice is safe.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
}

func (h *Hub) Subscribe(c *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range topics {
		c.topics[t] = struct{}{}
	}
}

func (h *Hub) Unsubscribe(c *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range topics {
		delete(c.topics, t)
	}
}

// ProcessMessage applies a subscribe or unsubscribe request. Unknown
// actions are ignored.
func (h *Hub) ProcessMessage(c *Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		h.Subscribe(c, msg.Topics)
	case "unsubscribe":
		h.Unsubscribe(c, msg.Topics)
	}
}

// Publish delivers event to every client subscribed to topic. Favorite
// toggles are delivered only to the user who made them. Slow clients whose
// buffer is full miss the event.
func (h *Hub) Publish(_ context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	frame, err := json.Marshal(Message{Topic: topic, Timestamp: h.now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("marshaling frame: %w", err)
	}
	owner := ownerOf(event)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.wants(topic) || (owner != "" && c.UserID != owner) {
			continue
		}
		select {
		case c.Send <- frame:
		default:
			h.logger.Warn().Str("client_id", c.ID).Str("topic", topic).Msg("client buffer full, dropping event")
		}
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.Send)
	}
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TopicCount returns how many clients receive topic, counting wildcard
// subscribers.
func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.wants(topic) {
			n++
		}
	}
	return n
}

// wants must be called with the hub lock held.
func (c *Client) wants(topic string) bool {
	if _, ok := c.topics[AllTopics]; ok {
		return true
	}
	_, ok := c.topics[topic]
	return ok
}

func ownerOf(event any) string {
	switch e := event.(type) {
	case events.FavoriteToggled:
		return e.UserID
	case *events.FavoriteToggled:
		return e.UserID
	}
	return ""
}
