// Package hub fans out state-change events to every connected live viewer.
// Delivery is best effort: no ordering across clients, no redelivery.
// Consumers treat every push as "something changed, re-fetch".
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/talari-hunar/boxoffice/internal/monitoring"
)

// Envelope is the single wire shape every event uses.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one registered viewer. Messages arrive on C as serialized
// envelopes; the channel is closed when the client is unregistered.
type Client struct {
	ID string
	C  chan []byte
}

// Hub is the registry of connected clients. A client that cannot keep up
// with publishes is dropped and unregistered during the publish itself, so
// a slow viewer never stalls the others.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	buffer  int
	logger  *logrus.Logger
}

func New(buffer int, logger *logrus.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		buffer:  buffer,
		logger:  logger,
	}
}

// Register adds a new client and immediately queues a connected envelope to
// it, mirroring what viewers expect on (re)attach.
func (h *Hub) Register() *Client {
	client := &Client{
		ID: uuid.NewString(),
		C:  make(chan []byte, h.buffer),
	}

	// queued before the client joins the registry: the buffer is still
	// empty, so the send never blocks, and Publish cannot have closed C yet
	payload, err := json.Marshal(Envelope{
		Event: "connected",
		Data:  map[string]any{"timestamp": time.Now().UnixMilli()},
	})
	if err == nil {
		client.C <- payload
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	monitoring.SetConnectedViewers(n)
	return client
}

// Unregister removes a client and closes its channel. Safe to call more than
// once and safe for clients already dropped by Publish.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		close(client.C)
		monitoring.SetConnectedViewers(n)
	}
}

// Publish serializes the envelope once and attempts delivery to every client.
// A client whose buffer is full is unregistered as part of the same call.
func (h *Hub) Publish(event string, data any) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.WithError(err).WithField("event", event).Error("marshal event")
		return
	}

	h.mu.Lock()
	var dead []*Client
	for client := range h.clients {
		select {
		case client.C <- payload:
		default:
			dead = append(dead, client)
		}
	}
	for _, client := range dead {
		delete(h.clients, client)
	}
	n := len(h.clients)
	h.mu.Unlock()

	for _, client := range dead {
		close(client.C)
		h.logger.WithField("client", client.ID).Warn("dropping slow viewer")
	}
	if len(dead) > 0 {
		monitoring.SetConnectedViewers(n)
	}
	monitoring.EventPublished(event, len(dead))
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run emits a heartbeat envelope to every client on the given interval until
// the context is canceled. Heartbeats both keep intermediaries from closing
// idle connections and flush out half-open ones.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.Publish("heartbeat", map[string]any{"timestamp": time.Now().UnixMilli()})
		case <-ctx.Done():
			return
		}
	}
}
