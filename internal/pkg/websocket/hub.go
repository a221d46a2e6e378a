package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models"
)

// broadcastBuffer is how many events may wait for the hub loop before
// Publish starts dropping them
const broadcastBuffer = 256

// Hub keeps the live feed subscribers of every activity and fans committed
// activity events out to them
type Hub struct {
	// Registered clients organized by activity ID. Only Run touches it.
	clients map[uuid.UUID]map[*Client]bool

	// Events waiting to be broadcast
	broadcast chan models.ActivityEvent

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Subscriber counts per activity, readable outside the loop
	mu     sync.RWMutex
	counts map[uuid.UUID]int

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan models.ActivityEvent, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		counts:     make(map[uuid.UUID]int),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish queues an event for the activity's subscribers. It never blocks; when
// the queue is full the event is dropped.
func (h *Hub) Publish(event models.ActivityEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().
			Str("activityID", event.ActivityID.String()).
			Str("type", string(event.Type)).
			Msg("Feed queue full, dropping event")
	}
}

// subscribe hands a client to the hub loop. It reports false once the hub stopped.
func (h *Hub) subscribe(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unsubscribe(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// GetClientsCount returns the number of connected clients for an activity
func (h *Hub) GetClientsCount(activityID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counts[activityID]
}

func (h *Hub) registerClient(client *Client) {
	activityID := client.activityID
	if _, ok := h.clients[activityID]; !ok {
		h.clients[activityID] = make(map[*Client]bool)
	}
	h.clients[activityID][client] = true
	h.setCount(activityID)

	h.logger.Info().
		Str("activityID", activityID.String()).
		Str("userID", client.userID.String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	activityID := client.activityID
	clients, ok := h.clients[activityID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, activityID)
	}
	h.setCount(activityID)

	h.logger.Info().
		Str("activityID", activityID.String()).
		Str("userID", client.userID.String()).
		Msg("Client unregistered")
}

func (h *Hub) broadcastEvent(event models.ActivityEvent) {
	clients, ok := h.clients[event.ActivityID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("activityID", event.ActivityID.String()).
			Msg("Failed to marshal event for broadcast")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// slow subscriber, drop it
			h.unregisterClient(client)
		}
	}

	h.logger.Debug().
		Str("activityID", event.ActivityID.String()).
		Str("type", string(event.Type)).
		Int("clientCount", len(clients)).
		Msg("Event broadcasted to activity feed")
}

func (h *Hub) closeAll() {
	for _, clients := range h.clients {
		for client := range clients {
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) setCount(activityID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.clients[activityID]); n > 0 {
		h.counts[activityID] = n
	} else {
		delete(h.counts, activityID)
	}
}
