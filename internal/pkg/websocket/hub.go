package websocket

import (
	"context"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/yigit/unihub/internal/pkg/blobstore"
)

// broadcastBuffer bounds how many changes may wait for the hub loop
const broadcastBuffer = 256

// Hub maintains the set of active clients and fans committed storage
// changes out to them. It implements blobstore.Publisher.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Changes waiting to be broadcast
	broadcast chan blobstore.Change

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed once Run has stopped; register and unregister sends give up then
	done     chan struct{}
	stopOnce sync.Once

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Mutex for change listeners
	listenersMu sync.RWMutex

	// Change listeners
	listeners []chan blobstore.Change

	// Logger for Hub operations
	logger zerolog.Logger
}

// Event is the frame sent to clients for each change
type Event struct {
	Type string `json:"type"`
	blobstore.Change
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan blobstore.Change, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		listeners:  []chan blobstore.Change{},
		logger:     logger,
	}
}

// Run handles client registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stopOnce.Do(func() { close(h.done) })
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case change := <-h.broadcast:
			h.broadcastChange(change)
		}
	}
}

// Publish queues a committed change for broadcast. It never blocks; when
// the queue is full the change is dropped.
func (h *Hub) Publish(change blobstore.Change) {
	select {
	case h.broadcast <- change:
	default:
		h.logger.Warn().Str("key", change.Key).Msg("Change feed is full, dropping change")
	}
}

// join hands client to the hub loop. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands client back to the hub loop unless the hub has stopped
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.logger.Info().
		Str("prefix", client.prefix).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

func (h *Hub) dropLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	h.logger.Info().
		Str("prefix", client.prefix).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.dropLocked(client)
	}
}

// broadcastChange sends a change to every client watching its key
func (h *Hub) broadcastChange(change blobstore.Change) {
	// First, notify change listeners
	h.notifyListeners(change)

	data, err := json.Marshal(Event{Type: "change", Change: change})
	if err != nil {
		h.logger.Error().Err(err).Str("key", change.Key).Msg("Failed to marshal change for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for client := range h.clients {
		if !strings.HasPrefix(change.Key, client.prefix) {
			continue
		}
		select {
		case client.send <- data:
			sent++
		default:
			// slow client, disconnect it
			h.dropLocked(client)
		}
	}

	h.logger.Debug().
		Str("key", change.Key).
		Str("op", change.Op).
		Int("clientCount", sent).
		Msg("Change broadcasted")
}

// notifyListeners sends a change to all registered listeners
func (h *Hub) notifyListeners(change blobstore.Change) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		// Use non-blocking send to avoid blocking on slow listeners
		select {
		case listener <- change:
		default:
			h.logger.Warn().Msg("Skipped slow change listener")
		}
	}
}

// ClientsCount returns the number of connected clients
func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AddListener registers a channel to receive every change
func (h *Hub) AddListener(listener chan blobstore.Change) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// RemoveListener removes a listener from the hub
func (h *Hub) RemoveListener(listener chan blobstore.Change) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			// Remove listener by replacing it with the last one and truncating
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			break
		}
	}
}
