package pkgws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrHubClosed is returned by Broadcast once Run has returned.
var ErrHubClosed = errors.New("websocket hub is closed")

// Options configures a Hub.
type Options struct {
	// BroadcastBuffer is the number of pending broadcasts Run may lag behind.
	BroadcastBuffer int
	// ClientBuffer is the per-client queue length before the client is dropped.
	ClientBuffer int
	// AllowedOrigins restricts the Origin header on upgrade; empty or "*" allows all.
	AllowedOrigins []string
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	clientBuffer int
	upgrader     websocket.Upgrader
}

// NewHub creates a Hub. Run must be started before clients connect.
func NewHub(opts Options) *Hub {
	if opts.BroadcastBuffer < 1 {
		opts.BroadcastBuffer = 64
	}
	if opts.ClientBuffer < 1 {
		opts.ClientBuffer = 256
	}

	h := &Hub{
		clients:      make(map[*Client]struct{}),
		broadcast:    make(chan []byte, opts.BroadcastBuffer),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		clientBuffer: opts.ClientBuffer,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}

	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			set[origin] = struct{}{}
		}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Run is the hub loop. It returns when ctx is done, after closing every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			slog.InfoContext(ctx, "websocket hub stopped")
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			slog.Info("websocket client registered", "client_id", client.id, "total_clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			slog.Info("websocket client unregistered", "client_id", client.id, "total_clients", count)

		case message := <-h.broadcast:
			h.fanout(message)
		}
	}
}

func (h *Hub) fanout(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			delete(h.clients, client)
			close(client.send)
			slog.Warn("websocket client send buffer full, disconnecting", "client_id", client.id)
		}
	}
}

// Broadcast queues message for every connected client.
func (h *Hub) Broadcast(ctx context.Context, message []byte) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	select {
	case h.broadcast <- message:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.done:
		http.Error(w, "websocket hub is closed", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := newClient(h, conn)

	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
