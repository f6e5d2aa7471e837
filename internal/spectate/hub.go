// Package spectate streams world snapshots to WebSocket viewers.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16

	// DefaultInterval caps the frame rate sent to viewers.
	DefaultInterval = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Frame is the JSON envelope sent to viewers.
type Frame struct {
	Type     string          `json:"type"` // "snapshot"
	Outcome  world.Outcome   `json:"outcome"`
	Snapshot *world.Snapshot `json:"snapshot"`
}

// Hub fans snapshots out to connected viewers. Slow viewers miss frames
// instead of stalling the game.
type Hub struct {
	log      *log.Logger
	interval time.Duration

	mu       sync.RWMutex
	clients  map[*client]struct{}
	last     []byte
	lastSent time.Time
}

// NewHub creates a hub. interval <= 0 uses DefaultInterval.
func NewHub(interval time.Duration, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Hub{
		log:      logger,
		interval: interval,
		clients:  make(map[*client]struct{}),
	}
}

// Publish encodes a snapshot and queues it for every viewer. Frames arriving
// faster than the interval are skipped unless the round just ended.
func (h *Hub) Publish(snap world.Snapshot) {
	now := time.Now()
	h.mu.Lock()
	if !snap.GameOver && now.Sub(h.lastSent) < h.interval {
		h.mu.Unlock()
		return
	}
	h.lastSent = now
	h.mu.Unlock()

	data, err := json.Marshal(Frame{Type: "snapshot", Outcome: snap.Outcome(0), Snapshot: &snap})
	if err != nil {
		h.log.Error("encode snapshot", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Handler returns the HTTP routes: /ws for the feed and /health.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	h.log.Info("spectator connected", "remote", r.RemoteAddr)

	go c.writePump()
	go c.readPump()
}

// ListenAndServe serves the feed on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	h.log.Info("spectator feed listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
