// Package spectate lets anyone watch live runs. Sessions publish their latest
// frame to a Hub; websocket spectators receive it at a fixed rate.
package spectate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultInterval is the spectator frame period (10 Hz).
const DefaultInterval = 100 * time.Millisecond

// ErrUnknownSession is returned for ids that are not live.
var ErrUnknownSession = errors.New("spectate: unknown session")

// feed is the latest frame of one session.
type feed struct {
	frame   []byte
	version uint64
	label   string
	started time.Time
	done    chan struct{}
}

// SessionInfo describes a live session for the listing endpoint.
type SessionInfo struct {
	ID      string    `json:"id"`
	Label   string    `json:"label,omitempty"`
	Started time.Time `json:"started"`
	Frames  uint64    `json:"frames"`
}

// Hub holds the live sessions. It is safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	feeds    map[string]*feed
	interval time.Duration
	log      *log.Logger
}

// NewHub creates an empty hub. A zero interval uses DefaultInterval.
func NewHub(interval time.Duration, logger *log.Logger) *Hub {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{feeds: make(map[string]*feed), interval: interval, log: logger}
}

// Register opens a new session and returns its id.
func (h *Hub) Register(label string) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.feeds[id] = &feed{label: label, started: time.Now(), done: make(chan struct{})}
	h.mu.Unlock()
	h.log.Info("session live", "session", id, "label", label)
	return id
}

// Unregister closes a session. Spectators of it are disconnected.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	f, ok := h.feeds[id]
	delete(h.feeds, id)
	h.mu.Unlock()
	if ok {
		close(f.done)
		h.log.Info("session closed", "session", id, "frames", f.version)
	}
}

// Publish replaces the latest frame of session id with v encoded as JSON.
func (h *Hub) Publish(id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("spectate: encode frame: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.feeds[id]
	if !ok {
		return ErrUnknownSession
	}
	f.frame = data
	f.version++
	return nil
}

// Sessions lists the live sessions, oldest first.
func (h *Hub) Sessions() []SessionInfo {
	h.mu.RLock()
	out := make([]SessionInfo, 0, len(h.feeds))
	for id, f := range h.feeds {
		out = append(out, SessionInfo{ID: id, Label: f.label, Started: f.started, Frames: f.version})
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Started.Equal(out[j].Started) {
			return out[i].Started.Before(out[j].Started)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// latest returns the current frame and its version. The bool is false once
// the session is gone.
func (h *Hub) latest(id string) ([]byte, uint64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	f, ok := h.feeds[id]
	if !ok {
		return nil, 0, false
	}
	return f.frame, f.version, true
}

func (h *Hub) done(id string) (<-chan struct{}, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	f, ok := h.feeds[id]
	if !ok {
		return nil, false
	}
	return f.done, true
}
