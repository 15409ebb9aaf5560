package spectate

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Handler serves the session list and the spectator websocket.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates the HTTP surface of hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Routes returns a mux with /sessions and /spectate.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sessions", h.Sessions)
	mux.HandleFunc("/spectate", h.Spectate)
	return mux
}

// Sessions writes the live sessions as JSON.
func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.hub.Sessions()); err != nil {
		h.hub.log.Warn("write sessions", "err", err)
	}
}

// Spectate upgrades to a websocket and streams frames of session ?id= until
// the session ends or the spectator leaves.
func (h *Handler) Spectate(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	done, ok := h.hub.done(id)
	if !ok {
		http.Error(w, ErrUnknownSession.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Warn("upgrade failed", "session", id, "err", err)
		return
	}
	defer conn.Close()
	h.hub.log.Debug("spectator joined", "session", id, "remote", r.RemoteAddr)

	// Spectators send nothing; reading detects when they leave.
	left := make(chan struct{})
	go func() {
		defer close(left)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.hub.interval)
	defer ticker.Stop()

	ended := func() {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
	}

	var sent uint64
	send := func() bool {
		frame, version, ok := h.hub.latest(id)
		if !ok {
			ended()
			return false
		}
		if version == sent || frame == nil {
			return true
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return false
		}
		sent = version
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-ticker.C:
			if !send() {
				return
			}
		case <-done:
			ended()
			return
		case <-left:
			h.hub.log.Debug("spectator left", "session", id)
			return
		}
	}
}
