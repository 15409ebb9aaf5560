package spectate

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type frame struct {
	Tick  int `json:"tick"`
	Score int `json:"score"`
}

func websocketURL(t *testing.T, baseURL, id string) string {
	t.Helper()
	parsed, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("url.Parse() failed: %v", err)
	}
	parsed.Scheme = "ws"
	parsed.Path = "/spectate"
	parsed.RawQuery = url.Values{"id": {id}}.Encode()
	return parsed.String()
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL, id), nil)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() failed: %v", err)
	}
	var f frame
	if err := json.Unmarshal(payload, &f); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	return f
}

func TestHubPublish(t *testing.T) {
	hub := NewHub(0, nil)
	if err := hub.Publish("nope", frame{}); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("Expected ErrUnknownSession, got %v", err)
	}

	id := hub.Register("ana")
	if err := hub.Publish(id, frame{Tick: 1}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if err := hub.Publish(id, func() {}); err == nil {
		t.Error("Expected an encoding error")
	}

	list := hub.Sessions()
	if len(list) != 1 || list[0].ID != id || list[0].Label != "ana" || list[0].Frames != 1 {
		t.Errorf("Expected one session with one frame, got %+v", list)
	}

	hub.Unregister(id)
	hub.Unregister(id)
	if len(hub.Sessions()) != 0 {
		t.Error("Expected no sessions after unregister")
	}
}

func TestSessionsEndpoint(t *testing.T) {
	hub := NewHub(0, nil)
	a := hub.Register("a")
	b := hub.Register("b")
	srv := httptest.NewServer(NewHandler(hub).Routes())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/sessions")
	if err != nil {
		t.Fatalf("http.Get() failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var list []SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(list))
	}
	ids := map[string]bool{list[0].ID: true, list[1].ID: true}
	if !ids[a] || !ids[b] {
		t.Errorf("Expected both sessions listed, got %+v", list)
	}

	post, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("http.Post() failed: %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", post.StatusCode)
	}
}

func TestSpectateRejectsBadIDs(t *testing.T) {
	hub := NewHub(0, nil)
	srv := httptest.NewServer(NewHandler(hub).Routes())
	t.Cleanup(srv.Close)

	tests := []struct {
		query string
		code  int
	}{
		{"", http.StatusBadRequest},
		{"?id=ghost", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + "/spectate" + tt.query)
		if err != nil {
			t.Fatalf("http.Get() failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.code {
			t.Errorf("%q: expected %d, got %d", tt.query, tt.code, resp.StatusCode)
		}
	}
}

func TestSpectateStreamsFrames(t *testing.T) {
	hub := NewHub(10*time.Millisecond, nil)
	id := hub.Register("run")
	if err := hub.Publish(id, frame{Tick: 1, Score: 10}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	srv := httptest.NewServer(NewHandler(hub).Routes())
	t.Cleanup(srv.Close)

	conn := dial(t, srv, id)
	if f := readFrame(t, conn); f.Tick != 1 || f.Score != 10 {
		t.Errorf("Expected the latest frame on join, got %+v", f)
	}

	if err := hub.Publish(id, frame{Tick: 2, Score: 20}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if f := readFrame(t, conn); f.Tick != 2 {
		t.Errorf("Expected the next frame, got %+v", f)
	}

	hub.Unregister(id)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("Expected a normal close when the session ends, got %v", err)
	}
}

func TestSpectateSkipsUnchangedFrames(t *testing.T) {
	hub := NewHub(5*time.Millisecond, nil)
	id := hub.Register("run")
	hub.Publish(id, frame{Tick: 1})
	srv := httptest.NewServer(NewHandler(hub).Routes())
	t.Cleanup(srv.Close)

	conn := dial(t, srv, id)
	readFrame(t, conn)

	conn.SetReadDeadline(time.Now().Add(60 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected no repeat of an unchanged frame")
	}
}
