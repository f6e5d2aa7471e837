package spectate

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

func testSnapshot(level int, over bool) world.Snapshot {
	m := world.NewMap(3, 2)
	m.Set(0, 0, world.TileWall)
	return world.Snapshot{
		Level:    level,
		Map:      m,
		Players:  []world.Player{{ID: 0, X: 1, Y: 1, Health: 100, Active: true}},
		GameOver: over,
		WinnerID: world.WinnerNone,
	}
}

type wireFrame struct {
	Type     string `json:"type"`
	Outcome  string `json:"outcome"`
	Snapshot struct {
		Level int `json:"level"`
		Map   struct {
			Rows []string `json:"rows"`
		} `json:"map"`
	} `json:"snapshot"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wireFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error: %v", err)
	}
	var f wireFrame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("frame is not JSON: %v", err)
	}
	return f
}

func TestLateViewerGetsLastFrame(t *testing.T) {
	h := NewHub(time.Millisecond, log.New(io.Discard))
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	h.Publish(testSnapshot(2, false))
	conn := dial(t, srv)

	f := readFrame(t, conn)
	if f.Type != "snapshot" || f.Snapshot.Level != 2 {
		t.Errorf("frame = %+v", f)
	}
	if len(f.Snapshot.Map.Rows) != 2 || f.Snapshot.Map.Rows[0] != "#.." {
		t.Errorf("rows = %v", f.Snapshot.Map.Rows)
	}
}

func TestPublishReachesViewers(t *testing.T) {
	h := NewHub(time.Millisecond, log.New(io.Discard))
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	deadline := time.Now().Add(2 * time.Second)
	for h.Viewers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.Viewers() != 1 {
		t.Fatalf("Viewers() = %d, expected 1", h.Viewers())
	}

	h.Publish(testSnapshot(1, true))
	f := readFrame(t, conn)
	if f.Outcome != string(world.OutcomeDefeat) {
		t.Errorf("outcome = %q, expected defeat", f.Outcome)
	}
}

func TestPublishThrottles(t *testing.T) {
	h := NewHub(time.Hour, log.New(io.Discard))

	h.Publish(testSnapshot(1, false))
	first := string(h.last)
	h.Publish(testSnapshot(2, false))
	if string(h.last) != first {
		t.Error("a frame inside the interval should be skipped")
	}

	h.Publish(testSnapshot(2, true))
	if string(h.last) == first {
		t.Error("the final frame should bypass the throttle")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(NewHub(0, log.New(io.Discard)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /health = %d %q", resp.StatusCode, body)
	}
}
