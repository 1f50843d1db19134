package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/laundrobench/laundrobench/internal/scenario"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	if err := scenario.Generate(dir); err != nil {
		t.Fatalf("generate scenarios: %v", err)
	}
	s := New(dir, scenario.BuiltinSecrets(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(s.Router)
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/healthz", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d", resp.StatusCode)
	}
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStreamRun(t *testing.T) {
	ts := newTestServer(t)
	conn := dialWS(t, ts)

	req := RunRequest{ScenarioID: "S-01", Agent: "reactive", Days: 5}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write request: %v", err)
	}

	days := 0
	for {
		var ev WSEvent
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event: %v", err)
		}
		switch ev.Type {
		case "observation":
			days++
			payload, err := json.Marshal(ev.Payload)
			if err != nil {
				t.Fatalf("re-marshal payload: %v", err)
			}
			for _, forbidden := range []string{"health", "age_cycles"} {
				if strings.Contains(string(payload), forbidden) {
					t.Fatalf("stream leaks %q: %s", forbidden, payload)
				}
			}
		case "done":
			if days != req.Days {
				t.Errorf("streamed %d observations, want %d", days, req.Days)
			}
			return
		case "error":
			t.Fatalf("server error: %v", ev.Payload)
		default:
			t.Fatalf("unknown event type %q", ev.Type)
		}
	}
}

func TestStreamRejectsUnknownScenario(t *testing.T) {
	ts := newTestServer(t)
	conn := dialWS(t, ts)

	if err := conn.WriteJSON(RunRequest{ScenarioID: "S-99", Agent: "reactive", Days: 1}); err != nil {
		t.Fatalf("write request: %v", err)
	}
	var ev WSEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type != "error" {
		t.Errorf("event type = %q, want error", ev.Type)
	}
}

func TestStreamRejectsUnknownAgent(t *testing.T) {
	ts := newTestServer(t)
	conn := dialWS(t, ts)

	if err := conn.WriteJSON(RunRequest{ScenarioID: "S-01", Agent: "oracle", Days: 1}); err != nil {
		t.Fatalf("write request: %v", err)
	}
	var ev WSEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type != "error" {
		t.Errorf("event type = %q, want error", ev.Type)
	}
}
