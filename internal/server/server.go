// Package server streams live benchmark runs over websockets so a browser
// inspector can watch a scenario unfold day by day. Each connection drives
// its own engine; runs are independent, so there is no shared state between
// clients.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"

	"github.com/laundrobench/laundrobench/internal/agents"
	"github.com/laundrobench/laundrobench/internal/engine"
	"github.com/laundrobench/laundrobench/internal/scenario"
)

// Server serves the live-run websocket endpoint.
type Server struct {
	Router *http.ServeMux

	scenarioDir string
	secrets     scenario.Secrets
	logger      *slog.Logger
}

// RunRequest is the first message a client sends on a fresh connection.
type RunRequest struct {
	ScenarioID string `json:"scenario_id"`
	Agent      string `json:"agent"`
	Days       int    `json:"days"`
}

// WSEvent is the envelope for every message the server streams back.
type WSEvent struct {
	Type      string `json:"type"` // "observation", "done", "error"
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// New creates a server that resolves scenario ids against scenarioDir.
func New(scenarioDir string, secrets scenario.Secrets, logger *slog.Logger) *Server {
	s := &Server{
		scenarioDir: scenarioDir,
		secrets:     secrets,
		logger:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)

	s.Router = http.NewServeMux()
	s.Router.Handle("/", withCORS(mux))
	return s
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	var req RunRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.emit(conn, "error", fmt.Sprintf("bad run request: %v", err))
		return
	}
	if req.Days <= 0 {
		req.Days = 365
	}

	if err := s.streamRun(conn, req); err != nil {
		s.logger.Error("run stream failed", "scenario", req.ScenarioID, "err", err)
		s.emit(conn, "error", err.Error())
	}
}

// streamRun executes one scenario with one baseline agent, emitting each
// day's sanitized observation as it is produced. Only sanitized data crosses
// the wire; the internal metrics block stays server-side.
func (s *Server) streamRun(conn *websocket.Conn, req RunRequest) error {
	scenPath := filepath.Join(s.scenarioDir, req.ScenarioID+".json")
	scen, err := scenario.Load(scenPath, s.secrets)
	if err != nil {
		return err
	}
	policy, err := agents.New(req.Agent, scen.Seed)
	if err != nil {
		return err
	}
	eng, err := engine.New(scen)
	if err != nil {
		return err
	}

	s.logger.Info("streaming run", "scenario", scen.ID, "agent", policy.Name(), "days", req.Days)

	obs := eng.InitialObservation()
	for day := 0; day < req.Days; day++ {
		action := policy.Act(obs)
		obs, _ = eng.Step(action)
		if err := s.emit(conn, "observation", obs); err != nil {
			return err
		}
	}

	return s.emit(conn, "done", map[string]any{"scenario_id": scen.ID, "days": req.Days})
}

func (s *Server) emit(conn *websocket.Conn, kind string, payload any) error {
	return conn.WriteJSON(WSEvent{
		Type:      kind,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
