// Package store persists benchmark runs: one row per run, one row per
// simulated day, with the observation/action/metrics payloads as JSON. The
// report command and offline analysis read it back; nothing on the agent's
// information path does.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/laundrobench/laundrobench/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	scenario_id   TEXT NOT NULL,
	agent         TEXT NOT NULL,
	seed          INTEGER NOT NULL,
	started_at    TEXT NOT NULL,
	finished_at   TEXT,
	survival_days INTEGER,
	final_nbv     REAL,
	report        TEXT
);
CREATE TABLE IF NOT EXISTS steps (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	day         INTEGER NOT NULL,
	observation TEXT NOT NULL,
	action      TEXT NOT NULL,
	metrics     TEXT NOT NULL,
	PRIMARY KEY (run_id, day)
);
`

// RunStore records runs into a SQLite database.
type RunStore struct {
	db *sql.DB
}

// Run is one recorded run's header row.
type Run struct {
	ID           string
	ScenarioID   string
	Agent        string
	Seed         int64
	SurvivalDays int
	FinalNBV     float64
}

// Step is one recorded simulated day.
type Step struct {
	Day         int
	Observation models.Observation
	Action      models.AgentAction
	Metrics     models.Metrics
}

// Open opens (creating if needed) the run database at path.
func Open(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init run store schema: %w", err)
	}
	return &RunStore{db: db}, nil
}

// Close releases the database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// BeginRun registers a new run and returns its id.
func (s *RunStore) BeginRun(scenarioID, agent string, seed int64) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, scenario_id, agent, seed, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, scenarioID, agent, seed, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// RecordStep appends one simulated day to a run.
func (s *RunStore) RecordStep(runID string, day int, obs models.Observation, action models.AgentAction, metrics models.Metrics) error {
	obsJSON, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("record step: marshal observation: %w", err)
	}
	actJSON, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("record step: marshal action: %w", err)
	}
	metJSON, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("record step: marshal metrics: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO steps (run_id, day, observation, action, metrics) VALUES (?, ?, ?, ?, ?)`,
		runID, day, string(obsJSON), string(actJSON), string(metJSON),
	)
	if err != nil {
		return fmt.Errorf("record step: %w", err)
	}
	return nil
}

// FinishRun closes out a run with its final score and the diagnostic report
// produced alongside it (any JSON-serializable value; nil stores NULL).
func (s *RunStore) FinishRun(runID string, survivalDays int, finalNBV float64, report any) error {
	var reportJSON sql.NullString
	if report != nil {
		data, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("finish run: marshal report: %w", err)
		}
		reportJSON = sql.NullString{String: string(data), Valid: true}
	}
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, survival_days = ?, final_nbv = ?, report = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), survivalDays, finalNBV, reportJSON, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run: unknown run %s", runID)
	}
	return nil
}

// GetReport loads a finished run's diagnostic report JSON. Returns nil when
// the run has no stored report.
func (s *RunStore) GetReport(runID string) ([]byte, error) {
	var report sql.NullString
	err := s.db.QueryRow(`SELECT report FROM runs WHERE id = ?`, runID).Scan(&report)
	if err != nil {
		return nil, fmt.Errorf("get report for %s: %w", runID, err)
	}
	if !report.Valid {
		return nil, nil
	}
	return []byte(report.String), nil
}

// GetRun loads one run header.
func (s *RunStore) GetRun(runID string) (Run, error) {
	var r Run
	var survival sql.NullInt64
	var nbv sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT id, scenario_id, agent, seed, survival_days, final_nbv FROM runs WHERE id = ?`, runID,
	).Scan(&r.ID, &r.ScenarioID, &r.Agent, &r.Seed, &survival, &nbv)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	r.SurvivalDays = int(survival.Int64)
	r.FinalNBV = nbv.Float64
	return r, nil
}

// ListRuns returns all recorded run headers, newest first.
func (s *RunStore) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, scenario_id, agent, seed, survival_days, final_nbv FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var survival sql.NullInt64
		var nbv sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.ScenarioID, &r.Agent, &r.Seed, &survival, &nbv); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		r.SurvivalDays = int(survival.Int64)
		r.FinalNBV = nbv.Float64
		out = append(out, r)
	}
	return out, rows.Err()
}

// Steps loads a run's recorded days in order.
func (s *RunStore) Steps(runID string) ([]Step, error) {
	rows, err := s.db.Query(
		`SELECT day, observation, action, metrics FROM steps WHERE run_id = ? ORDER BY day`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load steps for %s: %w", runID, err)
	}
	defer rows.Close()

	var out []Step
	for rows.Next() {
		var st Step
		var obsJSON, actJSON, metJSON string
		if err := rows.Scan(&st.Day, &obsJSON, &actJSON, &metJSON); err != nil {
			return nil, fmt.Errorf("load steps for %s: %w", runID, err)
		}
		if err := json.Unmarshal([]byte(obsJSON), &st.Observation); err != nil {
			return nil, fmt.Errorf("load steps for %s: bad observation: %w", runID, err)
		}
		if err := json.Unmarshal([]byte(actJSON), &st.Action); err != nil {
			return nil, fmt.Errorf("load steps for %s: bad action: %w", runID, err)
		}
		if err := json.Unmarshal([]byte(metJSON), &st.Metrics); err != nil {
			return nil, fmt.Errorf("load steps for %s: bad metrics: %w", runID, err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
