package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/laundrobench/laundrobench/internal/models"
)

func openTestStore(t *testing.T) *RunStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunRoundTrip(t *testing.T) {
	s := openTestStore(t)

	id, err := s.BeginRun("S-01", "reactive", 42)
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}

	obs := models.Observation{
		Day:  1,
		Cash: 1987.45,
		Inventory: map[string]int{
			models.ResourceSoap: 48,
		},
		Pricing:           map[string]float64{models.ServiceWash: 5},
		Logs:              []string{"MAINT: Machine 3 cheap repair completed."},
		SatisfactionStars: 4,
	}
	action := models.AgentAction{
		MaintenanceOps: []models.MaintenanceOp{{MachineID: 3, Operation: models.RepairCheap}},
	}
	metrics := models.Metrics{DailyProfit: 73.5, NBV: 8210.12, Satisfaction: 88}
	if err := s.RecordStep(id, 1, obs, action, metrics); err != nil {
		t.Fatalf("record step: %v", err)
	}

	if err := s.FinishRun(id, 365, 8210.12, nil); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	run, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.ScenarioID != "S-01" || run.Agent != "reactive" || run.Seed != 42 {
		t.Errorf("run header = %+v", run)
	}
	if run.SurvivalDays != 365 || run.FinalNBV != 8210.12 {
		t.Errorf("run finals = %+v", run)
	}

	steps, err := s.Steps(id)
	if err != nil {
		t.Fatalf("load steps: %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("steps = %d", len(steps))
	}
	got := steps[0]
	if got.Day != 1 || got.Observation.Cash != obs.Cash || got.Metrics != metrics {
		t.Errorf("step = %+v", got)
	}
	if len(got.Action.MaintenanceOps) != 1 || got.Action.MaintenanceOps[0].MachineID != 3 {
		t.Errorf("action = %+v", got.Action)
	}
	if got.Observation.Inventory[models.ResourceSoap] != 48 {
		t.Errorf("inventory = %v", got.Observation.Inventory)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	s := openTestStore(t)
	if err := s.FinishRun("no-such-run", 1, 0, nil); err == nil {
		t.Fatal("finishing an unknown run must error")
	}
}

func TestReportStorage(t *testing.T) {
	s := openTestStore(t)
	id, err := s.BeginRun("S-02", "smart", 101)
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}

	report := map[string]any{"strategy": "Preventive Maintenance", "discovered_mechanic": true}
	if err := s.FinishRun(id, 200, 5120.0, report); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	raw, err := s.GetReport(id)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if decoded["strategy"] != "Preventive Maintenance" || decoded["discovered_mechanic"] != true {
		t.Errorf("report = %v", decoded)
	}
}

func TestNilReportReadsBackNil(t *testing.T) {
	s := openTestStore(t)
	id, err := s.BeginRun("S-01", "random", 1)
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if err := s.FinishRun(id, 10, 0, nil); err != nil {
		t.Fatalf("finish run: %v", err)
	}
	raw, err := s.GetReport(id)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if raw != nil {
		t.Errorf("report = %q, want nil", raw)
	}
}

func TestListRunsOrdering(t *testing.T) {
	s := openTestStore(t)
	for _, scen := range []string{"S-01", "S-02", "S-03"} {
		if _, err := s.BeginRun(scen, "greedy", 7); err != nil {
			t.Fatalf("begin %s: %v", scen, err)
		}
	}
	runs, err := s.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("runs = %d", len(runs))
	}
	seen := map[string]bool{}
	for _, r := range runs {
		seen[r.ScenarioID] = true
	}
	if !seen["S-01"] || !seen["S-02"] || !seen["S-03"] {
		t.Errorf("missing runs: %+v", runs)
	}
}

func TestDuplicateStepRejected(t *testing.T) {
	s := openTestStore(t)
	id, err := s.BeginRun("S-01", "random", 1)
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	step := func() error {
		return s.RecordStep(id, 1, models.Observation{Day: 1}, models.AgentAction{}, models.Metrics{})
	}
	if err := step(); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := step(); err == nil {
		t.Fatal("recording the same day twice must error")
	}
}
