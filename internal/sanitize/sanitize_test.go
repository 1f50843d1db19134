package sanitize

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/laundrobench/laundrobench/internal/models"
)

func sampleState() *models.SimulationState {
	return &models.SimulationState{
		Day:                  12,
		Cash:                 1000,
		Debt:                 250,
		Inventory:            map[string]int{models.ResourceSoap: 30, models.ResourceParts: 2},
		Pricing:              map[string]float64{models.ServiceWash: 5, models.ServiceDry: 4},
		CustomerSatisfaction: 77.3,
		AgentMemory:          "note to self",
		Machines: []*models.Machine{
			{ID: 1, Kind: models.KindWasher, Status: models.StatusWorking, Health: 0.42, AgeCycles: 317, LastMaintenanceDay: 5},
			{ID: 7, Kind: models.KindDryer, Status: models.StatusBroken, Health: 0, AgeCycles: 2200},
		},
		LogHistory: []string{"line one", "line two"},
	}
}

func TestStars(t *testing.T) {
	cases := []struct {
		satisfaction float64
		want         int
	}{
		{92, 5}, {90, 5}, {89.9, 4}, {75, 4}, {60, 3}, {55, 3}, {54, 2}, {35, 2}, {34, 1}, {0, 1},
	}
	for _, tc := range cases {
		if got := Stars(tc.satisfaction); got != tc.want {
			t.Errorf("Stars(%v) = %d, want %d", tc.satisfaction, got, tc.want)
		}
	}
}

func TestObserveCashNoiseBounded(t *testing.T) {
	st := sampleState()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		obs := Observe(st, models.DayStats{}, rng)
		if math.Abs(obs.Cash-st.Cash) > st.Cash*0.05+0.01 {
			t.Fatalf("cash noise beyond ±5%%: %v vs %v", obs.Cash, st.Cash)
		}
		if obs.Cash != math.Round(obs.Cash*100)/100 {
			t.Fatalf("cash not rounded to cents: %v", obs.Cash)
		}
	}
}

func TestObserveCopiesDoNotAlias(t *testing.T) {
	st := sampleState()
	obs := Observe(st, models.DayStats{}, rand.New(rand.NewSource(1)))

	obs.Inventory[models.ResourceSoap] = 999
	obs.Pricing[models.ServiceWash] = 999
	obs.Logs[0] = "tampered"

	if st.Inventory[models.ResourceSoap] == 999 || st.Pricing[models.ServiceWash] == 999 || st.LogHistory[0] == "tampered" {
		t.Error("observation aliases internal state")
	}
}

func TestObserveLogWindow(t *testing.T) {
	st := sampleState()
	st.LogHistory = nil
	for i := 0; i < 25; i++ {
		st.LogHistory = append(st.LogHistory, fmt.Sprintf("line %d", i))
	}
	obs := Observe(st, models.DayStats{}, rand.New(rand.NewSource(1)))
	if len(obs.Logs) != MaxLogLines {
		t.Fatalf("log window = %d lines, want %d", len(obs.Logs), MaxLogLines)
	}
	if obs.Logs[len(obs.Logs)-1] != "line 24" {
		t.Errorf("log window dropped the most recent line: %v", obs.Logs)
	}
}

func TestObserveHidesInternalFields(t *testing.T) {
	st := sampleState()
	obs := Observe(st, models.DayStats{}, rand.New(rand.NewSource(1)))

	raw, err := json.Marshal(obs)
	if err != nil {
		t.Fatalf("marshal observation: %v", err)
	}
	payload := string(raw)

	for _, forbidden := range []string{"health", "age_cycles", "efficiency", "satisfaction\":"} {
		if strings.Contains(payload, forbidden) {
			t.Errorf("observation leaks %q: %s", forbidden, payload)
		}
	}
	if obs.Debt != st.Debt {
		t.Errorf("debt should be exact: %v vs %v", obs.Debt, st.Debt)
	}
	if obs.SatisfactionStars != 4 {
		t.Errorf("stars = %d, want 4 for satisfaction 77.3", obs.SatisfactionStars)
	}
}

func TestObserveMachineView(t *testing.T) {
	st := sampleState()
	obs := Observe(st, models.DayStats{}, rand.New(rand.NewSource(1)))

	if len(obs.Machines) != 2 {
		t.Fatalf("machine count = %d", len(obs.Machines))
	}
	mv := obs.Machines[0]
	if mv.ID != 1 || mv.Kind != models.KindWasher || mv.Status != models.StatusWorking {
		t.Errorf("machine view = %+v", mv)
	}
	if mv.LastMaintenanceDay != 5 || mv.DaysSinceMaintenance != 7 {
		t.Errorf("maintenance view = %d/%d, want 5/7", mv.LastMaintenanceDay, mv.DaysSinceMaintenance)
	}
}
