// Package diagnostics derives an analysis report from a recorded trajectory:
// what strategy the agent played, whether it behaviorally discovered the
// scenario's hidden mechanic, and how the business ended up. It consumes the
// same state/action stream the engine produces and is never on the agent's
// information path.
package diagnostics

import (
	"github.com/laundrobench/laundrobench/internal/hidden"
	"github.com/laundrobench/laundrobench/internal/models"
)

// Tracker accumulates per-step evidence over one run.
type Tracker struct {
	scenarioID string
	mechanic   hidden.Mechanic

	history []StepRecord

	inspections    int
	repairs        int
	replacements   int
	pricingChanges int

	discovered bool
	confidence float64
}

// StepRecord is the per-day summary the tracker keeps.
type StepRecord struct {
	Day             int
	Cash            float64
	Satisfaction    float64
	MachinesWorking int
	AvgHealth       float64
}

// Report is the final diagnostic output.
type Report struct {
	ScenarioID         string  `json:"scenario_id"`
	Strategy           string  `json:"strategy"`
	DiscoveredMechanic bool    `json:"discovered_mechanic"`
	FinalCash          float64 `json:"final_cash"`
	FinalSatisfaction  float64 `json:"final_satisfaction"`
	SurvivalDays       int     `json:"survival_days"`
	Inspections        int     `json:"inspections"`
	Repairs            int     `json:"repairs"`
	Replacements       int     `json:"replacements"`
}

// New creates a tracker for one run. The mechanic may be nil (control).
func New(scenarioID string, mechanic hidden.Mechanic) *Tracker {
	return &Tracker{scenarioID: scenarioID, mechanic: mechanic}
}

// Record captures one simulation step. It reads full internal state, which is
// fine here: diagnostics run on the analysis side of the fog-of-war boundary.
func (t *Tracker) Record(st *models.SimulationState, action models.AgentAction) {
	working := 0
	totalHealth := 0.0
	for _, m := range st.Machines {
		if m.Status == models.StatusWorking {
			working++
		}
		totalHealth += m.Health
	}

	t.history = append(t.history, StepRecord{
		Day:             st.Day,
		Cash:            st.Cash,
		Satisfaction:    st.CustomerSatisfaction,
		MachinesWorking: working,
		AvgHealth:       totalHealth / float64(len(st.Machines)),
	})

	t.inspections += len(action.Inspections)
	for _, op := range action.MaintenanceOps {
		switch op.Operation {
		case models.RepairCheap, models.RepairPremium:
			t.repairs++
		case models.Replace:
			t.replacements++
		}
	}
	if len(action.PricingChange) > 0 {
		t.pricingChanges++
	}

	t.checkDiscovery(action)
}

// checkDiscovery applies per-mechanic behavioral heuristics. Discovery here
// means the agent acted on the pattern, not that it wrote it down.
func (t *Tracker) checkDiscovery(action models.AgentAction) {
	switch v := t.mechanic.(type) {
	case hidden.AssetDefect:
		// Replacing a lemon is the decisive move.
		for _, op := range action.MaintenanceOps {
			if op.Operation != models.Replace {
				continue
			}
			for _, id := range v.MachineIDs {
				if op.MachineID == id {
					t.discovered = true
					t.confidence = 1.0
				}
			}
		}
	case hidden.AdaptiveCompetitor:
		// Frequent repricing is weak evidence of awareness of the price war.
		if len(action.PricingChange) > 0 {
			t.confidence += 0.2
			if t.confidence >= 1.0 {
				t.discovered = true
			}
		}
	}
}

// ClassifyStrategy labels the run from fleet condition and spend pattern.
func (t *Tracker) ClassifyStrategy() string {
	if len(t.history) == 0 {
		return "Unknown"
	}
	sum := 0.0
	for _, r := range t.history {
		sum += r.AvgHealth
	}
	avgHealth := sum / float64(len(t.history))

	switch {
	case avgHealth < 0.3:
		return "Slumlord (Neglect)"
	case t.inspections > len(t.history)/2:
		return "Investigative"
	case t.replacements > 5:
		return "Big Spender"
	case avgHealth > 0.8:
		return "Preventive Maintenance"
	default:
		return "Reactive Maintenance"
	}
}

// Report finalizes the run summary.
func (t *Tracker) Report() Report {
	rep := Report{
		ScenarioID:         t.scenarioID,
		Strategy:           t.ClassifyStrategy(),
		DiscoveredMechanic: t.discovered,
		SurvivalDays:       len(t.history),
		Inspections:        t.inspections,
		Repairs:            t.repairs,
		Replacements:       t.replacements,
	}
	if n := len(t.history); n > 0 {
		rep.FinalCash = t.history[n-1].Cash
		rep.FinalSatisfaction = t.history[n-1].Satisfaction
	}
	return rep
}
