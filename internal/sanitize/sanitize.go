// Package sanitize is the simulator's information-hiding boundary. Observe is
// the only way internal state becomes externally visible, and it strips every
// hidden field: machine health and age, exact satisfaction, and anything a
// hidden mechanic knows. No other component may route hidden state to a
// caller through any side channel.
package sanitize

import (
	"math"
	"math/rand"

	"github.com/laundrobench/laundrobench/internal/models"
)

// MaxLogLines bounds how much of the day's log buffer an observation carries.
const MaxLogLines = 10

// Observe projects the full internal state into the restricted external view.
// Cash is perturbed by one multiplicative uniform draw in ±5% taken from the
// engine's seeded stream, so the caller never reads an exact balance. The
// returned observation owns all of its maps and slices.
func Observe(st *models.SimulationState, yesterday models.DayStats, rng *rand.Rand) models.Observation {
	noise := 1.0 + (rng.Float64()*0.10 - 0.05)

	machines := make([]models.MachineView, len(st.Machines))
	for i, m := range st.Machines {
		machines[i] = models.MachineView{
			ID:                   m.ID,
			Kind:                 m.Kind,
			Status:               m.Status,
			LastMaintenanceDay:   m.LastMaintenanceDay,
			DaysSinceMaintenance: st.Day - m.LastMaintenanceDay,
		}
	}

	logs := st.LogHistory
	if len(logs) > MaxLogLines {
		logs = logs[len(logs)-MaxLogLines:]
	}

	return models.Observation{
		Day:               st.Day,
		Cash:              round2(st.Cash * noise),
		Debt:              st.Debt,
		Inventory:         copyInts(st.Inventory),
		Pricing:           copyFloats(st.Pricing),
		Machines:          machines,
		Logs:              append([]string(nil), logs...),
		SatisfactionStars: Stars(st.CustomerSatisfaction),
		YesterdayStats:    yesterday,
		Memory:            st.AgentMemory,
	}
}

// Stars buckets exact satisfaction into the 1..5 star rating customers see.
func Stars(satisfaction float64) int {
	switch {
	case satisfaction >= 90:
		return 5
	case satisfaction >= 75:
		return 4
	case satisfaction >= 55:
		return 3
	case satisfaction >= 35:
		return 2
	default:
		return 1
	}
}

func copyInts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFloats(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
