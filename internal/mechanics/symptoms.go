package mechanics

import (
	"fmt"
	"math/rand"

	"github.com/laundrobench/laundrobench/internal/models"
)

// Symptom bands: as health falls, complaints get more frequent and more
// alarming, but they never name a cause or a number. The agent has to infer.
var (
	severeSymptoms = []string{
		"Customer complaint: Machine %d left clothes soaking wet",
		"Customer complaint: Machine %d didn't clean properly",
		"Loud banging noise from Machine %d area",
		"Machine %d vibrating excessively during cycle",
	}
	moderateSymptoms = []string{
		"Customer: Machine %d took longer than usual",
		"Observation: Machine %d sounds louder than normal",
		"Customer: Clothes from Machine %d smell musty",
	}
	minorSymptoms = []string{
		"Machine %d cycle completed slower than expected",
		"Minor leak observed near Machine %d",
	}
)

// SymptomLogs maps a machine's hidden health to at most one vague log line.
// At health 0 it emits the unconditional terminal line and flips the machine
// to broken; this is the only place degradation-driven breakage happens.
func SymptomLogs(m *models.Machine, rng *rand.Rand) []string {
	h := m.Health

	if h <= 0 {
		m.Status = models.StatusBroken
		return []string{fmt.Sprintf("CRITICAL: Machine %d has stopped working", m.ID)}
	}

	switch {
	case h < 0.2:
		if rng.Float64() < 0.70 {
			return []string{fmt.Sprintf(severeSymptoms[rng.Intn(len(severeSymptoms))], m.ID)}
		}
	case h < 0.4:
		if rng.Float64() < 0.50 {
			return []string{fmt.Sprintf(moderateSymptoms[rng.Intn(len(moderateSymptoms))], m.ID)}
		}
	case h < 0.7:
		if rng.Float64() < 0.25 {
			return []string{fmt.Sprintf(minorSymptoms[rng.Intn(len(minorSymptoms))], m.ID)}
		}
	case h < 0.9:
		if rng.Float64() < 0.10 {
			return []string{fmt.Sprintf("Machine %d making slight unusual noise", m.ID)}
		}
	}
	return nil
}
