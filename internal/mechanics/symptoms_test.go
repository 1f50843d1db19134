package mechanics

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/laundrobench/laundrobench/internal/models"
)

func machineAt(health float64) *models.Machine {
	return &models.Machine{ID: 4, Kind: models.KindWasher, Status: models.StatusWorking, Health: health}
}

func TestSymptomLogsTerminal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := machineAt(0)
	logs := SymptomLogs(m, rng)
	if len(logs) != 1 || !strings.Contains(logs[0], "Machine 4 has stopped working") {
		t.Fatalf("terminal logs = %v", logs)
	}
	if m.Status != models.StatusBroken {
		t.Errorf("status = %s, want broken", m.Status)
	}
}

func TestSymptomLogsHealthyQuiet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		if logs := SymptomLogs(machineAt(0.95), rng); len(logs) != 0 {
			t.Fatalf("healthy machine logged %v", logs)
		}
	}
}

func TestSymptomLogsNeverLeakNumbers(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		for _, h := range []float64{0.1, 0.3, 0.5, 0.8} {
			for _, log := range SymptomLogs(machineAt(h), rng) {
				if strings.Contains(log, "0.") || strings.Contains(log, "health") {
					t.Fatalf("symptom leaks health detail: %q", log)
				}
			}
		}
	}
}

func TestSymptomFrequencyRisesAsHealthFalls(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	counts := map[float64]int{}
	const n = 5000
	for i := 0; i < n; i++ {
		for _, h := range []float64{0.1, 0.3, 0.5, 0.8} {
			if len(SymptomLogs(machineAt(h), rng)) > 0 {
				counts[h]++
			}
		}
	}
	if !(counts[0.1] > counts[0.3] && counts[0.3] > counts[0.5] && counts[0.5] > counts[0.8]) {
		t.Errorf("symptom frequency not monotonic: %v", counts)
	}
}
