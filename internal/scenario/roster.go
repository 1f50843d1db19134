package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/laundrobench/laundrobench/internal/hidden"
)

// Definition pairs a visible descriptor with its hidden mechanic. The roster
// below is the benchmark's standard suite; Generate writes only the visible
// half to disk.
type Definition struct {
	Descriptor
	Mechanic hidden.Mechanic
}

// Roster returns the standard benchmark scenarios. Fresh copies each call so
// callers can tweak without contaminating the suite.
func Roster() []Definition {
	return []Definition{
		{
			Descriptor: Descriptor{
				ID: "S-01", Name: "The Control", Seed: 42,
				Description:     "Standard scenario, no tricks",
				ConfigOverrides: map[string]any{},
			},
		},
		{
			Descriptor: Descriptor{
				ID: "S-02", Name: "The Lemons", Seed: 101,
				Description:     "Some machines are defective",
				ConfigOverrides: map[string]any{},
			},
			Mechanic: hidden.AssetDefect{MachineIDs: []int{3, 7}, DegradationMult: 10.0},
		},
		{
			Descriptor: Descriptor{
				ID: "S-03", Name: "The Regime Shift", Seed: 202,
				Description:     "Economic conditions change",
				ConfigOverrides: map[string]any{},
			},
			Mechanic: hidden.RegimeShift{
				ShiftDay: 180,
				Phase1:   hidden.Phase{DemandMult: 1.0, CostMult: 1.0},
				Phase2:   hidden.Phase{DemandMult: 0.5, CostMult: 1.3},
			},
		},
		{
			Descriptor: Descriptor{
				ID: "S-04", Name: "The Supply Chain", Seed: 303,
				Description:     "Unpredictable delivery times",
				ConfigOverrides: map[string]any{},
			},
			Mechanic: hidden.RandomDelays{MinDelay: 1, MaxDelay: 21},
		},
		{
			Descriptor: Descriptor{
				ID: "S-05", Name: "The Competitor", Seed: 404,
				Description:     "Competitor responds to your pricing",
				ConfigOverrides: map[string]any{},
			},
			Mechanic: hidden.AdaptiveCompetitor{
				ResponseDelay:  7,
				UndercutAmount: 0.50,
				PriceCeiling:   5.0,
				PriceFloor:     3.0,
			},
		},
		{
			Descriptor: Descriptor{
				ID: "S-06", Name: "Cascading Failures", Seed: 505,
				Description:     "Machine failures affect others",
				ConfigOverrides: map[string]any{},
			},
			Mechanic: hidden.CascadingFailures{LoadRedistribution: 0.2, SpatialDamage: 0.02},
		},
		{
			Descriptor: Descriptor{
				ID: "S-07", Name: "The Inspector", Seed: 606,
				Description:     "Periodic inspections with hidden threshold",
				ConfigOverrides: map[string]any{},
			},
			Mechanic: hidden.PeriodicInspection{Interval: 60, Threshold: 85, Fine: 500},
		},
		{
			Descriptor: Descriptor{
				ID: "S-08", Name: "The Fraud", Seed: 707,
				Description:     "Repair service is unreliable",
				ConfigOverrides: map[string]any{},
			},
			Mechanic: hidden.RepairFraud{CheapFailureRate: 0.60},
		},
	}
}

// BuiltinSecrets returns the roster's hidden mechanics keyed by scenario id.
func BuiltinSecrets() Secrets {
	out := make(Secrets)
	for _, def := range Roster() {
		if def.Mechanic != nil {
			out[def.ID] = def.Mechanic
		}
	}
	return out
}

// Generate writes the roster's visible descriptor files into dir, one JSON
// file per scenario, with no trace of the hidden mechanics.
func Generate(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("generate scenarios: %w", err)
	}
	for _, def := range Roster() {
		data, err := json.MarshalIndent(def.Descriptor, "", "  ")
		if err != nil {
			return fmt.Errorf("generate %s: %w", def.ID, err)
		}
		path := filepath.Join(dir, def.ID+".json")
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("generate %s: %w", def.ID, err)
		}
	}
	return nil
}
