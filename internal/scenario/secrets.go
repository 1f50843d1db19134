package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/laundrobench/laundrobench/internal/hidden"
)

// Secrets maps scenario ids to their hidden mechanics. It is supplied
// out-of-band and must never be serialized into anything an agent sees.
type Secrets map[string]hidden.Mechanic

// rawSecret is the YAML wire form of a mechanic: a type tag plus the union of
// all variant parameters.
type rawSecret struct {
	Type string `yaml:"type"`

	// asset-defect
	MachineIDs      []int   `yaml:"machine_ids,omitempty"`
	DegradationMult float64 `yaml:"degradation_mult,omitempty"`

	// regime-shift
	ShiftDay int       `yaml:"shift_day,omitempty"`
	Phase1   *rawPhase `yaml:"phase_1,omitempty"`
	Phase2   *rawPhase `yaml:"phase_2,omitempty"`

	// adaptive-competitor
	ResponseDelay  int     `yaml:"response_delay,omitempty"`
	UndercutAmount float64 `yaml:"undercut_amount,omitempty"`
	PriceCeiling   float64 `yaml:"price_ceiling,omitempty"`
	PriceFloor     float64 `yaml:"price_floor,omitempty"`

	// cascading-failures
	LoadRedistribution float64 `yaml:"load_redistribution,omitempty"`
	SpatialDamage      float64 `yaml:"spatial_damage,omitempty"`

	// periodic-inspection
	Interval  int     `yaml:"interval,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Fine      float64 `yaml:"fine,omitempty"`

	// repair-fraud
	CheapFailureRate float64 `yaml:"cheap_failure_rate,omitempty"`

	// random-delays
	MinDelay int `yaml:"min_delay,omitempty"`
	MaxDelay int `yaml:"max_delay,omitempty"`
}

type rawPhase struct {
	DemandMult float64 `yaml:"demand_mult"`
	CostMult   float64 `yaml:"cost_mult"`
}

// LoadSecrets reads a YAML secrets file keyed by scenario id. An unknown
// mechanic type is an error: the variant set is closed.
func LoadSecrets(path string) (Secrets, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets: %w", err)
	}
	var file map[string]rawSecret
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse secrets: %w", err)
	}

	out := make(Secrets, len(file))
	for id, rs := range file {
		m, err := rs.mechanic()
		if err != nil {
			return nil, fmt.Errorf("secrets for %s: %w", id, err)
		}
		out[id] = m
	}
	return out, nil
}

func (rs rawSecret) mechanic() (hidden.Mechanic, error) {
	switch rs.Type {
	case "asset-defect":
		return hidden.AssetDefect{MachineIDs: rs.MachineIDs, DegradationMult: rs.DegradationMult}, nil
	case "regime-shift":
		m := hidden.RegimeShift{ShiftDay: rs.ShiftDay}
		if rs.Phase1 != nil {
			m.Phase1 = hidden.Phase{DemandMult: rs.Phase1.DemandMult, CostMult: rs.Phase1.CostMult}
		}
		if rs.Phase2 != nil {
			m.Phase2 = hidden.Phase{DemandMult: rs.Phase2.DemandMult, CostMult: rs.Phase2.CostMult}
		}
		return m, nil
	case "adaptive-competitor":
		return hidden.AdaptiveCompetitor{
			ResponseDelay:  rs.ResponseDelay,
			UndercutAmount: rs.UndercutAmount,
			PriceCeiling:   rs.PriceCeiling,
			PriceFloor:     rs.PriceFloor,
		}, nil
	case "cascading-failures":
		return hidden.CascadingFailures{LoadRedistribution: rs.LoadRedistribution, SpatialDamage: rs.SpatialDamage}, nil
	case "periodic-inspection":
		return hidden.PeriodicInspection{Interval: rs.Interval, Threshold: rs.Threshold, Fine: rs.Fine}, nil
	case "repair-fraud":
		return hidden.RepairFraud{CheapFailureRate: rs.CheapFailureRate}, nil
	case "random-delays":
		return hidden.RandomDelays{MinDelay: rs.MinDelay, MaxDelay: rs.MaxDelay}, nil
	default:
		return nil, fmt.Errorf("unknown mechanic type %q", rs.Type)
	}
}
