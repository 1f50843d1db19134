// Package hidden implements the undisclosed per-scenario dynamics. Each
// mechanic is one variant of a closed set; its identity, thresholds, and
// parameters never appear in any log line or observation field. Only the
// numeric effects are visible to the outside.
package hidden

import (
	"fmt"
	"math/rand"

	"github.com/laundrobench/laundrobench/internal/models"
)

// Mechanic is the sealed variant type. Only this package can add variants,
// which keeps the dispatch in Install and Apply exhaustive.
type Mechanic interface {
	isMechanic()
}

// AssetDefect marks specific machines as lemons: they wear with an extra
// multiplier on top of normal degradation.
type AssetDefect struct {
	MachineIDs      []int
	DegradationMult float64
}

// RegimeShift swaps the active demand and cost multipliers to a second phase
// on a configured day, with a one-time news log at the transition.
type RegimeShift struct {
	ShiftDay int
	Phase1   Phase
	Phase2   Phase
}

// Phase is one economic regime.
type Phase struct {
	DemandMult float64
	CostMult   float64
}

// AdaptiveCompetitor periodically reprices against the business: undercut by
// a fixed amount when the business prices above the ceiling, match when it
// prices below the floor. The competitor-active flag the demand model
// consumes is set whenever the competitor is cheaper.
type AdaptiveCompetitor struct {
	ResponseDelay  int
	UndercutAmount float64
	PriceCeiling   float64
	PriceFloor     float64
}

// CascadingFailures makes broken machines hurt the rest of the fleet: the
// surviving machines absorb redistributed load as extra wear, and machines
// adjacent by id to a broken one take a flat damage increment.
type CascadingFailures struct {
	LoadRedistribution float64
	SpatialDamage      float64
}

// PeriodicInspection fines the business on a fixed cadence whenever
// satisfaction sits below a hidden threshold.
type PeriodicInspection struct {
	Interval  int
	Threshold float64
	Fine      float64
}

// RepairFraud overrides the cheap-repair success probability.
type RepairFraud struct {
	CheapFailureRate float64
}

// RandomDelays makes every inventory order's lead time an independent uniform
// draw in [MinDelay, MaxDelay] days.
type RandomDelays struct {
	MinDelay int
	MaxDelay int
}

func (AssetDefect) isMechanic()        {}
func (RegimeShift) isMechanic()        {}
func (AdaptiveCompetitor) isMechanic() {}
func (CascadingFailures) isMechanic()  {}
func (PeriodicInspection) isMechanic() {}
func (RepairFraud) isMechanic()        {}
func (RandomDelays) isMechanic()       {}

// Effects is the slice of engine runtime that mechanics act on. The engine
// resets the per-day fields before Apply and reads the rest at the step
// positions that need them.
type Effects struct {
	// DemandMult and CostMult scale the base demand draw and the per-load
	// utility cost. Both default to 1 and are only moved by a regime shift.
	DemandMult float64
	CostMult   float64

	// Competitor pricing state. CompetitorActive feeds the demand model.
	CompetitorPrice  float64
	CompetitorActive bool

	// CheapRepairFailRate, when set, replaces the scenario's configured rate
	// in cheap-repair resolution.
	CheapRepairFailRate float64

	// CascadeWearMult is the fleet-wide extra degradation multiplier from
	// load redistribution. Reset to 1 by the engine every day.
	CascadeWearMult float64

	// MachineWearMult holds per-machine extra degradation multipliers
	// (the lemons). Nil means no machine is special.
	MachineWearMult map[int]float64

	// Random lead-time override for inventory orders.
	RandomLeadTime         bool
	LeadTimeMin, LeadTimeMax int
}

// DefaultEffects returns the neutral effects of a scenario with no mechanic.
func DefaultEffects(cheapRepairFailRate float64) Effects {
	return Effects{
		DemandMult:          1.0,
		CostMult:            1.0,
		CheapRepairFailRate: cheapRepairFailRate,
		CascadeWearMult:     1.0,
	}
}

// Install applies the static part of a mechanic at engine construction:
// properties the step loop must already see before the mechanic's daily hook
// runs (the repair-fraud success override, lemon wear multipliers, random
// lead times). A nil mechanic installs nothing.
func Install(m Mechanic, fx *Effects) {
	switch v := m.(type) {
	case nil:
	case AssetDefect:
		fx.MachineWearMult = make(map[int]float64, len(v.MachineIDs))
		for _, id := range v.MachineIDs {
			fx.MachineWearMult[id] = v.DegradationMult
		}
	case RepairFraud:
		fx.CheapRepairFailRate = v.CheapFailureRate
	case RandomDelays:
		fx.RandomLeadTime = true
		fx.LeadTimeMin = v.MinDelay
		fx.LeadTimeMax = v.MaxDelay
	case RegimeShift, AdaptiveCompetitor, CascadingFailures, PeriodicInspection:
		// purely day-driven, nothing static
	default:
		panic(fmt.Sprintf("hidden: unhandled mechanic %T", m))
	}
}

// Apply runs a mechanic's daily dynamics against the current state. It may
// mutate cash, machine health, and effects, and returns the log lines to
// surface — lines which describe consequences, never the rule producing them.
func Apply(m Mechanic, day int, st *models.SimulationState, fx *Effects, rng *rand.Rand) []string {
	switch v := m.(type) {
	case nil:
		return nil

	case AssetDefect, RepairFraud, RandomDelays:
		// static, installed at construction
		return nil

	case RegimeShift:
		if day < v.ShiftDay {
			fx.DemandMult = v.Phase1.DemandMult
			fx.CostMult = v.Phase1.CostMult
			return nil
		}
		fx.DemandMult = v.Phase2.DemandMult
		fx.CostMult = v.Phase2.CostMult
		if day == v.ShiftDay {
			return []string{"NEWS: The neighborhood feels different lately. Fewer people on the street."}
		}
		return nil

	case AdaptiveCompetitor:
		if v.ResponseDelay > 0 && day%v.ResponseDelay == 0 {
			wash := st.Pricing[models.ServiceWash]
			switch {
			case wash > v.PriceCeiling:
				fx.CompetitorPrice = wash - v.UndercutAmount
			case wash < v.PriceFloor:
				fx.CompetitorPrice = wash
			}
		}
		fx.CompetitorActive = fx.CompetitorPrice > 0 && fx.CompetitorPrice < st.Pricing[models.ServiceWash]
		return nil

	case CascadingFailures:
		var logs []string
		fx.CascadeWearMult = 1.0
		for _, b := range st.Machines {
			if b.Status != models.StatusBroken {
				continue
			}
			fx.CascadeWearMult += v.LoadRedistribution
			for _, m := range st.Machines {
				if m.Status != models.StatusWorking {
					continue
				}
				if m.ID == b.ID-1 || m.ID == b.ID+1 {
					m.Health -= v.SpatialDamage
					if m.Health < 0 {
						m.Health = 0
					}
				}
			}
			if rng.Float64() < 0.05 {
				logs = append(logs, fmt.Sprintf("Odd rattling heard near Machine %d area", b.ID))
			}
		}
		return logs

	case PeriodicInspection:
		if v.Interval <= 0 || day%v.Interval != 0 {
			return nil
		}
		if st.CustomerSatisfaction < v.Threshold {
			st.Cash -= v.Fine
			return []string{fmt.Sprintf("AUDIT: Surprise inspection failed. Fine issued: -$%.0f", v.Fine)}
		}
		return []string{"AUDIT: Surprise inspection passed."}

	default:
		panic(fmt.Sprintf("hidden: unhandled mechanic %T", m))
	}
}
