// Package scoring computes the net business value used to rank runs.
package scoring

import (
	"math"

	"github.com/laundrobench/laundrobench/internal/econ"
	"github.com/laundrobench/laundrobench/internal/models"
)

// scrapFloor models residual scrap value: even a fully failed machine is
// worth 10% of its replacement cost.
const scrapFloor = 0.1

// NetBusinessValue is cash plus health-weighted asset value minus debt,
// rounded to cents. Pure and total; never mutates state.
func NetBusinessValue(st *models.SimulationState) float64 {
	assetValue := 0.0
	for _, m := range st.Machines {
		baseCost := econ.CostDryer
		if m.Kind == models.KindWasher {
			baseCost = econ.CostWasher
		}
		assetValue += baseCost * math.Max(scrapFloor, m.Health)
	}
	return round2(st.Cash + assetValue - st.Debt)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
