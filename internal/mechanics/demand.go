package mechanics

import (
	"math/rand"

	"github.com/laundrobench/laundrobench/internal/econ"
	"github.com/laundrobench/laundrobench/internal/models"
)

// BaseDraw produces the raw daily demand figure before pricing and
// satisfaction effects: a uniform integer in [20,40), tripled under a
// heatwave and scaled by the configured base demand multiplier. It consumes
// exactly one draw from the stream.
func BaseDraw(rng *rand.Rand, cfg econ.Config) int {
	base := rng.Intn(20) + 20
	if cfg.Heatwave {
		base *= 3
	}
	return int(float64(base) * cfg.BaseDemandMult)
}

// Demand turns the base draw into today's customer count. Pricing above fair
// market is penalized, low satisfaction halves (or, under a strict cutoff,
// zeroes) the figure, an active competitor shaves 30% off, and a uniform flux
// in [-5,5] keeps the series from being flat. Never negative. Consumes
// exactly one draw.
func Demand(baseDraw int, pricing map[string]float64, satisfaction float64, rng *rand.Rand, cfg econ.Config, competitorActive bool) int {
	penalty := 0.0
	if p := pricing[models.ServiceWash]; p > econ.FairMarketWash {
		penalty += (p - econ.FairMarketWash) * 10 * cfg.PriceSensitivity
	}
	if p := pricing[models.ServiceDry]; p > econ.FairMarketDry {
		penalty += (p - econ.FairMarketDry) * 10 * cfg.PriceSensitivity
	}

	modifier := 1.0
	switch {
	case satisfaction < 50:
		modifier = 0.5
	case cfg.StrictDemandCutoff && satisfaction < cfg.SatisfactionThreshold:
		modifier = 0.0
	}

	flux := rng.Intn(11) - 5

	demand := int((float64(baseDraw) - penalty + float64(flux)) * modifier)
	if competitorActive {
		demand = int(float64(demand) * 0.70)
	}
	if demand < 0 {
		demand = 0
	}
	return demand
}
