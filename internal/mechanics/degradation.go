// Package mechanics holds the pure stochastic models of the simulation:
// machine wear, customer demand, and symptom log generation. Every function
// draws from the caller's seeded stream; none keeps state of its own.
package mechanics

import "math/rand"

// Bathtub curve parameters.
const (
	baseWearPerCycle = 0.001

	infantAgeLimit  = 100
	steadyAgeLimit  = 2000
	infantSpikeProb = 0.05
	infantSpike     = 0.05
	steadySpikeProb = 0.0005
	steadySpike     = 0.10
)

// Degradation returns the health decrement for one cycle of wear on a machine
// of the given age, following the bathtub curve: elevated spike risk while
// young, a long quiet middle, and unconditional quadratic wear growth past
// steadyAgeLimit cycles. The wear-out regime consumes no random draw.
func Degradation(ageCycles int, multiplier float64, rng *rand.Rand) float64 {
	switch {
	case ageCycles < infantAgeLimit:
		if rng.Float64() < infantSpikeProb {
			return infantSpike * multiplier
		}
		return baseWearPerCycle * multiplier

	case ageCycles <= steadyAgeLimit:
		if rng.Float64() < steadySpikeProb {
			return steadySpike * multiplier
		}
		return baseWearPerCycle * multiplier

	default:
		ageFactor := float64(ageCycles-steadyAgeLimit) / 1000.0
		return baseWearPerCycle * (1.0 + ageFactor*ageFactor) * multiplier
	}
}
