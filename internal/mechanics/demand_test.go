package mechanics

import (
	"math/rand"
	"testing"

	"github.com/laundrobench/laundrobench/internal/econ"
	"github.com/laundrobench/laundrobench/internal/models"
)

func fairPricing() map[string]float64 {
	return map[string]float64{models.ServiceWash: 5.0, models.ServiceDry: 4.0}
}

func TestBaseDrawRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := econ.DefaultConfig()
	for i := 0; i < 1000; i++ {
		d := BaseDraw(rng, cfg)
		if d < 20 || d >= 40 {
			t.Fatalf("BaseDraw = %d, want [20,40)", d)
		}
	}
}

func TestBaseDrawHeatwave(t *testing.T) {
	cfg := econ.DefaultConfig()
	cfg.Heatwave = true
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		d := BaseDraw(rng, cfg)
		if d < 60 || d >= 120 || d%3 != 0 {
			t.Fatalf("heatwave BaseDraw = %d, want a tripled [20,40) draw", d)
		}
	}
}

func TestDemandNeverNegative(t *testing.T) {
	cfg := econ.DefaultConfig()
	pricing := map[string]float64{models.ServiceWash: 50.0, models.ServiceDry: 40.0}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		if d := Demand(25, pricing, 100, rng, cfg, false); d != 0 {
			t.Fatalf("Demand with absurd pricing = %d, want 0", d)
		}
	}
}

func TestDemandPricePenalty(t *testing.T) {
	cfg := econ.DefaultConfig()
	// Same seed for both calls so the flux draw is identical.
	fair := Demand(30, fairPricing(), 100, rand.New(rand.NewSource(9)), cfg, false)
	expensive := Demand(30, map[string]float64{models.ServiceWash: 6.0, models.ServiceDry: 4.0},
		100, rand.New(rand.NewSource(9)), cfg, false)
	if expensive != fair-10 {
		t.Errorf("1$ over fair wash price: got %d, want %d (penalty 10)", expensive, fair-10)
	}
}

func TestDemandSatisfactionModifiers(t *testing.T) {
	cfg := econ.DefaultConfig()
	happy := Demand(30, fairPricing(), 100, rand.New(rand.NewSource(3)), cfg, false)
	unhappy := Demand(30, fairPricing(), 40, rand.New(rand.NewSource(3)), cfg, false)
	if unhappy != happy/2 {
		t.Errorf("satisfaction 40: got %d, want half of %d", unhappy, happy)
	}

	cfg.StrictDemandCutoff = true
	if d := Demand(30, fairPricing(), 70, rand.New(rand.NewSource(3)), cfg, false); d != 0 {
		t.Errorf("strict cutoff below threshold: got %d, want 0", d)
	}
	// Below 50 the halving applies, not the cutoff zeroing.
	if d := Demand(30, fairPricing(), 40, rand.New(rand.NewSource(3)), cfg, false); d != happy/2 {
		t.Errorf("strict cutoff at satisfaction 40: got %d, want %d", d, happy/2)
	}
}

func TestDemandCompetitorCut(t *testing.T) {
	cfg := econ.DefaultConfig()
	without := Demand(30, fairPricing(), 100, rand.New(rand.NewSource(5)), cfg, false)
	with := Demand(30, fairPricing(), 100, rand.New(rand.NewSource(5)), cfg, true)
	if with != int(float64(without)*0.70) {
		t.Errorf("competitor demand = %d, want 70%% of %d", with, without)
	}
}
