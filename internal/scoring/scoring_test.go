package scoring

import (
	"testing"

	"github.com/laundrobench/laundrobench/internal/models"
)

func TestNetBusinessValue(t *testing.T) {
	st := &models.SimulationState{
		Cash: 1000,
		Debt: 200,
		Machines: []*models.Machine{
			{ID: 1, Kind: models.KindWasher, Health: 0.5},
			{ID: 7, Kind: models.KindDryer, Health: 0.0},
		},
	}
	// washer 800*0.5 + dryer 600*0.1 (scrap floor) = 460
	if got := NetBusinessValue(st); got != 1260.0 {
		t.Errorf("NBV = %v, want 1260", got)
	}
}

func TestNetBusinessValueScrapFloor(t *testing.T) {
	st := &models.SimulationState{
		Machines: []*models.Machine{{ID: 1, Kind: models.KindWasher, Health: 0.05}},
	}
	// Health below the floor still values at 10% of replacement cost.
	if got := NetBusinessValue(st); got != 80.0 {
		t.Errorf("NBV = %v, want 80", got)
	}
}

func TestNetBusinessValuePure(t *testing.T) {
	st := &models.SimulationState{
		Cash:     10,
		Machines: []*models.Machine{{ID: 1, Kind: models.KindWasher, Health: 0.7}},
	}
	before := *st.Machines[0]
	_ = NetBusinessValue(st)
	if *st.Machines[0] != before {
		t.Error("NetBusinessValue mutated state")
	}
}
