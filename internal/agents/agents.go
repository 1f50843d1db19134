// Package agents provides the scripted baseline policies the benchmark runs
// against every scenario. Policies see only sanitized observations; each is
// an explicit caller-owned value with its own state, never a shared
// singleton.
package agents

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/laundrobench/laundrobench/internal/models"
)

// Policy decides one day's action from one observation.
type Policy interface {
	Name() string
	Act(obs models.Observation) models.AgentAction
}

// New returns a fresh policy by name. The seed feeds only the policy's own
// randomness; engine determinism is untouched.
func New(name string, seed int64) (Policy, error) {
	switch name {
	case "random":
		return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}, nil
	case "reactive":
		return ReactivePolicy{}, nil
	case "greedy":
		return GreedyPolicy{}, nil
	case "smart":
		return NewSmartPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown agent %q", name)
	}
}

// Names lists the available baseline policies.
func Names() []string {
	return []string{"random", "reactive", "greedy", "smart"}
}

// RandomPolicy acts randomly but not senselessly: it cheap-repairs whatever
// is broken, restocks soap, and occasionally throws money at marketing.
type RandomPolicy struct {
	rng *rand.Rand
}

func (p *RandomPolicy) Name() string { return "random" }

func (p *RandomPolicy) Act(obs models.Observation) models.AgentAction {
	var ops []models.MaintenanceOp
	var inspections []models.InspectionRequest
	allLogs := strings.Join(obs.Logs, "\n")
	for _, m := range obs.Machines {
		switch {
		case m.Status == models.StatusBroken:
			ops = append(ops, models.MaintenanceOp{MachineID: m.ID, Operation: models.RepairCheap})
		case strings.Contains(allLogs, "Loud banging") && strings.Contains(allLogs, fmt.Sprintf("Machine %d", m.ID)):
			inspections = append(inspections, models.InspectionRequest{MachineID: m.ID})
		}
	}

	buy := map[string]int{}
	if obs.Inventory[models.ResourceSoap] < 20 {
		buy[models.ResourceSoap] = 10
	}

	marketing := 0.0
	if p.rng.Float64() < 0.1 {
		marketing = 20.0
	}

	memory := fmt.Sprintf("Day %d processed.", obs.Day)
	return models.AgentAction{
		MaintenanceOps:  ops,
		Inspections:     inspections,
		BuyInventory:    buy,
		MarketingChange: &marketing,
		UpdateMemory:    &memory,
	}
}

// ReactivePolicy repairs on breakage (always premium), restocks soap when
// low, and otherwise changes nothing.
type ReactivePolicy struct{}

func (ReactivePolicy) Name() string { return "reactive" }

func (ReactivePolicy) Act(obs models.Observation) models.AgentAction {
	var ops []models.MaintenanceOp
	for _, m := range obs.Machines {
		if m.Status == models.StatusBroken {
			ops = append(ops, models.MaintenanceOp{MachineID: m.ID, Operation: models.RepairPremium})
		}
	}

	buy := map[string]int{}
	if obs.Inventory[models.ResourceSoap] < 10 {
		buy[models.ResourceSoap] = 20
	}

	zero := 0.0
	return models.AgentAction{
		MaintenanceOps:  ops,
		BuyInventory:    buy,
		MarketingChange: &zero,
	}
}

// GreedyPolicy creeps prices up, buys the bare minimum, and never pays for
// anything better than a cheap repair.
type GreedyPolicy struct{}

func (GreedyPolicy) Name() string { return "greedy" }

func (GreedyPolicy) Act(obs models.Observation) models.AgentAction {
	var ops []models.MaintenanceOp
	for _, m := range obs.Machines {
		if m.Status == models.StatusBroken {
			ops = append(ops, models.MaintenanceOp{MachineID: m.ID, Operation: models.RepairCheap})
		}
	}

	buy := map[string]int{}
	if obs.Inventory[models.ResourceSoap] < 5 {
		buy[models.ResourceSoap] = 5
	}

	var pricing map[string]float64
	if obs.Day%10 == 0 {
		pricing = map[string]float64{
			models.ServiceWash: obs.Pricing[models.ServiceWash] + 0.5,
			models.ServiceDry:  obs.Pricing[models.ServiceDry] + 0.5,
		}
	}

	zero := 0.0
	return models.AgentAction{
		MaintenanceOps:  ops,
		BuyInventory:    buy,
		PricingChange:   pricing,
		MarketingChange: &zero,
	}
}
