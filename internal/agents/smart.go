package agents

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laundrobench/laundrobench/internal/models"
)

// SmartPolicy keeps internal estimates of hidden machine health, updated from
// inspection results and symptom logs, and schedules preventive maintenance
// and price moves from yesterday's customer flow.
type SmartPolicy struct {
	healthEstimates map[int]float64
	lastInspection  map[int]int
	pricing         map[string]float64
}

// NewSmartPolicy returns a smart policy with a fresh memory.
func NewSmartPolicy() *SmartPolicy {
	return &SmartPolicy{
		healthEstimates: make(map[int]float64),
		lastInspection:  make(map[int]int),
		pricing: map[string]float64{
			models.ServiceWash: 5.0,
			models.ServiceDry:  4.0,
		},
	}
}

func (p *SmartPolicy) Name() string { return "smart" }

func (p *SmartPolicy) Act(obs models.Observation) models.AgentAction {
	p.updateEstimates(obs.Logs)

	var ops []models.MaintenanceOp
	var inspections []models.InspectionRequest

	for _, m := range obs.Machines {
		est, ok := p.healthEstimates[m.ID]
		if !ok {
			est = 1.0
		}
		est -= 0.005 // assumed daily decay
		p.healthEstimates[m.ID] = est

		if m.Status == models.StatusBroken {
			ops = append(ops, models.MaintenanceOp{MachineID: m.ID, Operation: models.RepairPremium})
			p.healthEstimates[m.ID] = 1.0
			continue
		}

		if est < 0.4 {
			ops = append(ops, models.MaintenanceOp{MachineID: m.ID, Operation: models.RepairCheap})
			p.healthEstimates[m.ID] = est + 0.3
		}

		if obs.Day-p.lastInspection[m.ID] > 30 && obs.Cash > 100 {
			inspections = append(inspections, models.InspectionRequest{MachineID: m.ID})
			p.lastInspection[m.ID] = obs.Day
		}
	}

	buy := map[string]int{}
	if obs.Inventory[models.ResourceSoap] < 50 {
		buy[models.ResourceSoap] = 50
	}

	// Full house yesterday: room to raise. Empty house: discount.
	if obs.YesterdayStats.CustomersTurnedAway > 5 {
		p.pricing[models.ServiceWash] += 0.25
	} else if obs.YesterdayStats.CustomersServed < 10 {
		p.pricing[models.ServiceWash] = maxf(2.0, p.pricing[models.ServiceWash]-0.25)
	}

	marketing := 0.0
	if obs.Cash > 1000 {
		marketing = 10.0
	}

	memory := fmt.Sprintf("smart: tracking %d machines", len(p.healthEstimates))
	pricing := map[string]float64{
		models.ServiceWash: p.pricing[models.ServiceWash],
		models.ServiceDry:  p.pricing[models.ServiceDry],
	}
	return models.AgentAction{
		MaintenanceOps:  ops,
		Inspections:     inspections,
		BuyInventory:    buy,
		PricingChange:   pricing,
		MarketingChange: &marketing,
		UpdateMemory:    &memory,
	}
}

// updateEstimates parses inspection bands and the louder symptoms out of the
// day's logs.
func (p *SmartPolicy) updateEstimates(logs []string) {
	for _, log := range logs {
		if strings.Contains(log, "INSPECT: Machine") {
			parts := strings.Split(log, "|")
			if len(parts) < 2 {
				continue
			}
			id, ok := trailingInt(strings.TrimSpace(parts[0]))
			if !ok {
				continue
			}
			cond := parts[1]
			switch {
			case strings.Contains(cond, "EXCELLENT"):
				p.healthEstimates[id] = 0.9
			case strings.Contains(cond, "GOOD"):
				p.healthEstimates[id] = 0.7
			case strings.Contains(cond, "FAIR"):
				p.healthEstimates[id] = 0.5
			case strings.Contains(cond, "POOR"):
				p.healthEstimates[id] = 0.3
			case strings.Contains(cond, "CRITICAL"):
				p.healthEstimates[id] = 0.1
			}
			continue
		}

		if strings.Contains(log, "Loud banging") {
			if id, ok := machineIDFrom(log); ok {
				if cur, seen := p.healthEstimates[id]; !seen || cur > 0.3 {
					p.healthEstimates[id] = 0.3
				}
			}
		}
	}
}

// machineIDFrom pulls the integer following "Machine " out of a log line.
func machineIDFrom(log string) (int, bool) {
	_, after, found := strings.Cut(log, "Machine ")
	if !found {
		return 0, false
	}
	end := 0
	for end < len(after) && after[end] >= '0' && after[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(after[:end])
	return id, err == nil
}

func trailingInt(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(fields[len(fields)-1])
	return id, err == nil
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
