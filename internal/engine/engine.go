// Package engine implements the per-day state transition of the simulated
// business. One Engine owns one SimulationState and one seeded random stream;
// Step consumes an agent action and advances exactly one day.
//
// The sub-step order inside Step is a contract: every stochastic draw depends
// on the stream position left by the draws before it, so reordering any
// sub-step silently changes every subsequent day of the run.
package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/laundrobench/laundrobench/internal/econ"
	"github.com/laundrobench/laundrobench/internal/hidden"
	"github.com/laundrobench/laundrobench/internal/mechanics"
	"github.com/laundrobench/laundrobench/internal/models"
	"github.com/laundrobench/laundrobench/internal/sanitize"
	"github.com/laundrobench/laundrobench/internal/scenario"
	"github.com/laundrobench/laundrobench/internal/scoring"
)

// Engine evolves one scenario. Not safe for concurrent use; run one engine
// per goroutine.
type Engine struct {
	scen    *scenario.Scenario
	cfg     econ.Config
	rng     *rand.Rand
	state   *models.SimulationState
	pending []models.PendingOrder
	fx      hidden.Effects

	rentMult         float64 // compounds under scripted rent hikes
	utilityInflation float64 // compounds under hyper-inflation
	competitorOpened bool    // latched by the competitor-opened event

	lastStats  models.DayStats
	initialObs models.Observation
}

// New constructs an engine for a resolved scenario. The initial observation
// consumes the stream's first draw (cash noise), so it is taken here, once.
func New(scen *scenario.Scenario) (*Engine, error) {
	if scen == nil {
		return nil, fmt.Errorf("engine: nil scenario")
	}
	cfg := scen.Config

	e := &Engine{
		scen:             scen,
		cfg:              cfg,
		rng:              rand.New(rand.NewSource(scen.Seed)),
		fx:               hidden.DefaultEffects(cfg.CheapRepairFailRate),
		rentMult:         cfg.RentMult,
		utilityInflation: 1.0,
	}
	hidden.Install(scen.Mechanic, &e.fx)
	e.state = initialState(cfg)
	e.initialObs = sanitize.Observe(e.state, models.DayStats{}, e.rng)
	return e, nil
}

func initialState(cfg econ.Config) *models.SimulationState {
	machines := make([]*models.Machine, 0, 10)
	for id := 1; id <= 10; id++ {
		kind := models.KindWasher
		if id > 6 {
			kind = models.KindDryer
		}

		m := &models.Machine{
			ID:         id,
			Kind:       kind,
			Status:     models.StatusWorking,
			Health:     1.0,
			Efficiency: 1.0,
		}
		if cfg.LemonLaw {
			m.AgeCycles = 50
		}
		if cfg.SlumlordStart && id%2 == 0 {
			m.Status = models.StatusBroken
			m.Health = 0.0
			m.AgeCycles = 3000
		}
		machines = append(machines, m)
	}

	return &models.SimulationState{
		Day:  1,
		Cash: cfg.InitialCash,
		Debt: cfg.InitialDebt,
		Inventory: map[string]int{
			models.ResourceSoap:  econ.InitialSoap,
			models.ResourceParts: econ.InitialParts,
		},
		Pricing: map[string]float64{
			models.ServiceWash: econ.PriceWash,
			models.ServiceDry:  econ.PriceDry,
		},
		CustomerSatisfaction: 100.0,
		Machines:             machines,
	}
}

// InitialObservation returns the sanitized view of the freshly constructed
// state, before any step has run.
func (e *Engine) InitialObservation() models.Observation {
	return e.initialObs
}

// State exposes the full internal state for analysis tooling. Anything that
// feeds an evaluated agent must go through the sanitized observation instead.
func (e *Engine) State() *models.SimulationState {
	return e.state
}

// Step advances the simulation by one day. The numbered sub-steps run in
// fixed order; see the package comment for why that order is load-bearing.
func (e *Engine) Step(action models.AgentAction) (models.Observation, models.Metrics) {
	st := e.state
	day := st.Day
	var logs []string

	// 1. Pricing, memory, and marketing updates.
	for svc, price := range action.PricingChange {
		st.Pricing[svc] = price
	}
	if action.UpdateMemory != nil {
		st.AgentMemory = *action.UpdateMemory
	}
	if action.MarketingChange != nil {
		st.MarketingSpend = *action.MarketingChange
	}

	// 2. Debt payment.
	if action.PayDebt > 0 {
		if st.Cash >= action.PayDebt {
			st.Cash -= action.PayDebt
			st.Debt = math.Max(0, st.Debt-action.PayDebt)
			logs = append(logs, fmt.Sprintf("FINANCE: Paid $%.2f towards debt.", action.PayDebt))
		} else {
			logs = append(logs, "FINANCE: Transaction declined (insufficient funds for debt).")
		}
	}

	// 3. Inventory purchases. Overdraft is allowed; goods arrive after the
	// lead time. Keys are processed in sorted order so any lead-time draws
	// land in a fixed sequence.
	e.processPurchases(action.BuyInventory, &logs)

	// 4. Inspections.
	e.processInspections(action.Inspections, &logs)

	// 5. Maintenance.
	e.processMaintenance(action.MaintenanceOps, &logs)

	// 6. Deliveries.
	remaining := e.pending[:0]
	for _, o := range e.pending {
		if o.ArrivalDay <= day {
			st.Inventory[o.Item] += o.Quantity
			logs = append(logs, fmt.Sprintf("DELIVERY: Received %d %s.", o.Quantity, o.Item))
		} else {
			remaining = append(remaining, o)
		}
	}
	e.pending = remaining

	// 7. Scripted event tape.
	demandOverride := e.applyEvents(day, &logs)

	// 8. Day-periodic macro effects.
	if e.cfg.HyperInflation && day%e.cfg.InflationInterval == 0 {
		e.utilityInflation *= 1.10
		logs = append(logs, fmt.Sprintf("MACRO: Inflation spike! Utilities now %.2fx base.", e.utilityInflation))
	}

	// 9. Hidden mechanic. Runs before the demand draw so same-day demand
	// effects land; the repair-fraud override was installed at construction
	// so step 5 already honored it.
	e.fx.CascadeWearMult = 1.0
	logs = append(logs, hidden.Apply(e.scen.Mechanic, day, st, &e.fx, e.rng)...)

	// 10. Demand.
	baseDraw := int(float64(mechanics.BaseDraw(e.rng, e.cfg)) * e.fx.DemandMult)
	competitor := e.cfg.CompetitorActive || e.competitorOpened || e.fx.CompetitorActive
	demand := mechanics.Demand(baseDraw, st.Pricing, st.CustomerSatisfaction, e.rng, e.cfg, competitor)
	if demandOverride != nil {
		demand = *demandOverride
	}

	// 11. Capacity and throughput. Drying is downstream of washing.
	maxCycles := econ.MaxCyclesPerDay
	if e.cfg.WaterRationing {
		maxCycles /= 2
		logs = append(logs, "MACRO: Water rationing in effect. Max cycles reduced.")
	}
	workingWashers := e.countWorking(models.KindWasher)
	workingDryers := e.countWorking(models.KindDryer)
	washes := min(demand, workingWashers*maxCycles)
	dries := min(washes, workingDryers*maxCycles)
	lost := demand - washes

	// 12. Soap consumption clamps throughput.
	soapNeeded := float64(washes) / econ.LoadsPerSoapUnit
	if float64(st.Inventory[models.ResourceSoap]) < soapNeeded {
		washes = st.Inventory[models.ResourceSoap] * econ.LoadsPerSoapUnit
		dries = min(washes, dries)
		st.Inventory[models.ResourceSoap] = 0
		lost += demand - washes
		logs = append(logs, "CRITICAL: Ran out of soap! Turning away customers.")
	} else {
		st.Inventory[models.ResourceSoap] -= int(soapNeeded)
	}

	// 13. Daily P&L.
	income := float64(washes)*st.Pricing[models.ServiceWash] + float64(dries)*st.Pricing[models.ServiceDry]
	utility := float64(washes+dries) * econ.CostUtilityPerLoad * e.utilityInflation * e.fx.CostMult
	rent := econ.RentDaily * e.rentMult
	profit := income - utility - rent - st.MarketingSpend
	st.Cash += profit

	// 14. Interest: formal debt at the base rate, overdraft at double.
	if st.Debt > 0 {
		st.Debt += st.Debt * e.cfg.InterestRate
	}
	if st.Cash < 0 {
		st.Cash -= -st.Cash * e.cfg.InterestRate * 2
	}

	// 15. Wear. Cycles split evenly across the machines that ran them; one
	// degradation draw per working machine, scaled by the cycles it ran.
	for _, m := range st.Machines {
		if m.Status != models.StatusWorking {
			continue
		}
		cycles := 0
		switch m.Kind {
		case models.KindWasher:
			if workingWashers > 0 {
				cycles = washes / workingWashers
			}
		case models.KindDryer:
			if workingDryers > 0 {
				cycles = dries / workingDryers
			}
		}
		m.AgeCycles += cycles

		mult := e.cfg.DegradationMult * e.fx.CascadeWearMult
		if extra, ok := e.fx.MachineWearMult[m.ID]; ok {
			mult *= extra
		}
		m.Health -= mechanics.Degradation(m.AgeCycles, mult, e.rng) * float64(cycles)
		m.Health = clamp01(m.Health)

		logs = append(logs, mechanics.SymptomLogs(m, e.rng)...)
	}

	// 16. Satisfaction. The storefront machine (id 1) doubles as curb
	// appeal: customers notice when it looks rough.
	change := 0.0
	if lost > 0 {
		change -= float64(lost) * 0.5
	}
	if st.Machines[0].Health < 0.5 {
		change -= 1
	}
	change += st.MarketingSpend / 10.0
	st.CustomerSatisfaction = clampRange(st.CustomerSatisfaction+change, 0, 100)

	// 17. Close the day.
	stats := models.DayStats{CustomersServed: washes, CustomersTurnedAway: lost, Revenue: income}
	st.Day++
	st.LogHistory = logs
	e.lastStats = stats

	metrics := models.Metrics{
		DailyProfit:  round2(profit),
		NBV:          scoring.NetBusinessValue(st),
		Satisfaction: st.CustomerSatisfaction,
	}
	return sanitize.Observe(st, stats, e.rng), metrics
}

func (e *Engine) processPurchases(buy map[string]int, logs *[]string) {
	if len(buy) == 0 {
		return
	}
	items := make([]string, 0, len(buy))
	for item := range buy {
		items = append(items, item)
	}
	sort.Strings(items)

	for _, item := range items {
		qty := buy[item]
		if qty <= 0 {
			continue
		}
		var unitCost float64
		switch item {
		case models.ResourceSoap:
			unitCost = econ.CostSoapUnit
		case models.ResourceParts:
			unitCost = econ.CostPart
		default:
			continue // unknown resources are ignored
		}

		cost := float64(qty) * unitCost
		e.state.Cash -= cost
		arrival := e.state.Day + e.leadTime(item)
		e.pending = append(e.pending, models.PendingOrder{ArrivalDay: arrival, Item: item, Quantity: qty})
		*logs = append(*logs, fmt.Sprintf("ORDER: Bought %d %s for $%.2f. Arrival day %d.", qty, item, cost, arrival))
	}
}

// leadTime may consume a draw under the random-delays mechanic, so purchase
// iteration order matters.
func (e *Engine) leadTime(item string) int {
	if e.fx.RandomLeadTime {
		return e.rng.Intn(e.fx.LeadTimeMax-e.fx.LeadTimeMin+1) + e.fx.LeadTimeMin
	}
	if item == models.ResourceSoap && e.cfg.SupplyShock {
		return econ.SupplyShockLeadTime
	}
	return econ.DefaultLeadTime
}

func (e *Engine) processInspections(reqs []models.InspectionRequest, logs *[]string) {
	for _, req := range reqs {
		m := e.machine(req.MachineID)
		if m == nil {
			continue
		}
		if e.state.Cash < econ.InspectionFee {
			*logs = append(*logs, "FINANCE: Inspection declined (insufficient funds).")
			continue
		}
		e.state.Cash -= econ.InspectionFee

		// Reveal a band, never the number, and a remaining-life guess that
		// is deliberately ±20% off.
		estDays := m.Health * 100 // health / base wear, spread over max daily cycles
		fuzz := 1.0 + (e.rng.Float64()*0.4 - 0.2)
		*logs = append(*logs, fmt.Sprintf("INSPECT: Machine %d | Condition: %s | Est. remaining life ~%d days",
			m.ID, healthBand(m.Health), int(estDays*fuzz)))
	}
}

// healthBand buckets hidden health into the five bands an inspection reveals.
func healthBand(h float64) string {
	switch {
	case h >= 0.8:
		return "EXCELLENT (80-100%)"
	case h >= 0.6:
		return "GOOD (60-80%)"
	case h >= 0.4:
		return "FAIR (40-60%)"
	case h >= 0.2:
		return "POOR (20-40%)"
	default:
		return "CRITICAL (0-20%)"
	}
}

// processMaintenance charges each operation's cost exactly once, success or
// not. Unknown machine ids are skipped silently.
func (e *Engine) processMaintenance(ops []models.MaintenanceOp, logs *[]string) {
	st := e.state
	for _, op := range ops {
		m := e.machine(op.MachineID)
		if m == nil {
			continue
		}

		switch op.Operation {
		case models.RepairCheap:
			cost := econ.CostRepairCheap * e.cfg.RepairCostMult
			success := true
			if rate := e.fx.CheapRepairFailRate; rate > 0 {
				success = e.rng.Float64() >= rate
			}
			if success {
				m.Status = models.StatusWorking
				m.Health = math.Min(1.0, m.Health+econ.CheapRepairHealthBonus)
				m.LastMaintenanceDay = st.Day
				*logs = append(*logs, fmt.Sprintf("MAINT: Machine %d cheap repair completed.", m.ID))
			} else {
				*logs = append(*logs, fmt.Sprintf("MAINT: Machine %d cheap repair had no effect.", m.ID))
			}
			st.Cash -= cost

		case models.RepairPremium:
			cost := econ.CostRepairPremium * e.cfg.RepairCostMult
			m.Status = models.StatusWorking
			m.Health = 1.0
			m.LastMaintenanceDay = st.Day
			st.Cash -= cost
			*logs = append(*logs, fmt.Sprintf("MAINT: Machine %d premium repair fully restored.", m.ID))

		case models.Replace:
			cost := econ.CostDryer
			if m.Kind == models.KindWasher {
				cost = econ.CostWasher
			}
			m.AgeCycles = 0
			m.Health = 1.0
			m.Status = models.StatusWorking
			m.LastMaintenanceDay = st.Day
			st.Cash -= cost
			*logs = append(*logs, fmt.Sprintf("MAINT: Machine %d replaced brand new.", m.ID))
		}
	}
}

func (e *Engine) machine(id int) *models.Machine {
	for _, m := range e.state.Machines {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (e *Engine) countWorking(kind models.MachineKind) int {
	n := 0
	for _, m := range e.state.Machines {
		if m.Kind == kind && m.Status == models.StatusWorking {
			n++
		}
	}
	return n
}

func clamp01(x float64) float64 {
	return clampRange(x, 0, 1)
}

func clampRange(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
