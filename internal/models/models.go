// Package models defines the simulator's data model: the engine-owned
// simulation state, the agent action envelope, and the sanitized observation
// an external decision-maker is allowed to see.
package models

// MachineKind is the service category a machine belongs to.
type MachineKind string

const (
	KindWasher MachineKind = "washer"
	KindDryer  MachineKind = "dryer"
)

// MachineStatus is the externally visible operating state of a machine.
type MachineStatus string

const (
	StatusWorking     MachineStatus = "working"
	StatusBroken      MachineStatus = "broken"
	StatusMaintenance MachineStatus = "maintenance"
)

// Service and resource names used as map keys in pricing and inventory.
const (
	ServiceWash = "wash"
	ServiceDry  = "dry"

	ResourceSoap  = "soap"
	ResourceParts = "parts"
)

// Machine is one asset of the fixed fleet. Health and AgeCycles are hidden
// state: they never leave the engine except through vague symptom logs and
// bucketed inspection results.
type Machine struct {
	ID                 int
	Kind               MachineKind
	Status             MachineStatus
	AgeCycles          int
	Health             float64 // in [0,1]; broken iff 0
	Efficiency         float64 // reserved, always 1.0
	LastMaintenanceDay int     // 0 = never maintained
}

// SimulationState is the full internal state, owned exclusively by the engine
// and mutated only inside a step.
type SimulationState struct {
	Day                  int
	Cash                 float64 // may go negative (overdraft)
	Debt                 float64
	Inventory            map[string]int
	Pricing              map[string]float64
	MarketingSpend       float64
	CustomerSatisfaction float64 // clamped to [0,100]
	Machines             []*Machine
	LogHistory           []string // the lines emitted by the most recent step
	AgentMemory          string
}

// PendingOrder is an inventory purchase in transit.
type PendingOrder struct {
	ArrivalDay int
	Item       string
	Quantity   int
}

// MaintenanceVerb selects a maintenance operation on one machine.
type MaintenanceVerb string

const (
	RepairCheap   MaintenanceVerb = "repair_cheap"
	RepairPremium MaintenanceVerb = "repair_premium"
	Replace       MaintenanceVerb = "replace"
)

// MaintenanceOp requests one maintenance operation. Unknown machine ids are
// silently skipped.
type MaintenanceOp struct {
	MachineID int             `json:"machine_id"`
	Operation MaintenanceVerb `json:"operation"`
}

// InspectionRequest asks for a paid, fuzzy health reading of one machine.
type InspectionRequest struct {
	MachineID int `json:"machine_id"`
}

// AgentAction is the external input consumed once per simulated day. Every
// field is optional; the zero value is a valid no-op day.
type AgentAction struct {
	PricingChange   map[string]float64  `json:"pricing_change,omitempty"`
	BuyInventory    map[string]int      `json:"buy_inventory,omitempty"`
	MaintenanceOps  []MaintenanceOp     `json:"maintenance_ops,omitempty"`
	Inspections     []InspectionRequest `json:"inspections,omitempty"`
	MarketingChange *float64            `json:"marketing_change,omitempty"`
	PayDebt         float64             `json:"pay_debt,omitempty"`
	UpdateMemory    *string             `json:"update_memory,omitempty"`
}

// MachineView is the sanitized per-machine projection. No health, no age.
type MachineView struct {
	ID                   int           `json:"id"`
	Kind                 MachineKind   `json:"kind"`
	Status               MachineStatus `json:"status"`
	LastMaintenanceDay   int           `json:"last_maintenance_day"`
	DaysSinceMaintenance int           `json:"days_since_maintenance"`
}

// DayStats aggregates the prior day's customer flow.
type DayStats struct {
	CustomersServed     int     `json:"customers_served"`
	CustomersTurnedAway int     `json:"customers_turned_away"`
	Revenue             float64 `json:"revenue"`
}

// Observation is the only view of the simulation an external decision-maker
// may see. It is a fresh immutable snapshot; it never aliases engine state.
type Observation struct {
	Day                int                `json:"day"`
	Cash               float64            `json:"cash"` // perturbed ±5%
	Debt               float64            `json:"debt"`
	Inventory          map[string]int     `json:"inventory"`
	Pricing            map[string]float64 `json:"pricing"`
	Machines           []MachineView      `json:"machines"`
	Logs               []string           `json:"logs"` // at most 10 lines
	SatisfactionStars  int                `json:"satisfaction_stars"` // 1..5
	YesterdayStats     DayStats           `json:"yesterday_stats"`
	Memory             string             `json:"memory"`
}

// Metrics is the analysis-only block produced alongside each observation.
// It must never be forwarded to an agent whose evaluation depends on
// fog-of-war.
type Metrics struct {
	DailyProfit  float64 `json:"daily_profit"`
	NBV          float64 `json:"nbv"`
	Satisfaction float64 `json:"satisfaction"`
}
