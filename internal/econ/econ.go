// Package econ defines the economic constants of the simulated laundromat and
// the per-scenario configuration resolved from descriptor overrides.
package econ

import "fmt"

// Base economic constants. These are the defaults for a freshly initialized
// business; scenarios adjust them through Config overrides, never by mutating
// these values.
const (
	InitialCash  = 2000.0
	InitialDebt  = 0.0
	InitialSoap  = 50
	InitialParts = 2

	// Machine replacement costs by category.
	CostWasher = 800.0
	CostDryer  = 600.0

	// Inventory unit costs.
	CostSoapUnit = 10.0 // one unit covers LoadsPerSoapUnit loads
	CostPart     = 150.0

	// Base service prices and the fair-market reference the demand model
	// penalizes deviations from.
	PriceWash      = 5.0
	PriceDry       = 4.0
	FairMarketWash = 5.0
	FairMarketDry  = 4.0

	// Operational costs.
	CostUtilityPerLoad = 0.50
	RentDaily          = 50.0

	// Maintenance costs and effects.
	CostRepairCheap        = 50.0
	CostRepairPremium      = 200.0
	CheapRepairHealthBonus = 0.3
	InspectionFee          = 10.0

	// Capacity and resource consumption.
	MaxCyclesPerDay  = 10 // max loads one machine can run in one day
	LoadsPerSoapUnit = 10

	// Order lead times in days.
	DefaultLeadTime     = 1
	SupplyShockLeadTime = 14

	DefaultInterestRate = 0.001 // daily, overdraft pays double
)

// Config holds the fully resolved per-scenario configuration. Every field has
// a documented default; Resolve applies descriptor overrides exactly once at
// scenario load so no call site carries its own fallback values.
type Config struct {
	// InitialCash and InitialDebt seed the opening balance sheet.
	// Defaults: 2000 / 0, or 500 / 10000 under SlumlordStart.
	InitialCash float64
	InitialDebt float64

	// RepairCostMult scales cheap and premium repair costs. Default 1.0.
	RepairCostMult float64

	// RentMult is the starting rent multiplier; scripted rent hikes compound
	// on top of it. Default 1.0.
	RentMult float64

	// InterestRate is the daily rate on formal debt; overdrawn cash accrues
	// at twice this rate. Default 0.001.
	InterestRate float64

	// PriceSensitivity scales the demand penalty for pricing above fair
	// market. Default 1.0.
	PriceSensitivity float64

	// SatisfactionThreshold is the cutoff used when StrictDemandCutoff is
	// set: satisfaction below it zeroes demand. Default 80.
	SatisfactionThreshold float64
	StrictDemandCutoff    bool

	// SupplyShock stretches the soap lead time to SupplyShockLeadTime days.
	SupplyShock bool

	// Heatwave triples the base demand draw.
	Heatwave bool

	// BaseDemandMult scales the base demand draw. Default 1.0.
	BaseDemandMult float64

	// HyperInflation compounds the utility cost multiplier by 10% every
	// InflationInterval days. InflationInterval defaults to 7.
	HyperInflation    bool
	InflationInterval int

	// WaterRationing halves the per-machine daily cycle cap.
	WaterRationing bool

	// DegradationMult scales every machine's wear. Default 1.0.
	DegradationMult float64

	// LemonLaw starts all machines at 50 cycles of age instead of 0.
	LemonLaw bool

	// SlumlordStart opens with depressed cash, heavy debt, and every
	// even-numbered machine already dead of old age.
	SlumlordStart bool

	// CompetitorActive starts the scenario with the competitor discount
	// already applied to demand.
	CompetitorActive bool

	// CheapRepairFailRate is the probability a cheap repair has no effect.
	// Default 0; raised by the grifter override or the repair-fraud mechanic.
	CheapRepairFailRate float64
}

// DefaultConfig returns the configuration of the control scenario.
func DefaultConfig() Config {
	return Config{
		InitialCash:           InitialCash,
		InitialDebt:           InitialDebt,
		RepairCostMult:        1.0,
		RentMult:              1.0,
		InterestRate:          DefaultInterestRate,
		PriceSensitivity:      1.0,
		SatisfactionThreshold: 80,
		BaseDemandMult:        1.0,
		InflationInterval:     7,
		DegradationMult:       1.0,
	}
}

// Resolve applies descriptor config_overrides to the defaults. Unknown keys
// and wrongly typed values are errors: a scenario file that cannot be fully
// understood must not run at all.
func Resolve(overrides map[string]any) (Config, error) {
	cfg := DefaultConfig()

	// Slumlord defaults apply before explicit cash/debt overrides so a
	// descriptor can still pin exact figures.
	if b, ok := overrides["slumlord_start"]; ok {
		v, err := toBool("slumlord_start", b)
		if err != nil {
			return Config{}, err
		}
		if v {
			cfg.SlumlordStart = true
			cfg.InitialCash = 500.0
			cfg.InitialDebt = 10000.0
		}
	}

	for key, raw := range overrides {
		var err error
		switch key {
		case "initial_cash":
			cfg.InitialCash, err = toFloat(key, raw)
		case "initial_debt":
			cfg.InitialDebt, err = toFloat(key, raw)
		case "repair_cost_mult":
			cfg.RepairCostMult, err = toFloat(key, raw)
		case "rent_mult":
			cfg.RentMult, err = toFloat(key, raw)
		case "interest_rate":
			cfg.InterestRate, err = toFloat(key, raw)
		case "price_sensitivity":
			cfg.PriceSensitivity, err = toFloat(key, raw)
		case "satisfaction_threshold":
			cfg.SatisfactionThreshold, err = toFloat(key, raw)
		case "gentrification_strict":
			cfg.StrictDemandCutoff, err = toBool(key, raw)
		case "supply_shock":
			cfg.SupplyShock, err = toBool(key, raw)
		case "heatwave":
			cfg.Heatwave, err = toBool(key, raw)
		case "base_demand_mult":
			cfg.BaseDemandMult, err = toFloat(key, raw)
		case "hyper_inflation":
			cfg.HyperInflation, err = toBool(key, raw)
		case "inflation_interval":
			cfg.InflationInterval, err = toInt(key, raw)
		case "water_rationing":
			cfg.WaterRationing, err = toBool(key, raw)
		case "degradation_mult":
			cfg.DegradationMult, err = toFloat(key, raw)
		case "lemon_law":
			cfg.LemonLaw, err = toBool(key, raw)
		case "slumlord_start":
			// handled above
		case "competitor_active":
			cfg.CompetitorActive, err = toBool(key, raw)
		case "grifter_repairs":
			var on bool
			on, err = toBool(key, raw)
			if err == nil && on && cfg.CheapRepairFailRate == 0 {
				cfg.CheapRepairFailRate = 0.30
			}
		case "grift_prob":
			cfg.CheapRepairFailRate, err = toFloat(key, raw)
		default:
			return Config{}, fmt.Errorf("unknown config override %q", key)
		}
		if err != nil {
			return Config{}, err
		}
	}

	if cfg.InflationInterval <= 0 {
		return Config{}, fmt.Errorf("inflation_interval must be positive, got %d", cfg.InflationInterval)
	}
	return cfg, nil
}

func toFloat(key string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("config override %q: expected number, got %T", key, raw)
}

func toInt(key string, raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("config override %q: expected integer, got %v", key, raw)
}

func toBool(key string, raw any) (bool, error) {
	if v, ok := raw.(bool); ok {
		return v, nil
	}
	return false, fmt.Errorf("config override %q: expected bool, got %T", key, raw)
}
