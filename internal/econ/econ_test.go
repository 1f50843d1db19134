package econ

import "testing"

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve(nil): %v", err)
	}
	if cfg.InitialCash != InitialCash {
		t.Errorf("InitialCash = %v, want %v", cfg.InitialCash, InitialCash)
	}
	if cfg.InterestRate != DefaultInterestRate {
		t.Errorf("InterestRate = %v, want %v", cfg.InterestRate, DefaultInterestRate)
	}
	if cfg.SatisfactionThreshold != 80 {
		t.Errorf("SatisfactionThreshold = %v, want 80", cfg.SatisfactionThreshold)
	}
	if cfg.InflationInterval != 7 {
		t.Errorf("InflationInterval = %v, want 7", cfg.InflationInterval)
	}
	if cfg.CheapRepairFailRate != 0 {
		t.Errorf("CheapRepairFailRate = %v, want 0", cfg.CheapRepairFailRate)
	}
}

func TestResolveOverrides(t *testing.T) {
	cfg, err := Resolve(map[string]any{
		"initial_cash":     1234.5,
		"heatwave":         true,
		"base_demand_mult": 2.0,
		"degradation_mult": 3.0,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.InitialCash != 1234.5 {
		t.Errorf("InitialCash = %v, want 1234.5", cfg.InitialCash)
	}
	if !cfg.Heatwave {
		t.Error("Heatwave not set")
	}
	if cfg.BaseDemandMult != 2.0 || cfg.DegradationMult != 3.0 {
		t.Errorf("multipliers = %v/%v, want 2/3", cfg.BaseDemandMult, cfg.DegradationMult)
	}
}

func TestResolveSlumlordDefaults(t *testing.T) {
	cfg, err := Resolve(map[string]any{"slumlord_start": true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.InitialCash != 500 || cfg.InitialDebt != 10000 {
		t.Errorf("slumlord start = %v/%v, want 500/10000", cfg.InitialCash, cfg.InitialDebt)
	}

	// Explicit figures still win over the slumlord defaults.
	cfg, err = Resolve(map[string]any{"slumlord_start": true, "initial_cash": 50.0})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.InitialCash != 50 {
		t.Errorf("InitialCash = %v, want explicit 50", cfg.InitialCash)
	}
}

func TestResolveGrifter(t *testing.T) {
	cfg, err := Resolve(map[string]any{"grifter_repairs": true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.CheapRepairFailRate != 0.30 {
		t.Errorf("CheapRepairFailRate = %v, want 0.30", cfg.CheapRepairFailRate)
	}

	cfg, err = Resolve(map[string]any{"grifter_repairs": true, "grift_prob": 0.60})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.CheapRepairFailRate != 0.60 {
		t.Errorf("CheapRepairFailRate = %v, want explicit 0.60", cfg.CheapRepairFailRate)
	}
}

func TestResolveFailsClosed(t *testing.T) {
	cases := map[string]map[string]any{
		"unknown key":    {"rent_multt": 1.1},
		"bad type":       {"heatwave": "yes"},
		"bad number":     {"initial_cash": true},
		"fractional int": {"inflation_interval": 2.5},
		"zero interval":  {"inflation_interval": 0},
	}
	for name, overrides := range cases {
		if _, err := Resolve(overrides); err == nil {
			t.Errorf("%s: Resolve succeeded, want error", name)
		}
	}
}
