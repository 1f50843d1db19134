package main

import (
	"fmt"
	"os"

	"github.com/laundrobench/laundrobench/internal/agents"
	"github.com/laundrobench/laundrobench/internal/diagnostics"
	"github.com/laundrobench/laundrobench/internal/engine"
	"github.com/laundrobench/laundrobench/internal/models"
	"github.com/laundrobench/laundrobench/internal/scenario"
	"github.com/laundrobench/laundrobench/internal/scoring"
	"github.com/laundrobench/laundrobench/internal/store"
)

type runResult struct {
	RunID    string
	FinalNBV float64
	Report   diagnostics.Report
}

// executeRun drives one scenario with one policy for the full horizon,
// optionally recording every day to the run store.
func executeRun(scen *scenario.Scenario, policy agents.Policy, days int, rs *store.RunStore, verbose bool) (runResult, error) {
	eng, err := engine.New(scen)
	if err != nil {
		return runResult{}, err
	}
	tracker := diagnostics.New(scen.ID, scen.Mechanic)

	var runID string
	if rs != nil {
		runID, err = rs.BeginRun(scen.ID, policy.Name(), scen.Seed)
		if err != nil {
			return runResult{}, err
		}
	}

	obs := eng.InitialObservation()
	var metrics models.Metrics
	for i := 0; i < days; i++ {
		action := policy.Act(obs)
		obs, metrics = eng.Step(action)
		tracker.Record(eng.State(), action)

		if rs != nil {
			if err := rs.RecordStep(runID, obs.Day, obs, action, metrics); err != nil {
				return runResult{}, err
			}
		}
		if verbose {
			printDay(obs, metrics)
		}
	}

	finalNBV := scoring.NetBusinessValue(eng.State())
	report := tracker.Report()
	if rs != nil {
		if err := rs.FinishRun(runID, days, finalNBV, report); err != nil {
			return runResult{}, err
		}
	}

	return runResult{RunID: runID, FinalNBV: finalNBV, Report: report}, nil
}

func printDay(obs models.Observation, metrics models.Metrics) {
	fmt.Fprintf(os.Stdout, "--- DAY %d ---\n", obs.Day)
	fmt.Fprintf(os.Stdout, "Cash: ~$%.2f | Stars: %d | Profit: $%.2f\n",
		obs.Cash, obs.SatisfactionStars, metrics.DailyProfit)
	for _, line := range obs.Logs {
		fmt.Fprintln(os.Stdout, " ", line)
	}
}

// loadSecrets merges the builtin registry with an optional secrets file;
// file entries win.
func loadSecrets(path string) (scenario.Secrets, error) {
	secrets := scenario.BuiltinSecrets()
	if path == "" {
		return secrets, nil
	}
	extra, err := scenario.LoadSecrets(path)
	if err != nil {
		return nil, err
	}
	for id, m := range extra {
		secrets[id] = m
	}
	return secrets, nil
}
