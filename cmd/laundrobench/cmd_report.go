package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laundrobench/laundrobench/internal/diagnostics"
	"github.com/laundrobench/laundrobench/internal/store"
)

func newReportCmd() *cobra.Command {
	var (
		dbPath string
		runID  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the diagnostic report for a recorded run",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer rs.Close()

			if runID == "" {
				return listRuns(rs)
			}

			run, err := rs.GetRun(runID)
			if err != nil {
				return err
			}
			raw, err := rs.GetReport(runID)
			if err != nil {
				return err
			}
			if raw == nil {
				return fmt.Errorf("run %s has no report (did it finish?)", runID)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				os.Stdout.Write(append(raw, '\n'))
				return nil
			}

			var rep diagnostics.Report
			if err := json.Unmarshal(raw, &rep); err != nil {
				return fmt.Errorf("decode report for %s: %w", runID, err)
			}
			fmt.Printf("Run %s | scenario=%s agent=%s seed=%d\n", run.ID, run.ScenarioID, run.Agent, run.Seed)
			fmt.Printf("Strategy:            %s\n", rep.Strategy)
			fmt.Printf("Discovered mechanic: %t\n", rep.DiscoveredMechanic)
			fmt.Printf("Survival days:       %d\n", rep.SurvivalDays)
			fmt.Printf("Final cash:          $%.2f\n", rep.FinalCash)
			fmt.Printf("Final NBV:           $%.2f\n", run.FinalNBV)
			fmt.Printf("Inspections/Repairs/Replacements: %d/%d/%d\n",
				rep.Inspections, rep.Repairs, rep.Replacements)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "laundrobench.db", "SQLite run database")
	cmd.Flags().StringVar(&runID, "run", "", "Run id (omit to list recorded runs)")
	return cmd
}

func listRuns(rs *store.RunStore) error {
	runs, err := rs.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %-8s %-8s seed=%-6d days=%-4d nbv=$%.2f\n",
			r.ID, r.ScenarioID, r.Agent, r.Seed, r.SurvivalDays, r.FinalNBV)
	}
	return nil
}
