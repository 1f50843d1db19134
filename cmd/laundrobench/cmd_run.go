package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laundrobench/laundrobench/internal/agents"
	"github.com/laundrobench/laundrobench/internal/scenario"
	"github.com/laundrobench/laundrobench/internal/store"
)

func newRunCmd() *cobra.Command {
	var (
		scenarioPath string
		agentName    string
		days         int
		secretsPath  string
		dbPath       string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one scenario with a baseline agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets, err := loadSecrets(secretsPath)
			if err != nil {
				return err
			}
			scen, err := scenario.Load(scenarioPath, secrets)
			if err != nil {
				return err
			}
			policy, err := agents.New(agentName, scen.Seed)
			if err != nil {
				return err
			}

			var rs *store.RunStore
			if dbPath != "" {
				rs, err = store.Open(dbPath)
				if err != nil {
					return err
				}
				defer rs.Close()
			}

			result, err := executeRun(scen, policy, days, rs, verbose)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"scenario_id": scen.ID,
					"agent":       policy.Name(),
					"days":        days,
					"final_nbv":   result.FinalNBV,
					"run_id":      result.RunID,
				})
			}
			fmt.Printf("Scenario %s (%s) | agent=%s | %d days\n", scen.ID, scen.Name, policy.Name(), days)
			fmt.Printf("Final Net Business Value: $%.2f\n", result.FinalNBV)
			if result.RunID != "" {
				fmt.Printf("Recorded as run %s\n", result.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario descriptor JSON file")
	cmd.Flags().StringVar(&agentName, "agent", "reactive", "Baseline agent: random, reactive, greedy, smart")
	cmd.Flags().IntVar(&days, "days", 365, "Simulation horizon in days")
	cmd.Flags().StringVar(&secretsPath, "secrets", "", "Optional YAML secrets file (overrides builtins)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Optional SQLite database to record the run into")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print each day's observation")
	cmd.MarkFlagRequired("scenario")
	return cmd
}
