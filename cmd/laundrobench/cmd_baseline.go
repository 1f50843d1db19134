package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/laundrobench/laundrobench/internal/agents"
	"github.com/laundrobench/laundrobench/internal/scenario"
	"github.com/laundrobench/laundrobench/internal/store"
)

func newBaselineCmd() *cobra.Command {
	var (
		dir         string
		days        int
		secretsPath string
		dbPath      string
	)

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Run every baseline agent against every scenario",
		Long: `Runs the full scenario suite against each baseline agent and prints a
table of final net business values. Descriptor files are generated into the
scenario directory first if they are missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets, err := loadSecrets(secretsPath)
			if err != nil {
				return err
			}
			if err := scenario.Generate(dir); err != nil {
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

			agentNames := agents.Names()
			results := make(map[string]map[string]float64) // agent -> scenario -> nbv

			fmt.Printf("%-10s", "Scenario")
			for _, name := range agentNames {
				fmt.Printf(" | %-12s", name)
			}
			fmt.Println()

			for _, def := range scenario.Roster() {
				scen, err := scenario.Load(filepath.Join(dir, def.ID+".json"), secrets)
				if err != nil {
					return err
				}

				fmt.Printf("%-10s", scen.ID)
				for _, name := range agentNames {
					policy, err := agents.New(name, scen.Seed)
					if err != nil {
						return err
					}
					result, err := executeRun(scen, policy, days, rs, false)
					if err != nil {
						return fmt.Errorf("%s/%s: %w", scen.ID, name, err)
					}
					if results[name] == nil {
						results[name] = make(map[string]float64)
					}
					results[name][scen.ID] = result.FinalNBV
					fmt.Printf(" | $%-11.0f", result.FinalNBV)
				}
				fmt.Println()
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(results)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "data/scenarios", "Scenario directory")
	cmd.Flags().IntVar(&days, "days", 365, "Simulation horizon in days")
	cmd.Flags().StringVar(&secretsPath, "secrets", "", "Optional YAML secrets file (overrides builtins)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Optional SQLite database to record runs into")
	return cmd
}
