package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/laundrobench/laundrobench/internal/scenario"
)

func newGenerateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the standard scenario descriptor files",
		Long: `Writes the benchmark's standard scenario suite (S-01..S-08) as JSON
descriptor files. The files contain only the visible half of each scenario;
hidden mechanics stay in the out-of-band secrets registry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := scenario.Generate(dir); err != nil {
				return err
			}
			fmt.Printf("Generated %d scenarios in %s\n", len(scenario.Roster()), dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "data/scenarios", "Output directory for scenario files")
	return cmd
}
