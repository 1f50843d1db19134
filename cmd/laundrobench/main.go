package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "laundrobench",
		Short: "Laundro-Bench - partially observable economic simulator",
		Long: `laundrobench evaluates decision-making agents managing a fixed-size
laundromat over a fixed horizon. Scenarios hide a mechanic (defective
machines, regime shifts, adaptive competitors...) that agents can only
discover behaviorally through vague, noisy observations.`,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(),
		newRunCmd(),
		newBaselineCmd(),
		newReportCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("laundrobench version %s\n", version)
			}
		},
	}
}
