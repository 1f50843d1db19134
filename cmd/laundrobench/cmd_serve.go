package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/laundrobench/laundrobench/internal/logging"
	"github.com/laundrobench/laundrobench/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr        string
		dir         string
		secretsPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live runs over websockets",
		Long: `Starts an HTTP server with a /ws endpoint. A client opens a connection,
sends {"scenario_id": "S-02", "agent": "smart", "days": 365}, and receives one
sanitized observation event per simulated day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			logger := logging.NewLogger(level, os.Stderr)

			secrets, err := loadSecrets(secretsPath)
			if err != nil {
				return err
			}

			srv := server.New(dir, secrets, logger)
			logger.Info("listening", "addr", addr)
			return http.ListenAndServe(addr, srv.Router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dir, "dir", "data/scenarios", "Scenario directory")
	cmd.Flags().StringVar(&secretsPath, "secrets", "", "Optional YAML secrets file (overrides builtins)")
	return cmd
}
