package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lunahealth/backend/internal/config"
	"github.com/lunahealth/backend/internal/models"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a one-shot collector sync",
	Long:  `Run the data collectors for one user without starting the server.`,
	RunE:  runSync,
}

var (
	syncUser     string
	syncProvider string
)

func init() {
	syncCmd.Flags().StringVar(&syncUser, "user", "", "User ID to sync (required)")
	syncCmd.Flags().StringVar(&syncProvider, "provider", "", "Provider to sync; all connected providers when empty")
	_ = syncCmd.MarkFlagRequired("user")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := newLogger(cfg)
	app := newApplication(cfg, log)
	ctx := cmd.Context()

	var results []models.SyncResult
	if syncProvider != "" {
		result, err := app.collector.Sync(ctx, syncUser, syncProvider)
		if err != nil {
			return fmt.Errorf("sync %s failed: %w", syncProvider, err)
		}
		results = append(results, *result)
	} else {
		results = app.collector.SyncAll(ctx, syncUser)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
