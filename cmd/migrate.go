package cmd

import (
	"fmt"

	"github.com/ellavondegurechaff/stakeforge/internal/gateways/database"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/logger"
	"github.com/spf13/cobra"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "Create the ledger tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.LogSystem("Migration completed successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCMD)
}
