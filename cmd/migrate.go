package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docquery/docquery/db"
	"github.com/docquery/docquery/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(*cobra.Command, []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := db.Migrate(cfg.ConnURL()); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
