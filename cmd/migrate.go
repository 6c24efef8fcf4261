package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Dosada05/team-manager/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Apply the embedded schema for the configured DATABASE_DRIVER.

All statements use IF NOT EXISTS, so running migrate again is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.Migrate(cmd.Context(), conn, cfg.DatabaseDriver); err != nil {
			return err
		}

		color.Green("✓ Schema applied (%s)", cfg.DatabaseDriver)
		return nil
	},
}
