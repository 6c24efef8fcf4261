package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Dosada05/team-manager/db"
	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
	"github.com/Dosada05/team-manager/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default sports",
	Long: `Insert the default sports that are missing from the database.

Existing sports are left untouched, so seed can be run any number of times.`,
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

		sportService := services.NewSportService(repositories.NewPostgresSportRepository(conn), newLogger(cfg.LogLevel))
		added, err := sportService.SeedDefaults(cmd.Context())
		if err != nil {
			return err
		}

		if added == 0 {
			color.Yellow("All %d default sports already exist", len(models.DefaultSports))
			return nil
		}
		color.Green("✓ Added %d sport(s), %d total", added, len(models.DefaultSports))
		faint := color.New(color.Faint)
		for _, sport := range models.DefaultSports {
			faint.Printf("  %s\n", sport.Name)
		}
		return nil
	},
}
