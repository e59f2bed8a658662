package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/database"
)

var migrateDrop bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Long: `Adds missing tables and columns. With --drop every table is dropped
and recreated first; all data is lost.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDrop, "drop", false, "drop and recreate every table")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, db, err := session()
	if err != nil {
		return err
	}
	mode := cfg.DBMigrationMode
	if migrateDrop {
		mode = "drop"
	}
	if err := database.Migrate(db, mode); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	cmd.Println("Migration completed.")
	if cfg.DefaultAdminPassword == "" {
		cmd.Println("DEFAULT_ADMIN_PASSWORD is not set, skipping the default admin account.")
		return nil
	}
	created, err := database.EnsureAdminExists(db, cfg.DefaultAdminUsername, cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}
	if created {
		cmd.Printf("Default admin account %q created.\n", cfg.DefaultAdminUsername)
	}
	return nil
}
