// Package cli implements bpsctl, the maintenance command line of the portal.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/database"
)

var envFile string

// loadConfig and openDB are replaced in tests.
var (
	loadConfig = config.Load
	openDB     = func(cfg *config.Config) (*gorm.DB, error) {
		pool, err := database.NewConnectionPool(cfg)
		if err != nil {
			return nil, err
		}
		return pool.GetDB(), nil
	}
)

var rootCmd = &cobra.Command{
	Use:           "bpsctl",
	Short:         "Maintenance commands for the barangay portal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if envFile != "" {
			// a missing file is fine, the environment may already be set
			_ = godotenv.Load(envFile)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

// Execute runs the command line
func Execute() error {
	return rootCmd.Execute()
}

// session loads the configuration and opens the database
func session() (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
