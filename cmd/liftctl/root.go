package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/2beens/liftbook/internal/config"
)

var (
	envName    string
	configPath string
	envFile    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "liftctl",
	Short: "Operator tooling for the liftbook API",
	Long: `liftctl runs maintenance tasks against a liftbook deployment.

EXAMPLES:

  liftctl migrate --env production        # Apply the database schema
  liftctl migrate --print                 # Print the schema without applying it
  liftctl token --user-id 7 --sub abc     # Mint a development token pair
  liftctl ping                            # Check postgres and redis`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			// a missing dotenv file is fine, secrets may come from the environment
			_ = godotenv.Load(envFile)
		}

		var err error
		cfg, err = config.Load(envName, configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "development", "config section [development | production]")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file with the secrets")
}
