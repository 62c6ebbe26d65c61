package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vsinha/shiptrack/pkg/config"
	"github.com/vsinha/shiptrack/pkg/interfaces/cli/commands"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "shiptrack",
	Short: "Production tracking for electrical equipment builds",
	Long: `Shiptrack tracks production items, their purchase orders and components.
It reports ship date deviation, component schedule risk and ready-to-ship status,
and exports the production schedule workbook.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			log.Error().Err(err).Msg("Failed to display help")
		}
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory containing config.yaml or app.env")
	rootCmd.AddCommand(statusCmd, exportCmd, serveCmd, migrateCmd, generateCmd)
}

// loadConfig reads configuration and applies the logging level it names, unless
// LOG_LEVEL already chose one
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if os.Getenv("LOG_LEVEL") == "" {
		setLogLevel(cfg.Logging.Level)
	}
	return cfg, nil
}

// addSourceFlags registers --scenario and --dsn on cmd
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("scenario", "", "Path to scenario directory containing CSV files")
	cmd.Flags().String("dsn", "", "Postgres DSN (overrides database.dsn)")
}

// sourceFromFlags resolves the item source from flags, falling back to the configured DSN
func sourceFromFlags(cmd *cobra.Command, cfg config.Config) commands.Source {
	scenario, _ := cmd.Flags().GetString("scenario")
	database := cfg.Database
	if dsn, _ := cmd.Flags().GetString("dsn"); dsn != "" {
		database.DSN = dsn
	}
	return commands.Source{ScenarioDir: scenario, Database: database}
}
