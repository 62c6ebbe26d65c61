package main

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/shiptrack/pkg/interfaces/cli/commands"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply the tracking schema migrations",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func init() {
	migrateCmd.Flags().String("dsn", "", "Postgres DSN (overrides database.dsn)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database := cfg.Database
	if dsn, _ := cmd.Flags().GetString("dsn"); dsn != "" {
		database.DSN = dsn
	}

	command := ""
	if len(args) == 1 {
		command = args[0]
	}

	return commands.NewMigrateCommand(commands.MigrateConfig{
		Database: database,
		Command:  command,
	}).Execute(cmd.Context())
}
