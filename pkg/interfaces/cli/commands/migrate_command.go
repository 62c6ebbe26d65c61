package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/shiptrack/pkg/config"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/postgres"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/postgres/migrations"
)

// MigrateConfig holds configuration for the migrate command
type MigrateConfig struct {
	Database config.DatabaseConfig
	Command  string
}

// MigrateCommand applies the tracking schema to Postgres
type MigrateCommand struct {
	config MigrateConfig
}

// NewMigrateCommand creates a new migrate command
func NewMigrateCommand(config MigrateConfig) *MigrateCommand {
	if config.Command == "" {
		config.Command = string(migrations.Up)
	}
	return &MigrateCommand{config: config}
}

// Execute runs the migration
func (c *MigrateCommand) Execute(ctx context.Context) error {
	command, err := migrations.ParseCommand(c.config.Command)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if c.config.Database.DSN == "" {
		return fmt.Errorf("validation error: database DSN is required")
	}

	db, err := postgres.Open(ctx, c.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(ctx, db.DB, command); err != nil {
		return err
	}

	log.Info().Str("command", string(command)).Msg("Migrations complete")
	return nil
}
