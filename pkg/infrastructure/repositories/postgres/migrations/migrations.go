package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

const migrationDir = "sql"

// Command names a goose operation supported by Run
type Command string

const (
	Up     Command = "up"
	Down   Command = "down"
	Status Command = "status"
)

// ParseCommand validates a migrate command name
func ParseCommand(s string) (Command, error) {
	switch c := Command(s); c {
	case Up, Down, Status:
		return c, nil
	default:
		return "", fmt.Errorf("unknown migrate command %q (expected up, down or status)", s)
	}
}

// Run applies the embedded tracking schema migrations against db
func Run(ctx context.Context, db *sql.DB, command Command) error {
	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	var err error
	switch command {
	case Up:
		err = goose.UpContext(ctx, db, migrationDir)
	case Down:
		err = goose.DownContext(ctx, db, migrationDir)
	case Status:
		err = goose.StatusContext(ctx, db, migrationDir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
