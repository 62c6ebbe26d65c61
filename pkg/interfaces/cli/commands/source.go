package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/vsinha/shiptrack/pkg/config"
	"github.com/vsinha/shiptrack/pkg/domain/repositories"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/postgres"
)

// Source selects where production items are read from: a scenario directory of CSV
// files, or a Postgres database. A scenario directory wins when both are set.
type Source struct {
	ScenarioDir string
	Database    config.DatabaseConfig
}

// Describe returns a short human-readable name for the source
func (s Source) Describe() string {
	if s.ScenarioDir != "" {
		return "scenario " + s.ScenarioDir
	}
	return "postgres"
}

func (s Source) validate() error {
	if s.ScenarioDir == "" && !s.Database.Configured() {
		return fmt.Errorf("must specify either --scenario directory or --dsn")
	}
	return nil
}

// openRepository builds the repository behind the source. The returned close function
// releases any connection and is never nil.
func openRepository(ctx context.Context, src Source) (repositories.ItemRepository, func() error, error) {
	noop := func() error { return nil }

	if err := src.validate(); err != nil {
		return nil, noop, err
	}

	if src.ScenarioDir != "" {
		if info, err := os.Stat(src.ScenarioDir); err != nil || !info.IsDir() {
			return nil, noop, fmt.Errorf("scenario directory not found: %s", src.ScenarioDir)
		}

		items, err := csv.NewLoader().LoadScenario(src.ScenarioDir)
		if err != nil {
			return nil, noop, fmt.Errorf("error loading scenario: %w", err)
		}

		repo := memory.NewItemRepository(len(items))
		if err := repo.LoadItems(items); err != nil {
			return nil, noop, fmt.Errorf("failed to load items into repository: %w", err)
		}
		return repo, noop, nil
	}

	db, err := postgres.Open(ctx, src.Database)
	if err != nil {
		return nil, noop, err
	}
	return postgres.NewItemRepository(db), db.Close, nil
}
