package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/shiptrack/pkg/application/services/tracking"
	"github.com/vsinha/shiptrack/pkg/config"
	"github.com/vsinha/shiptrack/pkg/infrastructure/events"
	"github.com/vsinha/shiptrack/pkg/infrastructure/export"
	"github.com/vsinha/shiptrack/pkg/interfaces/api"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Config config.Config
	Source Source
}

// ServeCommand runs the HTTP API until its context is cancelled
type ServeCommand struct {
	config ServeConfig
}

// NewServeCommand creates a new serve command
func NewServeCommand(config ServeConfig) *ServeCommand {
	return &ServeCommand{config: config}
}

// Execute starts the server and blocks until ctx is done, then shuts it down
func (c *ServeCommand) Execute(ctx context.Context) error {
	if _, err := export.ParseFormat(c.config.Config.Export.Format); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	repo, closeRepo, err := openRepository(ctx, c.config.Source)
	if err != nil {
		return err
	}
	defer closeRepo()

	log.Info().Str("source", c.config.Source.Describe()).Msg("Item repository ready")

	eventStore := events.NewInMemoryStore()
	if err := eventStore.Subscribe(events.AllEventTypes, events.LogHandler{}); err != nil {
		return err
	}

	server := api.NewServer(c.config.Config, tracking.NewService(repo, tracking.WithEventStore(eventStore)))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
		return err
	}
	return nil
}
