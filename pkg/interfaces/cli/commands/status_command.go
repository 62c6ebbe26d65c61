package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vsinha/shiptrack/pkg/application/dto"
	"github.com/vsinha/shiptrack/pkg/application/services/tracking"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/interfaces/cli/output"
)

// StatusConfig holds configuration for the status command
type StatusConfig struct {
	Source    Source
	Kind      string
	Role      string
	Format    string
	OutputDir string
	Verbose   bool
	Out       io.Writer
}

// StatusCommand evaluates every item and prints its ship date, risk and readiness
type StatusCommand struct {
	config StatusConfig
}

// NewStatusCommand creates a new status command with the given configuration
func NewStatusCommand(config StatusConfig) *StatusCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &StatusCommand{config: config}
}

// Execute runs the status command
func (c *StatusCommand) Execute(ctx context.Context) error {
	var kind entities.ItemKind
	if c.config.Kind != "" {
		k, err := entities.ParseItemKind(c.config.Kind)
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		kind = k
	}

	var role entities.Role
	if c.config.Role != "" {
		r, err := entities.ParseRole(c.config.Role)
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		role = r
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.Out, "🚀 Shiptrack Status\n")
		fmt.Fprintf(c.config.Out, "Source: %s\n", c.config.Source.Describe())
		if kind != "" {
			fmt.Fprintf(c.config.Out, "Kind: %s\n", kind.SheetName())
		}
		fmt.Fprintf(c.config.Out, "Output format: %s\n\n", c.config.Format)
		fmt.Fprintln(c.config.Out, "📂 Loading production items...")
	}

	repo, closeRepo, err := openRepository(ctx, c.config.Source)
	if err != nil {
		return err
	}
	defer closeRepo()

	service := tracking.NewService(repo)

	startTime := time.Now()
	var statuses []dto.ItemStatus
	if kind != "" {
		statuses, err = service.ListStatus(ctx, kind)
	} else {
		statuses, err = service.ListAllStatus(ctx)
	}
	if err != nil {
		return fmt.Errorf("error loading item status: %w", err)
	}
	loadTime := time.Since(startTime)

	if c.config.Verbose {
		fmt.Fprintf(c.config.Out, "✅ Evaluated %d items in %v\n\n", len(statuses), loadTime)
	}

	err = output.Generate(statuses, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		LoadTime:  loadTime,
		Source:    c.config.Source.Describe(),
		Role:      string(role),
		Out:       c.config.Out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}
