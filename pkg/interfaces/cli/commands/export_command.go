package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vsinha/shiptrack/pkg/application/services/report"
	"github.com/vsinha/shiptrack/pkg/application/services/tracking"
	"github.com/vsinha/shiptrack/pkg/infrastructure/export"
)

// ExportConfig holds configuration for the export command
type ExportConfig struct {
	Source    Source
	Format    string
	OutputDir string
	Timeout   time.Duration
	Verbose   bool
	Out       io.Writer
}

// ExportCommand writes the production schedule workbook to disk
type ExportCommand struct {
	config ExportConfig
}

// NewExportCommand creates a new export command with the given configuration
func NewExportCommand(config ExportConfig) *ExportCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	return &ExportCommand{config: config}
}

// Execute runs the export command and returns the path of the written file
func (c *ExportCommand) Execute(ctx context.Context) (string, error) {
	format, err := export.ParseFormat(c.config.Format)
	if err != nil {
		return "", fmt.Errorf("validation error: %w", err)
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return "", err
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.Out, "🚀 Shiptrack Export\n")
		fmt.Fprintf(c.config.Out, "Source: %s\n", c.config.Source.Describe())
		fmt.Fprintf(c.config.Out, "Format: %s\n", format)
		fmt.Fprintf(c.config.Out, "Output directory: %s\n\n", c.config.OutputDir)
	}

	repo, closeRepo, err := openRepository(ctx, c.config.Source)
	if err != nil {
		return "", err
	}
	defer closeRepo()

	snapshot, err := tracking.NewService(repo).LoadSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("error loading items: %w", err)
	}

	workbook := report.NewBuilder().Build(snapshot)
	if c.config.Verbose {
		fmt.Fprintf(c.config.Out, "📊 Workbook: %s\n", report.Describe(workbook))
	}

	if err := os.MkdirAll(c.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path, err := exporter.ExportToDir(ctx, workbook, c.config.OutputDir)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(c.config.Out, "💾 Production schedule saved to: %s\n", path)
	return path, nil
}
