package main

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/shiptrack/pkg/interfaces/cli/commands"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ship date, risk and readiness for every production item",
	Example: `  shiptrack status --scenario examples/shop_floor
  shiptrack status --scenario examples/shop_floor --kind assembled --verbose
  shiptrack status --dsn postgres://localhost/shiptrack --format json --output results/`,
	RunE: runStatus,
}

func init() {
	addSourceFlags(statusCmd)
	statusCmd.Flags().String("kind", "", "Only show one kind: assembled, integrated or misc")
	statusCmd.Flags().String("role", "", "Access role to carry through: no_access, view_access, edit_access, admin_access")
	statusCmd.Flags().String("format", "text", "Output format: text, json, csv, svg")
	statusCmd.Flags().String("output", "", "Output directory for json/csv results (optional)")
	statusCmd.Flags().Bool("verbose", false, "Enable verbose output")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kind, _ := cmd.Flags().GetString("kind")
	role, _ := cmd.Flags().GetString("role")
	format, _ := cmd.Flags().GetString("format")
	outputDir, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")

	return commands.NewStatusCommand(commands.StatusConfig{
		Source:    sourceFromFlags(cmd, cfg),
		Kind:      kind,
		Role:      role,
		Format:    format,
		OutputDir: outputDir,
		Verbose:   verbose,
		Out:       cmd.OutOrStdout(),
	}).Execute(cmd.Context())
}
