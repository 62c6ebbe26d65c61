package main

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/shiptrack/pkg/interfaces/cli/commands"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the production schedule workbook",
	Example: `  shiptrack export --scenario examples/shop_floor --output reports/
  shiptrack export --format csv`,
	RunE: runExport,
}

func init() {
	addSourceFlags(exportCmd)
	exportCmd.Flags().String("format", "", "Export format: xlsx or csv (default export.format)")
	exportCmd.Flags().String("output", "", "Output directory (default export.dir)")
	exportCmd.Flags().Bool("verbose", false, "Enable verbose output")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Export.Format
	}
	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.Export.Dir
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	_, err = commands.NewExportCommand(commands.ExportConfig{
		Source:    sourceFromFlags(cmd, cfg),
		Format:    format,
		OutputDir: outputDir,
		Timeout:   cfg.Export.Timeout,
		Verbose:   verbose,
		Out:       cmd.OutOrStdout(),
	}).Execute(cmd.Context())
	return err
}
