package main

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/shiptrack/pkg/interfaces/cli/commands"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic shop-floor scenario",
	Example: `  shiptrack generate --items 50 --output examples/generated
  shiptrack generate --items 500 --max-pos 4 --max-components 8 --seed 42 --output /tmp/large`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("items", 20, "Number of production items to generate")
	generateCmd.Flags().Int("max-pos", 3, "Maximum purchase orders per item")
	generateCmd.Flags().Int("max-components", 5, "Maximum components per purchase order")
	generateCmd.Flags().Float64("received", 0.6, "Share of components already received (0..1)")
	generateCmd.Flags().String("start", "", "First ship date of the schedule window, YYYY-MM-DD (default today)")
	generateCmd.Flags().String("output", "", "Output directory for generated CSV files")
	generateCmd.Flags().Int64("seed", 0, "Random seed for reproducible generation (default time-based)")
	generateCmd.Flags().Bool("verbose", false, "Enable verbose output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	items, _ := cmd.Flags().GetInt("items")
	maxPOs, _ := cmd.Flags().GetInt("max-pos")
	maxComponents, _ := cmd.Flags().GetInt("max-components")
	received, _ := cmd.Flags().GetFloat64("received")
	start, _ := cmd.Flags().GetString("start")
	outputDir, _ := cmd.Flags().GetString("output")
	seed, _ := cmd.Flags().GetInt64("seed")
	verbose, _ := cmd.Flags().GetBool("verbose")

	return commands.NewGenerateCommand(commands.GenerateConfig{
		Items:             items,
		MaxPurchaseOrders: maxPOs,
		MaxComponents:     maxComponents,
		ReceivedRatio:     received,
		StartDate:         start,
		OutputDir:         outputDir,
		Seed:              seed,
		Verbose:           verbose,
		Out:               cmd.OutOrStdout(),
	}).Execute(cmd.Context())
}
