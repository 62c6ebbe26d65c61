package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vsinha/shiptrack/pkg/interfaces/cli/commands"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start the HTTP API server on server.address, reading items from Postgres or a scenario directory.`,
	RunE:  runServe,
}

func init() {
	addSourceFlags(serveCmd)
	serveCmd.Flags().String("address", "", "Listen address (overrides server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Environment == "production" {
		log.Logger = zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
	}
	if address, _ := cmd.Flags().GetString("address"); address != "" {
		cfg.Server.Address = address
	}

	return commands.NewServeCommand(commands.ServeConfig{
		Config: cfg,
		Source: sourceFromFlags(cmd, cfg),
	}).Execute(cmd.Context())
}
