package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/runner"
	"github.com/jonathan/apply-agent/internal/server"
)

var flagPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the form-fill HTTP server",
	Long:  "Starts an HTTP server that executes form-fill runs on demand via POST /fill.",
	RunE:  executeServe,
}

func init() {
	serveCmd.Flags().IntVarP(&flagPort, "port", "p", config.DefaultPort, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func executeServe(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	cfg := config.FromEnv()
	cfg.Port = flagPort
	cfg.JSONLog = flagJSONLog
	cfg.Debug = flagDebug
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := observability.NewLogger(cfg.JSONLog, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	r := runner.New(provisionerFor(cfg), nil, log)
	srv := server.New(server.Config{Port: cfg.Port}, r, log)
	return srv.Start()
}
