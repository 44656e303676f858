package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/provision"
	"github.com/jonathan/apply-agent/internal/runner"
	"github.com/jonathan/apply-agent/internal/types"
)

var flagInputFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a single form-fill run",
	Long:  "Reads a run input payload as JSON from a file or stdin, fills the job application it points at, and writes the run output as JSON to stdout.",
	RunE:  executeRun,
}

func init() {
	runCmd.Flags().StringVarP(&flagInputFile, "input", "i", "", "Path to the run input JSON (default: stdin)")
	rootCmd.AddCommand(runCmd)
}

func executeRun(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	cfg := config.FromEnv()
	cfg.JSONLog = flagJSONLog
	cfg.Debug = flagDebug
	if err := cfg.Validate(); err != nil {
		return err
	}

	input, err := readInput(flagInputFile)
	if err != nil {
		return err
	}

	log, err := observability.NewLogger(cfg.JSONLog, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	r := runner.New(provisionerFor(cfg), nil, log)
	out := r.Run(cmd.Context(), input)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode run output: %w", err)
	}

	if out.Status != types.StatusSucceeded {
		return fmt.Errorf("run failed: %s", out.Summary)
	}
	return nil
}

// readInput decodes the run input from a file, or stdin when no path is given.
func readInput(path string) (*types.RunInput, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run input: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	input := &types.RunInput{}
	if err := json.Unmarshal(data, input); err != nil {
		return nil, fmt.Errorf("failed to parse run input JSON: %w", err)
	}
	return input, nil
}

// provisionerFor picks the session source: a fixed local CDP endpoint when one
// is configured, otherwise the cloud provisioning service.
func provisionerFor(cfg *config.Config) provision.Provisioner {
	if cfg.CDPURL != "" {
		return provision.Static{CDPWSURL: cfg.CDPURL}
	}
	return provision.NewClient(cfg.ProvisionURL, cfg.ProvisionKey)
}
