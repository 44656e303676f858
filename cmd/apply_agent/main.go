// Package main provides the entry point for the apply-agent CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagJSONLog bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "apply_agent",
	Short: "Job application autofill agent",
	Long:  "apply_agent drives a remote browser session to locate and fill job application forms, adapting its strategy to the applicant tracking system behind the page.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&flagJSONLog, "json-log", false, "Emit JSON logs instead of console output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
