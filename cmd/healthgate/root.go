package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "healthgate",
	Short: "Healthgate - AI request gateway for healthcare education",
	Long: `Healthgate sits between a healthcare education web front-end and a hosted
OpenAI-compatible completion API.

It provides:
  - Input validation and sanitization for user messages
  - Fixed system prompts per assistance category (symptom check, report
    simplification, medicine info, nutrition, mental wellness, health tips)
  - Per-client fixed-window rate limiting
  - Normalized JSON result/error envelopes for the browser client`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
