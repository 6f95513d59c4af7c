package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURL string
	apiKey  string
	format  string
	quiet   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clearance",
	Short: "CLI tool for the clearance rule-evaluation service",
	Long: `Clearance is a command-line tool for the clearance service.

It parses DCL rule text, runs clearance checks against JSON documents,
and manages stored proofs and registered use cases.

Examples:
  clearance parse --rules rules.dcl
  clearance check --rules rules.dcl --data product.json
  clearance proofs list --format json
  clearance usecases register --system "hr-screening" --purpose "CV triage"`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the clearance API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
}
