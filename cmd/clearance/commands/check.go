package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lawtocode/clearance/internal/cli"
	"github.com/lawtocode/clearance/internal/client"
	"github.com/lawtocode/clearance/internal/engine"
)

var (
	checkRulesFile string
	checkDataFile  string
	checkTitle     string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a clearance check",
	Long: `Run a clearance check: evaluate a JSON document against DCL rules
and print the verdict, per-rule results and the proof hash.

The command exits non-zero when the verdict is NON-COMPLIANT, so it can
gate CI pipelines.

Examples:
  clearance check --rules rules.dcl --data product.json
  clearance check --rules rules.dcl --data product.json --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		rules, err := os.ReadFile(checkRulesFile)
		if err != nil {
			return fmt.Errorf("failed to read rules file: %w", err)
		}
		dataBytes, err := os.ReadFile(checkDataFile)
		if err != nil {
			return fmt.Errorf("failed to read data file: %w", err)
		}
		var data any
		if err := json.Unmarshal(dataBytes, &data); err != nil {
			return fmt.Errorf("data file is not valid JSON: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)
		logEntry, err := c.Check(context.Background(), checkTitle, string(rules), data)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}

		if !quiet {
			if err := cli.PrintProofLog(logEntry, cli.OutputFormat(format)); err != nil {
				return err
			}
		}

		if logEntry.Verdict == engine.VerdictNonCompliant {
			// Silence cobra's usage dump; the verdict is the message.
			cmd.SilenceUsage = true
			return fmt.Errorf("verdict: %s", logEntry.Verdict)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkRulesFile, "rules", "", "Path to DCL rule text file (required)")
	checkCmd.Flags().StringVar(&checkDataFile, "data", "", "Path to JSON data file (required)")
	checkCmd.Flags().StringVar(&checkTitle, "title", "", "Law title for the proof log")
	_ = checkCmd.MarkFlagRequired("rules")
	_ = checkCmd.MarkFlagRequired("data")
}
