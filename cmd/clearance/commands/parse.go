package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lawtocode/clearance/internal/cli"
	"github.com/lawtocode/clearance/internal/client"
)

var (
	parseRulesFile string
	parseTitle     string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse DCL rule text into a schema",
	Long: `Parse DCL rule text into a schema without running a check.

Examples:
  clearance parse --rules rules.dcl
  clearance parse --rules rules.dcl --title "ESPR snippet" --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		text, err := os.ReadFile(parseRulesFile)
		if err != nil {
			return fmt.Errorf("failed to read rules file: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)
		schema, err := c.Parse(context.Background(), parseTitle, string(text))
		if err != nil {
			return fmt.Errorf("parse failed: %w", err)
		}

		if quiet {
			return nil
		}
		return cli.PrintJSONOrYAML(schema, cli.OutputFormat(format))
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseRulesFile, "rules", "", "Path to DCL rule text file (required)")
	parseCmd.Flags().StringVar(&parseTitle, "title", "", "Law title for the schema")
	_ = parseCmd.MarkFlagRequired("rules")
}
