package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawtocode/clearance/internal/cli"
	"github.com/lawtocode/clearance/internal/client"
)

var proofsLimit int

var proofsCmd = &cobra.Command{
	Use:   "proofs",
	Short: "Inspect stored proof records",
}

var proofsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent proof records",
	Long: `List recently stored proof records, newest first.

Examples:
  clearance proofs list
  clearance proofs list --limit 10 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)
		records, err := c.ListProofs(context.Background(), proofsLimit)
		if err != nil {
			return fmt.Errorf("failed to list proofs: %w", err)
		}

		if quiet {
			return nil
		}
		if len(records) == 0 {
			fmt.Println("No proofs found")
			return nil
		}
		return cli.PrintProofRecords(records, cli.OutputFormat(format))
	},
}

var proofsGetCmd = &cobra.Command{
	Use:   "get <hash>",
	Short: "Fetch one proof record by hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)
		rec, err := c.GetProof(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch proof: %w", err)
		}

		if quiet {
			return nil
		}
		return cli.PrintJSONOrYAML(rec, cli.OutputFormat(format))
	},
}

func init() {
	rootCmd.AddCommand(proofsCmd)
	proofsCmd.AddCommand(proofsListCmd)
	proofsCmd.AddCommand(proofsGetCmd)

	proofsListCmd.Flags().IntVar(&proofsLimit, "limit", 50, "Maximum number of proofs to list")
}
