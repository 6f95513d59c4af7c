package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawtocode/clearance/internal/cli"
	"github.com/lawtocode/clearance/internal/client"
	"github.com/lawtocode/clearance/internal/store"
)

var (
	ucSystemName   string
	ucPurpose      string
	ucContext      string
	ucDataUsed     string
	ucSafeguards   string
	ucExtraDetails string
)

var usecasesCmd = &cobra.Command{
	Use:   "usecases",
	Short: "Manage registered use cases",
}

var usecasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered use cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)
		usecases, err := c.ListUseCases(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list use cases: %w", err)
		}

		if quiet {
			return nil
		}
		if len(usecases) == 0 {
			fmt.Println("No use cases found")
			return nil
		}
		return cli.PrintUseCases(usecases, cli.OutputFormat(format))
	},
}

var usecasesRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a use case",
	Long: `Register a system description in the use-case registry.
Requires the admin API key.

Examples:
  clearance usecases register --system "hr-screening" --purpose "CV triage" --api-key admin-123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)
		uc, err := c.CreateUseCase(context.Background(), store.UseCaseParams{
			SystemName:   ucSystemName,
			Purpose:      ucPurpose,
			Context:      ucContext,
			DataUsed:     ucDataUsed,
			Safeguards:   ucSafeguards,
			ExtraDetails: ucExtraDetails,
		})
		if err != nil {
			return fmt.Errorf("failed to register use case: %w", err)
		}

		if quiet {
			return nil
		}
		fmt.Printf("Registered use case %d (record hash %s)\n", uc.ID, uc.RecordHash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usecasesCmd)
	usecasesCmd.AddCommand(usecasesListCmd)
	usecasesCmd.AddCommand(usecasesRegisterCmd)

	usecasesRegisterCmd.Flags().StringVar(&ucSystemName, "system", "", "System name (required)")
	usecasesRegisterCmd.Flags().StringVar(&ucPurpose, "purpose", "", "What the system is for")
	usecasesRegisterCmd.Flags().StringVar(&ucContext, "context", "", "Deployment context")
	usecasesRegisterCmd.Flags().StringVar(&ucDataUsed, "data-used", "", "Data categories the system processes")
	usecasesRegisterCmd.Flags().StringVar(&ucSafeguards, "safeguards", "", "Safeguards in place")
	usecasesRegisterCmd.Flags().StringVar(&ucExtraDetails, "extra", "", "Additional details")
	_ = usecasesRegisterCmd.MarkFlagRequired("system")
}
