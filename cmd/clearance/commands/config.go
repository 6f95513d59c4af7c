package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawtocode/clearance/internal/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage the clearance CLI configuration file.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save base URL and API key to the config file",
	Long: `Save the given --base-url and --api-key to ~/.clearance/config.yaml
so they do not have to be repeated on every command.

Example:
  clearance config set --base-url https://clearance.example.com --api-key admin-123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		configPath, _ := cli.GetConfigPath()
		fmt.Printf("Configuration saved to: %s\n", configPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("base_url: %s\n", cfg.BaseURL)
		// Mask API key for security
		maskedKey := "(not set)"
		if len(cfg.APIKey) > 4 {
			maskedKey = cfg.APIKey[:4] + "***"
		} else if cfg.APIKey != "" {
			maskedKey = "***"
		}
		fmt.Printf("api_key:  %s\n", maskedKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}
