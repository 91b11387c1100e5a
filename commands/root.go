package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sgdash/sgdash/internal/config"
	"github.com/sgdash/sgdash/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "sgdash",
	Short: "sgdash surfaces AWS security group rules open to the internet",
	Long:  `sgdash scans EC2 security groups for ingress rules reachable from 0.0.0.0/0, classifies each rule's risk, and presents the result as a searchable, sortable terminal dashboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	ui.PrintBanner()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("region", "r", "", "AWS Region to scan")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
}

// loadConfig resolves the effective configuration: defaults, then the config
// file when given, then the --region flag on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if region, _ := cmd.Flags().GetString("region"); region != "" {
		cfg.Region = region
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
