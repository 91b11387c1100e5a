package commands

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sgdash/sgdash/internal/aws"
	"github.com/sgdash/sgdash/internal/metrics"
	"github.com/sgdash/sgdash/internal/notifications"
	"github.com/sgdash/sgdash/internal/scanner"
	"github.com/sgdash/sgdash/internal/source"
	"github.com/sgdash/sgdash/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan security groups and write the exposure snapshot",
	Long:  `Lists every EC2 security group in the region, keeps ingress rules open to 0.0.0.0/0 or ::/0, classifies each rule, and writes the snapshot JSON consumed by 'sgdash view' and 'sgdash serve'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		awsClient, err := aws.NewClient(ctx, cfg.Region)
		if err != nil {
			return err
		}

		spinner := ui.StartSpinner("Scanning security groups...")
		scn := scanner.New(awsClient.EC2, awsClient.Region)
		rules, err := scn.Scan(ctx, spinner)
		if err != nil {
			spinner.Fail("Scan failed")
			return err
		}

		if err := source.WriteSnapshot(cfg.SnapshotPath, rules); err != nil {
			spinner.Fail("Could not write snapshot")
			return err
		}
		spinner.Success("Scan complete")

		snap := metrics.Aggregate(rules)
		pterm.Printf("Found %d public rules across %d groups (%d high risk). Snapshot: %s\n",
			snap.TotalRules, snap.TotalGroups, snap.HighRiskRules, cfg.SnapshotPath)

		if cfg.Slack.WebhookURL != "" {
			notifier := notifications.NewSlackNotifier(cfg.Slack.WebhookURL, cfg.Slack.Channel)
			if err := notifier.SendSummary(snap, rules); err != nil {
				pterm.Warning.Printf("Slack notification failed: %v\n", err)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
