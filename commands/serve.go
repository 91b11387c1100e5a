package commands

import (
	"context"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sgdash/sgdash/internal/aws"
	"github.com/sgdash/sgdash/internal/scanner"
	"github.com/sgdash/sgdash/internal/server"
	"github.com/sgdash/sgdash/internal/source"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the snapshot and a rescan endpoint over HTTP",
	Long:  `Exposes the exposure snapshot at /api/rules and a trigger at /api/scan that reruns the security group scan and rewrites the snapshot before responding.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ListenAddr = addr
		}

		scanFunc := func(ctx context.Context) error {
			awsClient, err := aws.NewClient(ctx, cfg.Region)
			if err != nil {
				return err
			}
			rules, err := scanner.New(awsClient.EC2, awsClient.Region).Scan(ctx, nil)
			if err != nil {
				return err
			}
			return source.WriteSnapshot(cfg.SnapshotPath, rules)
		}

		srv := server.New(cfg.SnapshotPath, scanFunc)
		pterm.Success.Printf("Backend running at http://localhost%s\n", cfg.ListenAddr)
		return http.ListenAndServe(cfg.ListenAddr, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to config listen_addr)")
	rootCmd.AddCommand(serveCmd)
}
