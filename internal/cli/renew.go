package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/certboot/internal/logger"
	"github.com/ksyq12/certboot/internal/output"
	"github.com/ksyq12/certboot/internal/ssl"
	"github.com/ksyq12/certboot/internal/workflow"
)

func newRenewCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "renew",
		Short: "Renew certificates through the certbot service",
		Long: `Run "certbot renew" in the certbot compose service.

This command is optional. The crontab line printed at the end of "certboot
run" calls docker compose directly and does not need certboot installed.

certbot only renews certificates close to expiry, so this is safe to run
from cron twice a day. nginx picks up renewed files on its next reload.

Examples:
  certboot renew
  certboot renew --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRenew(cmd, root, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Test renewal without saving certificates")
	return cmd
}

func runRenew(cmd *cobra.Command, root *rootOptions, dryRun bool) error {
	s, err := loadSettings(cmd, root)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dry-run") {
		s.DryRun = dryRun
	}

	output.Info("Renewing certificates...")
	if err := ssl.NewCertbot(newCompose(s)).Renew(s.DryRun); err != nil {
		logger.Error("certbot renew failed: %v", err)
		output.Error("Renewal failed: %v", err)
		return err
	}
	output.Success("Renewal finished")
	output.Print("Schedule it with: %s", workflow.RenewCronLine(s.WorkDir, s.DockerBin))
	return nil
}
