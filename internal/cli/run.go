package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/certboot/internal/logger"
	"github.com/ksyq12/certboot/internal/output"
	"github.com/ksyq12/certboot/internal/workflow"
)

type runOptions struct {
	dryRun bool
	yes    bool
	keep   bool
}

func addRunFlags(cmd *cobra.Command, o *runOptions) {
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Ask certbot for a test certificate only (env CERTBOOT_DRY_RUN)")
	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "Delete the setup files at the end without asking")
	cmd.Flags().BoolVar(&o.keep, "keep", false, "Keep the setup files at the end without asking")
	cmd.MarkFlagsMutuallyExclusive("yes", "keep")
}

func newRunCmd(root *rootOptions) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Issue the certificate and switch nginx to HTTPS",
		Long: `Run the full bootstrap sequence.

Containers from a previous run are stopped first. Failures of docker or
certbot are reported and the sequence continues; rerun certboot to retry.

Examples:
  certboot run
  certboot run --dry-run --keep
  certboot run --workdir /srv/proxy --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, root, o)
		},
	}
	addRunFlags(cmd, o)
	return cmd
}

func runProvision(cmd *cobra.Command, root *rootOptions, o *runOptions) error {
	s, err := loadSettings(cmd, root)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dry-run") {
		s.DryRun = o.dryRun
	}

	cleanup := workflow.CleanupAsk
	switch {
	case o.yes:
		cleanup = workflow.CleanupYes
	case o.keep:
		cleanup = workflow.CleanupKeep
	}

	c := newCompose(s)
	if !c.Available() {
		output.Warn("%s not found in PATH, container steps will fail", s.DockerBin)
	}

	exe, err := deps.ExecutableLocator.Path()
	if err != nil {
		logger.Debug("cannot locate executable: %v", err)
		exe = ""
	}

	seq := workflow.New(workflow.Options{
		WorkDir:      s.WorkDir,
		ConfigPath:   s.ConfigPath(),
		DockerBin:    s.DockerBin,
		CertbotImage: s.CertbotImage,
		DryRun:       s.DryRun,
		Cleanup:      cleanup,
		Executable:   exe,
		Interactive:  deps.TerminalChecker.StdinIsTerminal(),
		Prompt:       deps.StdinReader,
	}, c)

	res, err := seq.Run()
	if err != nil {
		logger.ErrorFields("run aborted", map[string]interface{}{
			"config": s.ConfigPath(),
			"err":    err,
		})
		output.Error("Aborted: %v", err)
		return err
	}
	if failed := res.Failed(); len(failed) > 0 {
		logger.Warn("%d of %d steps failed", len(failed), len(res.Steps))
	}
	return nil
}
