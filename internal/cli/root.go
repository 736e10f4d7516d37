package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certboot/internal/config"
)

var version = "dev"

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	verbose    bool
	workDir    string
	configFile string
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func newRootCmd() *cobra.Command {
	root := &rootOptions{}
	run := &runOptions{}

	cmd := &cobra.Command{
		Use:   "certboot",
		Short: "Bootstrap a Let's Encrypt certificate for nginx in docker compose",
		Long: `certboot obtains a TLS certificate for one domain served by nginx in docker
compose, using certbot's HTTP-01 webroot challenge.

It reads ` + config.DefaultFile + ` from the work dir, for example:

` + exampleConfigJSON() + `

then writes docker-compose.yml and a challenge-only nginx.conf, starts the
containers, requests the certificate, and restarts with an HTTPS nginx.conf.

Running certboot without a subcommand is the same as "certboot run".`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, root, run)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&root.verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	pf.StringVarP(&root.workDir, "workdir", "w", "", "Directory for the config and generated files (env CERTBOOT_WORKDIR)")
	pf.StringVarP(&root.configFile, "config", "c", "", "Configuration file, relative to the work dir (env CERTBOOT_CONFIG)")

	addRunFlags(cmd, run)

	cmd.AddCommand(
		newRunCmd(root),
		newRenderCmd(root),
		newValidateCmd(root),
		newRenewCmd(root),
	)
	return cmd
}

// exampleConfigJSON renders config.Example indented for help text
func exampleConfigJSON() string {
	data, err := json.MarshalIndent(config.Example(), "  ", "  ")
	if err != nil {
		return ""
	}
	return "  " + string(data)
}
