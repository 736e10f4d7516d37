package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certboot/internal/logger"
	"github.com/ksyq12/certboot/internal/settings"
	"github.com/ksyq12/certboot/internal/template"
)

// loadSettings resolves settings from the environment and applies any
// persistent flags the user set explicitly
func loadSettings(cmd *cobra.Command, root *rootOptions) (settings.Settings, error) {
	s, err := deps.SettingsLoader.Load()
	if err != nil {
		return s, err
	}

	flags := cmd.Flags()
	if flags.Changed("workdir") {
		s.WorkDir = root.workDir
	}
	if flags.Changed("config") {
		s.ConfigFile = root.configFile
	}
	if flags.Changed("verbose") {
		s.Verbose = root.verbose
	}

	logger.Init(s.Verbose)
	logger.DebugFields("settings resolved", map[string]interface{}{
		"workdir": s.WorkDir,
		"config":  s.ConfigPath(),
		"docker":  s.DockerBin,
		"dry_run": s.DryRun,
	})
	return s, nil
}

// newCompose creates a compose client for the manifest in the work dir
func newCompose(s settings.Settings) ComposeClient {
	return deps.ComposeFactory.Create(s.DockerBin, filepath.Join(s.WorkDir, template.ManifestFile))
}
