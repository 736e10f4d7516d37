package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certboot/internal/config"
	"github.com/ksyq12/certboot/internal/errors"
	"github.com/ksyq12/certboot/internal/logger"
	"github.com/ksyq12/certboot/internal/output"
	"github.com/ksyq12/certboot/internal/template"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	var stage string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write docker-compose.yml and nginx.conf without touching containers",
		Long: `Render the generated files into the work dir.

--stage pre writes the challenge-only nginx.conf used during issuance,
--stage post writes the HTTPS nginx.conf used once the certificate exists.
When docker is installed the manifest is checked with "docker compose config".

Examples:
  certboot render
  certboot render --stage post`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, template.Stage(stage))
		},
	}
	cmd.Flags().StringVar(&stage, "stage", string(template.StagePre), "nginx variant to write: pre or post")
	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, stage template.Stage) error {
	if stage != template.StagePre && stage != template.StagePost {
		return errors.Validation("stage", fmt.Sprintf("must be %q or %q", template.StagePre, template.StagePost))
	}

	s, err := loadSettings(cmd, root)
	if err != nil {
		return err
	}
	cfg, err := config.Load(s.ConfigPath())
	if err != nil {
		return err
	}

	manifest, err := template.RenderManifest(cfg, s.CertbotImage)
	if err != nil {
		return err
	}
	nginx, err := template.RenderNginx(stage, cfg)
	if err != nil {
		return err
	}

	files := []struct {
		name    string
		content string
	}{
		{template.ManifestFile, manifest},
		{template.NginxFile, nginx},
	}
	for _, f := range files {
		path := filepath.Join(s.WorkDir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return errors.Wrap(errors.ErrCodeIO, "failed to write "+path, err)
		}
		output.Success("Wrote %s", path)
	}

	c := newCompose(s)
	if !c.Available() {
		logger.Debug("%s not found, skipping manifest check", s.DockerBin)
		return nil
	}
	if err := c.Config(); err != nil {
		output.Warn("%s compose rejected %s: %v", s.DockerBin, template.ManifestFile, err)
		return nil
	}
	output.Success("%s compose accepts %s", s.DockerBin, template.ManifestFile)
	return nil
}
