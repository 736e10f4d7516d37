package template

import (
	"bytes"
	"embed"
	"text/template"

	"github.com/ksyq12/certboot/internal/config"
	"github.com/ksyq12/certboot/internal/errors"
	"github.com/ksyq12/certboot/internal/ssl"
)

// File names written into the work dir
const (
	ManifestFile = "docker-compose.yml"
	NginxFile    = "nginx.conf"
)

// RejectStatus is returned to requests for hosts other than the configured domain.
// 444 makes nginx close the connection without a response.
const RejectStatus = 444

// ManifestData contains data for rendering the compose manifest
type ManifestData struct {
	NginxImage   string
	CertbotImage string
	VolumePrefix string
}

// NginxData contains data for rendering either nginx variant
type NginxData struct {
	Domain        string
	ChallengePath string
	Webroot       string
	CertPath      string
	KeyPath       string
	RejectStatus  int
}

// RenderManifest renders docker-compose.yml for cfg.
// Only nginx_image and volume_prefix are substituted.
func RenderManifest(cfg config.Config, certbotImage string) (string, error) {
	data := ManifestData{
		NginxImage:   cfg.NginxImage,
		CertbotImage: certbotImage,
		VolumePrefix: cfg.VolumePrefix,
	}
	return execute(composeTemplates, "compose/docker-compose.yml.tmpl", data)
}

// RenderNginx renders nginx.conf for the given stage
func RenderNginx(stage Stage, cfg config.Config) (string, error) {
	path, err := nginxTemplatePath(stage)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeTemplate, "failed to select template", err)
	}

	data := NginxData{
		ChallengePath: ssl.ChallengePath,
		Webroot:       ssl.Webroot,
	}
	// The pre-issuance variant never sees the domain.
	if stage == StagePost {
		cert := ssl.GetCertPaths(cfg.Domain)
		data.Domain = cfg.Domain
		data.CertPath = cert.CertPath
		data.KeyPath = cert.KeyPath
		data.RejectStatus = RejectStatus
	}
	return execute(nginxTemplates, path, data)
}

func execute(fs embed.FS, path string, data interface{}) (string, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeTemplate, "template not found: "+path, err)
	}

	tmpl, err := template.New(path).Parse(string(content))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeTemplate, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeTemplate, "failed to render template", err)
	}
	return buf.String(), nil
}
