package template

import (
	"embed"
	"fmt"
)

//go:embed nginx/*.tmpl
var nginxTemplates embed.FS

//go:embed compose/*.tmpl
var composeTemplates embed.FS

// Stage selects which nginx configuration variant to render
type Stage string

const (
	// StagePre serves only the ACME challenge and redirects everything else
	StagePre Stage = "pre"
	// StagePost terminates TLS with the issued certificate
	StagePost Stage = "post"
)

// Stages returns the valid stage names
func Stages() []Stage {
	return []Stage{StagePre, StagePost}
}

// nginxTemplatePath maps a stage to its embedded template file
func nginxTemplatePath(stage Stage) (string, error) {
	switch stage {
	case StagePre:
		return "nginx/pre-issuance.conf.tmpl", nil
	case StagePost:
		return "nginx/post-issuance.conf.tmpl", nil
	default:
		return "", fmt.Errorf("unknown stage: %s", stage)
	}
}
