// Package settings resolves certboot's runtime settings from the
// environment.
//
// Values come from CERTBOOT_* variables. A .env file in the current
// directory is read first; variables already set in the process
// environment take precedence over it. Command-line flags are applied on
// top by the cli package.
package settings

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ksyq12/certboot/internal/errors"
)

// DotEnvFile is the optional env file read from the current directory
const DotEnvFile = ".env"

// Settings holds the knobs that are not part of the JSON configuration
type Settings struct {
	WorkDir      string `env:"CERTBOOT_WORKDIR" envDefault:"."`
	ConfigFile   string `env:"CERTBOOT_CONFIG" envDefault:"certbot.json"`
	DockerBin    string `env:"CERTBOOT_DOCKER" envDefault:"docker"`
	CertbotImage string `env:"CERTBOOT_CERTBOT_IMAGE" envDefault:"certbot/certbot:latest"`
	DryRun       bool   `env:"CERTBOOT_DRY_RUN" envDefault:"false"`
	Verbose      bool   `env:"CERTBOOT_VERBOSE" envDefault:"false"`
}

// Load reads .env (if present) and the process environment
func Load() (Settings, error) {
	return LoadFrom(DotEnvFile, envMap(os.Environ()))
}

// LoadFrom parses settings from dotenvPath merged under environ.
// A missing dotenv file is not an error.
func LoadFrom(dotenvPath string, environ map[string]string) (Settings, error) {
	merged := make(map[string]string, len(environ))

	if dotenvPath != "" {
		values, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			for k, v := range values {
				merged[k] = v
			}
		case !os.IsNotExist(err):
			return Settings{}, errors.Wrap(errors.ErrCodeConfig, "failed to read "+dotenvPath, err)
		}
	}
	for k, v := range environ {
		merged[k] = v
	}

	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: merged}); err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeConfig, "failed to parse environment", err)
	}
	return s, nil
}

// ConfigPath resolves ConfigFile against WorkDir unless it is absolute
func (s Settings) ConfigPath() string {
	if filepath.IsAbs(s.ConfigFile) {
		return s.ConfigFile
	}
	return filepath.Join(s.WorkDir, s.ConfigFile)
}

func envMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}
