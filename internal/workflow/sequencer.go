package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/certboot/internal/compose"
	"github.com/ksyq12/certboot/internal/config"
	"github.com/ksyq12/certboot/internal/errors"
	"github.com/ksyq12/certboot/internal/input"
	"github.com/ksyq12/certboot/internal/logger"
	"github.com/ksyq12/certboot/internal/output"
	"github.com/ksyq12/certboot/internal/ssl"
	"github.com/ksyq12/certboot/internal/template"
)

// Compose is the container group the sequencer starts and stops
type Compose interface {
	Up() error
	Down() error
	Run(service string, args ...string) error
}

// CleanupMode decides what happens to the setup files at the end
type CleanupMode int

const (
	// CleanupAsk prompts, defaulting to yes
	CleanupAsk CleanupMode = iota
	// CleanupYes deletes without prompting
	CleanupYes
	// CleanupKeep keeps without prompting
	CleanupKeep
)

// Options configures a Sequencer
type Options struct {
	WorkDir      string
	ConfigPath   string
	DockerBin    string
	CertbotImage string
	DryRun       bool
	Cleanup      CleanupMode

	// Executable is the running binary; it is offered for deletion only
	// when it lives inside WorkDir.
	Executable string

	// Interactive reports whether Prompt is attached to a person
	Interactive bool
	Prompt      input.Reader
}

// StepResult records the outcome of one step
type StepResult struct {
	Name    string
	Skipped bool
	Err     error
}

// Result summarizes a run
type Result struct {
	Config  config.Config
	Steps   []StepResult
	Removed []string
}

// Failed returns the steps whose command failed
func (r *Result) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

// Sequencer runs the provisioning steps in order
type Sequencer struct {
	opts    Options
	compose Compose
	certbot *ssl.Certbot
}

// New creates a Sequencer driving the given compose group
func New(opts Options, c Compose) *Sequencer {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join(opts.WorkDir, config.DefaultFile)
	}
	if opts.DockerBin == "" {
		opts.DockerBin = "docker"
	}
	if opts.CertbotImage == "" {
		opts.CertbotImage = "certbot/certbot:latest"
	}
	return &Sequencer{
		opts:    opts,
		compose: c,
		certbot: ssl.NewCertbot(c),
	}
}

// ManifestPath is where docker-compose.yml is written
func (s *Sequencer) ManifestPath() string {
	return filepath.Join(s.opts.WorkDir, template.ManifestFile)
}

// NginxPath is where nginx.conf is written
func (s *Sequencer) NginxPath() string {
	return filepath.Join(s.opts.WorkDir, template.NginxFile)
}

const totalSteps = 9

// Run executes the whole sequence. It returns an error only when the
// configuration cannot be loaded or a file cannot be written.
func (s *Sequencer) Run() (*Result, error) {
	res := &Result{}

	output.Step(1, totalSteps, "Loading %s", s.opts.ConfigPath)
	cfg, err := config.Load(s.opts.ConfigPath)
	if err != nil {
		return res, err
	}
	res.Config = cfg
	logger.DebugFields("config loaded", map[string]interface{}{
		"domain":        cfg.Domain,
		"nginx_image":   cfg.NginxImage,
		"volume_prefix": cfg.VolumePrefix,
	})

	output.Step(2, totalSteps, "Stopping previous containers")
	res.add(s.teardownPrevious())

	output.Step(3, totalSteps, "Writing %s", template.ManifestFile)
	manifest, err := template.RenderManifest(cfg, s.opts.CertbotImage)
	if err != nil {
		return res, err
	}
	if err := writeFile(s.ManifestPath(), manifest); err != nil {
		return res, err
	}

	output.Step(4, totalSteps, "Writing pre-issuance %s", template.NginxFile)
	if err := s.writeNginx(template.StagePre, cfg); err != nil {
		return res, err
	}

	output.Step(5, totalSteps, "Starting containers")
	res.add(s.command("start", s.compose.Up))

	if s.opts.DryRun {
		output.Step(6, totalSteps, "Requesting certificate for %s (dry run)", cfg.Domain)
	} else {
		output.Step(6, totalSteps, "Requesting certificate for %s", cfg.Domain)
	}
	res.add(s.command("issue", func() error {
		_, err := s.certbot.Issue(cfg.Domain, cfg.Email, s.opts.DryRun)
		return err
	}))

	output.Step(7, totalSteps, "Stopping containers")
	res.add(s.command("stop", s.compose.Down))

	output.Step(8, totalSteps, "Writing post-issuance %s", template.NginxFile)
	if err := s.writeNginx(template.StagePost, cfg); err != nil {
		return res, err
	}
	if s.opts.DryRun {
		output.Warn("Dry run: no certificate was issued, nginx will not start until a real one exists")
	}

	output.Step(9, totalSteps, "Restarting containers")
	res.add(s.command("restart", s.compose.Up))

	res.Removed = s.finish(cfg)
	return res, nil
}

func (r *Result) add(step StepResult) {
	r.Steps = append(r.Steps, step)
}

// teardownPrevious stops containers from an earlier run. A fresh work dir
// has no manifest and nothing to stop.
func (s *Sequencer) teardownPrevious() StepResult {
	data, err := os.ReadFile(s.ManifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("no %s in %s, skipping teardown", template.ManifestFile, s.opts.WorkDir)
			output.Info("Nothing to stop")
			return StepResult{Name: "teardown", Skipped: true}
		}
		logger.Warn("cannot read existing manifest: %v", err)
	} else if m, perr := compose.ParseManifest(data); perr != nil {
		logger.Warn("existing manifest is not valid YAML: %v", perr)
	} else {
		logger.Info("stopping services: %s", strings.Join(m.ServiceNames(), ", "))
	}
	return s.command("teardown", s.compose.Down)
}

// command runs fn and logs a failure without stopping the sequence
func (s *Sequencer) command(name string, fn func() error) StepResult {
	err := fn()
	if err != nil {
		logger.WarnFields("step failed, continuing", map[string]interface{}{
			"step": name,
			"err":  err,
		})
		output.Warn("%s step failed: %v", name, err)
	}
	return StepResult{Name: name, Err: err}
}

func (s *Sequencer) writeNginx(stage template.Stage, cfg config.Config) error {
	conf, err := template.RenderNginx(stage, cfg)
	if err != nil {
		return err
	}
	return writeFile(s.NginxPath(), conf)
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to write %s", path), err)
	}
	logger.Debug("wrote %s (%d bytes)", path, len(content))
	return nil
}
