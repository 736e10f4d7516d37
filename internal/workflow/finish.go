package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/certboot/internal/config"
	"github.com/ksyq12/certboot/internal/input"
	"github.com/ksyq12/certboot/internal/logger"
	"github.com/ksyq12/certboot/internal/output"
	"github.com/ksyq12/certboot/internal/ssl"
)

// finish prints the closing guidance and handles the setup files.
// It returns the files that were deleted.
func (s *Sequencer) finish(cfg config.Config) []string {
	output.Print("")
	output.Success("Done. Navigate to https://%s in your browser...", cfg.Domain)
	output.Print("")

	var removed []string
	if s.confirmCleanup(cfg) {
		removed = s.removeSetupFiles()
		if len(removed) > 0 {
			output.Info("Deleted the setup files.")
		}
	}

	output.Print("")
	output.Print("Add the following line to your crontab to auto-renew this certificate:")
	output.Print("%s", RenewCronLine(s.opts.WorkDir, s.opts.DockerBin))
	output.Print("")
	output.Print("Now go ahead and edit the docker-compose.yml and nginx.conf files, being careful that you:")
	output.Print(" 1) don't remove any of the 'volumes' lines in docker-compose.yml")
	output.Print(" 2) don't remove any of the 'ssl_cert*' lines in nginx.conf")
	return removed
}

func (s *Sequencer) confirmCleanup(cfg config.Config) bool {
	switch s.opts.Cleanup {
	case CleanupYes:
		return true
	case CleanupKeep:
		return false
	}

	if s.opts.Prompt == nil {
		output.Warn("no input available, keeping the setup files (use --yes to delete them)")
		return false
	}

	// A piped answer is honored; only a terminal gets the question printed.
	if s.opts.Interactive {
		output.Prompt("Remove the setup files (if %s has a valid certificate you don't need them anymore) (Y/n): ", cfg.Domain)
	}
	yes, err := input.ReadYesNo(s.opts.Prompt, true)
	if err != nil {
		if !s.opts.Interactive {
			output.Warn("no answer on stdin, keeping the setup files (use --yes to delete them)")
			return false
		}
		logger.Warn("could not read answer: %v", err)
		return false
	}
	return yes
}

// SetupFiles returns the files offered for deletion: the configuration file
// and, when it sits inside the work dir, the certboot binary itself.
func (s *Sequencer) SetupFiles() []string {
	files := []string{s.opts.ConfigPath}
	if s.opts.Executable != "" && within(s.opts.WorkDir, s.opts.Executable) {
		files = append(files, s.opts.Executable)
	}
	return files
}

func (s *Sequencer) removeSetupFiles() []string {
	var removed []string
	for _, f := range s.SetupFiles() {
		if err := os.Remove(f); err != nil {
			logger.Warn("failed to remove %s: %v", f, err)
			output.Warn("Could not delete %s: %v", f, err)
			continue
		}
		logger.InfoFields("removed setup file", map[string]interface{}{"path": f})
		removed = append(removed, f)
	}
	return removed
}

// within reports whether path is located directly or indirectly under dir
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RenewCronLine is the crontab entry that renews the certificate twice a day.
// Outside the current directory the entry changes into the work dir first.
func RenewCronLine(workDir, docker string) string {
	if docker == "" {
		docker = "docker"
	}
	cmd := fmt.Sprintf("%s compose run --rm %s renew", docker, ssl.Service)
	if workDir != "" && workDir != "." {
		if abs, err := filepath.Abs(workDir); err == nil {
			workDir = abs
		}
		cmd = fmt.Sprintf("cd %s && %s", workDir, cmd)
	}
	return "0 0,12 * * * " + cmd
}
