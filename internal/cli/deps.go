package cli

import (
	"os"

	"github.com/ksyq12/certboot/internal/compose"
	"github.com/ksyq12/certboot/internal/input"
	"github.com/ksyq12/certboot/internal/settings"
	"github.com/ksyq12/certboot/internal/workflow"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	SettingsLoader    SettingsLoader
	ComposeFactory    ComposeFactory
	StdinReader       StdinReader
	TerminalChecker   TerminalChecker
	ExecutableLocator ExecutableLocator
}

// SettingsLoader resolves runtime settings from the environment
type SettingsLoader interface {
	Load() (settings.Settings, error)
}

// ComposeClient is the container group as the CLI uses it
type ComposeClient interface {
	workflow.Compose
	Available() bool
	Config() error
}

// ComposeFactory creates compose clients
type ComposeFactory interface {
	Create(docker, manifestPath string) ComposeClient
}

// StdinReader reads from stdin
type StdinReader interface {
	ReadString(delim byte) (string, error)
}

// TerminalChecker reports whether stdin is interactive
type TerminalChecker interface {
	StdinIsTerminal() bool
}

// ExecutableLocator returns the path of the running binary
type ExecutableLocator interface {
	Path() (string, error)
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	SettingsLoader:    &realSettingsLoader{},
	ComposeFactory:    &realComposeFactory{},
	StdinReader:       input.NewStdinReader(),
	TerminalChecker:   &realTerminalChecker{},
	ExecutableLocator: &realExecutableLocator{},
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

type realSettingsLoader struct{}

func (r *realSettingsLoader) Load() (settings.Settings, error) {
	return settings.Load()
}

type realComposeFactory struct{}

func (r *realComposeFactory) Create(docker, manifestPath string) ComposeClient {
	return compose.New(docker, manifestPath)
}

type realTerminalChecker struct{}

func (r *realTerminalChecker) StdinIsTerminal() bool {
	return input.StdinIsTerminal()
}

type realExecutableLocator struct{}

func (r *realExecutableLocator) Path() (string, error) {
	return os.Executable()
}
