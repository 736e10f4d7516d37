package cli

import (
	"io"
	"strings"
	"sync"

	"github.com/ksyq12/certboot/internal/settings"
)

// MockSettingsLoader is a test double for SettingsLoader
type MockSettingsLoader struct {
	Settings settings.Settings
	Err      error
	Calls    int
}

func (m *MockSettingsLoader) Load() (settings.Settings, error) {
	m.Calls++
	if m.Err != nil {
		return settings.Settings{}, m.Err
	}
	return m.Settings, nil
}

// MockCompose is a test double for ComposeClient.
// Errs maps an operation ("up", "down", "config" or a service name for
// Run) to the error it returns.
type MockCompose struct {
	mu           sync.Mutex
	Docker       string
	ManifestPath string
	Missing      bool
	Errs         map[string]error
	Calls        []string
	OnCall       func(call string)
}

func (m *MockCompose) record(call, key string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	hook := m.OnCall
	m.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	return m.Errs[key]
}

func (m *MockCompose) Up() error {
	return m.record("up", "up")
}

func (m *MockCompose) Down() error {
	return m.record("down", "down")
}

func (m *MockCompose) Config() error {
	return m.record("config", "config")
}

func (m *MockCompose) Run(service string, args ...string) error {
	return m.record(strings.Join(append([]string{"run", service}, args...), " "), service)
}

func (m *MockCompose) Available() bool {
	return !m.Missing
}

// CallNames returns the recorded calls reduced to their first word
func (m *MockCompose) CallNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		names[i], _, _ = strings.Cut(c, " ")
	}
	return names
}

// MockComposeFactory is a test double for ComposeFactory
type MockComposeFactory struct {
	Compose *MockCompose
}

func (m *MockComposeFactory) Create(docker, manifestPath string) ComposeClient {
	if m.Compose == nil {
		m.Compose = &MockCompose{}
	}
	m.Compose.Docker = docker
	m.Compose.ManifestPath = manifestPath
	return m.Compose
}

// MockStdinReader is a test double for StdinReader
type MockStdinReader struct {
	Input string
	pos   int
}

func (m *MockStdinReader) ReadString(delim byte) (string, error) {
	if m.pos >= len(m.Input) {
		return "", io.EOF
	}
	idx := strings.IndexByte(m.Input[m.pos:], delim)
	if idx == -1 {
		result := m.Input[m.pos:]
		m.pos = len(m.Input)
		return result, io.EOF
	}
	result := m.Input[m.pos : m.pos+idx+1]
	m.pos += idx + 1
	return result, nil
}

// MockTerminalChecker is a test double for TerminalChecker
type MockTerminalChecker struct {
	Terminal bool
}

func (m *MockTerminalChecker) StdinIsTerminal() bool {
	return m.Terminal
}

// MockExecutableLocator is a test double for ExecutableLocator
type MockExecutableLocator struct {
	Exe string
	Err error
}

func (m *MockExecutableLocator) Path() (string, error) {
	return m.Exe, m.Err
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a builder whose settings point at workDir
func NewMockDeps(workDir string) *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			SettingsLoader: &MockSettingsLoader{Settings: settings.Settings{
				WorkDir:      workDir,
				ConfigFile:   "certbot.json",
				DockerBin:    "docker",
				CertbotImage: "certbot/certbot:latest",
			}},
			ComposeFactory:    &MockComposeFactory{Compose: &MockCompose{}},
			StdinReader:       &MockStdinReader{},
			TerminalChecker:   &MockTerminalChecker{},
			ExecutableLocator: &MockExecutableLocator{Exe: "/usr/local/bin/certboot"},
		},
	}
}

// WithSettings replaces the settings returned by the loader
func (b *MockDependenciesBuilder) WithSettings(s settings.Settings) *MockDependenciesBuilder {
	b.deps.SettingsLoader = &MockSettingsLoader{Settings: s}
	return b
}

// WithSettingsError makes the loader fail
func (b *MockDependenciesBuilder) WithSettingsError(err error) *MockDependenciesBuilder {
	b.deps.SettingsLoader = &MockSettingsLoader{Err: err}
	return b
}

// WithCompose sets the compose client handed out by the factory
func (b *MockDependenciesBuilder) WithCompose(c *MockCompose) *MockDependenciesBuilder {
	b.deps.ComposeFactory = &MockComposeFactory{Compose: c}
	return b
}

// WithStdinInput sets the stdin input and marks stdin as a terminal
func (b *MockDependenciesBuilder) WithStdinInput(input string) *MockDependenciesBuilder {
	b.deps.StdinReader = &MockStdinReader{Input: input}
	b.deps.TerminalChecker = &MockTerminalChecker{Terminal: true}
	return b
}

// WithExecutable sets the path reported for the running binary
func (b *MockDependenciesBuilder) WithExecutable(path string) *MockDependenciesBuilder {
	b.deps.ExecutableLocator = &MockExecutableLocator{Exe: path}
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

// TestHelper provides utilities for CLI tests
type TestHelper struct {
	OldDeps *Dependencies
	Deps    *Dependencies
	Compose *MockCompose
	WorkDir string
}

// NewTestHelper installs mock dependencies rooted at workDir and restores
// the previous ones when the test ends
func NewTestHelper(t interface {
	Helper()
	Cleanup(func())
}, workDir string) *TestHelper {
	t.Helper()

	c := &MockCompose{}
	h := &TestHelper{
		OldDeps: deps,
		Deps:    NewMockDeps(workDir).WithCompose(c).Build(),
		Compose: c,
		WorkDir: workDir,
	}
	deps = h.Deps

	t.Cleanup(func() {
		deps = h.OldDeps
	})
	return h
}

// SetStdinInput sets the stdin input and marks stdin as a terminal
func (h *TestHelper) SetStdinInput(input string) {
	deps.StdinReader = &MockStdinReader{Input: input}
	deps.TerminalChecker = &MockTerminalChecker{Terminal: true}
}

// SetExecutable sets the path reported for the running binary
func (h *TestHelper) SetExecutable(path string) {
	deps.ExecutableLocator = &MockExecutableLocator{Exe: path}
}

// Settings returns the mock settings loader
func (h *TestHelper) Settings() *MockSettingsLoader {
	return deps.SettingsLoader.(*MockSettingsLoader)
}
