package workflow

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksyq12/certboot/internal/compose"
	certerrors "github.com/ksyq12/certboot/internal/errors"
	"github.com/ksyq12/certboot/internal/executor"
	"github.com/ksyq12/certboot/internal/input"
	"github.com/ksyq12/certboot/internal/output"
)

const exampleJSON = `{"domain":"example.com","email":"a@example.com","nginx_image":"nginx:latest","volume_prefix":"./data"}`

// fakeCompose records calls and snapshots nginx.conf at each one so tests
// can check which variant was live when.
type fakeCompose struct {
	nginxPath string
	calls     []string
	nginxAt   []string
	fail      map[string]error
}

func (f *fakeCompose) record(call string) error {
	f.calls = append(f.calls, call)
	data, _ := os.ReadFile(f.nginxPath)
	f.nginxAt = append(f.nginxAt, string(data))
	return f.fail[strings.Fields(call)[0]]
}

func (f *fakeCompose) Up() error {
	return f.record("up")
}

func (f *fakeCompose) Down() error {
	return f.record("down")
}

func (f *fakeCompose) Run(service string, args ...string) error {
	return f.record(strings.Join(append([]string{"run", service}, args...), " "))
}

type fixture struct {
	dir     string
	compose *fakeCompose
	out     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "certbot.json"), []byte(exampleJSON), 0644))

	var buf bytes.Buffer
	output.SetOutput(&buf)
	t.Cleanup(func() { output.SetOutput(nil) })

	return &fixture{
		dir:     dir,
		compose: &fakeCompose{nginxPath: filepath.Join(dir, "nginx.conf")},
		out:     &buf,
	}
}

func (f *fixture) options() Options {
	return Options{
		WorkDir:    f.dir,
		ConfigPath: filepath.Join(f.dir, "certbot.json"),
		Cleanup:    CleanupKeep,
	}
}

func TestRunFreshWorkDir(t *testing.T) {
	f := newFixture(t)

	res, err := New(f.options(), f.compose).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"up",
		"run certbot certonly --webroot --webroot-path /var/www/certbot/ -d example.com --non-interactive --agree-tos -m a@example.com",
		"down",
		"up",
	}, f.compose.calls)

	require.NotEmpty(t, res.Steps)
	assert.Equal(t, "teardown", res.Steps[0].Name)
	assert.True(t, res.Steps[0].Skipped)
	assert.Empty(t, res.Failed())
	assert.Equal(t, "example.com", res.Config.Domain)
}

func TestRunTearsDownExistingManifest(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "docker-compose.yml"), []byte("services:\n  old: {image: nginx}\n"), 0644))

	res, err := New(f.options(), f.compose).Run()
	require.NoError(t, err)

	require.Len(t, f.compose.calls, 5)
	assert.Equal(t, "down", f.compose.calls[0])
	assert.False(t, res.Steps[0].Skipped)
}

func TestRunTearsDownEvenWithUnparsableManifest(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "docker-compose.yml"), []byte("services: [broken"), 0644))

	_, err := New(f.options(), f.compose).Run()
	require.NoError(t, err)
	assert.Equal(t, "down", f.compose.calls[0])
}

func TestRunNginxVariantPerPhase(t *testing.T) {
	f := newFixture(t)

	_, err := New(f.options(), f.compose).Run()
	require.NoError(t, err)

	// During issuance the challenge-only config is live.
	issuing := f.compose.nginxAt[1]
	assert.Contains(t, issuing, "return 301 https://$host$request_uri;")
	assert.NotContains(t, issuing, "ssl_certificate")

	// After the restart the TLS config is live.
	final := f.compose.nginxAt[3]
	assert.Contains(t, final, "ssl_certificate /etc/nginx/ssl/live/example.com/fullchain.pem;")
	assert.Contains(t, final, "^(example.com)$")

	onDisk, err := os.ReadFile(filepath.Join(f.dir, "nginx.conf"))
	require.NoError(t, err)
	assert.Equal(t, final, string(onDisk))

	manifest, err := os.ReadFile(filepath.Join(f.dir, "docker-compose.yml"))
	require.NoError(t, err)
	m, err := compose.ParseManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, []string{"certbot", "webserver"}, m.ServiceNames())
	assert.Equal(t, "nginx:latest", m.Services["webserver"].Image)
}

func TestRunDryRun(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.DryRun = true

	_, err := New(opts, f.compose).Run()
	require.NoError(t, err)

	assert.Contains(t, f.compose.calls[1], " --dry-run ")
	assert.Contains(t, f.out.String(), "Dry run")
}

func TestRunContinuesAfterCommandFailures(t *testing.T) {
	f := newFixture(t)
	f.compose.fail = map[string]error{
		"up":  errors.New("cannot connect to the docker daemon"),
		"run": errors.New("exit status 1"),
	}

	res, err := New(f.options(), f.compose).Run()
	require.NoError(t, err)

	assert.Len(t, f.compose.calls, 4)
	failed := res.Failed()
	require.Len(t, failed, 3)
	assert.Equal(t, "start", failed[0].Name)
	assert.Equal(t, "issue", failed[1].Name)
	assert.Equal(t, "restart", failed[2].Name)

	_, statErr := os.Stat(filepath.Join(f.dir, "nginx.conf"))
	assert.NoError(t, statErr, "post-issuance config should still be written")
}

func TestRunConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"missing file", nil},
		{"malformed", strPtr(`{"domain":`)},
		{"missing key", strPtr(`{"domain":"example.com","email":"a@example.com","nginx_image":"nginx:latest"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cfgPath := filepath.Join(f.dir, "certbot.json")
			if tt.content == nil {
				require.NoError(t, os.Remove(cfgPath))
			} else {
				require.NoError(t, os.WriteFile(cfgPath, []byte(*tt.content), 0644))
			}

			_, err := New(f.options(), f.compose).Run()
			require.Error(t, err)
			assert.True(t, certerrors.Is(err, certerrors.ErrConfigInvalid))
			assert.Empty(t, f.compose.calls, "no container command may run")

			_, statErr := os.Stat(filepath.Join(f.dir, "docker-compose.yml"))
			assert.True(t, os.IsNotExist(statErr), "no manifest may be written")
		})
	}
}

func TestRunWriteFailureAborts(t *testing.T) {
	f := newFixture(t)
	// A directory where the manifest should go makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(f.dir, "docker-compose.yml"), 0755))

	_, err := New(f.options(), f.compose).Run()
	require.Error(t, err)
	assert.True(t, certerrors.Is(err, certerrors.ErrIOFailed))
	assert.NotContains(t, f.compose.calls, "up")
}

func TestRunWithComposeClient(t *testing.T) {
	f := newFixture(t)
	mock := &executor.MockExecutor{}
	manifest := filepath.Join(f.dir, "docker-compose.yml")
	client := compose.NewWithExecutor("docker", manifest, mock)

	_, err := New(f.options(), client).Run()
	require.NoError(t, err)

	var lines []string
	for _, c := range mock.Calls {
		lines = append(lines, c.Name+" "+strings.Join(c.Args, " "))
	}
	prefix := "docker compose --file " + manifest + " "
	assert.Equal(t, []string{
		prefix + "up -d",
		prefix + "run --rm certbot certonly --webroot --webroot-path /var/www/certbot/ -d example.com --non-interactive --agree-tos -m a@example.com",
		prefix + "down",
		prefix + "up -d",
	}, lines)
}

func TestCleanupPrompt(t *testing.T) {
	tests := []struct {
		name        string
		mode        CleanupMode
		interactive bool
		answer      []string
		wantRemoved bool
	}{
		{"enter accepts default", CleanupAsk, true, []string{"\n"}, true},
		{"y", CleanupAsk, true, []string{"y\n"}, true},
		{"Y", CleanupAsk, true, []string{"Y\n"}, true},
		{"n keeps", CleanupAsk, true, []string{"n\n"}, false},
		{"other keeps", CleanupAsk, true, []string{"later\n"}, false},
		{"EOF keeps", CleanupAsk, true, nil, false},
		{"piped y removes", CleanupAsk, false, []string{"y\n"}, true},
		{"piped enter accepts default", CleanupAsk, false, []string{"\n"}, true},
		{"piped n keeps", CleanupAsk, false, []string{"n\n"}, false},
		{"nothing piped keeps", CleanupAsk, false, nil, false},
		{"--yes", CleanupYes, false, nil, true},
		{"--keep", CleanupKeep, true, []string{"y\n"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			opts := f.options()
			opts.Cleanup = tt.mode
			opts.Interactive = tt.interactive
			opts.Prompt = input.NewStringReader(tt.answer...)

			res, err := New(opts, f.compose).Run()
			require.NoError(t, err)

			_, statErr := os.Stat(opts.ConfigPath)
			if tt.wantRemoved {
				assert.True(t, os.IsNotExist(statErr), "config should be deleted")
				assert.Equal(t, []string{opts.ConfigPath}, res.Removed)
			} else {
				assert.NoError(t, statErr, "config should be kept")
				assert.Empty(t, res.Removed)
			}
		})
	}
}

func TestCleanupPromptText(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.Cleanup = CleanupAsk
	opts.Interactive = true
	opts.Prompt = input.NewStringReader("n\n")

	_, err := New(opts, f.compose).Run()
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "Done. Navigate to https://example.com in your browser...")
	assert.Contains(t, out, "Remove the setup files (if example.com has a valid certificate you don't need them anymore) (Y/n): ")
	assert.Contains(t, out, "0 0,12 * * * cd "+f.dir+" && docker compose run --rm certbot renew")
	assert.Contains(t, out, "don't remove any of the 'volumes' lines in docker-compose.yml")
	assert.Contains(t, out, "don't remove any of the 'ssl_cert*' lines in nginx.conf")
}

func TestCleanupPipedAnswerHasNoPrompt(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.Cleanup = CleanupAsk
	opts.Interactive = false
	opts.Prompt = input.NewStringReader("y")

	res, err := New(opts, f.compose).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{opts.ConfigPath}, res.Removed)
	assert.NotContains(t, f.out.String(), "Remove the setup files")
}

func TestSetupFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "certbot.json")

	t.Run("binary in work dir", func(t *testing.T) {
		s := New(Options{WorkDir: dir, ConfigPath: cfgPath, Executable: filepath.Join(dir, "certboot")}, &fakeCompose{})
		assert.Equal(t, []string{cfgPath, filepath.Join(dir, "certboot")}, s.SetupFiles())
	})

	t.Run("installed binary is never offered", func(t *testing.T) {
		s := New(Options{WorkDir: dir, ConfigPath: cfgPath, Executable: "/usr/local/bin/certboot"}, &fakeCompose{})
		assert.Equal(t, []string{cfgPath}, s.SetupFiles())
	})

	t.Run("sibling directory with common prefix", func(t *testing.T) {
		s := New(Options{WorkDir: dir, ConfigPath: cfgPath, Executable: dir + "-other/certboot"}, &fakeCompose{})
		assert.Equal(t, []string{cfgPath}, s.SetupFiles())
	})

	t.Run("unknown binary", func(t *testing.T) {
		s := New(Options{WorkDir: dir, ConfigPath: cfgPath}, &fakeCompose{})
		assert.Equal(t, []string{cfgPath}, s.SetupFiles())
	})
}

func TestRemovesBinaryInWorkDir(t *testing.T) {
	f := newFixture(t)
	bin := filepath.Join(f.dir, "certboot")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))

	opts := f.options()
	opts.Cleanup = CleanupYes
	opts.Executable = bin

	res, err := New(opts, f.compose).Run()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{opts.ConfigPath, bin}, res.Removed)
}

func TestRenewCronLine(t *testing.T) {
	assert.Equal(t, "0 0,12 * * * docker compose run --rm certbot renew", RenewCronLine(".", "docker"))
	assert.Equal(t, "0 0,12 * * * docker compose run --rm certbot renew", RenewCronLine("", ""))
	assert.Equal(t, "0 0,12 * * * cd /srv/proxy && podman compose run --rm certbot renew", RenewCronLine("/srv/proxy", "podman"))
}

func TestNewDefaults(t *testing.T) {
	s := New(Options{}, &fakeCompose{})
	assert.Equal(t, "docker-compose.yml", s.ManifestPath())
	assert.Equal(t, "nginx.conf", s.NginxPath())
	assert.Equal(t, []string{"certbot.json"}, s.SetupFiles())
}

func strPtr(s string) *string { return &s }
