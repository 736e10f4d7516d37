package ssl

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type recordingRunner struct {
	service string
	args    []string
	err     error
}

func (r *recordingRunner) Run(service string, args ...string) error {
	r.service = service
	r.args = args
	return r.err
}

func TestGetCertPaths(t *testing.T) {
	tests := []struct {
		domain   string
		certPath string
		keyPath  string
	}{
		{"example.com", "/etc/nginx/ssl/live/example.com/fullchain.pem", "/etc/nginx/ssl/live/example.com/privkey.pem"},
		{"a/../b.com", "/etc/nginx/ssl/live/a/../b.com/fullchain.pem", "/etc/nginx/ssl/live/a/../b.com/privkey.pem"},
		{"", "/etc/nginx/ssl/live//fullchain.pem", "/etc/nginx/ssl/live//privkey.pem"},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			cert := GetCertPaths(tt.domain)
			if cert.Domain != tt.domain {
				t.Errorf("expected domain %q, got %q", tt.domain, cert.Domain)
			}
			if cert.CertPath != tt.certPath {
				t.Errorf("unexpected cert path: %s", cert.CertPath)
			}
			if cert.KeyPath != tt.keyPath {
				t.Errorf("unexpected key path: %s", cert.KeyPath)
			}
		})
	}
}

func TestCertonlyArgs(t *testing.T) {
	tests := []struct {
		name   string
		dryRun bool
		want   string
	}{
		{
			name: "real issuance",
			want: "certonly --webroot --webroot-path /var/www/certbot/ -d example.com --non-interactive --agree-tos -m a@example.com",
		},
		{
			name:   "dry run",
			dryRun: true,
			want:   "certonly --webroot --webroot-path /var/www/certbot/ --dry-run -d example.com --non-interactive --agree-tos -m a@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(CertonlyArgs("example.com", "a@example.com", tt.dryRun), " ")
			if got != tt.want {
				t.Errorf("CertonlyArgs() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestRenewArgs(t *testing.T) {
	if got := RenewArgs(false); !reflect.DeepEqual(got, []string{"renew"}) {
		t.Errorf("unexpected args: %v", got)
	}
	if got := RenewArgs(true); !reflect.DeepEqual(got, []string{"renew", "--dry-run"}) {
		t.Errorf("unexpected args: %v", got)
	}
}

func TestCertbotIssue(t *testing.T) {
	t.Run("successful issue", func(t *testing.T) {
		runner := &recordingRunner{}
		cert, err := NewCertbot(runner).Issue("example.com", "a@example.com", false)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if runner.service != "certbot" {
			t.Errorf("expected certbot service, got %s", runner.service)
		}
		if runner.args[0] != "certonly" {
			t.Errorf("expected certonly subcommand, got %v", runner.args)
		}
		if cert.CertPath != "/etc/nginx/ssl/live/example.com/fullchain.pem" {
			t.Errorf("unexpected cert path: %s", cert.CertPath)
		}
	})

	t.Run("certbot fails", func(t *testing.T) {
		runner := &recordingRunner{err: errors.New("exit status 1")}
		cert, err := NewCertbot(runner).Issue("example.com", "a@example.com", true)
		if err == nil {
			t.Error("Issue should fail when certbot fails")
		}
		if cert != nil {
			t.Error("expected no cert on failure")
		}
	})
}

func TestCertbotRenew(t *testing.T) {
	runner := &recordingRunner{}
	if err := NewCertbot(runner).Renew(true); err != nil {
		t.Fatalf("Renew failed: %v", err)
	}
	if runner.service != "certbot" || !reflect.DeepEqual(runner.args, []string{"renew", "--dry-run"}) {
		t.Errorf("unexpected invocation: %s %v", runner.service, runner.args)
	}

	runner.err = errors.New("exit status 1")
	if err := NewCertbot(runner).Renew(false); err == nil {
		t.Error("Renew should fail when certbot fails")
	}
}
