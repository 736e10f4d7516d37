package config

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/ksyq12/certboot/internal/errors"
)

// DefaultFile is the configuration file name looked up in the work dir
const DefaultFile = "certbot.json"

// Config is the provisioning input. It is loaded once and passed by value.
type Config struct {
	Domain       string `json:"domain"`
	Email        string `json:"email"`
	NginxImage   string `json:"nginx_image"`
	VolumePrefix string `json:"volume_prefix"`
}

// RequiredKeys lists the keys that must be present in the JSON file
func RequiredKeys() []string {
	return []string{"domain", "email", "nginx_image", "volume_prefix"}
}

// Load reads and parses the configuration file at path.
// Every required key must be present; values are not checked.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, "failed to read config", err)
	}
	return Parse(data)
}

// Parse decodes configuration JSON
func Parse(data []byte) (Config, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, "failed to parse config", err)
	}

	for _, key := range RequiredKeys() {
		if _, ok := raw[key]; !ok {
			return Config{}, errors.MissingKey(key)
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, "failed to parse config", err)
	}
	return cfg, nil
}

// Example returns the sample configuration shown in help text
func Example() Config {
	return Config{
		Domain:       "example.com",
		Email:        "certbot@example.com",
		NginxImage:   "nginx:latest",
		VolumePrefix: "./data",
	}
}

// Validate applies the opt-in field checks. The run command never calls it.
// It returns one error per failing field, in RequiredKeys order.
func (c Config) Validate() []error {
	var errs []error
	if err := validateDomain(c.Domain); err != nil {
		errs = append(errs, errors.Validation("domain", err.Error()))
	}
	if err := validateEmail(c.Email); err != nil {
		errs = append(errs, errors.Validation("email", err.Error()))
	}
	if strings.TrimSpace(c.NginxImage) == "" {
		errs = append(errs, errors.Validation("nginx_image", "cannot be empty"))
	} else if strings.ContainsAny(c.NginxImage, " \t\n") {
		errs = append(errs, errors.Validation("nginx_image", "cannot contain whitespace"))
	}
	if strings.TrimSpace(c.VolumePrefix) == "" {
		errs = append(errs, errors.Validation("volume_prefix", "cannot be empty"))
	}
	return errs
}

func validateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("cannot be empty")
	}
	if len(domain) > 253 {
		return fmt.Errorf("longer than 253 characters")
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return fmt.Errorf("must be a fully-qualified name")
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return fmt.Errorf("label %q must be 1-63 characters", label)
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return fmt.Errorf("label %q cannot start or end with hyphen", label)
		}
		for _, r := range label {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
				return fmt.Errorf("label %q contains invalid character %q", label, r)
			}
		}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("not a valid address")
	}
	if addr.Address != email {
		return fmt.Errorf("must be a bare address without display name")
	}
	return nil
}
