package compose

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ksyq12/certboot/internal/errors"
)

// Manifest is the subset of a compose file certboot cares about
type Manifest struct {
	Version  string             `yaml:"version"`
	Services map[string]Service `yaml:"services"`
}

// Service is one entry under services:
type Service struct {
	Image   string   `yaml:"image"`
	Ports   []string `yaml:"ports"`
	Restart string   `yaml:"restart"`
	Volumes []string `yaml:"volumes"`
}

// ParseManifest decodes a compose file
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to parse compose manifest", err)
	}
	return &m, nil
}

// ServiceNames returns the service names in sorted order
func (m *Manifest) ServiceNames() []string {
	names := make([]string, 0, len(m.Services))
	for name := range m.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
