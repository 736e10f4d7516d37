// Package compose runs docker compose against the manifest certboot writes.
//
// Every call passes --file explicitly so that relative paths inside the
// manifest (./nginx.conf, ./data) resolve against the work dir rather than
// the caller's current directory.
package compose

import (
	"strings"

	"github.com/ksyq12/certboot/internal/errors"
	"github.com/ksyq12/certboot/internal/executor"
	"github.com/ksyq12/certboot/internal/logger"
)

// Client drives one compose project
type Client struct {
	docker   string
	manifest string
	exec     executor.CommandExecutor
}

// New creates a Client for the manifest at manifestPath
func New(docker, manifestPath string) *Client {
	return NewWithExecutor(docker, manifestPath, executor.NewSystemExecutor())
}

// NewWithExecutor creates a Client with a custom executor (for testing)
func NewWithExecutor(docker, manifestPath string, exec executor.CommandExecutor) *Client {
	if docker == "" {
		docker = "docker"
	}
	return &Client{docker: docker, manifest: manifestPath, exec: exec}
}

// Available reports whether the docker binary can be found
func (c *Client) Available() bool {
	_, err := c.exec.LookPath(c.docker)
	return err == nil
}

// Up starts the services in detached mode
func (c *Client) Up() error {
	return c.stream("up", "-d")
}

// Down stops and removes the services
func (c *Client) Down() error {
	return c.stream("down")
}

// Run runs a one-off command in service and removes the container afterwards
func (c *Client) Run(service string, args ...string) error {
	return c.stream(append([]string{"run", "--rm", service}, args...)...)
}

// Config asks compose to parse and validate the manifest
func (c *Client) Config() error {
	out, err := c.exec.Execute(c.docker, c.args("config", "--quiet")...)
	if err != nil {
		return errors.Command(c.docker+" compose config", out, err)
	}
	return nil
}

func (c *Client) args(sub ...string) []string {
	return append([]string{"compose", "--file", c.manifest}, sub...)
}

func (c *Client) stream(sub ...string) error {
	args := c.args(sub...)
	logger.Debug("exec: %s %s", c.docker, strings.Join(args, " "))
	if err := c.exec.Stream(c.docker, args...); err != nil {
		return errors.Command(c.docker+" compose "+sub[0], nil, err)
	}
	return nil
}
