// Package clawhub wraps the clawdhub registry CLI.
package clawhub

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBin is the registry CLI executable.
	DefaultBin = "clawdhub"
	// DefaultTimeout bounds one CLI invocation.
	DefaultTimeout = 30 * time.Second

	defaultLimit = 20
)

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec. Arguments are passed as argv.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s timed out: %w", name, ctx.Err())
		}
		return nil, fmt.Errorf("%w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Client queries the registry through the CLI.
type Client struct {
	Bin     string
	Runner  Runner
	Timeout time.Duration
}

// New returns a Client for bin, or DefaultBin when bin is empty.
func New(bin string) *Client {
	if strings.TrimSpace(bin) == "" {
		bin = DefaultBin
	}
	return &Client{Bin: bin, Runner: ExecRunner{}, Timeout: DefaultTimeout}
}

// Trending lists trending skills.
func (c *Client) Trending(ctx context.Context, limit int) ([]Skill, error) {
	limit = normLimit(limit)
	return c.run(ctx, "trending", limit, "explore", "--limit", strconv.Itoa(limit), "--sort", "trending")
}

// Explore lists the most recently updated skills.
func (c *Client) Explore(ctx context.Context, limit int) ([]Skill, error) {
	limit = normLimit(limit)
	return c.run(ctx, "explore", limit, "explore", "--limit", strconv.Itoa(limit))
}

// Search looks skills up by text.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Skill, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("clawhub: search query is required")
	}
	limit = normLimit(limit)
	return c.run(ctx, "search", limit, "search", query, "--limit", strconv.Itoa(limit))
}

func (c *Client) run(ctx context.Context, op string, limit int, args ...string) ([]Skill, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runner := c.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	bin := c.Bin
	if bin == "" {
		bin = DefaultBin
	}

	out, err := runner.Run(ctx, bin, args...)
	if err != nil {
		return nil, fmt.Errorf("clawhub: %s: %w", op, err)
	}
	return ParseOutput(string(out), limit), nil
}

func normLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}
