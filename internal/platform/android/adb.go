package android

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mj1618/autotap/internal/platform"
)

const defaultCommandTimeout = 10 * time.Second

// Runner executes a host command and returns its stdout.
// The exec-based runner is used in production; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

// Client runs adb commands against one device.
type Client struct {
	path    string
	serial  string
	timeout time.Duration
	runner  Runner
}

// NewClient resolves the adb binary and returns a client for the device
// selected by opts.Serial.
func NewClient(opts platform.Options) (*Client, error) {
	path := opts.ADBPath
	if path == "" {
		found, err := exec.LookPath("adb")
		if err != nil {
			return nil, fmt.Errorf("adb not found on PATH: install Android platform-tools or pass --adb")
		}
		path = found
	}
	return newClient(path, opts.Serial, opts.CommandTimeout, execRunner{}), nil
}

func newClient(path, serial string, timeout time.Duration, runner Runner) *Client {
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	return &Client{path: path, serial: serial, timeout: timeout, runner: runner}
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	full := make([]string, 0, len(args)+2)
	if c.serial != "" {
		full = append(full, "-s", c.serial)
	}
	full = append(full, args...)
	out, err := c.runner.Run(ctx, c.path, full...)
	if err != nil {
		return out, fmt.Errorf("adb %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// Shell runs a command line in the device shell. The command is passed as a
// single argument so shell operators (&&, >) are interpreted on the device.
func (c *Client) Shell(ctx context.Context, command string) (string, error) {
	out, err := c.run(ctx, "shell", command)
	return strings.ReplaceAll(string(out), "\r\n", "\n"), err
}

// ExecOut runs a device command with a binary-safe stdout.
func (c *Client) ExecOut(ctx context.Context, args ...string) ([]byte, error) {
	return c.run(ctx, append([]string{"exec-out"}, args...)...)
}
