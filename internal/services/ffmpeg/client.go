package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

// ErrNotFound indicates the ffmpeg binary could not be resolved.
var ErrNotFound = errors.New("ffmpeg not found")

// Client defines ffmpeg invocation behaviour.
type Client interface {
	Run(ctx context.Context, args []string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithLogDir enables persisting ffmpeg output to a log file when an
// invocation fails.
func WithLogDir(dir string) Option {
	return func(c *CLI) {
		c.logDir = strings.TrimSpace(dir)
	}
}

// WithTimeout caps the runtime of a single invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary  string
	logDir  string
	timeout time.Duration
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Binary returns the configured ffmpeg binary.
func (c *CLI) Binary() string {
	return c.binary
}

// Run executes ffmpeg with the given arguments. Output is captured and, on
// failure, persisted under the log directory so the noisy encoder output
// never reaches the terminal on the success path.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("ffmpeg: no arguments")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	full := append([]string{"-hide_banner", "-y"}, args...)
	cmd := commandContext(ctx, c.binary, full...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: install ffmpeg or set ffmpeg.binary", ErrNotFound)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg: %w", ctx.Err())
		}
		detail := tail(output.String(), 3)
		if logPath, logErr := c.persistLog(output.Bytes()); logErr == nil && logPath != "" {
			return fmt.Errorf("ffmpeg: %w: %s (full output: %s)", err, detail, logPath)
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, detail)
	}
	return nil
}

func (c *CLI) persistLog(output []byte) (string, error) {
	if c.logDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(c.logDir, fmt.Sprintf("ffmpeg-%s.log", time.Now().UTC().Format("20060102-150405.000")))
	if err := os.WriteFile(path, output, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// tail returns the last n non-empty lines of s joined with "; ".
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		kept = append([]string{line}, kept...)
	}
	if len(kept) == 0 {
		return "(no output)"
	}
	return strings.Join(kept, "; ")
}

var _ Client = (*CLI)(nil)
