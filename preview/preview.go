// Package preview runs generated application code in a scratch directory
// and captures its output: sanitized, tail-truncated, with full output
// offloaded to a temp file when it grows large.
package preview

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"syscall"
	"time"
)

// DefaultTimeout bounds a preview run unless overridden.
const DefaultTimeout = 2 * time.Minute

const rollingBufSize = 2 * DefaultMaxBytes

// Result is the outcome of one preview run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool

	// StdoutFile and StderrFile hold the full output when it exceeded the
	// offload threshold, or are empty.
	StdoutFile string
	StderrFile string

	StdoutTruncated bool
	StderrTruncated bool
}

// Option configures a preview run.
type Option func(*config)

type config struct {
	timeout  time.Duration
	maxLines int
	maxBytes int
}

// WithTimeout bounds the run; the process group is killed when exceeded.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithLimits overrides the tail-truncation budgets for captured output.
func WithLimits(maxLines, maxBytes int) Option {
	return func(c *config) {
		c.maxLines = maxLines
		c.maxBytes = maxBytes
	}
}

// Run executes argv in dir and captures its output. A non-zero exit code is
// reported through Result, not an error; errors are reserved for failures to
// run the command at all.
func Run(ctx context.Context, dir string, argv []string, opts ...Option) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errors.New("preview: empty command")
	}

	cfg := config{
		timeout:  DefaultTimeout,
		maxLines: DefaultMaxLines,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	cmd := osexec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	// The child may spawn its own processes; kill the whole group on cancel.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	stdout := NewOutputCollector(int64(cfg.maxBytes), rollingBufSize)
	stderr := NewOutputCollector(int64(cfg.maxBytes), rollingBufSize)
	defer stdout.Close()
	defer stderr.Close()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("preview: start command: %w", err)
	}
	waitErr := cmd.Wait()

	res := Result{}
	res.Stdout, res.StdoutTruncated, res.StdoutFile = processOutput(stdout, cfg)
	res.Stderr, res.StderrTruncated, res.StderrFile = processOutput(stderr, cfg)

	if waitErr != nil {
		var exitErr *osexec.ExitError
		realExit := errors.As(waitErr, &exitErr) && exitErr.ExitCode() >= 0
		if !realExit && ctx.Err() != nil {
			res.TimedOut = true
			res.ExitCode = -1
			return res, nil
		}
		if realExit {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
	}
	return res, nil
}

// processOutput sanitizes and truncates a collector's rolling buffer.
func processOutput(c *OutputCollector, cfg config) (content string, truncated bool, file string) {
	clean := Sanitize(string(c.Bytes()))
	tr := TruncateTail(clean, cfg.maxLines, cfg.maxBytes)
	return tr.Content, tr.Truncated, c.FilePath()
}
