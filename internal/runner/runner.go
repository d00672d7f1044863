// Package runner spawns the external runtime that executes submissions.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// Runner runs argv with stdin and returns everything the process wrote to
// stdout and stderr, interleaved as written. A process that exits with a
// non-zero status is not an error.
type Runner interface {
	Run(ctx context.Context, argv []string, stdin []byte) ([]byte, error)
}

// Exec runs commands as local processes.
type Exec struct {
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env replaces the environment when non-nil.
	Env []string
	// WaitDelay bounds how long Run waits for the output pipes after the
	// process was killed; zero means DefaultWaitDelay.
	WaitDelay time.Duration
	Logger    *slog.Logger
}

// DefaultWaitDelay lets Run return after cancellation even when a grandchild
// still holds stdout open.
const DefaultWaitDelay = 2 * time.Second

func (e *Exec) Run(ctx context.Context, argv []string, stdin []byte) ([]byte, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.Dir
	cmd.Env = e.Env
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}
	cmd.Stdin = bytes.NewReader(stdin)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	logger.Debug("running process", "argv", argv, "stdin_bytes", len(stdin))
	err := cmd.Run()
	if ctx.Err() != nil {
		return out.Bytes(), ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug("process exited", "argv", argv, "exit_code", exitErr.ExitCode())
		return out.Bytes(), nil
	}
	if err != nil {
		return out.Bytes(), fmt.Errorf("run %s: %w", argv[0], err)
	}
	return out.Bytes(), nil
}
