// Package format beautifies submitted source code with an external tool.
package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Formatter rewrites source code. Implementations may fail; callers that
// must not fail use BestEffort.
type Formatter interface {
	Format(ctx context.Context, code string) (string, error)
}

// Func adapts a function to Formatter.
type Func func(ctx context.Context, code string) (string, error)

func (f Func) Format(ctx context.Context, code string) (string, error) { return f(ctx, code) }

// Nop returns code unchanged.
type Nop struct{}

func (Nop) Format(_ context.Context, code string) (string, error) { return code, nil }

// BestEffort formats code with f and returns the original code on any failure.
func BestEffort(ctx context.Context, f Formatter, code string) string {
	if f == nil {
		return code
	}
	out, err := f.Format(ctx, code)
	if err != nil {
		return code
	}
	return out
}

// DefaultAstyleOptions give brace-on-same-line style, no blank lines and
// two-space indentation.
var DefaultAstyleOptions = []string{
	"--style=google",
	"--delete-empty-lines",
	"--indent=spaces=2",
}

// Astyle runs Artistic Style over stdin.
type Astyle struct {
	Path    string
	Options []string
}

func NewAstyle(path string) *Astyle {
	if path == "" {
		path = "astyle"
	}
	return &Astyle{Path: path, Options: DefaultAstyleOptions}
}

func (a *Astyle) Format(ctx context.Context, code string) (string, error) {
	cmd := exec.CommandContext(ctx, a.Path, a.Options...)
	cmd.Stdin = strings.NewReader(code)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stderr.Len() > 0 {
			return "", fmt.Errorf("astyle: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("astyle: %w", err)
	}

	res := strings.TrimSpace(string(out))
	if res == "" && strings.TrimSpace(code) != "" {
		return "", errors.New("astyle: empty output")
	}
	return res, nil
}

// Version reports the astyle version string; used by health checks.
func (a *Astyle) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, a.Path, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("astyle --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
