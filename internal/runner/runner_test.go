package runner_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/programme-lv/answers/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
}

func TestExecCombinesOutput(t *testing.T) {
	skipOnWindows(t)
	r := &runner.Exec{}
	out, err := r.Run(context.Background(), []string{"/bin/sh", "-c", "echo out; echo err 1>&2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "out\nerr\n", string(out))
}

func TestExecFeedsStdin(t *testing.T) {
	skipOnWindows(t)
	r := &runner.Exec{}
	out, err := r.Run(context.Background(), []string{"/bin/sh", "-c", "cat"}, []byte("3 4\n"))
	require.NoError(t, err)
	assert.Equal(t, "3 4\n", string(out))
}

func TestExecNonZeroExitIsNotAnError(t *testing.T) {
	skipOnWindows(t)
	r := &runner.Exec{}
	out, err := r.Run(context.Background(), []string{"/bin/sh", "-c", "echo boom; exit 3"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "boom\n", string(out))
}

func TestExecSpawnFailure(t *testing.T) {
	r := &runner.Exec{}
	_, err := r.Run(context.Background(), []string{"/nonexistent/runtime/java"}, nil)
	assert.Error(t, err)

	_, err = r.Run(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestExecCancelled(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&runner.Exec{}).Run(ctx, []string{"/bin/sh", "-c", "sleep 5"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecCancelWithGrandchildHoldingOutput(t *testing.T) {
	skipOnWindows(t)
	r := &runner.Exec{WaitDelay: 200 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, []string{"/bin/sh", "-c", "sleep 5 & sleep 5"}, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}
