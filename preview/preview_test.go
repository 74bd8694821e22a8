package preview_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmalek/loom/preview"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("captures stdout and exit code", func(t *testing.T) {
		t.Parallel()
		res, err := preview.Run(context.Background(), t.TempDir(),
			[]string{"sh", "-c", "echo hello"})
		require.NoError(t, err)
		assert.Equal(t, "hello\n", res.Stdout)
		assert.Equal(t, 0, res.ExitCode)
		assert.False(t, res.TimedOut)
	})

	t.Run("captures stderr separately", func(t *testing.T) {
		t.Parallel()
		res, err := preview.Run(context.Background(), t.TempDir(),
			[]string{"sh", "-c", "echo out; echo err >&2"})
		require.NoError(t, err)
		assert.Equal(t, "out\n", res.Stdout)
		assert.Equal(t, "err\n", res.Stderr)
	})

	t.Run("non-zero exit code is not an error", func(t *testing.T) {
		t.Parallel()
		res, err := preview.Run(context.Background(), t.TempDir(),
			[]string{"sh", "-c", "exit 3"})
		require.NoError(t, err)
		assert.Equal(t, 3, res.ExitCode)
	})

	t.Run("runs in the given directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(dir+"/marker.txt", []byte("here\n"), 0o600))

		res, err := preview.Run(context.Background(), dir,
			[]string{"sh", "-c", "cat marker.txt"})
		require.NoError(t, err)
		assert.Equal(t, "here\n", res.Stdout)
	})

	t.Run("timeout kills the process", func(t *testing.T) {
		t.Parallel()
		start := time.Now()
		res, err := preview.Run(context.Background(), t.TempDir(),
			[]string{"sh", "-c", "echo started; sleep 30"},
			preview.WithTimeout(200*time.Millisecond))
		require.NoError(t, err)
		assert.True(t, res.TimedOut)
		assert.Contains(t, res.Stdout, "started")
		assert.Less(t, time.Since(start), 10*time.Second)
	})

	t.Run("output is sanitized", func(t *testing.T) {
		t.Parallel()
		res, err := preview.Run(context.Background(), t.TempDir(),
			[]string{"sh", "-c", `printf '\033[31mred\033[0m\n'`})
		require.NoError(t, err)
		assert.Equal(t, "red\n", res.Stdout)
	})

	t.Run("output is tail truncated", func(t *testing.T) {
		t.Parallel()
		res, err := preview.Run(context.Background(), t.TempDir(),
			[]string{"sh", "-c", "seq 1 100"},
			preview.WithLimits(5, 10_000))
		require.NoError(t, err)
		assert.True(t, res.StdoutTruncated)
		assert.Equal(t, "96\n97\n98\n99\n100\n", res.Stdout)
	})

	t.Run("empty command is an error", func(t *testing.T) {
		t.Parallel()
		_, err := preview.Run(context.Background(), t.TempDir(), nil)
		assert.Error(t, err)
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		t.Parallel()
		_, err := preview.Run(context.Background(), t.TempDir(),
			[]string{"definitely-not-a-real-binary-zzz"})
		assert.Error(t, err)
	})
}
