package preview_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmalek/loom/preview"
)

func TestTruncateTail(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		tr := preview.TruncateTail("", 10, 100)
		assert.Equal(t, "", tr.Content)
		assert.False(t, tr.Truncated)
	})

	t.Run("within limits passes through", func(t *testing.T) {
		t.Parallel()
		tr := preview.TruncateTail("a\nb\nc\n", 10, 100)
		assert.Equal(t, "a\nb\nc\n", tr.Content)
		assert.False(t, tr.Truncated)
		assert.Equal(t, 3, tr.TotalLines)
		assert.Equal(t, 3, tr.OutputLines)
	})

	t.Run("keeps last maxLines lines", func(t *testing.T) {
		t.Parallel()
		tr := preview.TruncateTail("1\n2\n3\n4\n5\n", 2, 1000)
		assert.Equal(t, "4\n5\n", tr.Content)
		assert.True(t, tr.Truncated)
		assert.Equal(t, "lines", tr.TruncatedBy)
		assert.Equal(t, 5, tr.TotalLines)
		assert.Equal(t, 2, tr.OutputLines)
	})

	t.Run("byte limit hit before line limit", func(t *testing.T) {
		t.Parallel()
		input := strings.Repeat("aaaaaaaaa\n", 10) // 100 bytes, 10 lines
		tr := preview.TruncateTail(input, 10, 25)
		assert.True(t, tr.Truncated)
		assert.Equal(t, "bytes", tr.TruncatedBy)
		assert.LessOrEqual(t, len(tr.Content), 25)
		assert.True(t, strings.HasSuffix(tr.Content, "aaaaaaaaa\n"))
	})

	t.Run("single oversized line keeps its tail", func(t *testing.T) {
		t.Parallel()
		tr := preview.TruncateTail(strings.Repeat("x", 100), 10, 20)
		assert.Equal(t, strings.Repeat("x", 20), tr.Content)
		assert.True(t, tr.Truncated)
		assert.True(t, tr.LastLinePartial)
		assert.Equal(t, 1, tr.OutputLines)
	})

	t.Run("final line without trailing newline counts as a line", func(t *testing.T) {
		t.Parallel()
		tr := preview.TruncateTail("a\nb\nc", 2, 1000)
		assert.Equal(t, "b\nc", tr.Content)
		assert.Equal(t, 3, tr.TotalLines)
	})

	t.Run("trailing newline preserved on truncation", func(t *testing.T) {
		t.Parallel()
		tr := preview.TruncateTail("1\n2\n3\n", 1, 1000)
		assert.Equal(t, "3\n", tr.Content)
	})
}
