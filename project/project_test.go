package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmalek/loom"
	"github.com/jmalek/loom/project"
)

func TestExport(t *testing.T) {
	t.Parallel()

	t.Run("single code segment becomes app file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		resp := loom.Response{
			Segments: loom.Segments{
				{Kind: loom.SegmentProse, Content: "Here is the app.\n"},
				{Kind: loom.SegmentCode, Content: "console.log('hi')\n"},
			},
		}

		written, err := project.Export(root, resp, []string{"js"})
		require.NoError(t, err)
		assert.Equal(t, []string{"app.js"}, written)

		data, err := os.ReadFile(filepath.Join(root, "app.js"))
		require.NoError(t, err)
		assert.Equal(t, "console.log('hi')\n", string(data))
	})

	t.Run("multiple code segments are numbered", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		resp := loom.Response{
			Segments: loom.Segments{
				{Kind: loom.SegmentCode, Content: "a\n"},
				{Kind: loom.SegmentProse, Content: "and then\n"},
				{Kind: loom.SegmentCode, Content: "b\n"},
			},
		}

		written, err := project.Export(root, resp, []string{"python", "html"})
		require.NoError(t, err)
		assert.Equal(t, []string{"app_1.py", "app_2.html"}, written)
	})

	t.Run("missing language tags fall back to txt", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		resp := loom.Response{
			Segments: loom.Segments{{Kind: loom.SegmentCode, Content: "data\n"}},
		}

		written, err := project.Export(root, resp, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"app.txt"}, written)
	})

	t.Run("dependencies written as json", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		resp := loom.Response{
			Segments:     loom.Segments{{Kind: loom.SegmentCode, Content: "x\n"}},
			Dependencies: loom.Manifest{"react": "^18.0.0"},
		}

		written, err := project.Export(root, resp, []string{"jsx"})
		require.NoError(t, err)
		assert.Contains(t, written, "dependencies.json")

		data, err := os.ReadFile(filepath.Join(root, "dependencies.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"react": "^18.0.0"`)
	})

	t.Run("prose-only response writes nothing", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		resp := loom.Response{
			Segments: loom.Segments{{Kind: loom.SegmentProse, Content: "just words\n"}},
		}

		written, err := project.Export(root, resp, nil)
		require.NoError(t, err)
		assert.Empty(t, written)

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("creates root directory", func(t *testing.T) {
		t.Parallel()
		root := filepath.Join(t.TempDir(), "nested", "out")
		resp := loom.Response{
			Segments: loom.Segments{{Kind: loom.SegmentCode, Content: "x\n"}},
		}

		_, err := project.Export(root, resp, nil)
		require.NoError(t, err)
		assert.DirExists(t, root)
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		resp := loom.Response{
			Segments:     loom.Segments{{Kind: loom.SegmentCode, Content: "x\n"}},
			Dependencies: loom.Manifest{"vue": "^3.0.0"},
		}

		_, err := project.Export(root, resp, nil)
		require.NoError(t, err)

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".tmp")
		}
	})
}

func TestExtensionForLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang string
		want string
	}{
		{"go", ".go"},
		{"javascript", ".js"},
		{"JS", ".js"},
		{"typescript", ".ts"},
		{"tsx", ".tsx"},
		{"python", ".py"},
		{"html", ".html"},
		{"bash", ".sh"},
		{"", ".txt"},
		{"brainfuck", ".txt"},
	}

	for _, tt := range tests {
		t.Run("lang "+tt.lang, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, project.ExtensionForLanguage(tt.lang))
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) string {
		t.Helper()
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o700))
		for _, name := range []string{"app.js", "index.html", "src/util.js"} {
			require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o600))
		}
		return root
	}

	t.Run("recursive pattern matches nested files", func(t *testing.T) {
		t.Parallel()
		root := setup(t)

		matches, err := project.List(root, "**/*.js", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"app.js", filepath.Join("src", "util.js")}, matches)
	})

	t.Run("results are sorted", func(t *testing.T) {
		t.Parallel()
		root := setup(t)

		matches, err := project.List(root, "**/*", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"app.js", "index.html", filepath.Join("src", "util.js")}, matches)
	})

	t.Run("limit bounds results", func(t *testing.T) {
		t.Parallel()
		root := setup(t)

		matches, err := project.List(root, "**/*", 2)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("directories are excluded", func(t *testing.T) {
		t.Parallel()
		root := setup(t)

		matches, err := project.List(root, "**/*", 0)
		require.NoError(t, err)
		assert.NotContains(t, matches, "src")
	})

	t.Run("invalid pattern is an error", func(t *testing.T) {
		t.Parallel()
		_, err := project.List(t.TempDir(), "[", 0)
		assert.Error(t, err)
	})

	t.Run("missing root is an error", func(t *testing.T) {
		t.Parallel()
		_, err := project.List("/definitely/missing/root", "**/*", 0)
		assert.Error(t, err)
	})

	t.Run("no matches returns empty", func(t *testing.T) {
		t.Parallel()
		matches, err := project.List(t.TempDir(), "**/*.go", 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}
