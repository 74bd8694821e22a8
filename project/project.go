// Package project exports a generated response to files on disk and lists
// them for publishing.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmalek/loom"
)

// Export writes the response's code segments under root, one file per
// segment, and a dependencies.json when the manifest is non-empty. langs
// supplies language tags in fence-open order and decides file extensions;
// it may be shorter than the number of code segments, or nil. Returns the
// paths written, relative to root.
func Export(root string, resp loom.Response, langs []string) ([]string, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("project: create root: %w", err)
	}

	var code []loom.Segment
	for _, seg := range resp.Segments {
		if seg.Kind == loom.SegmentCode {
			code = append(code, seg)
		}
	}

	var written []string
	for i, seg := range code {
		lang := ""
		if i < len(langs) {
			lang = langs[i]
		}
		name := fileName(i, len(code), lang)
		if err := writeAtomic(filepath.Join(root, name), []byte(seg.Content), 0o600); err != nil {
			return written, err
		}
		written = append(written, name)
	}

	if len(resp.Dependencies) > 0 {
		data, err := json.MarshalIndent(resp.Dependencies, "", "  ")
		if err != nil {
			return written, fmt.Errorf("project: marshal dependencies: %w", err)
		}
		if err := writeAtomic(filepath.Join(root, "dependencies.json"), append(data, '\n'), 0o600); err != nil {
			return written, err
		}
		written = append(written, "dependencies.json")
	}

	return written, nil
}

// fileName names the i-th of n code files: a single file is app.ext,
// multiple files are numbered app_1.ext, app_2.ext, ...
func fileName(i, n int, lang string) string {
	ext := ExtensionForLanguage(lang)
	if n == 1 {
		return "app" + ext
	}
	return fmt.Sprintf("app_%d%s", i+1, ext)
}

// writeAtomic writes via a temp file in the same directory plus rename, so
// a partially written file is never observable under its final name.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("project: write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("project: rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ExtensionForLanguage maps a fence language tag to a file extension.
// Unknown or empty tags map to .txt.
func ExtensionForLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case "go", "golang":
		return ".go"
	case "javascript", "js", "jsx":
		return ".js"
	case "typescript", "ts":
		return ".ts"
	case "tsx":
		return ".tsx"
	case "python", "py":
		return ".py"
	case "ruby", "rb":
		return ".rb"
	case "rust", "rs":
		return ".rs"
	case "java":
		return ".java"
	case "c":
		return ".c"
	case "cpp", "c++":
		return ".cpp"
	case "html":
		return ".html"
	case "css":
		return ".css"
	case "json":
		return ".json"
	case "yaml", "yml":
		return ".yaml"
	case "sql":
		return ".sql"
	case "bash", "sh", "shell", "zsh":
		return ".sh"
	case "markdown", "md":
		return ".md"
	default:
		return ".txt"
	}
}
