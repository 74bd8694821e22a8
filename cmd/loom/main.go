// Command loom turns a prompt into runnable application code by streaming
// an LLM response through the segment parser.
//
// Usage:
//
//	ANTHROPIC_API_KEY=sk-... loom [flags] [prompt]
//	GEMINI_API_KEY=gk-...   loom [flags] [prompt]
//
// Flags:
//
//	-provider string      Provider: anthropic, gemini (auto-detected from env vars if omitted)
//	-model string         Model ID (default: provider default)
//	-api-key string       API key (overrides provider's env var)
//	-out string           Path to save the response document as JSON
//	-project string       Directory to export code segments into
//	-plain                Stream to stdout instead of running the TUI (prompt argument required)
//	-system-prompt string Path to system prompt file (default: .loom/prompt.md)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jmalek/loom"
	bt "github.com/jmalek/loom/bubbletea"
	"github.com/jmalek/loom/gen"
	loomjson "github.com/jmalek/loom/json"
	"github.com/jmalek/loom/project"
)

const defaultPromptPath = ".loom/prompt.md"

// defaultSystemPrompt sets the response conventions the parser expects: an
// optional leading JSON dependency object, then prose and fenced code.
const defaultSystemPrompt = `You generate complete, runnable application code.
If the app needs third-party packages, start your response with a single JSON
object mapping package names to version specifiers, before any other text.
Put all code in fenced code blocks tagged with the language.`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "loom: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		providerFlag = flag.String("provider", "", "Provider: anthropic, gemini (auto-detected from env vars if omitted)")
		model        = flag.String("model", "", "Model ID (provider-specific)")
		apiKey       = flag.String("api-key", "", "API key (overrides provider's env var)")
		outPath      = flag.String("out", "", "Path to save the response document as JSON")
		projectDir   = flag.String("project", "", "Directory to export code segments into")
		plain        = flag.Bool("plain", false, "Stream to stdout instead of running the TUI")
		promptPath   = flag.String("system-prompt", defaultPromptPath, "Path to system prompt file")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider, err := resolveProvider(ctx, *providerFlag, *apiKey,
		os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return err
	}

	systemPrompt, err := loadSystemPrompt(*promptPath)
	if err != nil {
		return err
	}

	var opts []gen.RunOption
	if *model != "" {
		opts = append(opts, gen.WithModel(*model))
	}

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if *plain {
		if prompt == "" {
			return errors.New("prompt argument required with -plain")
		}
		return runPlain(ctx, provider, prompt, systemPrompt, *outPath, *projectDir, opts)
	}
	return runTUI(ctx, provider, systemPrompt, *outPath, *projectDir, opts)
}

func runPlain(ctx context.Context, provider loom.Provider, prompt, systemPrompt, outPath, projectDir string, opts []gen.RunOption) error {
	p := loom.NewParser(loom.WithEventHandler(func(e loom.Event) {
		switch e := e.(type) {
		case loom.EventProseDelta:
			fmt.Print(e.Delta)
		case loom.EventCodeDelta:
			fmt.Print(e.Delta)
		case loom.EventManifestResolved:
			fmt.Fprintf(os.Stderr, "dependencies: %s\n", formatManifest(e.Manifest))
		}
	}))

	resp, runErr := gen.Run(ctx, provider, p, loom.Request{
		SystemPrompt: systemPrompt,
		Prompt:       prompt,
	}, opts...)
	fmt.Println()

	// The parser finalizes even on stream errors, so a partial response is
	// still worth saving.
	if err := saveOutputs(outPath, projectDir, prompt, resp, p.Languages()); err != nil {
		if runErr != nil {
			return errors.Join(runErr, err)
		}
		return err
	}
	return runErr
}

func runTUI(ctx context.Context, provider loom.Provider, systemPrompt, outPath, projectDir string, opts []gen.RunOption) error {
	var (
		mu         sync.Mutex
		lastPrompt string
		lastResp   loom.Response
		lastLangs  []string
		haveResp   bool
	)

	generate := func(ctx context.Context, prompt string, onEvent func(loom.Event)) error {
		p := loom.NewParser(loom.WithEventHandler(onEvent))
		resp, err := gen.Run(ctx, provider, p, loom.Request{
			SystemPrompt: systemPrompt,
			Prompt:       prompt,
		}, opts...)

		mu.Lock()
		lastPrompt = prompt
		lastResp = resp
		lastLangs = p.Languages()
		haveResp = true
		mu.Unlock()
		return err
	}

	if err := bt.Run(ctx, bt.New(generate, loom.DefaultTheme())); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !haveResp {
		return nil
	}
	return saveOutputs(outPath, projectDir, lastPrompt, lastResp, lastLangs)
}

func saveOutputs(outPath, projectDir, prompt string, resp loom.Response, langs []string) error {
	if outPath != "" {
		if err := loomjson.Save(outPath, newDocument(prompt, resp)); err != nil {
			return fmt.Errorf("save document: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Document saved to %s\n", outPath)
	}
	if projectDir != "" {
		written, err := project.Export(projectDir, resp, langs)
		if err != nil {
			return fmt.Errorf("export project: %w", err)
		}
		if len(written) > 0 {
			fmt.Fprintf(os.Stderr, "Exported %s to %s\n", strings.Join(written, ", "), projectDir)
		}
	}
	return nil
}

func newDocument(prompt string, resp loom.Response) loom.Document {
	now := time.Now()
	return loom.Document{
		ID:        fmt.Sprintf("%d", now.UnixNano()),
		Title:     titleFromPrompt(prompt),
		Prompt:    prompt,
		CreatedAt: now,
		UpdatedAt: now,
		Response:  resp,
	}
}

// titleFromPrompt uses the prompt's first line, truncated, as the document
// title.
func titleFromPrompt(prompt string) string {
	title, _, _ := strings.Cut(prompt, "\n")
	if len(title) > 60 {
		title = title[:60]
	}
	return strings.TrimSpace(title)
}

// loadSystemPrompt reads the system prompt file. A missing file at the
// default path falls back to the built-in prompt; any other error fails.
func loadSystemPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return string(data), nil
	case errors.Is(err, os.ErrNotExist) && path == defaultPromptPath:
		return defaultSystemPrompt, nil
	default:
		return "", fmt.Errorf("read system prompt: %w", err)
	}
}

func formatManifest(m loom.Manifest) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]string, 0, len(names))
	for _, name := range names {
		entries = append(entries, name+"@"+m[name])
	}
	return strings.Join(entries, ", ")
}
