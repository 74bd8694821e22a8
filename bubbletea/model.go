package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmalek/loom"
	"github.com/jmalek/loom/markdown"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the loom TUI.
type Model struct {
	// Input is the prompt input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	generate GenerateFunc
	theme    loom.Theme
	styles   Styles

	prompt   string
	segments loom.Segments
	manifest loom.Manifest

	running bool
	cancel  context.CancelFunc
	eventCh chan loom.Event
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a new TUI Model with the given generate function and theme.
func New(generate GenerateFunc, theme loom.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Describe the app to generate..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:    ti,
		generate: generate,
		theme:    theme,
		styles:   NewStyles(theme),
	}
}

// Running returns whether a generation is currently in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Segments returns the segments accumulated so far.
func (m Model) Segments() loom.Segments { return m.segments.Clone() }

// Manifest returns the resolved dependency manifest, or nil.
func (m Model) Manifest() loom.Manifest { return m.manifest.Clone() }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case GenerateDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m.Viewport.SetContent(m.renderContent())
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components. Viewport always receives
	// messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputHeight - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
		m.Viewport.SetContent(m.renderContent())
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.running && m.cancel != nil {
			m.cancel()
		}
		return m, nil

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitPrompt(text)
	}

	// When idle, pass keys to both the input (for typing) and viewport
	// (for scrolling). Only forward non-character keys to the viewport to
	// avoid conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitPrompt(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.prompt = text
	m.err = nil
	m.segments = nil
	m.manifest = nil

	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan loom.Event, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startGenerate(m.generate, ctx, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

// processEvent folds a parser event into the accumulated response.
func (m Model) processEvent(evt loom.Event) Model {
	switch e := evt.(type) {
	case loom.EventProseDelta:
		m.segments = m.segments.Clone()
		m.segments.OpenOrExtend(loom.SegmentProse, e.Delta)
	case loom.EventCodeDelta:
		m.segments = m.segments.Clone()
		m.segments.OpenOrExtend(loom.SegmentCode, e.Delta)
	case loom.EventManifestResolved:
		m.manifest = e.Manifest
	case loom.EventComplete:
		m.segments = e.Segments
		m.manifest = e.Manifest
	}
	return m
}

func (m Model) renderContent() string {
	var parts []string
	if m.prompt != "" {
		parts = append(parts, m.styles.Prompt.Render("> "+m.prompt))
	}
	if body := markdown.RenderSegments(m.segments, nil, m.Viewport.Width, m.theme); body != "" {
		parts = append(parts, body)
	}
	if footer := m.manifestFooter(); footer != "" {
		parts = append(parts, footer)
	}
	return strings.Join(parts, "\n\n")
}

// manifestFooter lists resolved dependencies in name order.
func (m Model) manifestFooter() string {
	if len(m.manifest) == 0 {
		return ""
	}
	names := make([]string, 0, len(m.manifest))
	for name := range m.manifest {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]string, 0, len(names))
	for _, name := range names {
		entries = append(entries, name+" "+m.manifest[name])
	}
	return m.styles.Manifest.Render("dependencies: " + strings.Join(entries, ", "))
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(truncateWidth(fmt.Sprintf("Error: %v", m.err), m.Viewport.Width))
	}
	if m.running {
		return m.styles.Muted.Render(truncateWidth("Generating: "+m.prompt+" (Esc to cancel)", m.Viewport.Width))
	}
	return m.styles.Muted.Render("Enter to generate, Ctrl+C to quit")
}

// startGenerate runs the generation in a goroutine and signals completion.
func startGenerate(generate GenerateFunc, ctx context.Context, prompt string, eventCh chan<- loom.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := generate(ctx, prompt, func(e loom.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the channel
// closes, it reads the error from doneCh and returns GenerateDoneMsg.
func listenForEvent(ch <-chan loom.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			err := <-doneCh
			return GenerateDoneMsg{Err: err}
		}
		return StreamEventMsg{Event: evt}
	}
}
