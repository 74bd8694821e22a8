// Package bubbletea provides a Bubble Tea TUI for streaming a generated
// response: a prompt input, a scrollable viewport showing prose and code
// segments as they arrive, and a dependency footer once the manifest
// resolves.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmalek/loom"
)

// GenerateFunc runs one generation. The onEvent callback receives each
// parser event. The function blocks until the stream completes or the
// context is cancelled.
type GenerateFunc func(ctx context.Context, prompt string, onEvent func(loom.Event)) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown — when
// cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a parser event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event loom.Event
}

// GenerateDoneMsg signals that the generation has completed.
type GenerateDoneMsg struct {
	Err error
}
