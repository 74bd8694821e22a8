package bubbletea

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// SetRunning is a test helper that puts the model in a running state.
func SetRunning(m Model) Model {
	m.running = true
	return m
}

// SetRunningWithCancel is a test helper that puts the model in a running
// state with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) Model {
	m.running = true
	m.cancel = cancel
	return m
}

// TruncateWidth exports truncateWidth for testing.
func TruncateWidth(s string, maxWidth int) string {
	return truncateWidth(s, maxWidth)
}
