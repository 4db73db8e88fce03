// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the listeners for controller updates and alerts.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, b.waitForState(), b.waitForAlert())
}
