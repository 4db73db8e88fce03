// Package ui provides ephemeral terminal notices rendered beside the main view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Lifetime is how long a notice stays visible.
const Lifetime = 4 * time.Second

// Model holds the notice currently on screen.
type Model struct {
	notice     string
	notifiedAt time.Time
}

// NoticeMsg shows a notice.
type NoticeMsg string

// ClearNoticeMsg hides the current notice if it is older than Lifetime.
type ClearNoticeMsg struct{}

var noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// Notify returns a command that displays text as a notice.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg(text)
	}
}

func clearLater() tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}

// Update processes notice messages.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NoticeMsg:
		m.notice = string(msg)
		m.notifiedAt = time.Now()
		return clearLater()
	case ClearNoticeMsg:
		// a newer notice schedules its own clear
		if time.Since(m.notifiedAt) >= Lifetime {
			m.notice = ""
		}
	}
	return nil
}

// Notice returns the visible notice, if any.
func (m *Model) Notice() string {
	return m.notice
}

// View appends the notice to the last line of the main content.
func (m *Model) View(mainContent string) string {
	if m.notice == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] = lines[len(lines)-1] + "  " + noticeStyle.Render(m.notice)
	return strings.Join(lines, "\n")
}
