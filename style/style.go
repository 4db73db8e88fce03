// Package style holds small lipgloss rendering helpers shared by the CLI and TUI.
package style

import "github.com/charmbracelet/lipgloss"

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer painting text in c.
func Fg(c lipgloss.Color) func(string) string {
	s := New().Foreground(c)
	return func(text string) string { return s.Render(text) }
}

// Truncate returns a renderer that fits text into width cells.
func Truncate(width int) func(string) string {
	s := New().Width(width)
	return func(text string) string { return s.Render(text) }
}

func Faint(s string) string { return New().Faint(true).Render(s) }

func Bold(s string) string { return New().Bold(true).Render(s) }

func badge(bg lipgloss.Color) func(string) string {
	s := New().Foreground(Cream).Background(bg).Padding(0, 1)
	return func(text string) string { return s.Render(text) }
}

// Title renders a section heading.
var Title = badge(Indigo)

// ErrorTitle renders the heading of alerts and failed items.
var ErrorTitle = badge(lipgloss.Color("1"))
