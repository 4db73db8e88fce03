// Package color names the terminal colors shared by the CLI and TUI.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps an ANSI index or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors follow the terminal theme, so CLI output stays readable on light and dark backgrounds.
var (
	Red      = New("1")
	Green    = New("2")
	Yellow   = New("3")
	Blue     = New("4")
	Purple   = New("5")
	HiRed    = New("9")
	HiPurple = New("13")
)

var (
	Orange = New("#ffb703")
	Gray   = New("#808080")
)
