package style

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha shades used for TUI surfaces and list badges.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Cream    = lipgloss.Color("#ffffd7")
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Lavender = lipgloss.Color("#b4befe")
	Indigo   = lipgloss.Color("#5f5fd7")
)

var (
	AccentColor = Mauve
	ErrorColor  = Red
)
