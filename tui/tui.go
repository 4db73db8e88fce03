// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidgrab/vidgrab/controller"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// History opens the download history instead of the URL input.
	History bool
	// Input pre-fills the URL input.
	Input string
}

// Run builds the controller and executes the Bubble Tea application loop.
// The context is cancelled when the program exits, aborting in-flight requests.
func Run(ctx context.Context, deps controller.Options, options *Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bubble := newBubble(ctx, deps, options)

	if options.History {
		if _, err := bubble.loadHistory(); err != nil {
			return err
		}
		bubble.newState(historyState)
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
