// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/style"
)

// statefulKeymap defines the keyboard interactions available within various application states.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm, back, dismiss,
	fetch, newline, acceptSuggestion,
	download, downloadAll,
	openHistory, openURL, remove,
	filter,
	up, down, left, right,
	top, bottom,
	showHelp key.Binding
}

// setState updates the active keymap configuration to match the specified application state.
func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

// bind builds a binding whose help key is the first of keys.
func bind(description string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], description))
}

// accent highlights the primary action of a state in the help bar.
func accent(b key.Binding) key.Binding {
	orange := style.Fg(color.Orange)
	return key.NewBinding(
		key.WithKeys(b.Keys()...),
		key.WithHelp(orange(b.Help().Key), orange(b.Help().Desc)),
	)
}

func newStatefulKeymap() *statefulKeymap {
	k := &statefulKeymap{
		quit:             bind("quit", "q"),
		forceQuit:        bind("quit", "ctrl+c", "ctrl+d"),
		confirm:          bind("confirm", "enter"),
		back:             bind("back", "esc"),
		dismiss:          bind("dismiss", "enter", "esc", " "),
		fetch:            accent(bind("get info", "enter")),
		newline:          bind("new line", "ctrl+j", "alt+enter"),
		acceptSuggestion: bind("accept suggestion", "tab"),
		download:         accent(bind("download", "enter")),
		downloadAll:      bind("download all as archive", "a", "ctrl+a"),
		openHistory:      bind("history", "ctrl+r"),
		openURL:          bind("open", "o"),
		remove:           bind("remove", "d"),
		filter:           bind("filter", "/"),
		top:              bind("top", "g"),
		bottom:           bind("bottom", "G"),
		showHelp:         bind("help", "?"),
	}

	k.up = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up"))
	k.down = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down"))
	k.left = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page"))
	k.right = key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page"))

	return k
}

// help returns the short and full bindings shown for the current state.
func (k *statefulKeymap) help() (short, full []key.Binding) {
	switch k.state {
	case inputState:
		short = []key.Binding{k.fetch, k.acceptSuggestion, k.openHistory, k.forceQuit}
		full = []key.Binding{k.fetch, k.newline, k.acceptSuggestion, k.openHistory, k.forceQuit}
	case loadingState:
		short = []key.Binding{k.forceQuit}
	case formatsState:
		short = []key.Binding{k.download, k.openURL, k.back}
		full = []key.Binding{k.download, k.openURL, k.filter, k.back}
	case batchState:
		short = []key.Binding{withDescription(k.confirm, "formats"), k.downloadAll, k.back}
	case historyState:
		short = []key.Binding{withDescription(k.openURL, "open file"), k.remove, k.back}
	}

	if full == nil {
		full = short
	}

	return short, full
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		Filter:               k.filter,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
