// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"strings"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/controller"
	"github.com/vidgrab/vidgrab/history"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/internal/ui"
	"github.com/vidgrab/vidgrab/log"
	"github.com/vidgrab/vidgrab/query"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmds = append(cmds, uiCmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case controller.State:
		b.snapshot = msg
		return b, tea.Batch(append(cmds, b.waitForState())...)
	case alertMsg:
		b.alert(string(msg))
		return b, tea.Batch(append(cmds, b.waitForAlert())...)
	case fetchedMsg:
		return b.onFetched(msg)
	case downloadedMsg:
		b.downloadPending = false
		b.snapshot = b.ctrl.Snapshot()
		if msg.err == nil {
			cmds = append(cmds, ui.Notify(icon.Get(icon.Success)+" Saved to "+msg.path))
		}
		return b, tea.Batch(cmds...)
	case spinner.TickMsg:
		if b.state == loadingState || b.busyDownloading() {
			var cmd tea.Cmd
			b.spinnerC, cmd = b.spinnerC.Update(msg)
			cmds = append(cmds, cmd)
		}
		return b, tea.Batch(cmds...)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		// Alerts are modal.
		if len(b.alerts) > 0 {
			if bubblesKey.Matches(msg, b.keymap.dismiss) {
				b.alerts = b.alerts[1:]
			}
			return b, tea.Batch(cmds...)
		}
	}

	var (
		model tea.Model
		cmd   tea.Cmd
	)

	switch b.state {
	case inputState:
		model, cmd = b.updateInput(msg)
	case loadingState:
		model, cmd = b.updateLoading(msg)
	case formatsState:
		model, cmd = b.updateFormats(msg)
	case batchState:
		model, cmd = b.updateBatch(msg)
	case historyState:
		model, cmd = b.updateHistory(msg)
	default:
		model = b
	}

	return model, tea.Batch(append(cmds, cmd)...)
}

// onFetched moves from the loading view to the fetched result, or back to the input on failure.
func (b *statefulBubble) onFetched(msg fetchedMsg) (tea.Model, tea.Cmd) {
	b.snapshot = b.ctrl.Snapshot()

	if b.state != loadingState {
		return b, nil
	}

	if msg.err != nil {
		b.previousState()
		return b, nil
	}

	if info := b.snapshot.Info; info != nil {
		cmd := b.selectFormats(b.snapshot.URLs[0], info)
		b.newState(formatsState)
		return b, cmd
	}

	items := make([]list.Item, len(b.snapshot.Batch))
	for i := range b.snapshot.Batch {
		items[i] = &listItem{internal: &b.snapshot.Batch[i]}
	}

	b.batchC.ResetSelected()
	cmd := b.batchC.SetItems(items)
	b.newState(batchState)
	return b, cmd
}

func (b *statefulBubble) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.openHistory):
			cmd, err := b.loadHistory()
			if err != nil {
				log.Error(err)
				b.alert("Could not load history: " + err.Error())
				return b, nil
			}
			b.newState(historyState)
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.acceptSuggestion) && b.suggestion.IsPresent():
			lines := strings.Split(b.inputC.Value(), "\n")
			lines[len(lines)-1] = b.suggestion.MustGet()
			b.inputC.SetValue(strings.Join(lines, "\n"))
			b.suggestion = mo.None[string]()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.fetch):
			value := b.inputC.Value()
			if strings.TrimSpace(value) == "" || b.snapshot.Loading {
				return b, nil
			}

			b.suggestion = mo.None[string]()
			fetch := b.fetchInfo(value)
			b.newState(loadingState)
			return b, tea.Batch(fetch, b.spinnerC.Tick)
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)
	b.suggestion = b.suggest()
	return b, cmd
}

// suggest looks up a remembered URL for the line being typed.
func (b *statefulBubble) suggest() mo.Option[string] {
	lines := strings.Split(b.inputC.Value(), "\n")
	current := strings.TrimSpace(lines[len(lines)-1])
	if current == "" {
		return mo.None[string]()
	}

	if suggestion, ok := query.Suggest(current).Get(); ok && suggestion != current {
		return mo.Some(suggestion)
	}

	return mo.None[string]()
}

// updateLoading waits for the fetch to finish. There is no cancellation short of quitting.
func (b *statefulBubble) updateLoading(tea.Msg) (tea.Model, tea.Cmd) {
	return b, nil
}

func (b *statefulBubble) updateFormats(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.formatsC.FilterState() == list.Filtering {
			break
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.formatsC.FilterState() != list.Unfiltered {
				break
			}
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.download):
			if b.busyDownloading() || b.formatsC.SelectedItem() == nil {
				return b, nil
			}

			format := b.formatsC.SelectedItem().(*listItem).internal.(api.Format)
			return b, tea.Batch(b.downloadSingle(b.selectedURL, format.FormatID), b.spinnerC.Tick)
		case bubblesKey.Matches(msg, b.keymap.openURL):
			if thumbnail, ok := b.selectedInfo.Thumbnail().Get(); ok {
				return b, b.openInBackground(thumbnail)
			}
			return b, nil
		}
	}

	b.formatsC, cmd = b.formatsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateBatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.batchC.SelectedItem() == nil {
				return b, nil
			}

			item := b.batchC.SelectedItem().(*listItem).internal.(*api.BatchItem)
			if item.Failed() {
				return b, b.batchC.NewStatusMessage(icon.Get(icon.Fail) + " " + item.Error)
			}

			cmd = b.selectFormats(item.URL, &item.MediaInfo)
			b.newState(formatsState)
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.downloadAll):
			if b.busyDownloading() {
				return b, nil
			}
			return b, tea.Batch(b.downloadAll(b.snapshot.URLs), b.spinnerC.Tick)
		}
	}

	b.batchC, cmd = b.batchC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.historyC.FilterState() == list.Filtering {
			break
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.historyC.FilterState() != list.Unfiltered {
				break
			}
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.openURL), bubblesKey.Matches(msg, b.keymap.confirm):
			if b.historyC.SelectedItem() == nil {
				return b, nil
			}
			record := b.historyC.SelectedItem().(*listItem).internal.(*history.Record)
			return b, b.openInBackground(record.Path)
		case bubblesKey.Matches(msg, b.keymap.remove):
			selected := b.historyC.SelectedItem()
			if selected == nil {
				return b, nil
			}
			record := selected.(*listItem).internal.(*history.Record)
			if err := history.Remove(record); err != nil {
				b.alert("Could not remove history entry: " + err.Error())
				return b, nil
			}

			return b, b.dropHistoryItem(selected)
		}
	}

	b.historyC, cmd = b.historyC.Update(msg)
	return b, cmd
}
