// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/vidgrab/vidgrab/controller"
	"github.com/vidgrab/vidgrab/history"
	"github.com/vidgrab/vidgrab/log"
	"github.com/vidgrab/vidgrab/open"
	"github.com/vidgrab/vidgrab/query"
	"github.com/vidgrab/vidgrab/util"
)

type (
	// fetchedMsg is sent when an info request finishes.
	fetchedMsg struct{ err error }

	// downloadedMsg is sent when a download finishes.
	downloadedMsg struct {
		path string
		err  error
	}

	alertMsg string
)

func (b *statefulBubble) loadHistory() (tea.Cmd, error) {
	records, err := history.List()
	if err != nil {
		return nil, err
	}

	items := lo.Map(records, func(r *history.Record, _ int) list.Item {
		return &listItem{internal: r}
	})

	return b.historyC.SetItems(items), nil
}

// dropHistoryItem takes a removed record out of the history list.
// Items are located by identity because the cursor indexes the filtered view.
func (b *statefulBubble) dropHistoryItem(item list.Item) tea.Cmd {
	items := b.historyC.Items()
	index := lo.IndexOf(items, item)
	if index < 0 {
		return nil
	}

	if b.historyC.FilterState() == list.Unfiltered {
		b.historyC.RemoveItem(index)
		b.historyC.Select(lo.Clamp(index, 0, len(b.historyC.Items())-1))
		return nil
	}

	remaining := append(items[:index:index], items[index+1:]...)
	return b.historyC.SetItems(remaining)
}

func (b *statefulBubble) fetchInfo(input string) tea.Cmd {
	urls := controller.ParseURLs(input)
	b.progressStatus = fmt.Sprintf("Fetching info for %s...", util.Quantify(len(urls), "URL", "URLs"))

	go func() {
		if err := query.Remember(urls, 1); err != nil {
			log.Warnf("remember urls: %s", err)
		}
	}()

	return func() tea.Msg {
		log.Infof("fetching info for %d urls", len(urls))
		return fetchedMsg{err: b.ctrl.FetchInfo(b.ctx, input)}
	}
}

func (b *statefulBubble) downloadSingle(url, formatID string) tea.Cmd {
	b.downloadPending = true
	return func() tea.Msg {
		path, err := b.ctrl.DownloadSingle(b.ctx, url, formatID)
		return downloadedMsg{path: path, err: err}
	}
}

func (b *statefulBubble) downloadAll(urls []string) tea.Cmd {
	b.downloadPending = true
	return func() tea.Msg {
		path, err := b.ctrl.DownloadAll(b.ctx, urls)
		return downloadedMsg{path: path, err: err}
	}
}

func (b *statefulBubble) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-b.stateChannel:
			return s
		case <-b.ctx.Done():
			return nil
		}
	}
}

func (b *statefulBubble) waitForAlert() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.alertChannel:
			return alertMsg(msg)
		case <-b.ctx.Done():
			return nil
		}
	}
}

func (b *statefulBubble) openInBackground(target string) tea.Cmd {
	return func() tea.Msg {
		if err := open.Start(target); err != nil {
			log.Warnf("open %s: %s", target, err)
			b.alertChannel <- "Could not open " + target + ": " + err.Error()
		}
		return nil
	}
}
