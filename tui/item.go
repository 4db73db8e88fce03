// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/history"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/util"
)

// listItem implements the list.Item interface, wrapping domain models for terminal display.
type listItem struct {
	internal interface{}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case api.Format:
		parts := []string{e.FormatID, style.Faint(e.Ext)}
		if e.FormatNote != "" {
			parts = append(parts, e.FormatNote)
		}
		title = strings.Join(parts, " ")
	case *api.BatchItem:
		if e.Failed() {
			title = icon.Get(icon.Fail) + " " + e.URL
		} else if e.Title != "" {
			title = e.Title
		} else {
			title = e.URL
		}
	case *history.Record:
		title = e.String()
	default:
		title = t.FilterValue()
	}

	return
}

// Description retrieves the secondary metadata for the list item.
func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case api.Format:
		var parts []string
		if res := e.Resolution(); res != "" {
			parts = append(parts, res)
		}
		parts = append(parts, util.HumanFileSize(e.Filesize))
		parts = append(parts, "audio: "+codec(e.ACodec), "video: "+codec(e.VCodec))
		description = strings.Join(parts, " • ")
	case *api.BatchItem:
		if e.Failed() {
			description = lipgloss.NewStyle().Foreground(style.ErrorColor).Render(e.Error)
			break
		}

		parts := []string{util.Quantify(len(e.Formats), "format", "formats")}
		if e.Uploader != "" {
			parts = append(parts, e.Uploader)
		}
		parts = append(parts, e.URL)
		description = strings.Join(parts, " • ")
	case *history.Record:
		description = fmt.Sprintf("%s • %s • %s",
			e.DownloadedAt.Format("2006-01-02 15:04"),
			util.HumanFileSize(e.Size),
			e.Path,
		)
	}

	return
}

// FilterValue returns the string used for real-time list filtering.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case api.Format:
		return strings.Join([]string{e.FormatID, e.Ext, e.FormatNote}, " ")
	case *api.BatchItem:
		return e.Title + " " + e.URL
	case *history.Record:
		return e.String() + " " + e.Path
	default:
		return ""
	}
}

func codec(name string) string {
	if name == "" {
		return "-"
	}
	return name
}
