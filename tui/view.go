// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/util"
)

const (
	inputHeight = 5

	// progressLines is the room kept under lists for the download line.
	progressLines = 2
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	headerStyle           = lipgloss.NewStyle().Padding(1, 2, 0, 2)
)

func (b *statefulBubble) View() string {
	var output string

	if len(b.alerts) > 0 {
		return b.viewAlert()
	}

	switch b.state {
	case inputState:
		output = b.viewInput()
	case loadingState:
		output = b.viewLoading()
	case formatsState:
		output = b.viewFormats()
	case batchState:
		output = b.viewBatch()
	case historyState:
		output = b.viewHistory()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewInput() string {
	lines := []string{
		style.Title("Download Media"),
		"",
		b.inputC.View(),
		"",
	}

	if suggestion, ok := b.suggestion.Get(); ok {
		lines = append(lines, style.Faint("tab "+icon.Get(icon.Link)+" "+suggestion))
	} else {
		lines = append(lines, "")
	}

	lines = append(lines, b.progressView())

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewFormats() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		b.mediaHeader(),
		listExtraPaddingStyle.Render(b.formatsC.View()),
		b.progressView(),
	)
}

func (b *statefulBubble) viewBatch() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		listExtraPaddingStyle.Render(b.batchC.View()),
		b.progressView(),
	)
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewAlert() string {
	lines := []string{
		style.ErrorTitle("Alert"),
		"",
		icon.Get(icon.Fail) + " " + wrap.String(b.alerts[0], max(b.width-2, 10)),
		"",
	}

	if pending := len(b.alerts) - 1; pending > 0 {
		lines = append(lines, style.Faint(util.Quantify(pending, "more alert", "more alerts")))
	}

	lines = append(lines, style.Faint("press enter to dismiss"))

	return b.renderLines(false, lines)
}

// mediaHeader describes the media whose formats are listed.
func (b *statefulBubble) mediaHeader() string {
	info := b.selectedInfo
	if info == nil {
		return ""
	}

	title := info.Title
	if title == "" {
		title = b.selectedURL
	}

	lines := []string{
		style.Bold(style.Truncate(b.width)(title)),
		fmt.Sprintf(
			"Uploader: %s • Duration: %ss",
			style.Fg(color.Purple)(info.Uploader),
			strconv.FormatFloat(info.Duration, 'f', -1, 64),
		),
		style.Faint("ID: " + info.ID),
	}

	if viper.GetBool(key.TUIShowThumbnailURL) {
		if thumbnail, ok := info.Thumbnail().Get(); ok {
			lines = append(lines, style.Faint(icon.Get(icon.Link)+" "+thumbnail))
		}
	}

	return headerStyle.Render(strings.Join(lines, "\n"))
}

// progressView renders the download line, or nothing when idle.
func (b *statefulBubble) progressView() string {
	if !b.busyDownloading() {
		return ""
	}

	var line string
	if b.snapshot.Progress > 0 {
		line = b.progressC.ViewAs(float64(b.snapshot.Progress)/100) + fmt.Sprintf(" %d%%", b.snapshot.Progress)
	} else {
		line = b.spinnerC.View() + " Downloading..."
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(line)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
