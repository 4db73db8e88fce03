// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/controller"
	"github.com/vidgrab/vidgrab/internal/ui"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/util"
)

// statefulBubble encapsulates the application state, including component models and workflow tracking.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	ctx  context.Context
	ctrl *controller.Controller

	// snapshot is the last controller state received on stateChannel.
	snapshot controller.State

	// components
	spinnerC  spinner.Model
	inputC    textarea.Model
	formatsC  list.Model
	batchC    list.Model
	historyC  list.Model
	progressC progress.Model
	helpC     help.Model

	// selectedURL and selectedInfo back the formats list.
	selectedURL  string
	selectedInfo *api.MediaInfo

	stateChannel chan controller.State
	alertChannel chan string

	// alerts block every other interaction until dismissed.
	alerts []string

	// downloadPending is set from issuing a download until its downloadedMsg arrives,
	// covering the gap before the controller publishes Downloading.
	downloadPending bool

	progressStatus string

	width, height         int
	listWidth, listHeight int
	suggestion            mo.Option[string]
	notifier              *ui.Model

	options *Options
}

// alert queues a blocking message.
func (b *statefulBubble) alert(msg string) {
	b.alerts = append(b.alerts, msg)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState transitions to a target state, recording the previous state in the navigation history when appropriate.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	// Do not push these states to history
	if b.state != loadingState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		s := b.statesHistory.Pop()
		b.setState(s)
	}
}

// publish forwards a controller snapshot without ever blocking the caller.
// Only the latest snapshot matters, so a pending one is replaced.
func (b *statefulBubble) publish(s controller.State) {
	select {
	case b.stateChannel <- s:
		return
	default:
	}

	select {
	case <-b.stateChannel:
	default:
	}

	select {
	case b.stateChannel <- s:
	default:
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	b.listWidth = width - xx
	b.listHeight = height - yy

	b.batchC.SetSize(b.listWidth, b.listHeight-progressLines)
	b.batchC.Help.Width = b.listWidth

	b.historyC.SetSize(b.listWidth, b.listHeight)
	b.historyC.Help.Width = b.listWidth

	b.resizeFormats()

	b.inputC.SetWidth(max(b.width, 20))
	b.progressC.Width = min(b.listWidth, 80)
	b.helpC.Width = b.listWidth
}

// resizeFormats fits the formats list below the media header.
func (b *statefulBubble) resizeFormats() {
	header := lipgloss.Height(b.mediaHeader())
	b.formatsC.SetSize(b.listWidth, max(b.listHeight-header-progressLines, 3))
	b.formatsC.Help.Width = b.listWidth
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(ctx context.Context, deps controller.Options, options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		ctx:           ctx,

		stateChannel: make(chan controller.State, 1),
		alertChannel: make(chan string, 8),

		notifier: &ui.Model{},
		options:  options,
	}

	deps.OnChange = bubble.publish
	deps.OnAlert = func(msg string) {
		bubble.alertChannel <- msg
	}
	bubble.ctrl = controller.New(deps)

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textarea.New()
	bubble.inputC.Placeholder = fmt.Sprintf("https://www.youtube.com/watch?v=... (v%s)", constant.Version)
	bubble.inputC.ShowLineNumbers = false
	bubble.inputC.SetHeight(inputHeight)
	bubble.inputC.CharLimit = 0
	bubble.inputC.KeyMap.InsertNewline = keymap.newline
	bubble.inputC.Prompt = "┃ "
	if options.Input != "" {
		bubble.inputC.SetValue(options.Input)
	}

	bubble.progressC = progress.New(progress.WithDefaultGradient())

	bubble.formatsC = newList(keymap, "Formats", style.Lavender)
	bubble.formatsC.SetStatusBarItemName("format", "formats")

	bubble.batchC = newList(keymap, "Results", style.Peach)
	bubble.batchC.SetStatusBarItemName("result", "results")
	bubble.batchC.SetFilteringEnabled(false)

	bubble.historyC = newList(keymap, "History", style.Yellow)
	bubble.historyC.SetStatusBarItemName("download", "downloads")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.inputC.Focus()

	return &bubble
}

// newList creates a list sharing the application keymap, titled on a colored badge.
func newList(keymap *statefulKeymap, title string, badge lipgloss.Color) list.Model {
	selected := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		PaddingLeft(1)

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
	delegate.Styles.SelectedTitle = selected
	delegate.Styles.SelectedDesc = selected
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(badge).Padding(0, 1)
	l.Styles.NoItems = paddingStyle
	l.KeyMap = keymap.forList()
	l.AdditionalShortHelpKeys = keymap.ShortHelp
	l.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	// status messages stay until replaced
	l.StatusMessageLifetime = 999 * time.Hour
	l.SetShowPagination(false)
	l.SetShowStatusBar(false)

	return l
}

// busyDownloading reports whether download affordances are disabled.
func (b *statefulBubble) busyDownloading() bool {
	return b.snapshot.Downloading || b.downloadPending
}

// selectFormats shows the formats of a single media item.
func (b *statefulBubble) selectFormats(url string, info *api.MediaInfo) tea.Cmd {
	b.selectedURL = url
	b.selectedInfo = info
	b.formatsC.ResetFilter()
	b.formatsC.ResetSelected()
	b.resizeFormats()

	items := lo.Map(info.Formats, func(f api.Format, _ int) list.Item {
		return &listItem{internal: f}
	})

	return b.formatsC.SetItems(items)
}
