package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/controller"
	"github.com/vidgrab/vidgrab/download"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/history"
	"github.com/vidgrab/vidgrab/key"
)

func init() {
	filesystem.SetMemMapFs()
}

type stubBackend struct{}

func (stubBackend) Info(_ context.Context, url string) (*api.MediaInfo, error) {
	if strings.Contains(url, "broken") {
		return nil, &api.Error{Status: 400, Detail: "Unsupported URL"}
	}
	return &api.MediaInfo{
		ID:       "abc123",
		Title:    "Single video",
		Uploader: "someone",
		Duration: 63,
		Formats: []api.Format{
			{FormatID: "18", Ext: "mp4", FormatNote: "360p", Filesize: 1 << 20},
		},
	}, nil
}

func (stubBackend) Infos(_ context.Context, urls []string) ([]api.BatchItem, error) {
	return []api.BatchItem{
		{URL: urls[0], MediaInfo: api.MediaInfo{Title: "First video", Formats: []api.Format{{FormatID: "22", Ext: "mp4"}}}},
		{URL: urls[1], Error: "Video unavailable"},
	}, nil
}

func (stubBackend) Download(context.Context, string, string) (*api.Payload, error) {
	return &api.Payload{Filename: "video.mp4", Size: 4, Body: io.NopCloser(strings.NewReader("data"))}, nil
}

func (stubBackend) DownloadArchive(context.Context, []string) (*api.Payload, error) {
	return nil, errors.New("not used")
}

type stubSaver struct{}

func (stubSaver) Save(_ context.Context, payload *api.Payload, progress download.ProgressFunc) (string, error) {
	defer payload.Body.Close()
	progress(100)
	return "/downloads/" + payload.Filename, nil
}

func newTestBubble() *statefulBubble {
	viper.Set(key.TUIShowThumbnailURL, true)
	b := newBubble(context.Background(), controller.Options{
		Backend:   stubBackend{},
		Saver:     stubSaver{},
		BatchMode: constant.BatchAuto,
	}, &Options{})
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return b
}

func press(b *statefulBubble, msg tea.KeyMsg) tea.Cmd {
	_, cmd := b.Update(msg)
	return cmd
}

func typeRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs cmd and feeds whatever it produces back into the bubble.
func deliver(b *statefulBubble, cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			deliver(b, c)
		}
	default:
		b.Update(msg)
	}
}

func titles(items []list.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.(*listItem).internal.(*history.Record).Title)
	}
	return out
}

func storedTitles() []string {
	records, err := history.List()
	So(err, ShouldBeNil)

	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}

func TestBubble(t *testing.T) {
	Convey("Given a fresh bubble", t, func() {
		b := newTestBubble()

		Convey("It should start at the input", func() {
			So(b.state, ShouldEqual, inputState)
			So(b.View(), ShouldContainSubstring, "Download Media")
		})

		Convey("Enter on blank input should do nothing", func() {
			b.inputC.SetValue("   ")
			press(b, tea.KeyMsg{Type: tea.KeyEnter})
			So(b.state, ShouldEqual, inputState)
		})

		Convey("When a single URL is fetched", func() {
			b.inputC.SetValue("https://example.com/watch?v=abc123")
			press(b, tea.KeyMsg{Type: tea.KeyEnter})
			So(b.state, ShouldEqual, loadingState)

			b.Update(b.fetchInfo(b.inputC.Value())())

			Convey("The formats of the media should be listed", func() {
				So(b.state, ShouldEqual, formatsState)
				view := b.View()
				So(view, ShouldContainSubstring, "Single video")
				So(view, ShouldContainSubstring, "Duration: 63s")
				So(view, ShouldContainSubstring, "ID: abc123")
				So(view, ShouldContainSubstring, "360p")
			})

			Convey("Going back should return to the input", func() {
				press(b, tea.KeyMsg{Type: tea.KeyEsc})
				So(b.state, ShouldEqual, inputState)
			})

			Convey("A finished download should not raise an alert", func() {
				cmd := b.downloadSingle(b.selectedURL, "18")
				msg := cmd().(downloadedMsg)
				So(msg.err, ShouldBeNil)
				So(msg.path, ShouldEqual, "/downloads/video.mp4")

				_, next := b.Update(msg)
				So(next, ShouldNotBeNil)
				So(b.alerts, ShouldBeEmpty)
				So(b.snapshot.Downloading, ShouldBeFalse)
			})

			Convey("The spinner should keep ticking before the controller reports the download", func() {
				tick := spinner.TickMsg{ID: b.spinnerC.ID(), Time: time.Now()}

				_, idle := b.Update(tick)
				So(idle, ShouldBeNil)

				cmd := b.downloadSingle(b.selectedURL, "18")
				So(b.snapshot.Downloading, ShouldBeFalse)

				_, next := b.Update(tick)
				So(next, ShouldNotBeNil)
				So(b.View(), ShouldContainSubstring, "Downloading...")

				press(b, tea.KeyMsg{Type: tea.KeyEnter})
				So(b.downloadPending, ShouldBeTrue)

				b.Update(cmd())
				So(b.downloadPending, ShouldBeFalse)
				So(b.View(), ShouldNotContainSubstring, "Downloading...")
			})
		})

		Convey("When several URLs are fetched", func() {
			b.inputC.SetValue("https://example.com/1\nhttps://example.com/2")
			b.newState(loadingState)
			b.Update(b.fetchInfo(b.inputC.Value())())

			Convey("Each item should show its formats or its error", func() {
				So(b.state, ShouldEqual, batchState)
				view := b.View()
				So(view, ShouldContainSubstring, "First video")
				So(view, ShouldContainSubstring, "Video unavailable")
			})

			Convey("Selecting a successful item should list its formats", func() {
				press(b, tea.KeyMsg{Type: tea.KeyEnter})
				So(b.state, ShouldEqual, formatsState)
				So(b.selectedURL, ShouldEqual, "https://example.com/1")
				So(b.formatsC.Items(), ShouldHaveLength, 1)
			})

			Convey("Selecting a failed item should stay on the results", func() {
				press(b, tea.KeyMsg{Type: tea.KeyDown})
				press(b, tea.KeyMsg{Type: tea.KeyEnter})
				So(b.state, ShouldEqual, batchState)
			})
		})

		Convey("When a fetch fails", func() {
			b.inputC.SetValue("https://example.com/broken")
			b.newState(loadingState)
			msg := b.fetchInfo(b.inputC.Value())()
			b.Update(msg)

			Convey("It should return to the input", func() {
				So(b.state, ShouldEqual, inputState)
			})

			Convey("The backend detail should be alerted", func() {
				alert := <-b.alertChannel
				So(alert, ShouldEqual, controller.FetchFailedPrefix+"Unsupported URL")
			})
		})

		Convey("Alerts should block until dismissed", func() {
			b.alert("first")
			b.alert("second")
			So(b.View(), ShouldContainSubstring, "first")

			press(b, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
			So(b.alerts, ShouldHaveLength, 2)

			press(b, tea.KeyMsg{Type: tea.KeyEnter})
			So(b.alerts, ShouldHaveLength, 1)
			So(b.View(), ShouldContainSubstring, "second")
		})
	})
}

func TestHistoryRemoval(t *testing.T) {
	Convey("Given three downloads in the history", t, func() {
		So(history.Clear(), ShouldBeNil)

		start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		for i, title := range []string{"alpha", "bravo", "charlie"} {
			So(history.Save(&history.Record{
				Title:        title,
				URLs:         []string{"https://example.com/" + title},
				Path:         "/downloads/" + title + ".mp4",
				DownloadedAt: start.Add(time.Duration(i) * time.Minute),
			}), ShouldBeNil)
		}

		b := newTestBubble()
		deliver(b, press(b, tea.KeyMsg{Type: tea.KeyCtrlR}))
		So(b.state, ShouldEqual, historyState)
		So(titles(b.historyC.Items()), ShouldResemble, []string{"charlie", "bravo", "alpha"})

		Convey("Removing the selected entry should drop it from the list and the store", func() {
			press(b, tea.KeyMsg{Type: tea.KeyDown})
			deliver(b, press(b, typeRunes("d")))

			So(titles(b.historyC.Items()), ShouldResemble, []string{"charlie", "alpha"})
			So(storedTitles(), ShouldResemble, []string{"charlie", "alpha"})
			So(b.historyC.SelectedItem().(*listItem).internal.(*history.Record).Title, ShouldEqual, "alpha")
		})

		Convey("Removing an entry under a filter should drop that entry", func() {
			b.historyC.SetFilterText("charlie")
			So(b.historyC.SelectedItem().(*listItem).internal.(*history.Record).Title, ShouldEqual, "charlie")

			deliver(b, press(b, typeRunes("d")))

			So(storedTitles(), ShouldResemble, []string{"bravo", "alpha"})
			So(titles(b.historyC.Items()), ShouldResemble, []string{"bravo", "alpha"})
			So(b.historyC.VisibleItems(), ShouldBeEmpty)
		})
	})
}
