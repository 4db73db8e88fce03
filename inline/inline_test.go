package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/controller"
	"github.com/vidgrab/vidgrab/download"
	"github.com/vidgrab/vidgrab/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

var formats = []api.Format{
	{FormatID: "18", Ext: "mp4", FormatNote: "360p", Filesize: 2048, Width: 640, Height: 360},
	{FormatID: "140", Ext: "m4a", FormatNote: "audio", Filesize: 1024, ACodec: "mp4a"},
	{FormatID: "22", Ext: "mp4", FormatNote: "720p", Filesize: 8192},
}

type fakeBackend struct {
	downloadedFormat string
	archived         []string
}

func (f *fakeBackend) Info(_ context.Context, url string) (*api.MediaInfo, error) {
	if strings.Contains(url, "private") {
		return nil, &api.Error{Status: 403, Detail: "Private video"}
	}
	return &api.MediaInfo{
		ID:         "abc",
		Title:      "A video",
		Uploader:   "uploader",
		Duration:   12.5,
		Thumbnails: []api.Thumbnail{{URL: "https://img/1.jpg"}, {URL: "https://img/2.jpg"}},
		Formats:    formats,
	}, nil
}

func (f *fakeBackend) Infos(_ context.Context, urls []string) ([]api.BatchItem, error) {
	return []api.BatchItem{
		{URL: urls[0], MediaInfo: api.MediaInfo{Title: "First", Formats: formats[:1]}},
		{URL: urls[1], Error: "Video unavailable"},
	}, nil
}

func (f *fakeBackend) Download(_ context.Context, _, formatID string) (*api.Payload, error) {
	f.downloadedFormat = formatID
	return &api.Payload{Filename: "a.mp4", Size: 3, Body: io.NopCloser(strings.NewReader("abc"))}, nil
}

func (f *fakeBackend) DownloadArchive(_ context.Context, urls []string) (*api.Payload, error) {
	f.archived = urls
	return &api.Payload{Filename: "bundle.zip", Size: -1, Body: io.NopCloser(strings.NewReader("zip"))}, nil
}

type fakeSaver struct{}

func (fakeSaver) Save(_ context.Context, payload *api.Payload, progress download.ProgressFunc) (string, error) {
	defer payload.Body.Close()
	data, err := io.ReadAll(payload.Body)
	if err != nil {
		return "", err
	}
	if payload.Size > 0 {
		progress(download.Percent(int64(len(data)), payload.Size))
	}
	return "/downloads/" + payload.Filename, nil
}

func TestParseFormatPicker(t *testing.T) {
	Convey("Given format selectors", t, func() {
		pick := func(selector string) string {
			picker, err := ParseFormatPicker(selector)
			So(err, ShouldBeNil)
			format, err := picker(formats)
			So(err, ShouldBeNil)
			return format.FormatID
		}

		So(pick("first"), ShouldEqual, "18")
		So(pick("last"), ShouldEqual, "22")
		So(pick("largest"), ShouldEqual, "22")
		So(pick("smallest"), ShouldEqual, "140")
		So(pick("140"), ShouldEqual, "140")

		Convey("Unknown ids should fail", func() {
			picker, err := ParseFormatPicker("999")
			So(err, ShouldBeNil)
			_, err = picker(formats)
			So(err, ShouldNotBeNil)
		})

		Convey("Empty format lists should fail", func() {
			picker, _ := ParseFormatPicker("first")
			_, err := picker(nil)
			So(err, ShouldEqual, ErrNoFormats)
		})

		Convey("Blank selectors should be rejected", func() {
			_, err := ParseFormatPicker("  ")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestInfo(t *testing.T) {
	Convey("Given a backend", t, func() {
		backend := &fakeBackend{}
		deps := controller.Options{Backend: backend, Saver: fakeSaver{}, BatchMode: constant.BatchAuto}
		var out bytes.Buffer

		Convey("A single URL should render the info and its formats", func() {
			err := Info(context.Background(), deps, &Options{Out: &out, URLs: []string{"https://v/1"}})
			So(err, ShouldBeNil)

			text := out.String()
			So(text, ShouldContainSubstring, "A video")
			So(text, ShouldContainSubstring, "Duration: 12.5s")
			So(text, ShouldContainSubstring, "https://img/2.jpg")
			So(text, ShouldNotContainSubstring, "https://img/1.jpg")
			So(text, ShouldContainSubstring, "640x360")
			So(text, ShouldContainSubstring, "2.0 KB")
		})

		Convey("Several URLs should be written as JSON with per-item errors", func() {
			err := Info(context.Background(), deps, &Options{
				Out:  &out,
				URLs: []string{"https://v/1", "https://v/2"},
				JSON: true,
			})
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 2)
			So(output.Result[0].Info.Title, ShouldEqual, "First")
			So(output.Result[1].Info, ShouldBeNil)
			So(output.Result[1].Error, ShouldEqual, "Video unavailable")
		})

		Convey("A failed fetch should return the alert text", func() {
			err := Info(context.Background(), deps, &Options{Out: &out, URLs: []string{"https://v/private"}})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, controller.FetchFailedPrefix+"Private video")
			So(out.Len(), ShouldEqual, 0)
		})
	})
}

func TestDownload(t *testing.T) {
	Convey("Given a backend", t, func() {
		backend := &fakeBackend{}
		deps := controller.Options{Backend: backend, Saver: fakeSaver{}, BatchMode: constant.BatchAuto}
		var out, progress bytes.Buffer

		Convey("A picked format should be requested", func() {
			picker, _ := ParseFormatPicker("largest")
			err := Download(context.Background(), deps, &Options{
				Out:          &out,
				Progress:     &progress,
				URLs:         []string{"https://v/1"},
				FormatPicker: mo.Some(picker),
			})
			So(err, ShouldBeNil)
			So(backend.downloadedFormat, ShouldEqual, "22")
			So(out.String(), ShouldContainSubstring, "/downloads/a.mp4")
			So(progress.String(), ShouldContainSubstring, "100%")
		})

		Convey("Without a picker the backend should choose", func() {
			err := Download(context.Background(), deps, &Options{Out: &out, Progress: &progress, URLs: []string{"https://v/1"}, JSON: true})
			So(err, ShouldBeNil)
			So(backend.downloadedFormat, ShouldEqual, "")

			var saved Saved
			So(json.Unmarshal(out.Bytes(), &saved), ShouldBeNil)
			So(saved.Path, ShouldEqual, "/downloads/a.mp4")
			So(saved.Archive, ShouldBeFalse)
		})

		Convey("An archive should bundle every URL", func() {
			urls := []string{"https://v/1", "https://v/2"}
			err := Download(context.Background(), deps, &Options{Out: &out, Progress: &progress, URLs: urls, Archive: true})
			So(err, ShouldBeNil)
			So(backend.archived, ShouldResemble, urls)
			So(out.String(), ShouldContainSubstring, "bundle.zip")
			So(progress.Len(), ShouldEqual, 0)
		})

		Convey("Several URLs without an archive should be rejected", func() {
			err := Download(context.Background(), deps, &Options{Out: &out, URLs: []string{"a", "b"}})
			So(err, ShouldNotBeNil)
		})

		Convey("An empty archive should fail without a request", func() {
			err := Download(context.Background(), deps, &Options{Out: &out, Progress: &progress, Archive: true})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldStartWith, controller.DownloadFailedPrefix)
			So(backend.archived, ShouldBeNil)
		})
	})
}
