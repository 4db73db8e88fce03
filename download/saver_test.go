package download

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func payloadOf(name, content string, size int64) *api.Payload {
	return &api.Payload{
		Filename: name,
		Size:     size,
		Body:     io.NopCloser(strings.NewReader(content)),
	}
}

func TestSave(t *testing.T) {
	Convey("Given a saver", t, func() {
		filesystem.SetMemMapFs()
		saver := &Saver{Dir: "/downloads"}
		ctx := context.Background()

		Convey("When saving a payload", func() {
			var reported []int
			path, err := saver.Save(ctx, payloadOf("clip.mp4", "hello world", 11), func(p int) {
				reported = append(reported, p)
			})

			Convey("Then the file should be written under its name", func() {
				So(err, ShouldBeNil)
				So(path, ShouldEqual, filepath.Join("/downloads", "clip.mp4"))
				So(string(lo.Must(filesystem.API().ReadFile(path))), ShouldEqual, "hello world")
			})

			Convey("Then no partial file should remain", func() {
				exists := lo.Must(filesystem.API().Exists(path + partSuffix))
				So(exists, ShouldBeFalse)
			})

			Convey("Then progress should end at 100", func() {
				So(reported, ShouldNotBeEmpty)
				So(reported[len(reported)-1], ShouldEqual, 100)
			})

			Convey("And saving the same name again", func() {
				second, err := saver.Save(ctx, payloadOf("clip.mp4", "again", 5), nil)

				Convey("Then a numbered copy should be created", func() {
					So(err, ShouldBeNil)
					So(second, ShouldEqual, filepath.Join("/downloads", "clip (1).mp4"))
				})
			})

			Convey("And saving the same name with overwrite enabled", func() {
				saver.Overwrite = true
				second, err := saver.Save(ctx, payloadOf("clip.mp4", "again", 5), nil)

				Convey("Then the original should be replaced", func() {
					So(err, ShouldBeNil)
					So(second, ShouldEqual, path)
					So(string(lo.Must(filesystem.API().ReadFile(path))), ShouldEqual, "again")
				})
			})
		})

		Convey("When the size is unknown", func() {
			var reported []int
			_, err := saver.Save(ctx, payloadOf("a.bin", "abc", -1), func(p int) {
				reported = append(reported, p)
			})

			Convey("Then no progress should be reported", func() {
				So(err, ShouldBeNil)
				So(reported, ShouldBeEmpty)
			})
		})

		Convey("When the suggested name is unsafe", func() {
			path, err := saver.Save(ctx, payloadOf("../../etc/passwd", "x", 1), nil)

			Convey("Then it should stay inside the downloads directory", func() {
				So(err, ShouldBeNil)
				So(filepath.Dir(path), ShouldEqual, "/downloads")
			})
		})

		Convey("When the suggested name is empty after sanitizing", func() {
			path, err := saver.Save(ctx, payloadOf("..", "x", 1), nil)

			Convey("Then the default name should be used", func() {
				So(err, ShouldBeNil)
				So(filepath.Base(path), ShouldEqual, "download")
			})
		})

		Convey("When the stream fails", func() {
			_, err := saver.Save(ctx, &api.Payload{Filename: "broken.mp4", Size: 10, Body: io.NopCloser(failingReader{})}, nil)

			Convey("Then an error should be returned and nothing left behind", func() {
				So(err, ShouldNotBeNil)
				So(lo.Must(filesystem.API().Exists("/downloads/broken.mp4")), ShouldBeFalse)
				So(lo.Must(filesystem.API().Exists("/downloads/broken.mp4"+partSuffix)), ShouldBeFalse)
			})
		})

		Convey("When the stream ends early", func() {
			_, err := saver.Save(ctx, payloadOf("short.mp4", "abc", 10), nil)

			Convey("Then the download should be rejected", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "incomplete download")
			})
		})

		Convey("When the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := saver.Save(cancelled, payloadOf("late.mp4", "abc", 3), nil)

			Convey("Then the copy should stop", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When the disk is too small for the payload", func() {
			saver.FreeSpace = func(string) (uint64, error) { return 2, nil }
			_, err := saver.Save(ctx, payloadOf("big.mp4", "abcd", 4), nil)

			Convey("Then nothing should be written", func() {
				So(errors.Is(err, ErrNoSpace), ShouldBeTrue)
				exists, _ := filesystem.API().Exists(filepath.Join("/downloads", "big.mp4"+partSuffix))
				So(exists, ShouldBeFalse)
			})
		})

		Convey("When the free space cannot be determined", func() {
			saver.FreeSpace = func(string) (uint64, error) { return 0, errors.New("unsupported") }
			path, err := saver.Save(ctx, payloadOf("space.mp4", "abcd", 4), nil)

			Convey("Then the download should still be saved", func() {
				So(err, ShouldBeNil)
				So(path, ShouldEqual, filepath.Join("/downloads", "space.mp4"))
			})
		})
	})
}

func TestPercent(t *testing.T) {
	Convey("Percent should round and clamp", t, func() {
		So(Percent(0, 100), ShouldEqual, 0)
		So(Percent(1, 3), ShouldEqual, 33)
		So(Percent(2, 3), ShouldEqual, 67)
		So(Percent(100, 100), ShouldEqual, 100)
		So(Percent(150, 100), ShouldEqual, 100)
		So(Percent(5, 0), ShouldEqual, 0)
		So(Percent(5, -1), ShouldEqual, 0)
	})
}
