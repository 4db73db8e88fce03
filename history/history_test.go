package history

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidgrab/vidgrab/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		older := &Record{
			URLs:         []string{"http://a"},
			Title:        "First",
			FormatID:     "18",
			Path:         "/downloads/first.mp4",
			Size:         10,
			DownloadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		newer := &Record{
			URLs:         []string{"http://a", "http://b"},
			Path:         "/downloads/download.zip",
			Archive:      true,
			DownloadedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		}

		Convey("When saving records", func() {
			So(Save(older), ShouldBeNil)
			So(Save(newer), ShouldBeNil)

			Convey("Then they should be listed newest first", func() {
				records, err := List()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].Path, ShouldEqual, newer.Path)
				So(records[1].Path, ShouldEqual, older.Path)
			})

			Convey("Then a record for the same path should replace the old one", func() {
				So(Save(&Record{URLs: []string{"http://c"}, Path: older.Path}), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldHaveLength, 2)
				So(saved[older.Path].URLs, ShouldResemble, []string{"http://c"})
				So(saved[older.Path].DownloadedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then a record can be removed", func() {
				So(Remove(older), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldHaveLength, 1)
			})
		})

		Convey("Records should describe themselves", func() {
			So(older.String(), ShouldEqual, "First")
			So(newer.String(), ShouldEqual, "archive of 2 URLs")
			So((&Record{URLs: []string{"http://x"}}).String(), ShouldEqual, "http://x")
		})
	})
}
