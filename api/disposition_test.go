package api

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFilenameFromDisposition(t *testing.T) {
	Convey("Given Content-Disposition headers", t, func() {
		Convey("A quoted filename should be extracted", func() {
			So(FilenameFromDisposition(`attachment; filename="My Video.mp4"`, "download"), ShouldEqual, "My Video.mp4")
		})

		Convey("An unquoted filename should be extracted", func() {
			So(FilenameFromDisposition(`attachment; filename=clip.webm`, "download"), ShouldEqual, "clip.webm")
		})

		Convey("An RFC 5987 encoded filename should be decoded", func() {
			So(FilenameFromDisposition(`attachment; filename*=UTF-8''caf%C3%A9.mp4`, "download"), ShouldEqual, "café.mp4")
		})

		Convey("A malformed header should still yield the filename", func() {
			So(FilenameFromDisposition(`attachment; filename=two words.mp4; size=1`, "download"), ShouldEqual, "two words.mp4")
		})

		Convey("A header without a filename should use the fallback", func() {
			So(FilenameFromDisposition(`attachment`, "download"), ShouldEqual, "download")
			So(FilenameFromDisposition(`inline; name="x"`, "download.zip"), ShouldEqual, "download.zip")
		})

		Convey("A missing header should use the fallback", func() {
			So(FilenameFromDisposition("", "download"), ShouldEqual, "download")
		})
	})
}
