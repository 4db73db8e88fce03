package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidgrab/vidgrab/constant"
)

type fakeBackend struct {
	*httptest.Server
	calls   map[string]*atomic.Int32
	headers http.Header
	bodies  map[string]map[string]any
}

func newFakeBackend(batch bool) *fakeBackend {
	fb := &fakeBackend{
		calls: map[string]*atomic.Int32{
			EndpointInfo:      new(atomic.Int32),
			EndpointInfos:     new(atomic.Int32),
			EndpointDownload:  new(atomic.Int32),
			EndpointDownloads: new(atomic.Int32),
		},
		bodies: make(map[string]map[string]any),
	}

	mux := http.NewServeMux()
	record := func(w http.ResponseWriter, r *http.Request) bool {
		fb.calls[r.URL.Path].Add(1)
		fb.headers = r.Header.Clone()

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		fb.bodies[r.URL.Path] = body

		if r.Header.Get(constant.APIKeyHeader) == "wrong" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Invalid or missing API key"}`)
			return false
		}
		return true
	}

	mux.HandleFunc("POST "+EndpointInfo, func(w http.ResponseWriter, r *http.Request) {
		if !record(w, r) {
			return
		}
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		_, _ = io.WriteString(w, `{
			"id": "abc",
			"title": "Sample",
			"uploader": "someone",
			"duration": 63,
			"thumbnails": [{"url": "http://img/1.jpg"}, {"url": "http://img/2.jpg"}],
			"formats": [
				{"format_id": "18", "ext": "mp4", "format_note": "360p", "filesize": 1048576, "width": 640, "height": 360},
				{"format_id": "140", "ext": "m4a", "format_note": "audio", "filesize": null}
			]
		}`)
	})

	mux.HandleFunc("POST "+EndpointDownload, func(w http.ResponseWriter, r *http.Request) {
		if !record(w, r) {
			return
		}
		if fb.bodies[EndpointDownload]["url"] == "http://bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail":"Unsupported URL"}`)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="Sample.mp4"`)
		_, _ = io.WriteString(w, "video-bytes")
	})

	if batch {
		mux.HandleFunc("POST "+EndpointInfos, func(w http.ResponseWriter, r *http.Request) {
			if !record(w, r) {
				return
			}
			_, _ = io.WriteString(w, `[
				{"url": "http://a", "id": "a", "title": "A", "formats": [{"format_id": "1"}]},
				{"url": "http://b", "error": "Video unavailable"}
			]`)
		})
		mux.HandleFunc("POST "+EndpointDownloads, func(w http.ResponseWriter, r *http.Request) {
			if !record(w, r) {
				return
			}
			_, _ = io.WriteString(w, "zip-bytes")
		})
	}

	fb.Server = httptest.NewServer(mux)
	return fb
}

func TestInfo(t *testing.T) {
	Convey("Given a backend", t, func() {
		backend := newFakeBackend(false)
		defer backend.Close()

		client := New(backend.URL+"/", WithHTTPClient(backend.Client()))

		Convey("When requesting info for a URL", func() {
			info, err := client.Info(context.Background(), "http://video")

			Convey("Then the metadata should be decoded", func() {
				So(err, ShouldBeNil)
				So(info.ID, ShouldEqual, "abc")
				So(info.Title, ShouldEqual, "Sample")
				So(info.Duration, ShouldEqual, 63)
				So(info.Formats, ShouldHaveLength, 2)
				So(info.Formats[0].Filesize, ShouldEqual, 1048576)
				So(info.Formats[0].Resolution(), ShouldEqual, "640x360")
				So(info.Formats[1].Filesize, ShouldEqual, 0)
				So(info.Formats[1].Resolution(), ShouldBeEmpty)
			})

			Convey("Then the request should carry the URL and identifying headers", func() {
				So(backend.bodies[EndpointInfo]["url"], ShouldEqual, "http://video")
				So(backend.headers.Get("User-Agent"), ShouldEqual, constant.UserAgent)
				So(backend.headers.Get(constant.RequestIDHeader), ShouldNotBeEmpty)
				So(backend.headers.Get(constant.APIKeyHeader), ShouldBeEmpty)
			})

			Convey("Then the last thumbnail should be preferred", func() {
				So(info.Thumbnail().MustGet(), ShouldEqual, "http://img/2.jpg")
			})

			Convey("Then formats should be found by id", func() {
				f, ok := info.Format("140")
				So(ok, ShouldBeTrue)
				So(f.Ext, ShouldEqual, "m4a")

				_, ok = info.Format("nope")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the API key is rejected", func() {
			client := New(backend.URL, WithHTTPClient(backend.Client()), WithAPIKey("wrong"))
			_, err := client.Info(context.Background(), "http://video")

			Convey("Then the backend detail should be surfaced", func() {
				So(err, ShouldNotBeNil)
				So(Message(err), ShouldEqual, "Invalid or missing API key")

				apiErr, ok := err.(*Error)
				So(ok, ShouldBeTrue)
				So(apiErr.Status, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When an API key is configured", func() {
			client := New(backend.URL, WithHTTPClient(backend.Client()), WithAPIKey("secret"))
			_, err := client.Info(context.Background(), "http://video")

			Convey("Then it should be sent in the header", func() {
				So(err, ShouldBeNil)
				So(backend.headers.Get(constant.APIKeyHeader), ShouldEqual, "secret")
			})
		})
	})
}

func TestInfos(t *testing.T) {
	Convey("Given a backend with batch support", t, func() {
		backend := newFakeBackend(true)
		defer backend.Close()
		client := New(backend.URL, WithHTTPClient(backend.Client()))

		Convey("When requesting info for several URLs", func() {
			items, err := client.Infos(context.Background(), []string{"http://a", "http://b"})

			Convey("Then one request should be made and items decoded", func() {
				So(err, ShouldBeNil)
				So(backend.calls[EndpointInfos].Load(), ShouldEqual, 1)
				So(backend.calls[EndpointInfo].Load(), ShouldEqual, 0)
				So(backend.bodies[EndpointInfos]["urls"], ShouldResemble, []any{"http://a", "http://b"})
				So(items, ShouldHaveLength, 2)
				So(items[0].Title, ShouldEqual, "A")
				So(items[0].Failed(), ShouldBeFalse)
				So(items[1].Failed(), ShouldBeTrue)
				So(items[1].Error, ShouldEqual, "Video unavailable")
			})
		})
	})

	Convey("Given a backend without batch support", t, func() {
		backend := newFakeBackend(false)
		defer backend.Close()
		client := New(backend.URL, WithHTTPClient(backend.Client()))

		Convey("Batch requests should report ErrBatchUnsupported", func() {
			_, err := client.Infos(context.Background(), []string{"http://a"})
			So(err, ShouldEqual, ErrBatchUnsupported)

			_, err = client.DownloadArchive(context.Background(), []string{"http://a"})
			So(err, ShouldEqual, ErrBatchUnsupported)
		})
	})
}

func TestDownload(t *testing.T) {
	Convey("Given a backend", t, func() {
		backend := newFakeBackend(true)
		defer backend.Close()
		client := New(backend.URL, WithHTTPClient(backend.Client()))

		Convey("When downloading a single URL with a format", func() {
			payload, err := client.Download(context.Background(), "http://video", "18")
			So(err, ShouldBeNil)
			defer payload.Body.Close()

			Convey("Then the payload should carry the suggested filename and content", func() {
				So(payload.Filename, ShouldEqual, "Sample.mp4")
				So(payload.Size, ShouldEqual, len("video-bytes"))
				body, _ := io.ReadAll(payload.Body)
				So(string(body), ShouldEqual, "video-bytes")
				So(backend.bodies[EndpointDownload]["format_id"], ShouldEqual, "18")
			})
		})

		Convey("When downloading without a format", func() {
			payload, err := client.Download(context.Background(), "http://video", "")
			So(err, ShouldBeNil)
			defer payload.Body.Close()

			Convey("Then format_id should be omitted", func() {
				_, ok := backend.bodies[EndpointDownload]["format_id"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the backend rejects the URL", func() {
			_, err := client.Download(context.Background(), "http://bad", "")

			Convey("Then the detail should be returned", func() {
				So(Message(err), ShouldEqual, "Unsupported URL")
			})
		})

		Convey("When downloading an archive", func() {
			payload, err := client.DownloadArchive(context.Background(), []string{"http://a", "http://b"})
			So(err, ShouldBeNil)
			defer payload.Body.Close()

			Convey("Then the archive fallback filename should be used", func() {
				So(payload.Filename, ShouldEqual, constant.DefaultArchiveFilename)
				So(backend.calls[EndpointDownloads].Load(), ShouldEqual, 1)
			})
		})
	})
}

func TestDecodeError(t *testing.T) {
	Convey("Given error responses", t, func() {
		respond := func(status int, body string) *Error {
			rec := httptest.NewRecorder()
			rec.WriteHeader(status)
			_, _ = io.WriteString(rec, body)
			return decodeError(rec.Result())
		}

		Convey("A string detail should be used as-is", func() {
			So(respond(429, `{"detail":"Too many requests"}`).Error(), ShouldEqual, "Too many requests")
		})

		Convey("A structured detail should be kept as compact JSON", func() {
			err := respond(422, `{"detail": [ {"loc": ["body","url"], "msg": "field required"} ]}`)
			So(err.Detail, ShouldEqual, `[{"loc":["body","url"],"msg":"field required"}]`)
		})

		Convey("A missing detail should fall back to the status", func() {
			So(respond(500, `Internal Server Error`).Error(), ShouldEqual, "Request failed with status code 500")
			So(respond(502, ``).Error(), ShouldEqual, "Request failed with status code 502")
			So(respond(503, `{"detail":null}`).Error(), ShouldEqual, "Request failed with status code 503")
		})
	})
}
