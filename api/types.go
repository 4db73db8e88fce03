// Package api provides a client for the media download backend.
package api

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Thumbnail is a preview image of a media item.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Format is one encoding/container variant of a media item.
type Format struct {
	// FormatID is assigned by the backend and unique within a MediaInfo.
	FormatID   string `json:"format_id" jsonschema:"required"`
	Ext        string `json:"ext"`
	FormatNote string `json:"format_note"`
	// Filesize in bytes, zero when the backend does not know it.
	Filesize int64  `json:"filesize,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	ACodec   string `json:"acodec"`
	VCodec   string `json:"vcodec"`
}

// Resolution returns "WxH" for video formats and an empty string otherwise.
func (f Format) Resolution() string {
	if f.Width == 0 || f.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}

// MediaInfo is the metadata of a single media item.
type MediaInfo struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Uploader   string      `json:"uploader"`
	Duration   float64     `json:"duration"`
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
	Formats    []Format    `json:"formats,omitempty"`
}

// Thumbnail returns the last listed thumbnail, which the backend orders by preference.
func (m *MediaInfo) Thumbnail() mo.Option[string] {
	if m == nil || len(m.Thumbnails) == 0 {
		return mo.None[string]()
	}
	return mo.Some(m.Thumbnails[len(m.Thumbnails)-1].URL)
}

// Format looks up a format by its identifier.
func (m *MediaInfo) Format(id string) (Format, bool) {
	if m == nil {
		return Format{}, false
	}
	return lo.Find(m.Formats, func(f Format) bool {
		return f.FormatID == id
	})
}

// BatchItem is the result for one URL of a multi-URL info request.
// When Error is set the item carries no formats.
type BatchItem struct {
	URL string `json:"url"`
	MediaInfo
	Error string `json:"error,omitempty"`
}

// Failed reports whether the backend could not resolve this URL.
func (b *BatchItem) Failed() bool {
	return b.Error != ""
}

type infoRequest struct {
	URL string `json:"url"`
}

type infosRequest struct {
	URLs []string `json:"urls"`
}

type downloadRequest struct {
	URL      string `json:"url"`
	FormatID string `json:"format_id,omitempty"`
}
