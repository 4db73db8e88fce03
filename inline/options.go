// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidgrab/vidgrab/api"
)

// ErrNoFormats is returned when a picker is given nothing to choose from.
var ErrNoFormats = errors.New("media has no formats")

// FormatPicker chooses the format to download.
type FormatPicker func([]api.Format) (api.Format, error)

// Options configures Info and Download.
type Options struct {
	// Out receives the result. Defaults to os.Stdout.
	Out io.Writer
	// Progress receives download progress lines. Defaults to os.Stderr.
	Progress io.Writer

	URLs []string
	JSON bool

	// Archive downloads all URLs as a single archive.
	Archive bool
	// FormatPicker selects a format from the fetched info. None lets the backend choose.
	FormatPicker mo.Option[FormatPicker]
}

// ParseFormatPicker builds a picker from a selector: first, last, largest, smallest or a format id.
func ParseFormatPicker(selector string) (FormatPicker, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, errors.New("empty format selector")
	}

	nonEmpty := func(pick func([]api.Format) api.Format) FormatPicker {
		return func(formats []api.Format) (api.Format, error) {
			if len(formats) == 0 {
				return api.Format{}, ErrNoFormats
			}
			return pick(formats), nil
		}
	}

	switch selector {
	case "first":
		return nonEmpty(func(formats []api.Format) api.Format {
			return formats[0]
		}), nil
	case "last":
		return nonEmpty(func(formats []api.Format) api.Format {
			return formats[len(formats)-1]
		}), nil
	case "largest":
		return nonEmpty(func(formats []api.Format) api.Format {
			return lo.MaxBy(formats, func(a, b api.Format) bool {
				return a.Filesize > b.Filesize
			})
		}), nil
	case "smallest":
		// formats of unknown size are never the smallest
		return nonEmpty(func(formats []api.Format) api.Format {
			known := lo.Filter(formats, func(f api.Format, _ int) bool {
				return f.Filesize > 0
			})
			if len(known) == 0 {
				return formats[0]
			}
			return lo.MinBy(known, func(a, b api.Format) bool {
				return a.Filesize < b.Filesize
			})
		}), nil
	default:
		return func(formats []api.Format) (api.Format, error) {
			format, ok := lo.Find(formats, func(f api.Format) bool {
				return f.FormatID == selector
			})
			if !ok {
				return api.Format{}, fmt.Errorf("format not found: %s", selector)
			}
			return format, nil
		}, nil
	}
}
