// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"encoding/json"
	"io"

	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/controller"
)

// Item is the outcome for one requested URL.
type Item struct {
	URL   string         `json:"url" jsonschema:"required"`
	Info  *api.MediaInfo `json:"info,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Output is the document written by "info --json".
type Output struct {
	Result []*Item `json:"result"`
}

// Saved is the document written by "download --json".
type Saved struct {
	Path     string   `json:"path" jsonschema:"required"`
	URLs     []string `json:"urls"`
	FormatID string   `json:"format_id,omitempty"`
	Archive  bool     `json:"archive"`
}

// outputOf converts a controller snapshot into items in request order.
func outputOf(s controller.State) *Output {
	if s.Info != nil {
		return &Output{Result: []*Item{{URL: s.URLs[0], Info: s.Info}}}
	}

	result := make([]*Item, len(s.Batch))
	for i := range s.Batch {
		item := &s.Batch[i]
		result[i] = &Item{URL: item.URL, Error: item.Error}
		if !item.Failed() {
			info := item.MediaInfo
			result[i].Info = &info
		}
	}

	return &Output{Result: result}
}

func writeJson(out io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = out.Write(append(data, '\n'))
	return err
}
