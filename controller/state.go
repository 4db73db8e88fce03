package controller

import (
	"strings"

	"github.com/samber/lo"
	"github.com/vidgrab/vidgrab/api"
)

// State is what the interface renders. Only the controller mutates it;
// everyone else works on copies returned by Snapshot.
type State struct {
	// Input is the raw text the last fetch was made with.
	Input string
	// URLs are the parsed, non-blank lines of Input.
	URLs []string

	Loading     bool
	Downloading bool
	// Progress of the running download in [0, 100]. Zero while idle.
	Progress int

	// Info is set after a single-URL fetch, Batch after a multi-URL fetch. Never both.
	Info  *api.MediaInfo
	Batch []api.BatchItem

	// LastSaved is the path of the most recently saved file.
	LastSaved string
}

// Busy reports whether a request of either kind is in flight.
func (s State) Busy() bool {
	return s.Loading || s.Downloading
}

// HasResult reports whether fetched info is available.
func (s State) HasResult() bool {
	return s.Info != nil || len(s.Batch) > 0
}

// ParseURLs splits newline-separated input into trimmed, non-blank URLs.
func ParseURLs(input string) []string {
	lines := strings.FieldsFunc(input, func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	return lo.Compact(lo.Map(lines, func(line string, _ int) string {
		return strings.TrimSpace(line)
	}))
}
