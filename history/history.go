// Package history keeps a persistent record of completed downloads.
package history

import (
	"fmt"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/where"
	"golang.org/x/exp/slices"
)

// Record is one completed download.
type Record struct {
	URLs         []string  `json:"urls"`
	Title        string    `json:"title,omitempty"`
	FormatID     string    `json:"format_id,omitempty"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	Archive      bool      `json:"archive"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

func (r *Record) encode() string {
	return r.Path
}

func (r *Record) String() string {
	if r.Title != "" {
		return r.Title
	}
	if r.Archive {
		return fmt.Sprintf("archive of %d URLs", len(r.URLs))
	}
	return lo.FirstOr(r.URLs, r.Path)
}

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every stored record keyed by its file path.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// List returns stored records, newest first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	slices.SortFunc(records, func(a, b *Record) int {
		return b.DownloadedAt.Compare(a.DownloadedAt)
	})

	return records, nil
}

// Save stores a record. A later download to the same path replaces the earlier one.
func Save(record *Record) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	if record.DownloadedAt.IsZero() {
		record.DownloadedAt = time.Now()
	}

	saved[record.encode()] = record
	return cacher.Set(saved)
}

// Remove deletes a single record.
func Remove(record *Record) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, record.encode())
	return cacher.Set(saved)
}

// Clear deletes every record.
func Clear() error {
	return cacher.Set(make(map[string]*Record))
}
