// Package controller owns the interface state and drives requests to the backend.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/download"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/history"
	"github.com/vidgrab/vidgrab/hook"
	"github.com/vidgrab/vidgrab/log"
)

var (
	// ErrNoURLs is returned when an operation receives no non-blank URL.
	ErrNoURLs = errors.New("no URLs provided")

	// ErrBusy is returned when a request of the same kind is already in flight.
	ErrBusy = errors.New("a request is already in progress")
)

// Alert prefixes shown to the user.
const (
	FetchFailedPrefix    = "Error fetching info: "
	DownloadFailedPrefix = "Download failed: "
)

// Backend is the subset of the backend API the controller needs.
type Backend interface {
	Info(ctx context.Context, url string) (*api.MediaInfo, error)
	Infos(ctx context.Context, urls []string) ([]api.BatchItem, error)
	Download(ctx context.Context, url, formatID string) (*api.Payload, error)
	DownloadArchive(ctx context.Context, urls []string) (*api.Payload, error)
}

// Saver persists a downloaded payload and returns where it went.
type Saver interface {
	Save(ctx context.Context, payload *api.Payload, progress download.ProgressFunc) (string, error)
}

// Hook is notified after each saved download.
type Hook interface {
	Run(ctx context.Context, event hook.Event) error
}

// Options configures a Controller. Backend and Saver are required.
type Options struct {
	Backend Backend
	Saver   Saver

	// BatchMode is one of constant.BatchAuto, BatchAlways or BatchNever.
	BatchMode string
	// SaveHistory records completed downloads in the history store.
	SaveHistory bool
	Hook        Hook

	// OnChange receives a snapshot after every state mutation.
	OnChange func(State)
	// OnAlert receives user-facing failure messages.
	OnAlert func(string)
}

// Controller serializes state changes and issues backend requests.
// Info fetches and downloads are tracked independently, like the two kinds of buttons they back.
type Controller struct {
	opts Options

	mu    sync.RWMutex
	state State
}

// New returns a controller in the idle state.
func New(opts Options) *Controller {
	if opts.BatchMode == "" {
		opts.BatchMode = constant.BatchAuto
	}

	return &Controller{opts: opts}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// update applies fn under the lock and publishes the result.
func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state
	c.mu.Unlock()

	if c.opts.OnChange != nil {
		c.opts.OnChange(snapshot)
	}
}

func (c *Controller) alert(prefix string, err error) {
	msg := prefix + api.Message(err)
	log.Error(msg)

	if c.opts.OnAlert != nil {
		c.opts.OnAlert(msg)
	}
}

// begin flips a busy flag from false to true, failing with ErrBusy if it is already set.
func (c *Controller) begin(flag func(*State) *bool, init func(*State)) error {
	c.mu.Lock()
	if *flag(&c.state) {
		c.mu.Unlock()
		return ErrBusy
	}
	*flag(&c.state) = true
	init(&c.state)
	snapshot := c.state
	c.mu.Unlock()

	if c.opts.OnChange != nil {
		c.opts.OnChange(snapshot)
	}
	return nil
}

func loading(s *State) *bool     { return &s.Loading }
func downloading(s *State) *bool { return &s.Downloading }

// FetchInfo requests metadata for the URLs in input.
// More than one URL goes through the batch endpoint; per-item failures stay on their BatchItem.
// A single URL goes through the single-info endpoint exactly once.
// Loading is cleared on every exit path.
func (c *Controller) FetchInfo(ctx context.Context, input string) error {
	urls := ParseURLs(input)
	if len(urls) == 0 {
		c.alert(FetchFailedPrefix, ErrNoURLs)
		return ErrNoURLs
	}

	err := c.begin(loading, func(s *State) {
		s.Input = input
		s.URLs = urls
		s.Info = nil
		s.Batch = nil
	})
	if err != nil {
		return err
	}
	defer c.update(func(s *State) {
		s.Loading = false
	})

	if len(urls) == 1 {
		info, err := c.opts.Backend.Info(ctx, urls[0])
		if err != nil {
			c.alert(FetchFailedPrefix, err)
			return err
		}

		c.update(func(s *State) {
			s.Info = info
		})
		return nil
	}

	items, err := c.fetchBatch(ctx, urls)
	if err != nil {
		c.alert(FetchFailedPrefix, err)
		return err
	}

	c.update(func(s *State) {
		s.Batch = items
	})
	return nil
}

func (c *Controller) fetchBatch(ctx context.Context, urls []string) ([]api.BatchItem, error) {
	if c.opts.BatchMode != constant.BatchNever {
		items, err := c.opts.Backend.Infos(ctx, urls)
		switch {
		case err == nil:
			return items, nil
		case errors.Is(err, api.ErrBatchUnsupported) && c.opts.BatchMode == constant.BatchAuto:
			log.Warn("batch info unsupported by backend, falling back to sequential requests")
		default:
			return nil, err
		}
	}

	items := make([]api.BatchItem, 0, len(urls))
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := c.opts.Backend.Info(ctx, url)
		if err != nil {
			items = append(items, api.BatchItem{URL: url, Error: api.Message(err)})
			continue
		}

		items = append(items, api.BatchItem{URL: url, MediaInfo: *info})
	}

	return items, nil
}

// DownloadSingle downloads one URL in the given format and saves it.
// Downloading and Progress are reset on every exit path.
func (c *Controller) DownloadSingle(ctx context.Context, url, formatID string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		c.alert(DownloadFailedPrefix, ErrNoURLs)
		return "", ErrNoURLs
	}

	return c.download(ctx, []string{url}, formatID, false, func() (*api.Payload, error) {
		return c.opts.Backend.Download(ctx, url, formatID)
	})
}

// DownloadAll downloads several URLs bundled into a single archive and saves it.
// An empty URL list fails without issuing a request.
func (c *Controller) DownloadAll(ctx context.Context, urls []string) (string, error) {
	urls = ParseURLs(strings.Join(urls, "\n"))
	if len(urls) == 0 {
		c.alert(DownloadFailedPrefix, ErrNoURLs)
		return "", ErrNoURLs
	}

	if c.opts.BatchMode == constant.BatchNever {
		c.alert(DownloadFailedPrefix, api.ErrBatchUnsupported)
		return "", api.ErrBatchUnsupported
	}

	return c.download(ctx, urls, "", true, func() (*api.Payload, error) {
		return c.opts.Backend.DownloadArchive(ctx, urls)
	})
}

func (c *Controller) download(ctx context.Context, urls []string, formatID string, archive bool, request func() (*api.Payload, error)) (string, error) {
	err := c.begin(downloading, func(s *State) {
		s.Progress = 0
	})
	if err != nil {
		return "", err
	}
	defer c.update(func(s *State) {
		s.Downloading = false
		s.Progress = 0
	})

	payload, err := request()
	if err != nil {
		c.alert(DownloadFailedPrefix, err)
		return "", err
	}

	path, err := c.opts.Saver.Save(ctx, payload, func(percent int) {
		c.update(func(s *State) {
			s.Progress = percent
		})
	})
	if err != nil {
		c.alert(DownloadFailedPrefix, err)
		return "", err
	}

	// The download is over once the file is on disk; the hook may run for a while.
	c.update(func(s *State) {
		s.LastSaved = path
		s.Downloading = false
		s.Progress = 0
	})

	c.afterSave(ctx, urls, formatID, archive, path)
	return path, nil
}

// afterSave records history and runs the hook. Failures here never fail the download.
func (c *Controller) afterSave(ctx context.Context, urls []string, formatID string, archive bool, path string) {
	if c.opts.SaveHistory {
		record := &history.Record{
			URLs:     urls,
			Title:    c.titleFor(urls),
			FormatID: formatID,
			Path:     path,
			Archive:  archive,
		}
		if stat, err := filesystem.API().Stat(path); err == nil {
			record.Size = stat.Size()
		}

		if err := history.Save(record); err != nil {
			log.Warnf("save history: %s", err)
		}
	}

	if c.opts.Hook != nil {
		event := hook.Event{
			Path:     path,
			URL:      strings.Join(urls, "\n"),
			FormatID: formatID,
		}
		if err := c.opts.Hook.Run(ctx, event); err != nil {
			log.Warnf("run download hook: %s", err)
		}
	}
}

// titleFor finds the fetched title of a single URL.
func (c *Controller) titleFor(urls []string) string {
	if len(urls) != 1 {
		return ""
	}

	state := c.Snapshot()
	if state.Info != nil && len(state.URLs) == 1 && state.URLs[0] == urls[0] {
		return state.Info.Title
	}

	item, ok := lo.Find(state.Batch, func(item api.BatchItem) bool {
		return item.URL == urls[0]
	})
	if ok {
		return item.Title
	}

	return ""
}
