// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/vidgrab/vidgrab/controller"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/log"
)

func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Progress == nil {
		o.Progress = os.Stderr
	}
}

// session wraps a controller so that its alerts become the returned errors.
type session struct {
	ctrl  *controller.Controller
	alert string
}

func newSession(deps controller.Options, onChange func(controller.State)) *session {
	s := &session{}
	deps.OnAlert = func(msg string) {
		s.alert = msg
	}
	deps.OnChange = onChange
	s.ctrl = controller.New(deps)
	return s
}

// failure prefers the alert text, which carries the backend detail and the failure prefix.
func (s *session) failure(err error) error {
	if s.alert != "" {
		return errors.New(s.alert)
	}
	return err
}

// Info fetches metadata for options.URLs and writes it as a table or JSON.
// Per-item batch failures are part of the output, not an error.
func Info(ctx context.Context, deps controller.Options, options *Options) error {
	options.defaults()

	s := newSession(deps, nil)
	if err := s.ctrl.FetchInfo(ctx, strings.Join(options.URLs, "\n")); err != nil {
		return s.failure(err)
	}

	output := outputOf(s.ctrl.Snapshot())
	log.Infof("fetched info for %d items", len(output.Result))

	if options.JSON {
		return writeJson(options.Out, output)
	}

	return writeTable(options.Out, output)
}

// Download saves one URL, or all URLs as an archive, and writes where the file went.
func Download(ctx context.Context, deps controller.Options, options *Options) error {
	options.defaults()

	if options.Archive {
		return downloadAll(ctx, deps, options)
	}

	if len(options.URLs) != 1 {
		return fmt.Errorf("expected exactly one URL, got %d", len(options.URLs))
	}

	url := options.URLs[0]
	s := newSession(deps, progressPrinter(options))

	var formatID string
	if pick, ok := options.FormatPicker.Get(); ok {
		if err := s.ctrl.FetchInfo(ctx, url); err != nil {
			return s.failure(err)
		}

		format, err := pick(s.ctrl.Snapshot().Info.Formats)
		if err != nil {
			return err
		}
		formatID = format.FormatID
	}

	path, err := s.ctrl.DownloadSingle(ctx, url, formatID)
	if err != nil {
		return s.failure(err)
	}

	return writeSaved(options, &Saved{Path: path, URLs: options.URLs, FormatID: formatID})
}

func downloadAll(ctx context.Context, deps controller.Options, options *Options) error {
	s := newSession(deps, progressPrinter(options))

	path, err := s.ctrl.DownloadAll(ctx, options.URLs)
	if err != nil {
		return s.failure(err)
	}

	return writeSaved(options, &Saved{Path: path, URLs: options.URLs, Archive: true})
}

func writeSaved(options *Options, saved *Saved) error {
	if options.JSON {
		return writeJson(options.Out, saved)
	}

	_, err := fmt.Fprintf(options.Out, "%s Saved to %s\n", icon.Get(icon.Success), saved.Path)
	return err
}

// progressPrinter redraws a progress bar on each percentage change.
// Nothing is drawn while the size is unknown.
func progressPrinter(options *Options) func(controller.State) {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	last := 0
	drawn := false

	return func(s controller.State) {
		switch {
		case s.Downloading && s.Progress != last && s.Progress > 0:
			last = s.Progress
			drawn = true
			_, _ = fmt.Fprintf(options.Progress, "\r%s %s %3d%%", icon.Get(icon.Download), bar.ViewAs(float64(s.Progress)/100), s.Progress)
		case !s.Downloading && drawn:
			drawn = false
			last = 0
			_, _ = fmt.Fprintln(options.Progress)
		}
	}
}
