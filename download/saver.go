// Package download persists files streamed from the backend.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/log"
	"github.com/vidgrab/vidgrab/util"
	"github.com/vidgrab/vidgrab/where"
)

const partSuffix = ".part"

// ErrNoSpace is returned when the downloads directory cannot hold the payload.
var ErrNoSpace = errors.New("not enough disk space")

// maxDuplicates bounds the search for a free "name (n).ext" path.
const maxDuplicates = 10_000

// Saver writes payloads into a target directory.
type Saver struct {
	Dir       string
	Overwrite bool

	// FreeSpace reports the bytes available in a directory. Nil skips the check.
	FreeSpace func(dir string) (uint64, error)
}

// NewSaver returns a Saver for the configured downloads directory.
func NewSaver() *Saver {
	return &Saver{
		Dir:       where.Downloads(),
		Overwrite: viper.GetBool(key.DownloadsOverwrite),
		FreeSpace: diskFree,
	}
}

func diskFree(dir string) (uint64, error) {
	usage, err := disk.Usage(dir)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// checkSpace fails when the payload size is known and larger than the free space.
// A failing check is only logged.
func (s *Saver) checkSpace(size int64) error {
	if s.FreeSpace == nil || size <= 0 {
		return nil
	}

	free, err := s.FreeSpace(s.Dir)
	if err != nil {
		log.Warnf("check free space in %s: %s", s.Dir, err)
		return nil
	}

	if uint64(size) > free {
		return fmt.Errorf("%w: need %s, %s available", ErrNoSpace, util.HumanFileSize(size), util.HumanFileSize(int64(free)))
	}

	return nil
}

// Save streams the payload body to disk and returns the final path.
// Data is written to a ".part" file first and only renamed once complete,
// so a failed transfer never leaves a truncated file under the real name.
func (s *Saver) Save(ctx context.Context, payload *api.Payload, progress ProgressFunc) (string, error) {
	defer payload.Body.Close()

	fs := filesystem.API()
	if err := fs.MkdirAll(s.Dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create downloads directory: %w", err)
	}

	if err := s.checkSpace(payload.Size); err != nil {
		return "", err
	}

	name := util.SanitizeFilename(payload.Filename)
	if name == "" {
		name = constant.DefaultFilename
	}

	target, err := s.target(fs, name)
	if err != nil {
		return "", err
	}

	part := target + partSuffix
	file, err := fs.Create(part)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", part, err)
	}

	written, err := copyWithContext(ctx, io.MultiWriter(file, newCounter(payload.Size, progress)), payload.Body)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = fs.Remove(part)
		return "", fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}

	if payload.Size > 0 && written != payload.Size {
		_ = fs.Remove(part)
		return "", fmt.Errorf("incomplete download: received %s of %s", util.HumanFileSize(written), util.HumanFileSize(payload.Size))
	}

	if s.Overwrite {
		_ = fs.Remove(target)
	}

	if err := fs.Rename(part, target); err != nil {
		_ = fs.Remove(part)
		return "", fmt.Errorf("rename %s: %w", filepath.Base(target), err)
	}

	log.WithFields(log.Fields{
		"path": target,
		"size": written,
	}).Info("saved download")

	return target, nil
}

// target resolves the destination path, appending " (n)" before the extension
// when the name is taken and overwriting is disabled.
func (s *Saver) target(fs afero.Afero, name string) (string, error) {
	path := filepath.Join(s.Dir, name)
	if s.Overwrite {
		return path, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxDuplicates; i++ {
		candidate := path
		if i > 0 {
			candidate = filepath.Join(s.Dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		}

		exists, err := fs.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", errors.New("too many files named " + name)
}

// copyWithContext copies src to dst, stopping early when ctx is cancelled.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			w, err := dst.Write(buf[:n])
			written += int64(w)
			if err != nil {
				return written, err
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}

		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
