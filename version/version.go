// Package version provides unified mechanisms for application version tracking, update discovery, and compatibility validation.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/network"
	"github.com/vidgrab/vidgrab/util"
	"github.com/vidgrab/vidgrab/where"
)

// ReleasesURL is the GitHub API endpoint describing the latest release.
var ReleasesURL = "https://api.github.com/repos/vidgrab/vidgrab/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the most recent released version, cached for two days.
func Latest() (version string, err error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleasesURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := network.New().Do(req)
	if err != nil {
		return "", err
	}

	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err = json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	version = strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(version)
	return version, nil
}
