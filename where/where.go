// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/key"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "VIDGRAB_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// XDG_CONFIG_HOME is honored on Linux, and the user profile config dir is used on Darwin and Windows.
// Direct override: The path resolution can be explicitly specified via the VIDGRAB_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Hooks resolves the directory holding user Lua hooks.
func Hooks() string {
	return ensureDir(filepath.Join(Config(), "hooks"))
}

// Downloads resolves the directory downloaded files are saved to.
// The downloads.path setting wins; otherwise ~/Downloads is used, then the working directory.
func Downloads() string {
	if custom := viper.GetString(key.DownloadsPath); custom != "" {
		return ensureDir(custom)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ensureDir(".")
	}
	return ensureDir(filepath.Join(home, "Downloads"))
}

// History resolves the absolute path to the download history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// URLs resolves the absolute path to the registry of previously used URLs.
func URLs() string {
	return filepath.Join(Cache(), "urls.json")
}
