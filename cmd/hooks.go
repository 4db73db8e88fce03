// Package cmd implements the command-line interface for vidgrab.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/hook"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/where"
)

func init() {
	rootCmd.AddCommand(hooksCmd)
}

// hooksCmd manages the post-download Lua hook.
var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the Lua script run after each download",
	Long: fmt.Sprintf(`Manage the Lua script run after each download.

The script is %s inside the hooks directory (see "vidgrab where --hooks")
and must define OnDownload(path, url, format_id). It only runs when %s is true.`,
		hook.Filename, key.HooksEnable),
}

func init() {
	hooksCmd.AddCommand(hooksInitCmd)
}

var hooksInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter hook script and enable hooks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := hook.Scaffold()
		if errors.Is(err, os.ErrExist) {
			fmt.Printf("%s Hook already exists at %s\n", icon.Get(icon.Warn), path)
		} else {
			handleErr(err)
			printSuccess("hook created at %s", path)
		}

		if viper.GetBool(key.HooksEnable) {
			return
		}

		viper.Set(key.HooksEnable, true)
		handleErr(persistConfig())
		printSuccess("set %s to true", style.Fg(color.Purple)(key.HooksEnable))
	},
}

func init() {
	hooksCmd.AddCommand(hooksRunCmd)

	hooksRunCmd.Flags().StringP("path", "p", "/tmp/video.mp4", "Path passed to OnDownload")
	hooksRunCmd.Flags().StringP("url", "u", "https://example.com/watch?v=test", "URL passed to OnDownload")
	hooksRunCmd.Flags().StringP("format", "f", "", "Format id passed to OnDownload")
}

// hooksRunCmd calls a hook once with sample arguments, for script development.
var hooksRunCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Call OnDownload of a hook script with sample arguments",
	Long: `Load a Lua hook script and call its OnDownload function once.
Defaults to the installed hook. Useful for developing and debugging hooks.`,
	Args:    cobra.MaximumNArgs(1),
	Example: "  vidgrab hooks run ./on_download.lua --path ~/Downloads/video.mp4",
	Run: func(cmd *cobra.Command, args []string) {
		path := filepath.Join(where.Hooks(), hook.Filename)
		if len(args) == 1 {
			path = args[0]
		}

		h, err := hook.Load(path)
		handleErr(err)
		defer h.Close()

		handleErr(h.Run(cmd.Context(), hook.Event{
			Path:     lo.Must(cmd.Flags().GetString("path")),
			URL:      lo.Must(cmd.Flags().GetString("url")),
			FormatID: lo.Must(cmd.Flags().GetString("format")),
		}))
	},
}
