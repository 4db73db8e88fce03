// Package cmd implements the command-line interface for vidgrab.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/inline"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/log"
	"github.com/vidgrab/vidgrab/query"
	"github.com/vidgrab/vidgrab/util"
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringP("format", "f", "", "Format to download: a format id, first, last, largest or smallest")
	downloadCmd.Flags().BoolP("all", "a", false, "Download every URL bundled into a single archive")
	downloadCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	downloadCmd.Flags().StringP("dir", "d", "", "Directory to save the download to")
	lo.Must0(viper.BindPFlag(key.DownloadsPath, downloadCmd.Flags().Lookup("dir")))
	downloadCmd.Flags().Bool("overwrite", false, "Overwrite an existing file with the same name")
	lo.Must0(viper.BindPFlag(key.DownloadsOverwrite, downloadCmd.Flags().Lookup("overwrite")))

	downloadCmd.MarkFlagsMutuallyExclusive("format", "all")
	lo.Must0(downloadCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"first", "last", "largest", "smallest"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

// downloadCmd saves a URL, or several URLs as an archive, into the downloads directory.
var downloadCmd = &cobra.Command{
	Use:   "download <url>...",
	Short: "Download a URL, or several URLs as an archive",
	Long: `Download media through the backend.

Without --format an interactive picker lists the available formats when
running in a terminal; otherwise the backend picks its default format.
With --all every URL is bundled by the backend into one archive.`,
	Example: `  vidgrab download https://www.youtube.com/watch?v=dQw4w9WgXcQ -f 18
  vidgrab download --all https://example.com/a https://example.com/b`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionURLs,
	PreRun: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("all")) && len(args) > 1 {
			handleErr(errors.New("several URLs require --all"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		deps, cleanup, err := newDeps()
		handleErr(err)
		defer cleanup()

		asJson := lo.Must(cmd.Flags().GetBool("json"))
		options := &inline.Options{
			URLs:    args,
			JSON:    asJson,
			Archive: lo.Must(cmd.Flags().GetBool("all")),
		}

		if selector := lo.Must(cmd.Flags().GetString("format")); selector != "" {
			picker, err := inline.ParseFormatPicker(selector)
			handleErr(err)
			options.FormatPicker = mo.Some(picker)
		} else if !options.Archive && !asJson && util.IsTerminal(os.Stdin) {
			options.FormatPicker = mo.Some[inline.FormatPicker](askFormat)
		}

		if err := query.Remember(args, 1); err != nil {
			log.Warnf("remember urls: %s", err)
		}

		handleErr(inline.Download(cmd.Context(), deps, options))
	},
}

// askFormat lets the user choose a format interactively.
func askFormat(formats []api.Format) (api.Format, error) {
	if len(formats) == 0 {
		return api.Format{}, inline.ErrNoFormats
	}

	labels := lo.Map(formats, func(f api.Format, _ int) string {
		parts := []string{f.FormatID, f.Ext}
		if f.FormatNote != "" {
			parts = append(parts, f.FormatNote)
		}
		if res := f.Resolution(); res != "" {
			parts = append(parts, res)
		}
		return fmt.Sprintf("%s (%s)", strings.Join(parts, " "), util.HumanFileSize(f.Filesize))
	})

	prompt := &survey.Select{
		Message:  "Choose a format:",
		Options:  labels,
		PageSize: 12,
	}

	var index int
	if err := survey.AskOne(prompt, &index); err != nil {
		return api.Format{}, err
	}

	return formats[index], nil
}
