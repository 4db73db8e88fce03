// Package cmd implements the command-line interface for vidgrab.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/history"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/open"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON array")
	historyCmd.Flags().IntP("open", "o", -1, "Open the download with the given index")
	historyCmd.Flags().IntP("reveal", "r", -1, "Open the directory of the download with the given index")
	historyCmd.MarkFlagsMutuallyExclusive("json", "open", "reveal")

	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists completed downloads, newest first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed downloads",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.List()
		handleErr(err)

		pick := func(flag string) (*history.Record, bool) {
			index := lo.Must(cmd.Flags().GetInt(flag))
			if index < 0 {
				return nil, false
			}
			if index >= len(records) {
				handleErr(fmt.Errorf("no download with index %d", index))
			}
			return records[index], true
		}

		if record, ok := pick("open"); ok {
			handleErr(open.Start(record.Path))
			return
		}

		if record, ok := pick("reveal"); ok {
			handleErr(open.Reveal(record.Path))
			return
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No downloads yet"))
			return
		}

		for i, record := range records {
			mark := lo.Ternary(record.Archive, icon.Get(icon.Archive), icon.Get(icon.Download))
			cmd.Printf(
				"%s %s %s\n  %s\n",
				style.Fg(color.Yellow)(fmt.Sprintf("[%d]", i)),
				mark,
				style.Bold(record.String()),
				style.Faint(fmt.Sprintf(
					"%s • %s • %s",
					record.DownloadedAt.Format("2006-01-02 15:04"),
					util.HumanFileSize(record.Size),
					record.Path,
				)),
			)
		}
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recorded download",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(history.Clear())
		fmt.Printf("%s History cleared\n", icon.Get(icon.Success))
	},
}
