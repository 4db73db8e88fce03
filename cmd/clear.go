package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/util"
	"github.com/vidgrab/vidgrab/where"
)

// clearable lists the stores "vidgrab clear" can wipe.
var clearable = []location{
	{title: "cache directory", flag: "cache", short: "c", path: where.Cache},
	{title: "download history", flag: "history", short: "s", path: where.History},
	{title: "recent URLs", flag: "urls", short: "u", path: where.URLs},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, l := range clearable {
		clearCmd.Flags().BoolP(l.flag, l.short, false, "Clear the "+l.title)
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached data, history or recent URLs",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(clearable, func(l location, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, l := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), l.title))
			err := filesystem.API().RemoveAll(l.path())
			erase()
			handleErr(err)

			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(l.title))
		}
	},
}
