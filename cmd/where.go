package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/where"
)

// location is a directory printed by "vidgrab where".
// Hidden locations are only reachable through their flag.
type location struct {
	title, flag, short string
	path               func() string
	hidden             bool
}

var locations = []location{
	{title: "Config", flag: "config", short: "c", path: where.Config},
	{title: "Downloads", flag: "downloads", short: "d", path: where.Downloads},
	{title: "Hooks", flag: "hooks", short: "k", path: where.Hooks},
	{title: "Logs", flag: "logs", short: "l", path: where.Logs},
	{title: "Cache", flag: "cache", path: where.Cache, hidden: true},
	{title: "History", flag: "history", path: where.History, hidden: true},
	{title: "URLs", flag: "urls", path: where.URLs, hidden: true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short, false, "Print only the "+l.title+" path")
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the directories vidgrab reads and writes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		title := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(locations, func(l location, _ int) bool { return l.hidden })

		for i, l := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", title(l.title+"?"), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(l.path())
		}
	},
}
