// Package cmd implements the command-line interface for vidgrab.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/log"
	"github.com/vidgrab/vidgrab/query"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/tui"
	"github.com/vidgrab/vidgrab/version"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("backend", "B", "", "Base URL of the download backend")
	lo.Must0(viper.BindPFlag(key.BackendURL, rootCmd.PersistentFlags().Lookup("backend")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record completed downloads in the history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnDownload, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.Flags().BoolP("history", "r", false, "Open the download history")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd launches the interactive interface.
var rootCmd = &cobra.Command{
	Use:   constant.App + " [url]...",
	Short: "A terminal client for a media download backend",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal client for a media download backend"),
	ValidArgsFunction: completionURLs,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		deps, cleanup, err := newDeps()
		handleErr(err)
		defer cleanup()

		options := tui.Options{
			History: lo.Must(cmd.Flags().GetBool("history")),
			Input:   strings.Join(args, "\n"),
		}
		handleErr(tui.Run(cmd.Context(), deps, &options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func completionURLs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
