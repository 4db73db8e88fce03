// Package cmd implements the command-line interface for vidgrab.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/config"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/where"
)

func errUnknownKey(k string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(k),
		style.Fg(color.Yellow)(closest),
	)
}

// lookupField resolves a key given either positionally or through --key.
func lookupField(cmd *cobra.Command, args []string) config.Field {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		k = args[0]
	}

	if k == "" {
		handleErr(errors.New("key is required as an argument or --key flag"))
	}

	field, ok := config.Default[k]
	if !ok {
		handleErr(errUnknownKey(k))
	}

	return field
}

func configFile() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

// persistConfig writes the in-memory settings, creating the file on first use.
func persistConfig() error {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return viper.SafeWriteConfig()
	}
	return err
}

func printSuccess(format string, a ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, a...))
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Only describe these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)

		if keys := lo.Must(cmd.Flags().GetStringSlice("key")); len(keys) > 0 {
			fields = lo.Map(keys, func(k string, _ int) config.Field {
				field, ok := config.Default[k]
				if !ok {
					handleErr(errUnknownKey(k))
				}
				return field
			})
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		pretty := lo.Map(fields, func(f config.Field, _ int) string {
			return f.Pretty()
		})
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(pretty, "\n\n"))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to change")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "New value")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]...",
	Short:             "Change a setting and save it to the config file",
	Example:           "  vidgrab config set backend.url https://dl.example.com",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(cmd, args)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}

		value, err := field.Parse(raw)
		handleErr(err)

		viper.Set(field.Key, value)
		handleErr(persistConfig())

		printSuccess("set %s to %s", style.Fg(color.Purple)(field.Key), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the effective value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), viper.Get(lookupField(cmd, args).Key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			err := filesystem.API().Remove(configFile())
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		printSuccess("wrote config to %s", configFile())
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove"},
	Short:   "Delete the config file",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		printSuccess("deleted config")
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().StringP("key", "k", "", "Key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every setting")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	configResetCmd.MarkFlagsOneRequired("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore settings to their default values",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, field := range config.Default {
				viper.Set(k, field.Value)
			}
			handleErr(persistConfig())
			printSuccess("reset all config values")
			return
		}

		field := lookupField(cmd, nil)
		viper.Set(field.Key, field.Value)
		handleErr(persistConfig())
		printSuccess("reset %s to %s", style.Fg(color.Purple)(field.Key), style.Fg(color.Yellow)(fmt.Sprint(field.Value)))
	},
}
