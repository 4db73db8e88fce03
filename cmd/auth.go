// Package cmd implements the command-line interface for vidgrab.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/auth"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/style"
	"github.com/zalando/go-keyring"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages the backend API key.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API key sent to the backend",
	Long: `Manage the API key sent to the backend in the X-API-KEY header.

The key is kept in the system keyring. A non-empty backend.api_key
configuration value takes precedence over it.`,
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().StringP("key", "k", "", "The API key. Prompted for when omitted")
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the backend API key in the system keyring",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		apiKey := lo.Must(cmd.Flags().GetString("key"))

		if apiKey == "" {
			input := survey.Password{
				Message: "Backend API key:",
			}
			handleErr(survey.AskOne(&input, &apiKey))
		}

		apiKey = strings.TrimSpace(apiKey)
		if apiKey == "" {
			handleErr(errors.New("API key is empty"))
		}

		handleErr(auth.SetAPIKey(apiKey))
		fmt.Printf("%s API key saved to the system keyring\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove"},
	Short:   "Remove the backend API key from the system keyring",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := auth.DeleteAPIKey()
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("%s No API key stored\n", icon.Get(icon.Warn))
			return
		}

		handleErr(err)
		fmt.Printf("%s API key removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the backend API key comes from",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case viper.GetString(key.BackendAPIKey) != "":
			fmt.Printf("%s Using the API key from %s\n", icon.Get(icon.Success), style.Fg(color.Purple)(key.BackendAPIKey))
		case auth.APIKey() != "":
			fmt.Printf("%s Using the API key from the system keyring\n", icon.Get(icon.Success))
		default:
			fmt.Printf("%s No API key configured, requests are sent without one\n", icon.Get(icon.Warn))
		}
	},
}
