package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/config"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/where"
	"golang.org/x/exp/slices"
)

// envVar pairs an environment variable with the setting it overrides.
type envVar struct {
	name, key string
}

func envVars() []envVar {
	vars := lo.MapToSlice(config.Default, func(k string, f config.Field) envVar {
		return envVar{name: f.Env(), key: k}
	})
	vars = append(vars, envVar{name: where.EnvConfigPath})

	slices.SortFunc(vars, func(a, b envVar) int {
		return strings.Compare(a.name, b.name)
	})

	return vars
}

// maskSecret keeps only enough of a credential to recognise it.
func maskSecret(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only list variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only list variables that are not set")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
			name      = style.New().Bold(true).Foreground(color.Purple).Render
		)

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			present = present && value != ""

			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			if v.key == key.BackendAPIKey {
				value = maskSecret(value)
			}

			shown := style.Fg(color.Red)("unset")
			if present {
				shown = style.Fg(color.Green)(value)
			}

			cmd.Printf("%s=%s", name(v.name), shown)
			if v.key != "" {
				cmd.Print(" " + style.Faint(v.key))
			}
			cmd.Println()
		}
	},
}
