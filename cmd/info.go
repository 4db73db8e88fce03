// Package cmd implements the command-line interface for vidgrab.
package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/inline"
	"github.com/vidgrab/vidgrab/log"
	"github.com/vidgrab/vidgrab/query"
)

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	infoCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
}

// infoCmd prints the formats available for one or more URLs.
var infoCmd = &cobra.Command{
	Use:   "info <url>...",
	Short: "Display the formats available for one or more URLs",
	Long: `Request media information from the backend.

A single URL uses the info endpoint. Several URLs are resolved in one batch
request; URLs the backend could not resolve are reported next to the others.`,
	Example:           "  vidgrab info https://www.youtube.com/watch?v=dQw4w9WgXcQ --json",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionURLs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, cleanup, err := newDeps()
		handleErr(err)
		defer cleanup()

		writer, closer := outputWriter(lo.Must(cmd.Flags().GetString("output")))
		defer closer()

		if err := query.Remember(args, 1); err != nil {
			log.Warnf("remember urls: %s", err)
		}

		handleErr(inline.Info(cmd.Context(), deps, &inline.Options{
			Out:  writer,
			URLs: args,
			JSON: lo.Must(cmd.Flags().GetBool("json")),
		}))
	},
}

// outputWriter opens path for writing, or returns stdout when path is empty.
func outputWriter(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stdout, func() {}
	}

	file, err := filesystem.API().Create(path)
	handleErr(err)
	return file, func() {
		_ = file.Close()
	}
}

func init() {
	infoCmd.AddCommand(infoSchemaCmd)

	infoSchemaCmd.Flags().BoolP("download", "d", false, "Generate the JSON Schema for download results")
}

// infoSchemaCmd generates JSON schemas for structured outputs.
var infoSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for structured command outputs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "item", "output", "saved":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("download")):
			schema = reflector.Reflect(&inline.Saved{})
		default:
			schema = reflector.Reflect(&inline.Output{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
