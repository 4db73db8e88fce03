// Package cmd implements the command-line interface for vidgrab.
package cmd

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/auth"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/controller"
	"github.com/vidgrab/vidgrab/download"
	"github.com/vidgrab/vidgrab/hook"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/network"
)

// newDeps wires the backend client, saver and hook from configuration.
// The returned cleanup releases the hook's Lua state.
func newDeps() (controller.Options, func(), error) {
	mode := viper.GetString(key.BackendBatch)
	switch mode {
	case constant.BatchAuto, constant.BatchAlways, constant.BatchNever:
	default:
		return controller.Options{}, nil, fmt.Errorf("invalid %s: %q (expected auto, always or never)", key.BackendBatch, mode)
	}

	client := api.New(
		viper.GetString(key.BackendURL),
		api.WithAPIKey(auth.APIKey()),
		api.WithHTTPClient(network.New()),
	)

	deps := controller.Options{
		Backend:     client,
		Saver:       download.NewSaver(),
		BatchMode:   mode,
		SaveHistory: viper.GetBool(key.HistorySaveOnDownload),
	}

	cleanup := func() {}

	loaded, err := hook.LoadDefault()
	if err != nil {
		return controller.Options{}, nil, fmt.Errorf("load hook: %w", err)
	}
	if h, ok := loaded.Get(); ok {
		deps.Hook = h
		cleanup = h.Close
	}

	return deps, cleanup, nil
}
