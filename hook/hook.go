// Package hook runs user Lua scripts after a download completes.
package hook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/log"
	"github.com/vidgrab/vidgrab/where"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Filename is the script looked up inside the hooks directory.
const Filename = "on_download.lua"

// Event describes a finished download.
// For archives URL holds every requested URL separated by newlines and FormatID is empty.
type Event struct {
	Path     string
	URL      string
	FormatID string
}

// Hook is a loaded script exposing an OnDownload function.
// A Lua state is not safe for concurrent use, so calls are serialized.
type Hook struct {
	path  string
	mu    sync.Mutex
	state *lua.LState
}

// Load compiles and executes the script at path and checks that it defines OnDownload.
func Load(path string) (*Hook, error) {
	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", filepath.Base(path), err)
	}

	state := lua.NewState()
	libs.Preload(state)

	state.Push(state.NewFunctionFromProto(proto))
	if err := state.PCall(0, lua.MultRet, nil); err != nil {
		state.Close()
		return nil, err
	}

	if state.GetGlobal(constant.HookFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.HookFn, filepath.Base(path))
	}

	return &Hook{path: path, state: state}, nil
}

// LoadDefault loads the hook from the hooks directory when hooks are enabled.
// None is returned when hooks are disabled or no script exists.
func LoadDefault() (mo.Option[*Hook], error) {
	if !viper.GetBool(key.HooksEnable) {
		return mo.None[*Hook](), nil
	}

	path := filepath.Join(where.Hooks(), Filename)
	exists, err := filesystem.API().Exists(path)
	if err != nil {
		return mo.None[*Hook](), err
	}
	if !exists {
		log.Infof("hooks enabled but %s not found", path)
		return mo.None[*Hook](), nil
	}

	h, err := Load(path)
	if err != nil {
		return mo.None[*Hook](), err
	}

	return mo.Some(h), nil
}

// Run calls OnDownload(path, url, format_id). The call is abandoned when ctx is done.
func (h *Hook) Run(ctx context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == nil {
		return errors.New("hook is closed")
	}

	h.state.SetContext(ctx)
	defer h.state.RemoveContext()

	err := h.state.CallByParam(lua.P{
		Fn:      h.state.GetGlobal(constant.HookFn),
		NRet:    0,
		Protect: true,
	}, lua.LString(event.Path), lua.LString(event.URL), lua.LString(event.FormatID))
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(h.path), err)
	}

	return nil
}

// Close releases the Lua state.
func (h *Hook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != nil {
		h.state.Close()
		h.state = nil
	}
}

// Path returns the script location.
func (h *Hook) Path() string {
	return h.path
}

// Scaffold writes a starter script to the hooks directory unless one exists.
func Scaffold() (string, error) {
	path := filepath.Join(where.Hooks(), Filename)
	exists, err := filesystem.API().Exists(path)
	if err != nil {
		return "", err
	}
	if exists {
		return path, os.ErrExist
	}

	return path, filesystem.API().WriteFile(path, []byte(template), os.ModePerm)
}

const template = `-- Called after every successful download.
-- path:      absolute path of the saved file
-- url:       requested URL (newline separated for archives)
-- format_id: chosen format, empty when the backend picked one

function OnDownload(path, url, format_id)
    print("saved " .. path)
end
`
