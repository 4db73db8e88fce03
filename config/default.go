// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/style"
)

// Field describes a single setting: its key, factory value and the values it accepts.
type Field struct {
	Key         string
	Value       any
	Description string

	// Options lists the accepted values of a string field. Empty means any value.
	Options []string

	check func(any) error
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// Parse converts raw command-line values into the field's type and validates the result.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no value given for %s", f.Key)
	}

	var v any
	switch f.Value.(type) {
	case string:
		v = raw[0]
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value for %s: %s", f.Key, raw[0])
		}
		v = n
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value for %s: %s", f.Key, raw[0])
		}
		v = b
	case []string:
		v = raw
	default:
		return nil, fmt.Errorf("unsupported type %T for %s", f.Value, f.Key)
	}

	return v, f.Validate(v)
}

// Validate reports whether v is acceptable for this field.
func (f *Field) Validate(v any) error {
	if len(f.Options) > 0 {
		s, _ := v.(string)
		if !lo.Contains(f.Options, s) {
			return fmt.Errorf("invalid value %s for %s, expected one of: %s",
				style.Fg(color.Red)(fmt.Sprint(v)),
				style.Fg(color.Purple)(f.Key),
				strings.Join(f.Options, ", "),
			)
		}
	}

	if f.check != nil {
		return f.check(v)
	}

	return nil
}

// Pretty renders the field with its current value for terminal output.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// MarshalJSON includes both the effective and the factory value.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Options     []string `json:"options,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        fmt.Sprintf("%T", f.Value),
		Options:     f.Options,
	})
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func nonNegative(v any) error {
	if n, ok := v.(int); ok && n < 0 {
		return fmt.Errorf("value must not be negative: %d", n)
	}
	return nil
}

func absoluteURL(v any) error {
	u, err := url.Parse(fmt.Sprint(v))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend URL: %v", v)
	}
	return nil
}

func init() {
	register := func(f Field) {
		if _, exists := Default[f.Key]; exists {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}

	levels := lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string { return l.String() })

	register(Field{Key: key.BackendURL, Value: constant.DefaultBackendURL, Description: "Base URL of the download backend", check: absoluteURL})
	register(Field{Key: key.BackendAPIKey, Value: "", Description: "API key sent in the X-API-KEY header.\nFalls back to the system keyring when empty (see \"vidgrab auth\")"})
	register(Field{Key: key.BackendBatch, Value: constant.BatchAuto, Description: "Use the batch endpoints for multiple URLs", Options: []string{constant.BatchAuto, constant.BatchAlways, constant.BatchNever}})
	register(Field{Key: key.BackendTimeout, Value: 0, Description: "Request timeout in seconds. 0 waits forever", check: nonNegative})
	register(Field{Key: key.NetworkTLSFingerprint, Value: false, Description: "Use a browser TLS fingerprint for HTTPS backends"})
	register(Field{Key: key.DownloadsPath, Value: "", Description: "Directory to save downloads to.\nDefaults to the user's Downloads directory"})
	register(Field{Key: key.DownloadsOverwrite, Value: false, Description: "Overwrite existing files instead of picking a free name"})
	register(Field{Key: key.HistorySaveOnDownload, Value: true, Description: "Record completed downloads in the history"})
	register(Field{Key: key.SearchShowURLSuggestions, Value: true, Description: "Suggest previously used URLs while typing"})
	register(Field{Key: key.HooksEnable, Value: false, Description: "Run the on_download.lua hook after each download"})
	register(Field{Key: key.IconsVariant, Value: "plain", Description: "Icons variant. Nerd requires a nerd-font", Options: icon.AvailableVariants()})
	register(Field{Key: key.TUIItemSpacing, Value: 1, Description: "Spacing between list items in the TUI", check: nonNegative})
	register(Field{Key: key.TUIShowThumbnailURL, Value: true, Description: "Show the thumbnail URL in the media header"})
	register(Field{Key: key.LogsWrite, Value: false, Description: "Write logs"})
	register(Field{Key: key.LogsLevel, Value: "info", Description: "Log verbosity, from least to most verbose", Options: levels})
	register(Field{Key: key.LogsJson, Value: false, Description: "Use json format for logs"})
	register(Field{Key: key.CliColored, Value: true, Description: "Enable colored CLI output"})
	register(Field{Key: key.CliVersionCheck, Value: true, Description: "Check for a newer release on start"})
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		if value == "" {
			return style.Faint("(empty)")
		}
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}

var prettyTemplate = lo.Must(template.New("field").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"purple":  style.Fg(color.Purple),
	"blue":    style.Fg(color.Blue),
	"current": func(k string) any { return viper.Get(k) },
	"hl":      highlight,
	"join":    strings.Join,
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (current .Key) }}
{{ blue "Default:" }} {{ hl .Value }}{{ if .Options }}
{{ blue "Options:" }} {{ join .Options ", " }}{{ end }}`))
