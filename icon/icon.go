// Package icon renders status symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// iconDef maps a variant to its glyph.
type iconDef map[string]string

// Get returns the glyph of i for the configured variant.
// Unknown variants fall back to plain text.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}

	if glyph, ok := def[viper.GetString(key.IconsVariant)]; ok {
		return glyph
	}

	return def[plain]
}
