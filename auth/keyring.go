// Package auth stores the backend API key in the system keyring.
package auth

import (
	"errors"

	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/log"
	"github.com/zalando/go-keyring"
)

const user = "backend-api-key"

// SetAPIKey persists the backend API key to the system keyring.
func SetAPIKey(apiKey string) error {
	return keyring.Set(constant.App, user, apiKey)
}

// GetAPIKey retrieves the backend API key from the system keyring.
func GetAPIKey() (string, error) {
	return keyring.Get(constant.App, user)
}

// DeleteAPIKey removes the backend API key from the system keyring.
func DeleteAPIKey() error {
	return keyring.Delete(constant.App, user)
}

// APIKey resolves the key to send to the backend.
// An explicitly configured backend.api_key wins over the keyring; no key at all is not an error.
func APIKey() string {
	if configured := viper.GetString(key.BackendAPIKey); configured != "" {
		return configured
	}

	stored, err := GetAPIKey()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Warnf("read api key from keyring: %s", err)
		}
		return ""
	}

	return stored
}
