// Package network builds the HTTP clients used to talk to the backend.
package network

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/key"
)

// New returns an HTTP client configured from the active settings.
// A zero backend.timeout leaves requests unbounded, since downloads may take arbitrarily long.
func New() *http.Client {
	var transport http.RoundTripper = newTransport()
	if viper.GetBool(key.NetworkTLSFingerprint) {
		transport = newFingerprintTransport(transport)
	}

	return &http.Client{
		Timeout:   time.Duration(viper.GetInt(key.BackendTimeout)) * time.Second,
		Transport: transport,
	}
}

// newTransport initializes a tuned http.Transport.
// ResponseHeaderTimeout is left unset because the backend only replies after it has produced the file.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 16
	t.IdleConnTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 5 * time.Second
	return t
}
