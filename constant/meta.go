// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "vidgrab"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the HTTP User-Agent string sent to the download backend.
	UserAgent = App + "/" + Version
)

// Build metadata, overridden at link time via -ldflags.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
