package constant

// Backend defaults.
const (
	// DefaultBackendURL is the address of a locally running download backend.
	DefaultBackendURL = "http://localhost:8001"

	// DefaultFilename is used when a download response does not suggest a filename.
	DefaultFilename = "download"

	// DefaultArchiveFilename is used when an archive response does not suggest a filename.
	DefaultArchiveFilename = "download.zip"

	// APIKeyHeader carries the optional backend API key.
	APIKeyHeader = "X-API-KEY"

	// RequestIDHeader carries a per-request correlation identifier.
	RequestIDHeader = "X-Request-ID"
)

// Batch modes for the backend.batch configuration key.
const (
	BatchAuto   = "auto"
	BatchAlways = "always"
	BatchNever  = "never"
)

// HookFn is the global Lua function invoked after a successful download.
const HookFn = "OnDownload"
