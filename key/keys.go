// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 18

// Backend Connection - these keys locate and authenticate against the download backend.
const (
	BackendURL     = "backend.url"
	BackendAPIKey  = "backend.api_key"
	BackendBatch   = "backend.batch"
	BackendTimeout = "backend.timeout"
)

// Network Transport - these keys tune the HTTP transport used for backend requests.
const (
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Downloads - these keys control where and how downloaded files are saved.
const (
	DownloadsPath      = "downloads.path"
	DownloadsOverwrite = "downloads.overwrite"
)

// History Tracking - these keys configure the persistence of completed downloads.
const (
	HistorySaveOnDownload = "history.save_on_download"
)

// Search Interaction - these keys define suggestions offered while typing URLs.
const (
	SearchShowURLSuggestions = "search.show_url_suggestions"
)

// Hooks - these keys control the post-download Lua hook.
const (
	HooksEnable = "hooks.enable"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling.
const (
	TUIItemSpacing      = "tui.item_spacing"
	TUIShowThumbnailURL = "tui.show_thumbnail_url"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
