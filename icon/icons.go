package icon

// Icon identifies a UI symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Download
	Archive
	Link
	Warn
)

var icons = map[Icon]iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "😵",
		nerd:    "",
		plain:   "✗",
		kaomoji: "(╯°□°)╯︵ ┻━┻",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "~",
		kaomoji: "(・_・)ノ",
		squares: "🟦",
	},
	Download: {
		emoji:   "📥",
		nerd:    "",
		plain:   "↓",
		kaomoji: "(っ˘ω˘ς)",
		squares: "🟪",
	},
	Archive: {
		emoji:   "📦",
		nerd:    "",
		plain:   "#",
		kaomoji: "[̲̅$̲̅(̲̅ ͡° ͜ʖ ͡°̲̅)̲̅$̲̅]",
		squares: "🟫",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "&",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ*:・ﾟ✧",
		squares: "🟨",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(￣ヘ￣)",
		squares: "🟨",
	},
}
