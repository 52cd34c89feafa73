package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// engine. Keeping these as constants helps avoid drift between Cobra flag
// wiring and other code paths that need to reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Backend
	FlagServer     = "server"
	FlagToken      = "token"
	FlagTokenFile  = "token-file"
	FlagConfigFile = "config"

	// Selection
	FlagIDs      = "ids"
	FlagQuery    = "query"
	FlagTag      = "tag"
	FlagArchived = "archived"
	FlagMaxItems = "max-items"
	FlagDryRun   = "dry-run"

	// Action parameters
	FlagAdd        = "add"
	FlagRemove     = "remove"
	FlagAddTo      = "add-to"
	FlagRemoveFrom = "remove-from"

	// Output
	FlagConsoleFormat = "console-format"
	FlagReport        = "report"
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagEmit          = "emit"
	FlagNoConsole     = "no-console"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagMaxRequests = "max-requests"

	// Listing
	FlagLimit = "limit"
	FlagQuiet = "quiet"
)
