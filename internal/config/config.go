package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Valid action names, as set by the CLI subcommands.
const (
	ActionFavorite   = "favorite"
	ActionUnfavorite = "unfavorite"
	ActionArchive    = "archive"
	ActionUnarchive  = "unarchive"
	ActionDelete     = "delete"
	ActionTag        = "tag"
	ActionList       = "list"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// run behavior, keep the CLI flag wiring in internal/cli/bulk.go in sync.
	Backend   Backend
	Action    Action
	Selection Selection
	Output    Output
	Runtime   Runtime
}

type Backend struct {
	// URL is the bookmark backend base URL (see --server).
	URL string

	// Token authenticates against the backend (see --token). Usually left
	// empty here and resolved from LINKBATCH_TOKEN or the config file.
	Token string

	// TokenFile names a file whose contents are the token (see --token-file).
	TokenFile string
}

type Action struct {
	// Name is the bulk action to apply; set by the subcommand, never by a flag.
	Name string

	// AddTags / RemoveTags parameterize the tag action (see --add / --remove).
	AddTags    []string
	RemoveTags []string

	// AddToList / RemoveFromList parameterize the list action
	// (see --add-to / --remove-from). Values are list IDs.
	AddToList      string
	RemoveFromList string
}

type Selection struct {
	// IDs is an explicit set of bookmark IDs (see --ids). When set, no
	// server-side search is performed.
	IDs []string

	// Query is a backend search expression used to resolve IDs (see --query).
	Query string

	// Tag requires every listed tag on matched bookmarks (see --tag).
	Tag []string

	// Archived controls how archived bookmarks are selected (see --archived).
	// Allowed values: include, exclude, only.
	Archived string

	// MaxItems caps how many bookmarks one run may target (see --max-items).
	// 0 means unlimited.
	MaxItems int

	// DryRun resolves the target set and prints it without mutating (see --dry-run).
	DryRun bool
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// Report writes a Markdown report to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, inferred from the extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Concurrency is the bulk worker cap (see --concurrency). Values < 1
	// are rejected here; the executor itself clamps defensively.
	Concurrency int

	// Timeout bounds the whole run (see --timeout). Must be > 0.
	Timeout time.Duration

	// MaxRequests caps backend API calls for one run (see --max-requests).
	// 0 means unlimited.
	MaxRequests int

	// Verbose enables per-request HTTP diagnostics on stderr.
	Verbose bool
}

func New() *Config {
	return &Config{
		Selection: Selection{
			Archived: "include",
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Concurrency: 3,
			Timeout:     10 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Selection.IDs = splitCommaList(c.Selection.IDs)
	c.Selection.Tag = splitCommaList(c.Selection.Tag)
	c.Action.AddTags = splitCommaList(c.Action.AddTags)
	c.Action.RemoveTags = splitCommaList(c.Action.RemoveTags)

	// Selection validation
	if len(c.Selection.IDs) == 0 && c.Selection.Query == "" && len(c.Selection.Tag) == 0 {
		return errors.New("at least one of --ids, --query, or --tag must be provided")
	}
	if len(c.Selection.IDs) > 0 && (c.Selection.Query != "" || len(c.Selection.Tag) > 0) {
		return errors.New("--ids is mutually exclusive with --query/--tag")
	}

	c.Selection.Archived = normalizeEnumValue(c.Selection.Archived)
	if c.Selection.Archived == "" {
		c.Selection.Archived = "include"
	}
	if c.Selection.Archived != "include" && c.Selection.Archived != "exclude" && c.Selection.Archived != "only" {
		return fmt.Errorf("unsupported --archived: %s (must be one of: include, exclude, only)", c.Selection.Archived)
	}
	if c.Selection.MaxItems < 0 {
		return errors.New("--max-items must be >= 0")
	}

	// Action validation
	switch c.Action.Name {
	case ActionFavorite, ActionUnfavorite, ActionArchive, ActionUnarchive, ActionDelete:
	case ActionTag:
		add := len(c.Action.AddTags) > 0
		remove := len(c.Action.RemoveTags) > 0
		if add == remove {
			return errors.New("tag action requires exactly one of --add or --remove")
		}
	case ActionList:
		add := c.Action.AddToList != ""
		remove := c.Action.RemoveFromList != ""
		if add == remove {
			return errors.New("list action requires exactly one of --add-to or --remove-from")
		}
	default:
		return fmt.Errorf("unknown action %q", c.Action.Name)
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		c.Output.ConsoleFormat = "text"
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for _, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", emit)
		}
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			inferred, err := inferOutFormat(c.Output.Out)
			if err != nil {
				return err
			}
			c.Output.OutFormat = inferred
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	if c.Runtime.MaxRequests < 0 {
		return errors.New("--max-requests must be >= 0")
	}

	return nil
}

func inferOutFormat(path string) (string, error) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return "", errors.New("cannot infer output format from file extension (missing extension); use --out-format")
	}
	switch strings.ToLower(path[idx:]) {
	case ".json":
		return "json", nil
	case ".ndjson", ".jsonl":
		return "ndjson", nil
	default:
		return "", fmt.Errorf("cannot infer output format from file extension %q; use --out-format", path[idx:])
	}
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
