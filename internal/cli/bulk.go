package cli

import (
	"context"
	"fmt"
	"os"

	"linkbatch/internal/backend"
	"linkbatch/internal/config"
	"linkbatch/internal/engine"
	"linkbatch/internal/flags"

	"github.com/spf13/cobra"
)

var cfg = config.New()

// configFilePath is the --config value; empty means the default location.
var configFilePath string

const bulkHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	linkbatch authenticates to the backend using an API token.

	Sources (in order):
	1) --token flag
	2) LINKBATCH_TOKEN environment variable
	3) backend.token in the config file
	4) the file named by backend.token_file / --token-file

  Examples:
    # macOS/Linux
    export LINKBATCH_TOKEN="<your_token>"
    linkbatch bulk favorite --ids 21,34

    # Windows PowerShell
    $env:LINKBATCH_TOKEN = "<your_token>"
    linkbatch bulk favorite --ids 21,34

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasHelpSubCommands}}Additional help topics:
{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Apply one mutation across a set of bookmarks",
	Long: `Apply one mutation across a set of bookmarks.

Each subcommand resolves a target set (explicit --ids or a server-side
search via --query/--tag), then applies its mutation with at most
--concurrency API calls in flight. A failing bookmark is recorded and the
batch continues; nothing is retried.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON summary or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown batch report to a file
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events
	with a "type" field (run.started, item.failed, progress, run.finished).

Exit codes:
	0 = every bookmark succeeded
	1 = some bookmarks failed (see the failed list)
	3 = fatal error (batch did not run)

Examples:
  # Favorite three bookmarks
  linkbatch bulk favorite --ids 21,34,55

  # Archive everything tagged "read-later", 5 calls in flight
  linkbatch bulk archive --tag read-later --concurrency 5

  # Attach tags to a search result, machine-readable event stream
  linkbatch bulk tag --add golang,til --query "go generics" --no-console --emit ndjson

  # See what a delete would touch without mutating
  linkbatch bulk delete --query "old stuff" --dry-run
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func runBulk(cmd *cobra.Command, action string) {
	cfg.Action.Name = action

	path := configFilePath
	explicit := path != ""
	if !explicit {
		path = config.DefaultFilePath()
	}
	fc, err := config.LoadFile(path, explicit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(3)
	}
	cfg.ApplyFile(fc, cmd.Flags().Changed)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(3)
	}
	if cfg.Backend.URL == "" {
		fmt.Fprintln(os.Stderr, "Error: backend server URL is required (--server or backend.url in the config file)")
		os.Exit(3)
	}

	token, _, err := backend.ResolveAuthToken(cfg.Backend.Token, fc.Backend.Token, cfg.Backend.TokenFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve backend token: %v\n", err)
		os.Exit(3)
	}
	if token == "" {
		fmt.Fprintln(os.Stderr, "Error: backend token is required (set LINKBATCH_TOKEN, --token, or backend.token in the config file)")
		os.Exit(3)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout)
	defer cancel()

	opts := []backend.Option{backend.WithVerbose(cfg.Runtime.Verbose, nil)}
	if cfg.Runtime.MaxRequests > 0 {
		opts = append(opts, backend.WithBudget(backend.NewRequestBudget(cfg.Runtime.MaxRequests)))
	}
	client, err := backend.NewClient(ctx, cfg.Backend.URL, token, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create backend client: %v\n", err)
		os.Exit(3)
	}

	eng := engine.NewEngine(client)
	os.Exit(eng.Run(ctx, cfg))
}

func newActionCommand(action, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   action,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runBulk(cmd, action)
		},
	}
	addBulkFlags(cmd)
	return cmd
}

// addBulkFlags registers the selection, output, and runtime flags shared by
// every bulk subcommand.
func addBulkFlags(cmd *cobra.Command) {
	// Selection
	cmd.Flags().StringSliceVar(&cfg.Selection.IDs, flags.FlagIDs, nil, "Bookmark IDs to target (repeatable; comma-separated accepted)")
	cmd.Flags().StringVar(&cfg.Selection.Query, flags.FlagQuery, "", "Backend search expression used to resolve the target set")
	cmd.Flags().StringSliceVar(&cfg.Selection.Tag, flags.FlagTag, nil, "Require every listed tag on matched bookmarks (repeatable; comma-separated accepted)")
	cmd.Flags().StringVar(&cfg.Selection.Archived, flags.FlagArchived, "include", "Archived bookmarks policy: include|exclude|only (default: include)")
	cmd.Flags().IntVar(&cfg.Selection.MaxItems, flags.FlagMaxItems, 0, "Maximum number of bookmarks to mutate (0 = unlimited)")
	cmd.Flags().BoolVar(&cfg.Selection.DryRun, flags.FlagDryRun, false, "Resolve the target set and print it without mutating")

	// Output
	cmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	cmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	cmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	cmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	cmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	cmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")

	// Runtime
	cmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, 3, "Concurrent API calls (default: 3)")
	cmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout (default: 10m)")
	cmd.Flags().IntVar(&cfg.Runtime.MaxRequests, flags.FlagMaxRequests, 0, "Maximum backend API calls for this run (0 = unlimited)")

	cmd.SetHelpTemplate(bulkHelpTemplate)
}

func init() {
	rootCmd.AddCommand(bulkCmd)
	bulkCmd.SetHelpTemplate(bulkHelpTemplate)

	bulkCmd.AddCommand(newActionCommand(config.ActionFavorite, "Mark bookmarks as favorite",
		"Mark every targeted bookmark as favorite."))
	bulkCmd.AddCommand(newActionCommand(config.ActionUnfavorite, "Clear the favorite flag",
		"Clear the favorite flag on every targeted bookmark."))
	bulkCmd.AddCommand(newActionCommand(config.ActionArchive, "Archive bookmarks",
		"Move every targeted bookmark to the archive."))
	bulkCmd.AddCommand(newActionCommand(config.ActionUnarchive, "Restore bookmarks from the archive",
		"Restore every targeted bookmark from the archive."))
	bulkCmd.AddCommand(newActionCommand(config.ActionDelete, "Delete bookmarks",
		"Permanently delete every targeted bookmark. There is no undo;\nuse --dry-run first."))

	tagCmd := newActionCommand(config.ActionTag, "Attach or detach tags",
		"Attach (--add) or detach (--remove) tags on every targeted bookmark.\nExactly one of --add/--remove must be given.")
	tagCmd.Flags().StringSliceVar(&cfg.Action.AddTags, flags.FlagAdd, nil, "Tag names to attach (repeatable; comma-separated accepted)")
	tagCmd.Flags().StringSliceVar(&cfg.Action.RemoveTags, flags.FlagRemove, nil, "Tag names to detach (repeatable; comma-separated accepted)")
	bulkCmd.AddCommand(tagCmd)

	listCmd := newActionCommand(config.ActionList, "Add to or remove from a reading list",
		"Add every targeted bookmark to a reading list (--add-to) or remove it\n(--remove-from). Exactly one of the two must be given; values are list IDs\n(see \"linkbatch lists\").")
	listCmd.Flags().StringVar(&cfg.Action.AddToList, flags.FlagAddTo, "", "Reading list ID to add bookmarks to")
	listCmd.Flags().StringVar(&cfg.Action.RemoveFromList, flags.FlagRemoveFrom, "", "Reading list ID to remove bookmarks from")
	bulkCmd.AddCommand(listCmd)
}
