package cli

import (
	"fmt"
	"os"

	"linkbatch/internal/flags"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "linkbatch",
	Short: "Apply bulk mutations to a bookmark-manager backend",
	Long: `linkbatch drives bulk operations against a personal bookmark backend.

It resolves a set of bookmarks (explicit IDs or a server-side search), then
applies one mutation - favorite, archive, delete, tag, list membership -
across the whole set with a bounded number of concurrent API calls.
Failures are isolated per bookmark: one bad item never aborts the batch.

Examples:
	# Show available commands and global flags
	linkbatch --help

	# Archive every bookmark matching a search
	linkbatch bulk archive --query "golang"

	# Delete three bookmarks by ID
	linkbatch bulk delete --ids 21,34,55

	# List bookmarks
	linkbatch bookmarks list --query "golang"

	# Print build info
	linkbatch version

Output:
	By default, commands write human-readable output to stdout.
	Bulk commands support structured output via emitter flags (see
	"linkbatch bulk --help").`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.Backend.URL, flags.FlagServer, "", "Bookmark backend base URL (e.g. https://bookmarks.example.com)")
	rootCmd.PersistentFlags().StringVar(&cfg.Backend.Token, flags.FlagToken, "", "Backend API token (prefer LINKBATCH_TOKEN or the config file)")
	rootCmd.PersistentFlags().StringVar(&cfg.Backend.TokenFile, flags.FlagTokenFile, "", "File containing the backend API token")
	rootCmd.PersistentFlags().StringVar(&configFilePath, flags.FlagConfigFile, "", "Config file path (default: $XDG_CONFIG_HOME/linkbatch/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every backend API call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
