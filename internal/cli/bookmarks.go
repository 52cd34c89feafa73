package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"linkbatch/internal/backend"
	"linkbatch/internal/config"
	"linkbatch/internal/flags"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	bookmarksQuiet    bool
	bookmarksQuery    string
	bookmarksTags     []string
	bookmarksArchived bool
	bookmarksLimit    int
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Browse bookmarks",
	Long: `Browse bookmarks on the backend.

Examples:
  # List bookmarks matching a search
  linkbatch bookmarks list --query "golang"

  # Print matching IDs only, one per line (for shell composition)
  linkbatch bulk delete --ids "$(linkbatch bookmarks list --query "old stuff" -q | paste -sd, -)"
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks",
	Long: `List bookmarks, optionally narrowed by a search expression and tags.

With --quiet, only bookmark IDs are printed (one per line), which composes
with "linkbatch bulk ... --ids".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ctx, cancel, err := newReadClient(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		opts := backend.ListBookmarksOptions{
			Query: bookmarksQuery,
			Tags:  bookmarksTags,
			Limit: 100,
		}
		if !bookmarksArchived {
			opts.Archived = backend.Bool(false)
		}

		printed := 0
		for {
			page, err := client.ListBookmarks(ctx, opts)
			if err != nil {
				return err
			}
			for _, b := range page.Results {
				if bookmarksLimit > 0 && printed >= bookmarksLimit {
					return nil
				}
				if bookmarksQuiet {
					fmt.Fprintln(cmd.OutOrStdout(), b.ID)
				} else {
					printBookmark(cmd.OutOrStdout(), b)
				}
				printed++
			}
			if page.Next == "" || len(page.Results) == 0 {
				return nil
			}
			opts.Offset += len(page.Results)
		}
	},
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "List reading lists",
	Long: `List the reading lists defined on the backend.

List IDs feed "linkbatch bulk list --add-to/--remove-from".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ctx, cancel, err := newReadClient(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		lists, err := client.ListLists(ctx)
		if err != nil {
			return err
		}
		bold := color.New(color.Bold)
		for _, l := range lists {
			bold.Fprintf(cmd.OutOrStdout(), "%s", l.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s", l.Name)
			if l.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " - %s", l.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ctx, cancel, err := newReadClient(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		tags, err := client.ListTags(ctx)
		if err != nil {
			return err
		}
		for _, t := range tags {
			fmt.Fprintln(cmd.OutOrStdout(), t.Name)
		}
		return nil
	},
}

func printBookmark(w io.Writer, b backend.Bookmark) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s", b.ID)
	title := b.Title
	if title == "" {
		title = b.URL
	}
	fmt.Fprintf(w, "  %s", title)
	var marks []string
	if b.Favorite {
		marks = append(marks, "favorite")
	}
	if b.Archived {
		marks = append(marks, "archived")
	}
	if len(b.TagNames) > 0 {
		marks = append(marks, "#"+strings.Join(b.TagNames, " #"))
	}
	if len(marks) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(marks, ", "))
	}
	fmt.Fprintln(w)
}

// newReadClient builds a backend client for the read-only listing commands,
// applying the config file and token resolution the same way bulk runs do.
func newReadClient(cmd *cobra.Command) (*backend.Client, context.Context, context.CancelFunc, error) {
	path := configFilePath
	explicit := path != ""
	if !explicit {
		path = config.DefaultFilePath()
	}
	fc, err := config.LoadFile(path, explicit)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg.ApplyFile(fc, cmd.Flags().Changed)

	if cfg.Backend.URL == "" {
		return nil, nil, nil, fmt.Errorf("backend server URL is required (--server or backend.url in the config file)")
	}
	token, _, err := backend.ResolveAuthToken(cfg.Backend.Token, fc.Backend.Token, cfg.Backend.TokenFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to resolve backend token: %w", err)
	}
	if token == "" {
		return nil, nil, nil, fmt.Errorf("backend token is required (set LINKBATCH_TOKEN, --token, or backend.token in the config file)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout)
	client, err := backend.NewClient(ctx, cfg.Backend.URL, token, backend.WithVerbose(cfg.Runtime.Verbose, os.Stderr))
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return client, ctx, cancel, nil
}

func init() {
	rootCmd.AddCommand(bookmarksCmd)
	bookmarksCmd.AddCommand(bookmarksListCmd)
	bookmarksListCmd.Flags().BoolVarP(&bookmarksQuiet, flags.FlagQuiet, "q", false, "Only print bookmark IDs")
	bookmarksListCmd.Flags().StringVar(&bookmarksQuery, flags.FlagQuery, "", "Backend search expression")
	bookmarksListCmd.Flags().StringSliceVar(&bookmarksTags, flags.FlagTag, nil, "Require every listed tag (repeatable; comma-separated accepted)")
	bookmarksListCmd.Flags().BoolVar(&bookmarksArchived, flags.FlagArchived, false, "Include archived bookmarks")
	bookmarksListCmd.Flags().IntVar(&bookmarksLimit, flags.FlagLimit, 0, "Maximum number of bookmarks to print (0 = unlimited)")

	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(tagsCmd)
}
