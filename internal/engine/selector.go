package engine

import (
	"context"
	"fmt"

	"linkbatch/internal/backend"
	"linkbatch/internal/config"
)

const searchPageSize = 100

// ResolveIDs resolves the set of bookmark IDs a run will target.
//
// Explicit --ids values are used verbatim, duplicates included (each is
// processed independently downstream). Otherwise the backend search is
// paged until exhausted or until --max-items is reached.
func ResolveIDs(ctx context.Context, client *backend.Client, cfg *config.Config) ([]string, error) {
	if len(cfg.Selection.IDs) > 0 {
		ids := cfg.Selection.IDs
		if max := cfg.Selection.MaxItems; max > 0 && len(ids) > max {
			ids = ids[:max]
		}
		return ids, nil
	}

	opts := backend.ListBookmarksOptions{
		Query: cfg.Selection.Query,
		Tags:  cfg.Selection.Tag,
		Limit: searchPageSize,
	}
	switch cfg.Selection.Archived {
	case "exclude":
		opts.Archived = backend.Bool(false)
	case "only":
		opts.Archived = backend.Bool(true)
	}

	var ids []string
	for {
		page, err := client.ListBookmarks(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("resolve bookmarks: %w", err)
		}
		for _, b := range page.Results {
			ids = append(ids, b.ID)
			if max := cfg.Selection.MaxItems; max > 0 && len(ids) >= max {
				return ids, nil
			}
		}
		if page.Next == "" || len(page.Results) == 0 {
			return ids, nil
		}
		opts.Offset += len(page.Results)
	}
}
