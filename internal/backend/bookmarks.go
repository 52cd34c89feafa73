package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListBookmarksOptions narrows GET /api/bookmarks/.
type ListBookmarksOptions struct {
	// Query is the backend's free-text search expression.
	Query string

	// Tags requires every listed tag to be present on a bookmark.
	Tags []string

	// Archived selects archive state: nil = both, true = archived only,
	// false = unarchived only.
	Archived *bool

	Limit  int
	Offset int
}

// ListBookmarks fetches one page of bookmarks. Callers page by advancing
// Offset until the returned page has no Next link.
func (c *Client) ListBookmarks(ctx context.Context, opts ListBookmarksOptions) (*BookmarkPage, error) {
	query := url.Values{}
	if opts.Query != "" {
		query.Set("q", opts.Query)
	}
	for _, tag := range opts.Tags {
		query.Add("tag", tag)
	}
	if opts.Archived != nil {
		query.Set("archived", strconv.FormatBool(*opts.Archived))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	var page BookmarkPage
	if err := c.do(ctx, http.MethodGet, "api/bookmarks/", query, nil, &page); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return &page, nil
}

func (c *Client) GetBookmark(ctx context.Context, id string) (*Bookmark, error) {
	var b Bookmark
	if err := c.do(ctx, http.MethodGet, "api/bookmarks/"+url.PathEscape(id)+"/", nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBookmark applies a partial update and returns the updated resource.
func (c *Client) UpdateBookmark(ctx context.Context, id string, patch BookmarkPatch) (*Bookmark, error) {
	var b Bookmark
	if err := c.do(ctx, http.MethodPatch, "api/bookmarks/"+url.PathEscape(id)+"/", nil, patch, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "api/bookmarks/"+url.PathEscape(id)+"/", nil, nil, nil)
}

func (c *Client) ArchiveBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "api/bookmarks/"+url.PathEscape(id)+"/archive/", nil, nil, nil)
}

func (c *Client) UnarchiveBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "api/bookmarks/"+url.PathEscape(id)+"/unarchive/", nil, nil, nil)
}
