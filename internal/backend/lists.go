package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type listPage struct {
	Count   int    `json:"count"`
	Next    string `json:"next,omitempty"`
	Results []List `json:"results"`
}

// ListLists fetches all reading lists.
func (c *Client) ListLists(ctx context.Context) ([]List, error) {
	var lists []List
	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", "100")
		if offset > 0 {
			query.Set("offset", strconv.Itoa(offset))
		}
		var page listPage
		if err := c.do(ctx, http.MethodGet, "api/lists/", query, nil, &page); err != nil {
			return nil, fmt.Errorf("list reading lists: %w", err)
		}
		lists = append(lists, page.Results...)
		if page.Next == "" || len(page.Results) == 0 {
			return lists, nil
		}
		offset += len(page.Results)
	}
}

// AddBookmarkToList adds one bookmark to a reading list. Adding a bookmark
// that is already a member is a backend-level error and surfaces as such.
func (c *Client) AddBookmarkToList(ctx context.Context, listID, bookmarkID string) error {
	body := struct {
		BookmarkID string `json:"bookmark_id"`
	}{BookmarkID: bookmarkID}
	return c.do(ctx, http.MethodPost, "api/lists/"+url.PathEscape(listID)+"/bookmarks/", nil, body, nil)
}

func (c *Client) RemoveBookmarkFromList(ctx context.Context, listID, bookmarkID string) error {
	path := "api/lists/" + url.PathEscape(listID) + "/bookmarks/" + url.PathEscape(bookmarkID) + "/"
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
