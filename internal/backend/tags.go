package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type tagPage struct {
	Count   int    `json:"count"`
	Next    string `json:"next,omitempty"`
	Results []Tag  `json:"results"`
}

// ListTags fetches all tags, paging until the backend reports no next page.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", "100")
		if offset > 0 {
			query.Set("offset", strconv.Itoa(offset))
		}
		var page tagPage
		if err := c.do(ctx, http.MethodGet, "api/tags/", query, nil, &page); err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		tags = append(tags, page.Results...)
		if page.Next == "" || len(page.Results) == 0 {
			return tags, nil
		}
		offset += len(page.Results)
	}
}
