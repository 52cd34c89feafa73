package backend

import "time"

// Bookmark is one saved link as the backend returns it.
type Bookmark struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	TagNames    []string  `json:"tag_names"`
	Favorite    bool      `json:"is_favorite"`
	Archived    bool      `json:"is_archived"`
	AddedAt     time.Time `json:"date_added"`
	ModifiedAt  time.Time `json:"date_modified"`
}

// BookmarkPatch is a partial update for PATCH /api/bookmarks/{id}/.
// Nil fields are left untouched by the backend.
type BookmarkPatch struct {
	URL         *string   `json:"url,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	TagNames    *[]string `json:"tag_names,omitempty"`
	Favorite    *bool     `json:"is_favorite,omitempty"`
	Archived    *bool     `json:"is_archived,omitempty"`
}

// Tag is a bookmark tag.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List is a reading list (collection) of bookmarks.
type List struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BookmarkPage is one page of a paginated bookmark listing.
type BookmarkPage struct {
	Count   int        `json:"count"`
	Next    string     `json:"next,omitempty"`
	Results []Bookmark `json:"results"`
}

// Bool returns a pointer to v, for building patches inline.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for building patches inline.
func String(v string) *string { return &v }

// Strings returns a pointer to v, for building patches inline.
func Strings(v []string) *[]string { return &v }
