package bulk

import (
	"context"
	"slices"

	"linkbatch/internal/backend"
)

// Mutator binds the generic executor to a bookmark backend. Each method
// fixes the per-item operation and delegates all concurrency, isolation,
// and progress behavior to Execute. Errors from the backend pass through
// into failure messages unmodified.
type Mutator struct {
	Backend     *backend.Client
	Concurrency int
	OnProgress  ProgressFunc
}

func (m *Mutator) run(ctx context.Context, ids []string, op Operation) (Result, error) {
	return Execute(ctx, ids, op, m.Concurrency, m.OnProgress)
}

// Update applies the same partial update to every bookmark in ids.
func (m *Mutator) Update(ctx context.Context, ids []string, patch backend.BookmarkPatch) (Result, error) {
	return m.run(ctx, ids, func(ctx context.Context, id string) error {
		_, err := m.Backend.UpdateBookmark(ctx, id, patch)
		return err
	})
}

// Favorite and Unfavorite are Update specializations.
func (m *Mutator) Favorite(ctx context.Context, ids []string) (Result, error) {
	return m.Update(ctx, ids, backend.BookmarkPatch{Favorite: backend.Bool(true)})
}

func (m *Mutator) Unfavorite(ctx context.Context, ids []string) (Result, error) {
	return m.Update(ctx, ids, backend.BookmarkPatch{Favorite: backend.Bool(false)})
}

func (m *Mutator) Archive(ctx context.Context, ids []string) (Result, error) {
	return m.run(ctx, ids, func(ctx context.Context, id string) error {
		return m.Backend.ArchiveBookmark(ctx, id)
	})
}

func (m *Mutator) Unarchive(ctx context.Context, ids []string) (Result, error) {
	return m.run(ctx, ids, func(ctx context.Context, id string) error {
		return m.Backend.UnarchiveBookmark(ctx, id)
	})
}

func (m *Mutator) Delete(ctx context.Context, ids []string) (Result, error) {
	return m.run(ctx, ids, func(ctx context.Context, id string) error {
		return m.Backend.DeleteBookmark(ctx, id)
	})
}

// AttachTags adds names to each bookmark's tag set. The backend has no
// tag-append endpoint, so each item is a read-modify-write: fetch the
// bookmark, merge the names, patch tag_names back.
func (m *Mutator) AttachTags(ctx context.Context, ids []string, names []string) (Result, error) {
	return m.run(ctx, ids, func(ctx context.Context, id string) error {
		b, err := m.Backend.GetBookmark(ctx, id)
		if err != nil {
			return err
		}
		merged := slices.Clone(b.TagNames)
		for _, name := range names {
			if !slices.Contains(merged, name) {
				merged = append(merged, name)
			}
		}
		_, err = m.Backend.UpdateBookmark(ctx, id, backend.BookmarkPatch{TagNames: backend.Strings(merged)})
		return err
	})
}

// DetachTags removes names from each bookmark's tag set.
func (m *Mutator) DetachTags(ctx context.Context, ids []string, names []string) (Result, error) {
	return m.run(ctx, ids, func(ctx context.Context, id string) error {
		b, err := m.Backend.GetBookmark(ctx, id)
		if err != nil {
			return err
		}
		kept := make([]string, 0, len(b.TagNames))
		for _, name := range b.TagNames {
			if !slices.Contains(names, name) {
				kept = append(kept, name)
			}
		}
		_, err = m.Backend.UpdateBookmark(ctx, id, backend.BookmarkPatch{TagNames: backend.Strings(kept)})
		return err
	})
}

func (m *Mutator) AddToList(ctx context.Context, listID string, ids []string) (Result, error) {
	return m.run(ctx, ids, func(ctx context.Context, id string) error {
		return m.Backend.AddBookmarkToList(ctx, listID, id)
	})
}

func (m *Mutator) RemoveFromList(ctx context.Context, listID string, ids []string) (Result, error) {
	return m.run(ctx, ids, func(ctx context.Context, id string) error {
		return m.Backend.RemoveBookmarkFromList(ctx, listID, id)
	})
}
