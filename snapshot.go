package postbrowser

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("postbrowser: not found")

// SnapshotHolder keeps the loaded content. Snapshots are immutable; Replace
// swaps in a new one without touching the old.
type SnapshotHolder struct {
	mu      sync.RWMutex
	snap    Snapshot
	bySlug  map[string]int
	loaded  time.Time
	present *Presenter
	trusted bool
}

// NewSnapshotHolder creates an empty holder. trustMarkup is forwarded to the
// Presenter built for each snapshot.
func NewSnapshotHolder(trustMarkup bool) *SnapshotHolder {
	h := &SnapshotHolder{trusted: trustMarkup}
	h.Replace(Snapshot{})
	h.loaded = time.Time{}
	return h
}

// Load queries src once and stores the result.
func (h *SnapshotHolder) Load(ctx context.Context, src ContentSource) error {
	snap, err := src.Load(ctx)
	if err != nil {
		return err
	}
	h.Replace(snap)
	return nil
}

// Replace installs snap as the current snapshot.
func (h *SnapshotHolder) Replace(snap Snapshot) {
	bySlug := make(map[string]int, len(snap.Posts))
	for i, p := range snap.Posts {
		if _, dup := bySlug[p.Slug]; !dup {
			bySlug[p.Slug] = i
		}
	}
	present := NewPresenter(snap, h.trusted)

	h.mu.Lock()
	h.snap = snap
	h.bySlug = bySlug
	h.present = present
	h.loaded = time.Now()
	h.mu.Unlock()
}

// Snapshot returns the current snapshot and its presenter.
func (h *SnapshotHolder) Snapshot() (Snapshot, *Presenter) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.present
}

// LoadedAt returns when the current snapshot was installed.
func (h *SnapshotHolder) LoadedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loaded
}

// PostBySlug returns the post with slug from the current snapshot.
func (h *SnapshotHolder) PostBySlug(slug string) (Post, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i, ok := h.bySlug[slug]
	if !ok {
		return Post{}, ErrNotFound
	}
	return h.snap.Posts[i], nil
}
