package postbrowser

import "context"

// ContentSource supplies the posts, categories and tags a browser works on.
// It is queried once before browsing starts.
type ContentSource interface {
	Load(ctx context.Context) (Snapshot, error)
}

// SourceFunc adapts a function to ContentSource.
type SourceFunc func(ctx context.Context) (Snapshot, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) (Snapshot, error) {
	return f(ctx)
}

// StaticSource returns a ContentSource that always yields snap.
func StaticSource(snap Snapshot) ContentSource {
	return SourceFunc(func(context.Context) (Snapshot, error) {
		return snap, nil
	})
}
