package contentdir

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eringen/postbrowser"
)

const debounce = 250 * time.Millisecond

// Watch reloads the directory whenever a file in it or in posts/ changes and
// calls fn with the result. Bursts of events (editors writing temp files)
// are coalesced. Watch blocks until ctx is done.
func (s *Source) Watch(ctx context.Context, fn func(postbrowser.Snapshot, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return err
	}
	// posts/ may not exist yet; it is picked up once created.
	postsDir := filepath.Join(s.dir, "posts")
	postsWatched := watcher.Add(postsDir) == nil

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name == postsDir {
				switch {
				case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
					// A renamed directory keeps its inotify watch; drop it so a
					// recreated posts/ is watched afresh.
					_ = watcher.Remove(postsDir)
					postsWatched = false
				case !postsWatched && ev.Has(fsnotify.Create):
					postsWatched = watcher.Add(postsDir) == nil
				}
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(postbrowser.Snapshot{}, err)
		case <-timer.C:
			snap, err := s.Load(ctx)
			fn(snap, err)
		}
	}
}
