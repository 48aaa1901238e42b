// Package watcher reloads the album when the library directory changes on
// disk. Filesystem events arrive in bursts (a photo import touches many
// files), so changes are coalesced into a single reload callback per quiet
// window.
package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pixelweaver/gallery_viewer/pkg/album"
)

// DefaultQuietWindow is how long the directory must stay quiet before a
// reload fires.
const DefaultQuietWindow = 250 * time.Millisecond

// AlbumWatcher watches a library root and invokes a callback after each
// settled burst of relevant changes.
type AlbumWatcher struct {
	fs     *fsnotify.Watcher
	quiet  time.Duration
	reload func()
	done   chan struct{}
}

// Watch starts watching root. reload is called from the watcher's goroutine
// after each quiet window; callers typically forward it to their event loop.
func Watch(root string, quiet time.Duration, reload func()) (*AlbumWatcher, error) {
	if quiet <= 0 {
		quiet = DefaultQuietWindow
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(root); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	w := &AlbumWatcher{fs: fs, quiet: quiet, reload: reload, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

// Close stops the watcher. It is safe to call once.
func (w *AlbumWatcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *AlbumWatcher) loop() {
	// The timer stays stopped until a relevant event arrives, then is pushed
	// back with every further event in the burst.
	timer := time.NewTimer(w.quiet)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := false
	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.quiet)
			pending = true

		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Watch errors are transient (e.g. a removed subdirectory);
			// the next successful event still triggers a reload.

		case <-timer.C:
			pending = false
			w.reload()
		}
	}
}

// relevant filters events down to ones that can change the album: image
// files appearing, disappearing, or being rewritten, and new directories
// (which a rescan picks up).
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	// Directory events carry no extension; let the rescan sort them out.
	return album.IsImagePath(ev.Name) || ev.Op&fsnotify.Create != 0 || ev.Op&fsnotify.Remove != 0
}
