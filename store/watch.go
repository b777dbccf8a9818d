package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a set of files and directories. Files are
// watched through their parent directory so that editors which replace a
// file by rename are still seen.
type Watcher struct {
	w     *fsnotify.Watcher
	files map[string]bool // cleaned file paths of interest
	dirs  map[string]bool // directories whose every entry is of interest
}

// NewWatcher starts watching paths. Each path may be a file or a directory;
// a path that does not exist yet is treated as a file.
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: watch: %w", err)
	}
	w := &Watcher{w: fw, files: make(map[string]bool), dirs: make(map[string]bool)}
	added := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		dir := filepath.Dir(p)
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			w.dirs[p] = true
			dir = p
		} else {
			w.files[p] = true
		}
		if added[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
		added[dir] = true
	}
	return w, nil
}

// interesting reports whether an event on name concerns a watched path.
func (w *Watcher) interesting(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(ev.Name)
	if filepath.Base(name)[0] == '.' {
		return false // temp files from DirStore.Save
	}
	return w.files[name] || w.dirs[filepath.Dir(name)]
}

// Run delivers changed paths to onChange until ctx is done, then closes the
// watcher. Watch errors are passed to onError, which may be nil.
func (w *Watcher) Run(ctx context.Context, onChange func(path string), onError func(error)) {
	defer w.w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if w.interesting(ev) {
				onChange(filepath.Clean(ev.Name))
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

// Close stops the watcher without running it.
func (w *Watcher) Close() error {
	return w.w.Close()
}
