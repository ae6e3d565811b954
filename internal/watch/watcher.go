// Package watch redraws the commit graph when a repository's references,
// HEAD or index change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the repository must be quiet before a redraw.
const DefaultDelay = 350 * time.Millisecond

// Options configures Run.
type Options struct {
	GitDir string
	Delay  time.Duration
	// OnChange is called, debounced, after relevant changes.
	OnChange func()
	// OnError receives watcher errors that do not stop the loop. May be nil.
	OnError func(error)
}

// Run watches the git directory until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.GitDir == "" {
		return errors.New("git directory is required")
	}
	if opts.OnChange == nil {
		return errors.New("change callback is required")
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer w.Close()

	for _, dir := range watchDirs(opts.GitDir) {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	d := NewDebouncer(delay, opts.OnChange)
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ShouldIgnore(opts.GitDir, ev) {
				continue
			}
			// New directories under refs/ (a new remote, a branch namespace) are
			// not covered by the non-recursive watch until added.
			if ev.Has(fsnotify.Create) && isRefsPath(opts.GitDir, ev.Name) {
				for _, dir := range subdirs(ev.Name) {
					_ = w.Add(dir)
				}
			}
			d.Trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if opts.OnError != nil {
				opts.OnError(err)
			}
		}
	}
}

// watchDirs returns the git directory plus every directory below refs/.
func watchDirs(gitDir string) []string {
	dirs := []string{gitDir}
	refs := filepath.Join(gitDir, "refs")
	return append(dirs, subdirs(refs)...)
}

func subdirs(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}

func isRefsPath(gitDir, name string) bool {
	rel, err := filepath.Rel(gitDir, name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel == "refs" || strings.HasPrefix(rel, "refs/")
}

// ShouldIgnore reports whether ev cannot change the drawn graph.
func ShouldIgnore(gitDir string, ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	base := filepath.Base(ev.Name)
	if strings.HasSuffix(strings.ToLower(base), ".lock") {
		return true
	}
	switch base {
	case "FETCH_HEAD", "ORIG_HEAD", "COMMIT_EDITMSG", "gitk.cache":
		return true
	}
	rel, err := filepath.Rel(gitDir, ev.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, prefix := range []string{"logs", "objects", "hooks", "info"} {
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}
