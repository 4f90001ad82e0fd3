package flashcards

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn every time one of paths changes, until ctx is done.
// A path naming a file is watched through its directory, and only its own
// events are considered. Bursts of events closer than debounce are coalesced
// into a single call. fn runs on the calling goroutine.
func Watch(ctx context.Context, paths []string, debounce time.Duration, fn func()) error {
	if len(paths) == 0 {
		return errors.New("watch: no paths")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fsw.Close()

	// files maps the watched directories to the single file of interest, "" for any.
	files := make(map[string]map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		dir, name := abs, ""
		if !info.IsDir() {
			dir, name = filepath.Dir(abs), filepath.Base(abs)
		}
		if _, ok := files[dir]; !ok {
			if err := fsw.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			files[dir] = make(map[string]bool)
		}
		files[dir][name] = true
	}

	relevant := func(ev fsnotify.Event) bool {
		if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
			!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
			return false
		}
		names, ok := files[filepath.Dir(ev.Name)]
		if !ok {
			return false
		}
		return names[""] || names[filepath.Base(ev.Name)]
	}

	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if relevant(ev) {
				timer.Reset(debounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			fn()
		}
	}
}
