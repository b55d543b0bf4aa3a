package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// watchFile calls rerun once, then again after every write to path, until ctx
// is done. Errors from rerun are reported to w and do not stop the watch.
func watchFile(ctx context.Context, path string, rerun func() error, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so the directory is watched instead.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	report := func() {
		if err := rerun(); err != nil {
			printError(w, err, stderrIsTerminal())
		}
		fmt.Fprintf(w, "watching %s\n", filepath.Base(path))
	}
	report()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(ev, path) {
				continue
			}
			pending = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "watch error: %v\n", err)
		case <-pending:
			pending = nil
			report()
		}
	}
}

func isRelevantEvent(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(path) {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create) != 0
}
