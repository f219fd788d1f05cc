package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses rapid event bursts (editor save dances,
// recursive copies) into one re-check.
const watchDebounce = 300 * time.Millisecond

// runWatch re-runs the check whenever markdown under inputPath changes.
// It runs once up front and returns when ctx is cancelled. Per-run
// failures are printed, not returned; a broken document must not stop
// the watch.
func runWatch(ctx context.Context, inputPath string, env *Environment, runOnce func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, inputPath); err != nil {
		return err
	}

	recheck := func() {
		if err := runOnce(ctx); err != nil {
			fmt.Fprintln(env.Stderr, err)
		}
	}

	recheck()
	fmt.Fprintf(env.Stderr, "watching %s for changes\n", inputPath)

	pending := make(chan struct{}, 1)
	var debounce *time.Timer
	schedule := func() {
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(watchDebounce, func() {
			select {
			case pending <- struct{}{}:
			default:
				// Re-check already pending
			}
		})
	}
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, serr := os.Stat(event.Name); serr == nil && info.IsDir() {
					// A moved-in tree may already contain markdown.
					_ = watcher.Add(event.Name)
					schedule()
					continue
				}
			}
			if !isMarkdownEvent(event) {
				continue
			}
			schedule()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(env.Stderr, "watch error: %v\n", werr)
		case <-pending:
			recheck()
		}
	}
}

// watchTree registers inputPath, or every directory under it, with the
// watcher. Watching the parent directory covers single-file inputs
// reliably across editors that replace files on save.
func watchTree(watcher *fsnotify.Watcher, inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		dir := filepath.Dir(inputPath)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// isMarkdownEvent reports whether the event concerns a markdown file in
// a way that warrants a re-check.
func isMarkdownEvent(event fsnotify.Event) bool {
	relevant := event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Rename == fsnotify.Rename ||
		event.Op&fsnotify.Remove == fsnotify.Remove
	if !relevant {
		return false
	}
	ext := filepath.Ext(event.Name)
	return ext == ".md" || ext == ".markdown"
}
