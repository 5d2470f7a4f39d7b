package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/imlapps/sdapps-sub000/internal/config"
	"github.com/imlapps/sdapps-sub000/internal/logger"
	"github.com/imlapps/sdapps-sub000/internal/rdfstore"
)

// Watch monitors dir for document changes and reloads the affected files
// into store once a burst of events has been quiet for cfg.Debounce.
// Deleted files have their named graph removed. Blocks until the context is
// cancelled.
func Watch(ctx context.Context, dir string, store rdfstore.Store, cfg config.Config) error {
	matcher, err := loadMatcher(dir)
	if err != nil {
		return fmt.Errorf("loading ignore patterns: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, dir, dir, matcher); err != nil {
		return fmt.Errorf("setting up watcher: %w", err)
	}

	changedFiles := make(map[string]bool)
	batchTimer := time.NewTimer(cfg.Debounce)
	batchTimer.Stop()

	logger.Info("watching for changes", "dir", dir, "debounce", cfg.Debounce)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addDirs(watcher, event.Name, dir, matcher); err != nil {
						logger.Warn("watching new directory", "dir", event.Name, "err", err)
					}
					continue
				}
			}

			if !shouldWatch(event.Name, dir, cfg, matcher) {
				continue
			}

			relPath, err := filepath.Rel(dir, event.Name)
			if err != nil {
				continue
			}
			changedFiles[relPath] = true
			batchTimer.Reset(cfg.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "err", err)

		case <-batchTimer.C:
			if len(changedFiles) > 0 {
				if err := processChangedFiles(store, cfg, dir, changedFiles); err != nil {
					logger.Error("processing changes", "err", err)
				}
				changedFiles = make(map[string]bool)
			}
		}
	}
}

// addDirs watches root and every directory below it that is not ignored.
func addDirs(watcher *fsnotify.Watcher, root, base string, matcher gitignore.Matcher) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != base && shouldSkipDir(d.Name(), path, base, matcher) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// processChangedFiles reloads the changed files in a stable order. A file
// that no longer exists has its graph removed.
func processChangedFiles(store rdfstore.Store, cfg config.Config, dir string, changedFiles map[string]bool) error {
	paths := make([]string, 0, len(changedFiles))
	for relPath := range changedFiles {
		paths = append(paths, relPath)
	}
	sort.Strings(paths)

	logger.Info("reloading changed files", "count", len(paths))

	for _, relPath := range paths {
		info, err := os.Stat(filepath.Join(dir, relPath))
		if os.IsNotExist(err) {
			n, err := store.RemoveGraph(cfg.GraphFor(relPath))
			if err != nil {
				return fmt.Errorf("removing %s: %w", relPath, err)
			}
			logger.Info("removed", "file", relPath, "statements", n)
			continue
		}
		if err != nil || info.IsDir() {
			continue
		}

		file, err := readFile(dir, relPath)
		if err != nil {
			logger.Warn("reading changed file", "file", relPath, "err", err)
			continue
		}
		fr, err := Load(store, cfg, file)
		if err != nil {
			return fmt.Errorf("reloading %s: %w", relPath, err)
		}
		logger.Info("reloaded", "file", relPath, "entities", fr.Entities, "skipped", fr.Skipped)
	}
	return nil
}
