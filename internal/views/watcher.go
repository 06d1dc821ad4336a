package views

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a watcher-driven rebuild has been scheduled.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, path string)

// rebuildKey identifies one entity whose views need recomputing.
type rebuildKey struct {
	account string
	entity  string
}

// Watch starts an fsnotify watcher on the archive root and schedules a
// debounced per-entity view rebuild whenever a contract, title, or claim
// record changes on disk outside the API. Derived state (views, indexes,
// blobs) and temp files are ignored so rebuilds never feed back into the
// watcher. New directories created at runtime are added to the watch list.
func Watch(ctx context.Context, b *Builder, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[rebuildKey]struct{})
	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func(key rebuildKey) {
		pending[key] = struct{}{}
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			for key := range pending {
				if err := b.Rebuild(key.account, key.entity); err != nil {
					logger.Warn("watcher: rebuild failed",
						slog.String("account", key.account),
						slog.String("entity", key.entity),
						slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watcher: views rebuilt",
					slog.String("account", key.account),
					slog.String("entity", key.entity))
			}
			pending = make(map[rebuildKey]struct{})

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}

			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			key, ok := recordOwner(rel)
			if !ok {
				continue
			}

			kind := "updated"
			switch {
			case ev.Op&fsnotify.Create != 0:
				kind = "created"
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				kind = "deleted"
			}
			schedule(key)
			if cb != nil {
				cb(kind, rel)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// recordOwner maps a relative path to the (account, entity) whose views
// depend on it. Only contract, claim, and title records qualify; derived
// state and document metadata do not.
func recordOwner(rel string) (rebuildKey, bool) {
	if !strings.HasSuffix(rel, ".json") || strings.Contains(rel, ".fehu-tmp-") {
		return rebuildKey{}, false
	}
	parts := strings.Split(rel, "/")
	if len(parts) < 4 {
		return rebuildKey{}, false
	}
	account, entity := parts[0], parts[1]
	if entity == "indexes" || entity == "blobs" || parts[2] != "contracts" {
		return rebuildKey{}, false
	}
	base := parts[len(parts)-1]
	parent := parts[len(parts)-2]
	if parent == "documents" || parent == "diary" {
		return rebuildKey{}, false
	}
	switch {
	case base == "contract.json", base == "claim.json":
		return rebuildKey{account: account, entity: entity}, true
	case parent == "titles":
		return rebuildKey{account: account, entity: entity}, true
	}
	return rebuildKey{}, false
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
