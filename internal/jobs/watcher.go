// File: internal/jobs/watcher.go
package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to a fixed set of files. Parent directories are
// watched rather than the files themselves, so editors that save by writing
// a temp file and renaming it over the original do not silence future
// events.
type Watcher struct {
	paths  map[string]struct{}
	dirs   []string
	logger *zap.Logger
}

// NewWatcher resolves and verifies the given paths. Every path must exist
// when the watcher is created.
func NewWatcher(paths []string, logger *zap.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("jobs: watcher requires at least one path")
	}
	if logger == nil {
		return nil, errors.New("jobs: watcher requires a logger")
	}

	w := &Watcher{
		paths:  make(map[string]struct{}, len(paths)),
		logger: logger.Named("FileWatcher"),
	}
	seen := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("jobs: resolving %s: %w", p, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, fmt.Errorf("jobs: watch target: %w", err)
		}
		w.paths[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Run blocks until the context is canceled, invoking onChange with the
// absolute path of every watched file that is written, created or renamed
// into place. Bursts of events are not collapsed here; debouncing belongs
// to the dispatcher.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("jobs: starting watcher: %w", err)
	}
	defer notify.Close()

	for _, dir := range w.dirs {
		if err := notify.Add(dir); err != nil {
			return fmt.Errorf("jobs: watching %s: %w", dir, err)
		}
	}
	w.logger.Info("Watching for changes",
		zap.Int("files", len(w.paths)),
		zap.Int("directories", len(w.dirs)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-notify.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := w.paths[abs]; watched {
				w.logger.Debug("Source changed",
					zap.String("path", abs),
					zap.String("op", event.Op.String()))
				onChange(abs)
			}
		case watchErr, ok := <-notify.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(watchErr))
		}
	}
}
