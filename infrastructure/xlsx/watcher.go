package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-imports a workbook file each time it is written.
type Watcher struct {
	importer *Importer
	path     string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
}

// NewWatcher starts watching path. Changes are delivered once Run is called.
// The parent directory is watched so that saves which rename a new file over
// path are seen as well as in-place writes.
func NewWatcher(importer *Importer, path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{importer: importer, path: path, watcher: w, logger: logger}, nil
}

// Run imports the file on every write until ctx is cancelled. A failed
// import is logged and the previous workbook content is kept.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	w.logger.InfoContext(ctx, "watching workbook file", slog.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if _, err := w.importer.Import(ctx, w.path); err != nil {
				w.logger.ErrorContext(ctx, "workbook import failed",
					slog.String("path", w.path),
					slog.String("error", err.Error()),
				)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorContext(ctx, "file watcher error", slog.String("error", err.Error()))
		}
	}
}
