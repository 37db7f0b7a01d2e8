package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/studyhall-ai/studyhall/internal/stats"
)

// Reloader defines the interface for rebuilding the knowledge base
type Reloader interface {
	Reload(ctx context.Context) (stats.Report, error)
}

// FileWatcher tracks modification times of the collection files so the
// worker only reloads when something actually changed.
type FileWatcher struct {
	paths  []string
	mtimes map[string]time.Time
}

// NewFileWatcher creates a watcher primed with the files' current state, so
// the initial load is not immediately repeated.
func NewFileWatcher(paths ...string) *FileWatcher {
	w := &FileWatcher{
		paths:  paths,
		mtimes: make(map[string]time.Time, len(paths)),
	}
	w.Changed()
	return w
}

// Changed reports whether any watched file appeared, disappeared or was
// modified since the previous call, and records the new state.
func (w *FileWatcher) Changed() bool {
	changed := false
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			if _, known := w.mtimes[path]; known {
				delete(w.mtimes, path)
				changed = true
			}
			continue
		}

		mtime := info.ModTime()
		if prev, known := w.mtimes[path]; !known || !prev.Equal(mtime) {
			w.mtimes[path] = mtime
			changed = true
		}
	}
	return changed
}

// ReloadWorker rebuilds the knowledge base when the collection files change.
// Without a watcher it reloads on every tick, which suits remote sources
// whose contents cannot be cheaply change-detected.
type ReloadWorker struct {
	reloader Reloader
	watcher  *FileWatcher
}

// NewReloadWorker creates a new ReloadWorker instance. watcher may be nil.
func NewReloadWorker(reloader Reloader, watcher *FileWatcher) *ReloadWorker {
	return &ReloadWorker{reloader: reloader, watcher: watcher}
}

// Process implements the Processor interface
func (w *ReloadWorker) Process(ctx context.Context) error {
	if w.watcher != nil && !w.watcher.Changed() {
		return nil
	}

	report, err := w.reloader.Reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload knowledge base: %w", err)
	}

	log.Printf("knowledge base reloaded: %d entries (%d course, %d forum)",
		report.TotalEntries, report.CourseEntryCount, report.ForumEntryCount)
	return nil
}
