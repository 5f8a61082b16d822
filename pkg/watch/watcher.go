// Package watch auto-ingests exported scene files. It watches a workspace
// directory for `.json` exports and feeds them to the engine as they are
// written, so a designer's export directory behaves like a live session.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/figbridge/figbridge/pkg/engine"
	"github.com/figbridge/figbridge/pkg/scene"
	"github.com/figbridge/figbridge/pkg/store"
	"github.com/figbridge/figbridge/pkg/util"
)

// Options configures a Watcher.
type Options struct {
	// DebounceMs groups rapid writes to the same file; 0 means 200ms.
	DebounceMs int
	// ExcludePatterns are doublestar patterns matched against paths
	// relative to the watch root.
	ExcludePatterns []string
	// SessionID receives every ingested batch; empty creates one session
	// on the first ingest and reuses it.
	SessionID string
	// Workers bounds the initial-scan ingest pool; 0 picks a size from
	// the core count.
	Workers int
}

// DefaultOptions returns the exclude set that covers the usual workspace
// noise.
func DefaultOptions() Options {
	return Options{
		DebounceMs: 200,
		ExcludePatterns: []string{
			"**/node_modules/**",
			"**/.git/**",
			"**/dist/**",
			"**/build/**",
		},
	}
}

// Watcher watches a directory tree and ingests scene exports on change.
type Watcher struct {
	watcher *fsnotify.Watcher
	engine  *engine.Engine
	logger  *slog.Logger
	opts    Options
	root    string

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	sessionMu sync.Mutex
	sessionID string

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher feeding the given engine.
func NewWatcher(eng *engine.Engine, opts Options, logger *slog.Logger) (*Watcher, error) {
	for _, p := range opts.ExcludePatterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if opts.DebounceMs == 0 {
		opts.DebounceMs = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:        fw,
		engine:         eng,
		logger:         logger,
		opts:           opts,
		sessionID:      opts.SessionID,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start ingests the exports already present under root, then begins
// watching for changes. Runs the event loop in a background goroutine.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()
	w.root = root

	existing, err := DiscoverExports(root, w.opts.ExcludePatterns)
	if err != nil {
		return err
	}
	w.ingestAll(existing)

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if w.excluded(path) {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("setup watches: %w", err)
	}

	w.logger.Info("watch mode started", "root", root, "existing", len(existing))
	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("watch mode stopped")
	return err
}

// SessionID returns the session receiving ingested batches; empty until
// the first ingest when none was configured.
func (w *Watcher) SessionID() string {
	w.sessionMu.Lock()
	defer w.sessionMu.Unlock()
	return w.sessionID
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.excluded(path) || !isExport(path) {
		return
	}

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write,
		event.Op&fsnotify.Create == fsnotify.Create:
		w.debounceIngest(path)
	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		w.cancelPending(path)
	}
}

// debounceIngest schedules an ingest after the debounce delay. Repeated
// writes to the same file within the window collapse to one ingest.
func (w *Watcher) debounceIngest(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(
		time.Duration(w.opts.DebounceMs)*time.Millisecond,
		func() {
			w.ingestFile(path)
			w.debounceMu.Lock()
			delete(w.debounceTimers, path)
			w.debounceMu.Unlock()
		},
	)
}

func (w *Watcher) cancelPending(path string) {
	w.debounceMu.Lock()
	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
		delete(w.debounceTimers, path)
	}
	w.debounceMu.Unlock()
}

// ingestAll feeds the initial scan through a bounded worker pool.
func (w *Watcher) ingestAll(paths []string) {
	if len(paths) == 0 {
		return
	}
	workers := util.OptimalPoolSizeWithOverride(w.opts.Workers)
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				w.ingestFile(path)
			}
		}()
	}
	for _, p := range paths {
		jobs <- p
	}
	close(jobs)
	wg.Wait()
}

func (w *Watcher) ingestFile(path string) {
	data, release, err := util.ReadMapped(path)
	if err != nil {
		w.logger.Warn("failed to read export", "file", path, "error", err)
		return
	}
	defer release()
	if len(data) == 0 {
		return
	}

	export, err := scene.ParseExport(data)
	if err != nil {
		w.logger.Warn("failed to parse export", "file", path, "error", err)
		return
	}
	if len(export.Components) == 0 {
		w.logger.Debug("export has no components", "file", path)
		return
	}

	meta := store.BatchMeta{FileKey: export.FileKey, Name: export.Name, PageID: export.PageID}

	w.sessionMu.Lock()
	sessionID := w.sessionID
	w.sessionMu.Unlock()

	res, err := w.engine.Ingest(sessionID, meta, export.Components)
	if err != nil {
		w.logger.Warn("failed to ingest export", "file", path, "error", err)
		return
	}

	w.sessionMu.Lock()
	w.sessionID = res.SessionID
	w.sessionMu.Unlock()

	w.logger.Info("export ingested", "file", path, "session", res.SessionID, "components", res.StoredCount)
}

func (w *Watcher) excluded(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.opts.ExcludePatterns {
		if m, _ := doublestar.PathMatch(pattern, rel); m {
			return true
		}
	}
	return false
}

func isExport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// DiscoverExports walks root and returns every `.json` export not matched
// by an exclude pattern, in lexical order.
func DiscoverExports(root string, excludes []string) ([]string, error) {
	var found []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range excludes {
			if m, _ := doublestar.PathMatch(pattern, rel); m {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if !info.IsDir() && isExport(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover exports under %s: %w", root, err)
	}
	return found, nil
}
