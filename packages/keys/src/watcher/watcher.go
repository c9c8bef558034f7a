package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config configures a Watcher
type Config struct {
	// Paths are the files and directories to watch. Directories are watched
	// recursively.
	Paths []string
	// Debounce is the quiet period after the last change before onChange
	// runs.
	Debounce time.Duration
	// Match selects the files whose changes count. Nil matches every file.
	Match func(path string) bool
}

// Watcher runs a callback after template files change. Bursts of changes
// are collected into one call.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   Config
	debounce *Debouncer

	mu      sync.Mutex
	running bool
	pending map[string]struct{}
	// dirs holds the watched directories
	dirs map[string]struct{}

	// runMu keeps onChange calls sequential
	runMu sync.Mutex
}

// New creates a Watcher
func New(config Config, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		logger:   logger,
		config:   config,
		debounce: NewDebouncer(config.Debounce),
		pending:  make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onChange with the sorted
// paths changed since the previous call. An error returned by onChange is
// logged and watching goes on.
func (w *Watcher) Watch(ctx context.Context, onChange func(ctx context.Context, paths []string) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		w.watcher.Close()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	for _, path := range w.config.Paths {
		if err := w.addPath(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	w.logger.Info("watching templates",
		"paths", w.config.Paths,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// handleEvent queues the paths changed by event. A new directory queues the
// matching files already inside it; a removed or renamed directory queues
// itself.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event, onChange func(ctx context.Context, paths []string) error) {
	var paths []string
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create && isDir(event.Name):
		if skipDir(filepath.Base(event.Name)) {
			return
		}
		files, err := w.addDirectory(event.Name)
		if err != nil {
			w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
		}
		paths = files
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && w.forgetDirectory(event.Name):
		paths = []string{event.Name}
	case w.shouldProcessEvent(event):
		paths = []string{event.Name}
	}
	if len(paths) == 0 {
		return
	}

	w.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String(), "files", len(paths))

	w.mu.Lock()
	for _, path := range paths {
		w.pending[path] = struct{}{}
	}
	w.mu.Unlock()

	w.debounce.Trigger(func() {
		w.runMu.Lock()
		defer w.runMu.Unlock()
		if ctx.Err() != nil {
			return
		}

		paths := w.drain()
		if len(paths) == 0 {
			return
		}
		if err := onChange(ctx, paths); err != nil {
			w.logger.Error("change handler failed", "error", err)
		}
	})
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(paths)
	return paths
}

func (w *Watcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		_, err := w.addDirectory(path)
		return err
	}
	return w.watcher.Add(path)
}

// addDirectory watches dir and its subdirectories, skipping hidden ones and
// node_modules. It returns the matching files found on the way.
func (w *Watcher) addDirectory(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if w.matches(path) {
				files = append(files, path)
			}
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		w.mu.Lock()
		w.dirs[path] = struct{}{}
		w.mu.Unlock()
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
	return files, err
}

// forgetDirectory drops dir and its subdirectories from the watched set. It
// reports whether dir was watched.
func (w *Watcher) forgetDirectory(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; !ok {
		return false
	}
	prefix := dir + string(filepath.Separator)
	for path := range w.dirs {
		if path == dir || strings.HasPrefix(path, prefix) {
			delete(w.dirs, path)
		}
	}
	return true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return w.matches(event.Name)
}

func (w *Watcher) matches(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return w.config.Match == nil || w.config.Match(path)
}
