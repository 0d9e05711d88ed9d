package listing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Source provides the current table.
type Source interface {
	Table() (*Table, error)
}

// Cache holds the table loaded from a CSV file, keyed by the file's path
// and modification time. Table reloads when the mtime changes or after
// Invalidate.
type Cache struct {
	path string
	load func(string) (*Table, error)

	mu      sync.Mutex
	table   *Table
	modTime time.Time
	loads   int
}

// NewCache creates a cache for the CSV at path. Nothing is read until the
// first call to Table.
func NewCache(path string) *Cache {
	return &Cache{path: path, load: Load}
}

// Path returns the file the cache reads.
func (c *Cache) Path() string {
	return c.path
}

// Table returns the cached table, reloading it if the file changed.
func (c *Cache) Table() (*Table, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table != nil && info.ModTime().Equal(c.modTime) {
		return c.table, nil
	}

	t, err := c.load(c.path)
	if err != nil {
		return nil, err
	}
	c.table = t
	c.modTime = info.ModTime()
	c.loads++
	slog.Info("dataset cached", "path", c.path, "rows", t.Len(), "mtime", c.modTime)
	return t, nil
}

// Invalidate drops the cached table.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = nil
	c.modTime = time.Time{}
}

// Loads returns how many times the file has been read.
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

// Watch invalidates the cache whenever the file is written, created,
// renamed or removed. The parent directory is watched so editors that
// replace the file are noticed. Watch blocks until ctx is done or the
// watcher fails.
func (c *Cache) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		if cerr := watcher.Close(); cerr != nil {
			slog.Warn("closing watcher", "error", cerr)
		}
	}()

	target := filepath.Clean(c.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&relevant == 0 {
				continue
			}
			slog.Debug("dataset changed", "path", event.Name, "op", event.Op.String())
			c.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", target, err)
		}
	}
}
