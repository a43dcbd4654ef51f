// Package catalog serves a directory of .nx containers by name.
//
// A container is addressed by its file name without the extension, so
// String.nx is "String". Containers are loaded on first use and kept for the
// lifetime of the Catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/samcharles93/nxpack/internal/assets"
	"github.com/samcharles93/nxpack/internal/logger"
	"github.com/samcharles93/nxpack/pkg/nx"
)

// Ext is the file extension of containers in a catalog directory.
const Ext = ".nx"

var ErrInvalidName = errors.New("catalog: invalid container name")

// Entry describes a container file found in the catalog directory.
type Entry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Loaded  bool      `json:"loaded"`
}

// Catalog lazily opens and caches containers from one directory.
// It is safe for concurrent use.
type Catalog struct {
	dir string
	log logger.Logger

	mu    sync.RWMutex
	files map[string]*nx.File
	group singleflight.Group
}

// New returns a catalog over dir. Nothing is read until a container is used.
func New(dir string, log logger.Logger) *Catalog {
	if log == nil {
		log = logger.Discard()
	}
	return &Catalog{
		dir:   dir,
		log:   log.With("component", "catalog"),
		files: make(map[string]*nx.File),
	}
}

// Dir returns the directory the catalog reads from.
func (c *Catalog) Dir() string { return c.dir }

// List returns the containers in the catalog directory sorted by name.
func (c *Catalog) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", c.dir, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != Ext {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(de.Name(), Ext)
		_, loaded := c.files[name]
		out = append(out, Entry{
			Name:    name,
			Path:    filepath.Join(c.dir, de.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Loaded:  loaded,
		})
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Path returns the file path of the named container.
func (c *Catalog) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(c.dir, name+Ext)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: container %q", nx.ErrNotFound, name)
		}
		return "", fmt.Errorf("%w: stat %s: %w", nx.ErrIO, path, err)
	}
	return path, nil
}

// Open returns the loaded container called name, loading it if needed.
// Concurrent first opens of the same container share one load. Failed loads
// are not cached.
func (c *Catalog) Open(name string) (*nx.File, error) {
	c.mu.RLock()
	f, ok := c.files[name]
	c.mu.RUnlock()
	if ok {
		return f, nil
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		c.mu.RLock()
		f, ok := c.files[name]
		c.mu.RUnlock()
		if ok {
			return f, nil
		}

		path, err := c.Path(name)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		f, err = nx.Open(path)
		if err != nil {
			c.log.Warn("container load failed", "name", name, "error", err)
			return nil, fmt.Errorf("catalog: load %s: %w", name, err)
		}
		c.log.Info("container loaded",
			"name", name,
			"nodes", f.Len(),
			"strings", f.StringCount(),
			"duration", time.Since(start),
		)

		c.mu.Lock()
		c.files[name] = f
		c.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*nx.File), nil
}

// Loaded returns the names of the containers currently cached, sorted.
func (c *Catalog) Loaded() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.files))
	for name := range c.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve resolves "Container/a/b/c". The first segment names the container
// and the rest is resolved from its root. Leading slashes are ignored.
func (c *Catalog) Resolve(path string) (nx.Node, error) {
	name, rest, _ := strings.Cut(strings.TrimLeft(path, "/"), "/")
	f, err := c.Open(name)
	if err != nil {
		return nx.Node{}, err
	}
	return f.Resolve(rest)
}

// Assets opens an asset source for the named container. The caller closes it.
func (c *Catalog) Assets(name string) (*assets.Source, error) {
	path, err := c.Path(name)
	if err != nil {
		return nil, err
	}
	return assets.Open(path)
}

// Preload loads every container in the directory, at most limit at a time.
// A limit <= 0 means no limit. The first load error cancels the rest.
func (c *Catalog) Preload(ctx context.Context, limit int) error {
	entries, err := c.List()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.Open(e.Name)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	c.log.Debug("preload complete", "containers", len(entries))
	return nil
}
