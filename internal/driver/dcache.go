package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"dfalex/internal/automaton"
)

// Digest is the sha256 of a table's TOML source.
type Digest [sha256.Size]byte

// TableCache хранит скомпилированные таблицы по хешу исходника на диске.
// A nil *TableCache is a valid disabled cache. Thread-safe.
type TableCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenTableCache initializes a cache under $XDG_CACHE_HOME/<app>
// (~/.cache/<app> when unset).
func OpenTableCache(app string) (*TableCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenTableCacheAt(filepath.Join(base, app))
}

// OpenTableCacheAt uses dir as the cache root.
func OpenTableCacheAt(dir string) (*TableCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &TableCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *TableCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *TableCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "tables", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a compiled table.
func (c *TableCache) Put(key Digest, tab *automaton.Compiled) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(tab); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode table: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a compiled table. A missing entry is (nil, false, nil).
func (c *TableCache) Get(key Digest) (*automaton.Compiled, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	compiled, err := automaton.DecodeCompiled(data)
	if err != nil {
		return nil, false, err
	}
	return compiled, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *TableCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
