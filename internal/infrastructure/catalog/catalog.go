// Package catalog keeps the anonymous upload registry as a JSON array on disk.
// The file is loaded once on Open and rewritten in full on every mutation.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"file-share-api/internal/domain/drop"
)

type Catalog struct {
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	entries drop.Entries
	byMD5   map[string]int
}

func Open(path string, logger *zap.Logger) (*Catalog, error) {
	c := &Catalog{
		path:   path,
		logger: logger,
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}

	logger.Info("drop catalog loaded", zap.String("path", path), zap.Int("entries", len(c.entries)))

	return c, nil
}

// Reload replaces the in-memory view with the file contents. A missing file
// yields an empty catalog.
func (c *Catalog) Reload() error {
	var entries drop.Entries

	data, err := os.ReadFile(c.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read catalog: %w", err)
	default:
		if err = json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("decode catalog %s: %w", c.path, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.byMD5 = make(map[string]int, len(entries))
	for i, e := range entries {
		c.byMD5[e.Fingerprint] = i
	}

	return nil
}

func (c *Catalog) FindByFingerprint(fingerprint string) (*drop.Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byMD5[fingerprint]
	if !ok {
		return nil, nil
	}
	e := c.entries[i]
	return &e, nil
}

func (c *Catalog) Add(e drop.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byMD5[e.Fingerprint]; ok {
		return drop.ErrDuplicate
	}

	next := append(c.entries[:len(c.entries):len(c.entries)], e)
	if err := c.flush(next); err != nil {
		return err
	}

	c.entries = next
	c.byMD5[e.Fingerprint] = len(next) - 1

	return nil
}

func (c *Catalog) List() (drop.Entries, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(drop.Entries, len(c.entries))
	copy(out, c.entries)
	return out, nil
}

// flush must be called with mu held for writing.
func (c *Catalog) flush(entries drop.Entries) error {
	if entries == nil {
		entries = drop.Entries{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o640); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace catalog: %w", err)
	}

	return nil
}
