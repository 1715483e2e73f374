// Package resultcache keeps the most recent assessment result on disk so the
// CLI can show it again without contacting the backend.
package resultcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/eqcoach/eqcoach/pkg/assessment"
)

// LastResultKey is the key the CLI stores the latest result under.
const LastResultKey = "eqResult"

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("no cached result")

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Entry is one cached result with the time it was written.
type Entry struct {
	Result   *assessment.Result `json:"result"`
	ID       string             `json:"id,omitempty"`
	StoredAt time.Time          `json:"stored_at"`
}

// Cache is a file-backed key-value store of results, one JSON file per key.
type Cache struct {
	Dir string
}

// New creates a Cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{Dir: dir}
}

func (c *Cache) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(c.Dir, key+".json"), nil
}

// Put stores result under key, replacing any previous entry. id is the
// backend's result ID when the result was submitted, or "".
func (c *Cache) Put(key, id string, result *assessment.Result) error {
	path, err := c.path(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(Entry{Result: result, ID: id, StoredAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// Write then rename so a crash never leaves a truncated entry.
	tmp, err := os.CreateTemp(c.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Get loads the entry stored under key. It returns ErrNotFound if there is
// none.
func (c *Cache) Get(key string) (*Entry, error) {
	path, err := c.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse cache entry %s: %w", key, err)
	}
	if e.Result == nil {
		return nil, fmt.Errorf("cache entry %s has no result", key)
	}
	return &e, nil
}

// Delete removes the entry under key. Deleting a missing key is not an
// error.
func (c *Cache) Delete(key string) error {
	path, err := c.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}
