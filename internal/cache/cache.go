// Package cache stores solved plans on disk so repeated runs over the same
// instance skip the solver.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guimove/palletfit/internal/model"
)

// FileCache keeps one JSON file per key in dir.
type FileCache struct {
	dir string
	ttl time.Duration
}

// NewFileCache creates a cache in dir. Entries older than ttl are ignored;
// a zero ttl never expires them.
func NewFileCache(dir string, ttl time.Duration) *FileCache {
	return &FileCache{dir: dir, ttl: ttl}
}

// Key identifies a solve by its parameters and the backend producing it.
func Key(params model.Parameters, backend string) string {
	data, _ := json.Marshal(struct {
		Params  model.Parameters `json:"params"`
		Backend string           `json:"backend"`
	}{params, backend})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:12])
}

// Get returns the cached solution for key, if present and fresh.
func (fc *FileCache) Get(key string) (*model.Solution, bool) {
	path := fc.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if fc.ttl > 0 && time.Since(info.ModTime()) > fc.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var sol model.Solution
	if err := json.Unmarshal(data, &sol); err != nil {
		return nil, false
	}
	return &sol, true
}

// Set stores sol under key. The file is written under a temporary name and
// renamed so concurrent readers never see a partial entry.
func (fc *FileCache) Set(key string, sol *model.Solution) error {
	if err := os.MkdirAll(fc.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(sol)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(fc.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fc.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes all cached entries.
func (fc *FileCache) Clear() error {
	entries, err := os.ReadDir(fc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(fc.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, key+".json")
}
