// Package cache persists located .text ranges keyed by file content hash, so
// repeated scans over an unchanged builds directory skip the header walk.
// Section layout is a pure function of the file bytes, which makes a
// content-addressed cache safe across renames and re-downloads.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/DaniGP17/PatternV/internal/pefile"
)

const fileName = ".patternv_cache.json"

// DB maps content hash (xxhash-64 hex) to the located .text range.
type DB struct {
	Entries map[string]pefile.Section `json:"entries"`
}

func defaultPath(root string) string {
	return filepath.Join(root, fileName)
}

// Hash returns the cache key for a file's content.
func Hash(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}

// Load reads the cache for the given builds directory. A missing or corrupt
// cache file yields an empty DB and an error the caller may ignore.
func Load(root string) (DB, error) {
	var db DB
	b, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return DB{Entries: map[string]pefile.Section{}}, err
	}
	if err := json.Unmarshal(b, &db); err != nil {
		return DB{Entries: map[string]pefile.Section{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]pefile.Section{}
	}
	return db, nil
}

// Save writes the cache next to the builds it describes.
func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(defaultPath(root), b, 0644)
}
