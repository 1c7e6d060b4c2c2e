package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type seenEntry struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
}

// SeenCache remembers which listings were already collected in earlier
// sessions so scrapers don't resurface them. Entries expire after 30 days.
type SeenCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

const retention = 30 * 24 * time.Hour

// NewSeenCache creates or loads the cache under cacheDir.
func NewSeenCache(cacheDir string) *SeenCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Msg("Failed to create cache directory")
	}
	cache := &SeenCache{
		filePath: filepath.Join(cacheDir, "seen_listings.json"),
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

// IsSeen reports whether a listing key was collected within the retention
// window.
func (c *SeenCache) IsSeen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.seen[key]
	return exists
}

// Add marks listing keys as seen and persists the cache when anything
// changed.
func (c *SeenCache) Add(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, key := range keys {
		if _, exists := c.seen[key]; !exists {
			c.seen[key] = now
			changed = true
		}
	}

	if changed {
		c.save()
	}
}

func (c *SeenCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Failed to read seen-listings cache")
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Msg("Failed to parse seen-listings cache")
		return
	}

	cutoff := time.Now().Add(-retention).UnixMilli()
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.Key] = e.Timestamp
		}
	}
	log.Debug().Int("loaded", len(c.seen)).Int("expired", len(entries)-len(c.seen)).Msg("Loaded seen-listings cache")
}

func (c *SeenCache) save() {
	entries := make([]seenEntry, 0, len(c.seen))
	for key, ts := range c.seen {
		entries = append(entries, seenEntry{Key: key, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal seen-listings cache")
		return
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		log.Warn().Err(err).Msg("Failed to write seen-listings cache")
	}
}
