package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeenCache(t *testing.T) {
	dir := t.TempDir()

	cache := NewSeenCache(dir)
	assert.False(t, cache.IsSeen("https://example.com/job/1"))

	cache.Add([]string{"https://example.com/job/1", "https://example.com/job/2"})
	assert.True(t, cache.IsSeen("https://example.com/job/1"))
	assert.True(t, cache.IsSeen("https://example.com/job/2"))
	assert.False(t, cache.IsSeen("https://example.com/job/3"))

	// Survives a reload from disk.
	reloaded := NewSeenCache(dir)
	assert.True(t, reloaded.IsSeen("https://example.com/job/1"))
	assert.False(t, reloaded.IsSeen("https://example.com/job/3"))
}
