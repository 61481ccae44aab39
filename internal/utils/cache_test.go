package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPageCacheExpiry(t *testing.T) {
	c := GetCache()

	c.Set("k", "v", 50*time.Millisecond)
	assert.Equal(t, "v", c.Get("k"))

	time.Sleep(60 * time.Millisecond)
	assert.Nil(t, c.Get("k"), "expired entries read as missing")

	c.Set("k2", 42, time.Minute)
	c.Delete("k2")
	assert.Nil(t, c.Get("k2"))
}

func TestStoredFilenameKeepsExtension(t *testing.T) {
	name := StoredFilename("../../etc/passwd.png")
	assert.NotContains(t, name, "/")
	assert.Contains(t, name, ".png")

	assert.NotEqual(t, StoredFilename("a.txt"), StoredFilename("a.txt"))
}
