package vfs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStickyCacheGetMissOnMtimeMismatch(t *testing.T) {
	c := NewStickyCache()
	c.Set("/a.c", "includes", 100, []string{"b.h"})

	_, ok := c.Get("/a.c", "includes", 200)
	assert.False(t, ok)

	v, ok := c.Get("/a.c", "includes", 100)
	require.True(t, ok)
	assert.Equal(t, []string{"b.h"}, v)
}

func TestStickyCacheRoundTripsThroughJSON(t *testing.T) {
	c := NewStickyCache()
	c.Set("/a.c", "includes", 100, []string{"b.h", "c.h"})
	c.Set("/z.c", "includes", 50, []string{})

	data, err := c.Dump()
	require.NoError(t, err)

	loaded := LoadStickyCache(data)
	v, ok := loaded.Get("/a.c", "includes", 100)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"b.h", "c.h"}, v)
}

func TestLoadStickyCacheDropsTamperedEntry(t *testing.T) {
	c := NewStickyCache()
	c.Set("/a.c", "includes", 100, []string{"b.h"})
	c.Set("/z.c", "includes", 50, []string{"untouched.h"})

	data, err := c.Dump()
	require.NoError(t, err)

	tampered := bytes.Replace(data, []byte("b.h"), []byte("evil.h"), 1)
	require.NotEqual(t, data, tampered)

	loaded := LoadStickyCache(tampered)
	_, ok := loaded.Get("/a.c", "includes", 100)
	assert.False(t, ok, "entry with mismatched checksum must be dropped")

	v, ok := loaded.Get("/z.c", "includes", 50)
	require.True(t, ok, "untouched entry must survive")
	assert.Equal(t, []string{"untouched.h"}, v)
}

func TestLoadStickyCacheToleratesGarbage(t *testing.T) {
	loaded := LoadStickyCache([]byte("not json"))
	_, ok := loaded.Get("/a.c", "includes", 0)
	assert.False(t, ok)

	empty := LoadStickyCache(nil)
	_, ok = empty.Get("/a.c", "includes", 0)
	assert.False(t, ok)
}
