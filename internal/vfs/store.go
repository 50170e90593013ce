package vfs

import "path/filepath"

// Store is the per-run registry of Handles, keyed by cleaned absolute-ish
// path, plus the sticky-attribute cache backing every Handle created from it.
// A Store is not safe for concurrent use; the generator is single-threaded by
// design.
type Store struct {
	cache   *StickyCache
	handles map[string]*Handle
}

// NewStore creates a Store backed by the given sticky-attribute cache. Pass
// NewStickyCache() for a fresh, empty cache, or a cache loaded with
// LoadStickyCache for a warm one.
func NewStore(cache *StickyCache) *Store {
	return &Store{cache: cache, handles: map[string]*Handle{}}
}

// At returns the unique Handle for path, creating and stat'ing it on first
// request.
func (s *Store) At(path string) *Handle {
	clean := filepath.Clean(path)
	if h, ok := s.handles[clean]; ok {
		return h
	}
	h := newHandle(s, clean, nil)
	s.handles[clean] = h
	return h
}

// Cache returns the sticky-attribute cache backing this store, so callers can
// persist it after a run (see StickyCache.Dump).
func (s *Store) Cache() *StickyCache {
	return s.cache
}
