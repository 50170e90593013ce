package vfs

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// entry is one cached attribute value, valid only while MtimeMillis matches
// the file's current modification time. Checksum guards against a hand-
// edited or merge-mangled META line poisoning a build with a value that no
// longer matches what was actually computed.
type entry struct {
	MtimeMillis int64  `json:"mtime"`
	Value       any    `json:"value"`
	Checksum    uint64 `json:"sum"`
}

// StickyCache is the persisted, mtime-keyed attribute cache that survives
// across runs inside the generated Makefile's trailing "# META:" line. It
// caches exactly one thing in the core generator — each C source file's
// direct #include scan result — but is keyed generically by (path, attribute
// name) so other node kinds can use it too.
type StickyCache struct {
	entries map[string]map[string]entry
}

// NewStickyCache returns an empty cache.
func NewStickyCache() *StickyCache {
	return &StickyCache{entries: map[string]map[string]entry{}}
}

// Get returns the cached value for (path, name) if present and its recorded
// mtime equals currentMtimeMillis.
func (c *StickyCache) Get(path, name string, currentMtimeMillis int64) (any, bool) {
	byName, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	e, ok := byName[name]
	if !ok || e.MtimeMillis != currentMtimeMillis {
		return nil, false
	}
	return e.Value, true
}

// Set records value for (path, name) at the given mtime, superseding any
// existing entry regardless of its mtime.
func (c *StickyCache) Set(path, name string, mtimeMillis int64, value any) {
	byName, ok := c.entries[path]
	if !ok {
		byName = map[string]entry{}
		c.entries[path] = byName
	}
	byName[name] = entry{MtimeMillis: mtimeMillis, Value: value, Checksum: checksumValue(value)}
}

// checksumValue hashes value's JSON encoding with xxhash — fast and
// non-cryptographic, which is all a tamper/corruption check on a build
// artifact needs.
func checksumValue(value any) uint64 {
	data, err := json.Marshal(value)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}

// Dump serializes the cache to JSON, suitable for embedding verbatim after
// the "# META: " prefix of a generated Makefile's trailer line. Map
// iteration in encoding/json is always key-sorted, so the output is
// deterministic across runs with identical content.
func (c *StickyCache) Dump() ([]byte, error) {
	return json.Marshal(c.entries)
}

// LoadStickyCache parses a previously-dumped cache. An empty or malformed
// payload yields an empty cache rather than an error, since a missing or
// corrupt META line should only cost a cold cache, not a failed build. Any
// individual entry whose checksum no longer matches its value — someone
// hand-edited the Makefile, or a merge mangled the trailer line — is
// dropped rather than trusted.
func LoadStickyCache(data []byte) *StickyCache {
	c := NewStickyCache()
	if len(data) == 0 {
		return c
	}
	var raw map[string]map[string]entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return c
	}
	for path, byName := range raw {
		for name, e := range byName {
			if checksumValue(e.Value) != e.Checksum {
				continue
			}
			if _, ok := c.entries[path]; !ok {
				c.entries[path] = map[string]entry{}
			}
			c.entries[path][name] = e
		}
	}
	return c
}
