// Package vfs implements the lazy file-handle tree (FileHandle in spec terms)
// and the persistent, mtime-keyed sticky-attribute cache consulted during
// transitive include scanning.
package vfs

import (
	"bufio"
	"os"
	"path/filepath"
)

// Kind distinguishes what, if anything, exists at a Handle's path.
type Kind int

const (
	Missing Kind = iota
	Regular
	Folder
)

// Handle is a lazy wrapper around a filesystem path. Handles are unique per
// (Store, path): asking the same Store for the same path twice returns the
// same instance, which is what lets attribute memoization and child-caching
// work.
type Handle struct {
	store    *Store
	path     string
	kind     Kind
	parent   *Handle
	children map[string]*Handle
	attrs    map[string]any
	lines    []string
	linesErr error
	readLine bool
}

func newHandle(store *Store, path string, parent *Handle) *Handle {
	h := &Handle{store: store, path: path, parent: parent, children: map[string]*Handle{}, attrs: map[string]any{}}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		h.kind = Missing
	case info.IsDir():
		h.kind = Folder
	default:
		h.kind = Regular
	}
	return h
}

// Path returns the raw (possibly relative) string path for this handle.
func (h *Handle) Path() string { return h.path }

// Kind reports whether this handle resolved to a regular file, a folder, or
// nothing at all.
func (h *Handle) Kind() Kind { return h.kind }

// Exists reports whether the handle is backed by a physical file or folder.
// Once resolved to Missing, no further stat calls are made.
func (h *Handle) Exists() bool { return h.kind != Missing }

// Parent returns the handle for the folder containing this file, computing
// and memoizing it from the path if it wasn't supplied at construction.
func (h *Handle) Parent() *Handle {
	if h.parent == nil {
		h.parent = h.store.At(filepath.Dir(h.path))
	}
	return h.parent
}

// Child returns the unique handle for the given path segments under this
// folder, walking one path component at a time so that intermediate
// directories are cached too.
func (h *Handle) Child(segments ...string) *Handle {
	current := h
	for _, seg := range segments {
		current = current.localChild(seg)
	}
	return current
}

func (h *Handle) localChild(segment string) *Handle {
	if existing, ok := h.children[segment]; ok {
		return existing
	}
	child := newHandle(h.store, filepath.Join(h.path, segment), h)
	h.children[segment] = child
	return child
}

// ReadLines returns the contents of this regular file as a line slice,
// memoizing the result.
func (h *Handle) ReadLines() ([]string, error) {
	if h.readLine {
		return h.lines, h.linesErr
	}
	h.readLine = true
	f, err := os.Open(h.path)
	if err != nil {
		h.linesErr = err
		return nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		h.linesErr = err
		return nil, err
	}
	h.lines = lines
	return lines, nil
}

// ModTimeMillis returns the file's modification time in Unix milliseconds.
// Only meaningful for Regular handles.
func (h *Handle) ModTimeMillis() (int64, error) {
	info, err := os.Stat(h.path)
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixMilli(), nil
}

// GetAttribute returns the in-memory value for name if present. Otherwise,
// if sticky is true, it consults the Store's persistent cache for an entry
// whose recorded mtime matches the file's current mtime; a hit is returned
// without invoking compute. On a miss (not sticky, or no valid cache entry)
// compute is invoked, the in-memory map is updated, and — if sticky — the
// Store's cache is updated too.
func (h *Handle) GetAttribute(name string, compute func(*Handle) (any, error), sticky bool) (any, error) {
	if v, ok := h.attrs[name]; ok {
		return v, nil
	}
	if sticky {
		if mtime, err := h.ModTimeMillis(); err == nil {
			if v, ok := h.store.cache.Get(h.path, name, mtime); ok {
				h.attrs[name] = v
				return v, nil
			}
		}
	}
	v, err := compute(h)
	if err != nil {
		return nil, err
	}
	h.attrs[name] = v
	if sticky {
		if mtime, err := h.ModTimeMillis(); err == nil {
			h.store.cache.Set(h.path, name, mtime, v)
		}
	}
	return v, nil
}

func (h *Handle) String() string {
	switch h.kind {
	case Regular:
		return "File(" + h.path + ")"
	case Folder:
		return "Folder(" + h.path + ")"
	default:
		return "Missing(" + h.path + ")"
	}
}
