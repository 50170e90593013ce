package graph

import (
	"sort"

	mkerrors "github.com/goto10/mkmk/internal/errors"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/vfs"
)

// Options carries the run-wide switches a generator invocation is
// configured with — everything the CLI's `makefile` subcommand accepts,
// with --buildflags kept as the raw string the extension controllers parse.
type Options struct {
	Noisy       bool
	SystemName  string
	Extensions  []string
	BuildFlags  string
}

// Environment is the top-level, explicitly-constructed arena that owns the
// global node registry, the per-dependency Nodespaces, the chosen System,
// the library registry, and the file-handle store. Nothing here is package
// state — every Context and Node reaches these through an Environment value
// passed down from the root script load.
type Environment struct {
	Options   Options
	System    platform.System
	Files     *vfs.Store
	PkgConfig PkgConfigRunner

	global     map[string]Node // keyed by "<prefix>::<key>", "" prefix = root
	nodespaces map[string]*Nodespace
	libraries  map[string]*LibraryInfo
	attrs      map[string]any
}

// NewEnvironment constructs an Environment for the given options, system,
// and file store. The root Nodespace (prefix "") is created eagerly, rooted
// at rootDir with outputs under outDir.
func NewEnvironment(opts Options, sys platform.System, files *vfs.Store, rootDir, outDir *vfs.Handle) *Environment {
	env := &Environment{
		Options:    opts,
		System:     sys,
		Files:      files,
		PkgConfig:  execPkgConfigRunner{},
		global:     map[string]Node{},
		nodespaces: map[string]*Nodespace{},
		libraries:  map[string]*LibraryInfo{},
		attrs:      map[string]any{},
	}
	env.nodespaces[""] = newNodespace(env, "", rootDir, outDir)
	return env
}

// RootNodespace returns the Nodespace for the root dependency.
func (e *Environment) RootNodespace() *Nodespace { return e.nodespaces[""] }

// LookupDepNodespace returns the Nodespace already registered under
// depName, without creating one — used by get_dep, which requires the
// dependency to have been loaded by an earlier include_dep.
func (e *Environment) LookupDepNodespace(depName string) (*Nodespace, bool) {
	ns, ok := e.nodespaces[depName]
	return ns, ok
}

// GetOrCreateDepNodespace returns the Nodespace registered under depName,
// creating it (rooted at rootDir/outDir) if this is the first request for
// that dependency — repeated include_dep calls for an already-loaded
// dependency are no-ops at this layer (the caller still skips re-loading
// the script).
func (e *Environment) GetOrCreateDepNodespace(depName string, rootDir, outDir *vfs.Handle) (*Nodespace, bool) {
	if existing, ok := e.nodespaces[depName]; ok {
		return existing, false
	}
	ns := newNodespace(e, depName, rootDir, outDir)
	e.nodespaces[depName] = ns
	return ns, true
}

func (e *Environment) registerGlobal(prefix, key string, n Node) {
	e.global[prefix+"::"+key] = n
}

// GetExternal looks up a node in the root nodespace by its local key
// (get_external in the exported surface).
func (e *Environment) GetExternal(key string) (Node, error) {
	n, ok := e.global["::"+key]
	if !ok {
		return nil, mkerrors.NewGraphError("get_external", key)
	}
	return n, nil
}

// GetDepExternal looks up a node registered under a named dependency's
// nodespace (get_dep_external in the exported surface).
func (e *Environment) GetDepExternal(dep, key string) (Node, error) {
	n, ok := e.global[dep+"::"+key]
	if !ok {
		return nil, mkerrors.NewGraphError("get_dep_external", dep+"::"+key)
	}
	return n, nil
}

// AllNodes returns every globally registered node, in no particular order;
// callers that need determinism (the Makefile emitter) sort by their own
// key afterward.
func (e *Environment) AllNodes() []Node {
	out := make([]Node, 0, len(e.global))
	for _, n := range e.global {
		out = append(out, n)
	}
	return out
}

// SetAttr/GetAttr give extension controllers a transient, run-scoped slot
// for state that isn't tied to any one file (e.g. a memoized toolchain
// instance), mirroring the Environment's in-memory attribute map.
func (e *Environment) SetAttr(name string, v any) { e.attrs[name] = v }

func (e *Environment) GetAttr(name string) (any, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// GetOrCreateLibrary returns the named LibraryInfo, creating an empty one on
// first request — mirroring get_or_create_node's idempotence for the
// library registry.
func (e *Environment) GetOrCreateLibrary(name string) *LibraryInfo {
	if existing, ok := e.libraries[name]; ok {
		return existing
	}
	li := newLibraryInfo(name)
	e.libraries[name] = li
	return li
}

// LibraryNames returns every registered library name, sorted.
func (e *Environment) LibraryNames() []string {
	names := make([]string, 0, len(e.libraries))
	for n := range e.libraries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
