package graph

import "github.com/goto10/mkmk/internal/vfs"

// Nodespace is the per-dependency node registry: a root script and its
// includes share one Nodespace at the prefix "" (the root dependency); each
// include_dep gets its own Nodespace under a dependency name, so that names
// across dependencies never collide locally while still being globally
// unique once prefixed.
type Nodespace struct {
	env    *Environment
	prefix string // "" for the root dependency
	root   *vfs.Handle
	outDir *vfs.Handle
	nodes  map[string]Node
}

func newNodespace(env *Environment, prefix string, root, outDir *vfs.Handle) *Nodespace {
	return &Nodespace{env: env, prefix: prefix, root: root, outDir: outDir, nodes: map[string]Node{}}
}

// RootDir returns the folder handle this nodespace's scripts are rooted at.
func (ns *Nodespace) RootDir() *vfs.Handle { return ns.root }

// OutDir returns the folder handle build outputs for this nodespace are
// written under.
func (ns *Nodespace) OutDir() *vfs.Handle { return ns.outDir }

// Prefix returns the dependency name this nodespace was registered under,
// or "" for the root.
func (ns *Nodespace) Prefix() string { return ns.prefix }

// GetOrCreate returns the existing node registered under key if present;
// otherwise it invokes construct, registers the result both locally and in
// the Environment's global registry, and returns it. Per spec, a second
// request for the same key must return the original node and must not
// invoke construct again.
func (ns *Nodespace) GetOrCreate(key string, construct func() Node) Node {
	if existing, ok := ns.nodes[key]; ok {
		return existing
	}
	n := construct()
	ns.nodes[key] = n
	ns.env.registerGlobal(ns.prefix, key, n)
	return n
}

// Lookup returns the node previously registered under key in this
// nodespace, if any.
func (ns *Nodespace) Lookup(key string) (Node, bool) {
	n, ok := ns.nodes[key]
	return n, ok
}
