// Package settings implements the hierarchical, restriction-matched
// attribute store consulted throughout toolchain flag synthesis: cflags,
// warnings, defines, and similar per-node, per-context knobs.
package settings

import "fmt"

// Restriction is a tag->value filter attached to one Setting entry. An entry
// matches a query Context when every tag present in the restriction has the
// same value in the context; tags absent from the context disqualify the
// match.
type Restriction map[string]string

// Context is the tag->value map a resolution query is evaluated against.
type Context map[string]string

func (r Restriction) matches(ctx Context) bool {
	for tag, want := range r {
		got, ok := ctx[tag]
		if !ok || got != want {
			return false
		}
	}
	return true
}

type entry struct {
	value        any
	restrictions Restriction
}

// Setting holds every declared entry for a single name, plus the two flags
// fixed at first declaration.
type Setting struct {
	name       string
	isSticky   bool
	isAdditive bool
	entries    []entry
}

func newSetting(name string, sticky, additive bool) *Setting {
	return &Setting{name: name, isSticky: sticky, isAdditive: additive}
}

// Settings is a hierarchical map of name->Setting, chaining to an optional
// parent and distinguishing a "pervasive root" where pervasive writes land.
type Settings struct {
	parent       *Settings
	isPervasive  bool
	byName       map[string]*Setting
}

// New creates a Settings scope with no parent. It is not a pervasive root:
// an AddPervasive walk that reaches it without finding one panics. Use
// NewChild(parent, true) for a scope that receives pervasive writes.
func New() *Settings {
	return &Settings{byName: map[string]*Setting{}}
}

// NewChild creates a Settings scope chained to parent. isPervasive marks this
// scope as the landing point for pervasive writes originating in descendants.
func NewChild(parent *Settings, isPervasive bool) *Settings {
	return &Settings{parent: parent, isPervasive: isPervasive, byName: map[string]*Setting{}}
}

func (s *Settings) declare(name string, sticky, additive bool) *Setting {
	if existing, ok := s.byName[name]; ok {
		if existing.isSticky != sticky || existing.isAdditive != additive {
			panic(fmt.Sprintf("settings: conflicting declaration for %q: sticky=%v/%v additive=%v/%v",
				name, existing.isSticky, sticky, existing.isAdditive, additive))
		}
		return existing
	}
	st := newSetting(name, sticky, additive)
	s.byName[name] = st
	return st
}

// Set declares (or reuses) a non-additive, non-sticky (local) setting and
// adds one entry with the given restriction.
func (s *Settings) Set(name string, value any, restriction Restriction) {
	st := s.declare(name, false, false)
	st.entries = append(st.entries, entry{value: value, restrictions: restriction})
}

// SetSticky is Set for a sticky (inherited by descendants) setting.
func (s *Settings) SetSticky(name string, value any, restriction Restriction) {
	st := s.declare(name, true, false)
	st.entries = append(st.entries, entry{value: value, restrictions: restriction})
}

// Add declares (or reuses) an additive, local setting and appends one entry
// holding the full values slice as a single insertion.
func (s *Settings) Add(name string, values []any, restriction Restriction) {
	st := s.declare(name, false, true)
	st.entries = append(st.entries, entry{value: values, restrictions: restriction})
}

// AddSticky is Add for a sticky additive setting.
func (s *Settings) AddSticky(name string, values []any, restriction Restriction) {
	st := s.declare(name, true, true)
	st.entries = append(st.entries, entry{value: values, restrictions: restriction})
}

// AddPervasive bubbles an additive write up the parent chain until it finds
// a Settings whose isPervasive flag is set, then declares/appends there. It
// panics if the chain is exhausted without finding one — per spec, failing
// to find a pervasive root while walking up is a precondition violation.
func (s *Settings) AddPervasive(name string, values []any, restriction Restriction) {
	target := s
	for {
		if target == nil {
			panic(fmt.Sprintf("settings: no pervasive root found for %q", name))
		}
		if target.isPervasive {
			break
		}
		target = target.parent
	}
	st := target.declare(name, true, true)
	st.entries = append(st.entries, entry{value: values, restrictions: restriction})
}

// Get resolves name against ctx, returning def if nothing matches anywhere
// in the chain. onlySticky restricts a local lookup to sticky entries only
// (used automatically once resolution has delegated to a parent).
func (s *Settings) Get(name string, ctx Context, def any, onlySticky bool) any {
	v, ok := s.get(name, ctx, onlySticky)
	if !ok {
		return def
	}
	return v
}

func (s *Settings) get(name string, ctx Context, onlySticky bool) (any, bool) {
	st, haveLocal := s.byName[name]
	if haveLocal && (!onlySticky || st.isSticky) {
		local, localOK := resolve(st, ctx)
		if st.isAdditive && s.parent != nil {
			parentVal, parentOK := s.parent.get(name, ctx, true)
			switch {
			case localOK && parentOK:
				return appendAny(local, parentVal), true
			case localOK:
				return local, true
			case parentOK:
				return parentVal, true
			default:
				return nil, false
			}
		}
		if localOK {
			return local, true
		}
		if st.isAdditive {
			// Additive entry declared but no matches: contributes empty to
			// any eventual concatenation, but with no parent there is
			// nothing to concatenate with.
			return nil, false
		}
		return nil, false
	}
	if s.parent != nil {
		return s.parent.get(name, ctx, true)
	}
	return nil, false
}

// resolve applies a Setting's match-and-combine rule in isolation (no parent
// involvement): additive settings concatenate every matching entry's values
// in insertion order; non-additive settings assert at most one match.
func resolve(st *Setting, ctx Context) (any, bool) {
	if st.isAdditive {
		var out []any
		matched := false
		for _, e := range st.entries {
			if e.restrictions.matches(ctx) {
				matched = true
				out = append(out, e.value.([]any)...)
			}
		}
		if !matched {
			return nil, false
		}
		return out, true
	}
	var found *entry
	for i := range st.entries {
		if st.entries[i].restrictions.matches(ctx) {
			if found != nil {
				panic(fmt.Sprintf("settings: multiple matching entries for %q under context %v", st.name, ctx))
			}
			found = &st.entries[i]
		}
	}
	if found == nil {
		return nil, false
	}
	return found.value, true
}

func appendAny(parent, local any) []any {
	out := append([]any{}, toSlice(parent)...)
	out = append(out, toSlice(local)...)
	return out
}

func toSlice(v any) []any {
	if v == nil {
		return nil
	}
	return v.([]any)
}
