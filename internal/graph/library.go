package graph

import (
	"os/exec"
	"strings"

	mkerrors "github.com/goto10/mkmk/internal/errors"
)

// LibraryInstance is the per-platform resolution of a LibraryInfo: the
// include paths and link-library names an object depending on it should
// acquire. An autoresolve instance is resolved lazily, the first time
// LibraryInfo.Resolve returns it, by shelling out to pkg-config.
type LibraryInstance struct {
	includes        []string
	libs            []string
	autoresolveName string
	resolved        bool
}

// Includes returns this instance's system-include paths.
func (li *LibraryInstance) Includes() []string { return li.includes }

// Libs returns this instance's link-library names.
func (li *LibraryInstance) Libs() []string { return li.libs }

func (li *LibraryInstance) resolve(runner PkgConfigRunner) error {
	if li.resolved || li.autoresolveName == "" {
		li.resolved = true
		return nil
	}
	out, err := runner.Run(li.autoresolveName)
	if err != nil {
		return mkerrors.NewExternalCommandError("pkg-config --cflags --libs "+li.autoresolveName, err)
	}
	for _, tok := range strings.Fields(out) {
		switch {
		case strings.HasPrefix(tok, "-I"):
			li.includes = append(li.includes, strings.TrimPrefix(tok, "-I"))
		case strings.HasPrefix(tok, "-l"):
			li.libs = append(li.libs, strings.TrimPrefix(tok, "-l"))
		}
	}
	li.resolved = true
	return nil
}

// LibraryInfo is a named, cross-platform library descriptor: one
// LibraryInstance per OS it supports.
type LibraryInfo struct {
	name        string
	perPlatform map[string]*LibraryInstance
}

func newLibraryInfo(name string) *LibraryInfo {
	return &LibraryInfo{name: name, perPlatform: map[string]*LibraryInstance{}}
}

// Name returns the library's registered name.
func (li *LibraryInfo) Name() string { return li.name }

// AddPlatform registers a static (includes, libs) pair for os, or, when
// autoresolve is non-empty, a lazily pkg-config-resolved instance.
func (li *LibraryInfo) AddPlatform(os string, includes, libs []string, autoresolve string) {
	li.perPlatform[os] = &LibraryInstance{includes: includes, libs: libs, autoresolveName: autoresolve}
}

// Resolve returns the LibraryInstance for os, auto-resolving it against
// runner on first use. It returns a GraphError if os has no registered
// instance.
func (li *LibraryInfo) Resolve(os string, runner PkgConfigRunner) (*LibraryInstance, error) {
	inst, ok := li.perPlatform[os]
	if !ok {
		return nil, mkerrors.NewGraphError("resolve_library", li.name+"@"+os)
	}
	if err := inst.resolve(runner); err != nil {
		return nil, err
	}
	return inst, nil
}

// PkgConfigRunner abstracts the pkg-config invocation so library resolution
// can be tested without forking a real process.
type PkgConfigRunner interface {
	Run(name string) (output string, err error)
}

type execPkgConfigRunner struct{}

func (execPkgConfigRunner) Run(name string) (string, error) {
	out, err := exec.Command("pkg-config", "--cflags", "--libs", name).Output()
	return string(out), err
}
