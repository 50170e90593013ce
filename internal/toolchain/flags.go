// Package toolchain synthesizes per-compiler (GCC-like and MSVC) compile
// and link commands: flag composition from custom build flags plus the
// hierarchical Settings resolver, and file extensions for each artifact
// kind a toolchain produces.
package toolchain

// DebugCodegenMode distinguishes an explicit --debug-codegen/--no-debug-codegen
// override from the default "follow --debug" behavior.
type DebugCodegenMode int

const (
	DebugCodegenAuto DebugCodegenMode = iota
	DebugCodegenOn
	DebugCodegenOff
)

// CustomFlags is the parsed form of the C toolset's slice of --buildflags,
// generalizing the original tool's argparse namespace into a single value
// type the Gcc/MSVC toolchains consult alongside Settings.
type CustomFlags struct {
	Debug         bool
	Gcc48         bool
	ExpChecks     bool
	ToolchainName string
	Gprof         bool
	Checks        bool
	Warn          bool
	Valgrind      bool
	ValgrindFlags []string
	Time          bool
	FastCompile   bool
	DebugCodegen  DebugCodegenMode
	Devutils      bool
	GenFileID     bool
}

// DefaultCustomFlags mirrors the original tool's argparse defaults:
// checks enabled, everything else off, gcc toolchain.
func DefaultCustomFlags() CustomFlags {
	return CustomFlags{
		ToolchainName: "gcc",
		Checks:        true,
	}
}

// ResolvesDebugCodegen applies the "explicit-on, or auto+debug" rule from
// spec §4.3.
func (f CustomFlags) ResolvesDebugCodegen() bool {
	switch f.DebugCodegen {
	case DebugCodegenOn:
		return true
	case DebugCodegenOff:
		return false
	default:
		return f.Debug
	}
}
