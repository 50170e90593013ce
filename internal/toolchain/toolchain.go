package toolchain

import (
	"fmt"

	mkerrors "github.com/goto10/mkmk/internal/errors"
	"github.com/goto10/mkmk/internal/settings"
	"github.com/goto10/mkmk/internal/shellcmd"
)

// CompileInput is one source file handed to an object-compile command: its
// resolved path, whether it is C++ (the settings language tag everywhere),
// and whether C compilation is forced (/Tc instead of /Tp on MSVC).
type CompileInput struct {
	Path    string
	IsCpp   bool
	ForceC  bool
}

// Toolchain synthesizes the shell commands needed to build every C artifact
// kind from its settings and custom flags.
type Toolchain interface {
	ObjectFileExt() string
	ExecutableFileExt() string
	SharedLibraryFileExt() string
	MessageResourceFileExt() string

	ObjectCompileCommand(output string, input CompileInput, includePaths, systemIncludes []string, defines map[string]string, s *settings.Settings) *shellcmd.Command
	ExecutableLinkCommand(output string, inputs []string, libs []string) *shellcmd.Command
	SharedLibraryLinkCommand(output string, inputs []string, libs []string) *shellcmd.Command
	MessageResourceCommand(output string, inputs []string) *shellcmd.Command

	// PrintEnvCommand echoes the resolved C compile flags, for the
	// env-printer diagnostic node.
	PrintEnvCommand(s *settings.Settings) *shellcmd.Command
}

// New resolves the named toolchain ("gcc" or "msvc") against the given
// custom flags.
func New(name string, flags CustomFlags) (Toolchain, error) {
	switch name {
	case "gcc":
		return &gccToolchain{flags: flags}, nil
	case "msvc":
		return &msvcToolchain{flags: flags}, nil
	default:
		return nil, mkerrors.NewConfigurationError("toolchain", name, fmt.Errorf("unknown toolchain"))
	}
}

func languageTag(isCpp bool) string {
	if isCpp {
		return "c++"
	}
	return "c"
}

func defineArg(prefix, name, value string) string {
	return fmt.Sprintf("%s%s=%s", prefix, name, value)
}
