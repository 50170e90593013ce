package toolchain

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goto10/mkmk/internal/settings"
	"github.com/goto10/mkmk/internal/shellcmd"
)

type gccToolchain struct {
	flags CustomFlags
}

func (g *gccToolchain) ObjectFileExt() string          { return "o" }
func (g *gccToolchain) ExecutableFileExt() string      { return "" }
func (g *gccToolchain) SharedLibraryFileExt() string   { return "so" }
func (g *gccToolchain) MessageResourceFileExt() string { return "" }

func (g *gccToolchain) configFlags(isCpp bool, s *settings.Settings, defineFileIDInputs []string) []string {
	ctx := settings.Context{"toolchain": "gcc", "language": languageTag(isCpp)}
	var flags []string

	if s != nil {
		if cflags := s.Get("cflags", ctx, nil, false); cflags != nil {
			flags = append(flags, toStrings(cflags)...)
		}
		if warnings := s.Get("warnings", ctx, nil, false); warnings != nil {
			for _, w := range toStrings(warnings) {
				flags = append(flags, "-W"+w)
			}
		}
	}

	if g.flags.Gcc48 {
		flags = append(flags, "-Wno-unused-local-typedefs")
	}

	switch {
	case g.flags.FastCompile:
		flags = append(flags, "-O0")
	case g.flags.Debug:
		flags = append(flags, "-g")
		if g.flags.Gcc48 {
			flags = append(flags, "-Og")
		} else {
			flags = append(flags, "-O1")
		}
	default:
		flags = append(flags, "-O3")
	}

	if g.flags.ResolvesDebugCodegen() {
		flags = append(flags, defineArg("-D", "DEBUG_CODEGEN", "1"))
	}
	if g.flags.Checks {
		flags = append(flags, defineArg("-D", "ENABLE_CHECKS", "1"))
	}
	if g.flags.ExpChecks {
		flags = append(flags, defineArg("-D", "EXPENSIVE_CHECKS", "1"))
	}
	if g.flags.Devutils {
		flags = append(flags, defineArg("-D", "FAIL_ON_DEVUTILS", "1"))
	}
	if g.flags.GenFileID && len(defineFileIDInputs) > 0 {
		flags = append(flags, defineArg("-D", "FILE_ID", "0x"+FileID(defineFileIDInputs)))
	}

	if g.flags.Gprof {
		flags = append(flags, "-pg")
	}
	if !g.flags.Warn {
		flags = append(flags, "-Werror")
	}
	return flags
}

func (g *gccToolchain) ObjectCompileCommand(output string, input CompileInput, includePaths, systemIncludes []string, defines map[string]string, s *settings.Settings) *shellcmd.Command {
	cflags := append([]string{"$(CFLAGS)"}, g.configFlags(input.IsCpp, s, []string{input.Path})...)
	for _, p := range includePaths {
		cflags = append(cflags, "-I"+shellcmd.Escape(p))
	}
	for _, p := range systemIncludes {
		cflags = append(cflags, "-isystem "+shellcmd.Escape(p))
	}
	for _, kv := range sortedDefineEntries(defines) {
		cflags = append(cflags, defineArg("-D", kv[0], kv[1]))
	}
	line := fmt.Sprintf("$(CC) %s -c -o %s %s",
		strings.Join(cflags, " "), shellcmd.Escape(output), shellcmd.Escape(input.Path))
	return shellcmd.New(line).WithComment("Building " + filepath.Base(output))
}

func (g *gccToolchain) PrintEnvCommand(s *settings.Settings) *shellcmd.Command {
	flags := g.configFlags(false, s, nil)
	return shellcmd.New(fmt.Sprintf("echo CFLAGS: %s", strings.Join(flags, " ")))
}

func sortedDefineEntries(defines map[string]string) [][2]string {
	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, defines[k]})
	}
	return out
}

func (g *gccToolchain) linkerFlags(libs []string) []string {
	flags := []string{"-rdynamic", "-lstdc++"}
	if g.flags.Gprof {
		flags = append(flags, "-pg")
	}
	for _, l := range libs {
		flags = append(flags, "-l"+l)
	}
	return flags
}

func (g *gccToolchain) ExecutableLinkCommand(output string, inputs []string, libs []string) *shellcmd.Command {
	escaped := shellcmd.EscapeAll(inputs)
	line := fmt.Sprintf("$(CC) -o %s -Wl,--start-group %s -Wl,--end-group %s",
		shellcmd.Escape(output), strings.Join(escaped, " "), strings.Join(g.linkerFlags(libs), " "))
	return shellcmd.New(line).WithComment("Building executable " + filepath.Base(output))
}

func (g *gccToolchain) SharedLibraryLinkCommand(output string, inputs []string, libs []string) *shellcmd.Command {
	escaped := shellcmd.EscapeAll(inputs)
	line := fmt.Sprintf("$(CC) -shared -o %s %s %s",
		shellcmd.Escape(output), strings.Join(escaped, " "), strings.Join(g.linkerFlags(libs), " "))
	return shellcmd.New(line).WithComment("Building shared library " + filepath.Base(output))
}

func (g *gccToolchain) MessageResourceCommand(output string, inputs []string) *shellcmd.Command {
	return shellcmd.New(fmt.Sprintf("touch %s", shellcmd.Escape(output))).
		WithComment("Building message resource " + filepath.Base(output))
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprint(e))
		}
		return out
	case []string:
		return t
	case string:
		return []string{t}
	default:
		return nil
	}
}
