package toolchain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goto10/mkmk/internal/settings"
	"github.com/goto10/mkmk/internal/shellcmd"
)

type msvcToolchain struct {
	flags CustomFlags
}

func (m *msvcToolchain) ObjectFileExt() string          { return "obj" }
func (m *msvcToolchain) ExecutableFileExt() string      { return "exe" }
func (m *msvcToolchain) SharedLibraryFileExt() string   { return "dll" }
func (m *msvcToolchain) MessageResourceFileExt() string { return "rc" }

func (m *msvcToolchain) configFlags(isCpp bool, s *settings.Settings, fileIDInputs []string) []string {
	ctx := settings.Context{"toolchain": "msvc", "language": languageTag(isCpp)}
	flags := []string{"/nologo", "/Wall"}

	if s != nil {
		if cflags := s.Get("cflags", ctx, nil, false); cflags != nil {
			flags = append(flags, toStrings(cflags)...)
		}
		if warnings := s.Get("warnings", ctx, nil, false); warnings != nil {
			for _, w := range toStrings(warnings) {
				flags = append(flags, "/w"+w)
			}
		}
	}

	if m.flags.Debug {
		flags = append(flags, "/Od")
	} else {
		flags = append(flags, "/Ox")
	}
	if m.flags.ResolvesDebugCodegen() {
		flags = append(flags, "/Zi")
	}

	if m.flags.ResolvesDebugCodegen() {
		flags = append(flags, defineArg("/D", "DEBUG_CODEGEN", "1"))
	}
	if m.flags.Checks {
		flags = append(flags, defineArg("/D", "ENABLE_CHECKS", "1"))
	}
	if m.flags.ExpChecks {
		flags = append(flags, defineArg("/D", "EXPENSIVE_CHECKS", "1"))
	}
	if m.flags.Devutils {
		flags = append(flags, defineArg("/D", "FAIL_ON_DEVUTILS", "1"))
	}
	if m.flags.GenFileID && len(fileIDInputs) > 0 {
		flags = append(flags, defineArg("/D", "FILE_ID", "0x"+FileID(fileIDInputs)))
	}

	if !m.flags.Warn {
		flags = append(flags, "/WX")
	}
	return flags
}

func (m *msvcToolchain) ObjectCompileCommand(output string, input CompileInput, includePaths, systemIncludes []string, defines map[string]string, s *settings.Settings) *shellcmd.Command {
	cflags := append([]string{"/c"}, m.configFlags(input.IsCpp, s, []string{input.Path})...)
	for _, p := range includePaths {
		cflags = append(cflags, "/I"+shellcmd.Escape(p))
	}
	for _, p := range systemIncludes {
		cflags = append(cflags, "/I"+shellcmd.Escape(p))
	}
	for _, kv := range sortedDefineEntries(defines) {
		cflags = append(cflags, defineArg("/D", kv[0], kv[1]))
	}
	if m.flags.Debug {
		cflags = append(cflags, fmt.Sprintf("/Fd%s.pdb", shellcmd.Escape(output)))
	}

	sourceFlag := "/Tp"
	if input.ForceC {
		sourceFlag = "/Tc"
	}
	line := fmt.Sprintf("$(CC) %s /Fo%s %s%s",
		strings.Join(cflags, " "), shellcmd.Escape(output), sourceFlag, shellcmd.Escape(input.Path))
	return shellcmd.New(line).WithComment("Building " + filepath.Base(output))
}

func (m *msvcToolchain) ExecutableLinkCommand(output string, inputs []string, libs []string) *shellcmd.Command {
	escaped := shellcmd.EscapeAll(inputs)
	args := []string{"link", "/NOLOGO", "/OUT:" + shellcmd.Escape(output), "/DEBUG",
		fmt.Sprintf("/PDB:%s.pdb", shellcmd.Escape(output)), "/SUBSYSTEM:CONSOLE"}
	args = append(args, escaped...)
	for _, l := range libs {
		args = append(args, l+".lib")
	}
	return shellcmd.New(strings.Join(args, " ")).WithComment("Building executable " + filepath.Base(output))
}

func (m *msvcToolchain) SharedLibraryLinkCommand(output string, inputs []string, libs []string) *shellcmd.Command {
	escaped := shellcmd.EscapeAll(inputs)
	args := []string{"link.exe", "/NOLOGO", "/DLL", "/OUT:" + shellcmd.Escape(output)}
	args = append(args, escaped...)
	for _, l := range libs {
		args = append(args, l+".lib")
	}
	return shellcmd.New(strings.Join(args, " ")).WithComment("Building shared library " + filepath.Base(output))
}

func (m *msvcToolchain) MessageResourceCommand(output string, inputs []string) *shellcmd.Command {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	escaped := shellcmd.EscapeAll(inputs)
	mc := fmt.Sprintf("mc.exe -z %s %s", shellcmd.Escape(base), strings.Join(escaped, " "))
	rc := fmt.Sprintf("rc.exe /nologo /r %s.rc", shellcmd.Escape(base))
	return shellcmd.New(mc, rc).WithComment("Building message resource " + filepath.Base(output))
}

func (m *msvcToolchain) PrintEnvCommand(s *settings.Settings) *shellcmd.Command {
	flags := m.configFlags(false, s, nil)
	return shellcmd.New(fmt.Sprintf("echo CFLAGS: %s", strings.Join(flags, " ")))
}
