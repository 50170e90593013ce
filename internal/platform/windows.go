package platform

import (
	"fmt"

	"github.com/goto10/mkmk/internal/shellcmd"
)

type windowsSystem struct{}

func (windowsSystem) OS() string { return "windows" }

func (windowsSystem) PathListSeparator() string { return ";" }

func (windowsSystem) EnsureFolder(folder string) *shellcmd.Command {
	path := shellcmd.Escape(folder)
	return shellcmd.New(fmt.Sprintf("if not exist %s mkdir %s", path, path))
}

func (windowsSystem) ClearFolder(folder string) *shellcmd.Command {
	path := shellcmd.Escape(folder)
	return shellcmd.New(fmt.Sprintf("if exist %s rmdir /s /q %s", path, path)).
		WithComment(fmt.Sprintf("Clearing '%s'", path))
}

func (windowsSystem) Copy(source, target string) *shellcmd.Command {
	return shellcmd.New(fmt.Sprintf("copy %s %s", shellcmd.Escape(source), shellcmd.Escape(target))).
		WithComment(fmt.Sprintf("Copying to '%s'", target))
}

func (windowsSystem) SafeTee(commandLine, outpath string) *shellcmd.Command {
	return shellcmd.New(
		fmt.Sprintf("%s > %s 2>&1 || echo > %s.fail", commandLine, outpath, outpath),
		fmt.Sprintf("type %s", outpath),
		fmt.Sprintf("if exist %s.fail (del %s %s.fail && exit 1) else (exit 0)", outpath, outpath, outpath),
	).WithComment(fmt.Sprintf("Running %s", commandLine))
}

func (windowsSystem) RunWithEnvironment(commandLine string, env []EnvBinding) string {
	var prefix string
	for _, b := range env {
		switch b.Mode {
		case EnvAppend:
			prefix += fmt.Sprintf("set %s=%%%s%%;%s && ", b.Name, b.Name, b.Value)
		case EnvReplace:
			prefix += fmt.Sprintf("set %s=%s && ", b.Name, b.Value)
		}
	}
	return fmt.Sprintf("cmd /c \"%s%s\"", prefix, commandLine)
}

func (s windowsSystem) NewCommandBuilder() CommandBuilder {
	return &baseBuilder{sys: s}
}
