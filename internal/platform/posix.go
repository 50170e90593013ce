package platform

import (
	"fmt"

	"github.com/goto10/mkmk/internal/shellcmd"
)

type posixSystem struct{}

func (posixSystem) OS() string { return "posix" }

func (posixSystem) PathListSeparator() string { return ":" }

func (posixSystem) EnsureFolder(folder string) *shellcmd.Command {
	return shellcmd.New(fmt.Sprintf("mkdir -p %s", shellcmd.Escape(folder)))
}

func (posixSystem) ClearFolder(folder string) *shellcmd.Command {
	return shellcmd.New(fmt.Sprintf("rm -rf %s", shellcmd.Escape(folder))).
		WithComment(fmt.Sprintf("Clearing '%s'", folder))
}

func (posixSystem) Copy(source, target string) *shellcmd.Command {
	return shellcmd.New(fmt.Sprintf("cp %s %s", shellcmd.Escape(source), shellcmd.Escape(target))).
		WithComment(fmt.Sprintf("Copying to '%s'", target))
}

// SafeTee runs commandLine with combined stdout/stderr captured to outpath,
// always dumps outpath to stdout, and fails (removing both files) iff the
// inner command failed. The combined-output redirect (2>&1) is the more
// permissive of two historical variants of this command.
func (posixSystem) SafeTee(commandLine, outpath string) *shellcmd.Command {
	return shellcmd.New(
		fmt.Sprintf("%s > %s 2>&1 || echo > %s.fail", commandLine, outpath, outpath),
		fmt.Sprintf("cat %s", outpath),
		fmt.Sprintf("if [ -f %s.fail ]; then rm %s %s.fail; false; else true; fi", outpath, outpath, outpath),
	)
}

func (posixSystem) RunWithEnvironment(commandLine string, env []EnvBinding) string {
	var prefix string
	for _, b := range env {
		switch b.Mode {
		case EnvAppend:
			prefix += fmt.Sprintf("%s=$$%s:%s ", b.Name, b.Name, b.Value)
		case EnvReplace:
			prefix += fmt.Sprintf("%s=%s ", b.Name, b.Value)
		}
	}
	return prefix + commandLine
}

func (s posixSystem) NewCommandBuilder() CommandBuilder {
	return &baseBuilder{sys: s}
}
