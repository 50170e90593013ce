// Package platform supplies the per-OS (POSIX/Windows) command synthesis
// used throughout node command construction: folder mkdir/rm, copy, the
// safe-tee wrapper, and environment-variable prefixing.
package platform

import (
	"fmt"
	"strings"

	"github.com/goto10/mkmk/internal/shellcmd"
)

// EnvMode selects how an environment-variable binding is applied.
type EnvMode int

const (
	EnvReplace EnvMode = iota
	EnvAppend
)

// EnvBinding is one (name, value, mode) environment prefix applied to a
// command line before it runs.
type EnvBinding struct {
	Name  string
	Value string
	Mode  EnvMode
}

// System synthesizes the shell commands a Makefile recipe needs, in a form
// specific to the target platform the Makefile will run on (which need not
// be the platform the generator itself runs on).
type System interface {
	OS() string
	EnsureFolder(folder string) *shellcmd.Command
	ClearFolder(folder string) *shellcmd.Command
	Copy(source, target string) *shellcmd.Command
	SafeTee(commandLine, outpath string) *shellcmd.Command
	RunWithEnvironment(commandLine string, env []EnvBinding) string
	NewCommandBuilder() CommandBuilder
	PathListSeparator() string
}

// CommandBuilder incrementally assembles a command line — arguments,
// environment prefix, optional output teeing, and a human-readable comment —
// then renders it into a single shellcmd.Command.
type CommandBuilder interface {
	SetComment(comment string) CommandBuilder
	SetTeeDestination(path string) CommandBuilder
	AddEnv(name, value string, mode EnvMode) CommandBuilder
	AddArguments(args ...string) CommandBuilder
	Build() *shellcmd.Command
}

// For resolves an OS name ("posix", "mac", "windows") to its System
// implementation. Mac uses the POSIX implementation, matching the original
// tool's system-selection rule.
func For(os string) (System, error) {
	switch os {
	case "posix", "mac":
		return posixSystem{}, nil
	case "windows":
		return windowsSystem{}, nil
	default:
		return nil, fmt.Errorf("unknown system %q", os)
	}
}

type baseBuilder struct {
	sys     System
	args    []string
	comment string
	teeDest string
	env     []EnvBinding
}

func (b *baseBuilder) SetComment(comment string) CommandBuilder {
	b.comment = comment
	return b
}

func (b *baseBuilder) SetTeeDestination(path string) CommandBuilder {
	b.teeDest = path
	return b
}

func (b *baseBuilder) AddEnv(name, value string, mode EnvMode) CommandBuilder {
	b.env = append(b.env, EnvBinding{Name: name, Value: value, Mode: mode})
	return b
}

func (b *baseBuilder) AddArguments(args ...string) CommandBuilder {
	for _, a := range args {
		b.args = append(b.args, shellcmd.Escape(a))
	}
	return b
}

func (b *baseBuilder) Build() *shellcmd.Command {
	line := strings.Join(b.args, " ")
	if len(b.env) > 0 {
		line = b.sys.RunWithEnvironment(line, b.env)
	}
	if b.teeDest != "" {
		cmd := b.sys.SafeTee(line, b.teeDest)
		if b.comment != "" {
			cmd.WithComment(b.comment)
		}
		return cmd
	}
	return shellcmd.New(line).WithComment(b.comment)
}
