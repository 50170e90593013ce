package main

import (
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/urfave/cli/v2"

	"github.com/goto10/mkmk/internal/config"
	"github.com/goto10/mkmk/internal/dotgraph"
	mkerrors "github.com/goto10/mkmk/internal/errors"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/makefile"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/vfs"
	"github.com/goto10/mkmk/internal/version"

	_ "github.com/goto10/mkmk/internal/cnode"
	_ "github.com/goto10/mkmk/internal/neutrino"
	_ "github.com/goto10/mkmk/internal/testrunner"
	_ "github.com/goto10/mkmk/internal/toc"
)

var metaLineRE = regexp.MustCompile(`(?m)^# META: (.*)$`)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Usage: "root build script to load",
		Value: "build.mkmk.kdl",
	},
	&cli.StringFlag{
		Name:  "makefile",
		Usage: "path to write the generated Makefile to",
		Value: "Makefile",
	},
	&cli.StringFlag{
		Name:  "bindir",
		Usage: "build output directory",
		Value: "bin",
	},
	&cli.StringFlag{
		Name:  "buildflags",
		Usage: "extra flags passed through to the c toolset (--debug, --valgrind, ...)",
	},
	&cli.StringSliceFlag{
		Name:  "extension",
		Usage: "extension to load (repeatable): c, n, test, toc",
		Value: cli.NewStringSlice("c", "n", "test", "toc"),
	},
	&cli.BoolFlag{
		Name:  "noisy",
		Usage: "echo every shell action instead of the quiet one-line form",
	},
	&cli.StringFlag{
		Name:  "system",
		Usage: "target platform: posix, mac, or windows",
		Value: "posix",
	},
}

func main() {
	app := &cli.App{
		Name:    "mkmk",
		Usage:   "generates a Makefile from a declarative build script",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:   "makefile",
				Usage:  "load the build script and write the generated Makefile",
				Flags:  globalFlags,
				Action: runMakefile,
			},
			{
				Name:  "graph",
				Usage: "render the build graph for debugging",
				Flags: append(append([]cli.Flag{}, globalFlags...), &cli.StringFlag{
					Name:  "format",
					Usage: "dot or tree",
					Value: "dot",
				}, &cli.StringFlag{
					Name:  "root",
					Usage: "node name to root the tree at (required for --format tree)",
				}),
				Action: runGraph,
			},
			{
				Name:  "version",
				Usage: "print version information",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}

// loadEnvironment builds an Environment from the CLI's global flags, loads
// the requested extensions, warm-starts the sticky cache from any
// previously generated Makefile's trailing META line, and loads the root
// build script. Shared by the makefile and graph subcommands so both see
// the exact same graph.
func loadEnvironment(c *cli.Context) (*graph.Environment, error) {
	sys, err := platform.For(c.String("system"))
	if err != nil {
		return nil, mkerrors.NewConfigurationError("system", c.String("system"), err)
	}

	cache := vfs.NewStickyCache()
	if existing, err := os.ReadFile(c.String("makefile")); err == nil {
		if m := metaLineRE.FindSubmatch(existing); m != nil {
			cache = vfs.LoadStickyCache(m[1])
		}
	}
	store := vfs.NewStore(cache)

	configPath := c.String("config")
	rootScript := store.At(configPath)
	rootDir := rootScript.Parent()
	bindir := store.At(c.String("bindir"))

	opts := graph.Options{
		Noisy:      c.Bool("noisy"),
		SystemName: c.String("system"),
		Extensions: c.StringSlice("extension"),
		BuildFlags: c.String("buildflags"),
	}
	env := graph.NewEnvironment(opts, sys, store, rootDir, bindir)

	if err := config.InitExtensions(env, opts.Extensions, opts.BuildFlags); err != nil {
		return nil, err
	}

	ctx := config.NewRootContext(env, rootDir)
	if err := config.LoadFile(ctx, rootScript); err != nil {
		return nil, err
	}
	return env, nil
}

func runMakefile(c *cli.Context) error {
	env, err := loadEnvironment(c)
	if err != nil {
		return err
	}

	text, err := makefile.Build(env, env.RootNodespace().OutDir())
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.String("makefile"), []byte(text), 0o644); err != nil {
		return mkerrors.NewIOError("write", c.String("makefile"), err)
	}
	return nil
}

func runGraph(c *cli.Context) error {
	env, err := loadEnvironment(c)
	if err != nil {
		return err
	}

	switch format := c.String("format"); format {
	case "dot":
		return dotgraph.Write(env, os.Stdout)
	case "tree":
		rootName := c.String("root")
		if rootName == "" {
			return mkerrors.NewConfigurationError("root", "", fmt.Errorf("--root is required for --format tree"))
		}
		root, err := env.GetExternal(rootName)
		if err != nil {
			return err
		}
		return dotgraph.PrintTree(root, os.Stdout)
	default:
		return mkerrors.NewConfigurationError("format", format, fmt.Errorf("must be dot or tree"))
	}
}
