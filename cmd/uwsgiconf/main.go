package main

import (
	"fmt"
	"io"
	"os"

	"git.sr.ht/~spc/go-log"
	"github.com/mattn/go-colorable"
	"github.com/mgutz/ansi"
	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/uwsgiconf/internal/conf"
	"github.com/redhatinsights/uwsgiconf/internal/l10n"
	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "uwsgiconf",
		Usage:     l10n.T("configure and run uWSGI from Go programs"),
		Version:   core.Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: l10n.T("log verbosity: error, warn, info, debug or trace"),
			},
		},
		Before: func(c *cli.Context) error {
			level := conf.Configuration.LogLevel
			if name := c.String("log-level"); name != "" {
				parsed, err := log.ParseLevel(name)
				if err != nil {
					return err
				}
				level = parsed
			}
			log.SetLevel(level)
			log.SetOutput(stderr)
			return nil
		},
		Commands: []*cli.Command{
			runCommand(),
			compileCommand(),
			sysinitCommand(),
			probePluginsCommand(),
		},
	}
}

func main() {
	stdout := colorable.NewColorableStdout()
	stderr := colorable.NewColorableStderr()

	if err := newApp(stdout, stderr).Run(os.Args); err != nil {
		fmt.Fprintln(stderr, ansi.Color(err.Error(), "red"))
		os.Exit(1)
	}
}
