package main

import (
	"fmt"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/mgutz/ansi"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/uwsgiconf/internal/conf"
	"github.com/redhatinsights/uwsgiconf/internal/l10n"
	"github.com/redhatinsights/uwsgiconf/internal/sysinit"
	"github.com/redhatinsights/uwsgiconf/pkg/dispatch"
	"github.com/redhatinsights/uwsgiconf/pkg/runner"
)

var onlyFlag = &cli.StringFlag{
	Name:  "only",
	Usage: l10n.T("use only the configuration with this alias"),
}

func modulePath(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errors.New(l10n.T("expected exactly one configuration program path"))
	}
	return c.Args().First(), nil
}

// aliases returns the aliases of m, or only when set and defined.
func aliases(c *cli.Context, m *dispatch.Module) ([]string, error) {
	all, err := m.Aliases(c.Context)
	if err != nil {
		return nil, err
	}
	only := c.String("only")
	if only == "" {
		if len(all) == 0 {
			return nil, errors.Errorf(l10n.T("%s defines no configurations"), m.Path)
		}
		return all, nil
	}
	for _, alias := range all {
		if alias == only {
			return []string{only}, nil
		}
	}
	return nil, errors.Errorf(l10n.T("configuration %q is not defined in %s"), only, m.Path)
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     l10n.T("run the server with configurations of a program"),
		ArgsUsage: "PATH",
		Flags:     []cli.Flag{onlyFlag},
		Action: func(c *cli.Context) error {
			path, err := modulePath(c)
			if err != nil {
				return err
			}
			r := runner.New()

			if strings.HasSuffix(path, ".ini") {
				_, err := r.SpawnINI(path, true)
				return err
			}

			m := dispatch.NewModule(path)
			names, err := aliases(c, m)
			if err != nil {
				return err
			}
			if len(names) == 1 {
				_, err := r.SpawnModule(m, names[0], true)
				return err
			}
			for _, alias := range names {
				pid, err := r.SpawnModule(m, alias, false)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, l10n.T("%s started with pid %d", ansi.Color(alias, "green"), pid))
			}
			fmt.Fprintln(c.App.Writer, l10n.TN("%d configuration started", "%d configurations started", uint32(len(names)), len(names)))
			return nil
		},
	}
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     l10n.T("print configurations of a program"),
		ArgsUsage: "PATH",
		Flags:     []cli.Flag{onlyFlag},
		Action: func(c *cli.Context) error {
			path, err := modulePath(c)
			if err != nil {
				return err
			}
			m := dispatch.NewModule(path)
			names, err := aliases(c, m)
			if err != nil {
				return err
			}
			for i, alias := range names {
				ini, err := m.Compile(c.Context, alias)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(c.App.Writer)
				}
				fmt.Fprintf(c.App.Writer, "; %s\n%s", alias, ini)
			}
			return nil
		},
	}
}

func sysinitCommand() *cli.Command {
	return &cli.Command{
		Name:      "sysinit",
		Usage:     l10n.T("generate a systemd unit running a program"),
		ArgsUsage: "PATH",
		Flags: []cli.Flag{
			onlyFlag,
			&cli.StringFlag{
				Name:     "project",
				Usage:    l10n.T("project name, also the unit name"),
				Required: true,
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: l10n.T("run the server as this user"),
			},
			&cli.StringFlag{
				Name:  "runtime-dir",
				Usage: l10n.T("directory created before the server starts"),
				Value: conf.Configuration.RuntimeDir,
			},
			&cli.BoolFlag{
				Name:  "install",
				Usage: l10n.T("install and enable the unit"),
			},
		},
		Action: func(c *cli.Context) error {
			path, err := modulePath(c)
			if err != nil {
				return err
			}
			opts := sysinit.Options{
				Project:    c.String("project"),
				Path:       path,
				Only:       c.String("only"),
				RuntimeDir: c.String("runtime-dir"),
				User:       c.String("user"),
			}

			if !c.Bool("install") {
				unit, err := sysinit.Unit(opts)
				if err != nil {
					return err
				}
				fmt.Fprint(c.App.Writer, unit)
				return nil
			}

			unitPath, err := sysinit.Install(c.Context, opts)
			if err != nil {
				return err
			}
			log.Debugf("installed %s", unitPath)
			fmt.Fprintln(c.App.Writer, l10n.T("Unit %s is installed and enabled", ansi.Color(sysinit.UnitName(opts.Project), "green")))
			return nil
		},
	}
}

func probePluginsCommand() *cli.Command {
	return &cli.Command{
		Name:  "probe-plugins",
		Usage: l10n.T("list plugins built into the server"),
		Action: func(c *cli.Context) error {
			plugins, err := runner.New().Plugins(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, ansi.Color(l10n.T("Generic plugins"), "cyan+b"))
			fmt.Fprintln(c.App.Writer, "  "+strings.Join(plugins.Generic, ", "))
			fmt.Fprintln(c.App.Writer, ansi.Color(l10n.T("Request plugins"), "cyan+b"))
			fmt.Fprintln(c.App.Writer, "  "+strings.Join(plugins.Request, ", "))
			return nil
		},
	}
}
