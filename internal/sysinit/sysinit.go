// Package sysinit generates and installs systemd units running a
// configuration with uwsgiconf.
package sysinit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~spc/go-log"
	"github.com/briandowns/spinner"
	systemd "github.com/coreos/go-systemd/v22/dbus"
	"github.com/coreos/go-systemd/v22/unit"
	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/redhatinsights/uwsgiconf/internal/l10n"
)

// UnitDir is where Install writes units.
const UnitDir = "/etc/systemd/system"

// Options describe the unit.
type Options struct {
	// Project name, also the unit name.
	Project string
	// Configuration program or INI file run by the unit.
	Path string
	// Configuration alias to run. Empty runs every configuration.
	Only string
	// uwsgiconf executable. Defaults to the running one.
	Executable string
	// Runtime directory created before the server starts.
	RuntimeDir string
	// Run as this user, allowed to bind privileged ports.
	User string
}

// UnitName returns the unit file name of project.
func UnitName(project string) string {
	return project + ".service"
}

// Unit returns the systemd unit file running opts.
func Unit(opts Options) (string, error) {
	if opts.Project == "" {
		return "", errors.New("project name is required")
	}

	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot resolve %s", opts.Path)
	}
	executable := opts.Executable
	if executable == "" {
		if executable, err = os.Executable(); err != nil {
			return "", errors.Wrap(err, "cannot find uwsgiconf executable")
		}
	}

	command := []string{executable, "run", path}
	if opts.Only != "" {
		command = append(command, "--only", opts.Only)
	}

	options := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", opts.Project+" uWSGI service"),
		unit.NewUnitOption("Unit", "Wants", "network-online.target"),
		unit.NewUnitOption("Unit", "After", "syslog.target network-online.target"),
	}
	if opts.RuntimeDir != "" {
		options = append(options, unit.NewUnitOption("Service", "ExecStartPre", "-/bin/mkdir -p "+opts.RuntimeDir))
	}
	options = append(options,
		unit.NewUnitOption("Service", "ExecStart", strings.Join(command, " ")),
		unit.NewUnitOption("Service", "Restart", "on-failure"),
		unit.NewUnitOption("Service", "KillSignal", "SIGTERM"),
		unit.NewUnitOption("Service", "Type", "notify"),
		unit.NewUnitOption("Service", "StandardError", "journal"),
		unit.NewUnitOption("Service", "NotifyAccess", "all"),
	)
	if opts.User != "" {
		options = append(options,
			unit.NewUnitOption("Service", "User", opts.User),
			unit.NewUnitOption("Service", "AmbientCapabilities", "CAP_NET_BIND_SERVICE"),
		)
	}
	options = append(options, unit.NewUnitOption("Install", "WantedBy", "multi-user.target"))

	data, err := io.ReadAll(unit.Serialize(options))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteUnit writes the unit of opts into dir and returns its path.
func WriteUnit(opts Options, dir string) (string, error) {
	content, err := Unit(opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, UnitName(opts.Project))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.Wrapf(err, "cannot write unit %s", path)
	}
	log.Debugf("unit written to %s", path)
	return path, nil
}

// Install writes the unit of opts into UnitDir, reloads systemd and
// enables the unit.
func Install(ctx context.Context, opts Options) (string, error) {
	path, err := WriteUnit(opts, UnitDir)
	if err != nil {
		return "", err
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		s.Suffix = " " + l10n.T("Enabling %s", UnitName(opts.Project))
		s.Start()
		defer s.Stop()
	}

	conn, err := systemd.NewConnection(dialSystemBus)
	if err != nil {
		return path, errors.Wrap(err, "cannot connect to systemd")
	}
	defer conn.Close()

	if err := conn.ReloadContext(ctx); err != nil {
		return path, errors.Wrap(err, "cannot reload systemd")
	}
	if _, _, err := conn.EnableUnitFilesContext(ctx, []string{path}, false, true); err != nil {
		return path, errors.Wrapf(err, "cannot enable %s", UnitName(opts.Project))
	}
	log.Infof("unit %s enabled", UnitName(opts.Project))
	return path, nil
}

func dialSystemBus() (*dbus.Conn, error) {
	conn, err := dbus.SystemBusPrivate()
	if err != nil {
		return nil, err
	}
	methods := []dbus.Auth{dbus.AuthExternal(strconv.Itoa(os.Getuid()))}
	if err := conn.Auth(methods); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cannot authenticate to the system bus: %w", err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cannot register on the system bus: %w", err)
	}
	return conn, nil
}
