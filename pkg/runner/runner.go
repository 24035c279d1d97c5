// Package runner starts the server with a configuration.
package runner

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"git.sr.ht/~spc/go-log"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/redhatinsights/uwsgiconf/internal/conf"
	"github.com/redhatinsights/uwsgiconf/pkg/config"
	"github.com/redhatinsights/uwsgiconf/pkg/core"
	"github.com/redhatinsights/uwsgiconf/pkg/dispatch"
)

// Runner spawns the server binary.
type Runner struct {
	// Server binary name or path. Defaults to the tool configuration.
	Binary string
}

// New returns a runner for the configured server binary.
func New() *Runner {
	return &Runner{Binary: conf.Configuration.UwsgiBinary}
}

// SpawnOptions tune Spawn.
type SpawnOptions struct {
	// Replace the current process instead of starting a detached child.
	Replace bool
	// Where the configuration is read from. A path ending with ".ini" is
	// written with the configuration; any other path is a configuration
	// program the server executes to obtain it. Empty writes a temporary
	// file.
	Filepath string
	// Run the server in-process through the registered entry point.
	Embedded bool
}

// Spawn starts the server with cfg and returns its pid. With Replace the
// call only returns on failure.
func (r *Runner) Spawn(cfg *config.Configuration, opts SpawnOptions) (int, error) {
	if opts.Embedded {
		return os.Getpid(), runEmbedded(cfg.Args())
	}

	path := opts.Filepath
	var source string
	if path == "" || strings.HasSuffix(path, ".ini") {
		written, err := cfg.ToFile(path)
		if err != nil {
			return 0, err
		}
		source = written
	} else {
		source = dispatch.NewModule(path).ExecURI(cfg.Alias())
	}
	return r.start([]string{"--ini", source}, opts.Replace)
}

// SpawnINI starts the server with an existing INI file.
func (r *Runner) SpawnINI(path string, replace bool) (int, error) {
	return r.start([]string{"--ini", path}, replace)
}

// SpawnModule starts the server loading the configuration named alias
// from a configuration program.
func (r *Runner) SpawnModule(m *dispatch.Module, alias string, replace bool) (int, error) {
	return r.start([]string{"--ini", m.ExecURI(alias)}, replace)
}

func (r *Runner) lookPath() (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = conf.Configuration.UwsgiBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", core.Errorf("server binary %q is not found: %v", binary, err)
	}
	return path, nil
}

func (r *Runner) start(args []string, replace bool) (int, error) {
	binary, err := r.lookPath()
	if err != nil {
		return 0, err
	}
	log.Infof("starting %s %s", binary, strings.Join(args, " "))

	if replace {
		argv := append([]string{binary}, args...)
		if err := unix.Exec(binary, argv, os.Environ()); err != nil {
			return 0, errors.Wrapf(err, "cannot exec %s", binary)
		}
	}

	cmd := exec.Command(binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return 0, errors.Wrapf(err, "cannot start %s", binary)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, errors.Wrap(err, "cannot release server process")
	}
	log.Debugf("server started with pid %d", pid)
	return pid, nil
}

// Plugins are the plugins built into the server binary.
type Plugins struct {
	Generic []string
	Request []string
}

// Plugins lists the plugins built into the server binary.
func (r *Runner) Plugins(ctx context.Context) (Plugins, error) {
	binary, err := r.lookPath()
	if err != nil {
		return Plugins{}, err
	}

	out, err := exec.CommandContext(ctx, binary, "--plugins-list").CombinedOutput()
	plugins := parsePlugins(string(out))
	if err != nil && len(plugins.Generic)+len(plugins.Request) == 0 {
		return plugins, errors.Wrapf(err, "cannot list plugins of %s", binary)
	}
	return plugins, nil
}

func parsePlugins(out string) Plugins {
	var plugins Plugins
	var target *[]string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "***"):
			switch {
			case strings.Contains(line, "generic"):
				target = &plugins.Generic
			case strings.Contains(line, "request"):
				target = &plugins.Request
			default:
				target = nil
			}
		case strings.HasPrefix(line, "---"):
			target = nil
		case target != nil:
			if _, name, found := strings.Cut(line, ":"); found {
				line = strings.TrimSpace(name)
			}
			*target = append(*target, line)
		}
	}
	return plugins
}
