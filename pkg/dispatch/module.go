package dispatch

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/pkg/errors"

	"github.com/redhatinsights/uwsgiconf/internal/conf"
	"github.com/redhatinsights/uwsgiconf/internal/envs"
)

// Module is a configuration program: a Go source file, a Go package
// directory or an executable.
type Module struct {
	Path string
	// Go toolchain used for sources. Defaults to the tool configuration.
	GoBinary string
}

// NewModule returns the configuration program at path.
func NewModule(path string) *Module {
	return &Module{Path: path}
}

func (m *Module) isSource() bool {
	if strings.HasSuffix(m.Path, ".go") {
		return true
	}
	info, err := os.Stat(m.Path)
	return err == nil && info.IsDir()
}

// Command returns the program and arguments running the module with
// extra arguments.
func (m *Module) Command(extra ...string) []string {
	path, err := filepath.Abs(m.Path)
	if err != nil {
		path = m.Path
	}

	var command []string
	if m.isSource() {
		goBinary := m.GoBinary
		if goBinary == "" {
			goBinary = conf.Configuration.GoBinary
		}
		command = []string{goBinary, "run", path}
	} else {
		command = []string{path}
	}
	return append(command, extra...)
}

func (m *Module) run(ctx context.Context, env []string, extra ...string) ([]byte, error) {
	command := m.Command(extra...)
	log.Debugf("running %s", strings.Join(command, " "))

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Env = append(os.Environ(), envs.Ready+"=")
	cmd.Env = append(cmd.Env, env...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrapf(err, "configuration program %s failed: %s", m.Path, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Aliases returns the aliases of the configurations the module defines.
func (m *Module) Aliases(ctx context.Context) ([]string, error) {
	out, err := m.run(ctx, []string{envs.ConfAlias + "="}, AliasesFlag)
	if err != nil {
		return nil, err
	}

	var aliases []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			aliases = append(aliases, line)
		}
	}
	return aliases, scanner.Err()
}

// Compile returns the INI form of the configuration named alias.
func (m *Module) Compile(ctx context.Context, alias string) (string, error) {
	out, err := m.run(ctx, []string{envs.ConfAlias + "=" + alias}, ConfFlag, alias)
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return "", errors.Errorf("configuration %q is not defined in %s", alias, m.Path)
	}
	return string(out), nil
}

// ExecURI returns the loader the server reads the configuration named
// alias through.
func (m *Module) ExecURI(alias string) string {
	return "exec://" + strings.Join(m.Command(ConfFlag, alias), " ")
}
