// Package dispatch connects configuration programs with the server.
//
// A configuration program is a Go program whose main calls ConfigureUwsgi
// with a function building its configurations. The same program serves
// three purposes depending on how it is run:
//
//   - with "--aliases" as its last argument it prints the aliases of its
//     configurations, one per line, so tooling can discover them;
//   - with UWSGICONF_CONF_ALIAS set, or "--conf <alias>" as its last two
//     arguments, it prints the INI form of that configuration, which is
//     how the server loads it through an exec:// URI;
//   - otherwise the configurations are registered for in-process use.
package dispatch

import (
	"fmt"
	"io"
	"os"
	"sync"

	"git.sr.ht/~spc/go-log"

	"github.com/redhatinsights/uwsgiconf/internal/envs"
	"github.com/redhatinsights/uwsgiconf/pkg/config"
	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// AliasesFlag makes a configuration program list its aliases.
const AliasesFlag = "--aliases"

// ConfFlag selects the configuration a program prints.
const ConfFlag = "--conf"

// AliasPlaceholder is the placeholder holding the alias of the loaded
// configuration.
const AliasPlaceholder = "config-alias"

var (
	stdout io.Writer = os.Stdout
	args             = os.Args
)

var (
	mu         sync.Mutex
	registered []*config.Configuration
)

// Register records configurations for in-process use.
func Register(configs ...*config.Configuration) {
	mu.Lock()
	defer mu.Unlock()
	registered = append(registered, configs...)
}

// Registered returns the configurations recorded with Register.
func Registered() []*config.Configuration {
	mu.Lock()
	defer mu.Unlock()
	return append([]*config.Configuration(nil), registered...)
}

// ConfigureUwsgi builds configurations with fn and dispatches them.
//
// When the server re-enters the program after it was configured, fn is
// not called and nil is returned.
func ConfigureUwsgi(fn func() ([]config.Exportable, error)) ([]*config.Configuration, error) {
	if envs.IsReady() {
		log.Debugf("configuration is loaded, skipping")
		return nil, envs.SetReady(false)
	}

	exportables, err := fn()
	if err != nil {
		return nil, err
	}

	configs := make([]*config.Configuration, 0, len(exportables))
	index := map[string]*config.Configuration{}
	for i, e := range exportables {
		if e == nil {
			return nil, core.Errorf("configuration %d is nil, want a section or a configuration", i)
		}
		c, err := e.AsConfiguration()
		if err != nil {
			return nil, err
		}
		if _, ok := index[c.Alias()]; ok {
			return nil, core.Errorf("configuration alias %q is used more than once", c.Alias())
		}
		index[c.Alias()] = c
		configs = append(configs, c)
	}

	if len(args) > 0 && args[len(args)-1] == AliasesFlag {
		for _, c := range configs {
			fmt.Fprintln(stdout, c.Alias())
		}
		return configs, nil
	}

	if alias := targetAlias(); alias != "" {
		if c, ok := index[alias]; ok {
			log.Debugf("emitting configuration %q", alias)
			if err := envs.SetReady(true); err != nil {
				return nil, err
			}
			c.Sections()[0].SetPlaceholder(AliasPlaceholder, alias)
			if err := c.PrintINI(stdout); err != nil {
				return nil, err
			}
			return configs, nil
		}
		log.Warnf("configuration %q is not defined", alias)
	}

	Register(configs...)
	return configs, nil
}

func targetAlias() string {
	if alias := envs.Alias(); alias != "" {
		return alias
	}
	if n := len(args); n >= 2 && args[n-2] == ConfFlag {
		return args[n-1]
	}
	return ""
}
