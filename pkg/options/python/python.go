// Package python configures the python plugin.
package python

import (
	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Python is the python plugin option group. Every write activates the
// plugin.
type Python[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Python[S] {
	return &Python[S]{Group: core.NewGroup(base, owner, "python", "python")}
}

// BasicParams are the interpreter settings.
type BasicParams struct {
	// Virtualenv or python home directory.
	Home string
	// Enable the GIL and threads support.
	EnableThreads *bool
	// Added to the module search path.
	SearchPath []string
	// Value of sys.executable.
	ProgramName string
	// UNIX socket the tracebacker listens on.
	TracebackerSocket string
	Optimize          int
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the interpreter settings.
func (py *Python[S]) SetBasicParams(p BasicParams) S {
	base := py.Base()
	py.Set("home", core.NonZero(base.ReplacePlaceholders(p.Home)))
	py.Set("enable-threads", p.EnableThreads, core.AsBool())
	py.Set("pythonpath", base.ReplacePlaceholdersList(p.SearchPath), core.Multi())
	py.Set("py-program-name", core.NonZero(p.ProgramName))
	py.Set("py-tracebacker", core.NonZero(base.ReplacePlaceholders(p.TracebackerSocket)))
	py.Set("optimize", core.NonZero(p.Optimize))
	return py.Section()
}

// WSGIParams select the WSGI application.
type WSGIParams struct {
	// Module to load, e.g. "mysite.wsgi".
	Module string
	// Name of the application callable in Module.
	Callable string
	// Environ dictionary strategy: "holy" or "cheat".
	EnvStrategy string
	// Disable wsgi.file_wrapper.
	NoFileWrapper bool
}

// SetWSGIParams selects the WSGI application.
func (py *Python[S]) SetWSGIParams(p WSGIParams) S {
	py.Set("module", core.NonZero(p.Module))
	py.Set("callable", core.NonZero(p.Callable))
	py.Set("wsgi-env-behaviour", core.NonZero(p.EnvStrategy))
	py.Set("wsgi-disable-file-wrapper", core.NonZero(p.NoFileWrapper), core.AsBool())
	return py.Section()
}

// SetAutoreloadParams reloads the server when a loaded module changes.
// Modules in ignore are not monitored.
func (py *Python[S]) SetAutoreloadParams(scanInterval int, ignore ...string) S {
	py.Set("py-autoreload", core.NonZero(scanInterval))
	py.Set("py-auto-reload-ignore", ignore, core.Multi())
	return py.Section()
}

// RegisterModuleAlias makes modulePath importable as alias. With
// afterInit the alias is registered after the interpreter is initialized.
func (py *Python[S]) RegisterModuleAlias(alias, modulePath string, afterInit bool) S {
	key := "pymodule-alias"
	if afterInit {
		key = "post-pymodule-alias"
	}
	py.Set(key, alias+"="+modulePath, core.Multi())
	return py.Section()
}

// ImportModule imports modules in every worker. With shared they are
// imported once in the master; with intoSpooler in spoolers. The two are
// mutually exclusive.
func (py *Python[S]) ImportModule(modules []string, shared, intoSpooler bool) (S, error) {
	if shared && intoSpooler {
		return py.Section(), core.Errorf("unable to import modules into both the master and spoolers")
	}
	key := "python-import"
	switch {
	case shared:
		key = "shared-python-import"
	case intoSpooler:
		key = "spooler-python-import"
	}
	py.Set(key, modules, core.Multi())
	return py.Section(), nil
}

// RunModule runs a python script or module before applications load.
func (py *Python[S]) RunModule(path string) S {
	py.Set("pyrun", py.Base().ReplacePlaceholders(path))
	return py.Section()
}
