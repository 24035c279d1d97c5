package nice

import (
	"github.com/redhatinsights/uwsgiconf/pkg/config"
	"github.com/redhatinsights/uwsgiconf/pkg/options/applications"
	"github.com/redhatinsights/uwsgiconf/pkg/options/networking"
	"github.com/redhatinsights/uwsgiconf/pkg/options/python"
)

// DefaultPythonPlugin is the python plugin name used by python sections.
const DefaultPythonPlugin = "python3"

// PythonOptions are the knobs of a nice python section.
type PythonOptions struct {
	Options

	// Python plugin name. Defaults to DefaultPythonPlugin.
	Plugin string
	// The python plugin is loaded from a shared object rather than built
	// into the server binary.
	ExternalPlugin bool
	// WSGI module to load, e.g. "mysite.wsgi".
	WSGIModule string
	// Virtualenv directory.
	Home string
	// Start even when no application could be loaded.
	AllowNoApp bool
}

// NewPythonSection returns a nice section serving a python application.
func NewPythonSection(opts PythonOptions, sectionOpts ...config.SectionOption) *Section {
	plugin := opts.Plugin
	if plugin == "" {
		plugin = DefaultPythonPlugin
	}
	if !opts.ExternalPlugin {
		sectionOpts = append([]config.SectionOption{config.WithEmbeddedPlugins(plugin)}, sectionOpts...)
	}

	s := NewSection(opts.Options, sectionOpts...)
	s.Python().SetPlugin(plugin)
	s.Python().SetBasicParams(python.BasicParams{Home: opts.Home})
	s.Python().SetWSGIParams(python.WSGIParams{Module: opts.WSGIModule})
	s.Applications().SetBasicParams(applications.BasicParams{ExitIfNone: !opts.AllowNoApp})
	return s
}

// Bootstrap returns a python section listening on the sockets described by
// dsns, e.g. "http://:8000" or "https://:443?cert=a.crt&key=a.key".
// Privileged ports are bound through shared sockets when allowShared is
// set or the process is not root.
func Bootstrap(dsns []string, allowShared bool, opts PythonOptions, sectionOpts ...config.SectionOption) (*Section, error) {
	s := NewPythonSection(opts, sectionOpts...)
	for _, dsn := range dsns {
		socket, err := networking.FromDSN(dsn, allowShared)
		if err != nil {
			return nil, err
		}
		s.Networking().RegisterSocket(socket)
	}
	return s, nil
}
