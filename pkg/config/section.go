package config

import (
	"os"
	"strings"

	"github.com/mgutz/ansi"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
	"github.com/redhatinsights/uwsgiconf/pkg/options/alarms"
	"github.com/redhatinsights/uwsgiconf/pkg/options/applications"
	"github.com/redhatinsights/uwsgiconf/pkg/options/caching"
	"github.com/redhatinsights/uwsgiconf/pkg/options/locks"
	"github.com/redhatinsights/uwsgiconf/pkg/options/logging"
	"github.com/redhatinsights/uwsgiconf/pkg/options/mainprocess"
	"github.com/redhatinsights/uwsgiconf/pkg/options/masterprocess"
	"github.com/redhatinsights/uwsgiconf/pkg/options/monitoring"
	"github.com/redhatinsights/uwsgiconf/pkg/options/networking"
	"github.com/redhatinsights/uwsgiconf/pkg/options/python"
	"github.com/redhatinsights/uwsgiconf/pkg/options/routing"
	"github.com/redhatinsights/uwsgiconf/pkg/options/statics"
	"github.com/redhatinsights/uwsgiconf/pkg/options/workers"
)

// DefaultSectionName is the section the server reads when no section is
// named on its command line.
const DefaultSectionName = "uwsgi"

// Section is a named set of directives, emitted as one INI block.
//
// Option groups are reached through accessors returning a cached group
// whose methods return the section for chaining:
//
//	s := config.NewSection()
//	s.Workers().SetBasicParams(workers.BasicParams{Count: 4}).
//		MasterProcess().SetBasicParams(masterprocess.BasicParams{Enable: core.Bool(true)})
type Section struct {
	*core.Base

	alarms        *alarms.Alarms[*Section]
	applications  *applications.Applications[*Section]
	caching       *caching.Caching[*Section]
	locks         *locks.Locks[*Section]
	logging       *logging.Logging[*Section]
	mainProcess   *mainprocess.MainProcess[*Section]
	masterProcess *masterprocess.MasterProcess[*Section]
	monitoring    *monitoring.Monitoring[*Section]
	networking    *networking.Networking[*Section]
	python        *python.Python[*Section]
	routing       *routing.Routing[*Section]
	statics       *statics.Statics[*Section]
	workers       *workers.Workers[*Section]
}

// SectionOption configures a new section.
type SectionOption func(*Section)

// WithName names the section. The default is "uwsgi".
func WithName(name string) SectionOption {
	return func(s *Section) {
		s.SetName(name)
	}
}

// WithRuntimeDir sets the directory {runtime_dir} resolves to.
func WithRuntimeDir(dir string) SectionOption {
	return func(s *Section) {
		s.SetRuntimeDir(dir)
	}
}

// WithProjectName sets the value {project_name} resolves to.
func WithProjectName(name string) SectionOption {
	return func(s *Section) {
		s.SetProjectName(name)
	}
}

// WithStylePrints wraps print directives in ANSI styles.
func WithStylePrints() SectionOption {
	return func(s *Section) {
		s.SetStylePrints(true)
	}
}

// WithStrict makes the server fail on unknown directives.
func WithStrict() SectionOption {
	return func(s *Section) {
		s.Set("strict", true, core.AsBool())
	}
}

// WithEmbeddedPlugins marks plugins built into the server binary as
// loaded, so no plugin directive is emitted for them.
func WithEmbeddedPlugins(names ...string) SectionOption {
	return func(s *Section) {
		s.MarkPluginsLoaded(names...)
	}
}

// WithParams applies option group basic parameters, e.g.
// workers.BasicParams{Count: 2}.
func WithParams(params ...core.BasicParams) SectionOption {
	return func(s *Section) {
		for _, p := range params {
			if p != nil {
				p.ApplyTo(s.Base)
			}
		}
	}
}

// NewSection returns an empty section. Options apply in order.
func NewSection(opts ...SectionOption) *Section {
	s := &Section{Base: core.NewBase(DefaultSectionName)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Alarms returns the alarms option group.
func (s *Section) Alarms() *alarms.Alarms[*Section] {
	if s.alarms == nil {
		s.alarms = alarms.New(s.Base, s)
	}
	return s.alarms
}

// Applications returns the applications option group.
func (s *Section) Applications() *applications.Applications[*Section] {
	if s.applications == nil {
		s.applications = applications.New(s.Base, s)
	}
	return s.applications
}

// Caching returns the caching option group.
func (s *Section) Caching() *caching.Caching[*Section] {
	if s.caching == nil {
		s.caching = caching.New(s.Base, s)
	}
	return s.caching
}

// Locks returns the locks option group.
func (s *Section) Locks() *locks.Locks[*Section] {
	if s.locks == nil {
		s.locks = locks.New(s.Base, s)
	}
	return s.locks
}

// Logging returns the logging option group.
func (s *Section) Logging() *logging.Logging[*Section] {
	if s.logging == nil {
		s.logging = logging.New(s.Base, s)
	}
	return s.logging
}

// MainProcess returns the main process option group.
func (s *Section) MainProcess() *mainprocess.MainProcess[*Section] {
	if s.mainProcess == nil {
		s.mainProcess = mainprocess.New(s.Base, s)
	}
	return s.mainProcess
}

// MasterProcess returns the master process option group.
func (s *Section) MasterProcess() *masterprocess.MasterProcess[*Section] {
	if s.masterProcess == nil {
		s.masterProcess = masterprocess.New(s.Base, s)
	}
	return s.masterProcess
}

// Monitoring returns the monitoring option group.
func (s *Section) Monitoring() *monitoring.Monitoring[*Section] {
	if s.monitoring == nil {
		s.monitoring = monitoring.New(s.Base, s)
	}
	return s.monitoring
}

// Networking returns the networking option group.
func (s *Section) Networking() *networking.Networking[*Section] {
	if s.networking == nil {
		s.networking = networking.New(s.Base, s)
	}
	return s.networking
}

// Python returns the python option group.
func (s *Section) Python() *python.Python[*Section] {
	if s.python == nil {
		s.python = python.New(s.Base, s)
	}
	return s.python
}

// Routing returns the routing option group.
func (s *Section) Routing() *routing.Routing[*Section] {
	if s.routing == nil {
		s.routing = routing.New(s.Base, s)
	}
	return s.routing
}

// Statics returns the static files option group.
func (s *Section) Statics() *statics.Statics[*Section] {
	if s.statics == nil {
		s.statics = statics.New(s.Base, s)
	}
	return s.statics
}

// Workers returns the workers option group.
func (s *Section) Workers() *workers.Workers[*Section] {
	if s.workers == nil {
		s.workers = workers.New(s.Base, s)
	}
	return s.workers
}

// PluginsParams control plugin loading.
type PluginsParams struct {
	Plugins []string
	// Directories searched for plugins. Written first in the section.
	SearchDirs []string
	// Load plugins on demand for unknown directives.
	Autoload bool
	// Fail when a plugin cannot be loaded.
	Required bool
}

// SetPluginsParams loads plugins. Plugins already loaded are skipped.
func (s *Section) SetPluginsParams(p PluginsParams) *Section {
	s.Set("plugins-dir", s.ReplacePlaceholdersList(p.SearchDirs), core.Multi(), core.Priority(0))
	s.Set("autoload", core.NonZero(p.Autoload), core.AsBool())
	s.ActivatePlugins(p.Required, p.Plugins...)
	return s
}

// Include makes the server load other sections of the same file.
func (s *Section) Include(sections ...*Section) *Section {
	for _, other := range sections {
		if other != nil {
			s.Set("ini", ":"+other.Name(), core.Multi())
		}
	}
	return s
}

// IncludeFiles makes the server load other configuration files.
func (s *Section) IncludeFiles(paths ...string) *Section {
	s.Set("ini", s.ReplacePlaceholdersList(paths), core.Multi())
	return s
}

// SetFallbackFile loads path when the server fails to start.
func (s *Section) SetFallbackFile(path string) *Section {
	s.Set("fallback-config", s.ReplacePlaceholders(path))
	return s
}

// SetFallback writes target into a file of its own and loads it when the
// server fails to start.
func (s *Section) SetFallback(target *Section) (*Section, error) {
	c, err := target.AsConfiguration()
	if err != nil {
		return s, err
	}
	path, err := c.ToFile("")
	if err != nil {
		return s, err
	}
	return s.SetFallbackFile(path), nil
}

// EnvParams tune an environment variable directive.
type EnvParams struct {
	// Value of the variable. When nil the current process value is used.
	Value *string
	// Remove the variable instead.
	Unset bool
	// Set the variable as soon as possible.
	ASAP bool
}

// Env sets, or unsets, an environment variable for the server.
func (s *Section) Env(key string, p EnvParams) *Section {
	if p.Unset {
		s.Set("unenv", key, core.Multi())
		return s
	}
	value := os.Getenv(key)
	if p.Value != nil {
		value = *p.Value
	}
	directive := "env"
	if p.ASAP {
		directive = "ienv"
	}
	s.Set(directive, key+"="+value, core.Multi())
	return s
}

// SetPlaceholder defines a placeholder usable as $(key) in other
// directives.
func (s *Section) SetPlaceholder(key string, value interface{}) *Section {
	s.Set("set-placeholder", key+"="+core.Render(value), core.Multi())
	return s
}

// PrintOptions tune PrintOut.
type PrintOptions struct {
	Indent string
	// ANSI style, e.g. "red+b" or "yellow:blue". Used only when style
	// prints are enabled.
	Style string
	// Print as soon as the directive is parsed.
	ASAP bool
}

// PrintOut makes the server print value while it loads the configuration.
func (s *Section) PrintOut(value interface{}, p PrintOptions) *Section {
	text := p.Indent + core.Render(value)
	if s.StylePrints() && p.Style != "" {
		text = ansi.Color(text, p.Style)
	}
	directive := "print"
	if p.ASAP {
		directive = "iprint"
	}
	s.Set(directive, text, core.Multi())
	return s
}

// PrintVariables prints the server's magic variables and their values.
func (s *Section) PrintVariables() *Section {
	s.PrintOut("Magic variables:", PrintOptions{Style: "green+b"})
	for _, v := range core.VarDescriptions {
		escaped := strings.ReplaceAll(v.Var, "%", "%%")
		s.PrintOut(escaped+" "+v.Description+": "+v.Var, PrintOptions{Indent: "  "})
	}
	return s
}

// AsConfiguration returns a configuration made of s alone.
func (s *Section) AsConfiguration(opts ...Option) (*Configuration, error) {
	return New([]*Section{s}, opts...)
}

// Derive returns a copy of s. A non-empty name renames the copy.
func (s *Section) Derive(name string) *Section {
	return DeriveFrom(s, name)
}

// DeriveFrom returns a copy of other. A non-empty name renames the copy.
// Later writes to either section do not affect the other.
func DeriveFrom(other *Section, name string) *Section {
	s := &Section{Base: other.Base.Clone()}
	if name != "" {
		s.SetName(name)
	}
	return s
}
