package core

import (
	"path"
	"strings"
)

// Base holds the per-section state every option group writes into: the
// ordered option store, the set of loaded plugins and the values used to
// resolve path placeholders.
type Base struct {
	name        string
	store       *Store
	plugins     []string
	runtimeDir  string
	projectName string
	stylePrints bool
}

// NewBase returns an empty Base named name.
func NewBase(name string) *Base {
	return &Base{name: name, store: NewStore()}
}

// Name returns the section name.
func (b *Base) Name() string {
	return b.name
}

// SetName renames the section.
func (b *Base) SetName(name string) {
	b.name = name
}

// Store returns the option store.
func (b *Base) Store() *Store {
	return b.store
}

// StylePrints reports whether print directives are wrapped in ANSI styles.
func (b *Base) StylePrints() bool {
	return b.stylePrints
}

// SetStylePrints toggles ANSI styling of print directives.
func (b *Base) SetStylePrints(on bool) {
	b.stylePrints = on
}

type setOptions struct {
	condition *bool
	asBool    bool
	multi     bool
	plugin    string
	priority  int
}

// SetOption tunes a single Set call.
type SetOption func(*setOptions)

// When makes the write happen only if cond holds.
func When(cond bool) SetOption {
	return func(o *setOptions) {
		o.condition = &cond
	}
}

// AsBool casts the value to a boolean directive: a truthy value is written
// as "true", a falsy one removes any prior entry for the key.
func AsBool() SetOption {
	return func(o *setOptions) {
		o.asBool = true
	}
}

// Multi appends the value (or every element of a slice value) to the list
// held under the key.
func Multi() SetOption {
	return func(o *setOptions) {
		o.multi = true
	}
}

// WithPlugin activates the named plugin before the value is written.
func WithPlugin(name string) SetOption {
	return func(o *setOptions) {
		o.plugin = name
	}
}

// Priority places the key at position n of the store.
func Priority(n int) SetOption {
	return func(o *setOptions) {
		o.priority = n
	}
}

// Set is the single write primitive all option groups funnel into.
//
// Nil values are skipped. Parametrized values (alone or within a slice)
// may rename the key, activate their plugin and contribute companion
// options; all of this lands in the store before the value itself.
func (b *Base) Set(key string, value interface{}, opts ...SetOption) {
	o := setOptions{priority: -1}
	for _, opt := range opts {
		opt(&o)
	}

	value = normalize(value)
	if value == nil {
		return
	}
	if o.condition != nil && !*o.condition {
		return
	}

	if o.asBool {
		if !truthy(value) {
			b.store.Delete(key)
			return
		}
		value = "true"
	}

	if o.plugin != "" {
		b.ActivatePlugins(false, o.plugin)
	}

	items := flatten(value)
	for _, item := range items {
		if p, ok := item.(Parametrized); ok {
			key = b.contribute(key, p)
		}
	}

	if o.multi {
		b.store.Append(key, items, o.priority)
		return
	}
	b.store.Put(key, value, o.priority)
}

// contribute applies the side effects a parametrized value carries and
// returns the key it must be written under.
func (b *Base) contribute(key string, v Parametrized) string {
	p := v.Parameters()
	if p == nil {
		return key
	}
	if p.Key != "" {
		key = p.Key
	}
	if p.PluginName != "" {
		b.ActivatePlugins(false, p.PluginName)
	}
	for _, arg := range p.Args {
		for _, item := range flatten(arg) {
			if nested, ok := item.(Parametrized); ok {
				b.contribute("", nested)
			}
		}
	}
	if p.companions != nil {
		b.Merge(p.companions)
	}
	return key
}

// Merge writes every option of other into b, keeping other's order.
// Plugin directives go through the plugin activator so already loaded
// plugins are not emitted twice.
func (b *Base) Merge(other *Base) {
	other.store.Each(func(key string, values []interface{}, multi bool) {
		switch key {
		case "plugin", "need-plugin":
			for _, v := range values {
				b.ActivatePlugins(key == "need-plugin", Render(v))
			}
		default:
			if multi {
				b.Set(key, values, Multi())
			} else {
				b.Set(key, values[0])
			}
		}
	})
}

// ActivatePlugins emits plugin (or need-plugin when required) directives
// for plugins not loaded yet and records them as loaded.
func (b *Base) ActivatePlugins(required bool, names ...string) {
	command := "plugin"
	if required {
		command = "need-plugin"
	}
	for _, name := range names {
		if name == "" || b.PluginLoaded(name) {
			continue
		}
		b.plugins = append(b.plugins, name)
		b.Set(command, name, Multi())
	}
}

// MarkPluginsLoaded records plugins as loaded without emitting anything,
// e.g. plugins embedded into the server binary.
func (b *Base) MarkPluginsLoaded(names ...string) {
	for _, name := range names {
		if name != "" && !b.PluginLoaded(name) {
			b.plugins = append(b.plugins, name)
		}
	}
}

// PluginLoaded reports whether name is in the loaded set.
func (b *Base) PluginLoaded(name string) bool {
	return contains(b.plugins, name)
}

// LoadedPlugins returns the loaded set in activation order.
func (b *Base) LoadedPlugins() []string {
	return append([]string(nil), b.plugins...)
}

// RuntimeDir returns the directory used for runtime artifacts (sockets,
// FIFOs, pid files). When unset it falls back to /run/user/<uid> when an
// owner uid is configured, then to /run.
func (b *Base) RuntimeDir() string {
	if b.runtimeDir != "" {
		return b.runtimeDir
	}
	if uid, ok := b.store.Get("uid"); ok {
		if rendered := Render(uid); rendered != "" {
			return path.Join("/run/user", rendered)
		}
	}
	return "/run"
}

// SetRuntimeDir sets the runtime directory.
func (b *Base) SetRuntimeDir(dir string) {
	b.runtimeDir = dir
}

// ProjectName returns the project name used in placeholders.
func (b *Base) ProjectName() string {
	return b.projectName
}

// SetProjectName sets the project name used in placeholders.
func (b *Base) SetProjectName(name string) {
	b.projectName = name
}

// ReplacePlaceholders substitutes {runtime_dir}, {project_name} and
// {project_runtime_dir} in s.
func (b *Base) ReplacePlaceholders(s string) string {
	if s == "" || !strings.Contains(s, "{") {
		return s
	}
	runtimeDir := b.RuntimeDir()
	return strings.NewReplacer(
		"{runtime_dir}", runtimeDir,
		"{project_name}", b.projectName,
		"{project_runtime_dir}", path.Join(runtimeDir, b.projectName),
	).Replace(s)
}

// ReplacePlaceholdersList applies ReplacePlaceholders to every item.
func (b *Base) ReplacePlaceholdersList(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, b.ReplacePlaceholders(item))
	}
	return out
}

// Clone returns a deep copy of b's store and plugin set. Stored values are
// shared.
func (b *Base) Clone() *Base {
	return &Base{
		name:        b.name,
		store:       b.store.Clone(),
		plugins:     append([]string(nil), b.plugins...),
		runtimeDir:  b.runtimeDir,
		projectName: b.projectName,
		stylePrints: b.stylePrints,
	}
}
