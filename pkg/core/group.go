package core

// Group is the shared base of option groups. It holds nothing but the
// owning section and the group identity; every write lands in the
// section's Base.
//
// S is the type returned by group methods so calls can be chained on the
// owning section.
type Group[S any] struct {
	name   string
	plugin string
	base   *Base
	owner  S
}

// NewGroup returns a group writing into base on behalf of owner. A non
// empty plugin marks the group as plugin-backed: any write through it
// activates that plugin first.
func NewGroup[S any](base *Base, owner S, name, plugin string) *Group[S] {
	return &Group[S]{name: name, plugin: plugin, base: base, owner: owner}
}

// Name returns the group identifier.
func (g *Group[S]) Name() string {
	return g.name
}

// Plugin returns the plugin backing the group, or "".
func (g *Group[S]) Plugin() string {
	return g.plugin
}

// SetPlugin changes the plugin backing the group.
func (g *Group[S]) SetPlugin(name string) {
	g.plugin = name
}

// Base returns the section state the group writes into.
func (g *Group[S]) Base() *Base {
	return g.base
}

// Section returns the owning section.
func (g *Group[S]) Section() S {
	return g.owner
}

// Set writes through the section's Set, activating the group plugin.
func (g *Group[S]) Set(key string, value interface{}, opts ...SetOption) {
	if g.plugin != "" {
		opts = append([]SetOption{WithPlugin(g.plugin)}, opts...)
	}
	g.base.Set(key, value, opts...)
}

// BasicParams is implemented by every group's basic parameters so they can
// be handed to a section at construction time.
type BasicParams interface {
	ApplyTo(b *Base)
}
