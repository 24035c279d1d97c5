// Package applications configures how the server loads applications.
package applications

import "github.com/redhatinsights/uwsgiconf/pkg/core"

// Applications is the application loading option group.
type Applications[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Applications[S] {
	return &Applications[S]{Group: core.NewGroup(base, owner, "applications", "")}
}

// BasicParams are the application loading settings.
type BasicParams struct {
	// Exit if no application could be loaded.
	ExitIfNone bool
	// Maximum number of applications per worker.
	MaxPerWorker int
	// Do not use multiple interpreters where available.
	SingleInterpreter bool
	// Do not fall back to the default application.
	NoDefault bool
	// Automatically rewrite SCRIPT_NAME and PATH_INFO.
	ManageScriptName bool
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the application loading settings.
func (a *Applications[S]) SetBasicParams(p BasicParams) S {
	a.Set("need-app", core.NonZero(p.ExitIfNone), core.AsBool())
	a.Set("max-apps", core.NonZero(p.MaxPerWorker))
	a.Set("single-interpreter", core.NonZero(p.SingleInterpreter), core.AsBool())
	a.Set("no-default-app", core.NonZero(p.NoDefault), core.AsBool())
	a.Set("manage-script-name", core.NonZero(p.ManageScriptName), core.AsBool())
	return a.Section()
}

// Mount loads app under mountpoint. With intoWorker the application is
// loaded by every worker instead of the master.
func (a *Applications[S]) Mount(mountpoint, app string, intoWorker bool) S {
	key := "mount"
	if intoWorker {
		key = "worker-mount"
	}
	a.Set(key, mountpoint+"="+app, core.Multi())
	return a.Section()
}

// SwitchIntoLazyMode loads applications in workers after fork. With
// affectMaster the master is lazy too, so a reload also reloads it.
func (a *Applications[S]) SwitchIntoLazyMode(affectMaster bool) S {
	if affectMaster {
		a.Set("lazy", true, core.AsBool())
	} else {
		a.Set("lazy-apps", true, core.AsBool())
	}
	return a.Section()
}
