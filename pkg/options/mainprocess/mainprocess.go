// Package mainprocess configures the server's main process: ownership,
// naming, pid files and lifecycle hooks.
package mainprocess

import "github.com/redhatinsights/uwsgiconf/pkg/core"

// Phases accepted by RunCommandOnEvent.
const (
	PhaseASAP         = "asap"
	PhasePreJail      = "pre-jail"
	PhasePostJail     = "post-jail"
	PhaseInJail       = "in-jail"
	PhaseAsRoot       = "as-root"
	PhaseAsUser       = "as-user"
	PhaseAsUserAtExit = "as-user-atexit"
	PhasePreApp       = "pre-app"
	PhasePostApp      = "post-app"
)

// MainProcess is the main process option group.
type MainProcess[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *MainProcess[S] {
	return &MainProcess[S]{Group: core.NewGroup(base, owner, "main_process", "")}
}

// BasicParams are the main process settings.
type BasicParams struct {
	// Reload when any of these files is touched.
	TouchReload []string
	// Process scheduling priority.
	Priority *int
	// Remove generated files and sockets on exit.
	Vacuum bool
	// Exit when a directive is not recognized.
	Strict bool
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the main process settings.
func (m *MainProcess[S]) SetBasicParams(p BasicParams) S {
	m.Set("touch-reload", m.Base().ReplacePlaceholdersList(p.TouchReload), core.Multi())
	m.Set("prio", p.Priority)
	m.Set("vacuum", core.NonZero(p.Vacuum), core.AsBool())
	m.Set("strict", core.NonZero(p.Strict), core.AsBool())
	return m.Section()
}

// OwnerParams set the user and group the server runs as. UID and GID take
// names or numeric ids.
type OwnerParams struct {
	UID     interface{}
	GID     interface{}
	AddGIDs []string
	// Drop privileges as soon as possible.
	ASAP bool
}

// SetOwnerParams sets the user and group the server runs as.
func (m *MainProcess[S]) SetOwnerParams(p OwnerParams) S {
	prefix := ""
	if p.ASAP {
		prefix = "immediate-"
	}
	m.Set(prefix+"uid", p.UID)
	m.Set(prefix+"gid", p.GID)
	m.Set("add-gid", p.AddGIDs, core.Multi())
	return m.Section()
}

// Owner returns the user the server runs as, if set.
func (m *MainProcess[S]) Owner() (interface{}, bool) {
	for _, key := range []string{"uid", "immediate-uid"} {
		if v, ok := m.Base().Store().Get(key); ok {
			return v, true
		}
	}
	return nil, false
}

// NamingParams set process titles.
type NamingParams struct {
	// Generate meaningful process names automatically.
	Autonaming bool
	Prefix     string
	Suffix     string
	// Name of every process.
	Name string
	// Name of the master process.
	NameMaster string
	// Name of the worker processes.
	NameWorkers string
}

// SetNamingParams sets process titles.
func (m *MainProcess[S]) SetNamingParams(p NamingParams) S {
	m.Set("auto-procname", core.NonZero(p.Autonaming), core.AsBool())
	m.Set("procname-prefix-spaced", core.NonZero(p.Prefix))
	m.Set("procname-append", core.NonZero(p.Suffix))
	m.Set("procname", core.NonZero(p.Name))
	m.Set("procname-master", core.NonZero(p.NameMaster))
	m.Set("procname-workers", core.NonZero(p.NameWorkers))
	return m.Section()
}

// SetPIDFile writes the master pid into path. Unless beforePrivDrop is
// set the file is created after privileges are dropped. With safe the file
// is written only when the pid is valid.
func (m *MainProcess[S]) SetPIDFile(path string, beforePrivDrop, safe bool) S {
	key := "pidfile"
	if safe {
		key = "safe-pidfile"
	}
	if !beforePrivDrop {
		key += "2"
	}
	m.Set(key, m.Base().ReplacePlaceholders(path))
	return m.Section()
}

// ChangeDir changes the working directory, before or after applications
// are loaded.
func (m *MainProcess[S]) ChangeDir(path string, afterAppLoading bool) S {
	key := "chdir"
	if afterAppLoading {
		key = "chdir2"
	}
	m.Set(key, m.Base().ReplacePlaceholders(path))
	return m.Section()
}

// Daemonize detaches the server and logs into logInto.
func (m *MainProcess[S]) Daemonize(logInto string, afterAppLoading bool) S {
	key := "daemonize"
	if afterAppLoading {
		key = "daemonize2"
	}
	m.Set(key, m.Base().ReplacePlaceholders(logInto))
	return m.Section()
}

// RunCommandOnEvent runs command at the given phase of the server
// lifecycle.
func (m *MainProcess[S]) RunCommandOnEvent(command, phase string) S {
	m.Set("exec-"+phase, command, core.Multi())
	return m.Section()
}
