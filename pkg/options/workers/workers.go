// Package workers configures worker processes, threads and mules.
package workers

import "github.com/redhatinsights/uwsgiconf/pkg/core"

// Workers is the worker option group.
type Workers[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Workers[S] {
	return &Workers[S]{Group: core.NewGroup(base, owner, "workers", "")}
}

// BasicParams are the worker settings.
type BasicParams struct {
	Count int
	// Reload workers when any of these files is touched.
	TouchReload []string
	// Run workers on this many CPUs each.
	CPUAffinity int
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the worker settings.
func (w *Workers[S]) SetBasicParams(p BasicParams) S {
	w.Set("workers", core.NonZero(p.Count))
	w.Set("touch-workers-reload", w.Base().ReplacePlaceholdersList(p.TouchReload), core.Multi())
	w.Set("cpu-affinity", core.NonZero(p.CPUAffinity))
	return w.Section()
}

// SetCountAuto runs count workers, or one worker per CPU core when count
// is zero.
func (w *Workers[S]) SetCountAuto(count int) S {
	if count > 0 {
		w.Set("workers", count)
	} else {
		w.Set("workers", core.VarCPUCores)
	}
	return w.Section()
}

// ThreadParams configure threads per worker.
type ThreadParams struct {
	Enable *bool
	Count  int
	// Stack size in kilobytes.
	StackSize int
	// Do not wait for threads on shutdown.
	NoWait bool
}

// SetThreadParams configures threads per worker.
func (w *Workers[S]) SetThreadParams(p ThreadParams) S {
	w.Set("enable-threads", p.Enable, core.AsBool())
	w.Set("threads", core.NonZero(p.Count))
	w.Set("thread-stacksize", core.NonZero(p.StackSize))
	w.Set("no-threads-wait", core.NonZero(p.NoWait), core.AsBool())
	return w.Section()
}

// MulesParams configure mules, worker-like processes for offloaded tasks.
type MulesParams struct {
	// Number of generic mules.
	Count int
	// One mule per script.
	Scripts []string
	// Reload mules when any of these files is touched.
	TouchReload     []string
	HarakiriTimeout int
}

// SetMulesParams configures mules.
func (w *Workers[S]) SetMulesParams(p MulesParams) S {
	w.Set("mules", core.NonZero(p.Count))
	w.Set("mule", w.Base().ReplacePlaceholdersList(p.Scripts), core.Multi())
	w.Set("touch-mules-reload", w.Base().ReplacePlaceholdersList(p.TouchReload), core.Multi())
	w.Set("mule-harakiri", core.NonZero(p.HarakiriTimeout))
	return w.Section()
}

// ReloadParams set when workers are recycled.
type ReloadParams struct {
	// Seconds a worker lives before it may be reloaded.
	MinLifetime int
	MaxLifetime int
	MaxRequests int
	// Per-worker spread added to MaxRequests.
	MaxRequestsDelta int
	// Megabytes of address space.
	MaxAddressSpace int
	// Megabytes of resident memory.
	MaxRSS      int
	OnException bool
}

// SetReloadParams sets when workers are recycled.
func (w *Workers[S]) SetReloadParams(p ReloadParams) S {
	w.Set("min-worker-lifetime", core.NonZero(p.MinLifetime))
	w.Set("max-worker-lifetime", core.NonZero(p.MaxLifetime))
	w.Set("max-requests", core.NonZero(p.MaxRequests))
	w.Set("max-requests-delta", core.NonZero(p.MaxRequestsDelta))
	w.Set("reload-on-as", core.NonZero(p.MaxAddressSpace))
	w.Set("reload-on-rss", core.NonZero(p.MaxRSS))
	w.Set("reload-on-exception", core.NonZero(p.OnException), core.AsBool())
	return w.Section()
}

// HarakiriParams kill workers stuck on a request.
type HarakiriParams struct {
	// Seconds a request may take.
	Timeout int
	// Log details of killed workers.
	Verbose bool
	// Do not count time spent after the request was handled.
	NoARH bool
}

// SetHarakiriParams kills workers stuck on a request.
func (w *Workers[S]) SetHarakiriParams(p HarakiriParams) S {
	w.Set("harakiri", core.NonZero(p.Timeout))
	w.Set("harakiri-verbose", core.NonZero(p.Verbose), core.AsBool())
	w.Set("harakiri-no-arh", core.NonZero(p.NoARH), core.AsBool())
	return w.Section()
}
