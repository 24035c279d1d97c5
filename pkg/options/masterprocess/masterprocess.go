// Package masterprocess configures the master process: supervision,
// exit events, attached daemons and cron tasks.
package masterprocess

import (
	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// MasterProcess is the master process option group.
type MasterProcess[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *MasterProcess[S] {
	return &MasterProcess[S]{Group: core.NewGroup(base, owner, "master_process", "")}
}

// BasicParams are the master process settings.
type BasicParams struct {
	Enable *bool
	// Master FIFO paths. Placeholders are replaced.
	FIFOFile []string
	// Kill workers when the master dies.
	NoOrphans bool
	// Seconds between master checks.
	CheckInterval int
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the master process settings.
func (m *MasterProcess[S]) SetBasicParams(p BasicParams) S {
	m.Set("master", p.Enable, core.AsBool())
	m.Set("master-fifo", m.Base().ReplacePlaceholdersList(p.FIFOFile), core.Multi())
	m.Set("no-orphans", core.NonZero(p.NoOrphans), core.AsBool())
	m.Set("check-interval", core.NonZero(p.CheckInterval))
	return m.Section()
}

// ExitEvents select events that make the server exit.
type ExitEvents struct {
	NoWorkers bool
	Idle      bool
	// Exit instead of reloading.
	Reload bool
	// Shut down on SIGTERM instead of reloading.
	SigTerm bool
}

// SetExitEvents selects events that make the server exit.
func (m *MasterProcess[S]) SetExitEvents(e ExitEvents) S {
	m.Set("die-on-no-workers", core.NonZero(e.NoWorkers), core.AsBool())
	m.Set("die-on-idle", core.NonZero(e.Idle), core.AsBool())
	m.Set("exit-on-reload", core.NonZero(e.Reload), core.AsBool())
	m.Set("die-on-term", core.NonZero(e.SigTerm), core.AsBool())
	return m.Section()
}

// ExceptionParams configure unhandled exception handling.
type ExceptionParams struct {
	Handlers []string
	// Report exceptions in the http response.
	Catch bool
	// Do not raise exceptions on write errors.
	NoWriteExceptions bool
}

// SetExceptionHandlingParams configures unhandled exception handling.
func (m *MasterProcess[S]) SetExceptionHandlingParams(p ExceptionParams) S {
	m.Set("exception-handler", p.Handlers, core.Multi())
	m.Set("catch-exceptions", core.NonZero(p.Catch), core.AsBool())
	m.Set("disable-write-exception", core.NonZero(p.NoWriteExceptions), core.AsBool())
	return m.Section()
}

// SetIdleParams puts the server into cheap mode after timeout seconds
// without requests, or exits when exit is set.
func (m *MasterProcess[S]) SetIdleParams(timeout int, exit bool) S {
	m.Set("idle", core.NonZero(timeout))
	m.Set("die-on-idle", core.NonZero(exit), core.AsBool())
	return m.Section()
}

// AttachOptions tune an attached daemon.
type AttachOptions struct {
	// Attach only when the node is the lord of this legion.
	Legion string
	// The daemon manages its own pid file. The master does not restart it
	// across reloads while the pid is alive.
	PIDFile string
}

// AttachProcess runs command under master supervision.
func (m *MasterProcess[S]) AttachProcess(command string, opts AttachOptions) S {
	key := "attach-daemon"
	value := command
	if opts.PIDFile != "" {
		key = "smart-attach-daemon"
		value = m.Base().ReplacePlaceholders(opts.PIDFile) + " " + command
	}
	if opts.Legion != "" {
		key = "legion-" + key
		value = opts.Legion + " " + value
	}
	m.Set(key, value, core.Multi())
	return m.Section()
}

// CronTask schedules a command. Nil time fields match any value; negative
// values mean "every N", e.g. Minute: -10 is every ten minutes.
type CronTask struct {
	Weekday interface{}
	Month   interface{}
	Day     interface{}
	Hour    interface{}
	Minute  interface{}
	// Seconds after which the task is killed.
	Harakiri int
	// Run only when the node is the lord of this legion.
	Legion string
	// Do not start the task while a previous run is alive.
	Unique bool
}

func (c CronTask) String() string {
	return core.NewKeyValue().
		Add("weekday", c.Weekday).
		Add("month", c.Month).
		Add("day", c.Day).
		Add("hour", c.Hour).
		Add("minute", c.Minute).
		Add("harakiri", core.NonZero(c.Harakiri)).
		Add("legion", core.NonZero(c.Legion)).
		AddBool("unique", c.Unique).
		Alias("weekday", "week").
		String()
}

// AddCronTask runs command on the task schedule.
func (m *MasterProcess[S]) AddCronTask(command string, task CronTask) S {
	value := command
	if schedule := task.String(); schedule != "" {
		value = schedule + " " + command
	}
	m.Set("cron2", value, core.Multi())
	return m.Section()
}
