// Package fifo controls a running server through its master FIFO.
//
// Every command is a single byte written to the FIFO the master process
// reads from. See masterprocess.BasicParams.FIFOFile.
package fifo

import (
	"os"

	"github.com/pkg/errors"
)

// Command is a master FIFO command.
type Command byte

// Master FIFO commands.
const (
	ReopenLog      Command = 'l'
	RotateLog      Command = 'L'
	DumpStats      Command = 's'
	Stop           Command = 'q'
	StopForced     Command = 'Q'
	Reload         Command = 'r'
	ReloadForced   Command = 'R'
	ReloadChained  Command = 'c'
	ToggleVerbose  Command = 'v'
	SubscriptionOn Command = 'S'
)

// Controller writes commands to the master FIFO at Path.
type Controller struct {
	Path string
}

// New returns a controller for the FIFO at path.
func New(path string) *Controller {
	return &Controller{Path: path}
}

// Send writes commands in a single write.
func (c *Controller) Send(commands ...Command) error {
	buf := make([]byte, len(commands))
	for i, cmd := range commands {
		buf[i] = byte(cmd)
	}

	f, err := os.OpenFile(c.Path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return errors.Wrapf(err, "cannot open master FIFO %s", c.Path)
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return errors.Wrapf(err, "cannot write to master FIFO %s", c.Path)
	}
	return f.Close()
}

// ReopenLog reopens the log file, e.g. after an external rotation.
func (c *Controller) ReopenLog() error { return c.Send(ReopenLog) }

// RotateLog rotates the log file.
func (c *Controller) RotateLog() error { return c.Send(RotateLog) }

// DumpStats dumps the server stats to the log.
func (c *Controller) DumpStats() error { return c.Send(DumpStats) }

// Stop shuts the server down, forcing it when force is set.
func (c *Controller) Stop(force bool) error {
	if force {
		return c.Send(StopForced)
	}
	return c.Send(Stop)
}

// Reload reloads the server, forcing it when force is set.
func (c *Controller) Reload(force bool) error {
	if force {
		return c.Send(ReloadForced)
	}
	return c.Send(Reload)
}

// ReloadChained reloads workers one after another.
func (c *Controller) ReloadChained() error { return c.Send(ReloadChained) }
