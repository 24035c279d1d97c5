// Package alarms configures the server alarm subsystem: named alarms and
// the events that raise them.
package alarms

import (
	"strconv"
	"strings"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Alarm is a named alarm definition, rendered as "<alias> <type>:<args>".
type Alarm struct {
	*core.Param
}

func newAlarm(alias, kind string, args ...interface{}) *Alarm {
	p := core.NewParam(kind, args...)
	p.Alias = alias
	return &Alarm{Param: p}
}

// Command runs a shell command when raised. The alarm message is passed
// on stdin.
func Command(alias, command string) *Alarm {
	return newAlarm(alias, "cmd", command)
}

// Signal raises a server signal.
func Signal(alias string, num int) *Alarm {
	return newAlarm(alias, "signal", num)
}

// Log writes the alarm message to the server log.
func Log(alias, message string) *Alarm {
	return newAlarm(alias, "log", message)
}

// Mule sends the alarm message to a mule.
func Mule(alias string, mule int) *Alarm {
	return newAlarm(alias, "mule", mule)
}

// CurlOptions tunes the curl alarm.
type CurlOptions struct {
	Method   string
	Subject  string
	To       []string
	From     string
	Timeout  int
	SSL      bool
	Username string
	Password string
}

// Curl sends the alarm message to url with libcurl.
func Curl(alias, url string, opts CurlOptions) *Alarm {
	kv := core.NewKeyValue()
	kv.Separator = ";"
	kv.Add("method", core.NonZero(opts.Method)).
		Add("subject", core.NonZero(opts.Subject)).
		Add("to", core.NonZero(strings.Join(opts.To, ","))).
		Add("mail_from", core.NonZero(opts.From)).
		Add("timeout", core.NonZero(opts.Timeout)).
		AddBool("ssl", opts.SSL).
		Add("auth_user", core.NonZero(opts.Username)).
		Add("auth_pass", core.NonZero(opts.Password))

	args := []interface{}{url}
	if !kv.Empty() {
		args = append(args, kv)
	}
	a := newAlarm(alias, "curl", args...)
	a.ArgsJoiner = ";"
	a.PluginName = "alarm_curl"
	return a
}

// XMPP sends the alarm message to jabber recipients.
func XMPP(alias, jid, password string, recipients ...string) *Alarm {
	a := newAlarm(alias, "xmpp", jid, password, strings.Join(recipients, ","))
	a.ArgsJoiner = ";"
	a.PluginName = "alarm_xmpp"
	return a
}

// Alarms is the alarm option group.
type Alarms[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Alarms[S] {
	return &Alarms[S]{Group: core.NewGroup(base, owner, "alarms", "")}
}

// BasicParams are the alarm subsystem settings.
type BasicParams struct {
	// Use the main alarm thread rather than a dedicated one.
	Cheap bool
	// Seconds during which an alarm is not raised again.
	AntiLoopTimeout int
	MessageSize     int
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the alarm subsystem settings.
func (a *Alarms[S]) SetBasicParams(p BasicParams) S {
	a.Set("alarm-cheap", core.NonZero(p.Cheap), core.AsBool())
	a.Set("alarm-freq", core.NonZero(p.AntiLoopTimeout))
	a.Set("alarm-msg-size", core.NonZero(p.MessageSize))
	return a.Section()
}

// RegisterAlarm defines alarms. Alarms already defined are skipped.
func (a *Alarms[S]) RegisterAlarm(alarms ...*Alarm) S {
	for _, alarm := range alarms {
		if alarm == nil || a.registered(alarm) {
			continue
		}
		a.Set("alarm", alarm, core.Multi())
	}
	return a.Section()
}

func (a *Alarms[S]) registered(alarm *Alarm) bool {
	rendered := alarm.String()
	for _, v := range a.Base().Store().Values("alarm") {
		if core.Render(v) == rendered {
			return true
		}
	}
	return false
}

func aliases(alarms []*Alarm) string {
	names := make([]string, 0, len(alarms))
	for _, alarm := range alarms {
		names = append(names, alarm.Alias)
	}
	return strings.Join(names, ",")
}

// AlarmOnLog raises alarms when a log line matches the regular expression
// matcher. With skip set, matching lines never raise them.
func (a *Alarms[S]) AlarmOnLog(matcher string, skip bool, alarms ...*Alarm) S {
	a.RegisterAlarm(alarms...)
	key := "alarm-log"
	if skip {
		key = "not-alarm-log"
	}
	a.Set(key, aliases(alarms)+" "+matcher, core.Multi())
	return a.Section()
}

// AlarmOnQueueOverflow raises alarms when the listen queue is full.
func (a *Alarms[S]) AlarmOnQueueOverflow(alarms ...*Alarm) S {
	a.RegisterAlarm(alarms...)
	a.Set("alarm-backlog", aliases(alarms), core.Multi())
	return a.Section()
}

// AlarmOnSegfault raises alarms when a worker segfaults.
func (a *Alarms[S]) AlarmOnSegfault(alarms ...*Alarm) S {
	a.RegisterAlarm(alarms...)
	a.Set("alarm-segfault", aliases(alarms), core.Multi())
	return a.Section()
}

// AlarmOnFDReady raises alarm with message once fd becomes readable.
// A positive byteCount sets how much is read from fd.
func (a *Alarms[S]) AlarmOnFDReady(alarm *Alarm, fd, message string, byteCount int) S {
	a.RegisterAlarm(alarm)
	if byteCount > 0 {
		fd += ":" + strconv.Itoa(byteCount)
	}
	a.Set("alarm-fd", alarm.Alias+" "+fd+" "+message, core.Multi())
	return a.Section()
}
