// Package logging configures the server log subsystem: targets, loggers,
// encoders and filters.
package logging

import (
	"strings"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Request log format variables.
const (
	VarURI           = "%(uri)"
	VarMethod        = "%(method)"
	VarStatus        = "%(status)"
	VarRemoteAddr    = "%(addr)"
	VarHost          = "%(host)"
	VarUserAgent     = "%(uagent)"
	VarReferer       = "%(referer)"
	VarSize          = "%(size)"
	VarMicroseconds  = "%(micros)"
	VarUnixTime      = "%(time)"
	VarLocalTime     = "%(ltime)"
	VarWorkerID      = "%(wid)"
	VarProtocol      = "%(proto)"
	VarRequestsCount = "%(rsize)"
)

// Logger is a log target rendered as "[name ]<type>:<args>".
type Logger struct {
	*core.Param
}

func newLogger(kind string, args ...interface{}) *Logger {
	p := core.NewParam(kind, args...)
	p.ArgsJoiner = ","
	return &Logger{Param: p}
}

// Named gives the logger a name so encoders and routes can refer to it.
func (l *Logger) Named(name string) *Logger {
	l.Alias = name
	return l
}

// File logs into a file.
func File(path string) *Logger {
	return newLogger("file", path)
}

// Socket logs into a UNIX or UDP socket.
func Socket(address string) *Logger {
	return newLogger("socket", address)
}

// Syslog logs into the local syslog.
func Syslog(appName, facility string) *Logger {
	return newLogger("syslog", core.NonZero(appName), core.NonZero(facility))
}

// RSyslog logs into a remote syslog.
func RSyslog(address, appName, facility string) *Logger {
	l := newLogger("rsyslog", address, core.NonZero(appName), core.NonZero(facility))
	l.PluginName = "rsyslog"
	return l
}

// Stdio logs into stdout/stderr.
func Stdio() *Logger {
	return newLogger("stdio")
}

// Encoder transforms log lines before they reach loggers.
type Encoder struct {
	*core.Param
}

func newEncoder(kind string, args ...interface{}) *Encoder {
	p := core.NewParam(kind, args...)
	p.NameSeparator = " "
	return &Encoder{Param: p}
}

// For restricts the encoder to the named logger.
func (e *Encoder) For(logger string) *Encoder {
	if logger != "" {
		e.Name += ":" + logger
	}
	return e
}

// Prefix prepends value to every line.
func Prefix(value string) *Encoder {
	return newEncoder("prefix", value)
}

// Suffix appends value to every line.
func Suffix(value string) *Encoder {
	return newEncoder("suffix", value)
}

// Newline appends a newline to every line.
func Newline() *Encoder {
	return newEncoder("nl")
}

// Gzip compresses every line.
func Gzip() *Encoder {
	return newEncoder("gzip")
}

// Format formats every line with template. Use "${msg}" for the line.
func Format(template string) *Encoder {
	return newEncoder("format", template)
}

// JSON formats every line as json with template.
func JSON(template string) *Encoder {
	return newEncoder("json", template)
}

// Logging is the log option group.
type Logging[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Logging[S] {
	return &Logging[S]{Group: core.NewGroup(base, owner, "logging", "")}
}

// BasicParams are the general log settings.
type BasicParams struct {
	// Disable request logging.
	NoRequests bool
	// Request log line template.
	Template string
	// Add memory usage to request logs.
	MemoryReport bool
	// Log the X-Forwarded-For address instead of the peer address.
	XForwardedFor bool
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the general log settings.
func (l *Logging[S]) SetBasicParams(p BasicParams) S {
	l.Set("disable-logging", core.NonZero(p.NoRequests), core.AsBool())
	l.Set("log-format", core.NonZero(p.Template))
	l.Set("memory-report", core.NonZero(p.MemoryReport), core.AsBool())
	l.Set("log-x-forwarded-for", core.NonZero(p.XForwardedFor), core.AsBool())
	return l.Section()
}

// LogInto logs into target, a file path or a UDP address. Unless
// beforePrivDrop is set the target is opened after privileges are dropped.
func (l *Logging[S]) LogInto(target string, beforePrivDrop bool) S {
	key := "logto2"
	if beforePrivDrop {
		key = "logto"
	}
	l.Set(key, l.Base().ReplacePlaceholders(target))
	return l.Section()
}

// MasterLoggingParams tune logging delegated to the master process.
type MasterLoggingParams struct {
	Enable *bool
	// Offload log writes to a dedicated thread.
	DedicateThread *bool
	// Buffer size of the master logger.
	Buffer int
	// Treat master logs as a stream instead of lines.
	Stream bool
}

// SetMasterLoggingParams tunes logging delegated to the master process.
func (l *Logging[S]) SetMasterLoggingParams(p MasterLoggingParams) S {
	l.Set("log-master", p.Enable, core.AsBool())
	l.Set("threaded-logger", p.DedicateThread, core.AsBool())
	l.Set("log-master-bufsize", core.NonZero(p.Buffer))
	l.Set("log-master-stream", core.NonZero(p.Stream), core.AsBool())
	return l.Section()
}

// AddLogger adds loggers for server messages. Loggers requiring a plugin
// activate it first.
func (l *Logging[S]) AddLogger(loggers ...*Logger) S {
	l.Set("logger", loggers, core.Multi())
	return l.Section()
}

// AddRequestLogger adds loggers for request lines.
func (l *Logging[S]) AddRequestLogger(loggers ...*Logger) S {
	l.Set("req-logger", loggers, core.Multi())
	return l.Section()
}

// AddLoggerEncoder adds encoders for server messages, or for request
// lines when requestsOnly is set.
func (l *Logging[S]) AddLoggerEncoder(requestsOnly bool, encoders ...*Encoder) S {
	key := "log-encoder"
	if requestsOnly {
		key = "log-req-encoder"
	}
	l.Set(key, encoders, core.Multi())
	return l.Section()
}

// FilterParams select which lines reach the loggers.
type FilterParams struct {
	// Only lines matching one of these expressions are logged.
	Include []string
	// Lines matching one of these expressions are dropped.
	Exclude []string
	// Log write errors (broken client connections). Nil keeps the default.
	WriteErrors *bool
	// Log SIGPIPE errors. Nil keeps the default.
	SigPipe *bool
}

// SetFilters selects which lines reach the loggers.
func (l *Logging[S]) SetFilters(p FilterParams) S {
	l.Set("log-filter", p.Include, core.Multi())
	l.Set("log-drain", p.Exclude, core.Multi())
	if p.WriteErrors != nil && !*p.WriteErrors {
		l.Set("ignore-write-errors", true, core.AsBool())
		l.Set("disable-write-exception", true, core.AsBool())
	}
	if p.SigPipe != nil && !*p.SigPipe {
		l.Set("ignore-sigpipe", true, core.AsBool())
	}
	return l.Section()
}

// JSONTemplate builds a request log template rendering fields as a json
// object, in the given order.
func JSONTemplate(fields [][2]string) string {
	chunks := make([]string, 0, len(fields))
	for _, field := range fields {
		chunks = append(chunks, `"`+field[0]+`": "`+field[1]+`"`)
	}
	return "{" + strings.Join(chunks, ", ") + "}"
}
