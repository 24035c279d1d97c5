package routing

import (
	"strings"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Stage selects when a rule is evaluated.
type Stage string

// Stages.
const (
	StageRequest  Stage = ""
	StageError    Stage = "error"
	StageResponse Stage = "response"
	StageFinal    Stage = "final"
)

// Subject selects what a rule matches against.
type Subject struct {
	// Directive suffix, e.g. "route-uri" or "route-if".
	Key   string
	Value string
}

func subject(key, value string) Subject {
	return Subject{Key: key, Value: value}
}

// PathInfo matches PATH_INFO against a regular expression.
func PathInfo(regexp string) Subject { return subject("route", regexp) }

// RequestURI matches REQUEST_URI against a regular expression.
func RequestURI(regexp string) Subject { return subject("route-uri", regexp) }

// QueryString matches QUERY_STRING against a regular expression.
func QueryString(regexp string) Subject { return subject("route-qs", regexp) }

// RemoteAddr matches REMOTE_ADDR against a regular expression.
func RemoteAddr(regexp string) Subject { return subject("route-remote-addr", regexp) }

// UserAgent matches HTTP_USER_AGENT against a regular expression.
func UserAgent(regexp string) Subject { return subject("route-user-agent", regexp) }

// Referer matches HTTP_REFERER against a regular expression.
func Referer(regexp string) Subject { return subject("route-referer", regexp) }

// Host matches HTTP_HOST against a regular expression.
func Host(regexp string) Subject { return subject("route-host", regexp) }

// Always matches every request.
func Always() Subject { return subject("route-run", "") }

func condition(name string, args ...string) Subject {
	return subject("route-if", name+":"+strings.Join(args, ";"))
}

// Exists matches when path exists.
func Exists(path string) Subject { return condition("exists", path) }

// IsFile matches when path is a regular file.
func IsFile(path string) Subject { return condition("isfile", path) }

// IsDir matches when path is a directory.
func IsDir(path string) Subject { return condition("isdir", path) }

// Equal matches when both values are equal.
func Equal(a, b string) Subject { return condition("equal", a, b) }

// StartsWith matches when value starts with prefix.
func StartsWith(value, prefix string) Subject { return condition("startswith", value, prefix) }

// EndsWith matches when value ends with suffix.
func EndsWith(value, suffix string) Subject { return condition("endswith", value, suffix) }

// Contains matches when value contains part.
func Contains(value, part string) Subject { return condition("contains", value, part) }

// Regexp matches value against a regular expression.
func Regexp(value, regexp string) Subject { return condition("regexp", value, regexp) }

// Empty matches when value is empty.
func Empty(value string) Subject { return condition("empty", value) }

// Negate inverts a condition subject.
func (s Subject) Negate() Subject {
	if s.Key == "route-if" {
		s.Key = "route-if-not"
	}
	return s
}

// Action is what a matching rule does.
type Action struct {
	*core.Param
}

func newAction(name, plugin string, args ...interface{}) *Action {
	p := core.NewParam(name, args...)
	p.PluginName = plugin
	return &Action{Param: p}
}

// Redirect redirects to url with 302, or 301 when permanent.
func Redirect(url string, permanent bool) *Action {
	name := "redirect-302"
	if permanent {
		name = "redirect-301"
	}
	return newAction(name, "router_redirect", url)
}

// Rewrite rewrites PATH_INFO and QUERY_STRING to path. Unless
// doNotStop is set, routing restarts with the new values.
func Rewrite(path string, doNotStop bool) *Action {
	name := "rewrite-last"
	if doNotStop {
		name = "rewrite"
	}
	return newAction(name, "router_rewrite", path)
}

// Static serves a static file.
func Static(path string) *Action {
	return newAction("static", "router_static", path)
}

// Continue stops routing and passes the request to the application.
func Continue() *Action {
	return newAction("continue", "")
}

// Break stops routing and closes the request, optionally with status.
func Break(status int) *Action {
	return newAction("break", "", core.NonZero(status))
}

// Log writes message to the request log.
func Log(message string) *Action {
	return newAction("log", "", message)
}

// Goto jumps to a label.
func Goto(label string) *Action {
	return newAction("goto", "", label)
}

// AddHeader adds a response header, e.g. "X-Frame-Options: DENY".
func AddHeader(header string) *Action {
	return newAction("addheader", "", header)
}

// SetVar sets a request variable.
func SetVar(name, value string) *Action {
	return newAction("addvar", "", name+"="+value)
}

// BasicAuth requires HTTP basic authentication.
func BasicAuth(realm, user, password string) *Action {
	a := newAction("basicauth", "router_basicauth", realm, user+":"+password)
	a.ArgsJoiner = ","
	return a
}

// Send writes data to the client.
func Send(data string) *Action {
	return newAction("send", "", data)
}

// Rule pairs a subject with an action, rendered as "<subject> <action>".
type Rule struct {
	*core.Param

	Action  *Action
	Subject Subject
	Stage   Stage
}

// NewRule returns a rule applying action to requests matching subject.
func NewRule(action *Action, subject Subject, stage Stage) *Rule {
	key := subject.Key
	if stage != StageRequest {
		key = string(stage) + "-" + key
	}
	p := core.NewParam("", action)
	p.Key = key
	return &Rule{Param: p, Action: action, Subject: subject, Stage: stage}
}

func (r *Rule) String() string {
	return strings.TrimSpace(r.Subject.Value + " " + r.Action.String())
}
