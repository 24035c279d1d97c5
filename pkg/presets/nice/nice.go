// Package nice provides sections pre-populated with sane defaults and
// helpers for common deployment recipes.
package nice

import (
	"os"
	"path"
	"strings"

	"github.com/redhatinsights/uwsgiconf/internal/envs"
	"github.com/redhatinsights/uwsgiconf/pkg/config"
	"github.com/redhatinsights/uwsgiconf/pkg/core"
	"github.com/redhatinsights/uwsgiconf/pkg/options/locks"
	"github.com/redhatinsights/uwsgiconf/pkg/options/logging"
	"github.com/redhatinsights/uwsgiconf/pkg/options/mainprocess"
	"github.com/redhatinsights/uwsgiconf/pkg/options/masterprocess"
	"github.com/redhatinsights/uwsgiconf/pkg/options/networking"
	"github.com/redhatinsights/uwsgiconf/pkg/options/routing"
	"github.com/redhatinsights/uwsgiconf/pkg/options/workers"
)

// Options are the knobs of a nice section. Zero values keep the defaults.
type Options struct {
	Name string
	// Reload when any of these files is touched.
	TouchReload []string
	// Worker count. Zero runs one worker per CPU core.
	Workers int
	// Threads per worker. Zero disables threads.
	Threads int
	Mules   int
	// "user[:group]" the server runs as.
	Owner string
	// Log file or UDP address.
	LogInto string
	// Write logs from a dedicated thread.
	LogDedicated bool
	// Prefix of process titles.
	ProcessPrefix string
	// Report write errors and SIGPIPE instead of silencing them.
	KeepWriteErrors bool
}

// Section is a section with sane defaults: strict mode, UTF-8 locale,
// master process shutting down on SIGTERM, thunder lock and automatic
// process naming.
type Section struct {
	*config.Section
}

// NewSection returns a nice section. Section options apply before the
// defaults.
func NewSection(opts Options, sectionOpts ...config.SectionOption) *Section {
	if opts.Name != "" {
		sectionOpts = append([]config.SectionOption{config.WithName(opts.Name)}, sectionOpts...)
	}
	sectionOpts = append(sectionOpts, config.WithStrict())
	s := &Section{Section: config.NewSection(sectionOpts...)}

	s.Env("LANG", config.EnvParams{Value: strptr("en_US.UTF-8")})
	s.MainProcess().SetBasicParams(mainprocess.BasicParams{TouchReload: opts.TouchReload})
	s.Workers().SetCountAuto(opts.Workers)
	if opts.Threads > 0 {
		s.Workers().SetThreadParams(workers.ThreadParams{Enable: core.Bool(true), Count: opts.Threads})
	}
	s.Workers().SetMulesParams(workers.MulesParams{Count: opts.Mules})
	s.MainProcess().SetNamingParams(mainprocess.NamingParams{Autonaming: true, Prefix: opts.ProcessPrefix})
	s.MasterProcess().
		SetBasicParams(masterprocess.BasicParams{Enable: core.Bool(true)}).
		MasterProcess().SetExitEvents(masterprocess.ExitEvents{SigTerm: true})
	s.Locks().SetBasicParams(locks.BasicParams{ThunderLock: true})
	s.ConfigureOwner(opts.Owner)

	if opts.LogInto != "" {
		s.Logging().LogInto(opts.LogInto, false)
	}
	if opts.LogDedicated {
		s.Logging().SetMasterLoggingParams(logging.MasterLoggingParams{DedicateThread: core.Bool(true)})
	}
	if !opts.KeepWriteErrors {
		s.Logging().SetFilters(logging.FilterParams{WriteErrors: core.Bool(false), SigPipe: core.Bool(false)})
	}
	return s
}

func strptr(s string) *string {
	return &s
}

// ConfigureOwner runs the server as owner, "user[:group]". The group
// defaults to the user name.
func (s *Section) ConfigureOwner(owner string) *Section {
	if owner == "" {
		return s
	}
	user, group, found := strings.Cut(owner, ":")
	if !found || group == "" {
		group = user
	}
	s.MainProcess().SetOwnerParams(mainprocess.OwnerParams{UID: user, GID: group})
	return s
}

// ConfigureHTTPSRedirect redirects plain http requests to https.
func (s *Section) ConfigureHTTPSRedirect() *Section {
	s.Routing().RegisterRoute(routing.NewRule(
		routing.Redirect("https://${HTTP_HOST}${REQUEST_URI}", true),
		routing.Equal("${HTTPS}", "on").Negate(),
		routing.StageRequest,
	))
	return s
}

// CertbotOptions tune ConfigureCertbotHTTPS.
type CertbotOptions struct {
	// HTTPS address. Defaults to ":443".
	Address string
	// HTTP address, needed for the certbot challenge. Defaults to ":80".
	HTTPAddress string
	// Bind privileged ports through shared sockets.
	AllowShared bool
	// Redirect plain http requests to https.
	RedirectHTTP bool
	// Directory certificates are looked up in. Defaults to
	// /etc/letsencrypt/live.
	CertsDir string
}

// ConfigureCertbotHTTPS serves https with certificates issued by certbot
// for domain, and serves the certbot challenge files from webroot. While
// no certificate is issued yet only http is served.
func (s *Section) ConfigureCertbotHTTPS(domain, webroot string, opts CertbotOptions) (*Section, error) {
	if opts.Address == "" {
		opts.Address = ":443"
	}
	if opts.HTTPAddress == "" {
		opts.HTTPAddress = ":80"
	}
	if opts.CertsDir == "" {
		opts.CertsDir = "/etc/letsencrypt/live"
	}

	httpSocket, err := networking.FromDSN("http://"+opts.HTTPAddress, opts.AllowShared)
	if err != nil {
		return s, err
	}
	s.Networking().RegisterSocket(httpSocket)

	cert := path.Join(opts.CertsDir, domain, "fullchain.pem")
	key := path.Join(opts.CertsDir, domain, "privkey.pem")
	if _, err := os.Stat(cert); err == nil {
		httpsSocket, err := networking.FromDSN("https://"+opts.Address+"?cert="+cert+"&key="+key, opts.AllowShared)
		if err != nil {
			return s, err
		}
		s.Networking().RegisterSocket(httpsSocket)
		if opts.RedirectHTTP {
			s.ConfigureHTTPSRedirect()
		}
	} else {
		s.PrintOut("Certificate "+cert+" is not available yet, serving http only", config.PrintOptions{Style: "yellow"})
	}

	s.Statics().RegisterStaticMap("/.well-known/", webroot, true, false)
	return s, nil
}

// Maintenance responses for ConfigureMaintenanceMode besides a static
// file path or an URL.
const MaintenanceApp = "app"

// ConfigureMaintenanceMode answers every request with response while the
// trigger file exists. Response is a static file path, an http(s) URL to
// redirect to, or MaintenanceApp to let the application decide through the
// maintenance environment variables.
func (s *Section) ConfigureMaintenanceMode(trigger, response string) *Section {
	trigger = s.ReplacePlaceholders(trigger)

	if response == MaintenanceApp {
		s.Env(envs.Maintenance, config.EnvParams{Value: strptr(trigger)})
		s.Env(envs.MaintenanceInplace, config.EnvParams{Value: strptr("1")})
		s.MainProcess().SetBasicParams(mainprocess.BasicParams{TouchReload: []string{trigger}})
		return s
	}

	var action *routing.Action
	if strings.HasPrefix(response, "http://") || strings.HasPrefix(response, "https://") {
		action = routing.Redirect(response, false)
	} else {
		action = routing.Static(s.ReplacePlaceholders(response))
	}
	s.Routing().RegisterRoute(routing.NewRule(action, routing.Exists(trigger), routing.StageRequest))
	return s
}

// ConfigureLoggingJSON writes request and server logs as json lines.
func (s *Section) ConfigureLoggingJSON() *Section {
	template := logging.JSONTemplate([][2]string{
		{"time", logging.VarUnixTime},
		{"addr", logging.VarRemoteAddr},
		{"method", logging.VarMethod},
		{"uri", logging.VarURI},
		{"status", logging.VarStatus},
		{"size", logging.VarSize},
		{"micros", logging.VarMicroseconds},
		{"worker", logging.VarWorkerID},
		{"agent", logging.VarUserAgent},
	})
	s.Logging().
		SetBasicParams(logging.BasicParams{Template: template}).
		Logging().AddLoggerEncoder(false, logging.JSON(`{"time": "${unix}", "msg": "${msg}"}`), logging.Newline())
	return s
}
