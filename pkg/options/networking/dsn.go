package networking

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// geteuid is replaced in tests.
var geteuid = unix.Geteuid

type socketFactory struct {
	build   func(address interface{}, kw map[string]string) *Socket
	allowed []string
	require []string
}

var tlsKeywords = []string{"cert", "key", "ciphers", "client_ca"}

func plain(ctor func(interface{}) *Socket) socketFactory {
	return socketFactory{build: func(address interface{}, _ map[string]string) *Socket {
		return ctor(address)
	}}
}

func secure(ctor func(interface{}, string, string, TLSOptions) *Socket, extra ...string) socketFactory {
	return socketFactory{
		build: func(address interface{}, kw map[string]string) *Socket {
			return ctor(address, kw["cert"], kw["key"], TLSOptions{
				Ciphers:  kw["ciphers"],
				ClientCA: kw["client_ca"],
				SPDY:     truthy(kw["use_spdy"]),
			})
		},
		allowed: append(append([]string(nil), tlsKeywords...), extra...),
		require: []string{"cert", "key"},
	}
}

var schemes = map[string]socketFactory{
	"http":    plain(HTTP),
	"https":   secure(HTTPS, "use_spdy"),
	"fastcgi": plain(FastCGI),
	"scgi":    plain(SCGI),
	"raw":     plain(Raw),
	"shared": {build: func(address interface{}, _ map[string]string) *Socket {
		if s, ok := address.(*Socket); ok {
			return s
		}
		return Shared(address.(string))
	}},
	"udp":    plain(UDP),
	"uwsgi":  plain(UWSGI),
	"suwsgi": secure(SUWSGI),
	"zeromq": plain(ZeroMQ),
}

// Schemes returns the DSN schemes FromDSN understands.
func Schemes() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromDSN builds a socket from a DSN such as "http://:8080" or
// "https://:443?cert=/a.crt&key=/a.key".
//
// Query parameters are socket arguments; "bound_workers" takes a comma
// separated list of worker numbers. A port below 1024 is bound through a
// shared socket when allowShared is set or the process is not root.
func FromDSN(dsn string, allowShared bool) (*Socket, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, core.Errorf("invalid socket DSN %q: %v", dsn, err)
	}

	factory, ok := schemes[u.Scheme]
	if !ok {
		return nil, core.Errorf("unsupported socket DSN scheme %q in %q", u.Scheme, dsn)
	}

	kw := map[string]string{}
	for key, values := range u.Query() {
		if len(values) > 0 {
			kw[key] = values[0]
		}
	}

	var workers []int
	if value, ok := kw["bound_workers"]; ok {
		if workers, err = parseWorkers(value); err != nil {
			return nil, err
		}
		delete(kw, "bound_workers")
	}

	for key := range kw {
		if !contains(factory.allowed, key) {
			return nil, core.Errorf("unexpected argument %q for %s socket", key, u.Scheme)
		}
	}
	for _, key := range factory.require {
		if kw[key] == "" {
			return nil, core.Errorf("missing argument %q for %s socket", key, u.Scheme)
		}
	}

	netloc := u.Host
	if netloc == "" {
		netloc = u.Opaque + u.Path
	}

	var address interface{} = netloc
	if u.Scheme != "shared" && privileged(u.Port()) && (allowShared || geteuid() != 0) {
		address = Shared(netloc)
	}

	s := factory.build(address, kw)
	if len(workers) > 0 {
		s.BindWorkers(workers...)
	}
	return s, nil
}

func privileged(port string) bool {
	n, err := strconv.Atoi(port)
	return err == nil && n > 0 && n < 1024
}

func truthy(value string) bool {
	switch strings.ToLower(value) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

func splitList(value string) []string {
	var out []string
	for _, chunk := range strings.Split(value, ",") {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

func contains(items []string, item string) bool {
	for _, i := range items {
		if i == item {
			return true
		}
	}
	return false
}
