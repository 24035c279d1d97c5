// Package networking configures listening sockets, socket tuning and SNI.
//
// Sockets are built with the typed constructors or parsed from DSNs with
// FromDSN, then registered with RegisterSocket. A socket whose address is
// a shared socket is written after that shared socket and refers to it by
// index ("=0").
package networking

import (
	"strconv"
	"strings"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Networking is the networking option group.
type Networking[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Networking[S] {
	return &Networking[S]{Group: core.NewGroup(base, owner, "networking", "")}
}

// BasicParams are general networking settings.
type BasicParams struct {
	// Listen queue size.
	QueueSize int
	// Allow binding to addresses not yet configured on the host.
	FreeBind bool
	// Protocol of sockets registered with the "socket" directive.
	DefaultSocketType string
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets general networking settings.
func (n *Networking[S]) SetBasicParams(p BasicParams) S {
	n.Set("listen", core.NonZero(p.QueueSize))
	n.Set("freebind", core.NonZero(p.FreeBind), core.AsBool())
	n.Set("socket-protocol", core.NonZero(p.DefaultSocketType))
	return n.Section()
}

// SocketParams tune every socket.
type SocketParams struct {
	SendTimeout   int
	KeepAlive     bool
	NoDeferAccept bool
	BufferSend    int
	BufferReceive int
}

// SetSocketParams tunes every socket.
func (n *Networking[S]) SetSocketParams(p SocketParams) S {
	n.Set("socket-send-timeout", core.NonZero(p.SendTimeout))
	n.Set("so-keepalive", core.NonZero(p.KeepAlive), core.AsBool())
	n.Set("no-defer-accept", core.NonZero(p.NoDeferAccept), core.AsBool())
	n.Set("socket-sndbuf", core.NonZero(p.BufferSend))
	n.Set("socket-rcvbuf", core.NonZero(p.BufferReceive))
	return n.Section()
}

// UnixSocketParams tune UNIX sockets.
type UnixSocketParams struct {
	// Bind to the abstract namespace.
	Abstract bool
	// Mode bits, e.g. "660".
	Permissions string
	// "user[:group]".
	Owner string
	Umask string
}

// SetUnixSocketParams tunes UNIX sockets.
func (n *Networking[S]) SetUnixSocketParams(p UnixSocketParams) S {
	n.Set("abstract-socket", core.NonZero(p.Abstract), core.AsBool())
	n.Set("chmod-socket", core.NonZero(p.Permissions))
	n.Set("chown-socket", core.NonZero(p.Owner))
	n.Set("umask", core.NonZero(p.Umask))
	return n.Section()
}

// RegisterSocket registers sockets in order. Shared sockets they depend on
// are registered first, once.
func (n *Networking[S]) RegisterSocket(sockets ...*Socket) S {
	for _, s := range sockets {
		if s != nil {
			n.register(s)
		}
	}
	return n.Section()
}

func (n *Networking[S]) register(s *Socket) {
	if s.IsShared() {
		n.sharedIndex(s)
		return
	}

	var address string
	switch a := s.Address.(type) {
	case *Socket:
		address = "=" + strconv.Itoa(n.sharedIndex(a))
	case string:
		address = n.Base().ReplacePlaceholders(a)
	default:
		address = core.Render(a)
	}

	n.Set(s.Key, s.resolved(address), core.Multi())

	if len(s.BoundWorkers) > 0 || n.Base().Store().Has("map-socket") {
		n.mapSockets()
	}
}

// sharedIndex returns the position of shared among the registered shared
// sockets, registering it when missing.
func (n *Networking[S]) sharedIndex(shared *Socket) int {
	address, _ := shared.Address.(string)
	resolved := shared.resolved(n.Base().ReplacePlaceholders(address))
	rendered := resolved.String()

	registered := n.Base().Store().Values("shared-socket")
	for i, v := range registered {
		if core.Render(v) == rendered {
			return i
		}
	}
	n.Set("shared-socket", resolved, core.Multi())
	return len(registered)
}

var socketKeys = []string{
	"socket", "uwsgi-socket", "suwsgi-socket", "http-socket", "https-socket",
	"fastcgi-socket", "scgi-socket", "raw-socket", "udp", "zeromq",
}

// mapSockets rewrites map-socket from scratch. Sockets are indexed in the
// order they appear in the output, which groups them by directive, so a
// socket registered later may shift the index of one registered earlier.
func (n *Networking[S]) mapSockets() {
	store := n.Base().Store()
	store.Delete("map-socket")

	index := 0
	for _, key := range store.Keys() {
		if !contains(socketKeys, key) {
			continue
		}
		for _, v := range store.Values(key) {
			if s, ok := v.(*Socket); ok && len(s.BoundWorkers) > 0 {
				workers := make([]string, 0, len(s.BoundWorkers))
				for _, w := range s.BoundWorkers {
					workers = append(workers, strconv.Itoa(w))
				}
				n.Set("map-socket", strconv.Itoa(index)+":"+strings.Join(workers, ","), core.Multi())
			}
			index++
		}
	}
}

// SNIOptions tune an SNI context.
type SNIOptions struct {
	Ciphers  string
	ClientCA string
	// Name is a regular expression.
	Regexp bool
}

// SetSNIParams adds an SNI context serving cert and key for name.
func (n *Networking[S]) SetSNIParams(name, cert, key string, opts SNIOptions) S {
	directive := "sni"
	if opts.Regexp {
		directive = "sni-regexp"
	}
	args := core.Listify(tlsArgs(cert, key, TLSOptions{Ciphers: opts.Ciphers, ClientCA: opts.ClientCA}))
	n.Set(directive, name+" "+strings.Join(args, ","), core.Multi())
	return n.Section()
}

// SetSNIDirParams looks up SNI certificates as <dir>/<name>.crt and
// <dir>/<name>.key.
func (n *Networking[S]) SetSNIDirParams(dir, ciphers string) S {
	n.Set("sni-dir", n.Base().ReplacePlaceholders(dir))
	n.Set("sni-dir-ciphers", core.NonZero(ciphers))
	return n.Section()
}
