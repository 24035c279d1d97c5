package networking

import (
	"strconv"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Socket is a listening socket. Its Address is either a string or a
// shared socket, which is registered first and referred to by index.
type Socket struct {
	*core.Param

	Address interface{}
	// Workers this socket is mapped to.
	BoundWorkers []int

	// Non-nil for sockets rendered in the "addr=...,k=v" form.
	options *core.KeyValue
}

func newSocket(key string, address interface{}, args ...interface{}) *Socket {
	p := core.NewParam("", args...)
	p.Key = key
	p.NameSeparator = ","
	p.ArgsJoiner = ","
	return &Socket{Param: p, Address: address}
}

// Type returns the directive the socket is registered under.
func (s *Socket) Type() string {
	return s.Key
}

// IsShared reports whether s is a shared socket.
func (s *Socket) IsShared() bool {
	return s.Key == "shared-socket"
}

// BindWorkers maps the socket to the given workers only.
func (s *Socket) BindWorkers(workers ...int) *Socket {
	s.BoundWorkers = workers
	return s
}

func (s *Socket) String() string {
	address := s.Name
	if address == "" {
		if a, ok := s.Address.(string); ok {
			address = a
		}
	}
	if s.options != nil {
		kv := core.NewKeyValue().Add("addr", address)
		for _, key := range s.options.Keys {
			kv.Add(key, s.options.Items[key])
		}
		kv.BoolKeys = s.options.BoolKeys
		return kv.String()
	}
	p := *s.Param
	p.Name = address
	return p.String()
}

// resolved returns a copy of s carrying its final address.
func (s *Socket) resolved(address string) *Socket {
	p := *s.Param
	p.Name = address
	return &Socket{Param: &p, Address: address, BoundWorkers: s.BoundWorkers, options: s.options}
}

// TLSOptions tune the TLS-capable sockets.
type TLSOptions struct {
	Ciphers  string
	ClientCA string
	// Serve SPDY alongside HTTPS. Requires the http router.
	SPDY bool
}

func tlsArgs(cert, key string, opts TLSOptions) []interface{} {
	args := []interface{}{cert, key}
	if opts.Ciphers != "" || opts.ClientCA != "" {
		args = append(args, opts.Ciphers)
	}
	if opts.ClientCA != "" {
		args = append(args, opts.ClientCA)
	}
	return args
}

// Default is a socket speaking the server's default protocol.
func Default(address interface{}) *Socket {
	return newSocket("socket", address)
}

// UWSGI is a uwsgi protocol socket.
func UWSGI(address interface{}) *Socket {
	return newSocket("uwsgi-socket", address)
}

// SUWSGI is a uwsgi protocol socket over TLS.
func SUWSGI(address interface{}, cert, key string, opts TLSOptions) *Socket {
	return newSocket("suwsgi-socket", address, tlsArgs(cert, key, opts)...)
}

// HTTP is a native HTTP socket.
func HTTP(address interface{}) *Socket {
	return newSocket("http-socket", address)
}

// HTTPS is a native HTTPS socket. With SPDY the socket is served by the
// http router instead.
func HTTPS(address interface{}, cert, key string, opts TLSOptions) *Socket {
	if !opts.SPDY {
		return newSocket("https-socket", address, tlsArgs(cert, key, opts)...)
	}
	s := newSocket("https2", address)
	s.PluginName = "http"
	s.options = core.NewKeyValue().
		Add("cert", cert).
		Add("key", key).
		Add("ciphers", core.NonZero(opts.Ciphers)).
		Add("clientca", core.NonZero(opts.ClientCA)).
		AddBool("spdy", true)
	return s
}

// FastCGI is a FastCGI socket.
func FastCGI(address interface{}) *Socket {
	return newSocket("fastcgi-socket", address)
}

// SCGI is an SCGI socket.
func SCGI(address interface{}) *Socket {
	return newSocket("scgi-socket", address)
}

// Raw is a raw socket: requests are passed to the application as is.
func Raw(address interface{}) *Socket {
	return newSocket("raw-socket", address)
}

// UDP is a UDP socket, mostly used for SNMP and log receiving.
func UDP(address interface{}) *Socket {
	return newSocket("udp", address)
}

// ZeroMQ is a zeromq pub/sub pair socket.
func ZeroMQ(address interface{}) *Socket {
	return newSocket("zeromq", address)
}

// Shared is a socket bound before privileges are dropped, so privileged
// ports can be used by other sockets through it.
func Shared(address string) *Socket {
	return newSocket("shared-socket", address)
}

func parseWorkers(value string) ([]int, error) {
	var workers []int
	for _, chunk := range splitList(value) {
		n, err := strconv.Atoi(chunk)
		if err != nil {
			return nil, core.Errorf("invalid worker number %q in bound_workers", chunk)
		}
		workers = append(workers, n)
	}
	return workers, nil
}
