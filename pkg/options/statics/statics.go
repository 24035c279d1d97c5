// Package statics configures static file serving.
package statics

import (
	"strconv"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Expiration criteria for AddExpirationRule.
const (
	ExpireByFilename = ""
	ExpireByMIME     = "type"
	ExpireByURI      = "uri"
	ExpireByPathInfo = "path-info"
)

// Statics is the static files option group.
type Statics[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Statics[S] {
	return &Statics[S]{Group: core.NewGroup(base, owner, "statics", "")}
}

// BasicParams are the static serving settings.
type BasicParams struct {
	// Directories checked for a file matching PATH_INFO.
	StaticDirs []string
	// Index files served for directories, e.g. "index.html".
	IndexFiles []string
	MIMEFile   string
	// Extensions never served statically.
	SkipExtensions []string
	// Offload transfers to this many threads.
	OffloadThreads int
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the static serving settings.
func (s *Statics[S]) SetBasicParams(p BasicParams) S {
	s.Set("check-static", s.Base().ReplacePlaceholdersList(p.StaticDirs), core.Multi())
	s.Set("static-index", p.IndexFiles, core.Multi())
	s.Set("mimefile", core.NonZero(p.MIMEFile))
	s.Set("static-skip-ext", p.SkipExtensions, core.Multi())
	s.Set("offload-threads", core.NonZero(p.OffloadThreads))
	return s.Section()
}

// RegisterStaticMap serves files under target for requests starting with
// mountpoint. With retainPath the mountpoint is kept when mapping to the
// file system. With safeTarget symlinks out of target are allowed.
func (s *Statics[S]) RegisterStaticMap(mountpoint, target string, retainPath, safeTarget bool) S {
	target = s.Base().ReplacePlaceholders(target)
	key := "static-map"
	if retainPath {
		key = "static-map2"
	}
	s.Set(key, mountpoint+"="+target, core.Multi())
	s.Set("static-safe", target, core.Multi(), core.When(safeTarget))
	return s.Section()
}

// AddExpirationRule sets the Expires header for static files matching
// pattern. The criterion selects what pattern is matched against. With
// useModTime the timeout counts from the file modification time.
func (s *Statics[S]) AddExpirationRule(criterion, pattern string, timeout int, useModTime bool) S {
	key := "static-expires"
	if criterion != ExpireByFilename {
		key += "-" + criterion
	}
	if useModTime {
		key += "-mtime"
	}
	s.Set(key, pattern+" "+strconv.Itoa(timeout), core.Multi())
	return s.Section()
}

// SetPathsCachingParams caches resolved static paths for timeout seconds,
// optionally in a named cache.
func (s *Statics[S]) SetPathsCachingParams(timeout int, cacheName string) S {
	s.Set("static-cache-paths", core.NonZero(timeout))
	s.Set("static-cache-paths-name", core.NonZero(cacheName))
	return s.Section()
}
