// Package routing configures the internal request router: rules, labels
// and error pages.
package routing

import (
	"path"
	"sort"
	"strconv"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Routing is the routing option group.
type Routing[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Routing[S] {
	return &Routing[S]{Group: core.NewGroup(base, owner, "routing", "")}
}

// RegisterRoute adds rules in order. Plugins required by rule actions are
// activated first.
func (r *Routing[S]) RegisterRoute(rules ...*Rule) S {
	for _, rule := range rules {
		if rule != nil {
			r.Set(rule.Key, rule, core.Multi())
		}
	}
	return r.Section()
}

// AddLabel adds a goto target.
func (r *Routing[S]) AddLabel(name string) S {
	r.Set("route-label", name, core.Multi())
	return r.Section()
}

var errorPageStatuses = []int{403, 404, 500}

// SetErrorPage serves the html file at path for the given status code.
// Only 403, 404 and 500 are supported.
func (r *Routing[S]) SetErrorPage(status int, path string) (S, error) {
	if err := checkStatus(status); err != nil {
		return r.Section(), err
	}
	r.Set("error-page-"+strconv.Itoa(status), r.Base().ReplacePlaceholders(path), core.Multi())
	return r.Section(), nil
}

// SetErrorPages sets error pages for several status codes. With no pages
// given, <dir>/403.html, <dir>/404.html and <dir>/500.html are used.
func (r *Routing[S]) SetErrorPages(pages map[int]string, dir string) (S, error) {
	if len(pages) == 0 {
		pages = map[int]string{}
		for _, code := range errorPageStatuses {
			pages[code] = strconv.Itoa(code) + ".html"
		}
	}

	codes := make([]int, 0, len(pages))
	for code := range pages {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		if err := checkStatus(code); err != nil {
			return r.Section(), err
		}
	}

	for _, code := range codes {
		page := pages[code]
		if dir != "" {
			page = path.Join(dir, page)
		}
		r.SetErrorPage(code, page)
	}
	return r.Section(), nil
}

func checkStatus(status int) error {
	for _, code := range errorPageStatuses {
		if code == status {
			return nil
		}
	}
	return core.Errorf("error page for status %d is not supported", status)
}
