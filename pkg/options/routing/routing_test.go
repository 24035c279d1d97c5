package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

func lines(b *core.Base) []string {
	var out []string
	b.Store().Each(func(key string, values []interface{}, multi bool) {
		for _, v := range values {
			out = append(out, key+" = "+core.Render(v))
		}
	})
	return out
}

func TestRegisterRoute(t *testing.T) {
	tests := []struct {
		description string
		rules       []*Rule
		want        []string
	}{
		{
			description: "regexp subject",
			rules:       []*Rule{NewRule(Log("hit"), PathInfo("^/admin"), StageRequest)},
			want:        []string{"route = ^/admin log:hit"},
		},
		{
			description: "negated condition with plugin",
			rules: []*Rule{
				NewRule(Redirect("https://${HTTP_HOST}${REQUEST_URI}", true), Equal("${HTTPS}", "on").Negate(), StageRequest),
			},
			want: []string{
				"plugin = router_redirect",
				"route-if-not = equal:${HTTPS};on redirect-301:https://${HTTP_HOST}${REQUEST_URI}",
			},
		},
		{
			description: "stages and labels share the directive order",
			rules: []*Rule{
				NewRule(AddHeader("X-Frame-Options: DENY"), Always(), StageResponse),
				NewRule(Goto("fallback"), Host("^old\\."), StageRequest),
				NewRule(Break(403), RemoteAddr("^10\\."), StageRequest),
			},
			want: []string{
				"response-route-run = addheader:X-Frame-Options: DENY",
				"route-host = ^old\\. goto:fallback",
				"route-remote-addr = ^10\\. break:403",
			},
		},
		{
			description: "basic auth",
			rules:       []*Rule{NewRule(BasicAuth("admin", "joe", "secret"), RequestURI("^/private"), StageRequest)},
			want: []string{
				"plugin = router_basicauth",
				"route-uri = ^/private basicauth:admin,joe:secret",
			},
		},
		{
			description: "nil rules are skipped",
			rules:       []*Rule{nil, NewRule(Continue(), Always(), StageFinal)},
			want:        []string{"final-route-run = continue"},
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			b := core.NewBase("uwsgi")
			New(b, b).RegisterRoute(test.rules...)
			if diff := cmp.Diff(test.want, lines(b)); diff != "" {
				t.Errorf("RegisterRoute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetErrorPages(t *testing.T) {
	tests := []struct {
		description string
		pages       map[int]string
		dir         string
		want        []string
		wantError   bool
	}{
		{
			description: "defaults",
			dir:         "/srv/errors",
			want: []string{
				"error-page-403 = /srv/errors/403.html",
				"error-page-404 = /srv/errors/404.html",
				"error-page-500 = /srv/errors/500.html",
			},
		},
		{
			description: "explicit pages",
			pages:       map[int]string{500: "/srv/oops.html", 404: "/srv/missing.html"},
			want: []string{
				"error-page-404 = /srv/missing.html",
				"error-page-500 = /srv/oops.html",
			},
		},
		{
			description: "unsupported status writes nothing",
			pages:       map[int]string{404: "404.html", 502: "502.html"},
			wantError:   true,
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			b := core.NewBase("uwsgi")
			_, err := New(b, b).SetErrorPages(test.pages, test.dir)
			if test.wantError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if b.Store().Len() != 0 {
					t.Errorf("store = %v, want empty", lines(b))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(test.want, lines(b)); diff != "" {
				t.Errorf("SetErrorPages() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddLabel(t *testing.T) {
	b := core.NewBase("uwsgi")
	r := New(b, b)
	r.AddLabel("fallback")
	r.RegisterRoute(NewRule(Static("/srv/index.html"), Always(), StageRequest))

	want := []string{
		"route-label = fallback",
		"plugin = router_static",
		"route-run = static:/srv/index.html",
	}
	if diff := cmp.Diff(want, lines(b)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
