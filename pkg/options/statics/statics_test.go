package statics

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

func TestStatics(t *testing.T) {
	tests := []struct {
		description string
		run         func(s *Statics[*core.Base])
		want        []string
	}{
		{
			description: "basic params",
			run: func(s *Statics[*core.Base]) {
				s.SetBasicParams(BasicParams{StaticDirs: []string{"/srv/www"}, IndexFiles: []string{"index.html"}, OffloadThreads: 2})
			},
			want: []string{"check-static = /srv/www", "static-index = index.html", "offload-threads = 2"},
		},
		{
			description: "static maps",
			run: func(s *Statics[*core.Base]) {
				s.RegisterStaticMap("/static", "/srv/static", false, false)
				s.RegisterStaticMap("/media", "/srv/media", true, true)
			},
			want: []string{
				"static-map = /static=/srv/static",
				"static-map2 = /media=/srv/media",
				"static-safe = /srv/media",
			},
		},
		{
			description: "expiration rules",
			run: func(s *Statics[*core.Base]) {
				s.AddExpirationRule(ExpireByFilename, `.*\.css`, 3600, false)
				s.AddExpirationRule(ExpireByMIME, "image/png", 86400, true)
			},
			want: []string{
				`static-expires = .*\.css 3600`,
				"static-expires-type-mtime = image/png 86400",
			},
		},
		{
			description: "path cache",
			run: func(s *Statics[*core.Base]) {
				s.SetPathsCachingParams(60, "paths")
			},
			want: []string{"static-cache-paths = 60", "static-cache-paths-name = paths"},
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			b := core.NewBase("uwsgi")
			test.run(New(b, b))
			if diff := cmp.Diff(test.want, lines(b)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
