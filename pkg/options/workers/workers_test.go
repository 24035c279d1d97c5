package workers

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

func TestWorkers(t *testing.T) {
	enabled := true

	tests := []struct {
		description string
		run         func(w *Workers[*core.Base])
		want        []string
	}{
		{
			description: "auto count",
			run:         func(w *Workers[*core.Base]) { w.SetCountAuto(0) },
			want:        []string{"workers = %k"},
		},
		{
			description: "explicit count wins over auto",
			run: func(w *Workers[*core.Base]) {
				w.SetCountAuto(0)
				w.SetCountAuto(4)
			},
			want: []string{"workers = 4"},
		},
		{
			description: "zero values are skipped",
			run: func(w *Workers[*core.Base]) {
				w.SetBasicParams(BasicParams{})
				w.SetReloadParams(ReloadParams{})
			},
		},
		{
			description: "threads",
			run: func(w *Workers[*core.Base]) {
				w.SetThreadParams(ThreadParams{Enable: &enabled, Count: 8, NoWait: true})
			},
			want: []string{"enable-threads = true", "threads = 8", "no-threads-wait = true"},
		},
		{
			description: "mules",
			run: func(w *Workers[*core.Base]) {
				w.SetMulesParams(MulesParams{Count: 2, Scripts: []string{"a.py", "b.py"}})
			},
			want: []string{"mules = 2", "mule = a.py", "mule = b.py"},
		},
		{
			description: "reload and harakiri",
			run: func(w *Workers[*core.Base]) {
				w.SetReloadParams(ReloadParams{MaxRequests: 1000, MaxRSS: 512, OnException: true})
				w.SetHarakiriParams(HarakiriParams{Timeout: 30, Verbose: true})
			},
			want: []string{
				"max-requests = 1000",
				"reload-on-rss = 512",
				"reload-on-exception = true",
				"harakiri = 30",
				"harakiri-verbose = true",
			},
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
