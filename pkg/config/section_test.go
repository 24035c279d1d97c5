package config

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mgutz/ansi"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
	"github.com/redhatinsights/uwsgiconf/pkg/options/mainprocess"
)

func strPtr(s string) *string { return &s }

func TestSection(t *testing.T) {
	tests := []struct {
		description string
		build       func() *Section
		want        string
	}{
		{
			description: "insertion order with priority",
			build: func() *Section {
				s := NewSection()
				s.Set("a", 1)
				s.Set("b", 2)
				s.Set("c", 3)
				s.Set("d", 4, core.Priority(1))
				return s
			},
			want: "[uwsgi]\na = 1\nd = 4\nb = 2\nc = 3\n",
		},
		{
			description: "include section and file",
			build: func() *Section {
				other := NewSection(WithName("other"))
				return NewSection(WithRuntimeDir("/run/x")).
					Include(other).
					IncludeFiles("{runtime_dir}/extra.ini")
			},
			want: "[uwsgi]\nini = :other\nini = /run/x/extra.ini\n",
		},
		{
			description: "env",
			build: func() *Section {
				os.Setenv("UWSGICONF_TEST_INHERITED", "yes")
				defer os.Unsetenv("UWSGICONF_TEST_INHERITED")
				return NewSection().
					Env("LANG", EnvParams{Value: strPtr("en_US.UTF-8")}).
					Env("UWSGICONF_TEST_INHERITED", EnvParams{}).
					Env("EARLY", EnvParams{Value: strPtr("1"), ASAP: true}).
					Env("GONE", EnvParams{Unset: true})
			},
			want: "[uwsgi]\nenv = LANG=en_US.UTF-8\nenv = UWSGICONF_TEST_INHERITED=yes\nienv = EARLY=1\nunenv = GONE\n",
		},
		{
			description: "placeholder",
			build: func() *Section {
				return NewSection().SetPlaceholder("config-alias", "main")
			},
			want: "[uwsgi]\nset-placeholder = config-alias=main\n",
		},
		{
			description: "strict once",
			build: func() *Section {
				return NewSection(WithStrict(), WithStrict())
			},
			want: "[uwsgi]\nstrict = true\n",
		},
		{
			description: "embedded plugins",
			build: func() *Section {
				return NewSection(WithEmbeddedPlugins("python")).
					SetPluginsParams(PluginsParams{Plugins: []string{"python", "http"}, Required: true})
			},
			want: "[uwsgi]\nneed-plugin = http\n",
		},
		{
			description: "print asap",
			build: func() *Section {
				return NewSection().PrintOut("hello", PrintOptions{ASAP: true, Style: "red"})
			},
			want: "[uwsgi]\niprint = hello\n",
		},
		{
			description: "owner placeholder",
			build: func() *Section {
				return NewSection().
					MainProcess().SetOwnerParams(mainprocess.OwnerParams{UID: 1001}).
					MainProcess().SetPIDFile("{runtime_dir}/app.pid", false, false)
			},
			want: "[uwsgi]\nuid = 1001\npidfile2 = /run/user/1001/app.pid\n",
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			got := ini(t, test.build())
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("INI() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrintOutStyled(t *testing.T) {
	s := NewSection(WithStylePrints()).PrintOut("warn", PrintOptions{Style: "red+b"})
	values := s.Store().Values("print")
	if len(values) != 1 {
		t.Fatalf("print values = %v", values)
	}
	if got, want := values[0], ansi.Color("warn", "red+b"); got != want {
		t.Errorf("print = %q, want %q", got, want)
	}
}

func TestPrintVariables(t *testing.T) {
	s := NewSection().PrintVariables()
	values := s.Store().Values("print")
	if len(values) != len(core.VarDescriptions)+1 {
		t.Fatalf("print values = %d", len(values))
	}
	if got := values[2]; !strings.HasPrefix(got.(string), "  %%k detected CPU cores: %k") {
		t.Errorf("print = %q", got)
	}
}

func TestDeriveFrom(t *testing.T) {
	s := NewSection()
	s.Set("workers", 2)

	d := s.Derive("copy")
	d.Set("threads", 4)
	d.Workers().SetCountAuto(3)

	if got := ini(t, s); got != "[uwsgi]\nworkers = 2\n" {
		t.Errorf("original changed: %q", got)
	}
	if got := ini(t, d); got != "[copy]\nworkers = 3\nthreads = 4\n" {
		t.Errorf("derived = %q", got)
	}
}

func TestSetFallback(t *testing.T) {
	fallback := NewSection(WithName("fallback"))
	s, err := NewSection().SetFallback(fallback)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := s.Store().Get("fallback-config")
	if !ok {
		t.Fatal("fallback-config not set")
	}
	path := v.(string)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "[fallback]\n") {
		t.Errorf("fallback file = %q", data)
	}
}
