package dispatch

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/redhatinsights/uwsgiconf/internal/envs"
	"github.com/redhatinsights/uwsgiconf/pkg/config"
	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

func setup(t *testing.T, argv ...string) *bytes.Buffer {
	t.Helper()
	t.Setenv(envs.Ready, "")
	t.Setenv(envs.ConfAlias, "")

	var out bytes.Buffer
	origStdout, origArgs := stdout, args
	stdout, args = &out, append([]string{"program"}, argv...)

	mu.Lock()
	origRegistered := registered
	registered = nil
	mu.Unlock()

	t.Cleanup(func() {
		stdout, args = origStdout, origArgs
		mu.Lock()
		registered = origRegistered
		mu.Unlock()
	})
	return &out
}

func configurations(t *testing.T) func() ([]config.Exportable, error) {
	return func() ([]config.Exportable, error) {
		foo, err := config.New([]*config.Section{config.NewSection().Workers().SetCountAuto(2)}, config.WithAlias("foo"))
		if err != nil {
			t.Fatal(err)
		}
		return []config.Exportable{foo, config.NewSection(config.WithName("bar"))}, nil
	}
}

func TestConfigureUwsgiAliasFromEnv(t *testing.T) {
	out := setup(t)
	t.Setenv(envs.ConfAlias, "foo")

	configs, err := ConfigureUwsgi(configurations(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("got %d configurations, want 2", len(configs))
	}

	got := out.String()
	if !strings.Contains(got, "workers = 2\nset-placeholder = config-alias=foo\n") {
		t.Errorf("printed configuration = %q", got)
	}
	if !envs.IsReady() {
		t.Error("ready flag is not set")
	}
	if len(Registered()) != 0 {
		t.Error("emitted configurations must not be registered")
	}
}

func TestConfigureUwsgiAliasFromArgs(t *testing.T) {
	out := setup(t, "--conf", "default")

	configs, err := ConfigureUwsgi(configurations(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"foo", "default"}, aliases(configs)); diff != "" {
		t.Errorf("aliases mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Contains(out.Bytes(), []byte("[bar]\n")) {
		t.Errorf("printed configuration = %q", out.String())
	}
}

func TestConfigureUwsgiUnknownAlias(t *testing.T) {
	out := setup(t)
	t.Setenv(envs.ConfAlias, "missing")

	configs, err := ConfigureUwsgi(configurations(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("printed %q, want nothing", out.String())
	}
	if len(configs) != 2 {
		t.Errorf("got %d configurations, want 2", len(configs))
	}
	if envs.IsReady() {
		t.Error("ready flag is set")
	}
}

func TestConfigureUwsgiDiscovery(t *testing.T) {
	out := setup(t)

	configs, err := ConfigureUwsgi(configurations(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("printed %q, want nothing", out.String())
	}
	if diff := cmp.Diff(aliases(configs), aliases(Registered())); diff != "" {
		t.Errorf("registered mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigureUwsgiListAliases(t *testing.T) {
	out := setup(t, AliasesFlag)

	if _, err := ConfigureUwsgi(configurations(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("foo\ndefault\n", out.String()); diff != "" {
		t.Errorf("printed mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigureUwsgiReentry(t *testing.T) {
	out := setup(t)
	t.Setenv(envs.Ready, "1")

	called := false
	configs, err := ConfigureUwsgi(func() ([]config.Exportable, error) {
		called = true
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if configs != nil || called || out.Len() != 0 {
		t.Errorf("reentry configured again: configs=%v called=%v out=%q", configs, called, out.String())
	}
	if envs.IsReady() {
		t.Error("ready flag is not cleared")
	}
}

func TestConfigureUwsgiErrors(t *testing.T) {
	tests := []struct {
		description string
		fn          func() ([]config.Exportable, error)
	}{
		{
			description: "duplicate alias",
			fn: func() ([]config.Exportable, error) {
				return []config.Exportable{config.NewSection(), config.NewSection(config.WithName("other"))}, nil
			},
		},
		{
			description: "nil element",
			fn: func() ([]config.Exportable, error) {
				return []config.Exportable{nil}, nil
			},
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			setup(t)
			_, err := ConfigureUwsgi(test.fn)
			var cerr *core.ConfigurationError
			if !errors.As(err, &cerr) {
				t.Errorf("got %v, want a configuration error", err)
			}
		})
	}
}

func TestConfigureUwsgiCallbackError(t *testing.T) {
	setup(t)
	want := errors.New("boom")
	_, err := ConfigureUwsgi(func() ([]config.Exportable, error) {
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Errorf("got %v, want %v", err, want)
	}
}

func aliases(configs []*config.Configuration) []string {
	var out []string
	for _, c := range configs {
		out = append(out, c.Alias())
	}
	return out
}
