package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// DefaultAlias is the alias of configurations created without one.
const DefaultAlias = "default"

// Exportable is implemented by values a configuration program can hand to
// the dispatcher: sections and configurations.
type Exportable interface {
	AsConfiguration(opts ...Option) (*Configuration, error)
}

// Configuration is an ordered list of uniquely named sections emitted as
// one file.
type Configuration struct {
	sections    []*Section
	alias       string
	autoInclude bool
}

// Option configures a new configuration.
type Option func(*Configuration)

// WithAlias sets the alias, also used as the default filename stem.
func WithAlias(alias string) Option {
	return func(c *Configuration) {
		c.alias = alias
	}
}

// WithAutoIncludeSections makes the first section include every other.
func WithAutoIncludeSections() Option {
	return func(c *Configuration) {
		c.autoInclude = true
	}
}

// New returns a configuration of sections. Sections must be non-nil and
// uniquely named.
func New(sections []*Section, opts ...Option) (*Configuration, error) {
	c := &Configuration{alias: DefaultAlias}
	for _, opt := range opts {
		opt(c)
	}

	if len(sections) == 0 {
		return nil, core.Errorf("configuration %q has no sections", c.alias)
	}
	seen := map[string]bool{}
	for i, s := range sections {
		if s == nil {
			return nil, core.Errorf("section %d of configuration %q is nil", i, c.alias)
		}
		if seen[s.Name()] {
			return nil, core.Errorf("section name %q is used more than once in configuration %q", s.Name(), c.alias)
		}
		seen[s.Name()] = true
	}
	c.sections = append([]*Section(nil), sections...)

	if c.autoInclude {
		c.sections[0].Include(c.sections[1:]...)
	}
	return c, nil
}

// AsConfiguration returns c. Options are ignored.
func (c *Configuration) AsConfiguration(...Option) (*Configuration, error) {
	return c, nil
}

// Alias returns the configuration alias.
func (c *Configuration) Alias() string {
	return c.alias
}

// Sections returns the sections in emission order.
func (c *Configuration) Sections() []*Section {
	return append([]*Section(nil), c.sections...)
}

// Section returns the section named name.
func (c *Configuration) Section(name string) (*Section, bool) {
	for _, s := range c.sections {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

type formatOptions struct {
	stamp     bool
	stampTime time.Time
}

// FormatOption tunes formatting.
type FormatOption func(*formatOptions)

// WithoutStamp omits the "made by" banner.
func WithoutStamp() FormatOption {
	return func(o *formatOptions) {
		o.stamp = false
	}
}

// WithStampTime sets the time printed in the banner.
func WithStampTime(t time.Time) FormatOption {
	return func(o *formatOptions) {
		o.stampTime = t
	}
}

// emitted returns the sections to format. The stamp goes to a copy of the
// first section so formatting never changes c.
func (c *Configuration) emitted(opts []FormatOption) []*Section {
	o := formatOptions{stamp: true}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.stamp {
		return c.sections
	}
	if o.stampTime.IsZero() {
		o.stampTime = time.Now()
	}
	sections := append([]*Section(nil), c.sections...)
	sections[0] = sections[0].Derive("")
	sections[0].printStamp(o.stampTime)
	return sections
}

func (s *Section) printStamp(t time.Time) {
	s.PrintOut(fmt.Sprintf("Configuration made by uwsgiconf v%s", core.Version), PrintOptions{Style: "green"})
	s.PrintOut(t.Format(time.RFC3339), PrintOptions{Indent: "  "})
}

// INI formats the configuration as an INI file.
func (c *Configuration) INI(opts ...FormatOption) string {
	return formatINI(c.emitted(opts))
}

// YAML formats the configuration as a YAML document.
func (c *Configuration) YAML(opts ...FormatOption) (string, error) {
	return formatYAML(c.emitted(opts))
}

// Args formats the default section as server command line arguments.
func (c *Configuration) Args(opts ...FormatOption) []string {
	return formatArgs(c.emitted(opts))
}

// Format formats the configuration with the named formatter: "ini",
// "yaml" or "args".
func (c *Configuration) Format(formatter string, opts ...FormatOption) (string, error) {
	switch formatter {
	case "ini", "":
		return c.INI(opts...), nil
	case "yaml":
		return c.YAML(opts...)
	case "args":
		return strings.Join(c.Args(opts...), " "), nil
	}
	return "", core.Errorf("unknown formatter %q", formatter)
}

// PrintINI writes the INI form to w.
func (c *Configuration) PrintINI(w io.Writer, opts ...FormatOption) error {
	_, err := io.WriteString(w, c.INI(opts...))
	return err
}

// ToFile writes the INI form to path and returns its absolute path.
//
// An empty path creates a new file in the temporary directory named after
// the alias. A directory path gets "<alias>.ini" appended.
func (c *Configuration) ToFile(path string, opts ...FormatOption) (string, error) {
	if path == "" {
		path = filepath.Join(os.TempDir(), c.alias+"_"+uuid.New().String()+".ini")
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, c.alias+".ini")
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot resolve %s", path)
	}
	if err := os.WriteFile(path, []byte(c.INI(opts...)), 0644); err != nil {
		return "", errors.Wrapf(err, "cannot write configuration %q", c.alias)
	}
	return path, nil
}
