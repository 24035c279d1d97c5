package config

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// walk calls fn for every directive value of s in emission order. Multi
// keys yield one call per value.
func walk(s *Section, fn func(key, value string)) {
	s.Store().Each(func(key string, values []interface{}, _ bool) {
		for _, v := range values {
			fn(key, strings.TrimSpace(core.Render(v)))
		}
	})
}

func formatINI(sections []*Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[" + s.Name() + "]\n")
		walk(s, func(key, value string) {
			b.WriteString(key + " = " + value + "\n")
		})
	}
	return b.String()
}

func formatYAML(sections []*Section) (string, error) {
	doc := yaml.MapSlice{}
	for _, s := range sections {
		directives := yaml.MapSlice{}
		walk(s, func(key, value string) {
			directives = append(directives, yaml.MapItem{Key: key, Value: value})
		})
		doc = append(doc, yaml.MapItem{Key: s.Name(), Value: directives})
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "cannot format yaml")
	}
	return string(out), nil
}

// formatArgs renders only the default section: the command line cannot
// select sections.
func formatArgs(sections []*Section) []string {
	var args []string
	for _, s := range sections {
		if s.Name() != DefaultSectionName {
			continue
		}
		walk(s, func(key, value string) {
			switch {
			case value == "true":
				args = append(args, "--"+key)
			case core.IsVar(value):
			default:
				args = append(args, "--"+key, value)
			}
		})
	}
	return args
}
