package core

import "strings"

// Parametrized is implemented by value objects whose string form follows
// one of the server's argument grammars. Types embed *Param to satisfy it.
type Parametrized interface {
	Parameters() *Param
}

// Param renders as "<alias> <name><sep><arg1><joiner><arg2>...".
//
// A Param may require a plugin, may force the directive it is written
// under (Key) and may carry companion options that are merged into the
// enclosing section before the value itself.
type Param struct {
	Name           string
	Alias          string
	NameSeparator  string
	ArgsJoiner     string
	StripSeparator bool
	Args           []interface{}

	// PluginName is activated on the section the value is written to.
	PluginName string
	// Key replaces the directive key the value is written under.
	Key string

	companions *Base
}

// NewParam returns a Param with the default ":" separator and " " joiner.
func NewParam(name string, args ...interface{}) *Param {
	return &Param{
		Name:          name,
		NameSeparator: ":",
		ArgsJoiner:    " ",
		Args:          args,
	}
}

// Parameters returns p itself.
func (p *Param) Parameters() *Param {
	return p
}

// Opts returns the companion options of the value, creating them on first
// use. They are contributed to the enclosing section on write.
func (p *Param) Opts() *Base {
	if p.companions == nil {
		p.companions = NewBase("")
	}
	return p.companions
}

// SetOpt writes a companion option.
func (p *Param) SetOpt(key string, value interface{}, opts ...SetOption) {
	p.Opts().Set(key, value, opts...)
}

func (p *Param) String() string {
	sep := p.NameSeparator
	if sep == "" {
		sep = ":"
	}
	joiner := p.ArgsJoiner
	if joiner == "" {
		joiner = " "
	}

	var args []string
	for _, arg := range p.Args {
		if arg = normalize(arg); arg != nil {
			args = append(args, Render(arg))
		}
	}

	var b strings.Builder
	if p.Alias != "" {
		b.WriteString(p.Alias)
		b.WriteString(" ")
	}
	b.WriteString(p.Name)
	if len(args) > 0 {
		b.WriteString(sep)
		b.WriteString(strings.Join(args, joiner))
	}

	result := b.String()
	if p.StripSeparator {
		result = strings.Trim(result, sep)
	}
	return result
}
