package core

import "fmt"

// Templated renders a printf-style template with exactly one placeholder,
// e.g. "${uwsgi[%s]}" with "wid".
type Templated struct {
	Template string
	Arg      interface{}
}

// NewTemplated returns a Templated value.
func NewTemplated(template string, arg interface{}) *Templated {
	return &Templated{Template: template, Arg: arg}
}

func (t *Templated) String() string {
	return fmt.Sprintf(t.Template, Render(t.Arg))
}
