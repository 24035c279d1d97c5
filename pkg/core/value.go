package core

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Render returns the string form of a stored value as it appears on the
// right-hand side of a directive.
func Render(v interface{}) string {
	v = normalize(v)
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		return strings.Join(t, " ")
	}
	if isList(v) {
		return strings.Join(Listify(v), " ")
	}
	return fmt.Sprint(v)
}

// normalize turns typed nil pointers, slices and maps into an untyped nil,
// dereferences pointers to scalars and maps empty slices to nil.
func normalize(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		switch rv.Elem().Kind() {
		case reflect.Bool, reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return rv.Elem().Interface()
		}
	case reflect.Slice, reflect.Map:
		if rv.IsNil() || rv.Len() == 0 {
			return nil
		}
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}

func isList(v interface{}) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8
}

// flatten expands slices (other than []byte) into their elements. Any other
// value is returned as a single-item list.
func flatten(v interface{}) []interface{} {
	v = normalize(v)
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return []interface{}{v}
	}
	items := make([]interface{}, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if item := normalize(rv.Index(i).Interface()); item != nil {
			items = append(items, item)
		}
	}
	return items
}

// truthy mirrors the "is this set" notion used by boolean directives.
func truthy(v interface{}) bool {
	v = normalize(v)
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}
	return true
}

// NonZero returns nil for the zero value of T and v otherwise. Option
// groups use it for parameters whose zero value means "not given".
func NonZero[T comparable](v T) interface{} {
	var zero T
	if v == zero {
		return nil
	}
	return v
}

// Bool returns a pointer to v, for parameters where false differs from
// "not given".
func Bool(v bool) *bool {
	return &v
}

// Int returns a pointer to v, for parameters where zero differs from
// "not given".
func Int(v int) *int {
	return &v
}

// Listify expands v into its rendered items: slices yield one string per
// element, nil yields nothing.
func Listify(v interface{}) []string {
	items := flatten(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, Render(item))
	}
	return out
}
