package core

import "strings"

// KeyValue lazily serializes its items as "k1=v1,k2=v2".
//
// Items are emitted in Keys order. Nil items are skipped, BoolKeys emit
// "1" when truthy and nothing otherwise, ListKeys are joined with ";".
type KeyValue struct {
	Items     map[string]interface{}
	Keys      []string
	Aliases   map[string]string
	BoolKeys  []string
	ListKeys  []string
	Separator string
}

// NewKeyValue returns an empty KeyValue with the "," separator.
func NewKeyValue() *KeyValue {
	return &KeyValue{
		Items:     map[string]interface{}{},
		Aliases:   map[string]string{},
		Separator: ",",
	}
}

// Add appends an item.
func (kv *KeyValue) Add(key string, value interface{}) *KeyValue {
	if _, ok := kv.Items[key]; !ok {
		kv.Keys = append(kv.Keys, key)
	}
	kv.Items[key] = value
	return kv
}

// AddBool appends a boolean item.
func (kv *KeyValue) AddBool(key string, value bool) *KeyValue {
	kv.BoolKeys = append(kv.BoolKeys, key)
	return kv.Add(key, value)
}

// AddList appends a list item.
func (kv *KeyValue) AddList(key string, value interface{}) *KeyValue {
	kv.ListKeys = append(kv.ListKeys, key)
	return kv.Add(key, value)
}

// Alias makes key emit as name.
func (kv *KeyValue) Alias(key, name string) *KeyValue {
	if kv.Aliases == nil {
		kv.Aliases = map[string]string{}
	}
	kv.Aliases[key] = name
	return kv
}

// Empty reports whether no item would be emitted.
func (kv *KeyValue) Empty() bool {
	return kv.String() == ""
}

func (kv *KeyValue) String() string {
	sep := kv.Separator
	if sep == "" {
		sep = ","
	}

	var chunks []string
	for _, key := range kv.Keys {
		val := normalize(kv.Items[key])
		if val == nil {
			continue
		}

		rendered := ""
		switch {
		case contains(kv.BoolKeys, key):
			if !truthy(val) {
				continue
			}
			rendered = "1"
		case contains(kv.ListKeys, key):
			rendered = strings.Join(Listify(val), ";")
		default:
			rendered = Render(val)
		}

		name := key
		if alias, ok := kv.Aliases[key]; ok {
			name = alias
		}
		chunks = append(chunks, name+"="+rendered)
	}
	return strings.TrimSpace(strings.Join(chunks, sep))
}

func contains(items []string, item string) bool {
	for _, i := range items {
		if i == item {
			return true
		}
	}
	return false
}
