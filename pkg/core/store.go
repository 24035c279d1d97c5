package core

// entry is one directive slot of a Store. Multi entries keep every appended
// value; scalar entries hold exactly one.
type entry struct {
	key    string
	multi  bool
	values []interface{}
}

// Store is an insertion-ordered mapping from directive key to a scalar value
// or an ordered list of values.
type Store struct {
	entries []*entry
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) find(key string) int {
	for i, e := range s.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

// Put writes a scalar value. An existing key keeps its position and its
// value is replaced. A priority >= 0 moves the key to that position.
func (s *Store) Put(key string, value interface{}, priority int) {
	e := &entry{key: key, values: []interface{}{value}}
	s.place(e, priority, false)
}

// Append adds values to the list held under key, creating it when absent.
// A priority >= 0 moves the key to that position; previously stored values
// come first.
func (s *Store) Append(key string, values []interface{}, priority int) {
	e := &entry{key: key, multi: true, values: append([]interface{}(nil), values...)}
	s.place(e, priority, true)
}

func (s *Store) place(e *entry, priority int, concat bool) {
	idx := s.find(e.key)
	if idx >= 0 {
		existing := s.entries[idx]
		if concat {
			e.values = append(append([]interface{}(nil), existing.values...), e.values...)
		}
		if priority < 0 {
			s.entries[idx] = e
			return
		}
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	}
	if priority < 0 || priority >= len(s.entries) {
		s.entries = append(s.entries, e)
		return
	}
	s.entries = append(s.entries, nil)
	copy(s.entries[priority+1:], s.entries[priority:])
	s.entries[priority] = e
}

// Delete removes key. It reports whether the key was present.
func (s *Store) Delete(key string) bool {
	idx := s.find(key)
	if idx < 0 {
		return false
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	return true
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	return s.find(key) >= 0
}

// Get returns the scalar value under key, or the last appended value for
// multi keys.
func (s *Store) Get(key string) (interface{}, bool) {
	idx := s.find(key)
	if idx < 0 || len(s.entries[idx].values) == 0 {
		return nil, false
	}
	values := s.entries[idx].values
	return values[len(values)-1], true
}

// Values returns a copy of every value stored under key.
func (s *Store) Values(key string) []interface{} {
	idx := s.find(key)
	if idx < 0 {
		return nil
	}
	return append([]interface{}(nil), s.entries[idx].values...)
}

// IsMulti reports whether key holds a list.
func (s *Store) IsMulti(key string) bool {
	idx := s.find(key)
	return idx >= 0 && s.entries[idx].multi
}

// Keys returns the keys in store order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		keys = append(keys, e.key)
	}
	return keys
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.entries)
}

// Each calls fn for every key in store order. Scalar keys yield a single
// value.
func (s *Store) Each(fn func(key string, values []interface{}, multi bool)) {
	for _, e := range s.entries {
		fn(e.key, append([]interface{}(nil), e.values...), e.multi)
	}
}

// Clone returns a copy of the store. Values themselves are shared.
func (s *Store) Clone() *Store {
	c := &Store{entries: make([]*entry, 0, len(s.entries))}
	for _, e := range s.entries {
		c.entries = append(c.entries, &entry{
			key:    e.key,
			multi:  e.multi,
			values: append([]interface{}(nil), e.values...),
		})
	}
	return c
}
