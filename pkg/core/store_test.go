package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStorePriority(t *testing.T) {
	tests := []struct {
		description string
		run         func(s *Store)
		want        []string
	}{
		{
			description: "insert in the middle",
			run: func(s *Store) {
				s.Put("a", 1, -1)
				s.Put("b", 2, -1)
				s.Put("c", 3, -1)
				s.Put("d", 4, 1)
			},
			want: []string{"a", "d", "b", "c"},
		},
		{
			description: "move existing key to front",
			run: func(s *Store) {
				s.Put("a", 1, -1)
				s.Append("plugin", []interface{}{"python3"}, -1)
				s.Append("plugins-dir", []interface{}{"/a"}, 0)
			},
			want: []string{"plugins-dir", "a", "plugin"},
		},
		{
			description: "priority past the end appends",
			run: func(s *Store) {
				s.Put("a", 1, -1)
				s.Put("b", 2, 10)
			},
			want: []string{"a", "b"},
		},
		{
			description: "rewrite keeps position",
			run: func(s *Store) {
				s.Put("a", 1, -1)
				s.Put("b", 2, -1)
				s.Put("a", 3, -1)
			},
			want: []string{"a", "b"},
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			s := NewStore()
			test.run(s)
			if diff := cmp.Diff(test.want, s.Keys()); diff != "" {
				t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreAppendConcatenates(t *testing.T) {
	s := NewStore()
	s.Append("env", []interface{}{"A=1"}, -1)
	s.Put("master", "true", -1)
	s.Append("env", []interface{}{"B=2", "C=3"}, 0)

	if diff := cmp.Diff([]string{"env", "master"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]interface{}{"A=1", "B=2", "C=3"}, s.Values("env")); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	if !s.IsMulti("env") || s.IsMulti("master") {
		t.Error("unexpected multi flags")
	}
}

func TestStoreCloneIsIndependent(t *testing.T) {
	s := NewStore()
	s.Append("print", []interface{}{"one"}, -1)

	c := s.Clone()
	c.Append("print", []interface{}{"two"}, -1)
	c.Put("x", 1, -1)

	if got := len(s.Values("print")); got != 1 {
		t.Errorf("original print values = %d, want 1", got)
	}
	if s.Has("x") {
		t.Error("clone write leaked into original")
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore()
	s.Put("a", 1, -1)
	if !s.Delete("a") {
		t.Error("Delete() = false for present key")
	}
	if s.Delete("a") {
		t.Error("Delete() = true for absent key")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d", s.Len())
	}
}
