package memory

import (
	"iter"
	"slices"

	"go.hackfix.me/confmap/store"
)

// Store is an in-memory Store backed by a Go map. Entries are enumerated in
// insertion order, and replacing a value keeps the entry in place.
type Store struct {
	data     map[string]string
	order    []string
	rel      *store.Releaser
	visiting int
}

var _ store.Store = &Store{}

// New returns a new empty in-memory store.
func New(opts ...store.Option) *Store {
	return &Store{
		data: map[string]string{},
		rel:  store.NewReleaser(store.NewOptions(opts...)),
	}
}

func (s *Store) Insert(key, value string) error {
	s.checkMutable()
	if _, ok := s.data[key]; ok {
		return &store.DuplicateKeyError{Entry: store.Entry{Key: key, Value: value}}
	}
	s.data[key] = value
	s.order = append(s.order, key)

	return nil
}

func (s *Store) Replace(key, value string) error {
	s.checkMutable()
	old, ok := s.data[key]
	if !ok {
		return s.Insert(key, value)
	}
	s.data[key] = value
	s.rel.Value(old)

	return nil
}

func (s *Store) Remove(key string) (bool, error) {
	s.checkMutable()
	val, ok := s.data[key]
	if !ok {
		return false, nil
	}
	delete(s.data, key)
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.rel.Entry(key, val)

	return true, nil
}

func (s *Store) Lookup(key string) (string, bool, error) {
	val, ok := s.data[key]
	return val, ok, nil
}

func (s *Store) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range s.All() {
			if !yield(k) {
				return
			}
		}
	}
}

func (s *Store) Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range s.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// All returns a sequence over all entries. The store must not be modified
// while the sequence is being consumed; doing so panics.
func (s *Store) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		s.visiting++
		defer func() { s.visiting-- }()
		for _, k := range s.order {
			if !yield(k, s.data[k]) {
				return
			}
		}
	}
}

func (s *Store) ForEach(fn func(key, value string)) {
	for k, v := range s.All() {
		fn(k, v)
	}
}

func (s *Store) Len() int {
	return len(s.data)
}

// Close releases all entries. The store is empty afterwards.
func (s *Store) Close() error {
	s.checkMutable()
	for _, k := range s.order {
		s.rel.Entry(k, s.data[k])
	}
	clear(s.data)
	s.order = nil

	return nil
}

// Released returns the number of keys and values released by the store.
func (s *Store) Released() int {
	return s.rel.Released()
}

func (s *Store) checkMutable() {
	if s.visiting > 0 {
		panic("memory: store modified during traversal")
	}
}
