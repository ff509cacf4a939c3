package badger

import (
	"errors"
	"iter"

	badger "github.com/dgraph-io/badger/v4"

	"go.hackfix.me/confmap/store"
)

// Store is a Store backed by a Badger database. Entries are enumerated in
// lexicographic key order.
type Store struct {
	db       *badger.DB
	rel      *store.Releaser
	visiting int
}

var _ store.Store = &Store{}

// Open opens the Badger database at path. If path is empty or ":memory:", the
// database is kept in memory only.
func Open(path string, opts ...store.Option) (*Store, error) {
	bopts := badger.DefaultOptions(path)
	if path == "" || path == ":memory:" {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, rel: store.NewReleaser(store.NewOptions(opts...))}, nil
}

func (s *Store) Insert(key, value string) error {
	s.checkMutable()
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return &store.DuplicateKeyError{Entry: store.Entry{Key: key, Value: value}}
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return txn.Set([]byte(key), []byte(value))
	})
}

func (s *Store) Replace(key, value string) error {
	s.checkMutable()
	var (
		old    []byte
		exists bool
	)
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		switch {
		case err == nil:
			exists = true
			if old, err = item.ValueCopy(nil); err != nil {
				return err
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return err
	}
	if exists {
		s.rel.Value(string(old))
	}

	return nil
}

func (s *Store) Remove(key string) (bool, error) {
	s.checkMutable()
	var val []byte
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		if val, err = item.ValueCopy(nil); err != nil {
			return err
		}

		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.rel.Entry(key, string(val))

	return true, nil
}

func (s *Store) Lookup(key string) (string, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return string(val), true, nil
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

// All returns a sequence over all entries, read from a single consistent
// snapshot of the database. The store must not be modified while the
// sequence is being consumed; doing so panics. Read errors end the sequence
// early.
func (s *Store) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		s.visiting++
		defer func() { s.visiting-- }()

		txn := s.db.NewTransaction(false)
		defer txn.Discard()

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return
			}
			if !yield(string(item.KeyCopy(nil)), string(val)) {
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
	txn := s.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	// Enable key-only iteration, which is more efficient.
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	n := 0
	for it.Rewind(); it.Valid(); it.Next() {
		n++
	}

	return n
}

// Close releases all entries and closes the database.
func (s *Store) Close() error {
	s.checkMutable()
	for k, v := range s.All() {
		s.rel.Entry(k, v)
	}

	return s.db.Close()
}

// Released returns the number of keys and values released by the store.
func (s *Store) Released() int {
	return s.rel.Released()
}

func (s *Store) checkMutable() {
	if s.visiting > 0 {
		panic("badger: store modified during traversal")
	}
}
