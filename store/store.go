package store

import (
	"errors"
	"fmt"
	"iter"
)

// Entry is a single key-value pair held by a Store.
type Entry struct {
	Key   string
	Value string
}

// Store defines the operations key-value stores must implement. Keys are
// unique within a store. Implementations are not safe for concurrent use.
type Store interface {
	// Insert adds a new entry. It fails with a *DuplicateKeyError if the key
	// already exists, in which case the store is left unchanged and the
	// rejected entry is handed back to the caller inside the error.
	Insert(key, value string) error
	// Replace inserts the entry, or overwrites the value of an existing key.
	Replace(key, value string) error
	// Remove deletes the entry with the given key, and reports whether an
	// entry was removed.
	Remove(key string) (bool, error)
	// Lookup returns the value of key, and whether the key exists.
	Lookup(key string) (value string, ok bool, err error)

	Keys() iter.Seq[string]
	Values() iter.Seq[string]
	All() iter.Seq2[string, string]
	// ForEach calls fn once per entry, in enumeration order.
	ForEach(fn func(key, value string))
	Len() int

	// Close releases all entries and any resources held by the store.
	Close() error
}

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("key not found")
)

// DuplicateKeyError is returned when inserting a key that already exists.
// Entry is the rejected entry, which remains owned by the caller.
type DuplicateKeyError struct {
	Entry Entry
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key '%s' already exists", e.Entry.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// Get is a convenience wrapper around Lookup that returns ErrNotFound if the
// key doesn't exist.
func Get(s Store, key string) (string, error) {
	val, ok, err := s.Lookup(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: '%s'", ErrNotFound, key)
	}

	return val, nil
}

// Collect returns the entries of s in enumeration order.
func Collect(s Store) []Entry {
	entries := make([]Entry, 0, s.Len())
	for k, v := range s.All() {
		entries = append(entries, Entry{Key: k, Value: v})
	}

	return entries
}
