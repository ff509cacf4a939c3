package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	_ "github.com/glebarez/go-sqlite"

	"go.hackfix.me/confmap/store"
)

const schema = `CREATE TABLE IF NOT EXISTS entries (
  seq   INTEGER PRIMARY KEY AUTOINCREMENT,
  key   TEXT NOT NULL UNIQUE,
  value TEXT NOT NULL
)`

// Store is a Store backed by a SQLite database. Entries are enumerated in
// insertion order.
type Store struct {
	db       *sql.DB
	ctx      context.Context
	rel      *store.Releaser
	visiting int
}

var _ store.Store = &Store{}

// Open opens the SQLite database at path, creating the schema if needed. Use
// ":memory:" for a transient database.
func Open(ctx context.Context, path string, opts ...store.Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// In-memory databases are private to a connection.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		ctx: ctx,
		rel: store.NewReleaser(store.NewOptions(opts...)),
	}, nil
}

func (s *Store) Insert(key, value string) error {
	s.checkMutable()
	res, err := s.db.ExecContext(s.ctx,
		`INSERT INTO entries (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
		key, value)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &store.DuplicateKeyError{Entry: store.Entry{Key: key, Value: value}}
	}

	return nil
}

func (s *Store) Replace(key, value string) error {
	s.checkMutable()
	tx, err := s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var old string
	err = tx.QueryRowContext(s.ctx,
		`SELECT value FROM entries WHERE key = ?`, key).Scan(&old)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if exists {
		_, err = tx.ExecContext(s.ctx,
			`UPDATE entries SET value = ? WHERE key = ?`, value, key)
	} else {
		_, err = tx.ExecContext(s.ctx,
			`INSERT INTO entries (key, value) VALUES (?, ?)`, key, value)
	}
	if err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	if exists {
		s.rel.Value(old)
	}

	return nil
}

func (s *Store) Remove(key string) (bool, error) {
	s.checkMutable()
	var val string
	err := s.db.QueryRowContext(s.ctx,
		`DELETE FROM entries WHERE key = ? RETURNING value`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.rel.Entry(key, val)

	return true, nil
}

func (s *Store) Lookup(key string) (string, bool, error) {
	var val string
	err := s.db.QueryRowContext(s.ctx,
		`SELECT value FROM entries WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return val, true, nil
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

// All returns a sequence over all entries. The entries are read before the
// first one is yielded, so the connection is free for lookups during the
// traversal. The store must not be modified while the sequence is being
// consumed; doing so panics. Query errors end the sequence early.
func (s *Store) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		entries, err := s.entries()
		if err != nil {
			return
		}

		s.visiting++
		defer func() { s.visiting-- }()
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
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
	var n int
	if err := s.db.QueryRowContext(s.ctx,
		`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0
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

func (s *Store) entries() ([]store.Entry, error) {
	rows, err := s.db.QueryContext(s.ctx,
		`SELECT key, value FROM entries ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []store.Entry{}
	for rows.Next() {
		var e store.Entry
		if err = rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *Store) checkMutable() {
	if s.visiting > 0 {
		panic("sqlite: store modified during traversal")
	}
}
