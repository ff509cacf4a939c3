// Package storetest provides a conformance test suite that every Store
// implementation is expected to pass.
package storetest

import (
	"bytes"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/confmap/store"
)

// Factory creates a new empty store for a single test.
type Factory func(t *testing.T, opts ...store.Option) store.Store

type releaseCounter interface {
	Released() int
}

// Run runs the conformance suite against stores created by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("ok/insert_lookup", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert("1", "one"))
		require.NoError(t, s.Insert("2", ""))

		val, ok, err := s.Lookup("1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "one", val)

		val, ok, err = s.Lookup("2")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "", val)

		val, ok, err = s.Lookup("3")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "", val)

		_, err = store.Get(s, "3")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("err/insert_duplicate", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert("1", "one"))

		err := s.Insert("1", "eleven")
		require.ErrorIs(t, err, store.ErrDuplicateKey)

		var dupErr *store.DuplicateKeyError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, store.Entry{Key: "1", Value: "eleven"}, dupErr.Entry)
		assert.EqualError(t, err, "key '1' already exists")

		val, err := store.Get(s, "1")
		require.NoError(t, err)
		assert.Equal(t, "one", val)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("ok/replace", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Replace("2", "two"))
		require.NoError(t, s.Replace("2", "twelve"))

		val, err := store.Get(s, "2")
		require.NoError(t, err)
		assert.Equal(t, "twelve", val)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("ok/remove", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"a", "b", "c"} {
			require.NoError(t, s.Insert(k, k+k))
		}
		assert.Equal(t, 3, s.Len())

		removed, err := s.Remove("missing")
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 3, s.Len())

		removed, err = s.Remove("b")
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, 2, s.Len())

		_, ok, err := s.Lookup("b")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ok/enumerate", func(t *testing.T) {
		s := newStore(t)
		want := []store.Entry{
			{Key: "1", Value: "one"}, {Key: "2", Value: "two"}, {Key: "3", Value: "three"},
		}
		for _, e := range want {
			require.NoError(t, s.Insert(e.Key, e.Value))
		}

		assert.ElementsMatch(t, []string{"1", "2", "3"}, slices.Collect(s.Keys()))
		assert.ElementsMatch(t, []string{"one", "two", "three"}, slices.Collect(s.Values()))
		assert.ElementsMatch(t, want, store.Collect(s))

		// Sequences are restartable.
		assert.Equal(t, slices.Collect(s.Keys()), slices.Collect(s.Keys()))

		visited := []store.Entry{}
		s.ForEach(func(k, v string) {
			visited = append(visited, store.Entry{Key: k, Value: v})
		})
		assert.Equal(t, store.Collect(s), visited)

		// Early termination.
		n := 0
		for range s.All() {
			n++
			break
		}
		assert.Equal(t, 1, n)
	})

	t.Run("err/mutate_during_traversal", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert("1", "one"))

		assert.Panics(t, func() {
			for k := range s.Keys() {
				_, _ = s.Remove(k)
			}
		})
		// The store is usable again once the traversal has ended.
		require.NoError(t, s.Insert("2", "two"))
	})

	t.Run("ok/owned_strings", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf,
			&slog.HandlerOptions{Level: slog.LevelDebug}))
		s := newStore(t, store.WithOwnedStrings(), store.WithLogger(logger))
		rc, ok := s.(releaseCounter)
		require.True(t, ok)

		require.NoError(t, s.Insert("1", "one"))
		require.NoError(t, s.Insert("2", "two"))
		require.Error(t, s.Insert("1", "eleven"))
		assert.Equal(t, 0, rc.Released())

		require.NoError(t, s.Replace("2", "twelve"))
		assert.Equal(t, 1, rc.Released())
		assert.Contains(t, buf.String(), `msg="released value" value=two`)

		_, err := s.Remove("1")
		require.NoError(t, err)
		assert.Equal(t, 3, rc.Released())
		assert.Contains(t, buf.String(), `msg="released key" key=1`)

		require.NoError(t, s.Close())
		assert.Equal(t, 5, rc.Released())
		assert.Contains(t, buf.String(), `msg="released value" value=twelve`)
	})

	t.Run("ok/not_owned_strings", func(t *testing.T) {
		s := newStore(t)
		rc, ok := s.(releaseCounter)
		require.True(t, ok)

		require.NoError(t, s.Insert("1", "one"))
		require.NoError(t, s.Replace("1", "eleven"))
		_, err := s.Remove("1")
		require.NoError(t, err)
		assert.Equal(t, 0, rc.Released())
	})
}
