package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/confmap/store"
	"go.hackfix.me/confmap/store/memory"
)

func TestStrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in, exp string
	}{
		{in: "", exp: ""},
		{in: " \t\r\n", exp: ""},
		{in: "\n\n", exp: ""},
		{in: "  key  ", exp: "key"},
		{in: "\tone two\r\n", exp: "one two"},
		{in: "a", exp: "a"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.exp, Strip(tc.in))
		})
	}
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		line   string
		exp    store.Entry
		expErr error
	}{
		{name: "ok/spaces", line: "  key  =  value  \n", exp: store.Entry{Key: "key", Value: "value"}},
		{name: "ok/no_spaces", line: "2=two", exp: store.Entry{Key: "2", Value: "two"}},
		{name: "ok/first_separator", line: "a=b=c", exp: store.Entry{Key: "a", Value: "b=c"}},
		{name: "ok/trailing_comment", line: "1 = one   # primary", exp: store.Entry{Key: "1", Value: "one"}},
		{name: "ok/semicolon_comment", line: "k=v;rest", exp: store.Entry{Key: "k", Value: "v"}},
		{name: "ok/empty_value", line: "key =   ", exp: store.Entry{Key: "key", Value: ""}},
		{name: "ok/tabs_crlf", line: "\tkey\t=\tsome value\r\n", exp: store.Entry{Key: "key", Value: "some value"}},
		{name: "err/comment_only", line: "# comment only", expErr: ErrMissingSeparator},
		{name: "err/semicolon_comment_only", line: "; comment line", expErr: ErrMissingSeparator},
		{name: "err/no_separator", line: "bad line without equals", expErr: ErrMissingSeparator},
		{name: "err/separator_in_comment", line: "key # = value", expErr: ErrMissingSeparator},
		{name: "err/blank", line: "   \n", expErr: ErrMissingSeparator},
		{name: "err/empty_key", line: " = value", expErr: ErrEmptyKey},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := ParseLine(tc.line)
			if tc.expErr != nil {
				assert.ErrorIs(t, err, tc.expErr)
				assert.Equal(t, store.Entry{}, e)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, e)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("err/missing_separator", func(t *testing.T) {
		data := "1 = one   # primary\n" +
			"2=two\n" +
			"; comment line\n" +
			"bad line without equals\n" +
			"3=three\n"
		s := memory.New()
		err := NewLoader().Load(strings.NewReader(data), s)

		var lineErr *LineError
		require.ErrorAs(t, err, &lineErr)
		assert.Equal(t, 4, lineErr.Line)
		assert.Equal(t, "bad line without equals", lineErr.Text)
		assert.ErrorIs(t, err, ErrMissingSeparator)
		assert.EqualError(t, err, "line 4: missing '='")
		assert.Equal(t, []store.Entry{
			{Key: "1", Value: "one"}, {Key: "2", Value: "two"},
		}, store.Collect(s))
	})

	t.Run("ok/blank_and_comments", func(t *testing.T) {
		data := "\n# header\n  \n\tkey = value ; note\r\n;\nother=\n"
		s := memory.New()
		require.NoError(t, NewLoader().Load(strings.NewReader(data), s))
		assert.Equal(t, []store.Entry{
			{Key: "key", Value: "value"}, {Key: "other", Value: ""},
		}, store.Collect(s))
	})

	t.Run("ok/no_trailing_newline", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, NewLoader().Load(strings.NewReader("a=1\nb=2"), s))
		assert.Equal(t, 2, s.Len())
	})

	t.Run("err/duplicate", func(t *testing.T) {
		s := memory.New(store.WithOwnedStrings())
		err := NewLoader().Load(strings.NewReader("a=1\nb=2\na=3\nc=4\n"), s)

		var lineErr *LineError
		require.ErrorAs(t, err, &lineErr)
		assert.Equal(t, 3, lineErr.Line)
		assert.ErrorIs(t, err, store.ErrDuplicateKey)

		var dupErr *store.DuplicateKeyError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, store.Entry{Key: "a", Value: "3"}, dupErr.Entry)

		val, err := store.Get(s, "a")
		require.NoError(t, err)
		assert.Equal(t, "1", val)
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, 0, s.Released())
	})

	t.Run("ok/duplicate_replace", func(t *testing.T) {
		s := memory.New()
		l := NewLoader(WithDuplicatePolicy(DuplicateReplace))
		require.NoError(t, l.Load(strings.NewReader("a=1\nb=2\na=3\n"), s))
		assert.Equal(t, []store.Entry{
			{Key: "a", Value: "3"}, {Key: "b", Value: "2"},
		}, store.Collect(s))
	})

	t.Run("err/empty_key", func(t *testing.T) {
		s := memory.New()
		err := NewLoader().Load(strings.NewReader("a=1\n=2\n"), s)
		assert.ErrorIs(t, err, ErrEmptyKey)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("err/line_too_long", func(t *testing.T) {
		data := "a=1\nb=" + strings.Repeat("x", MaxLineSize) + "\nc=3\n"
		s := memory.New()
		err := NewLoader().Load(strings.NewReader(data), s)

		var lineErr *LineError
		require.ErrorAs(t, err, &lineErr)
		assert.Equal(t, 2, lineErr.Line)
		assert.ErrorIs(t, err, ErrLineTooLong)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("ok/debug_log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf,
			&slog.HandlerOptions{Level: slog.LevelDebug}))
		s := memory.New()
		require.NoError(t, NewLoader(WithLogger(logger)).Load(strings.NewReader("a=1\n"), s))
		assert.Contains(t, buf.String(), `msg="loaded entry" line=1 key=a`)
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	memfs := memoryfs.New()
	writeFile(t, memfs, "/app.conf", "name = confmap\nmode=strict\n")

	t.Run("ok", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, NewLoader().LoadFile(memfs, "/app.conf", s))
		assert.Equal(t, []store.Entry{
			{Key: "name", Value: "confmap"}, {Key: "mode", Value: "strict"},
		}, store.Collect(s))
	})

	t.Run("err/missing_file", func(t *testing.T) {
		s := memory.New()
		err := NewLoader().LoadFile(memfs, "/missing.conf", s)

		var openErr *OpenError
		require.ErrorAs(t, err, &openErr)
		assert.Equal(t, "/missing.conf", openErr.Path)
		assert.Error(t, openErr.Err)
		assert.Equal(t, 0, s.Len())
	})
}

func writeFile(t *testing.T, fs vfs.FileSystem, path, data string) {
	t.Helper()

	f, err := fs.Create(path)
	require.NoError(t, err)
	_, err = f.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
