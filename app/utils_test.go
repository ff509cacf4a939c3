package app

import (
	"bytes"
	"context"
	pathpkg "path"
	"sync"
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/require"

	actx "go.hackfix.me/confmap/app/context"
)

type testApp struct {
	*App
	fs             vfs.FileSystem
	stdout, stderr *bytes.Buffer
	env            *mockEnv
}

func newTestApp(t *testing.T, options ...Option) *testApp {
	t.Helper()

	var (
		stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
		env            = &mockEnv{env: map[string]string{}}
		fs             = memoryfs.New()
	)

	opts := []Option{
		WithContext(context.Background()),
		WithFDs(&bytes.Buffer{}, stdout, stderr),
		WithFS(fs),
		WithLogger(false),
		WithEnv(env),
	}
	opts = append(opts, options...)

	return &testApp{
		App: New(opts...), fs: fs, stdout: stdout, stderr: stderr, env: env,
	}
}

// Run resets the captured output and runs the app with args.
func (ta *testApp) Run(args ...string) error {
	ta.stdout.Reset()
	ta.stderr.Reset()

	return ta.App.Run(args)
}

func (ta *testApp) writeFile(t *testing.T, path, data string) {
	t.Helper()

	require.NoError(t, ta.fs.MkdirAll(pathpkg.Dir(path), 0o755))
	f, err := ta.fs.Create(path)
	require.NoError(t, err)
	_, err = f.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

type mockEnv struct {
	mx  sync.RWMutex
	env map[string]string
}

var _ actx.Environment = &mockEnv{}

func (me *mockEnv) Get(key string) string {
	me.mx.RLock()
	defer me.mx.RUnlock()
	return me.env[key]
}

func (me *mockEnv) Set(key, val string) error {
	me.mx.Lock()
	defer me.mx.Unlock()
	me.env[key] = val
	return nil
}
