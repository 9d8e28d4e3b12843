package venv

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"pysel/src/internal/platform"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memScanner(t *testing.T, files ...string) *Scanner {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj", 0755))
	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0755))
		require.NoError(t, afero.WriteFile(fs, f, []byte("#!"), 0755))
	}
	return &Scanner{FS: fs, Platform: platform.For("linux")}
}

func TestFindInterpreterDotVenv(t *testing.T) {
	s := memScanner(t, "/proj/.venv/bin/python", "/proj/src/main.py")

	exe, ok, err := s.FindInterpreter(context.Background(), "/proj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/proj/.venv/bin/python", exe)
	assert.Equal(t, "/proj/.venv", Root(s.Platform, exe))
	assert.Equal(t, "/proj/.venv/bin", BinDir(s.Platform, exe))
}

func TestFindInterpreterWindowsLayout(t *testing.T) {
	s := memScanner(t, "/proj/env/Scripts/python.exe")

	exe, ok, err := s.FindInterpreter(context.Background(), "/proj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/proj/env/Scripts/python.exe", exe)
	assert.Equal(t, "/proj/env", Root(s.Platform, exe))
}

func TestFindInterpreterNone(t *testing.T) {
	s := memScanner(t, "/proj/src/app/main.py", "/proj/bin/python")

	exe, ok, err := s.FindInterpreter(context.Background(), "/proj")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, exe)
}

func TestFindInterpreterDepthFirst(t *testing.T) {
	s := memScanner(t,
		"/proj/a/deep/venv/bin/python",
		"/proj/b/bin/python",
	)

	exe, ok, err := s.FindInterpreter(context.Background(), "/proj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/proj/a/deep/venv/bin/python", exe)
}

func TestFindInterpreterMaxDepth(t *testing.T) {
	s := memScanner(t, "/proj/a/b/venv/bin/python")

	s.MaxDepth = 2
	_, ok, err := s.FindInterpreter(context.Background(), "/proj")
	require.NoError(t, err)
	assert.False(t, ok)

	s.MaxDepth = 3
	exe, ok, err := s.FindInterpreter(context.Background(), "/proj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/proj/a/b/venv/bin/python", exe)
}

func TestFindInterpreterSkip(t *testing.T) {
	s := memScanner(t,
		"/proj/node_modules/x/bin/python",
		"/proj/z/.venv/bin/python",
	)
	s.Skip = []string{"node_modules"}

	exe, ok, err := s.FindInterpreter(context.Background(), "/proj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/proj/z/.venv/bin/python", exe)
}

func TestFindInterpreterResultSitsUnderItsRoot(t *testing.T) {
	for _, file := range []string{"/proj/.venv/bin/python", "/proj/x/y/Scripts/python.exe"} {
		s := memScanner(t, file)
		exe, ok, err := s.FindInterpreter(context.Background(), "/proj")
		require.NoError(t, err)
		require.True(t, ok)

		root := Root(s.Platform, exe)
		rel, err := filepath.Rel(root, exe)
		require.NoError(t, err)
		assert.Contains(t, []string{"bin/python", "Scripts/python.exe"}, filepath.ToSlash(rel))
	}
}

func TestFindInterpreterCancelled(t *testing.T) {
	s := memScanner(t, "/proj/.venv/bin/python")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := s.FindInterpreter(ctx, "/proj")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestFindInterpreterDoesNotFollowSymlinkLoops(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0755))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "pkg", "loop")))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "zz", ".venv", "bin"), 0755))
	real := filepath.Join(root, "python3.12")
	require.NoError(t, os.WriteFile(real, []byte("#!"), 0755))
	require.NoError(t, os.Symlink(real, filepath.Join(root, "zz", ".venv", "bin", "python")))

	exe, ok, err := NewScanner().FindInterpreter(context.Background(), root)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "zz", ".venv", "bin", "python"), exe)
}

func TestFindInterpreterSkipsUnreadableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.MkdirAll(filepath.Join(locked, "inner"), 0755))
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })
	require.NoError(t, os.MkdirAll(filepath.Join(root, "venv", "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "venv", "bin", "python"), []byte("#!"), 0755))

	exe, ok, err := NewScanner().FindInterpreter(context.Background(), root)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "venv", "bin", "python"), exe)
}
