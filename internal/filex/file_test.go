package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeResolvesAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("previews")
	require.NoError(t, err)

	want := filepath.Join(tmp, "previews")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_AbsoluteAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "orders")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)

	require.Equal(t, dir, first)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsWhenPathIsFile(t *testing.T) {
	tmp := t.TempDir()
	f := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	_, err := EnsureDir(filepath.Join(f, "sub"))
	require.Error(t, err)
}

func TestCopyFile(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a.png")
	dst := filepath.Join(tmp, "b.png")
	require.NoError(t, os.WriteFile(src, []byte("image-bytes"), 0o600))

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(got))
}

func TestCopyFile_MissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := CopyFile(filepath.Join(tmp, "nope"), filepath.Join(tmp, "out"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "open")
}
