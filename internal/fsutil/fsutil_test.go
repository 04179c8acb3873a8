package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/simreport/internal/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run", "plots")

	require.NoError(t, fsutil.EnsureDir(dir))
	require.NoError(t, fsutil.EnsureDir(dir), "existing directory must not be an error")

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.Error(t, fsutil.EnsureDir(path))
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")

	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("first")))
	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}
