package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesParentsWithMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "pool.json")

	require.NoError(t, WriteFile(path, []byte(`{"ok":true}`), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestWriteFile_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	require.NoError(t, os.WriteFile(path, []byte("old contents that are longer"), 0644))

	require.NoError(t, WriteFile(path, []byte("new"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStage_LeavesTargetUntilCommit(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "auth.json")
	second := filepath.Join(dir, "pool", "pool.json")
	require.NoError(t, os.WriteFile(first, []byte("before"), 0600))

	a, err := Stage(first, []byte("after"), 0600)
	require.NoError(t, err)
	b, err := Stage(second, []byte("pool"), 0600)
	require.NoError(t, err)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "before", string(data), "target must not change before commit")
	assert.NoFileExists(t, second)

	require.NoError(t, Commit(a, b))

	data, err = os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "after", string(data))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "pool", string(data))

	assertNoTempFiles(t, dir)
	assertNoTempFiles(t, filepath.Dir(second))
}

func TestStage_DiscardRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "auth.json")

	s, err := Stage(target, []byte("x"), 0600)
	require.NoError(t, err)
	s.Discard()
	s.Discard()

	assert.NoFileExists(t, target)
	assertNoTempFiles(t, dir)
}

func TestCommit_FailureDiscardsRemaining(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.json")
	blocked := filepath.Join(dir, "blocked")

	a, err := Stage(blocked, []byte("x"), 0600)
	require.NoError(t, err)
	b, err := Stage(ok, []byte("y"), 0600)
	require.NoError(t, err)

	// A non-empty directory at the target makes the rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(blocked, "child"), 0700))

	err = Commit(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), blocked)
	assert.NoFileExists(t, ok)
	assertNoTempFiles(t, dir)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
