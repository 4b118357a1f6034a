package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceInFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "old value, old habit\n")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "old\n")
	writeFile(t, filepath.Join(root, "c.txt"), "untouched\n")

	n, err := ReplaceInFiles(root, "old", "new")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, _ := os.ReadFile(filepath.Join(root, "a.txt"))
	assert.Equal(t, "new value, new habit\n", string(data))
	data, _ = os.ReadFile(filepath.Join(root, "sub", "b.txt"))
	assert.Equal(t, "new\n", string(data))
	data, _ = os.ReadFile(filepath.Join(root, "c.txt"))
	assert.Equal(t, "untouched\n", string(data))
}

func TestReplaceInFilesSkipsBinary(t *testing.T) {
	root := t.TempDir()
	binary := []byte{'o', 'l', 'd', 0x00, 'x'}
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"), binary, 0644))

	n, err := ReplaceInFiles(root, "old", "new")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	data, _ := os.ReadFile(filepath.Join(root, "blob.bin"))
	assert.Equal(t, binary, data)
}

func TestReplaceInFilesPreservesMode(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo old\n"), 0755))

	n, err := ReplaceInFiles(root, "old", "new")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestReplaceInFilesNoMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "nothing to see\n")

	n, err := ReplaceInFiles(root, "absent", "x")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReplaceInFilesEmptyTarget(t *testing.T) {
	_, err := ReplaceInFiles(t.TempDir(), "", "x")
	assert.Error(t, err)
}

func TestReplaceInFilesMissingRoot(t *testing.T) {
	_, err := ReplaceInFiles(filepath.Join(t.TempDir(), "absent"), "a", "b")
	assert.Error(t, err)
}
