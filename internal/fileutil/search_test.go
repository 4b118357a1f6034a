package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n\nfunc main() {}\n")
	writeFile(t, filepath.Join(root, "util.go"), "package main\n\nconst needle = 42\n")
	writeFile(t, filepath.Join(root, "docs", "readme.md"), "# readme\nneedle mention\n")
	writeFile(t, filepath.Join(root, "docs", "notes.txt"), "nothing here\n")
	writeFile(t, filepath.Join(root, ".git", "config"), "needle in skipped dir\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"), []byte{'n', 0x00, 'e'}, 0644))
	return root
}

func TestFindByName(t *testing.T) {
	root := searchTree(t)

	matches, err := FindByName(root, "*.go")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "main.go"),
		filepath.Join(root, "util.go"),
	}, matches)
}

func TestFindByNameNested(t *testing.T) {
	root := searchTree(t)

	matches, err := FindByName(root, "docs/*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "docs", "readme.md")}, matches)

	// Base-name patterns match at any depth
	matches, err = FindByName(root, "*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "docs", "readme.md")}, matches)
}

func TestFindByNameSkipsVCSDirs(t *testing.T) {
	root := searchTree(t)

	matches, err := FindByName(root, "config")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindByNameEmptyPattern(t *testing.T) {
	_, err := FindByName(t.TempDir(), "")
	assert.Error(t, err)
}

func TestFindByNameNoMatches(t *testing.T) {
	root := searchTree(t)

	matches, err := FindByName(root, "*.rs")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindByContent(t *testing.T) {
	root := searchTree(t)

	matches, err := FindByContent(root, "needle")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "docs", "readme.md"),
		filepath.Join(root, "util.go"),
	}, matches)
}

func TestFindByContentSkipsBinary(t *testing.T) {
	root := searchTree(t)

	// blob.bin contains the bytes "n\x00e" but binary files are skipped
	matches, err := FindByContent(root, "n")
	require.NoError(t, err)
	assert.NotContains(t, matches, filepath.Join(root, "blob.bin"))
}

func TestFindByContentEmptyNeedle(t *testing.T) {
	_, err := FindByContent(t.TempDir(), "")
	assert.Error(t, err)
}

func TestFindByContentMissingRoot(t *testing.T) {
	_, err := FindByContent(filepath.Join(t.TempDir(), "absent"), "x")
	assert.Error(t, err)
}
