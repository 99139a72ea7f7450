package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"b.hcl", "a.hcl", "notes.txt", "nested/c.hcl", ".hidden/d.hcl"} {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "c.hcl"),
	}, files)

	_, err = FindFilesByExtension(root, "")
	assert.ErrorContains(t, err, "extension must not be empty")

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".hcl")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileExists(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(root))
	assert.False(t, FileExists(filepath.Join(root, "missing.txt")))
}
