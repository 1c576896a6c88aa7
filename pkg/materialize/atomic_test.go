package materialize

import (
	"testing"

	"github.com/arthur-debert/tmplsync/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	fs := filesystem.NewMemory()

	require.NoError(t, WriteFileAtomic(fs, "deep/dir/file.txt", []byte("hello")))

	data, err := fs.ReadFile("deep/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	// No temporary file left behind
	_, err = fs.ReadFile("deep/dir/file.txt" + tmpSuffix)
	assert.Error(t, err)
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("file.txt", []byte("old"), 0644))

	require.NoError(t, WriteFileAtomic(fs, "file.txt", []byte("new")))

	data, err := fs.ReadFile("file.txt")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}
