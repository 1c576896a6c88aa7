package fingerprint

import (
	"testing"

	"github.com/arthur-debert/tmplsync/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	fp := Bytes([]byte("Hello, World!\n"))

	assert.Contains(t, fp, "sha256:")
	assert.Len(t, fp, 71) // "sha256:" + 64 hex chars

	// Deterministic
	assert.Equal(t, fp, Bytes([]byte("Hello, World!\n")))

	// Content-sensitive
	assert.NotEqual(t, fp, Bytes([]byte("Hello, World!")))
}

func TestBytesEmpty(t *testing.T) {
	fp := Bytes(nil)
	assert.Len(t, fp, 71)
	assert.Equal(t, fp, Bytes([]byte{}))
}

func TestFile(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("a.txt", []byte("content"), 0644))

	fp, err := File(fs, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, Bytes([]byte("content")), fp)
}

func TestFileMissing(t *testing.T) {
	fs := filesystem.NewMemory()

	fp, err := File(fs, "does/not/exist.txt")
	require.NoError(t, err)
	assert.Empty(t, fp)
}
