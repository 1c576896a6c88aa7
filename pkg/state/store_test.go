package state

import (
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/filesystem"
	"github.com/arthur-debert/tmplsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmptyStore(t *testing.T) {
	fs := filesystem.NewMemory()

	store, err := Load(fs, ".tmplsync/state.yaml")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	fs := filesystem.NewMemory()
	syncedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	store := NewStore()
	store.Set(types.SyncRecord{
		Path:                "b.txt",
		UpstreamFingerprint: "sha256:bbbb",
		SourceRef:           "v1.0.0",
		SyncedAt:            syncedAt,
	})
	store.Set(types.SyncRecord{
		Path:                "a.txt",
		UpstreamFingerprint: "sha256:aaaa",
		SourceRef:           "v1.0.0",
		SyncedAt:            syncedAt,
	})

	require.NoError(t, store.Save(fs, ".tmplsync/state.yaml"))

	loaded, err := Load(fs, ".tmplsync/state.yaml")
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())

	rec, ok := loaded.Get("a.txt")
	require.True(t, ok)
	assert.Equal(t, "sha256:aaaa", rec.UpstreamFingerprint)
	assert.Equal(t, "v1.0.0", rec.SourceRef)
	assert.True(t, rec.SyncedAt.Equal(syncedAt))
}

func TestSaveOrderedByPath(t *testing.T) {
	fs := filesystem.NewMemory()

	store := NewStore()
	for _, path := range []string{"z.txt", "m/n.txt", "a.txt"} {
		store.Set(types.SyncRecord{Path: path, UpstreamFingerprint: "sha256:x", SourceRef: "main"})
	}
	require.NoError(t, store.Save(fs, "state.yaml"))

	data, err := fs.ReadFile("state.yaml")
	require.NoError(t, err)

	text := string(data)
	// Human-diffable: records appear sorted by path
	assert.Less(t, strings.Index(text, "a.txt"), strings.Index(text, "m/n.txt"))
	assert.Less(t, strings.Index(text, "m/n.txt"), strings.Index(text, "z.txt"))
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("state.yaml", []byte("files: [unclosed"), 0644))

	_, err := Load(fs, "state.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStateLoad))
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("state.yaml", []byte("version: 99\nfiles: []\n"), 0644))

	_, err := Load(fs, "state.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStateLoad))
}

func TestDelete(t *testing.T) {
	store := NewStore()
	store.Set(types.SyncRecord{Path: "a.txt"})
	store.Delete("a.txt")

	_, ok := store.Get("a.txt")
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	store := NewStore()
	store.Set(types.SyncRecord{Path: "a.txt", UpstreamFingerprint: "sha256:1"})

	clone := store.Clone()
	clone.Set(types.SyncRecord{Path: "a.txt", UpstreamFingerprint: "sha256:2"})
	clone.Set(types.SyncRecord{Path: "b.txt"})

	rec, _ := store.Get("a.txt")
	assert.Equal(t, "sha256:1", rec.UpstreamFingerprint)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 2, clone.Len())
}
