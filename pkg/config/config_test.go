package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesDefaults(t *testing.T) {
	cfg, err := LoadBytes(nil)
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.SourceRef)
	assert.Equal(t, types.PolicyFail, cfg.OnConflict)
	assert.Empty(t, cfg.SelectedBundles)
	assert.Empty(t, cfg.Include)
	assert.Empty(t, cfg.Exclude)
}

func TestLoadBytesOverridesDefaults(t *testing.T) {
	data := `
source_ref = "v2.3.0"
selected_bundles = ["python", "docs"]
include = ["extra/**"]
exclude = ["docs/internal/**"]
on_conflict = "keep-local"

[hooks]
pre = ["make check-clean"]
post = ["make fmt"]
`
	cfg, err := LoadBytes([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "v2.3.0", cfg.SourceRef)
	assert.Equal(t, []types.BundleID{"python", "docs"}, cfg.SelectedBundles)
	assert.Equal(t, []string{"extra/**"}, cfg.Include)
	assert.Equal(t, []string{"docs/internal/**"}, cfg.Exclude)
	assert.Equal(t, types.PolicyKeepLocal, cfg.OnConflict)
	assert.Equal(t, []string{"make check-clean"}, cfg.Hooks.Pre)
	assert.Equal(t, []string{"make fmt"}, cfg.Hooks.Post)
}

func TestLoadBytesUnknownKey(t *testing.T) {
	_, err := LoadBytes([]byte(`bundels = ["python"]`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Contains(t, err.Error(), "bundels")
}

func TestLoadBytesBadPolicy(t *testing.T) {
	_, err := LoadBytes([]byte(`on_conflict = "merge"`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadBytesEmptySourceRef(t *testing.T) {
	_, err := LoadBytes([]byte(`source_ref = ""`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadBytesBadPattern(t *testing.T) {
	_, err := LoadBytes([]byte(`exclude = ["docs/["]`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadBytesMalformedTOML(t *testing.T) {
	_, err := LoadBytes([]byte(`source_ref = `))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadFromProjectRoot(t *testing.T) {
	root := t.TempDir()
	data := []byte("source_ref = \"v1.0.0\"\nselected_bundles = [\"python\"]\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tmplsync.toml"), data, 0644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", cfg.SourceRef)
	assert.Equal(t, []types.BundleID{"python"}, cfg.SelectedBundles)
}

func TestLoadMissingProjectFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "main", cfg.SourceRef)
}
