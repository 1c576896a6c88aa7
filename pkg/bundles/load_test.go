package bundles

import (
	"testing"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBundles = `
core:
  description: Baseline files every project gets
  patterns:
    - .editorconfig
    - Makefile

python:
  description: Python tooling
  requires: [lint]
  recommends: [docs]
  patterns:
    - pyproject.toml
    - ruff.toml

lint:
  description: Shared lint config
  patterns:
    - .pre-commit-config.yaml

docs:
  description: Documentation scaffolding
  patterns:
    - "docs/**"
`

func TestLoad(t *testing.T) {
	graph, err := Load([]byte(sampleBundles))
	require.NoError(t, err)

	python, ok := graph.Get("python")
	require.True(t, ok)
	assert.Equal(t, "Python tooling", python.Description)
	assert.Equal(t, []string{"pyproject.toml", "ruff.toml"}, python.Patterns)
	assert.Equal(t, []types.BundleID{"lint"}, python.Requires)
	assert.Equal(t, []types.BundleID{"docs"}, python.Recommends)

	assert.Equal(t, []types.BundleID{"core", "docs", "lint", "python"}, graph.IDs())
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	data := `
core:
  patterns: [Makefile]
  depends: [oops]
`
	_, err := Load([]byte(data))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Contains(t, err.Error(), "depends")
}

func TestLoadRejectsMissingCore(t *testing.T) {
	data := `
python:
  patterns: [pyproject.toml]
`
	_, err := Load([]byte(data))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBundleInvalid))
}

func TestLoadRejectsUndefinedRequire(t *testing.T) {
	data := `
core:
  patterns: [Makefile]
python:
  requires: [ghost]
  patterns: [pyproject.toml]
`
	_, err := Load([]byte(data))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBundleUnknown))
}

func TestLoadRejectsBadPattern(t *testing.T) {
	data := `
core:
  patterns: ["docs/["]
`
	_, err := Load([]byte(data))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadRejectsScalarBundle(t *testing.T) {
	data := `
core: not-a-mapping
`
	_, err := Load([]byte(data))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load([]byte("core: [unclosed"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}
