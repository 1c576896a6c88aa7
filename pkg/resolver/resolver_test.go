package resolver

import (
	"testing"

	"github.com/arthur-debert/tmplsync/pkg/bundles"
	"github.com/arthur-debert/tmplsync/pkg/config"
	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBundles = `
core:
  description: Baseline
  patterns:
    - .editorconfig
    - Makefile

python:
  description: Python tooling
  requires: [lint]
  patterns:
    - pyproject.toml
    - ruff.toml

lint:
  description: Lint config
  patterns:
    - .pre-commit-config.yaml

docs:
  description: Docs scaffolding
  patterns:
    - "docs/**"
`

var testListing = []string{
	".editorconfig",
	".pre-commit-config.yaml",
	"Makefile",
	"docs/guide.md",
	"docs/internal/notes.md",
	"extra/tool.cfg",
	"pyproject.toml",
	"ruff.toml",
	"src/main.py",
}

func loadGraph(t *testing.T) *bundles.Graph {
	t.Helper()
	graph, err := bundles.Load([]byte(testBundles))
	require.NoError(t, err)
	return graph
}

func loadConfig(t *testing.T, data string) *config.Config {
	t.Helper()
	cfg, err := config.LoadBytes([]byte(data))
	require.NoError(t, err)
	return cfg
}

func TestResolveBundleSelection(t *testing.T) {
	graph := loadGraph(t)
	cfg := loadConfig(t, `selected_bundles = ["python"]`)

	res, err := Resolve(graph, cfg, testListing)
	require.NoError(t, err)

	// python pulls in lint transitively, core is implicit
	assert.Equal(t, []string{
		".editorconfig",
		".pre-commit-config.yaml",
		"Makefile",
		"pyproject.toml",
		"ruff.toml",
	}, res.Files.Paths())

	prov, ok := res.Files.Provenance("pyproject.toml")
	require.True(t, ok)
	assert.Equal(t, []types.BundleID{"python"}, prov.Bundles)
	assert.False(t, prov.FreeInclude)
}

func TestResolveFreeIncludes(t *testing.T) {
	graph := loadGraph(t)
	cfg := loadConfig(t, `include = ["extra/**"]`)

	res, err := Resolve(graph, cfg, testListing)
	require.NoError(t, err)

	require.True(t, res.Files.Contains("extra/tool.cfg"))
	prov, _ := res.Files.Provenance("extra/tool.cfg")
	assert.True(t, prov.FreeInclude)
	assert.Empty(t, prov.Bundles)
}

func TestResolveExcludePrecedence(t *testing.T) {
	graph := loadGraph(t)
	cfg := loadConfig(t, `
selected_bundles = ["docs"]
include = ["docs/internal/**"]
exclude = ["docs/internal/**"]
`)

	res, err := Resolve(graph, cfg, testListing)
	require.NoError(t, err)

	assert.True(t, res.Files.Contains("docs/guide.md"))
	assert.False(t, res.Files.Contains("docs/internal/notes.md"))
}

func TestResolveDeterministic(t *testing.T) {
	graph := loadGraph(t)
	cfg := loadConfig(t, `
selected_bundles = ["python", "docs"]
include = ["extra/**"]
exclude = ["ruff.toml"]
`)

	first, err := Resolve(graph, cfg, testListing)
	require.NoError(t, err)
	second, err := Resolve(graph, cfg, testListing)
	require.NoError(t, err)

	assert.Equal(t, first.Files.Paths(), second.Files.Paths())
	for _, path := range first.Files.Paths() {
		p1, _ := first.Files.Provenance(path)
		p2, _ := second.Files.Provenance(path)
		assert.Equal(t, p1, p2)
	}
}

func TestResolveOverlappingBundlesIdempotent(t *testing.T) {
	data := `
core:
  patterns: [Makefile]
a:
  patterns: ["docs/**"]
b:
  patterns: ["docs/guide.md"]
`
	graph, err := bundles.Load([]byte(data))
	require.NoError(t, err)
	cfg := loadConfig(t, `selected_bundles = ["a", "b"]`)

	res, err := Resolve(graph, cfg, testListing)
	require.NoError(t, err)

	// Matched by both bundles, included once with merged provenance
	prov, ok := res.Files.Provenance("docs/guide.md")
	require.True(t, ok)
	assert.Equal(t, []types.BundleID{"a", "b"}, prov.Bundles)
}

func TestResolveUnknownBundle(t *testing.T) {
	graph := loadGraph(t)
	cfg := loadConfig(t, `selected_bundles = ["ghost"]`)

	_, err := Resolve(graph, cfg, testListing)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBundleUnknown))
}

func TestResolveRecommendationsSurface(t *testing.T) {
	data := `
core:
  patterns: [Makefile]
python:
  recommends: [docs]
  patterns: [pyproject.toml]
docs:
  patterns: ["docs/**"]
`
	graph, err := bundles.Load([]byte(data))
	require.NoError(t, err)
	cfg := loadConfig(t, `selected_bundles = ["python"]`)

	res, err := Resolve(graph, cfg, testListing)
	require.NoError(t, err)

	assert.Equal(t, []types.BundleID{"docs"}, res.Expansion.Recommended)
	// Advisory only: docs files are not part of the desired set
	assert.False(t, res.Files.Contains("docs/guide.md"))
}
