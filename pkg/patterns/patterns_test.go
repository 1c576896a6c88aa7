package patterns

import (
	"testing"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{
			name:    "literal path",
			pattern: "docs/style.md",
			path:    "docs/style.md",
			want:    true,
		},
		{
			name:    "literal path - no match",
			pattern: "docs/style.md",
			path:    "docs/other.md",
			want:    false,
		},
		{
			name:    "star matches single segment",
			pattern: "docs/*.md",
			path:    "docs/style.md",
			want:    true,
		},
		{
			name:    "star does not cross separators",
			pattern: "docs/*.md",
			path:    "docs/sub/style.md",
			want:    false,
		},
		{
			name:    "doublestar matches recursively",
			pattern: "docs/**/*.md",
			path:    "docs/sub/deep/style.md",
			want:    true,
		},
		{
			name:    "doublestar matches direct child",
			pattern: "docs/**/*.md",
			path:    "docs/style.md",
			want:    true,
		},
		{
			name:    "bare name matches at root",
			pattern: "ruff.toml",
			path:    "ruff.toml",
			want:    true,
		},
		{
			name:    "bare name matches at any depth",
			pattern: "ruff.toml",
			path:    "tools/lint/ruff.toml",
			want:    true,
		},
		{
			name:    "bare name does not match different base",
			pattern: "ruff.toml",
			path:    "tools/lint/mypy.toml",
			want:    false,
		},
		{
			name:    "bare glob matches base name at any depth",
			pattern: "*.editorconfig",
			path:    "sub/dir/x.editorconfig",
			want:    true,
		},
		{
			name:    "anchored doublestar variant",
			pattern: "**/ruff.toml",
			path:    "tools/lint/ruff.toml",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(tt.pattern, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchInvalidPattern(t *testing.T) {
	_, err := Match("docs/[", "docs/a")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))

	_, err = Match("", "docs/a")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))
}

func TestMatchAny(t *testing.T) {
	pats := []string{"*.md", "ci/**"}

	ok, err := MatchAny(pats, "ci/workflows/test.yml")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MatchAny(pats, "src/main.go")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	paths := []string{
		"README.md",
		"docs/guide.md",
		"src/main.go",
		"docs/sub/deep.md",
	}

	got, err := Filter(paths, "docs/**")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/guide.md", "docs/sub/deep.md"}, got)

	// Idempotent: each path appears at most once, in input order
	got, err = Filter(paths, "*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "docs/guide.md", "docs/sub/deep.md"}, got)
}

func TestValidateAll(t *testing.T) {
	require.NoError(t, ValidateAll([]string{"*.md", "docs/**"}))

	err := ValidateAll([]string{"*.md", "bad["})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))
}
