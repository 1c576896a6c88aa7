// Package patterns implements the glob pattern engine used for bundle
// file-ownership patterns and free-form include/exclude patterns.
//
// Patterns support `*` (single segment), `**` (recursive) and literal
// segments. A pattern containing no path separator matches the base name at
// any depth, which matches bundle authoring ergonomics: `ruff.toml` claims
// the file wherever it sits, without requiring `**/ruff.toml`.
package patterns

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/arthur-debert/tmplsync/pkg/errors"
)

// Validate checks that a pattern is well-formed
func Validate(pattern string) error {
	if pattern == "" {
		return errors.New(errors.ErrPatternInvalid, "pattern must not be empty")
	}
	if !doublestar.ValidatePattern(pattern) {
		return errors.Newf(errors.ErrPatternInvalid, "malformed pattern %q", pattern)
	}
	return nil
}

// Match reports whether a single pattern matches a project-relative path.
// Paths always use forward slashes, regardless of host OS.
func Match(pattern, p string) (bool, error) {
	if err := Validate(pattern); err != nil {
		return false, err
	}

	// A separator-less pattern matches the base name at any depth
	if !strings.Contains(pattern, "/") {
		return doublestar.Match(pattern, path.Base(p))
	}

	return doublestar.Match(pattern, p)
}

// MatchAny reports whether any of the patterns matches the path
func MatchAny(patterns []string, p string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := Match(pattern, p)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Filter returns the subset of paths matched by the pattern. Matching is
// idempotent: a path is returned at most once and input order is kept.
func Filter(paths []string, pattern string) ([]string, error) {
	var out []string
	for _, p := range paths {
		ok, err := Match(pattern, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ValidateAll validates a list of patterns, reporting the first bad one
func ValidateAll(patterns []string) error {
	for _, pattern := range patterns {
		if err := Validate(pattern); err != nil {
			return err
		}
	}
	return nil
}
