package source

import (
	"context"
	"sort"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// Memory is an in-memory ContentSource keyed by reference. Tests use it to
// model upstream moving between refs without any filesystem.
type Memory struct {
	refs map[string]map[string][]byte
}

// NewMemory creates an empty in-memory content source
func NewMemory() *Memory {
	return &Memory{refs: make(map[string]map[string][]byte)}
}

// Add registers content for a path at a ref
func (m *Memory) Add(ref, path string, content []byte) {
	files, ok := m.refs[ref]
	if !ok {
		files = make(map[string][]byte)
		m.refs[ref] = files
	}
	files[path] = content
}

// List implements types.ContentSource
func (m *Memory) List(ctx context.Context, ref string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, ok := m.refs[ref]
	if !ok {
		return nil, errors.Newf(errors.ErrSourceList, "unknown ref %q", ref)
	}
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// Fetch implements types.ContentSource
func (m *Memory) Fetch(ctx context.Context, ref, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, ok := m.refs[ref]
	if !ok {
		return nil, errors.Newf(errors.ErrSourceFetch, "unknown ref %q", ref)
	}
	content, ok := files[path]
	if !ok {
		return nil, errors.Newf(errors.ErrSourceFetch, "no content for %s at ref %q", path, ref)
	}
	return content, nil
}

var _ types.ContentSource = (*Memory)(nil)
