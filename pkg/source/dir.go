package source

import (
	"context"
	"path"
	"sort"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// dirSource serves a local checkout of the template origin. The checkout is
// assumed to already be at the requested reference; the ref is recorded
// verbatim in sync records. Fetching the checkout itself (git clone, archive
// download) is the caller's concern.
type dirSource struct {
	fs   types.FS
	root string
}

// NewDir creates a ContentSource over a local directory
func NewDir(fsys types.FS, root string) types.ContentSource {
	return &dirSource{fs: fsys, root: root}
}

func (d *dirSource) List(ctx context.Context, ref string) ([]string, error) {
	var out []string

	var walk func(rel string) error
	walk = func(rel string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := d.fs.ReadDir(path.Join(d.root, rel))
		if err != nil {
			return errors.Wrapf(err, errors.ErrSourceList,
				"failed to list template directory %s", path.Join(d.root, rel))
		}
		for _, entry := range entries {
			name := entry.Name()
			child := path.Join(rel, name)
			if entry.IsDir() {
				if name == ".git" {
					continue
				}
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			out = append(out, child)
		}
		return nil
	}

	if err := walk(""); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (d *dirSource) Fetch(ctx context.Context, ref string, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := d.fs.ReadFile(path.Join(d.root, p))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceFetch, "failed to fetch %s", p)
	}
	return data, nil
}
